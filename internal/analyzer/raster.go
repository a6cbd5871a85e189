package analyzer

import (
	"errors"
	"image"
	"image/draw"
	"math"

	xdraw "golang.org/x/image/draw"
)

var (
	// ErrEmptyFrame is returned when a frame is nil or has no pixels
	ErrEmptyFrame = errors.New("empty frame")

	// ErrDimensionMismatch is returned when a frame pair cannot be compared
	ErrDimensionMismatch = errors.New("frame dimensions do not match")
)

// Raster is a row-major single-channel intensity grid. All scoring operates on
// rasters; callers must not mutate Pix after construction.
type Raster struct {
	Width  int
	Height int
	Pix    []uint8
}

// NewRaster allocates a zeroed raster of the given size
func NewRaster(width, height int) *Raster {
	return &Raster{
		Width:  width,
		Height: height,
		Pix:    make([]uint8, width*height),
	}
}

// row returns one row of the raster without copying
func (r *Raster) row(y int) []uint8 {
	return r.Pix[y*r.Width : (y+1)*r.Width]
}

// RasterFromImage converts a decoded frame to its intensity raster using the
// Rec. 601 luma weighting of the standard image/color conversion. Grayscale
// sources are copied without conversion.
func RasterFromImage(img image.Image) (*Raster, error) {
	if img == nil {
		return nil, ErrEmptyFrame
	}
	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	if width <= 0 || height <= 0 {
		return nil, ErrEmptyFrame
	}

	gray, ok := img.(*image.Gray)
	if !ok {
		gray = image.NewGray(bounds)
		draw.Draw(gray, bounds, img, bounds.Min, draw.Src)
	}

	r := NewRaster(width, height)
	for y := 0; y < height; y++ {
		off := gray.PixOffset(bounds.Min.X, bounds.Min.Y+y)
		copy(r.row(y), gray.Pix[off:off+width])
	}
	return r, nil
}

// rasterize converts a frame to a raster, applying the optional downscale
// before conversion
func rasterize(img image.Image, options AnalysisOptions) (*Raster, error) {
	if img == nil {
		return nil, ErrEmptyFrame
	}
	bounds := img.Bounds()
	if bounds.Dx() <= 0 || bounds.Dy() <= 0 {
		return nil, ErrEmptyFrame
	}
	if n := options.DownscaleLongEdge; n > 0 && (bounds.Dx() > n || bounds.Dy() > n) {
		img = scaleToLongEdge(img, n)
	}
	return RasterFromImage(img)
}

// scaleToLongEdge resizes a frame so its longest edge equals longEdge,
// preserving aspect ratio
func scaleToLongEdge(img image.Image, longEdge int) image.Image {
	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()

	var newWidth, newHeight int
	if width >= height {
		newWidth = longEdge
		newHeight = height * longEdge / width
	} else {
		newHeight = longEdge
		newWidth = width * longEdge / height
	}
	if newWidth < 1 {
		newWidth = 1
	}
	if newHeight < 1 {
		newHeight = 1
	}

	dst := image.NewGray(image.Rect(0, 0, newWidth, newHeight))
	xdraw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, bounds, xdraw.Src, nil)
	return dst
}

// IntensityHistogram counts pixels per intensity value. The moments and band
// shares derived from it are exact because intensities are integers.
type IntensityHistogram struct {
	counts [256]uint64
	total  uint64
}

// NewIntensityHistogram builds the histogram of a raster in one pass
func NewIntensityHistogram(r *Raster) *IntensityHistogram {
	var h IntensityHistogram
	for _, p := range r.Pix {
		h.counts[p]++
	}
	h.total = uint64(len(r.Pix))
	return &h
}

// Count returns the number of pixels with the given intensity
func (h *IntensityHistogram) Count(intensity int) uint64 {
	if intensity < 0 || intensity > 255 {
		return 0
	}
	return h.counts[intensity]
}

// Total returns the number of counted pixels
func (h *IntensityHistogram) Total() uint64 {
	return h.total
}

// Percent returns the share of pixels in the inclusive intensity range
// [lo, hi] as a percentage of all pixels
func (h *IntensityHistogram) Percent(lo, hi int) float64 {
	if h.total == 0 {
		return 0
	}
	if lo < 0 {
		lo = 0
	}
	if hi > 255 {
		hi = 255
	}
	var sum uint64
	for i := lo; i <= hi; i++ {
		sum += h.counts[i]
	}
	return float64(sum) / float64(h.total) * 100.0
}

// Mean returns the average intensity
func (h *IntensityHistogram) Mean() float64 {
	if h.total == 0 {
		return 0
	}
	var sum float64
	for i, n := range h.counts {
		sum += float64(i) * float64(n)
	}
	return sum / float64(h.total)
}

// StdDev returns the population standard deviation of the intensities
func (h *IntensityHistogram) StdDev() float64 {
	if h.total == 0 {
		return 0
	}
	mean := h.Mean()
	var ss float64
	for i, n := range h.counts {
		d := float64(i) - mean
		ss += d * d * float64(n)
	}
	return math.Sqrt(ss / float64(h.total))
}

// MinIntensity returns the lowest occupied intensity, 0 for an empty histogram
func (h *IntensityHistogram) MinIntensity() int {
	for i, n := range h.counts {
		if n > 0 {
			return i
		}
	}
	return 0
}

// MaxIntensity returns the highest occupied intensity, 0 for an empty histogram
func (h *IntensityHistogram) MaxIntensity() int {
	for i := 255; i >= 0; i-- {
		if h.counts[i] > 0 {
			return i
		}
	}
	return 0
}

// Distribution folds the histogram into ten equal-width bands, each entry the
// percentage of pixels in that band
func (h *IntensityHistogram) Distribution() [10]float64 {
	var out [10]float64
	if h.total == 0 {
		return out
	}
	for i, n := range h.counts {
		out[i*10/256] += float64(n)
	}
	for i := range out {
		out[i] = out[i] / float64(h.total) * 100.0
	}
	return out
}
