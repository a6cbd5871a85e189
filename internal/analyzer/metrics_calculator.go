package analyzer

import (
	"math"
	"runtime"
	"sync"

	"gonum.org/v1/gonum/stat"
)

const (
	// Hysteresis thresholds for edge linking, matching the conventional
	// Canny 50/150 pairing on Sobel gradient magnitude
	weakEdgeThreshold   = 50.0
	strongEdgeThreshold = 150.0

	// Rasters below this pixel count are scanned sequentially
	parallelThreshold = 100000
)

// Pixel states during edge linking
const (
	nonEdgePixel = uint8(iota)
	weakPixel
	strongPixel
	linkedPixel
)

// metricsCalculator implements MetricsCalculator with parallel row-strip
// scans for large rasters
type metricsCalculator struct {
	slicePool sync.Pool
}

// NewMetricsCalculator creates a new metrics calculator
func NewMetricsCalculator() MetricsCalculator {
	return &metricsCalculator{
		slicePool: sync.Pool{
			New: func() interface{} {
				return make([]float64, 0, 1024)
			},
		},
	}
}

// LaplacianVariance computes the population variance of the 3x3 Laplacian
// response over every pixel. Borders are sampled with reflect-101 so a 1x1
// raster yields 0.
func (mc *metricsCalculator) LaplacianVariance(r *Raster) float64 {
	width, height := r.Width, r.Height
	if width == 0 || height == 0 {
		return 0
	}

	data := mc.slicePool.Get().([]float64)
	if cap(data) < width*height {
		data = make([]float64, 0, width*height)
	}
	data = data[:width*height]
	defer func() { mc.slicePool.Put(data[:0]) }()

	// Laplacian kernel: [0, 1, 0; 1, -4, 1; 0, 1, 0]
	forEachStrip(height, width*height, func(startY, endY int) {
		for y := startY; y < endY; y++ {
			up := r.row(reflect101(y-1, height))
			row := r.row(y)
			down := r.row(reflect101(y+1, height))
			out := data[y*width : (y+1)*width]
			for x := 0; x < width; x++ {
				left := row[reflect101(x-1, width)]
				right := row[reflect101(x+1, width)]
				out[x] = float64(up[x]) + float64(down[x]) +
					float64(left) + float64(right) - 4*float64(row[x])
			}
		}
	})

	return stat.PopVariance(data, nil)
}

// EdgeDensity computes the fraction of pixels that belong to linked edges.
// Sobel gradient magnitudes are classified against the weak and strong
// thresholds, then weak pixels are kept only when 8-connected to a strong
// one. Border pixels are never edges, so rasters narrower than 3 pixels
// score 0.
func (mc *metricsCalculator) EdgeDensity(r *Raster) float64 {
	width, height := r.Width, r.Height
	if width < 3 || height < 3 {
		return 0
	}

	grid := make([]uint8, width*height)

	forEachStrip(height, width*height, func(startY, endY int) {
		for y := startY; y < endY; y++ {
			if y == 0 || y == height-1 {
				continue
			}
			up := r.row(y - 1)
			row := r.row(y)
			down := r.row(y + 1)
			for x := 1; x < width-1; x++ {
				gx := int(up[x+1]) - int(up[x-1]) +
					2*int(row[x+1]) - 2*int(row[x-1]) +
					int(down[x+1]) - int(down[x-1])
				gy := int(down[x-1]) - int(up[x-1]) +
					2*int(down[x]) - 2*int(up[x]) +
					int(down[x+1]) - int(up[x+1])

				magnitude := math.Sqrt(float64(gx*gx + gy*gy))
				switch {
				case magnitude > strongEdgeThreshold:
					grid[y*width+x] = strongPixel
				case magnitude > weakEdgeThreshold:
					grid[y*width+x] = weakPixel
				}
			}
		}
	})

	return float64(linkEdges(grid, width, height)) / float64(width*height)
}

// linkEdges walks the classified gradient grid and counts every strong pixel
// plus every weak pixel reachable from one through 8-connected weak chains
func linkEdges(grid []uint8, width, height int) int {
	count := 0
	stack := make([]int, 0, 256)

	for i := range grid {
		if grid[i] != strongPixel {
			continue
		}
		grid[i] = linkedPixel
		count++
		stack = append(stack, i)

		for len(stack) > 0 {
			idx := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			x, y := idx%width, idx/width

			for dy := -1; dy <= 1; dy++ {
				for dx := -1; dx <= 1; dx++ {
					if dx == 0 && dy == 0 {
						continue
					}
					nx, ny := x+dx, y+dy
					if nx < 0 || ny < 0 || nx >= width || ny >= height {
						continue
					}
					n := ny*width + nx
					if grid[n] == weakPixel || grid[n] == strongPixel {
						grid[n] = linkedPixel
						count++
						stack = append(stack, n)
					}
				}
			}
		}
	}
	return count
}

// MeanAbsDiff computes the mean absolute per-pixel difference between two
// rasters of equal dimensions. CompareFrames enforces the dimension check.
func (mc *metricsCalculator) MeanAbsDiff(a, b *Raster) float64 {
	width, height := a.Width, a.Height
	if width == 0 || height == 0 {
		return 0
	}

	numStrips := stripCount(height, width*height)
	partials := make(chan uint64, numStrips)
	var wg sync.WaitGroup

	rows := (height + numStrips - 1) / numStrips
	for i := 0; i < numStrips; i++ {
		startY := i * rows
		endY := startY + rows
		if endY > height {
			endY = height
		}
		if startY >= endY {
			break
		}
		wg.Add(1)
		go func(startY, endY int) {
			defer wg.Done()
			var sum uint64
			for y := startY; y < endY; y++ {
				rowA := a.row(y)
				rowB := b.row(y)
				for x := 0; x < width; x++ {
					d := int(rowA[x]) - int(rowB[x])
					if d < 0 {
						d = -d
					}
					sum += uint64(d)
				}
			}
			partials <- sum
		}(startY, endY)
	}

	go func() {
		wg.Wait()
		close(partials)
	}()

	var total uint64
	for sum := range partials {
		total += sum
	}
	return float64(total) / float64(width*height)
}

// reflect101 mirrors an out-of-range coordinate about the border pixel,
// so index -1 maps to 1 and n maps to n-2
func reflect101(i, n int) int {
	if n == 1 {
		return 0
	}
	if i < 0 {
		return -i
	}
	if i >= n {
		return 2*n - 2 - i
	}
	return i
}

// stripCount picks the number of row strips for a raster size
func stripCount(height, pixels int) int {
	if pixels < parallelThreshold {
		return 1
	}
	workers := runtime.NumCPU()
	if workers > height {
		workers = height
	}
	if workers < 1 {
		workers = 1
	}
	return workers
}

// forEachStrip runs fn over disjoint horizontal strips, in parallel when the
// raster is large enough. Strips write to disjoint row ranges so callers need
// no further synchronization.
func forEachStrip(height, pixels int, fn func(startY, endY int)) {
	workers := stripCount(height, pixels)
	if workers == 1 {
		fn(0, height)
		return
	}

	rows := (height + workers - 1) / workers
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		startY := i * rows
		endY := startY + rows
		if endY > height {
			endY = height
		}
		if startY >= endY {
			break
		}
		wg.Add(1)
		go func(startY, endY int) {
			defer wg.Done()
			fn(startY, endY)
		}(startY, endY)
	}
	wg.Wait()
}
