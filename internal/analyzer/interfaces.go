package analyzer

import "image"

// FrameAnalyzer defines the main interface for tamper scoring
type FrameAnalyzer interface {
	// AnalyzeFrame scores one frame for blur, blackout, flash and smear
	AnalyzeFrame(img image.Image, options AnalysisOptions) (TamperScores, FrameMetrics, error)

	// AnalyzeSmear scores one frame for smear only
	AnalyzeSmear(img image.Image, options AnalysisOptions) (SmearResult, FrameMetrics, error)

	// CompareFrames scores the difference between consecutive frames.
	// A nil or empty previous frame scores 0; mismatched dimensions are
	// rejected with ErrDimensionMismatch.
	CompareFrames(current, previous image.Image, options AnalysisOptions) (SceneChange, error)

	// Lifecycle management
	Close() error
}

// MetricsCalculator handles the per-raster measurement scans
type MetricsCalculator interface {
	LaplacianVariance(r *Raster) float64
	EdgeDensity(r *Raster) float64
	MeanAbsDiff(a, b *Raster) float64
}
