package strategy

import (
	"image"

	"go-tamper-inspector/internal/analyzer"
	"go-tamper-inspector/pkg/models"
)

// DetectionResult is the strategy-independent outcome of scoring one frame.
// Smear-only strategies leave every score except SmearScore at zero.
type DetectionResult struct {
	Scores  models.TamperScores
	Metrics models.FrameMetrics
}

// DetectionStrategy defines the interface for different frame scoring strategies
type DetectionStrategy interface {
	Detect(img image.Image) (DetectionResult, error)
	GetStrategyName() string
}

// FullScanStrategy scores every tamper signal on the frame
type FullScanStrategy struct {
	analyzer analyzer.FrameAnalyzer
	options  analyzer.AnalysisOptions
}

// NewFullScanStrategy creates a new full scan strategy
func NewFullScanStrategy(frameAnalyzer analyzer.FrameAnalyzer) DetectionStrategy {
	return &FullScanStrategy{
		analyzer: frameAnalyzer,
		options:  analyzer.DefaultOptions(),
	}
}

// Detect performs a full tamper scan
func (s *FullScanStrategy) Detect(img image.Image) (DetectionResult, error) {
	scores, metrics, err := s.analyzer.AnalyzeFrame(img, s.options)
	if err != nil {
		return DetectionResult{}, err
	}
	return DetectionResult{Scores: scores, Metrics: metrics}, nil
}

// GetStrategyName returns the strategy name
func (s *FullScanStrategy) GetStrategyName() string {
	return "full_scan"
}

// SmearOnlyStrategy scores lens obstruction alone
type SmearOnlyStrategy struct {
	analyzer analyzer.FrameAnalyzer
	options  analyzer.AnalysisOptions
}

// NewSmearOnlyStrategy creates a new smear-only strategy
func NewSmearOnlyStrategy(frameAnalyzer analyzer.FrameAnalyzer) DetectionStrategy {
	return &SmearOnlyStrategy{
		analyzer: frameAnalyzer,
		options:  analyzer.DefaultOptions(),
	}
}

// Detect scores only the smear signal
func (s *SmearOnlyStrategy) Detect(img image.Image) (DetectionResult, error) {
	result, metrics, err := s.analyzer.AnalyzeSmear(img, s.options)
	if err != nil {
		return DetectionResult{}, err
	}
	return DetectionResult{
		Scores:  models.TamperScores{SmearScore: result.SmearScore},
		Metrics: metrics,
	}, nil
}

// GetStrategyName returns the strategy name
func (s *SmearOnlyStrategy) GetStrategyName() string {
	return "smear_only"
}

// FastScanStrategy trades score fidelity for latency by downscaling large
// frames before the full scan
type FastScanStrategy struct {
	analyzer analyzer.FrameAnalyzer
	options  analyzer.AnalysisOptions
}

// NewFastScanStrategy creates a new fast scan strategy
func NewFastScanStrategy(frameAnalyzer analyzer.FrameAnalyzer) DetectionStrategy {
	return &FastScanStrategy{
		analyzer: frameAnalyzer,
		options:  analyzer.FastOptions(),
	}
}

// Detect performs a downscaled tamper scan
func (s *FastScanStrategy) Detect(img image.Image) (DetectionResult, error) {
	scores, metrics, err := s.analyzer.AnalyzeFrame(img, s.options)
	if err != nil {
		return DetectionResult{}, err
	}
	return DetectionResult{Scores: scores, Metrics: metrics}, nil
}

// GetStrategyName returns the strategy name
func (s *FastScanStrategy) GetStrategyName() string {
	return "fast_scan"
}

// DetectionContext manages the active scoring strategy
type DetectionContext struct {
	strategy DetectionStrategy
}

// NewDetectionContext creates a new detection context
func NewDetectionContext(strategy DetectionStrategy) *DetectionContext {
	return &DetectionContext{
		strategy: strategy,
	}
}

// SetStrategy changes the scoring strategy
func (c *DetectionContext) SetStrategy(strategy DetectionStrategy) {
	c.strategy = strategy
}

// ExecuteDetection scores a frame using the current strategy
func (c *DetectionContext) ExecuteDetection(img image.Image) (DetectionResult, error) {
	return c.strategy.Detect(img)
}

// GetCurrentStrategy returns the current strategy name
func (c *DetectionContext) GetCurrentStrategy() string {
	return c.strategy.GetStrategyName()
}
