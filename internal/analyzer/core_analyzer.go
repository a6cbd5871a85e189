package analyzer

import (
	"errors"
	"image"
	"sync"
)

// coreAnalyzer implements FrameAnalyzer and orchestrates the measurement
// scans behind the score formulas
type coreAnalyzer struct {
	workerPool *WorkerPool
	metrics    MetricsCalculator
}

// NewFrameAnalyzer creates a frame analyzer. The options fix the worker pool
// size; per-call options control everything else.
func NewFrameAnalyzer(options AnalysisOptions) (FrameAnalyzer, error) {
	workerPool := NewWorkerPool(options.MaxWorkers)
	workerPool.Start()

	return &coreAnalyzer{
		workerPool: workerPool,
		metrics:    NewMetricsCalculator(),
	}, nil
}

// AnalyzeFrame scores one frame for blur, blackout, flash and smear
func (ca *coreAnalyzer) AnalyzeFrame(img image.Image, options AnalysisOptions) (TamperScores, FrameMetrics, error) {
	r, err := rasterize(img, options)
	if err != nil {
		return TamperScores{}, FrameMetrics{}, err
	}

	st := ca.scan(r, options)
	scores := TamperScores{
		BlurScore:     BlurScore(st.laplacianVar),
		BlackoutScore: BlackoutScore(st.mean, st.deepDarkPct),
		FlashScore:    FlashScore(st.highlightPct),
		SmearScore:    smearFromStats(st),
	}
	return scores, st.metrics(), nil
}

// AnalyzeSmear scores one frame for smear only
func (ca *coreAnalyzer) AnalyzeSmear(img image.Image, options AnalysisOptions) (SmearResult, FrameMetrics, error) {
	r, err := rasterize(img, options)
	if err != nil {
		return SmearResult{}, FrameMetrics{}, err
	}

	st := ca.scan(r, options)
	return SmearResult{SmearScore: smearFromStats(st)}, st.metrics(), nil
}

// CompareFrames scores the difference between consecutive frames. The
// dimension check runs on the original frames, before any downscale.
func (ca *coreAnalyzer) CompareFrames(current, previous image.Image, options AnalysisOptions) (SceneChange, error) {
	if current == nil {
		return SceneChange{}, ErrEmptyFrame
	}
	currentBounds := current.Bounds()
	if currentBounds.Dx() <= 0 || currentBounds.Dy() <= 0 {
		return SceneChange{}, ErrEmptyFrame
	}

	// No previous frame: nothing to compare against
	if previous == nil {
		return SceneChange{}, nil
	}
	previousBounds := previous.Bounds()
	if previousBounds.Dx() <= 0 || previousBounds.Dy() <= 0 {
		return SceneChange{}, nil
	}

	if currentBounds.Dx() != previousBounds.Dx() || currentBounds.Dy() != previousBounds.Dy() {
		return SceneChange{}, ErrDimensionMismatch
	}

	cur, err := rasterize(current, options)
	if err != nil {
		return SceneChange{}, err
	}
	prev, err := rasterize(previous, options)
	if err != nil {
		if errors.Is(err, ErrEmptyFrame) {
			return SceneChange{}, nil
		}
		return SceneChange{}, err
	}

	diff := ca.metrics.MeanAbsDiff(cur, prev)
	return SceneChange{
		SceneChangeScore: SceneChangeScore(diff),
		MeanAbsDiff:      diff,
	}, nil
}

// Close shuts down the analyzer's worker pool
func (ca *coreAnalyzer) Close() error {
	ca.workerPool.Close()
	return nil
}

// scan runs the three independent full-raster passes, pooled when requested.
// Each job writes a disjoint set of frameStats fields, so the WaitGroup is
// the only synchronization needed.
func (ca *coreAnalyzer) scan(r *Raster, options AnalysisOptions) frameStats {
	st := frameStats{width: r.Width, height: r.Height}

	var wg sync.WaitGroup
	run := func(job func()) {
		if !options.UseWorkerPool || ca.workerPool == nil {
			job()
			return
		}
		wg.Add(1)
		if !ca.workerPool.Submit(func() {
			defer wg.Done()
			job()
		}) {
			// Pool already closed; fall back to inline execution
			wg.Done()
			job()
		}
	}

	run(func() {
		st.laplacianVar = ca.metrics.LaplacianVariance(r)
	})
	run(func() {
		st.edgeDensity = ca.metrics.EdgeDensity(r)
	})
	run(func() {
		hist := NewIntensityHistogram(r)
		st.mean = hist.Mean()
		st.stdDev = hist.StdDev()
		st.darkPct = hist.Percent(0, 84)
		st.midPct = hist.Percent(85, 169)
		st.brightPct = hist.Percent(170, 255)
		st.deepDarkPct = hist.Percent(0, 74)
		st.highlightPct = hist.Percent(200, 255)
	})
	wg.Wait()

	return st
}

// smearFromStats derives the smear composite from measurements the scan
// already produced
func smearFromStats(st frameStats) float64 {
	intensity := IntensityDistributionScore(st.mean, st.darkPct, st.midPct, st.brightPct)
	return SmearScore(
		BlurScore(st.laplacianVar),
		ContrastScore(st.stdDev),
		EdgeScore(st.edgeDensity),
		intensity,
	)
}
