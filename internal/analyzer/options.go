package analyzer

// AnalysisOptions provides flexible configuration for frame scoring
type AnalysisOptions struct {
	// Performance options. MaxWorkers sizes the analyzer's pool at
	// construction; UseWorkerPool toggles it per call.
	UseWorkerPool bool
	MaxWorkers    int

	// DownscaleLongEdge resizes frames whose longest edge exceeds this
	// value before scoring. 0 disables downscaling. Scores of downscaled
	// frames are comparable between frames of the same camera but not with
	// full-resolution scores.
	DownscaleLongEdge int
}

// DefaultOptions returns default analysis options
func DefaultOptions() AnalysisOptions {
	return AnalysisOptions{
		UseWorkerPool:     true,
		MaxWorkers:        0, // CPU count
		DownscaleLongEdge: 0,
	}
}

// FastOptions returns options for low-latency scoring of large frames
func FastOptions() AnalysisOptions {
	opts := DefaultOptions()
	opts.DownscaleLongEdge = 640
	return opts
}

// WithDownscale sets the long-edge bound for pre-scoring downscale
func (opts AnalysisOptions) WithDownscale(longEdge int) AnalysisOptions {
	opts.DownscaleLongEdge = longEdge
	return opts
}

// WithMaxWorkers sets the worker pool size used at analyzer construction
func (opts AnalysisOptions) WithMaxWorkers(workers int) AnalysisOptions {
	opts.MaxWorkers = workers
	return opts
}

// WithoutWorkerPool disables pooled scanning for this call
func (opts AnalysisOptions) WithoutWorkerPool() AnalysisOptions {
	opts.UseWorkerPool = false
	return opts
}
