package analyzer

import (
	"testing"
)

func TestDefaultOptions(t *testing.T) {
	opts := DefaultOptions()

	if !opts.UseWorkerPool {
		t.Error("Expected UseWorkerPool to be true by default")
	}
	if opts.MaxWorkers != 0 {
		t.Errorf("Expected MaxWorkers to be 0 (CPU count), got %d", opts.MaxWorkers)
	}
	if opts.DownscaleLongEdge != 0 {
		t.Errorf("Expected DownscaleLongEdge to be disabled, got %d", opts.DownscaleLongEdge)
	}
}

func TestFastOptions(t *testing.T) {
	opts := FastOptions()

	if opts.DownscaleLongEdge != 640 {
		t.Errorf("Expected DownscaleLongEdge 640 for fast options, got %d", opts.DownscaleLongEdge)
	}
	if !opts.UseWorkerPool {
		t.Error("Expected UseWorkerPool to stay enabled for fast options")
	}
}

func TestWithDownscale(t *testing.T) {
	opts := DefaultOptions().WithDownscale(320)

	if opts.DownscaleLongEdge != 320 {
		t.Errorf("Expected DownscaleLongEdge 320, got %d", opts.DownscaleLongEdge)
	}
}

func TestWithMaxWorkers(t *testing.T) {
	opts := DefaultOptions().WithMaxWorkers(8)

	if opts.MaxWorkers != 8 {
		t.Errorf("Expected MaxWorkers 8, got %d", opts.MaxWorkers)
	}
}

func TestWithoutWorkerPool(t *testing.T) {
	opts := DefaultOptions().WithoutWorkerPool()

	if opts.UseWorkerPool {
		t.Error("Expected UseWorkerPool to be false after WithoutWorkerPool")
	}
}

func TestChainedOptions(t *testing.T) {
	opts := DefaultOptions().
		WithDownscale(480).
		WithMaxWorkers(2).
		WithoutWorkerPool()

	if opts.DownscaleLongEdge != 480 {
		t.Errorf("Expected DownscaleLongEdge 480, got %d", opts.DownscaleLongEdge)
	}
	if opts.MaxWorkers != 2 {
		t.Errorf("Expected MaxWorkers 2, got %d", opts.MaxWorkers)
	}
	if opts.UseWorkerPool {
		t.Error("Expected UseWorkerPool to be false")
	}
}
