package factory

import (
	"fmt"

	"go-tamper-inspector/internal/analyzer"
	"go-tamper-inspector/internal/config"
	"go-tamper-inspector/internal/storage"
)

// AnalyzerType represents different frame analyzer configurations
type AnalyzerType string

const (
	// StandardAnalyzer scores frames at full resolution
	StandardAnalyzer AnalyzerType = "standard"
	// FastAnalyzer downscales large frames before scoring
	FastAnalyzer AnalyzerType = "fast"
)

// StorageType represents different types of frame storage backends
type StorageType string

const (
	// HTTPStorage for HTTP-based frame fetching
	HTTPStorage StorageType = "http"
	// AzureStorage for Azure blob storage
	AzureStorage StorageType = "azure"
	// LocalStorage for the local file system
	LocalStorage StorageType = "local"
)

// AnalyzerFactory creates frame analyzers
type AnalyzerFactory interface {
	CreateAnalyzer(analyzerType AnalyzerType) (analyzer.FrameAnalyzer, error)
}

// StorageFactory creates frame fetchers
type StorageFactory interface {
	CreateFetcher(storageType StorageType) (storage.FrameFetcher, error)
}

// analyzerFactory implements AnalyzerFactory
type analyzerFactory struct{}

// NewAnalyzerFactory creates a new analyzer factory
func NewAnalyzerFactory() AnalyzerFactory {
	return &analyzerFactory{}
}

// CreateAnalyzer creates an analyzer based on the specified type
func (f *analyzerFactory) CreateAnalyzer(analyzerType AnalyzerType) (analyzer.FrameAnalyzer, error) {
	switch analyzerType {
	case StandardAnalyzer:
		return analyzer.NewFrameAnalyzer(analyzer.DefaultOptions())
	case FastAnalyzer:
		return analyzer.NewFrameAnalyzer(analyzer.FastOptions())
	default:
		return nil, fmt.Errorf("unsupported analyzer type: %s", analyzerType)
	}
}

// storageFactory implements StorageFactory
type storageFactory struct {
	cfg *config.Config
}

// NewStorageFactory creates a new storage factory
func NewStorageFactory(cfg *config.Config) StorageFactory {
	return &storageFactory{cfg: cfg}
}

// CreateFetcher creates a frame fetcher for the specified backend
func (f *storageFactory) CreateFetcher(storageType StorageType) (storage.FrameFetcher, error) {
	switch storageType {
	case HTTPStorage:
		return storage.NewHTTPFrameFetcher(f.cfg.FrameFetchTimeout), nil
	case AzureStorage:
		return storage.NewAzureFrameFetcher(f.cfg.AzureAccountName, f.cfg.AzureAccountKey)
	case LocalStorage:
		return storage.NewLocalFrameFetcher(), nil
	default:
		return nil, fmt.Errorf("unsupported storage type: %s", storageType)
	}
}

// ComponentFactory combines all factories
type ComponentFactory struct {
	AnalyzerFactory AnalyzerFactory
	StorageFactory  StorageFactory
}

// NewComponentFactory creates a new component factory
func NewComponentFactory(cfg *config.Config) *ComponentFactory {
	return &ComponentFactory{
		AnalyzerFactory: NewAnalyzerFactory(),
		StorageFactory:  NewStorageFactory(cfg),
	}
}
