package container

import (
	"fmt"
	"net/http"

	"go-tamper-inspector/internal/analyzer"
	"go-tamper-inspector/internal/config"
	"go-tamper-inspector/internal/factory"
	"go-tamper-inspector/internal/logger"
	"go-tamper-inspector/internal/observer"
	"go-tamper-inspector/internal/repository"
	"go-tamper-inspector/internal/service"
	"go-tamper-inspector/internal/transport"
	"go-tamper-inspector/pkg/validation"
)

// Container holds all application dependencies
type Container struct {
	config           *config.Config
	frameAnalyzer    analyzer.FrameAnalyzer
	frameRepository  repository.FrameRepository
	scoreRepository  repository.ScoreRepository
	counters         *observer.CounterObserver
	detectionService service.DetectionService
	handler          http.Handler
}

// NewContainer loads the configuration from the environment and builds the
// dependency graph
func NewContainer() (*Container, error) {
	cfg, err := config.LoadFromEnv()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return NewContainerWithConfig(cfg)
}

// NewContainerWithConfig builds the dependency graph for a loaded config
func NewContainerWithConfig(cfg *config.Config) (*Container, error) {
	components := factory.NewComponentFactory(cfg)

	fetcher, err := components.StorageFactory.CreateFetcher(factory.StorageType(cfg.StorageBackend))
	if err != nil {
		return nil, fmt.Errorf("failed to create frame fetcher: %w", err)
	}

	frameAnalyzer, err := components.AnalyzerFactory.CreateAnalyzer(factory.StandardAnalyzer)
	if err != nil {
		return nil, fmt.Errorf("failed to create frame analyzer: %w", err)
	}

	frameRepository := repository.NewFrameRepository(fetcher)

	var scoreRepository repository.ScoreRepository
	if cfg.ArchiveEnabled() {
		scoreRepository, err = repository.NewBoltScoreRepository(cfg.ArchivePath)
		if err != nil {
			frameAnalyzer.Close()
			return nil, fmt.Errorf("failed to open score archive: %w", err)
		}
		logger.WithComponent("container").
			WithField("archive_path", cfg.ArchivePath).
			Info("Score archiving enabled")
	}

	publisher := observer.NewEventPublisher()
	counters := observer.NewCounterObserver()
	publisher.Subscribe(observer.NewLoggingObserver(logger.Logger))
	publisher.Subscribe(counters)

	urlValidator := validation.NewURLValidatorWithOptions(
		[]string{"http", "https"}, cfg.AllowedFrameHosts)

	detectionService := service.NewDetectionService(
		frameRepository, scoreRepository, frameAnalyzer, urlValidator, publisher)
	handler := transport.NewHandler(detectionService, counters, cfg)

	return &Container{
		config:           cfg,
		frameAnalyzer:    frameAnalyzer,
		frameRepository:  frameRepository,
		scoreRepository:  scoreRepository,
		counters:         counters,
		detectionService: detectionService,
		handler:          handler,
	}, nil
}

// Handler returns the HTTP handler
func (c *Container) Handler() http.Handler {
	return c.handler
}

// Config returns the configuration
func (c *Container) Config() *config.Config {
	return c.config
}

// DetectionService returns the detection service
func (c *Container) DetectionService() service.DetectionService {
	return c.detectionService
}

// Close releases the archive and analyzer resources
func (c *Container) Close() error {
	var firstErr error
	if c.scoreRepository != nil {
		if err := c.scoreRepository.Close(); err != nil {
			firstErr = err
		}
	}
	if c.frameAnalyzer != nil {
		if err := c.frameAnalyzer.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
