package observer

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"go-tamper-inspector/pkg/models"
)

// DetectionEvent represents one step of a detection's lifecycle
type DetectionEvent struct {
	ID           string               `json:"id"`
	EventType    EventType            `json:"event_type"`
	Timestamp    time.Time            `json:"timestamp"`
	FrameURL     string               `json:"frame_url"`
	CameraID     string               `json:"camera_id,omitempty"`
	Duration     time.Duration        `json:"duration"`
	Success      bool                 `json:"success"`
	ErrorMessage string               `json:"error_message,omitempty"`
	Scores       *models.TamperScores `json:"scores,omitempty"`
}

// EventType represents the type of detection event
type EventType string

const (
	// DetectionStarted when a detection begins
	DetectionStarted EventType = "detection_started"
	// DetectionCompleted when a detection finishes successfully
	DetectionCompleted EventType = "detection_completed"
	// DetectionFailed when a detection fails
	DetectionFailed EventType = "detection_failed"
	// FrameFetched when a frame is successfully fetched
	FrameFetched EventType = "frame_fetched"
	// FrameFetchFailed when a frame fetch fails
	FrameFetchFailed EventType = "frame_fetch_failed"
)

// NewDetectionEvent builds an event with a fresh ID and timestamp
func NewDetectionEvent(eventType EventType, frameURL, cameraID string) DetectionEvent {
	return DetectionEvent{
		ID:        uuid.New().String(),
		EventType: eventType,
		Timestamp: time.Now().UTC(),
		FrameURL:  frameURL,
		CameraID:  cameraID,
	}
}

// Observer defines the interface for event observers
type Observer interface {
	OnEvent(ctx context.Context, event DetectionEvent)
	GetObserverName() string
}

// Subject defines the interface for event publishers
type Subject interface {
	Subscribe(observer Observer)
	Unsubscribe(observer Observer)
	NotifyObservers(ctx context.Context, event DetectionEvent)
}

// LoggingObserver logs detection events
type LoggingObserver struct {
	logger *logrus.Logger
}

// NewLoggingObserver creates a new logging observer
func NewLoggingObserver(logger *logrus.Logger) Observer {
	return &LoggingObserver{
		logger: logger,
	}
}

// OnEvent handles detection events by logging them
func (o *LoggingObserver) OnEvent(ctx context.Context, event DetectionEvent) {
	fields := logrus.Fields{
		"event_id":   event.ID,
		"event_type": event.EventType,
		"frame_url":  event.FrameURL,
		"duration":   event.Duration,
		"success":    event.Success,
	}

	if event.CameraID != "" {
		fields["camera_id"] = event.CameraID
	}

	if event.ErrorMessage != "" {
		fields["error"] = event.ErrorMessage
	}

	if event.Scores != nil {
		fields["blur_score"] = event.Scores.BlurScore
		fields["blackout_score"] = event.Scores.BlackoutScore
		fields["flash_score"] = event.Scores.FlashScore
		fields["smear_score"] = event.Scores.SmearScore
	}

	switch event.EventType {
	case DetectionStarted:
		o.logger.WithFields(fields).Info("Tamper detection started")
	case DetectionCompleted:
		o.logger.WithFields(fields).Info("Tamper detection completed")
	case DetectionFailed:
		o.logger.WithFields(fields).Error("Tamper detection failed")
	case FrameFetched:
		o.logger.WithFields(fields).Debug("Frame fetched successfully")
	case FrameFetchFailed:
		o.logger.WithFields(fields).Error("Frame fetch failed")
	default:
		o.logger.WithFields(fields).Info("Detection event occurred")
	}
}

// GetObserverName returns the observer name
func (o *LoggingObserver) GetObserverName() string {
	return "logging_observer"
}

// CounterObserver keeps running totals of detection outcomes for /v1/stats
type CounterObserver struct {
	detectionsCompleted atomic.Uint64
	detectionsFailed    atomic.Uint64
	framesFetched       atomic.Uint64
	frameFetchFailures  atomic.Uint64
}

// NewCounterObserver creates a new counter observer
func NewCounterObserver() *CounterObserver {
	return &CounterObserver{}
}

// OnEvent handles detection events by counting them
func (o *CounterObserver) OnEvent(ctx context.Context, event DetectionEvent) {
	switch event.EventType {
	case DetectionCompleted:
		o.detectionsCompleted.Add(1)
	case DetectionFailed:
		o.detectionsFailed.Add(1)
	case FrameFetched:
		o.framesFetched.Add(1)
	case FrameFetchFailed:
		o.frameFetchFailures.Add(1)
	}
}

// GetObserverName returns the observer name
func (o *CounterObserver) GetObserverName() string {
	return "counter_observer"
}

// Stats returns a snapshot of the counters
func (o *CounterObserver) Stats() models.StatsResponse {
	return models.StatsResponse{
		DetectionsCompleted: o.detectionsCompleted.Load(),
		DetectionsFailed:    o.detectionsFailed.Load(),
		FramesFetched:       o.framesFetched.Load(),
		FrameFetchFailures:  o.frameFetchFailures.Load(),
	}
}

// EventPublisher implements the Subject interface
type EventPublisher struct {
	mu        sync.RWMutex
	observers []Observer
}

// NewEventPublisher creates a new event publisher
func NewEventPublisher() Subject {
	return &EventPublisher{
		observers: make([]Observer, 0),
	}
}

// Subscribe adds an observer
func (p *EventPublisher) Subscribe(observer Observer) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.observers = append(p.observers, observer)
}

// Unsubscribe removes an observer
func (p *EventPublisher) Unsubscribe(observer Observer) {
	p.mu.Lock()
	defer p.mu.Unlock()

	for i, obs := range p.observers {
		if obs.GetObserverName() == observer.GetObserverName() {
			p.observers = append(p.observers[:i], p.observers[i+1:]...)
			break
		}
	}
}

// NotifyObservers notifies all observers of an event
func (p *EventPublisher) NotifyObservers(ctx context.Context, event DetectionEvent) {
	p.mu.RLock()
	observers := make([]Observer, len(p.observers))
	copy(observers, p.observers)
	p.mu.RUnlock()

	// Notify observers concurrently; a slow or broken observer must not
	// stall or fail a detection
	for _, observer := range observers {
		go func(obs Observer) {
			defer func() {
				if r := recover(); r != nil {
					logrus.WithField("observer", obs.GetObserverName()).
						WithField("panic", r).
						Error("Observer panicked while handling event")
				}
			}()
			obs.OnEvent(ctx, event)
		}(observer)
	}
}
