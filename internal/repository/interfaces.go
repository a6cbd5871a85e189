package repository

import (
	"context"
	"image"

	"go-tamper-inspector/pkg/models"
)

// FrameRepository defines frame data access for the detection service
type FrameRepository interface {
	// FetchFrame retrieves and decodes a frame, returning its metadata
	FetchFrame(ctx context.Context, frameURL string) (image.Image, *models.FrameMetadata, error)
}

// ScoreRepository archives completed detection results
type ScoreRepository interface {
	// SaveRecord stores a completed score record
	SaveRecord(ctx context.Context, record *models.ScoreRecord) error

	// GetRecord retrieves a stored record by analysis ID
	GetRecord(ctx context.Context, id string) (*models.ScoreRecord, error)

	// ListByCamera returns up to limit records, newest first. An empty
	// cameraID lists across all cameras.
	ListByCamera(ctx context.Context, cameraID string, limit int) ([]*models.ScoreRecord, error)

	// Close releases the underlying store
	Close() error
}
