package repository

import (
	"context"
	"image"

	"go-tamper-inspector/internal/storage"
	"go-tamper-inspector/pkg/models"
)

// fetcherFrameRepository implements FrameRepository over any storage fetcher
type fetcherFrameRepository struct {
	fetcher storage.FrameFetcher
}

// NewFrameRepository creates a frame repository backed by the given fetcher
func NewFrameRepository(fetcher storage.FrameFetcher) FrameRepository {
	return &fetcherFrameRepository{
		fetcher: fetcher,
	}
}

// FetchFrame retrieves and decodes a frame from the configured backend
func (r *fetcherFrameRepository) FetchFrame(ctx context.Context, frameURL string) (image.Image, *models.FrameMetadata, error) {
	if frameURL == "" {
		return nil, nil, ErrInvalidFrameURL
	}
	return r.fetcher.FetchFrame(ctx, frameURL)
}
