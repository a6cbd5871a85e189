package storage

import (
	"context"
	"fmt"
	"image"
	"os"

	"go-tamper-inspector/pkg/models"
)

// localFrameFetcher reads frames from the local filesystem. The CLI uses it
// so command-line scans share the service's decode path.
type localFrameFetcher struct{}

func NewLocalFrameFetcher() FrameFetcher {
	return &localFrameFetcher{}
}

func (l *localFrameFetcher) FetchFrame(ctx context.Context, framePath string) (image.Image, *models.FrameMetadata, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	f, err := os.Open(framePath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open frame: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to stat frame: %w", err)
	}

	img, format, err := DecodeFrame(f)
	if err != nil {
		return nil, nil, err
	}

	meta := &models.FrameMetadata{
		ContentLength: info.Size(),
		Width:         img.Bounds().Dx(),
		Height:        img.Bounds().Dy(),
		Format:        format,
	}
	return img, meta, nil
}
