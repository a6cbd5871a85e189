package storage

import (
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"

	_ "github.com/spakin/netpbm"
	_ "golang.org/x/image/webp"
)

// ErrUndecodableFrame marks fetch failures caused by the frame bytes rather
// than the transport, so callers can report them as bad input
var ErrUndecodableFrame = errors.New("failed to decode frame")

// DecodeFrame decodes a camera frame in any registered format. The blank
// imports register JPEG, PNG, GIF, WEBP and the netpbm family (PGM/PPM/PBM),
// so raw grayscale snapshots from embedded cameras decode alongside the
// common web formats. Returns the decoded image and the format name.
func DecodeFrame(r io.Reader) (image.Image, string, error) {
	img, format, err := image.Decode(r)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %w", ErrUndecodableFrame, err)
	}
	return img, format, nil
}
