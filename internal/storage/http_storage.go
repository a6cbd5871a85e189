package storage

import (
	"context"
	"crypto/tls"
	"fmt"
	"image"
	"net/http"
	"time"

	"go-tamper-inspector/pkg/models"
)

// FrameFetcher retrieves a single camera frame and decodes it. Implementations
// exist for HTTP snapshot endpoints, Azure blob storage and local files.
type FrameFetcher interface {
	FetchFrame(ctx context.Context, frameURL string) (image.Image, *models.FrameMetadata, error)
}

// HTTPFrameFetcher fetches frames from camera snapshot endpoints over HTTP
type HTTPFrameFetcher struct {
	client *http.Client
}

// NewHTTPFrameFetcher creates an HTTP frame fetcher. The timeout bounds a
// whole fetch including retries of transient failures; zero or negative
// falls back to 30s.
func NewHTTPFrameFetcher(timeout time.Duration) FrameFetcher {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	// Transport tuned for one-shot snapshot downloads rather than bulk traffic
	transport := &http.Transport{
		MaxIdleConns:        10,
		MaxIdleConnsPerHost: 2,
		IdleConnTimeout:     30 * time.Second,

		TLSHandshakeTimeout:   10 * time.Second,
		ResponseHeaderTimeout: 10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,

		DisableCompression:     false,
		MaxResponseHeaderBytes: 4096,

		// Camera snapshot endpoints routinely serve self-signed certificates
		TLSClientConfig: &tls.Config{
			InsecureSkipVerify: true,
		},
	}

	return &HTTPFrameFetcher{
		client: &http.Client{
			Transport: transport,
			Timeout:   timeout,

			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 3 {
					return fmt.Errorf("too many redirects (limit: 3)")
				}
				return nil
			},
		},
	}
}

func (h *HTTPFrameFetcher) FetchFrame(ctx context.Context, frameURL string) (image.Image, *models.FrameMetadata, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", frameURL, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid URL: %w", err)
	}

	req.Header.Set("Accept", "image/jpeg, image/png, image/webp, image/gif, */*")
	req.Header.Set("User-Agent", "Go-Tamper-Inspector/1.0")
	req.Header.Set("Accept-Encoding", "gzip, deflate")

	// Retry logic (3 attempts) - only retry on transient errors
	var resp *http.Response
	var lastErr error

	for attempt := 0; attempt < 3; attempt++ {
		resp, err = h.client.Do(req)

		if err != nil {
			lastErr = err
		}

		if err == nil && resp != nil && resp.StatusCode == http.StatusOK {
			break
		}

		if err == nil && resp != nil {
			// Closure so the body is closed on every non-OK path
			func() {
				defer resp.Body.Close()

				// 4xx client errors are non-retryable
				if resp.StatusCode >= 400 && resp.StatusCode < 500 {
					lastErr = fmt.Errorf("client error: status code %d", resp.StatusCode)
					return
				}

				if resp.StatusCode >= 500 {
					lastErr = fmt.Errorf("server error: status code %d", resp.StatusCode)
				}
			}()

			if resp.StatusCode >= 400 && resp.StatusCode < 500 {
				resp = nil
				break
			}
		}

		// Backoff before the next retry, skipped after the last attempt
		if attempt < 2 && (err != nil || (resp != nil && resp.StatusCode >= 500)) {
			time.Sleep(time.Duration(attempt+1) * time.Second)
		}

		if resp != nil && (err != nil || resp.StatusCode != http.StatusOK) {
			resp = nil
		}
	}

	if resp == nil || (err == nil && resp.StatusCode != http.StatusOK) {
		if lastErr != nil {
			return nil, nil, fmt.Errorf("failed to fetch frame after 3 attempts: %w", lastErr)
		}
		return nil, nil, fmt.Errorf("failed to fetch frame after 3 attempts: unknown error")
	}

	defer resp.Body.Close()

	img, format, err := DecodeFrame(resp.Body)
	if err != nil {
		return nil, nil, err
	}

	bounds := img.Bounds()
	meta := &models.FrameMetadata{
		ContentType:   resp.Header.Get("Content-Type"),
		ContentLength: resp.ContentLength,
		Width:         bounds.Dx(),
		Height:        bounds.Dy(),
		Format:        format,
	}
	return img, meta, nil
}
