package storage

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestLocalFrameFetcher_PNG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "frame.png")
	if err := os.WriteFile(path, testPNG(t), 0o644); err != nil {
		t.Fatalf("failed to write frame: %v", err)
	}

	fetcher := NewLocalFrameFetcher()
	img, meta, err := fetcher.FetchFrame(context.Background(), path)
	if err != nil {
		t.Fatalf("FetchFrame() error = %v", err)
	}

	if img.Bounds().Dx() != 1 || img.Bounds().Dy() != 1 {
		t.Errorf("Unexpected bounds: %v", img.Bounds())
	}
	if meta.Format != "png" {
		t.Errorf("Format = %q, want png", meta.Format)
	}
	if meta.ContentLength <= 0 {
		t.Errorf("ContentLength = %d, want > 0", meta.ContentLength)
	}
}

func TestLocalFrameFetcher_PGM(t *testing.T) {
	// Raw PGM: magic, dimensions, maxval, then one byte per pixel
	var buf bytes.Buffer
	buf.WriteString("P5\n2 2\n255\n")
	buf.Write([]byte{0, 64, 128, 255})

	path := filepath.Join(t.TempDir(), "frame.pgm")
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatalf("failed to write frame: %v", err)
	}

	fetcher := NewLocalFrameFetcher()
	img, meta, err := fetcher.FetchFrame(context.Background(), path)
	if err != nil {
		t.Fatalf("FetchFrame() error = %v", err)
	}

	if img.Bounds().Dx() != 2 || img.Bounds().Dy() != 2 {
		t.Errorf("Unexpected bounds: %v", img.Bounds())
	}
	if meta.Format == "" {
		t.Error("Expected a registered format name for PGM")
	}
}

func TestLocalFrameFetcher_MissingFile(t *testing.T) {
	fetcher := NewLocalFrameFetcher()
	_, _, err := fetcher.FetchFrame(context.Background(), filepath.Join(t.TempDir(), "missing.png"))
	if err == nil {
		t.Fatal("Expected error for missing file")
	}
}

func TestLocalFrameFetcher_Undecodable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "frame.png")
	if err := os.WriteFile(path, []byte("not an image"), 0o644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}

	fetcher := NewLocalFrameFetcher()
	_, _, err := fetcher.FetchFrame(context.Background(), path)
	if err == nil {
		t.Fatal("Expected decode error")
	}
}

func TestLocalFrameFetcher_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	fetcher := NewLocalFrameFetcher()
	_, _, err := fetcher.FetchFrame(ctx, "irrelevant.png")
	if err == nil {
		t.Fatal("Expected error for cancelled context")
	}
}
