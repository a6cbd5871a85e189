package storage

import (
	"context"
	"fmt"
	"image"
	"net/url"
	"strings"

	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"

	"go-tamper-inspector/pkg/models"
)

// azureFrameFetcher reads frames archived to Azure blob storage. Frame URLs
// name the container in the path and the blob in the "blob" query parameter:
// https://host/container?blob=cam-02/frame.jpg
type azureFrameFetcher struct {
	client *azblob.Client
}

func NewAzureFrameFetcher(accountName string, accountKey string) (FrameFetcher, error) {
	credential, err := azblob.NewSharedKeyCredential(accountName, accountKey)
	if err != nil {
		return nil, err
	}

	client, err := azblob.NewClientWithSharedKeyCredential(
		fmt.Sprintf("https://%s.blob.core.windows.net", accountName),
		credential,
		nil,
	)
	if err != nil {
		return nil, err
	}

	return &azureFrameFetcher{client: client}, nil
}

func (s *azureFrameFetcher) FetchFrame(ctx context.Context, frameURL string) (image.Image, *models.FrameMetadata, error) {
	parsedURL, err := url.Parse(frameURL)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid blob URL: %w", err)
	}

	containerName := strings.TrimPrefix(parsedURL.Path, "/")
	blobName := parsedURL.Query().Get("blob")
	if containerName == "" || blobName == "" {
		return nil, nil, fmt.Errorf("blob URL must name a container path and a blob query parameter")
	}

	downloadResponse, err := s.client.DownloadStream(ctx, containerName, blobName, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("download failed: %w", err)
	}

	retryReader := downloadResponse.Body
	defer retryReader.Close()

	img, format, err := DecodeFrame(retryReader)
	if err != nil {
		return nil, nil, err
	}

	meta := &models.FrameMetadata{
		Width:  img.Bounds().Dx(),
		Height: img.Bounds().Dy(),
		Format: format,
	}
	if downloadResponse.ContentType != nil {
		meta.ContentType = *downloadResponse.ContentType
	}
	if downloadResponse.ContentLength != nil {
		meta.ContentLength = *downloadResponse.ContentLength
	}
	return img, meta, nil
}
