package storage

import (
	"context"
	"errors"
	"io"
)

type UploadResult struct {
	Key      string
	Location string
	ETag     string
}

// FileUploader stores match evidence files in an S3-compatible bucket.
type FileUploader interface {
	Upload(ctx context.Context, key string, contentType string, reader io.Reader) (*UploadResult, error)

	Delete(ctx context.Context, key string) error

	GetPublicURL(key string) string
}

var ErrStorageDisabled = errors.New("file storage is not configured")

type disabledUploader struct{}

// NewDisabledUploader is the fallback when no bucket is configured. Uploads
// fail with ErrStorageDisabled.
func NewDisabledUploader() FileUploader {
	return disabledUploader{}
}

func (disabledUploader) Upload(context.Context, string, string, io.Reader) (*UploadResult, error) {
	return nil, ErrStorageDisabled
}

func (disabledUploader) Delete(context.Context, string) error {
	return ErrStorageDisabled
}

func (disabledUploader) GetPublicURL(string) string {
	return ""
}
