package storage

import (
	"context"
	"errors"
	"io"
)

// ErrDisabled is returned when no object storage is configured.
var ErrDisabled = errors.New("image storage is not configured")

// Image is a single upload payload.
type Image struct {
	Key         string
	ContentType string
	Size        int64
	Body        io.Reader
}

// ImageStore persists perfume images in remote object storage.
type ImageStore interface {
	// Upload stores img and returns the reference clients should use to fetch it.
	Upload(ctx context.Context, img Image) (string, error)
	DeletePrefix(ctx context.Context, prefix string) error
}

// Disabled is the ImageStore used when no bucket is configured.
type Disabled struct{}

func (Disabled) Upload(context.Context, Image) (string, error) { return "", ErrDisabled }

func (Disabled) DeletePrefix(context.Context, string) error { return nil }

var _ ImageStore = Disabled{}
