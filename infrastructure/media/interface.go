package media

import (
	"context"
	"errors"
	"io"
)

var (
	ErrInvalidImage  = errors.New("image must be a base64 data url of an image type")
	ErrImageNotFound = errors.New("image not found")
)

// IUploader stores an image and returns a stable URL to it.
type IUploader interface {
	Upload(ctx context.Context, image string) (string, error)
}

// IStore serves uploaded images back.
type IStore interface {
	IUploader
	Open(ctx context.Context, id string) (io.ReadCloser, Info, error)
}

type Info struct {
	ContentType string
	Length      int64
}
