package media

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/gridfs"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const bucketName = "images"

// GridFSStore keeps uploaded images in a MongoDB GridFS bucket.
type GridFSStore struct {
	bucket  *gridfs.Bucket
	baseURL string
}

// NewGridFSStore returns a store whose URLs are rooted at baseURL,
// e.g. "https://chat.example.com" gives ".../api/media/<id>".
func NewGridFSStore(db *mongo.Database, baseURL string) (*GridFSStore, error) {
	bucket, err := gridfs.NewBucket(db, options.GridFSBucket().SetName(bucketName))
	if err != nil {
		return nil, err
	}

	return &GridFSStore{
		bucket:  bucket,
		baseURL: strings.TrimRight(baseURL, "/"),
	}, nil
}

func (s *GridFSStore) Upload(ctx context.Context, raw string) (string, error) {
	img, err := ParseDataURL(raw)
	if err != nil {
		return "", err
	}

	if deadline, ok := ctx.Deadline(); ok {
		if err := s.bucket.SetWriteDeadline(deadline); err != nil {
			return "", err
		}
	}

	opts := options.GridFSUpload().SetMetadata(bson.M{
		"contentType": img.ContentType,
		"uploadedAt":  time.Now().UTC(),
	})
	id, err := s.bucket.UploadFromStream(uuid.New().String(), bytes.NewReader(img.Data), opts)
	if err != nil {
		return "", fmt.Errorf("upload image: %w", err)
	}

	return s.URL(id.Hex()), nil
}

func (s *GridFSStore) URL(id string) string {
	return s.baseURL + "/api/media/" + id
}

func (s *GridFSStore) Open(ctx context.Context, id string) (io.ReadCloser, Info, error) {
	objectId, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, Info{}, ErrImageNotFound
	}

	if deadline, ok := ctx.Deadline(); ok {
		if err := s.bucket.SetReadDeadline(deadline); err != nil {
			return nil, Info{}, err
		}
	}

	stream, err := s.bucket.OpenDownloadStream(objectId)
	if err != nil {
		if errors.Is(err, gridfs.ErrFileNotFound) {
			return nil, Info{}, ErrImageNotFound
		}
		return nil, Info{}, err
	}

	file := stream.GetFile()
	info := Info{
		ContentType: "application/octet-stream",
		Length:      file.Length,
	}
	if file.Metadata != nil {
		if ct, ok := file.Metadata.Lookup("contentType").StringValueOK(); ok {
			info.ContentType = ct
		}
	}

	return stream, info, nil
}
