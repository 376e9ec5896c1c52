package core

import (
	"bytes"
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"math"
	"strings"

	"refcore/internal/blob"
)

// MaxImageBytes is the largest accepted image payload.
const MaxImageBytes = 5 * 1024 * 1024

// CreateImage validates and stores an uploaded image: the payload goes to the
// blob store keyed by the image ID, the metadata record to the images bucket.
// A failed metadata commit removes the orphaned payload.
func (s *Service) CreateImage(ctx context.Context, name, contentType string, data []byte) (Image, Result, error) {
	if strings.TrimSpace(name) == "" {
		return Image{}, Result{}, ValidationError{Field: "name", Message: "name is required"}
	}
	if !strings.HasPrefix(contentType, "image/") {
		return Image{}, Result{}, ValidationError{Field: "type", Message: "only image files are accepted"}
	}
	if len(data) > MaxImageBytes {
		return Image{}, Result{}, ValidationError{Field: "size", Message: "image exceeds the 5 MB limit"}
	}
	if s.blobs == nil {
		return Image{}, Result{}, fmt.Errorf("no blob store configured")
	}
	id := newImageID()
	if _, err := s.blobs.Put(ctx, id, bytes.NewReader(data), blob.PutOptions{ContentType: contentType, Metadata: map[string]string{"name": name}}); err != nil {
		return Image{}, Result{}, fmt.Errorf("store image payload: %w", err)
	}
	image := Image{
		ID:          id,
		Name:        name,
		SizeKB:      math.Round(float64(len(data))/1024*100) / 100,
		ContentType: contentType,
	}
	var created Image
	res, err := s.run(ctx, "create_image", func(tx Transaction) error {
		var err error
		created, err = tx.CreateImage(image)
		return err
	})
	if err != nil {
		if _, delErr := s.blobs.Delete(ctx, id); delErr != nil {
			s.logger.Error("orphaned image payload", "image", id, "error", delErr)
		}
		return Image{}, res, err
	}
	return created, res, nil
}

// DeleteImage removes the metadata record and then the stored payload.
func (s *Service) DeleteImage(ctx context.Context, id string) (Result, error) {
	res, err := s.run(ctx, "delete_image", func(tx Transaction) error {
		return tx.DeleteImage(id)
	})
	if err != nil {
		return res, err
	}
	if s.blobs != nil {
		if _, delErr := s.blobs.Delete(ctx, id); delErr != nil {
			s.logger.Error("image payload cleanup failed", "image", id, "error", delErr)
		}
	}
	return res, nil
}

// OpenImage returns the metadata record and a reader over the stored payload.
// The caller closes the reader.
func (s *Service) OpenImage(ctx context.Context, id string) (Image, io.ReadCloser, error) {
	image, ok := s.store.GetImage(id)
	if !ok {
		return Image{}, nil, NotFoundError{Entity: EntityImage, ID: id}
	}
	if s.blobs == nil {
		return Image{}, nil, fmt.Errorf("no blob store configured")
	}
	_, rc, err := s.blobs.Get(ctx, id)
	if err != nil {
		return Image{}, nil, fmt.Errorf("open image payload: %w", err)
	}
	return image, rc, nil
}

func newImageID() string {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		panic(fmt.Sprintf("read random image id: %v", err))
	}
	return hex.EncodeToString(buf)
}
