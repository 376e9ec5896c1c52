package export

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"refcore/internal/blob"
)

// MemoryObjectStore is an in-memory implementation of ObjectStore for tests.
type MemoryObjectStore struct {
	mu      sync.RWMutex
	objects map[string]storedObject
}

type storedObject struct {
	artifact Artifact
	payload  []byte
}

// NewMemoryObjectStore constructs an in-memory object store.
func NewMemoryObjectStore() *MemoryObjectStore {
	return &MemoryObjectStore{objects: make(map[string]storedObject)}
}

// Put stores the payload and returns a stub URL for retrieval.
func (s *MemoryObjectStore) Put(_ context.Context, key string, payload []byte, contentType string) (Artifact, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.objects[key]; exists {
		return Artifact{}, fmt.Errorf("object %s already exists", key)
	}
	artifact := Artifact{
		ID:          key,
		ContentType: contentType,
		SizeBytes:   int64(len(payload)),
		CreatedAt:   time.Now().UTC(),
		URL:         fmt.Sprintf("https://object-store.local/%s?token=stub", key),
	}
	cp := make([]byte, len(payload))
	copy(cp, payload)
	s.objects[key] = storedObject{artifact: artifact, payload: cp}
	return artifact, nil
}

// Get returns the artifact metadata and payload bytes.
func (s *MemoryObjectStore) Get(_ context.Context, key string) (Artifact, []byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	obj, ok := s.objects[key]
	if !ok {
		return Artifact{}, nil, fmt.Errorf("object %s not found", key)
	}
	cp := make([]byte, len(obj.payload))
	copy(cp, obj.payload)
	return obj.artifact, cp, nil
}

// Delete removes the object returning true if it existed.
func (s *MemoryObjectStore) Delete(_ context.Context, key string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.objects[key]
	if ok {
		delete(s.objects, key)
	}
	return ok, nil
}

// List returns artifacts whose keys match the prefix.
func (s *MemoryObjectStore) List(_ context.Context, prefix string) ([]Artifact, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []Artifact
	for key, obj := range s.objects {
		if prefix == "" || (len(key) >= len(prefix) && key[:len(prefix)] == prefix) {
			out = append(out, obj.artifact)
		}
	}
	return out, nil
}

// BlobObjectStore adapts a blob.Store to the export ObjectStore interface so
// artifacts land in the same backend as image payloads.
type BlobObjectStore struct {
	blobs blob.Store
}

// NewBlobObjectStore wraps a blob store.
func NewBlobObjectStore(blobs blob.Store) *BlobObjectStore {
	return &BlobObjectStore{blobs: blobs}
}

// Put stores the payload under key.
func (s *BlobObjectStore) Put(ctx context.Context, key string, payload []byte, contentType string) (Artifact, error) {
	info, err := s.blobs.Put(ctx, key, bytes.NewReader(payload), blob.PutOptions{ContentType: contentType})
	if err != nil {
		return Artifact{}, err
	}
	return artifactFromInfo(info), nil
}

// Get returns the artifact metadata and payload bytes.
func (s *BlobObjectStore) Get(ctx context.Context, key string) (Artifact, []byte, error) {
	info, rc, err := s.blobs.Get(ctx, key)
	if err != nil {
		return Artifact{}, nil, err
	}
	defer func() { _ = rc.Close() }()
	payload, err := io.ReadAll(rc)
	if err != nil {
		return Artifact{}, nil, err
	}
	return artifactFromInfo(info), payload, nil
}

// Delete removes the object.
func (s *BlobObjectStore) Delete(ctx context.Context, key string) (bool, error) {
	return s.blobs.Delete(ctx, key)
}

// List returns artifacts under the prefix.
func (s *BlobObjectStore) List(ctx context.Context, prefix string) ([]Artifact, error) {
	infos, err := s.blobs.List(ctx, prefix)
	if err != nil {
		return nil, err
	}
	out := make([]Artifact, len(infos))
	for i, info := range infos {
		out[i] = artifactFromInfo(info)
	}
	return out, nil
}

func artifactFromInfo(info blob.Info) Artifact {
	return Artifact{
		ID:          info.Key,
		ContentType: info.ContentType,
		SizeBytes:   info.Size,
		URL:         info.URL,
		CreatedAt:   info.LastModified,
	}
}
