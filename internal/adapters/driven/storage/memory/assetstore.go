package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/threalwinky/mown/internal/core/domain"
	"github.com/threalwinky/mown/internal/core/ports/driven"
)

// Ensure AssetStore implements the interface.
var _ driven.AssetStore = (*AssetStore)(nil)

// Asset is an uploaded record kept for assertions in tests.
type Asset struct {
	NoteID      string
	Filename    string
	ContentType string
	Size        int
}

// AssetStore is an in-memory implementation of driven.AssetStore.
type AssetStore struct {
	mu        sync.Mutex
	assets    map[string]Asset
	seq       int
	uploadErr error
}

// NewAssetStore creates a new in-memory asset store.
func NewAssetStore() *AssetStore {
	return &AssetStore{assets: make(map[string]Asset)}
}

// FailUploads makes every subsequent Upload return err.
func (s *AssetStore) FailUploads(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.uploadErr = err
}

// Upload stores the asset and returns a stable URL.
func (s *AssetStore) Upload(_ context.Context, noteID, filename, contentType string, data []byte) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.uploadErr != nil {
		return "", s.uploadErr
	}
	s.seq++
	id := fmt.Sprintf("asset-%d", s.seq)
	s.assets[id] = Asset{NoteID: noteID, Filename: filename, ContentType: contentType, Size: len(data)}
	return "/api/images/" + id, nil
}

// DeleteAsset removes an asset by ID.
func (s *AssetStore) DeleteAsset(_ context.Context, assetID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.assets[assetID]; !ok {
		return domain.ErrNotFound
	}
	delete(s.assets, assetID)
	return nil
}

// Assets returns a copy of all uploaded records.
func (s *AssetStore) Assets() map[string]Asset {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]Asset, len(s.assets))
	for k, v := range s.assets {
		out[k] = v
	}
	return out
}
