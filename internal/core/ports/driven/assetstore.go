package driven

import "context"

// AssetStore uploads binary assets (images pasted or attached to a note)
// and returns a stable fetchable URL.
type AssetStore interface {
	// Upload stores the asset tagged with the note ID and returns its URL.
	Upload(ctx context.Context, noteID, filename, contentType string, data []byte) (string, error)

	// DeleteAsset removes a previously uploaded asset by ID.
	DeleteAsset(ctx context.Context, assetID string) error
}
