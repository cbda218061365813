package noteapi

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"net/textproto"
	"net/url"

	"github.com/threalwinky/mown/internal/core/domain"
	"github.com/threalwinky/mown/internal/core/ports/driven"
)

// Ensure AssetStore implements the interface.
var _ driven.AssetStore = (*AssetStore)(nil)

// AssetStore uploads image attachments to the note server.
type AssetStore struct {
	client *Client
}

// NewAssetStore creates an asset store over the shared client.
func NewAssetStore(client *Client) *AssetStore {
	return &AssetStore{client: client}
}

// Upload sends the image as a multipart form and returns the public URL
// the server assigned to it.
func (s *AssetStore) Upload(ctx context.Context, noteID, filename, contentType string, data []byte) (string, error) {
	var buf bytes.Buffer
	form := multipart.NewWriter(&buf)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="image"; filename=%q`, filename))
	header.Set("Content-Type", contentType)
	part, err := form.CreatePart(header)
	if err != nil {
		return "", fmt.Errorf("build upload form: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return "", fmt.Errorf("build upload form: %w", err)
	}
	if err := form.WriteField("note_id", noteID); err != nil {
		return "", fmt.Errorf("build upload form: %w", err)
	}
	if err := form.Close(); err != nil {
		return "", fmt.Errorf("build upload form: %w", err)
	}

	resp, err := s.client.send(ctx, "POST", "/api/images/upload", form.FormDataContentType(), buf.Bytes())
	if err != nil {
		return "", err
	}
	defer drainAndClose(resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", statusError(resp)
	}
	var body struct {
		URL string `json:"url"`
	}
	if err := decodeBody(resp.Body, &body); err != nil {
		return "", err
	}
	if body.URL == "" {
		return "", fmt.Errorf("%w: upload response missing url", domain.ErrValidation)
	}
	return body.URL, nil
}

// DeleteAsset removes an uploaded image.
func (s *AssetStore) DeleteAsset(ctx context.Context, assetID string) error {
	return s.client.doJSON(ctx, "DELETE", "/api/images/"+url.PathEscape(assetID), nil, nil)
}
