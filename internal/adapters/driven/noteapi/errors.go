package noteapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/threalwinky/mown/internal/core/domain"
)

// statusError maps an HTTP error response to a domain error, keeping the
// server's message for context.
func statusError(resp *http.Response) error {
	message := serverMessage(resp)

	var kind error
	switch {
	case resp.StatusCode == http.StatusBadRequest,
		resp.StatusCode == http.StatusUnprocessableEntity:
		kind = domain.ErrValidation
	case resp.StatusCode == http.StatusUnauthorized:
		kind = domain.ErrUnauthenticated
	case resp.StatusCode == http.StatusForbidden:
		kind = domain.ErrForbidden
	case resp.StatusCode == http.StatusNotFound:
		kind = domain.ErrNotFound
	case resp.StatusCode == http.StatusRequestEntityTooLarge:
		kind = domain.ErrUploadTooLarge
	case resp.StatusCode == http.StatusTooManyRequests,
		resp.StatusCode >= http.StatusInternalServerError:
		kind = domain.ErrTransient
	default:
		return fmt.Errorf("server error (status %d): %s", resp.StatusCode, message)
	}

	if message == "" {
		return fmt.Errorf("%w (status %d)", kind, resp.StatusCode)
	}
	return fmt.Errorf("%w (status %d): %s", kind, resp.StatusCode, message)
}

// transportError classifies a request-level failure. Network failures
// are transient; a cancelled context stays a context error so callers
// can tell the difference.
func transportError(err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return fmt.Errorf("%w: %v", domain.ErrTransient, err)
}

// serverMessage extracts the error text from a JSON error body.
func serverMessage(resp *http.Response) string {
	var body struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return ""
	}
	if body.Error != "" {
		return body.Error
	}
	return body.Message
}
