package notion

import (
	"net/http"

	"github.com/cockroachdb/errors"
	"github.com/jomei/notionapi"
)

// Common Notion API errors.
var (
	// ErrUnauthorized indicates an invalid integration token.
	ErrUnauthorized = errors.New("notion: unauthorised (invalid token)")

	// ErrForbidden indicates the integration lacks access to the resource.
	ErrForbidden = errors.New("notion: forbidden (integration not shared with this database)")

	// ErrNotFound indicates the database or page does not exist or is not shared.
	ErrNotFound = errors.New("notion: resource not found")

	// ErrRateLimited indicates the client gave up after repeated 429 responses.
	ErrRateLimited = errors.New("notion: rate limit exceeded")

	// ErrValidation indicates Notion rejected the request body,
	// typically because a configured property does not exist.
	ErrValidation = errors.New("notion: request rejected")
)

// statusCode extracts the HTTP status from a notionapi error.
func statusCode(err error) (int, bool) {
	var apiErr *notionapi.Error
	if errors.As(err, &apiErr) {
		return apiErr.Status, true
	}
	return 0, false
}

// IsUnauthorized returns true if the error indicates an invalid token.
func IsUnauthorized(err error) bool {
	if errors.Is(err, ErrUnauthorized) {
		return true
	}
	code, ok := statusCode(err)
	return ok && code == http.StatusUnauthorized
}

// IsNotFound returns true if the error indicates a missing or unshared resource.
func IsNotFound(err error) bool {
	if errors.Is(err, ErrNotFound) {
		return true
	}
	code, ok := statusCode(err)
	return ok && code == http.StatusNotFound
}

// WithHint attaches a remedy to token and sharing errors.
// Other errors are returned unchanged.
func WithHint(err error) error {
	switch {
	case err == nil:
		return nil
	case IsUnauthorized(err):
		return errors.WithHint(err, "check NOTION_API_KEY, the integration token was rejected")
	case IsNotFound(err) || errors.Is(err, ErrForbidden):
		return errors.WithHint(err, "share the database with the integration and check NOTION_DATABASE_ID")
	}
	return err
}

// IsRateLimited returns true if the error indicates rate limiting.
func IsRateLimited(err error) bool {
	if errors.Is(err, ErrRateLimited) {
		return true
	}
	var rl *notionapi.RateLimitedError
	if errors.As(err, &rl) {
		return true
	}
	code, ok := statusCode(err)
	return ok && code == http.StatusTooManyRequests
}

// WrapError converts a notionapi error to a more specific error while
// keeping the API message.
func WrapError(err error) error {
	if err == nil {
		return nil
	}

	var rl *notionapi.RateLimitedError
	if errors.As(err, &rl) {
		return errors.Mark(errors.Wrap(err, "notion"), ErrRateLimited)
	}

	code, ok := statusCode(err)
	if !ok {
		return err
	}

	var sentinel error
	switch code {
	case http.StatusUnauthorized:
		sentinel = ErrUnauthorized
	case http.StatusForbidden:
		sentinel = ErrForbidden
	case http.StatusNotFound:
		sentinel = ErrNotFound
	case http.StatusTooManyRequests:
		sentinel = ErrRateLimited
	case http.StatusBadRequest:
		sentinel = ErrValidation
	default:
		return errors.Wrapf(err, "notion: status %d", code)
	}
	return errors.Mark(errors.Wrapf(err, "notion: status %d", code), sentinel)
}
