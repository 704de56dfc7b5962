package shared

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// Configuration errors
	ErrMissingConfig      = fmt.Errorf("configuration not found")
	ErrInvalidConfig      = fmt.Errorf("invalid configuration")
	ErrMissingCredentials = fmt.Errorf("missing credentials")

	// Authentication errors
	ErrAuthFailed       = fmt.Errorf("authentication failed")
	ErrNotAuthenticated = fmt.Errorf("not authenticated")
	ErrTokenExpired     = fmt.Errorf("access token expired")
	ErrRefreshFailed    = fmt.Errorf("token refresh failed")
	ErrTimeout          = fmt.Errorf("operation timed out")

	// API and service errors
	ErrAPIRequest         = fmt.Errorf("API request failed")
	ErrServiceUnavailable = fmt.Errorf("service unavailable")
	ErrPlaylistNotFound   = fmt.Errorf("playlist not found")
	ErrFavoriteNotFound   = fmt.Errorf("favorite not found")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
	ErrInvalidFlag     = fmt.Errorf("invalid flag value")
)

// APIError is a non-success response from the catalog API.
//
// Message is the provider's error.message when the body carried one.
type APIError struct {
	Status  int
	Message string
}

// NewAPIError builds an [APIError], falling back to a generic message.
func NewAPIError(status int, message string) *APIError {
	if message == "" {
		message = fmt.Sprintf("request failed with status %d", status)
	}
	return &APIError{Status: status, Message: message}
}

func (e *APIError) Error() string {
	return e.Message
}

// Is matches [ErrAPIRequest] for every status and [ErrTokenExpired] for 401s.
func (e *APIError) Is(target error) bool {
	switch target {
	case ErrAPIRequest:
		return true
	case ErrTokenExpired:
		return e.Status == http.StatusUnauthorized
	}
	return false
}

// StatusCode extracts the HTTP status from an [APIError] anywhere in err's chain.
func StatusCode(err error) (int, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Status, true
	}
	return 0, false
}
