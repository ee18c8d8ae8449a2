package services

import (
	"errors"
	"fmt"
)

// ErrSessionExpired is returned when the backend rejected the current
// session on an authenticated call and the client tore it down. It is
// the only error that clears credentials; callers should send the user
// back to the login screen, not show a generic failure.
var ErrSessionExpired = errors.New("session expired")

// ErrInvalidCredentials is returned when login or registration is
// rejected, or when the backend answered success without a token. The
// existing session (if any) is left untouched.
var ErrInvalidCredentials = errors.New("invalid credentials")

// APIError carries a non-2xx backend response, including the error code
// and message from the response envelope when present.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("api error %d (%s): %s", e.Status, e.Code, e.Message)
	}
	return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
}
