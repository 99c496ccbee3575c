package errors

import "fmt"

// ErrorCode represents an Artefakt error code.
type ErrorCode string

const (
	ErrInvalidRequest   ErrorCode = "INVALID_REQUEST"   // 400
	ErrUnsupportedPage  ErrorCode = "UNSUPPORTED_PAGE"  // 400
	ErrNotFound         ErrorCode = "NOT_FOUND"         // 404
	ErrDuplicateURL     ErrorCode = "DUPLICATE_URL"     // 409
	ErrConflict         ErrorCode = "CONFLICT"          // 409
	ErrStyleUnavailable ErrorCode = "STYLE_UNAVAILABLE" // 502
	ErrInternal         ErrorCode = "INTERNAL"          // 500
)

// ArtefaktError represents a structured error with code, status, and details.
type ArtefaktError struct {
	Code    ErrorCode
	Status  int
	Message string
	Details map[string]any
}

// Error implements the error interface.
func (e *ArtefaktError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewInvalidRequest creates a 400 error for invalid request parameters.
func NewInvalidRequest(msg string) *ArtefaktError {
	return &ArtefaktError{
		Code:    ErrInvalidRequest,
		Status:  400,
		Message: msg,
	}
}

// NewUnsupportedPage creates a 400 error for capture targets that are not
// web or local-file resources (browser-internal pages, data URLs, etc).
func NewUnsupportedPage(url string) *ArtefaktError {
	return &ArtefaktError{
		Code:    ErrUnsupportedPage,
		Status:  400,
		Message: fmt.Sprintf("page cannot be captured: %s", url),
		Details: map[string]any{"url": url},
	}
}

// NewNotFound creates a 404 error for when a source cannot be found.
func NewNotFound(identifier string) *ArtefaktError {
	return &ArtefaktError{
		Code:    ErrNotFound,
		Status:  404,
		Message: fmt.Sprintf("source not found: %s", identifier),
		Details: map[string]any{"identifier": identifier},
	}
}

// NewDuplicateURL creates a 409 error for when the URL is already captured
// in an active (non-deleted) source.
func NewDuplicateURL(url, existingID string) *ArtefaktError {
	return &ArtefaktError{
		Code:    ErrDuplicateURL,
		Status:  409,
		Message: fmt.Sprintf("source already captured for URL %q", url),
		Details: map[string]any{"url": url, "existing_id": existingID},
	}
}

// NewConflict creates a 409 error for general conflicts.
func NewConflict(msg string) *ArtefaktError {
	return &ArtefaktError{
		Code:    ErrConflict,
		Status:  409,
		Message: msg,
	}
}

// NewStyleUnavailable creates a 502 error for when a citation style
// definition cannot be fetched or parsed. Callers are expected to recover
// by falling back to the quick-citation path.
func NewStyleUnavailable(styleID string, err error) *ArtefaktError {
	msg := fmt.Sprintf("citation style %q unavailable", styleID)
	if err != nil {
		msg = fmt.Sprintf("%s: %v", msg, err)
	}
	return &ArtefaktError{
		Code:    ErrStyleUnavailable,
		Status:  502,
		Message: msg,
		Details: map[string]any{"style": styleID},
	}
}

// NewInternal creates a 500 error for unexpected internal errors.
func NewInternal(err error) *ArtefaktError {
	msg := "internal error"
	if err != nil {
		msg = err.Error()
	}
	return &ArtefaktError{
		Code:    ErrInternal,
		Status:  500,
		Message: msg,
	}
}

// Is checks if an error is an ArtefaktError with the given code.
func Is(err error, code ErrorCode) bool {
	if aErr, ok := err.(*ArtefaktError); ok {
		return aErr.Code == code
	}
	return false
}
