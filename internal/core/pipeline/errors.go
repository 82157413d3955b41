package pipeline

import (
	"fmt"
)

// ValidationError reports missing or malformed request input. No provider
// is called when it is returned.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func invalid(format string, args ...any) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// CredentialError reports a provider that was asked for but has no key configured.
type CredentialError struct {
	Provider string
	Variable string
}

func (e *CredentialError) Error() string {
	if e.Variable == "" {
		return fmt.Sprintf("server configuration error: %s is not configured", e.Provider)
	}
	return fmt.Sprintf("server configuration error: missing %s for %s", e.Variable, e.Provider)
}

// ExtractionError wraps the failure of a single-image extraction, the only
// extraction failure that aborts a request.
type ExtractionError struct {
	Provider string
	Err      error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("text extraction failed: %v", e.Err)
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}

// ContentError wraps a failure to fetch or parse the page of a URL request.
type ContentError struct {
	URL string
	Err error
}

func (e *ContentError) Error() string {
	return fmt.Sprintf("content extraction failed: %v", e.Err)
}

func (e *ContentError) Unwrap() error {
	return e.Err
}
