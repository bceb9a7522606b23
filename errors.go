package doctran

import "fmt"

// ProviderError indicates an AI provider failure (API error, rate limit, etc.).
type ProviderError struct {
	Message string
	Cause   error
}

func (e *ProviderError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("provider error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("provider error: %s", e.Message)
}

func (e *ProviderError) Unwrap() error {
	return e.Cause
}

// ResponseFormatError indicates the provider returned content that does not
// parse as the expected structured shape. It is fatal for the chunk that
// produced it and aborts the remaining chunks of the file.
type ResponseFormatError struct {
	Message string
	Raw     string // the unparseable response content, for diagnostics
	Cause   error
}

func (e *ResponseFormatError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("response format error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("response format error: %s", e.Message)
}

func (e *ResponseFormatError) Unwrap() error {
	return e.Cause
}

// StoreError indicates a terminology store failure.
type StoreError struct {
	Message string
	Cause   error
}

func (e *StoreError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("store error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("store error: %s", e.Message)
}

func (e *StoreError) Unwrap() error {
	return e.Cause
}

// FormatError indicates a document format failure (unsupported extension,
// serialization problem).
type FormatError struct {
	Message string
	Path    string
	Cause   error
}

func (e *FormatError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("format error (%s): %s: %v", e.Path, e.Message, e.Cause)
	}
	return fmt.Sprintf("format error (%s): %s", e.Path, e.Message)
}

func (e *FormatError) Unwrap() error {
	return e.Cause
}

// CountMismatchError indicates the provider returned a different number of
// term translations than requested.
type CountMismatchError struct {
	Expected int
	Got      int
}

func (e *CountMismatchError) Error() string {
	return fmt.Sprintf("translation count mismatch: expected %d, got %d", e.Expected, e.Got)
}
