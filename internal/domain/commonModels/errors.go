package commonModels

import (
	"errors"
	"fmt"
)

var (
	ErrUnsupportedFormat   = errors.New("unsupported file format")
	ErrUnreadableContent   = errors.New("file has no readable text")
	ErrExtractionFailure   = errors.New("file could not be extracted")
	ErrUnsupportedStrategy = errors.New("unsupported strategy")
	ErrGenerationFailure   = errors.New("answer generation failed")
	ErrIndexNotFound       = errors.New("folder index not found")
)

type UnsupportedFormatError struct {
	Name      string
	Extension string
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("unsupported file format %q for file %q", e.Extension, e.Name)
}

func (e *UnsupportedFormatError) Is(target error) bool { return target == ErrUnsupportedFormat }

// UnreadableContentError is returned when extraction works but yields no text,
// typically a scanned or encrypted PDF. Re-export the file or run it through OCR.
type UnreadableContentError struct {
	Name string
}

func (e *UnreadableContentError) Error() string {
	return fmt.Sprintf("no readable text in %q, the file may be scanned or encrypted", e.Name)
}

func (e *UnreadableContentError) Is(target error) bool { return target == ErrUnreadableContent }

// ExtractionError is a file whose bytes do not parse as its extension claims:
// a corrupt PDF, a DOCX that is not a zip archive, a text file that is not UTF-8.
type ExtractionError struct {
	Name string
	Err  error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("could not extract %q: %v", e.Name, e.Err)
}

func (e *ExtractionError) Unwrap() error { return e.Err }

func (e *ExtractionError) Is(target error) bool { return target == ErrExtractionFailure }

// UnsupportedStrategyError names the config key ("embedding", "vector_store", "llm")
// and the value that is not registered.
type UnsupportedStrategyError struct {
	Kind string
	Name string
}

func (e *UnsupportedStrategyError) Error() string {
	return fmt.Sprintf("%s %q not supported", e.Kind, e.Name)
}

func (e *UnsupportedStrategyError) Is(target error) bool { return target == ErrUnsupportedStrategy }

// GenerationError wraps the provider error untouched so callers can still
// errors.As into the vendor error type.
type GenerationError struct {
	Provider string
	Err      error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("%s generation failed: %v", e.Provider, e.Err)
}

func (e *GenerationError) Unwrap() error { return e.Err }

func (e *GenerationError) Is(target error) bool { return target == ErrGenerationFailure }
