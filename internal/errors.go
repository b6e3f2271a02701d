package internal

import "fmt"

type SourceNotFoundError struct {
	Path string
}

func (e *SourceNotFoundError) Error() string {
	return fmt.Sprintf("source file not found: %s", e.Path)
}

// ProcessingError covers every failure after the source was found: decode, resize, encode, write and publish.
type ProcessingError struct {
	Err error
}

func (e *ProcessingError) Error() string { return e.Err.Error() }

func (e *ProcessingError) Unwrap() error { return e.Err }
