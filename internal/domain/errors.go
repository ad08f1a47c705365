package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for the record model and allocator
var (
	ErrOutOfRange   = errors.New("form id out of range")
	ErrConflict     = errors.New("identifier conflict")
	ErrExhausted    = errors.New("form id space exhausted")
	ErrStructural   = errors.New("structural integrity violation")
	ErrFormat       = errors.New("malformed input")
	ErrInvalidCount = errors.New("count must be at least 1")
)

// RangeError reports an identifier outside the allocator bounds
type RangeError struct {
	ID    FormID
	Start FormID
	End   FormID
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("form id %s outside range [%s, %s]", e.ID.Hex(), e.Start.Hex(), e.End.Hex())
}

func (e *RangeError) Is(target error) bool {
	return target == ErrOutOfRange
}

// ConflictError reports an identifier that is already taken
type ConflictError struct {
	Identifier string
	Kind       string // "form id" or "editor id"
}

func (e *ConflictError) Error() string {
	kind := e.Kind
	if kind == "" {
		kind = "form id"
	}
	return fmt.Sprintf("%s %s already in use", kind, e.Identifier)
}

func (e *ConflictError) Is(target error) bool {
	return target == ErrConflict
}

// ExhaustedError reports that a request could not be satisfied by the remaining ids
type ExhaustedError struct {
	Requested int
	Available int
	Start     FormID
	End       FormID
}

func (e *ExhaustedError) Error() string {
	return fmt.Sprintf("cannot allocate %d form id(s) in [%s, %s]: %d available",
		e.Requested, e.Start.Hex(), e.End.Hex(), e.Available)
}

func (e *ExhaustedError) Is(target error) bool {
	return target == ErrExhausted
}

// StructuralIntegrityError reports a record whose cross references or required fields are broken
type StructuralIntegrityError struct {
	Record string
	Reason string
}

func (e *StructuralIntegrityError) Error() string {
	if e.Record == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Record, e.Reason)
}

func (e *StructuralIntegrityError) Is(target error) bool {
	return target == ErrStructural
}

// FormatError reports malformed XML or a non-numeric value in a numeric field
type FormatError struct {
	Source string // file name, empty when parsing from memory
	Tag    string
	Value  string
	Err    error
}

func (e *FormatError) Error() string {
	msg := "malformed input"
	if e.Tag != "" {
		msg = fmt.Sprintf("invalid %s value %q", e.Tag, e.Value)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	if e.Source != "" {
		return fmt.Sprintf("%s: %s", e.Source, msg)
	}
	return msg
}

func (e *FormatError) Is(target error) bool {
	return target == ErrFormat
}

func (e *FormatError) Unwrap() error {
	return e.Err
}
