package certext

import (
	"errors"
	"fmt"
)

// ExtError represents an extension encode/decode error with structured
// context. It supports errors.Is() and errors.As() through the error chain.
type ExtError struct {
	Op  string // Operation: "decode", "encode", "get", "set", "delete"
	Ext string // Extension name (if known)
	Err error  // Underlying error
}

// Error implements the error interface.
func (e *ExtError) Error() string {
	if e.Ext != "" {
		return fmt.Sprintf("extension %s [%s]: %v", e.Op, e.Ext, e.Err)
	}
	return fmt.Sprintf("extension %s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error for errors.Is/As support.
func (e *ExtError) Unwrap() error { return e.Err }

// Sentinel errors for extension operations.
// Use errors.Is() to check for these errors through the error chain.
var (
	// ErrStructural indicates a wrong outer tag, an unexpected
	// tag/constructed-bit combination, or trailing data in a value.
	ErrStructural = errors.New("invalid extension encoding")

	// ErrDuplicateField indicates a context-tagged field repeated within
	// one extension value.
	ErrDuplicateField = errors.New("duplicate field")

	// ErrUnknownAttribute indicates an attribute name not recognized by
	// the extension type.
	ErrUnknownAttribute = errors.New("attribute name not recognized")

	// ErrInvalidAttributeType indicates an attribute value whose type does
	// not match the field's expected kind.
	ErrInvalidAttributeType = errors.New("attribute value has wrong type")

	// ErrNoValue indicates an extension whose fields are all absent, so
	// there is nothing to encode. Callers normally omit the extension.
	ErrNoValue = errors.New("extension has no value to encode")
)
