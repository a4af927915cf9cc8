package certext

// CertAttrSet is implemented by extension types that expose their fields
// through dynamically named attributes, so generic certificate-assembly
// code can build extensions from name/value pairs without compile-time
// knowledge of each extension's shape.
//
// Attribute names are matched case-insensitively. Get returns the current
// field value, Set type-checks and replaces it, Delete resets it to its
// absent state. Set and Delete invalidate any cached DER value; the next
// Encode re-derives it.
type CertAttrSet interface {
	// Name returns the extension's conventional name.
	Name() string

	// Get returns the value of the named attribute.
	// Fails with ErrUnknownAttribute for unrecognized names.
	Get(name string) (any, error)

	// Set replaces the value of the named attribute.
	// Fails with ErrUnknownAttribute or ErrInvalidAttributeType.
	Set(name string, value any) error

	// Delete resets the named attribute to its absent state.
	Delete(name string) error

	// AttributeNames returns the fixed, ordered list of attribute names
	// this extension type supports. The result is stable across calls.
	AttributeNames() []string

	// Encode returns the full DER encoding of the extension, envelope
	// included, rebuilding the cached value if a field changed.
	Encode() ([]byte, error)

	// String returns a human-readable summary for diagnostics.
	String() string
}
