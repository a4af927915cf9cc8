// Package der implements the subset of ASN.1 DER encoding and decoding
// used by X.509 extension values: INTEGERs, SEQUENCEs, OBJECT IDENTIFIERs
// and context-specific IMPLICIT tags.
//
// Decoding is strict: non-canonical lengths and non-minimal integer
// encodings are rejected.
package der

import (
	encoding_asn1 "encoding/asn1"
	"errors"
	"fmt"

	"golang.org/x/crypto/cryptobyte"
	cryptobyte_asn1 "golang.org/x/crypto/cryptobyte/asn1"
)

// ErrMalformed indicates a truncated element, a declared length exceeding
// the available bytes, or an otherwise invalid DER encoding.
var ErrMalformed = errors.New("malformed DER encoding")

// Tag byte layout: bits 7-6 class, bit 5 constructed, bits 4-0 tag number.
const (
	classMask       = 0xc0
	classContext    = 0x80
	constructedBit  = 0x20
	lowTagNumberMax = 0x1f
)

// Value is a single decoded DER element: its full tag byte (class and
// constructed bit included) and its content bytes.
type Value struct {
	Tag     cryptobyte_asn1.Tag
	Content []byte
}

// Constructed reports whether the element's constructed bit is set.
func (v Value) Constructed() bool {
	return v.Tag&constructedBit != 0
}

// IsContextSpecific reports whether the element carries a context-specific
// tag with the given tag number, regardless of the constructed bit.
func (v Value) IsContextSpecific(num uint8) bool {
	return uint8(v.Tag)&classMask == classContext && uint8(v.Tag)&lowTagNumberMax == num&lowTagNumberMax
}

// Integer reinterprets the element's content as a universal INTEGER and
// returns its value. Implicitly tagged integers carry only content bytes
// on the wire, so the original tag is ignored here.
func (v Value) Integer() (int, error) {
	c := v.Content
	if len(c) == 0 {
		return 0, fmt.Errorf("%w: empty integer", ErrMalformed)
	}
	if len(c) > 1 && ((c[0] == 0x00 && c[1]&0x80 == 0) || (c[0] == 0xff && c[1]&0x80 != 0)) {
		return 0, fmt.Errorf("%w: integer not minimally encoded", ErrMalformed)
	}
	if len(c) > 8 {
		return 0, fmt.Errorf("%w: integer exceeds 64 bits", ErrMalformed)
	}
	n := int64(0)
	if c[0]&0x80 != 0 {
		n = -1
	}
	for _, b := range c {
		n = n<<8 | int64(b)
	}
	return int(n), nil
}

// Reader is a cursor over a DER buffer. It is stateful and must not be
// shared across concurrent decodes; create one Reader per decode.
type Reader struct {
	s cryptobyte.String
}

// NewReader returns a Reader positioned at the start of b. The buffer is
// not copied and must not be mutated while the Reader is in use.
func NewReader(b []byte) *Reader {
	return &Reader{s: cryptobyte.String(b)}
}

// Remaining returns the number of unread bytes.
func (r *Reader) Remaining() int {
	return len(r.s)
}

// Empty reports whether the cursor is exhausted.
func (r *Reader) Empty() bool {
	return len(r.s) == 0
}

// PeekTag returns the tag of the next element without advancing the
// cursor. The second return value is false at end of input.
func (r *Reader) PeekTag() (cryptobyte_asn1.Tag, bool) {
	if len(r.s) == 0 {
		return 0, false
	}
	return cryptobyte_asn1.Tag(r.s[0]), true
}

// ReadValue decodes the next element and advances the cursor past it.
func (r *Reader) ReadValue() (Value, error) {
	var content cryptobyte.String
	var tag cryptobyte_asn1.Tag
	if !r.s.ReadAnyASN1(&content, &tag) {
		return Value{}, fmt.Errorf("%w: truncated or invalid element", ErrMalformed)
	}
	return Value{Tag: tag, Content: content}, nil
}

// ReadObjectIdentifier decodes the next element as an OBJECT IDENTIFIER.
func (r *Reader) ReadObjectIdentifier() (encoding_asn1.ObjectIdentifier, error) {
	var oid encoding_asn1.ObjectIdentifier
	if !r.s.ReadASN1ObjectIdentifier(&oid) {
		return nil, fmt.Errorf("%w: invalid object identifier", ErrMalformed)
	}
	return oid, nil
}

// ReadBoolean decodes the next element as a BOOLEAN. DER booleans must be
// 0x00 or 0xff; anything else is rejected.
func (r *Reader) ReadBoolean() (bool, error) {
	var b bool
	if !r.s.ReadASN1Boolean(&b) {
		return false, fmt.Errorf("%w: invalid boolean", ErrMalformed)
	}
	return b, nil
}

// ReadOctetString decodes the next element as an OCTET STRING and returns
// its content.
func (r *Reader) ReadOctetString() ([]byte, error) {
	var s cryptobyte.String
	if !r.s.ReadASN1(&s, cryptobyte_asn1.OCTET_STRING) {
		return nil, fmt.Errorf("%w: invalid octet string", ErrMalformed)
	}
	return s, nil
}
