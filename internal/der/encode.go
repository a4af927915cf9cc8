package der

import (
	encoding_asn1 "encoding/asn1"
	"fmt"

	"golang.org/x/crypto/cryptobyte"
	cryptobyte_asn1 "golang.org/x/crypto/cryptobyte/asn1"
)

// Integer encodes n as a universal INTEGER in minimal two's-complement
// big-endian form.
func Integer(n int) ([]byte, error) {
	b := cryptobyte.NewBuilder(nil)
	b.AddASN1Int64(int64(n))
	return b.Bytes()
}

// Sequence wraps already-encoded inner content in a universal SEQUENCE
// with a canonical length (short form below 128 bytes, minimal long form
// otherwise).
func Sequence(inner []byte) ([]byte, error) {
	b := cryptobyte.NewBuilder(nil)
	b.AddASN1(cryptobyte_asn1.SEQUENCE, func(seq *cryptobyte.Builder) {
		seq.AddBytes(inner)
	})
	return b.Bytes()
}

// ImplicitContext re-tags an already-encoded element with the
// context-specific primitive tag num, preserving length and content. This
// implements ASN.1 IMPLICIT tagging for optional fields distinguished
// purely by tag number.
func ImplicitContext(num uint8, encoded []byte) ([]byte, error) {
	s := cryptobyte.String(encoded)
	var content cryptobyte.String
	var tag cryptobyte_asn1.Tag
	if !s.ReadAnyASN1(&content, &tag) || !s.Empty() {
		return nil, fmt.Errorf("%w: cannot re-tag element", ErrMalformed)
	}
	b := cryptobyte.NewBuilder(nil)
	b.AddASN1(cryptobyte_asn1.Tag(num).ContextSpecific(), func(c *cryptobyte.Builder) {
		c.AddBytes(content)
	})
	return b.Bytes()
}

// ObjectIdentifier encodes oid as a universal OBJECT IDENTIFIER.
func ObjectIdentifier(oid encoding_asn1.ObjectIdentifier) ([]byte, error) {
	b := cryptobyte.NewBuilder(nil)
	b.AddASN1ObjectIdentifier(oid)
	return b.Bytes()
}

// OctetString encodes content as a universal OCTET STRING.
func OctetString(content []byte) ([]byte, error) {
	b := cryptobyte.NewBuilder(nil)
	b.AddASN1OctetString(content)
	return b.Bytes()
}

// Bool encodes v as a universal BOOLEAN (0xff for true per DER).
func Bool(v bool) ([]byte, error) {
	b := cryptobyte.NewBuilder(nil)
	b.AddASN1Boolean(v)
	return b.Bytes()
}
