package certext

import (
	"crypto/x509/pkix"
	"encoding/asn1"
	"fmt"

	cryptobyte_asn1 "golang.org/x/crypto/cryptobyte/asn1"

	"github.com/remiblancher/certext/internal/der"
)

// Universal tags the extension decoders dispatch on.
const (
	sequenceTag = cryptobyte_asn1.SEQUENCE
	booleanTag  = cryptobyte_asn1.BOOLEAN
)

// Extension is the envelope shared by every X.509 extension: the object
// identifier, the criticality flag and the DER-encoded extension value.
//
//	Extension ::= SEQUENCE {
//	    extnID    OBJECT IDENTIFIER,
//	    critical  BOOLEAN DEFAULT FALSE,
//	    extnValue OCTET STRING }
type Extension struct {
	ID       asn1.ObjectIdentifier
	Critical bool

	// value caches the DER encoding of the extension value. nil means
	// stale or absent; concrete types re-derive it before encoding.
	value []byte
}

// invalidate drops the cached value after a field mutation.
func (e *Extension) invalidate() { e.value = nil }

// Value returns a copy of the cached DER extension value, or nil when the
// extension currently carries no content.
func (e *Extension) Value() []byte {
	if e.value == nil {
		return nil
	}
	return append([]byte(nil), e.value...)
}

// Empty reports whether the extension currently carries no content.
func (e *Extension) Empty() bool { return len(e.value) == 0 }

// encodeEnvelope writes the outer Extension SEQUENCE around the cached
// value. The criticality BOOLEAN defaults to FALSE and is omitted from
// the wire when false, per the X.509 DER profile.
func (e *Extension) encodeEnvelope() ([]byte, error) {
	if len(e.value) == 0 {
		return nil, ErrNoValue
	}
	oid, err := der.ObjectIdentifier(e.ID)
	if err != nil {
		return nil, fmt.Errorf("encoding extension OID: %w", err)
	}
	inner := oid
	if e.Critical {
		crit, err := der.Bool(true)
		if err != nil {
			return nil, fmt.Errorf("encoding criticality: %w", err)
		}
		inner = append(inner, crit...)
	}
	val, err := der.OctetString(e.value)
	if err != nil {
		return nil, fmt.Errorf("encoding extension value: %w", err)
	}
	inner = append(inner, val...)
	return der.Sequence(inner)
}

// pkixExtension returns the cached state in the form used by crypto/x509
// certificate templates.
func (e *Extension) pkixExtension() (pkix.Extension, error) {
	if len(e.value) == 0 {
		return pkix.Extension{}, ErrNoValue
	}
	return pkix.Extension{
		Id:       e.ID,
		Critical: e.Critical,
		Value:    append([]byte(nil), e.value...),
	}, nil
}

// ParseRawExtension decodes one DER-encoded Extension envelope and returns
// its OID, criticality and extension value. The value itself is not
// interpreted; pass it to the matching extension constructor.
func ParseRawExtension(b []byte) (asn1.ObjectIdentifier, bool, []byte, error) {
	r := der.NewReader(b)
	outer, err := r.ReadValue()
	if err != nil {
		return nil, false, nil, &ExtError{Op: "decode", Err: err}
	}
	if outer.Tag != sequenceTag || !r.Empty() {
		return nil, false, nil, &ExtError{Op: "decode", Err: fmt.Errorf("%w: sequence tag missing", ErrStructural)}
	}

	inner := der.NewReader(outer.Content)
	oid, err := inner.ReadObjectIdentifier()
	if err != nil {
		return nil, false, nil, &ExtError{Op: "decode", Err: err}
	}
	critical := false
	if tag, ok := inner.PeekTag(); ok && tag == booleanTag {
		critical, err = inner.ReadBoolean()
		if err != nil {
			return nil, false, nil, &ExtError{Op: "decode", Ext: OIDName(oid), Err: err}
		}
	}
	value, err := inner.ReadOctetString()
	if err != nil {
		return nil, false, nil, &ExtError{Op: "decode", Ext: OIDName(oid), Err: err}
	}
	if !inner.Empty() {
		return nil, false, nil, &ExtError{Op: "decode", Ext: OIDName(oid), Err: fmt.Errorf("%w: trailing data", ErrStructural)}
	}
	return oid, critical, value, nil
}
