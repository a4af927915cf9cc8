package certext

import (
	"crypto/x509/pkix"
	"fmt"
	"strings"

	"github.com/remiblancher/certext/internal/der"
)

// NamePolicyConstraints is the conventional name of the extension.
const NamePolicyConstraints = "PolicyConstraints"

// Attribute names recognized by PolicyConstraints.
const (
	AttrRequire = "require"
	AttrInhibit = "inhibit"
)

// Unspecified is the value the attribute protocol uses for an absent skip
// count: Get returns it when a field is unset, and passing it to Set (or a
// constructor) leaves the field unset.
const Unspecified = -1

// Context tag numbers inside the PolicyConstraints SEQUENCE.
const (
	tagRequire = 0
	tagInhibit = 1
)

// PolicyConstraints is the Policy Constraints extension (OID 2.5.29.36).
// It constrains path validation by requiring explicit policy indication
// and/or inhibiting policy mapping after a number of certificates.
//
//	PolicyConstraints ::= SEQUENCE {
//	    requireExplicitPolicy [0] IMPLICIT INTEGER OPTIONAL,
//	    inhibitPolicyMapping  [1] IMPLICIT INTEGER OPTIONAL }
//
// Both skip counts are non-negative; an unset field is absent from the
// wire entirely.
type PolicyConstraints struct {
	Extension

	require *int
	inhibit *int
}

var _ CertAttrSet = (*PolicyConstraints)(nil)

// NewPolicyConstraints creates the extension from explicit skip counts,
// using Unspecified (-1) for an absent field, and encodes it immediately.
func NewPolicyConstraints(critical bool, require, inhibit int) (*PolicyConstraints, error) {
	pc := &PolicyConstraints{
		Extension: Extension{ID: OIDExtPolicyConstraints, Critical: critical},
	}
	var err error
	if pc.require, err = skipCount(require); err != nil {
		return nil, &ExtError{Op: "encode", Ext: NamePolicyConstraints, Err: err}
	}
	if pc.inhibit, err = skipCount(inhibit); err != nil {
		return nil, &ExtError{Op: "encode", Ext: NamePolicyConstraints, Err: err}
	}
	if err := pc.reencode(); err != nil {
		return nil, &ExtError{Op: "encode", Ext: NamePolicyConstraints, Err: err}
	}
	return pc, nil
}

// skipCount validates a constructor skip count and maps Unspecified to an
// unset field.
func skipCount(n int) (*int, error) {
	if n == Unspecified {
		return nil, nil
	}
	if n < 0 {
		return nil, fmt.Errorf("%w: skip count must be non-negative", ErrInvalidAttributeType)
	}
	return &n, nil
}

// ParsePolicyConstraintsValue creates the extension from its DER-encoded
// value and criticality, as found inside a certificate.
func ParsePolicyConstraintsValue(critical bool, value []byte) (*PolicyConstraints, error) {
	pc := &PolicyConstraints{
		Extension: Extension{
			ID:       OIDExtPolicyConstraints,
			Critical: critical,
			value:    append([]byte(nil), value...),
		},
	}

	r := der.NewReader(value)
	outer, err := r.ReadValue()
	if err != nil {
		return nil, &ExtError{Op: "decode", Ext: NamePolicyConstraints, Err: err}
	}
	if outer.Tag != sequenceTag {
		return nil, &ExtError{Op: "decode", Ext: NamePolicyConstraints,
			Err: fmt.Errorf("%w: sequence tag missing", ErrStructural)}
	}
	if !r.Empty() {
		return nil, &ExtError{Op: "decode", Ext: NamePolicyConstraints,
			Err: fmt.Errorf("%w: trailing data after sequence", ErrStructural)}
	}

	inner := der.NewReader(outer.Content)
	for !inner.Empty() {
		next, err := inner.ReadValue()
		if err != nil {
			return nil, &ExtError{Op: "decode", Ext: NamePolicyConstraints, Err: err}
		}
		switch {
		case next.IsContextSpecific(tagRequire) && !next.Constructed():
			if pc.require != nil {
				return nil, &ExtError{Op: "decode", Ext: NamePolicyConstraints,
					Err: fmt.Errorf("%w: requireExplicitPolicy", ErrDuplicateField)}
			}
			if pc.inhibit != nil {
				return nil, &ExtError{Op: "decode", Ext: NamePolicyConstraints,
					Err: fmt.Errorf("%w: fields out of order", ErrStructural)}
			}
			if pc.require, err = readSkipCount(next); err != nil {
				return nil, &ExtError{Op: "decode", Ext: NamePolicyConstraints, Err: err}
			}
		case next.IsContextSpecific(tagInhibit) && !next.Constructed():
			if pc.inhibit != nil {
				return nil, &ExtError{Op: "decode", Ext: NamePolicyConstraints,
					Err: fmt.Errorf("%w: inhibitPolicyMapping", ErrDuplicateField)}
			}
			if pc.inhibit, err = readSkipCount(next); err != nil {
				return nil, &ExtError{Op: "decode", Ext: NamePolicyConstraints, Err: err}
			}
		default:
			return nil, &ExtError{Op: "decode", Ext: NamePolicyConstraints,
				Err: fmt.Errorf("%w: unexpected element (tag 0x%02x)", ErrStructural, uint8(next.Tag))}
		}
	}
	return pc, nil
}

// readSkipCount reinterprets an implicitly tagged field as an INTEGER and
// enforces the SkipCerts (0..MAX) range.
func readSkipCount(v der.Value) (*int, error) {
	n, err := v.Integer()
	if err != nil {
		return nil, err
	}
	if n < 0 {
		return nil, fmt.Errorf("%w: negative skip count", ErrStructural)
	}
	return &n, nil
}

// reencode rebuilds the cached extension value from the current fields.
// With both fields unset the value is nil: the extension carries no
// content and callers normally omit it from the certificate.
func (p *PolicyConstraints) reencode() error {
	if p.require == nil && p.inhibit == nil {
		p.value = nil
		return nil
	}

	var inner []byte
	if p.require != nil {
		enc, err := der.Integer(*p.require)
		if err != nil {
			return err
		}
		tagged, err := der.ImplicitContext(tagRequire, enc)
		if err != nil {
			return err
		}
		inner = append(inner, tagged...)
	}
	if p.inhibit != nil {
		enc, err := der.Integer(*p.inhibit)
		if err != nil {
			return err
		}
		tagged, err := der.ImplicitContext(tagInhibit, enc)
		if err != nil {
			return err
		}
		inner = append(inner, tagged...)
	}

	seq, err := der.Sequence(inner)
	if err != nil {
		return err
	}
	p.value = seq
	return nil
}

// Encode returns the full DER encoding of the extension, rebuilding the
// cached value first if a field changed since the last encoding.
func (p *PolicyConstraints) Encode() ([]byte, error) {
	if p.value == nil {
		if err := p.reencode(); err != nil {
			return nil, &ExtError{Op: "encode", Ext: NamePolicyConstraints, Err: err}
		}
	}
	out, err := p.encodeEnvelope()
	if err != nil {
		return nil, &ExtError{Op: "encode", Ext: NamePolicyConstraints, Err: err}
	}
	return out, nil
}

// PKIX returns the extension in the form used by crypto/x509 certificate
// templates, rebuilding the cached value if needed.
func (p *PolicyConstraints) PKIX() (pkix.Extension, error) {
	if p.value == nil {
		if err := p.reencode(); err != nil {
			return pkix.Extension{}, &ExtError{Op: "encode", Ext: NamePolicyConstraints, Err: err}
		}
	}
	return p.pkixExtension()
}

// Require returns the require-explicit-policy skip count.
// The second return value is false when the field is absent.
func (p *PolicyConstraints) Require() (int, bool) {
	if p.require == nil {
		return 0, false
	}
	return *p.require, true
}

// Inhibit returns the inhibit-policy-mapping skip count.
// The second return value is false when the field is absent.
func (p *PolicyConstraints) Inhibit() (int, bool) {
	if p.inhibit == nil {
		return 0, false
	}
	return *p.inhibit, true
}

// Name returns the extension's conventional name.
func (p *PolicyConstraints) Name() string { return NamePolicyConstraints }

// Get returns the named skip count, or Unspecified when absent.
func (p *PolicyConstraints) Get(name string) (any, error) {
	switch {
	case strings.EqualFold(name, AttrRequire):
		return optInt(p.require), nil
	case strings.EqualFold(name, AttrInhibit):
		return optInt(p.inhibit), nil
	default:
		return nil, &ExtError{Op: "get", Ext: NamePolicyConstraints,
			Err: fmt.Errorf("%w: %q", ErrUnknownAttribute, name)}
	}
}

// Set replaces the named skip count. The value must be an int; Unspecified
// clears the field. The cached encoding is invalidated.
func (p *PolicyConstraints) Set(name string, value any) error {
	n, ok := value.(int)
	if !ok {
		return &ExtError{Op: "set", Ext: NamePolicyConstraints,
			Err: fmt.Errorf("%w: %q takes an int", ErrInvalidAttributeType, name)}
	}
	field, err := skipCount(n)
	if err != nil {
		return &ExtError{Op: "set", Ext: NamePolicyConstraints, Err: err}
	}
	switch {
	case strings.EqualFold(name, AttrRequire):
		p.require = field
	case strings.EqualFold(name, AttrInhibit):
		p.inhibit = field
	default:
		return &ExtError{Op: "set", Ext: NamePolicyConstraints,
			Err: fmt.Errorf("%w: %q", ErrUnknownAttribute, name)}
	}
	p.invalidate()
	return nil
}

// Delete resets the named skip count to absent and invalidates the cache.
func (p *PolicyConstraints) Delete(name string) error {
	switch {
	case strings.EqualFold(name, AttrRequire):
		p.require = nil
	case strings.EqualFold(name, AttrInhibit):
		p.inhibit = nil
	default:
		return &ExtError{Op: "delete", Ext: NamePolicyConstraints,
			Err: fmt.Errorf("%w: %q", ErrUnknownAttribute, name)}
	}
	p.invalidate()
	return nil
}

// AttributeNames returns the attribute names this extension supports.
func (p *PolicyConstraints) AttributeNames() []string {
	return []string{AttrRequire, AttrInhibit}
}

// String returns a human-readable summary for diagnostics.
func (p *PolicyConstraints) String() string {
	var b strings.Builder
	b.WriteString(NamePolicyConstraints + ": [ Require: ")
	if p.require == nil {
		b.WriteString("unspecified")
	} else {
		fmt.Fprintf(&b, "%d", *p.require)
	}
	b.WriteString("; Inhibit: ")
	if p.inhibit == nil {
		b.WriteString("unspecified")
	} else {
		fmt.Fprintf(&b, "%d", *p.inhibit)
	}
	b.WriteString(" ]")
	return b.String()
}

// optInt maps an unset field to Unspecified for the attribute protocol.
func optInt(v *int) int {
	if v == nil {
		return Unspecified
	}
	return *v
}
