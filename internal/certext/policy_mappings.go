package certext

import (
	"crypto/x509/pkix"
	"fmt"
	"strings"

	"github.com/remiblancher/certext/internal/der"
)

// NamePolicyMappings is the conventional name of the extension.
const NamePolicyMappings = "PolicyMappings"

// AttrMap is the single attribute name recognized by PolicyMappings.
const AttrMap = "map"

// PolicyMappings is the Policy Mappings extension (OID 2.5.29.33). It
// declares certificate policies considered equivalent between the issuing
// and the subject CA.
//
//	PolicyMappings ::= SEQUENCE OF SEQUENCE {
//	    issuerDomainPolicy  CertPolicyId,
//	    subjectDomainPolicy CertPolicyId }
//
// The sequence is ordered: wire order follows insertion order. Duplicate
// pairs are permitted; this layer does not deduplicate.
type PolicyMappings struct {
	Extension

	maps []CertificatePolicyMap
}

var _ CertAttrSet = (*PolicyMappings)(nil)

// NewPolicyMappings creates the extension from an ordered list of policy
// maps and encodes it immediately. The list is copied.
func NewPolicyMappings(critical bool, maps []CertificatePolicyMap) (*PolicyMappings, error) {
	pm := &PolicyMappings{
		Extension: Extension{ID: OIDExtPolicyMappings, Critical: critical},
		maps:      append([]CertificatePolicyMap(nil), maps...),
	}
	if err := pm.reencode(); err != nil {
		return nil, &ExtError{Op: "encode", Ext: NamePolicyMappings, Err: err}
	}
	return pm, nil
}

// ParsePolicyMappingsValue creates the extension from its DER-encoded
// value and criticality, as found inside a certificate.
func ParsePolicyMappingsValue(critical bool, value []byte) (*PolicyMappings, error) {
	pm := &PolicyMappings{
		Extension: Extension{
			ID:       OIDExtPolicyMappings,
			Critical: critical,
			value:    append([]byte(nil), value...),
		},
	}

	r := der.NewReader(value)
	outer, err := r.ReadValue()
	if err != nil {
		return nil, &ExtError{Op: "decode", Ext: NamePolicyMappings, Err: err}
	}
	if outer.Tag != sequenceTag {
		return nil, &ExtError{Op: "decode", Ext: NamePolicyMappings,
			Err: fmt.Errorf("%w: sequence tag missing", ErrStructural)}
	}
	if !r.Empty() {
		return nil, &ExtError{Op: "decode", Ext: NamePolicyMappings,
			Err: fmt.Errorf("%w: trailing data after sequence", ErrStructural)}
	}

	inner := der.NewReader(outer.Content)
	for !inner.Empty() {
		next, err := inner.ReadValue()
		if err != nil {
			return nil, &ExtError{Op: "decode", Ext: NamePolicyMappings, Err: err}
		}
		m, err := parsePolicyMap(next)
		if err != nil {
			return nil, &ExtError{Op: "decode", Ext: NamePolicyMappings, Err: err}
		}
		pm.maps = append(pm.maps, m)
	}
	return pm, nil
}

// reencode rebuilds the cached extension value from the current list.
// An empty list yields a nil value: the extension carries no content and
// callers normally omit it from the certificate.
func (p *PolicyMappings) reencode() error {
	if len(p.maps) == 0 {
		p.value = nil
		return nil
	}
	var inner []byte
	for _, m := range p.maps {
		enc, err := m.encode()
		if err != nil {
			return err
		}
		inner = append(inner, enc...)
	}
	seq, err := der.Sequence(inner)
	if err != nil {
		return err
	}
	p.value = seq
	return nil
}

// Encode returns the full DER encoding of the extension, rebuilding the
// cached value first if the list changed since the last encoding.
func (p *PolicyMappings) Encode() ([]byte, error) {
	if p.value == nil {
		if err := p.reencode(); err != nil {
			return nil, &ExtError{Op: "encode", Ext: NamePolicyMappings, Err: err}
		}
	}
	out, err := p.encodeEnvelope()
	if err != nil {
		return nil, &ExtError{Op: "encode", Ext: NamePolicyMappings, Err: err}
	}
	return out, nil
}

// PKIX returns the extension in the form used by crypto/x509 certificate
// templates, rebuilding the cached value if needed.
func (p *PolicyMappings) PKIX() (pkix.Extension, error) {
	if p.value == nil {
		if err := p.reencode(); err != nil {
			return pkix.Extension{}, &ExtError{Op: "encode", Ext: NamePolicyMappings, Err: err}
		}
	}
	return p.pkixExtension()
}

// Maps returns a copy of the ordered policy map list.
func (p *PolicyMappings) Maps() []CertificatePolicyMap {
	return append([]CertificatePolicyMap(nil), p.maps...)
}

// Name returns the extension's conventional name.
func (p *PolicyMappings) Name() string { return NamePolicyMappings }

// Get returns the ordered policy map list for the "map" attribute.
func (p *PolicyMappings) Get(name string) (any, error) {
	if !strings.EqualFold(name, AttrMap) {
		return nil, &ExtError{Op: "get", Ext: NamePolicyMappings,
			Err: fmt.Errorf("%w: %q", ErrUnknownAttribute, name)}
	}
	return p.Maps(), nil
}

// Set replaces the entire ordered list atomically; it does not merge or
// append. The value must be a []CertificatePolicyMap.
func (p *PolicyMappings) Set(name string, value any) error {
	if !strings.EqualFold(name, AttrMap) {
		return &ExtError{Op: "set", Ext: NamePolicyMappings,
			Err: fmt.Errorf("%w: %q", ErrUnknownAttribute, name)}
	}
	maps, ok := value.([]CertificatePolicyMap)
	if !ok {
		return &ExtError{Op: "set", Ext: NamePolicyMappings,
			Err: fmt.Errorf("%w: %q takes a []CertificatePolicyMap", ErrInvalidAttributeType, name)}
	}
	p.maps = append([]CertificatePolicyMap(nil), maps...)
	p.invalidate()
	return nil
}

// Delete resets the list to empty and invalidates the cache.
func (p *PolicyMappings) Delete(name string) error {
	if !strings.EqualFold(name, AttrMap) {
		return &ExtError{Op: "delete", Ext: NamePolicyMappings,
			Err: fmt.Errorf("%w: %q", ErrUnknownAttribute, name)}
	}
	p.maps = nil
	p.invalidate()
	return nil
}

// AttributeNames returns the attribute names this extension supports.
func (p *PolicyMappings) AttributeNames() []string {
	return []string{AttrMap}
}

// String returns a human-readable summary for diagnostics.
func (p *PolicyMappings) String() string {
	if len(p.maps) == 0 {
		return NamePolicyMappings + ": [ ]"
	}
	entries := make([]string, len(p.maps))
	for i, m := range p.maps {
		entries[i] = m.String()
	}
	return NamePolicyMappings + ": [ " + strings.Join(entries, ", ") + " ]"
}
