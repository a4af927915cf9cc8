package certext

import (
	"encoding/asn1"
	"fmt"

	"github.com/remiblancher/certext/internal/der"
)

// CertificatePolicyMap declares one issuer-domain to subject-domain policy
// equivalence inside the Policy Mappings extension. It is immutable once
// constructed.
//
//	SEQUENCE {
//	    issuerDomainPolicy  CertPolicyId,
//	    subjectDomainPolicy CertPolicyId }
type CertificatePolicyMap struct {
	IssuerDomainPolicy  asn1.ObjectIdentifier
	SubjectDomainPolicy asn1.ObjectIdentifier
}

// encode returns the pair as a DER SEQUENCE of its two OIDs.
func (m CertificatePolicyMap) encode() ([]byte, error) {
	issuer, err := der.ObjectIdentifier(m.IssuerDomainPolicy)
	if err != nil {
		return nil, fmt.Errorf("encoding issuerDomainPolicy: %w", err)
	}
	subject, err := der.ObjectIdentifier(m.SubjectDomainPolicy)
	if err != nil {
		return nil, fmt.Errorf("encoding subjectDomainPolicy: %w", err)
	}
	return der.Sequence(append(issuer, subject...))
}

// parsePolicyMap decodes one pair from an already-read DER element.
func parsePolicyMap(v der.Value) (CertificatePolicyMap, error) {
	if v.Tag != sequenceTag {
		return CertificatePolicyMap{}, fmt.Errorf("%w: policy map is not a sequence", ErrStructural)
	}
	r := der.NewReader(v.Content)
	issuer, err := r.ReadObjectIdentifier()
	if err != nil {
		return CertificatePolicyMap{}, fmt.Errorf("%w: issuerDomainPolicy", ErrStructural)
	}
	subject, err := r.ReadObjectIdentifier()
	if err != nil {
		return CertificatePolicyMap{}, fmt.Errorf("%w: subjectDomainPolicy", ErrStructural)
	}
	if !r.Empty() {
		return CertificatePolicyMap{}, fmt.Errorf("%w: policy map holds more than two OIDs", ErrStructural)
	}
	return CertificatePolicyMap{
		IssuerDomainPolicy:  issuer,
		SubjectDomainPolicy: subject,
	}, nil
}

// String returns a human-readable rendering of the pair.
func (m CertificatePolicyMap) String() string {
	return fmt.Sprintf("%s -> %s", m.IssuerDomainPolicy, m.SubjectDomainPolicy)
}
