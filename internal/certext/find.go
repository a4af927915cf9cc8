package certext

import (
	"crypto/x509/pkix"
	"encoding/asn1"
	"fmt"
)

// DecodeValue constructs the concrete extension type for oid from a raw
// extension value and criticality. It fails for OIDs this package has no
// codec for.
func DecodeValue(critical bool, oid asn1.ObjectIdentifier, value []byte) (CertAttrSet, error) {
	switch {
	case OIDEqual(oid, OIDExtPolicyConstraints):
		return ParsePolicyConstraintsValue(critical, value)
	case OIDEqual(oid, OIDExtPolicyMappings):
		return ParsePolicyMappingsValue(critical, value)
	default:
		return nil, fmt.Errorf("no codec for extension %s", oid)
	}
}

// FindPolicyConstraints searches a certificate's extension list for the
// Policy Constraints extension. Returns nil if not present.
func FindPolicyConstraints(extensions []pkix.Extension) *pkix.Extension {
	return findByOID(extensions, OIDExtPolicyConstraints)
}

// ParsePolicyConstraints decodes the Policy Constraints extension from a
// certificate's extension list. Returns nil if not present.
func ParsePolicyConstraints(extensions []pkix.Extension) (*PolicyConstraints, error) {
	ext := FindPolicyConstraints(extensions)
	if ext == nil {
		return nil, nil
	}
	return ParsePolicyConstraintsValue(ext.Critical, ext.Value)
}

// FindPolicyMappings searches a certificate's extension list for the
// Policy Mappings extension. Returns nil if not present.
func FindPolicyMappings(extensions []pkix.Extension) *pkix.Extension {
	return findByOID(extensions, OIDExtPolicyMappings)
}

// ParsePolicyMappings decodes the Policy Mappings extension from a
// certificate's extension list. Returns nil if not present.
func ParsePolicyMappings(extensions []pkix.Extension) (*PolicyMappings, error) {
	ext := FindPolicyMappings(extensions)
	if ext == nil {
		return nil, nil
	}
	return ParsePolicyMappingsValue(ext.Critical, ext.Value)
}

func findByOID(extensions []pkix.Extension, oid asn1.ObjectIdentifier) *pkix.Extension {
	for i := range extensions {
		if OIDEqual(extensions[i].Id, oid) {
			return &extensions[i]
		}
	}
	return nil
}
