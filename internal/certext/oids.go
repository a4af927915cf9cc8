// Package certext implements DER encoding and decoding of X.509
// certificate extensions, and exposes their fields through a uniform
// named-attribute interface usable by certificate-building and
// certificate-parsing code.
package certext

import (
	"encoding/asn1"
)

// Standard X.509 extension OIDs.
var (
	// Subject Key Identifier extension
	OIDExtSubjectKeyId = asn1.ObjectIdentifier{2, 5, 29, 14}

	// Key Usage extension
	OIDExtKeyUsage = asn1.ObjectIdentifier{2, 5, 29, 15}

	// Subject Alternative Name extension
	OIDExtSubjectAltName = asn1.ObjectIdentifier{2, 5, 29, 17}

	// Basic Constraints extension
	OIDExtBasicConstraints = asn1.ObjectIdentifier{2, 5, 29, 19}

	// Name Constraints extension
	OIDExtNameConstraints = asn1.ObjectIdentifier{2, 5, 29, 30}

	// Certificate Policies extension
	OIDExtCertificatePolicies = asn1.ObjectIdentifier{2, 5, 29, 32}

	// Policy Mappings extension
	OIDExtPolicyMappings = asn1.ObjectIdentifier{2, 5, 29, 33}

	// Authority Key Identifier extension
	OIDExtAuthorityKeyId = asn1.ObjectIdentifier{2, 5, 29, 35}

	// Policy Constraints extension
	OIDExtPolicyConstraints = asn1.ObjectIdentifier{2, 5, 29, 36}

	// Extended Key Usage extension
	OIDExtExtKeyUsage = asn1.ObjectIdentifier{2, 5, 29, 37}

	// Inhibit anyPolicy extension
	OIDExtInhibitAnyPolicy = asn1.ObjectIdentifier{2, 5, 29, 54}
)

// OIDEqual compares two OIDs for equality.
func OIDEqual(a, b asn1.ObjectIdentifier) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// OIDName returns the conventional name of a known extension OID, or its
// dotted-decimal form for an unknown one.
func OIDName(oid asn1.ObjectIdentifier) string {
	switch {
	case OIDEqual(oid, OIDExtSubjectKeyId):
		return "SubjectKeyIdentifier"
	case OIDEqual(oid, OIDExtKeyUsage):
		return "KeyUsage"
	case OIDEqual(oid, OIDExtSubjectAltName):
		return "SubjectAlternativeName"
	case OIDEqual(oid, OIDExtBasicConstraints):
		return "BasicConstraints"
	case OIDEqual(oid, OIDExtNameConstraints):
		return "NameConstraints"
	case OIDEqual(oid, OIDExtCertificatePolicies):
		return "CertificatePolicies"
	case OIDEqual(oid, OIDExtPolicyMappings):
		return NamePolicyMappings
	case OIDEqual(oid, OIDExtAuthorityKeyId):
		return "AuthorityKeyIdentifier"
	case OIDEqual(oid, OIDExtPolicyConstraints):
		return NamePolicyConstraints
	case OIDEqual(oid, OIDExtExtKeyUsage):
		return "ExtendedKeyUsage"
	case OIDEqual(oid, OIDExtInhibitAnyPolicy):
		return "InhibitAnyPolicy"
	default:
		return oid.String()
	}
}
