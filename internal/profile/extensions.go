// Package profile provides YAML-configurable policy extension profiles
// with explicit criticality support. A profile describes the policy
// extensions to attach to a certificate; compiling it drives the
// extensions' named-attribute API.
package profile

import (
	"crypto/x509/pkix"
	"encoding/asn1"
	"fmt"
	"strconv"
	"strings"

	"github.com/remiblancher/certext/internal/certext"
)

// ExtensionsConfig holds the configurable policy extensions.
// Each extension can specify its criticality explicitly.
// If criticality is not specified, RFC 5280 defaults are used.
type ExtensionsConfig struct {
	PolicyConstraints *PolicyConstraintsConfig `yaml:"policyConstraints,omitempty"`
	PolicyMappings    *PolicyMappingsConfig    `yaml:"policyMappings,omitempty"`
}

// PolicyConstraintsConfig configures the Policy Constraints extension
// (OID 2.5.29.36). RFC 5280: conforming CAs MUST mark it critical.
type PolicyConstraintsConfig struct {
	Critical              *bool `yaml:"critical,omitempty"` // default: true (RFC 5280)
	RequireExplicitPolicy *int  `yaml:"requireExplicitPolicy,omitempty"`
	InhibitPolicyMapping  *int  `yaml:"inhibitPolicyMapping,omitempty"`
}

// IsCritical returns true if the extension should be marked critical.
// Default: true per RFC 5280.
func (c *PolicyConstraintsConfig) IsCritical() bool {
	if c.Critical == nil {
		return true
	}
	return *c.Critical
}

// PolicyMappingsConfig configures the Policy Mappings extension
// (OID 2.5.29.33). RFC 5280: conforming CAs SHOULD mark it critical.
type PolicyMappingsConfig struct {
	Critical *bool           `yaml:"critical,omitempty"` // default: true (RFC 5280)
	Map      []PolicyMapPair `yaml:"map"`
}

// IsCritical returns true if the extension should be marked critical.
// Default: true per RFC 5280.
func (c *PolicyMappingsConfig) IsCritical() bool {
	if c.Critical == nil {
		return true
	}
	return *c.Critical
}

// PolicyMapPair is one issuer-domain to subject-domain policy equivalence,
// with both policies given as dotted-decimal OIDs.
type PolicyMapPair struct {
	IssuerDomainPolicy  string `yaml:"issuerDomainPolicy"`
	SubjectDomainPolicy string `yaml:"subjectDomainPolicy"`
}

// Build compiles the configured extensions, through their named-attribute
// API, into the form used by crypto/x509 certificate templates.
func (c *ExtensionsConfig) Build() ([]pkix.Extension, error) {
	var exts []pkix.Extension

	if cfg := c.PolicyMappings; cfg != nil {
		ext, err := cfg.build()
		if err != nil {
			return nil, fmt.Errorf("policyMappings: %w", err)
		}
		exts = append(exts, ext)
	}
	if cfg := c.PolicyConstraints; cfg != nil {
		ext, err := cfg.build()
		if err != nil {
			return nil, fmt.Errorf("policyConstraints: %w", err)
		}
		exts = append(exts, ext)
	}
	return exts, nil
}

func (c *PolicyConstraintsConfig) build() (pkix.Extension, error) {
	if c.RequireExplicitPolicy == nil && c.InhibitPolicyMapping == nil {
		return pkix.Extension{}, fmt.Errorf("at least one of requireExplicitPolicy or inhibitPolicyMapping must be set")
	}
	pc, err := certext.NewPolicyConstraints(c.IsCritical(), certext.Unspecified, certext.Unspecified)
	if err != nil {
		return pkix.Extension{}, err
	}
	if c.RequireExplicitPolicy != nil {
		if err := pc.Set(certext.AttrRequire, *c.RequireExplicitPolicy); err != nil {
			return pkix.Extension{}, err
		}
	}
	if c.InhibitPolicyMapping != nil {
		if err := pc.Set(certext.AttrInhibit, *c.InhibitPolicyMapping); err != nil {
			return pkix.Extension{}, err
		}
	}
	return pc.PKIX()
}

func (c *PolicyMappingsConfig) build() (pkix.Extension, error) {
	if len(c.Map) == 0 {
		return pkix.Extension{}, fmt.Errorf("map must list at least one policy pair")
	}
	maps := make([]certext.CertificatePolicyMap, 0, len(c.Map))
	for i, pair := range c.Map {
		issuer, err := ParseOID(pair.IssuerDomainPolicy)
		if err != nil {
			return pkix.Extension{}, fmt.Errorf("map[%d].issuerDomainPolicy: %w", i, err)
		}
		subject, err := ParseOID(pair.SubjectDomainPolicy)
		if err != nil {
			return pkix.Extension{}, fmt.Errorf("map[%d].subjectDomainPolicy: %w", i, err)
		}
		maps = append(maps, certext.CertificatePolicyMap{
			IssuerDomainPolicy:  issuer,
			SubjectDomainPolicy: subject,
		})
	}
	pm, err := certext.NewPolicyMappings(c.IsCritical(), nil)
	if err != nil {
		return pkix.Extension{}, err
	}
	if err := pm.Set(certext.AttrMap, maps); err != nil {
		return pkix.Extension{}, err
	}
	return pm.PKIX()
}

// ParseOID parses a dotted-decimal OID string like "1.3.6.1.4.1.99999.1".
func ParseOID(s string) (asn1.ObjectIdentifier, error) {
	if s == "" {
		return nil, fmt.Errorf("empty OID")
	}
	parts := strings.Split(s, ".")
	if len(parts) < 2 {
		return nil, fmt.Errorf("OID %q needs at least two components", s)
	}
	oid := make(asn1.ObjectIdentifier, len(parts))
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 {
			return nil, fmt.Errorf("invalid OID component %q in %q", p, s)
		}
		oid[i] = n
	}
	return oid, nil
}
