package profile

import (
	"fmt"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"
)

// Profile is one named policy extension profile.
type Profile struct {
	Name        string            `yaml:"name"`
	Description string            `yaml:"description,omitempty"`
	Extensions  *ExtensionsConfig `yaml:"extensions,omitempty"`
}

// Load reads and parses a profile YAML file from disk.
func Load(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read profile: %w", err)
	}
	return Parse(data)
}

// LoadFS reads and parses a profile from a filesystem, typically the
// embedded default profiles.
func LoadFS(fsys fs.FS, name string) (*Profile, error) {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return nil, fmt.Errorf("failed to read profile: %w", err)
	}
	return Parse(data)
}

// Parse parses profile YAML data.
func Parse(data []byte) (*Profile, error) {
	var p Profile
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("failed to parse profile YAML: %w", err)
	}
	return &p, nil
}

// Validate checks the profile for correctness without building anything:
// names, OID syntax and skip count ranges.
func (p *Profile) Validate() error {
	if p.Name == "" {
		return fmt.Errorf("profile has no name")
	}
	if p.Extensions == nil {
		return fmt.Errorf("profile %q configures no extensions", p.Name)
	}
	if cfg := p.Extensions.PolicyConstraints; cfg != nil {
		if cfg.RequireExplicitPolicy == nil && cfg.InhibitPolicyMapping == nil {
			return fmt.Errorf("policyConstraints: at least one of requireExplicitPolicy or inhibitPolicyMapping must be set")
		}
		if v := cfg.RequireExplicitPolicy; v != nil && *v < 0 {
			return fmt.Errorf("policyConstraints: requireExplicitPolicy must be non-negative")
		}
		if v := cfg.InhibitPolicyMapping; v != nil && *v < 0 {
			return fmt.Errorf("policyConstraints: inhibitPolicyMapping must be non-negative")
		}
	}
	if cfg := p.Extensions.PolicyMappings; cfg != nil {
		if len(cfg.Map) == 0 {
			return fmt.Errorf("policyMappings: map must list at least one policy pair")
		}
		for i, pair := range cfg.Map {
			if _, err := ParseOID(pair.IssuerDomainPolicy); err != nil {
				return fmt.Errorf("policyMappings: map[%d].issuerDomainPolicy: %w", i, err)
			}
			if _, err := ParseOID(pair.SubjectDomainPolicy); err != nil {
				return fmt.Errorf("policyMappings: map[%d].subjectDomainPolicy: %w", i, err)
			}
		}
	}
	return nil
}
