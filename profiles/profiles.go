// Package profiles provides embedded policy extension profile templates.
//
// These profiles define ready-made Policy Constraints and Policy Mappings
// configurations and are embedded in the binary for convenience. Users can
// also copy and customize them.
package profiles

import "embed"

// FS contains all embedded profile YAML files under policy/.
//
//go:embed all:policy
var FS embed.FS
