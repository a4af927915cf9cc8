package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/fxamacker/cbor/v2"
	"github.com/spf13/cobra"

	"github.com/remiblancher/certext/internal/certext"
	"github.com/remiblancher/certext/internal/cli"
)

var inspectFormat string

var inspectCmd = &cobra.Command{
	Use:   "inspect <file>",
	Short: "Decode policy extensions from a certificate or raw DER",
	Long: `Inspect policy extensions and display their contents.

The input is either a PEM certificate, whose Policy Constraints and
Policy Mappings extensions are decoded, or a single DER-encoded
Extension envelope (raw bytes or hex text).

Examples:
  # Inspect a CA certificate
  certext inspect ca.crt

  # Inspect one DER-encoded extension
  certext inspect policy-constraints.der

  # Machine-readable output
  certext inspect ca.crt --format json
  certext inspect ca.crt --format cbor > report.cbor`,
	Args: cobra.ExactArgs(1),
	RunE: runInspect,
}

func init() {
	inspectCmd.Flags().StringVar(&inspectFormat, "format", "text", "output format: text, json or cbor")
}

// extensionReport is the machine-readable rendering of one decoded
// extension.
type extensionReport struct {
	OID      string   `json:"oid" cbor:"oid"`
	Name     string   `json:"name,omitempty" cbor:"name,omitempty"`
	Critical bool     `json:"critical" cbor:"critical"`
	Summary  string   `json:"summary" cbor:"summary"`
	Require  *int     `json:"requireExplicitPolicy,omitempty" cbor:"requireExplicitPolicy,omitempty"`
	Inhibit  *int     `json:"inhibitPolicyMapping,omitempty" cbor:"inhibitPolicyMapping,omitempty"`
	Maps     []string `json:"policyMappings,omitempty" cbor:"policyMappings,omitempty"`
}

func runInspect(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}

	var reports []extensionReport
	if cli.IsPEM(data) {
		reports, err = inspectCertificate(args[0])
	} else {
		reports, err = inspectRawExtension(data)
	}
	if err != nil {
		return err
	}
	if len(reports) == 0 {
		return fmt.Errorf("no policy extensions found")
	}
	return writeReports(reports)
}

// inspectCertificate decodes the policy extensions of a PEM certificate.
func inspectCertificate(path string) ([]extensionReport, error) {
	cert, err := cli.LoadCertFromPath(path)
	if err != nil {
		return nil, err
	}

	var reports []extensionReport
	if ext := certext.FindPolicyMappings(cert.Extensions); ext != nil {
		pm, err := certext.ParsePolicyMappingsValue(ext.Critical, ext.Value)
		if err != nil {
			return nil, err
		}
		reports = append(reports, reportOf(pm))
	}
	if ext := certext.FindPolicyConstraints(cert.Extensions); ext != nil {
		pc, err := certext.ParsePolicyConstraintsValue(ext.Critical, ext.Value)
		if err != nil {
			return nil, err
		}
		reports = append(reports, reportOf(pc))
	}
	return reports, nil
}

// inspectRawExtension decodes a single DER Extension envelope, raw or hex.
func inspectRawExtension(data []byte) ([]extensionReport, error) {
	raw, err := cli.DecodeBinary(data)
	if err != nil {
		return nil, err
	}
	oid, critical, value, err := certext.ParseRawExtension(raw)
	if err != nil {
		return nil, err
	}
	ext, err := certext.DecodeValue(critical, oid, value)
	if err != nil {
		return nil, err
	}
	return []extensionReport{reportOf(ext)}, nil
}

// reportOf builds the report for one decoded extension.
func reportOf(ext certext.CertAttrSet) extensionReport {
	r := extensionReport{
		Name:    ext.Name(),
		Summary: ext.String(),
	}
	switch e := ext.(type) {
	case *certext.PolicyConstraints:
		r.OID = certext.OIDExtPolicyConstraints.String()
		r.Critical = e.Critical
		if v, ok := e.Require(); ok {
			r.Require = &v
		}
		if v, ok := e.Inhibit(); ok {
			r.Inhibit = &v
		}
	case *certext.PolicyMappings:
		r.OID = certext.OIDExtPolicyMappings.String()
		r.Critical = e.Critical
		for _, m := range e.Maps() {
			r.Maps = append(r.Maps, m.String())
		}
	}
	return r
}

func writeReports(reports []extensionReport) error {
	switch inspectFormat {
	case "text":
		for _, r := range reports {
			fmt.Printf("%s (%s, %s)\n", r.Name, r.OID, cli.FormatCriticality(r.Critical))
			fmt.Printf("  %s\n", r.Summary)
		}
		return nil
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(reports)
	case "cbor":
		data, err := cbor.Marshal(reports)
		if err != nil {
			return fmt.Errorf("failed to encode CBOR: %w", err)
		}
		_, err = os.Stdout.Write(data)
		return err
	default:
		return fmt.Errorf("unknown format: %s", inspectFormat)
	}
}
