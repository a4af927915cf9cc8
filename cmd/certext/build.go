package main

import (
	"encoding/hex"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/remiblancher/certext/internal/certext"
	"github.com/remiblancher/certext/internal/cli"
	"github.com/remiblancher/certext/internal/profile"
)

var (
	buildProfilePath string
	buildOutputPath  string
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build policy extensions from a profile",
	Long: `Build DER-encoded policy extensions from a YAML profile.

Each configured extension is encoded as a full Extension envelope
(OID, criticality, OCTET STRING value). With --out the concatenated
DER is written to a file; otherwise it is printed as hex.

Examples:
  # Build from a custom profile
  certext build --profile my-profile.yaml

  # Write raw DER to a file
  certext build --profile my-profile.yaml --out exts.der`,
	RunE: runBuild,
}

func init() {
	buildCmd.Flags().StringVar(&buildProfilePath, "profile", "", "profile YAML file (required)")
	buildCmd.Flags().StringVar(&buildOutputPath, "out", "", "write raw DER to this file instead of printing hex")
	_ = buildCmd.MarkFlagRequired("profile")
}

func runBuild(cmd *cobra.Command, args []string) error {
	p, err := profile.Load(buildProfilePath)
	if err != nil {
		return err
	}
	if err := p.Validate(); err != nil {
		return fmt.Errorf("profile %s: %w", buildProfilePath, err)
	}

	exts, err := p.Extensions.Build()
	if err != nil {
		return err
	}

	var out []byte
	for _, ext := range exts {
		attrSet, err := certext.DecodeValue(ext.Critical, ext.Id, ext.Value)
		if err != nil {
			return err
		}
		der, err := attrSet.Encode()
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "%s (%s, %s): %d bytes\n",
			attrSet.Name(), ext.Id, cli.FormatCriticality(ext.Critical), len(der))
		out = append(out, der...)
	}

	if buildOutputPath != "" {
		if err := os.WriteFile(buildOutputPath, out, 0o644); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		return nil
	}
	fmt.Println(hex.EncodeToString(out))
	return nil
}
