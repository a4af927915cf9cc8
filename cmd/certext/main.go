// Command certext inspects and builds X.509 policy certificate extensions.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Build-time variables (injected by GoReleaser)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "certext",
	Short: "X.509 policy extension toolkit",
	Long: `certext encodes, decodes and inspects X.509 policy certificate
extensions: Policy Constraints (2.5.29.36) and Policy Mappings (2.5.29.33).

Extensions can be decoded from PEM certificates or raw DER values, and
built from YAML profiles for use in certificate templates.`,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("certext %s (commit %s, built %s)\n", version, commit, date)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(inspectCmd)
	rootCmd.AddCommand(buildCmd)
	rootCmd.AddCommand(profileCmd)
}
