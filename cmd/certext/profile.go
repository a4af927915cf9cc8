package main

import (
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/remiblancher/certext/internal/profile"
	"github.com/remiblancher/certext/profiles"
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Manage policy extension profiles",
	Long: `Manage policy extension profiles.

A profile defines the policy extensions to attach to a certificate:
  - Policy Constraints with explicit criticality and skip counts
  - Policy Mappings with ordered issuer/subject policy pairs

Built-in profiles are embedded in the binary; custom profiles are
plain YAML files.

Examples:
  # List built-in profiles
  certext profile list

  # Show a built-in profile's YAML
  certext profile show cross-domain

  # Lint a custom profile file
  certext profile lint my-profile.yaml`,
}

var profileListCmd = &cobra.Command{
	Use:   "list",
	Short: "List built-in profiles",
	RunE:  runProfileList,
}

var profileShowCmd = &cobra.Command{
	Use:   "show <name>",
	Short: "Show a built-in profile's YAML content",
	Long: `Display the raw YAML content of a built-in profile.

This is useful for exporting profiles via shell redirection:
  certext profile show cross-domain > my-profile.yaml`,
	Args: cobra.ExactArgs(1),
	RunE: runProfileShow,
}

var profileLintCmd = &cobra.Command{
	Use:   "lint <file>",
	Short: "Lint a profile YAML file",
	Args:  cobra.ExactArgs(1),
	RunE:  runProfileLint,
}

func init() {
	profileCmd.AddCommand(profileListCmd)
	profileCmd.AddCommand(profileShowCmd)
	profileCmd.AddCommand(profileLintCmd)
}

func runProfileList(cmd *cobra.Command, args []string) error {
	names, err := builtinProfileNames()
	if err != nil {
		return err
	}
	sort.Strings(names)

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tDESCRIPTION")
	for _, name := range names {
		p, err := profile.LoadFS(profiles.FS, "policy/"+name+".yaml")
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%s\t%s\n", p.Name, strings.TrimSpace(p.Description))
	}
	return w.Flush()
}

func runProfileShow(cmd *cobra.Command, args []string) error {
	data, err := fs.ReadFile(profiles.FS, "policy/"+args[0]+".yaml")
	if err != nil {
		return fmt.Errorf("unknown profile %q", args[0])
	}
	fmt.Fprint(cmd.OutOrStdout(), string(data))
	return nil
}

func runProfileLint(cmd *cobra.Command, args []string) error {
	p, err := profile.Load(args[0])
	if err != nil {
		return err
	}
	if err := p.Validate(); err != nil {
		return fmt.Errorf("%s: %w", args[0], err)
	}
	if _, err := p.Extensions.Build(); err != nil {
		return fmt.Errorf("%s: %w", args[0], err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s: OK\n", args[0])
	return nil
}

// builtinProfileNames lists the embedded profiles without extension.
func builtinProfileNames() ([]string, error) {
	entries, err := fs.ReadDir(profiles.FS, "policy")
	if err != nil {
		return nil, err
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".yaml") {
			continue
		}
		names = append(names, strings.TrimSuffix(path.Base(e.Name()), ".yaml"))
	}
	return names, nil
}
