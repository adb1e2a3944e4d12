// Package cli wires the command line entrypoints.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/justice-digital/dps-smoketest/pkg/version"
)

func RootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:     "dps-smoketest",
		Short:   "Smoke test orchestrator for the digital prison services",
		Version: version.GetVersion(),
	}

	root.AddCommand(
		ServeCmd(),
	)

	return root
}
