package main

import (
	"fmt"
	"os"

	"github.com/aretw0/lattice/internal/cli"
	"github.com/aretw0/lattice/internal/presentation/tui"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate [manifest]",
	Short: "Check the manifest for consistency",
	Long: `Builds the manifest's graph and reports cycles, dangling references, routes missing
from the resolver config, and nodes that no edit can recompute.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		opts := loadOptions(cmd)
		if len(args) > 0 {
			opts.Manifest = args[0]
		}

		def, report, err := cli.Validate(opts)
		if err == nil {
			err = report.Err()
		}
		if err != nil {
			fmt.Printf("%s %v\n", tui.Status(false, "Validation failed:"), err)
			os.Exit(1)
		}

		for _, w := range report.Warnings {
			fmt.Printf("warning: %s\n", w)
		}
		fmt.Printf("%s %q declares %d nodes\n", tui.Status(true, "Graph is valid!"), def.Name(), def.Len())
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
