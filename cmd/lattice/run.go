package main

import (
	"fmt"
	"os"

	"github.com/aretw0/lattice/internal/cli"
	"github.com/aretw0/lattice/internal/presentation/tui"
	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Interact with the graph from the terminal",
	Long: `Starts (or, with --resume, continues) a session and reads one command per line:

  id=<json>   write a value, e.g. year.value=2001
  !id         recompute a node explicitly
  :show       print every node
  :quit       leave (Ctrl+D and Ctrl+C work too)

With --json, commands are JSON objects such as {"values": {"a": 1}, "changed": ["b"]}
and every result is printed as one JSON line.`,
	Run: func(cmd *cobra.Command, args []string) {
		var opts cli.RunOptions
		opts.SessionID, _ = cmd.Flags().GetString("session")
		opts.Resume, _ = cmd.Flags().GetBool("resume")
		opts.JSON, _ = cmd.Flags().GetBool("json")
		opts.Values, _ = cmd.Flags().GetString("values")
		opts.Pretty = !opts.JSON && tui.IsTerminal(os.Stdout)

		app := mustOpenApp(cmd)
		defer app.Close()

		if err := cli.Run(cmd.Context(), app, opts, os.Stdin, os.Stdout); err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().StringP("session", "s", "", "Session id (generated when empty)")
	runCmd.Flags().Bool("resume", false, "Continue the stored session instead of starting over")
	runCmd.Flags().Bool("json", false, "Read and write JSON lines")
	runCmd.Flags().String("values", "", "Initial edits as a JSON object")
}
