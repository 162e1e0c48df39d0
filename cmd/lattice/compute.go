package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/aretw0/lattice/internal/cli"
	"github.com/spf13/cobra"
)

var computeCmd = &cobra.Command{
	Use:   "compute",
	Short: "Evaluate the whole graph and store it as a session",
	Long: `Runs a full evaluation of the manifest's graph, after writing the optional --values,
and stores the committed values under --session (a fresh id when omitted).`,
	Run: func(cmd *cobra.Command, args []string) {
		app := mustOpenApp(cmd)
		defer app.Close()

		raw, _ := cmd.Flags().GetString("values")
		sessionID, _ := cmd.Flags().GetString("session")

		values, err := cli.ParseValues(raw)
		if err != nil {
			fail("Invalid values", err)
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		res, err := app.Service.Start(ctx, sessionID, values)
		if err != nil {
			fail("Compute failed", err)
		}
		if err := writeResult(cmd, res); err != nil {
			fail("Output failed", err)
		}
	},
}

var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "Apply edits to a stored session and recompute what they affect",
	Long: `Restores the session's values, writes --values, and recomputes the nodes reached by
the edits. Nodes named with --changed are recomputed even when nothing reaches them.
Only the visited nodes are reported as visited; the result lists every node.`,
	Run: func(cmd *cobra.Command, args []string) {
		app := mustOpenApp(cmd)
		defer app.Close()

		raw, _ := cmd.Flags().GetString("values")
		sessionID, _ := cmd.Flags().GetString("session")
		changed, _ := cmd.Flags().GetStringSlice("changed")

		values, err := cli.ParseValues(raw)
		if err != nil {
			fail("Invalid values", err)
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		res, err := app.Service.Update(ctx, sessionID, values, cli.ParseIDs(changed)...)
		if err != nil {
			fail("Update failed", err)
		}
		if err := writeResult(cmd, res); err != nil {
			fail("Output failed", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(computeCmd)
	computeCmd.Flags().StringP("session", "s", "", "Session id (generated when empty)")
	computeCmd.Flags().String("values", "", `Initial edits as a JSON object, e.g. '{"year.value": 2001}'`)
	addFormatFlag(computeCmd)

	rootCmd.AddCommand(updateCmd)
	updateCmd.Flags().StringP("session", "s", "", "Session id")
	updateCmd.Flags().String("values", "", "Edits as a JSON object")
	updateCmd.Flags().StringSlice("changed", nil, "Nodes to recompute explicitly")
	_ = updateCmd.MarkFlagRequired("session")
	addFormatFlag(updateCmd)
}
