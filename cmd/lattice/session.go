package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Manage stored sessions",
	Long:  `List, inspect, and remove sessions kept in the configured store.`,
}

var sessionLsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List all stored sessions",
	Run: func(cmd *cobra.Command, args []string) {
		app := mustOpenApp(cmd)
		defer app.Close()

		ids, err := app.Service.Manager().List(cmd.Context())
		if err != nil {
			fail("Error listing sessions", err)
		}
		if len(ids) == 0 {
			fmt.Println("No sessions found.")
			return
		}
		for _, id := range ids {
			fmt.Fprintln(cmd.OutOrStdout(), id)
		}
	},
}

var sessionInspectCmd = &cobra.Command{
	Use:   "inspect <id>",
	Short: "Show the stored values of a session",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		app := mustOpenApp(cmd)
		defer app.Close()

		res, err := app.Service.Get(cmd.Context(), args[0])
		if err != nil {
			fail("Error loading session", err)
		}
		if err := writeResult(cmd, res); err != nil {
			fail("Output failed", err)
		}
	},
}

var sessionRmCmd = &cobra.Command{
	Use:   "rm <id>",
	Short: "Remove a session",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		app := mustOpenApp(cmd)
		defer app.Close()

		if err := app.Service.Delete(cmd.Context(), args[0]); err != nil {
			fail("Error removing session", err)
		}
		fmt.Printf("Session '%s' removed.\n", args[0])
	},
}

func init() {
	rootCmd.AddCommand(sessionCmd)
	sessionCmd.AddCommand(sessionLsCmd)
	sessionCmd.AddCommand(sessionInspectCmd)
	sessionCmd.AddCommand(sessionRmCmd)
	addFormatFlag(sessionInspectCmd)
}
