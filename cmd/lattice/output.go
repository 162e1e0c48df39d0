package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/aretw0/lattice/internal/presentation/tui"
	"github.com/aretw0/lattice/pkg/domain"
	"github.com/aretw0/lattice/pkg/session"
	"github.com/spf13/cobra"
)

func addFormatFlag(cmd *cobra.Command) {
	cmd.Flags().StringP("format", "f", "json", "Output format: json or table")
}

// writeResult prints res as indented JSON, or as a table (rendered on a terminal).
func writeResult(cmd *cobra.Command, res *session.Result) error {
	format, _ := cmd.Flags().GetString("format")
	out := cmd.OutOrStdout()

	switch format {
	case "", "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	case "table":
		order := make([]domain.NodeID, len(res.Nodes))
		snaps := make(map[domain.NodeID]domain.Snapshot, len(res.Nodes))
		for i, s := range res.Nodes {
			order[i] = s.ID
			snaps[s.ID] = s
		}
		table := tui.SnapshotTable(order, snaps, domain.NewIDSet(res.Visited...))
		if tui.IsTerminal(os.Stdout) {
			if rendered, err := tui.NewRenderer()(table); err == nil {
				table = rendered
			}
		}
		fmt.Fprintf(out, "Session: %s\n", res.SessionID)
		_, err := io.WriteString(out, table)
		return err
	default:
		return fmt.Errorf("unknown format %q (expected json or table)", format)
	}
}

func fail(msg string, err error) {
	fmt.Printf("%s: %v\n", msg, err)
	os.Exit(1)
}
