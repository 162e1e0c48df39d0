package tui

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/aretw0/lattice/pkg/domain"
	"github.com/charmbracelet/glamour"
	"golang.org/x/term"
)

// NewRenderer returns a function that renders markdown using glamour.
// The style follows the terminal background.
func NewRenderer() func(string) (string, error) {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
	)
	if err != nil {
		return func(markdown string) (string, error) { return markdown, nil }
	}

	return func(markdown string) (string, error) {
		return r.Render(markdown)
	}
}

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// SnapshotTable renders snapshots as a markdown table in the given order.
// Rows for ids in visited are marked with a bullet.
func SnapshotTable(order []domain.NodeID, snaps map[domain.NodeID]domain.Snapshot, visited domain.IDSet) string {
	var sb strings.Builder
	sb.WriteString("| | Node | Value | Depends on |\n")
	sb.WriteString("|---|---|---|---|\n")
	for _, id := range order {
		s, ok := snaps[id]
		if !ok {
			continue
		}
		mark := ""
		if visited.Has(id) {
			mark = "●"
		}
		name := "`" + string(id) + "`"
		if s.Writable {
			name += " ✎"
		}
		deps := make([]string, len(s.DependencyIDs))
		for i, d := range s.DependencyIDs {
			deps[i] = string(d)
		}
		fmt.Fprintf(&sb, "| %s | %s | %s | %s |\n", mark, name, cell(s.Value), strings.Join(deps, ", "))
	}
	return sb.String()
}

func cell(v domain.Value) string {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	s := strings.ReplaceAll(string(data), "|", "\\|")
	if len(s) > 60 {
		s = s[:57] + "..."
	}
	return "`" + s + "`"
}
