package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner writes the Lattice banner and version to w.
func PrintBanner(w io.Writer, version string) {
	p := termenv.ColorProfile()
	lines := []struct {
		text  string
		color string
	}{
		{"  _          _   _   _          ", "#34d399"},
		{" | |    __ _| |_| |_(_) ___ ___ ", "#2dd4bf"},
		{" | |   / _` | __| __| |/ __/ _ \\", "#22d3ee"},
		{" | |__| (_| | |_| |_| | (_|  __/", "#38bdf8"},
		{" |_____\\__,_|\\__|\\__|_|\\___\\___|", "#60a5fa"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, termenv.String(l.text).Foreground(p.Color(l.color)))
	}
	if version != "" {
		fmt.Fprintln(w, termenv.String("  "+version).Faint())
	}
	fmt.Fprintln(w)
}

// Status formats a short colored status word: green when ok, red otherwise.
func Status(ok bool, text string) string {
	p := termenv.ColorProfile()
	color := "#f87171"
	if ok {
		color = "#4ade80"
	}
	return termenv.String(text).Foreground(p.Color(color)).Bold().String()
}
