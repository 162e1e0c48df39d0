package runner

import (
	"context"

	"github.com/aretw0/lattice/pkg/session"
)

// IOHandler defines the strategy for interacting with the user.
// This allows switching between Text (CLI/TUI) and JSON (Structured) modes.
type IOHandler interface {
	// Output presents the outcome of an interaction.
	// When full is set every node is shown, otherwise only the visited ones.
	Output(ctx context.Context, res *session.Result, full bool) error

	// Input reads the next command. It returns io.EOF when the input ends.
	Input(ctx context.Context) (Command, error)

	// SystemOutput presents a meta-message to the user (errors, status updates).
	SystemOutput(ctx context.Context, msg string) error
}

// ContentRenderer is a function that transforms markdown before outputting it.
// This allows for TUI rendering (markdown to ANSI) without coupling the core package.
type ContentRenderer func(string) (string, error)
