package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/aretw0/lattice"
	"github.com/aretw0/lattice/internal/presentation/tui"
	"github.com/aretw0/lattice/pkg/runner"
)

// RunOptions contains the configuration for the interactive run command.
type RunOptions struct {
	SessionID string
	Resume    bool
	JSON      bool
	// Values is a raw JSON object written before the first evaluation.
	Values string
	// Pretty renders snapshot tables as markdown; only useful on a terminal.
	Pretty bool
}

// Run starts an interactive session on app, reading commands from in and writing to out.
func Run(ctx context.Context, app *App, opts RunOptions, in io.Reader, out io.Writer) error {
	initial, err := ParseValues(opts.Values)
	if err != nil {
		return err
	}
	if opts.Resume && opts.SessionID == "" {
		return fmt.Errorf("--resume needs a --session id")
	}

	var handler runner.IOHandler
	if opts.JSON {
		handler = runner.NewJSONHandler(in, out)
	} else {
		var textOpts []runner.TextHandlerOption
		if opts.Pretty {
			tui.PrintBanner(out, strings.TrimSpace(lattice.Version))
			fmt.Fprintf(out, "%s\n\n", app.Definition.Name())
			textOpts = append(textOpts, runner.WithTextHandlerRenderer(tui.NewRenderer()))
		}
		handler = runner.NewTextHandler(in, out, textOpts...)
	}

	r := runner.NewRunner(app.Service,
		runner.WithLogger(app.Logger),
		runner.WithInputHandler(handler),
		runner.WithSessionID(opts.SessionID),
		runner.WithResume(opts.Resume),
		runner.WithInitialValues(initial),
	)
	return r.Run(ctx)
}
