package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/aretw0/lattice/pkg/domain"
	"github.com/aretw0/lattice/pkg/session"
)

// Runner drives one session from a stream of user commands.
type Runner struct {
	// Handler is the strategy for IO. Defaults to a TextHandler on Stdin/Stdout.
	Handler IOHandler

	// Logger is used for internal debug logging.
	// If nil, a no-op logger is used.
	Logger *slog.Logger

	// SessionID names the session. If empty, a fresh id is generated on Run.
	SessionID string

	// Resume continues a stored session instead of starting over.
	Resume bool

	// Initial holds values written before the first full evaluation.
	Initial map[domain.NodeID]domain.Value

	service *session.Service
}

// NewRunner creates a Runner over svc.
func NewRunner(svc *session.Service, opts ...Option) *Runner {
	r := &Runner{
		service: svc,
		Logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.Handler == nil {
		r.Handler = NewTextHandler(os.Stdin, os.Stdout)
	}
	return r
}

// Run opens the session, prints it, and processes commands until the input ends,
// a :quit command arrives, or the process is interrupted. Engine errors raised by a
// command are reported through the handler and do not stop the loop.
func (r *Runner) Run(ctx context.Context) error {
	signals := NewSignalManager(ctx)
	defer signals.Stop()
	ctx = signals.Context()

	res, err := r.open(ctx)
	if err != nil {
		return err
	}
	r.SessionID = res.SessionID
	if err := r.Handler.Output(ctx, res, true); err != nil {
		return fmt.Errorf("output error: %w", err)
	}

	for {
		cmd, err := r.Handler.Input(ctx)
		if err != nil {
			if errors.Is(err, io.EOF) || signals.Interrupted() {
				return nil
			}
			return fmt.Errorf("input error: %w", err)
		}

		switch {
		case cmd.Quit:
			return nil
		case cmd.Show:
			res, err = r.service.Get(ctx, r.SessionID)
			if err != nil {
				return fmt.Errorf("failed to load session %s: %w", r.SessionID, err)
			}
			if err := r.Handler.Output(ctx, res, true); err != nil {
				return fmt.Errorf("output error: %w", err)
			}
			continue
		}

		res, err = r.service.Update(ctx, r.SessionID, cmd.Values, cmd.Changed...)
		if err != nil {
			if signals.Interrupted() {
				return nil
			}
			r.Logger.Warn("Interaction failed", "session_id", r.SessionID, "err", err)
			if err := r.Handler.SystemOutput(ctx, err.Error()); err != nil {
				return fmt.Errorf("output error: %w", err)
			}
			continue
		}
		r.Logger.Debug("Interaction applied", "session_id", r.SessionID, "visited", len(res.Visited))
		if err := r.Handler.Output(ctx, res, false); err != nil {
			return fmt.Errorf("output error: %w", err)
		}
	}
}

func (r *Runner) open(ctx context.Context) (*session.Result, error) {
	if r.Resume && r.SessionID != "" {
		res, err := r.service.Get(ctx, r.SessionID)
		if err == nil {
			r.Logger.Info("Resuming session", "session_id", r.SessionID)
			return res, nil
		}
		if !errors.Is(err, domain.ErrSessionNotFound) {
			return nil, fmt.Errorf("failed to resume session %s: %w", r.SessionID, err)
		}
	}

	res, err := r.service.Start(ctx, r.SessionID, r.Initial)
	if err != nil {
		return nil, fmt.Errorf("failed to start session: %w", err)
	}
	return res, nil
}
