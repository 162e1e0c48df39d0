package runner

import (
	"log/slog"

	"github.com/aretw0/lattice/pkg/domain"
)

// Option defines a functional option for configuring the Runner.
type Option func(*Runner)

// WithLogger configures the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) {
		if logger != nil {
			r.Logger = logger
		}
	}
}

// WithInputHandler configures a custom IOHandler.
func WithInputHandler(handler IOHandler) Option {
	return func(r *Runner) {
		r.Handler = handler
	}
}

// WithSessionID sets the session to run.
func WithSessionID(id string) Option {
	return func(r *Runner) {
		r.SessionID = id
	}
}

// WithResume continues the stored session named by WithSessionID, if there is one.
func WithResume(resume bool) Option {
	return func(r *Runner) {
		r.Resume = resume
	}
}

// WithInitialValues writes values before the first evaluation of a new session.
func WithInitialValues(values map[domain.NodeID]domain.Value) Option {
	return func(r *Runner) {
		r.Initial = values
	}
}
