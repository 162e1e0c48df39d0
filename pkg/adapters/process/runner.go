package process

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"regexp"
	"runtime"
	"sort"
	"strings"
	"time"

	"github.com/aretw0/lattice/pkg/domain"
)

// DefaultGracePeriod is how long a cancelled command may take to exit after the interrupt.
const DefaultGracePeriod = 5 * time.Second

// EnvPrefix prefixes the environment variables that carry call params.
const EnvPrefix = "LATTICE_PARAM_"

var envUnsafe = regexp.MustCompile(`[^A-Z0-9_]`)

// Runner resolves remote calls by executing local processes.
// Only registered routes can run; params never reach the command line.
type Runner struct {
	registry map[string]RegisteredProcess
	baseDir  string
	grace    time.Duration
	logger   *slog.Logger
}

// RegisteredProcess defines an allowed command execution.
type RegisteredProcess struct {
	Command  string
	Args     []string
	Env      map[string]string
	Strategy domain.FetchStrategy
}

// RunnerOption configures the runner.
type RunnerOption func(*Runner)

// WithRoutes populates the allow-list from a loaded config.
func WithRoutes(routes map[string]RouteConfig) RunnerOption {
	return func(r *Runner) {
		for name, rc := range routes {
			strategy, _ := domain.ParseFetchStrategy(rc.Strategy)
			r.registry[name] = RegisteredProcess{
				Command:  rc.Command,
				Args:     rc.Args,
				Env:      rc.Environment,
				Strategy: strategy,
			}
		}
	}
}

// WithBaseDir sets the working directory for executed processes.
func WithBaseDir(dir string) RunnerOption {
	return func(r *Runner) {
		r.baseDir = dir
	}
}

// WithGracePeriod bounds the wait between interrupting a cancelled command and killing it.
func WithGracePeriod(d time.Duration) RunnerOption {
	return func(r *Runner) {
		r.grace = d
	}
}

// WithLogger sets the logger used for command diagnostics.
func WithLogger(logger *slog.Logger) RunnerOption {
	return func(r *Runner) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// NewRunner creates a new process runner.
func NewRunner(opts ...RunnerOption) *Runner {
	r := &Runner{
		registry: make(map[string]RegisteredProcess),
		grace:    DefaultGracePeriod,
		logger:   slog.New(slog.NewJSONHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Register adds a trusted command to the allow-list for route.
func (r *Runner) Register(route string, strategy domain.FetchStrategy, command string, args ...string) {
	r.registry[route] = RegisteredProcess{
		Command:  command,
		Args:     args,
		Strategy: strategy,
	}
}

// Routes lists the registered route names in lexical order.
func (r *Runner) Routes() []string {
	names := make([]string, 0, len(r.registry))
	for name := range r.registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Strategies reports the strategy served by each registered route.
func (r *Runner) Strategies() map[string]domain.FetchStrategy {
	out := make(map[string]domain.FetchStrategy, len(r.registry))
	for name, proc := range r.registry {
		out[name] = proc.Strategy
	}
	return out
}

// Resolve runs the command registered for call.Route. Params are written to stdin as a
// JSON object and exported as LATTICE_PARAM_<NAME> variables; stdout is decoded as JSON
// when it parses, and returned as trimmed text otherwise.
func (r *Runner) Resolve(ctx context.Context, call domain.RemoteCall) (domain.Value, error) {
	proc, ok := r.registry[call.Route]
	if !ok {
		return nil, &domain.RemoteError{Route: call.Route, Err: errors.New("process route not registered")}
	}
	if proc.Strategy != "" && call.Strategy != "" && proc.Strategy != call.Strategy {
		return nil, &domain.RemoteError{
			Route: call.Route,
			Err:   fmt.Errorf("route serves %s, node expects %s", proc.Strategy, call.Strategy),
		}
	}

	input, err := json.Marshal(paramsOrEmpty(call.Params))
	if err != nil {
		return nil, &domain.RemoteError{Route: call.Route, Err: fmt.Errorf("encode params: %w", err)}
	}

	cmd := exec.CommandContext(ctx, proc.Command, proc.Args...)
	cmd.Dir = r.baseDir
	cmd.Env = append(cmd.Environ(), environment(proc.Env, call.Params)...)
	cmd.Stdin = bytes.NewReader(input)
	cmd.Cancel = func() error {
		if runtime.GOOS == "windows" {
			return cmd.Process.Kill()
		}
		return cmd.Process.Signal(os.Interrupt)
	}
	cmd.WaitDelay = r.grace

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	err = cmd.Run()
	r.logger.Debug("process finished",
		"route", call.Route,
		"node", call.NodeID,
		"duration", time.Since(start),
		"err", err,
	)

	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			err = ctxErr
		}
		msg := strings.TrimSpace(stderr.String())
		if msg != "" {
			err = fmt.Errorf("%w: %s", err, msg)
		}
		return nil, &domain.RemoteError{Route: call.Route, Err: fmt.Errorf("execution failed: %w", err)}
	}

	out := decodeOutput(stdout.Bytes())
	if call.Strategy == domain.FetchQuery {
		if out == nil {
			return []any{}, nil
		}
		if _, ok := out.([]any); !ok {
			return nil, &domain.RemoteError{Route: call.Route, Err: fmt.Errorf("query output must be a JSON array, got %T", out)}
		}
	}
	return out, nil
}

func paramsOrEmpty(params map[string]any) map[string]any {
	if params == nil {
		return map[string]any{}
	}
	return params
}

func environment(static map[string]string, params map[string]any) []string {
	env := make([]string, 0, len(static)+len(params))
	for k, v := range static {
		env = append(env, k+"="+v)
	}
	for k, v := range params {
		env = append(env, EnvPrefix+envName(k)+"="+envValue(v))
	}
	return env
}

func envName(param string) string {
	return envUnsafe.ReplaceAllString(strings.ToUpper(param), "_")
}

// Primitives are formatted as-is; everything else travels as JSON.
func envValue(v any) string {
	switch v := v.(type) {
	case nil:
		return ""
	case string:
		return v
	case bool, int, int64, float64, json.Number:
		return fmt.Sprint(v)
	}
	if data, err := json.Marshal(v); err == nil {
		return string(data)
	}
	return fmt.Sprint(v)
}

func decodeOutput(raw []byte) domain.Value {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return nil
	}
	var v any
	if err := json.Unmarshal(trimmed, &v); err == nil {
		return v
	}
	return string(trimmed)
}
