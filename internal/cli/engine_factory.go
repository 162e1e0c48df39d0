package cli

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/aretw0/lattice"
	"github.com/aretw0/lattice/internal/logging"
	"github.com/aretw0/lattice/pkg/adapters/file"
	"github.com/aretw0/lattice/pkg/adapters/manifest"
	"github.com/aretw0/lattice/pkg/adapters/memory"
	"github.com/aretw0/lattice/pkg/adapters/process"
	"github.com/aretw0/lattice/pkg/adapters/redis"
	"github.com/aretw0/lattice/pkg/observability"
	"github.com/aretw0/lattice/pkg/persistence/middleware"
	"github.com/aretw0/lattice/pkg/ports"
	"github.com/aretw0/lattice/pkg/session"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	backend "github.com/redis/go-redis/v9"
)

// App is a fully wired lattice host: a manifest, an engine and a session service.
type App struct {
	Definition *manifest.Definition
	Engine     *lattice.Engine
	Service    *session.Service
	Resolver   *process.Runner
	Registry   *prometheus.Registry
	Metrics    *observability.Metrics
	Logger     *slog.Logger

	closers []func() error
}

// NewApp assembles an App following the CLI conventions:
// the store is redis when a URL is given, files otherwise, or memory when
// SessionsDir is ":memory:".
func NewApp(opts Options) (*App, error) {
	logger, err := createLogger(opts)
	if err != nil {
		return nil, err
	}

	def, err := manifest.Load(opts.manifestPath())
	if err != nil {
		return nil, fmt.Errorf("error loading manifest: %w", err)
	}
	name := opts.Name
	if name == "" {
		name = def.Name()
	}

	app := &App{
		Definition: def,
		Registry:   prometheus.NewRegistry(),
		Logger:     logger,
	}
	app.Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	app.Metrics, err = observability.NewMetrics(app.Registry)
	if err != nil {
		return nil, fmt.Errorf("error registering metrics: %w", err)
	}

	hooks := app.Metrics.Hooks()
	if opts.Debug {
		hooks = hooks.Chain(createDebugHooks(logger))
	}

	engineOpts := []lattice.Option{
		lattice.WithLogger(logger),
		lattice.WithLifecycleHooks(hooks),
		lattice.WithName(name),
	}

	if path := opts.resolversPath(); path != "" {
		routes, err := process.LoadRoutes(path)
		if err != nil {
			return nil, fmt.Errorf("error loading resolvers: %w", err)
		}
		runnerOpts := []process.RunnerOption{
			process.WithRoutes(routes),
			process.WithBaseDir(filepath.Dir(path)),
			process.WithLogger(logger),
		}
		if opts.GracePeriod > 0 {
			runnerOpts = append(runnerOpts, process.WithGracePeriod(opts.GracePeriod))
		}
		app.Resolver = process.NewRunner(runnerOpts...)
		engineOpts = append(engineOpts, lattice.WithResolver(app.Resolver))
		logger.Debug("Resolvers loaded", "path", path, "routes", app.Resolver.Routes())
	}
	app.Engine = lattice.New(engineOpts...)

	manager, err := app.createManager(opts)
	if err != nil {
		_ = app.Close()
		return nil, err
	}
	app.Service = session.NewService(def.Build, app.Engine, manager)
	return app, nil
}

// MemoryStore selects the in-memory store in Options.SessionsDir.
const MemoryStore = ":memory:"

func (a *App) createManager(opts Options) (*session.Manager, error) {
	var store ports.ValueStore
	managerOpts := []session.Option{session.WithLogger(a.Logger)}

	switch {
	case opts.RedisURL != "":
		redisOpts, err := backend.ParseURL(opts.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("invalid redis url: %w", err)
		}
		client := backend.NewClient(redisOpts)
		rs := redis.NewFromClient(client, redis.WithTTL(opts.SessionTTL))
		a.closers = append(a.closers, rs.Close)
		store = rs
		managerOpts = append(managerOpts, session.WithLocker(redis.NewLocker(client, redis.DefaultPrefix)))
	case opts.SessionsDir == MemoryStore:
		store = memory.NewStore()
	default:
		store = file.NewStore(opts.SessionsDir)
	}

	mws, err := createMiddlewares(opts)
	if err != nil {
		return nil, err
	}
	return session.NewManager(middleware.Chain(store, mws...), managerOpts...), nil
}

func createMiddlewares(opts Options) ([]middleware.Middleware, error) {
	var mws []middleware.Middleware
	if len(opts.Mask) > 0 {
		pii, err := middleware.NewPIIMiddleware(opts.Mask)
		if err != nil {
			return nil, err
		}
		mws = append(mws, pii)
	}
	if opts.StoreKey != "" {
		cfg := middleware.EncryptionConfig{}
		var err error
		if cfg.ActiveKey, err = decodeKey(opts.StoreKey); err != nil {
			return nil, err
		}
		for _, k := range opts.FallbackKeys {
			old, err := decodeKey(k)
			if err != nil {
				return nil, err
			}
			cfg.FallbackKeys = append(cfg.FallbackKeys, old)
		}
		enc, err := middleware.NewEncryptionMiddleware(cfg)
		if err != nil {
			return nil, err
		}
		mws = append(mws, enc)
	}
	return mws, nil
}

// Close releases the store connection, if any.
func (a *App) Close() error {
	var errs []error
	for _, c := range a.closers {
		errs = append(errs, c())
	}
	a.closers = nil
	return errors.Join(errs...)
}

// createLogger configures the application logger.
// Without debug or an explicit level, nothing is logged; logs always go to stderr.
func createLogger(opts Options) (*slog.Logger, error) {
	if opts.Debug {
		return logging.NewWithWriter(os.Stderr, slog.LevelDebug, opts.LogJSON), nil
	}
	if opts.LogLevel == "" {
		return logging.NewNop(), nil
	}
	level, err := logging.ParseLevel(opts.LogLevel)
	if err != nil {
		return nil, err
	}
	return logging.NewWithWriter(os.Stderr, level, opts.LogJSON), nil
}
