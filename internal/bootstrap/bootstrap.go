package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/juju/clock"

	"stellar-client-go/internal/app/syncer"
	"stellar-client-go/internal/cache"
	"stellar-client-go/internal/domain/credential/store"
	"stellar-client-go/internal/domain/eventbus"
	"stellar-client-go/internal/domain/session"
	"stellar-client-go/internal/gateway"
	platformconfig "stellar-client-go/internal/platform/config"
	platformerrors "stellar-client-go/internal/platform/errors"
	platformlogging "stellar-client-go/internal/platform/logging"
	platformobservability "stellar-client-go/internal/platform/observability"
	httpclient "stellar-client-go/internal/transport/http/client"
)

// Options tune New. The zero value loads config the usual way.
type Options struct {
	// ConfigPath pins the config file; "" searches the default paths.
	ConfigPath string
	// Config skips loading entirely when set.
	Config *platformconfig.Config
	// LogOutput replaces stderr for console logs.
	LogOutput io.Writer
	Clock     clock.Clock
}

// App is the wired client.
type App struct {
	Config     *platformconfig.Config
	ConfigPath string
	Logger     *platformlogging.Logger
	Metrics    *platformobservability.Metrics
	Bus        *eventbus.Bus
	Store      store.Store
	Clients    *httpclient.Factory
	Session    *session.Manager
	Syncer     *syncer.Syncer

	shutdown platformobservability.ShutdownFunc
}

type stepFn func(context.Context, *appState) error

type initStep struct {
	ID        string
	Title     string
	DependsOn []string
	Kind      platformerrors.Kind
	Execute   stepFn
}

type appState struct {
	opts Options

	config                *platformconfig.Config
	configPath            string
	logger                *platformlogging.Logger
	metrics               *platformobservability.Metrics
	observabilityShutdown platformobservability.ShutdownFunc
	store                 store.Store
	bus                   *eventbus.Bus
	clients               *httpclient.Factory
	gateways              syncer.Gateways
	session               *session.Manager
	syncer                *syncer.Syncer
}

// New runs the init graph and returns the wired client. Partially built
// resources are released when a step fails.
func New(ctx context.Context, opts Options) (*App, error) {
	state := &appState{opts: opts}
	steps := InitGraph()
	if err := executeInitSteps(ctx, steps, state); err != nil {
		state.release(ctx)
		return nil, err
	}
	logBootstrapGraph(steps, state.logger)

	return &App{
		Config:     state.config,
		ConfigPath: state.configPath,
		Logger:     state.logger,
		Metrics:    state.metrics,
		Bus:        state.bus,
		Store:      state.store,
		Clients:    state.clients,
		Session:    state.session,
		Syncer:     state.syncer,
		shutdown:   state.observabilityShutdown,
	}, nil
}

// Close releases the credential store, observability hooks and the log file.
func (a *App) Close(ctx context.Context) error {
	if a == nil {
		return nil
	}
	state := &appState{
		logger:                a.Logger,
		store:                 a.Store,
		observabilityShutdown: a.shutdown,
	}
	return state.release(ctx)
}

func (s *appState) release(ctx context.Context) error {
	var errs []error
	if s.store != nil {
		if err := s.store.Close(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	if s.observabilityShutdown != nil {
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		if err := s.observabilityShutdown(shutdownCtx); err != nil {
			errs = append(errs, err)
		}
		cancel()
	}
	if s.logger != nil {
		if err := s.logger.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func logBootstrapGraph(steps []initStep, logger *platformlogging.Logger) {
	if logger == nil {
		return
	}
	for _, step := range steps {
		logger.DebugTag("BOOT", "%s done", step.Title)
	}
}

func executeInitSteps(ctx context.Context, steps []initStep, state *appState) error {
	if state == nil {
		return platformerrors.New(
			platformerrors.KindBootstrap,
			"execute init steps",
			"nil bootstrap state",
		)
	}

	completed := make(map[string]struct{}, len(steps))
	for _, step := range steps {
		for _, dep := range step.DependsOn {
			if _, ok := completed[dep]; !ok {
				return platformerrors.New(
					platformerrors.KindBootstrap,
					step.ID,
					fmt.Sprintf("dependency %s not satisfied", dep),
				)
			}
		}
		if step.Execute == nil {
			return platformerrors.New(
				platformerrors.KindBootstrap,
				step.ID,
				"missing execute function",
			)
		}
		if err := step.Execute(ctx, state); err != nil {
			var typed *platformerrors.Error
			if errors.As(err, &typed) {
				return err
			}

			kind := step.Kind
			if kind == "" {
				kind = platformerrors.KindBootstrap
			}
			return platformerrors.Wrap(kind, step.ID, "bootstrap step failed", err)
		}
		completed[step.ID] = struct{}{}
	}
	return nil
}

func InitGraph() []initStep {
	return []initStep{
		{
			ID:      "config:load",
			Title:   "Load configuration",
			Kind:    platformerrors.KindConfig,
			Execute: loadConfigStep,
		},
		{
			ID:        "logging:init-provider",
			Title:     "Initialise logging provider",
			DependsOn: []string{"config:load"},
			Execute:   initLoggingStep,
		},
		{
			ID:        "observability:setup-hooks",
			Title:     "Setup observability hooks",
			DependsOn: []string{"logging:init-provider"},
			Execute:   setupObservabilityStep,
		},
		{
			ID:        "storage:init-credential-store",
			Title:     "Open credential store",
			DependsOn: []string{"config:load"},
			Kind:      platformerrors.KindStorage,
			Execute:   initCredentialStoreStep,
		},
		{
			ID:      "eventbus:init",
			Title:   "Create event bus",
			Execute: initEventBusStep,
		},
		{
			ID:        "http:init-clients",
			Title:     "Build HTTP clients",
			DependsOn: []string{"storage:init-credential-store", "eventbus:init", "observability:setup-hooks"},
			Kind:      platformerrors.KindConfig,
			Execute:   initClientsStep,
		},
		{
			ID:        "session:restore",
			Title:     "Restore session",
			DependsOn: []string{"http:init-clients"},
			Kind:      platformerrors.KindAuth,
			Execute:   initSessionStep,
		},
		{
			ID:        "sync:init-syncer",
			Title:     "Wire caches and syncer",
			DependsOn: []string{"session:restore"},
			Execute:   initSyncerStep,
		},
	}
}

func loadConfigStep(_ context.Context, state *appState) error {
	if state.opts.Config != nil {
		state.config = state.opts.Config
		state.configPath = "inline"
		return nil
	}
	res, err := platformconfig.NewLoader().WithPath(state.opts.ConfigPath).Load()
	if err != nil {
		return err
	}
	state.config = res.Config
	state.configPath = res.Path
	return nil
}

func initLoggingStep(_ context.Context, state *appState) error {
	cfg := state.config.Log
	logger, err := platformlogging.New(platformlogging.Config{
		Level:    cfg.Level,
		Dir:      cfg.Dir,
		Filename: cfg.File,
		Color:    cfg.Color,
		Output:   state.opts.LogOutput,
	})
	if err != nil {
		return err
	}
	state.logger = logger
	logger.InfoTag("BOOT", "configuration loaded from %s", state.configPath)
	return nil
}

func setupObservabilityStep(ctx context.Context, state *appState) error {
	metrics, shutdown, err := platformobservability.Setup(ctx, platformobservability.Config{
		Enabled: state.config.Observability.Enabled,
	}, state.logger.Slog())
	if err != nil {
		return err
	}
	state.metrics = metrics
	state.observabilityShutdown = shutdown
	return nil
}

func initCredentialStoreStep(_ context.Context, state *appState) error {
	cfg := state.config.Credential
	s, err := store.New(store.Config{
		Driver: cfg.Driver,
		Key:    cfg.Key,
		SQLite: &store.SQLiteConfig{DSN: cfg.SQLite.DSN},
		Redis: &store.RedisConfig{
			Addr:     cfg.Redis.Addr,
			Username: cfg.Redis.Username,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			Prefix:   cfg.Redis.Prefix,
		},
	}, store.Dependencies{})
	if err != nil {
		return platformerrors.Storage("storage:init-credential-store", "failed to open credential store", err)
	}
	state.store = s
	if state.logger != nil {
		state.logger.InfoTag("STORE", "credential store ready (driver=%s)", cfg.Driver)
	}
	return nil
}

func initEventBusStep(_ context.Context, state *appState) error {
	state.bus = eventbus.New()
	return nil
}

func initClientsStep(_ context.Context, state *appState) error {
	cfg := state.config
	factory, err := httpclient.NewFactory(httpclient.Options{
		BaseURL: cfg.API.BaseURL,
		Timeout: cfg.API.Timeout,
		Retries: cfg.API.Retries,
		Store:   state.store,
		Bus:     state.bus,
		Logger:  state.logger,
	})
	if err != nil {
		return err
	}
	space, err := factory.Space(httpclient.SpaceOptions{
		BaseURL: cfg.Space.BaseURL,
		APIKey:  cfg.Space.APIKey,
		Timeout: cfg.Space.Timeout,
		Retries: cfg.API.Retries,
	})
	if err != nil {
		return err
	}

	state.clients = factory
	state.gateways = syncer.Gateways{
		Pictures:  gateway.NewAstronomyPictures(space, state.metrics),
		Asteroids: gateway.NewAsteroids(space, state.metrics),
		Rovers:    gateway.NewRovers(space, state.metrics),
		Earth:     gateway.NewEarthImagery(space, state.metrics),
	}
	return nil
}

func initSessionStep(ctx context.Context, state *appState) error {
	manager, err := session.New(state.clients, state.bus, state.logger)
	if err != nil {
		return err
	}
	if err := manager.Restore(ctx); err != nil {
		return err
	}
	state.session = manager
	state.gateways.Articles = gateway.NewArticles(state.clients, manager, state.metrics)
	return nil
}

func initSyncerStep(_ context.Context, state *appState) error {
	clk := state.opts.Clock
	if clk == nil {
		clk = clock.WallClock
	}
	caches := syncer.NewCaches(cache.Options{
		Clock:   clk,
		Bus:     state.bus,
		Metrics: state.metrics,
	})
	state.syncer = syncer.New(syncer.Options{
		Gateways: state.gateways,
		Caches:   caches,
		Users:    state.session,
		Clock:    clk,
		Logger:   state.logger,
	})
	return nil
}
