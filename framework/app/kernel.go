package app

import (
	"context"
	"io"
	"io/fs"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"go.uber.org/multierr"

	"github.com/km-arc/go-cradle/framework/config"
	"github.com/km-arc/go-cradle/framework/container"
	gohttp "github.com/km-arc/go-cradle/framework/http"
	"github.com/km-arc/go-cradle/framework/loader"
	"github.com/km-arc/go-cradle/framework/logging"
	"github.com/km-arc/go-cradle/framework/metrics"
	"github.com/km-arc/go-cradle/framework/providers"
	"github.com/km-arc/go-cradle/framework/routing"
)

// ShutdownTimeout bounds the graceful HTTP shutdown in Run.
const ShutdownTimeout = 10 * time.Second

// Application is the top-level application container.
// It embeds the root container and the provider registry so user code can
// call app.Register(name, resolver) and app.Resolve(name) directly.
type Application struct {
	*container.Container
	Providers *container.ProviderRegistry

	// RequestScope, when set, adds registrations to every request scope.
	RequestScope gohttp.Registrar

	config  *config.Config
	log     zerolog.Logger
	metrics *metrics.Metrics
}

// New loads the configuration from envFiles and the environment and creates
// the application, logging to stderr.
func New(envFiles ...string) (*Application, error) {
	return NewWithConfig(config.Load(envFiles...), os.Stderr)
}

// NewWithConfig creates the application from cfg. The root container takes
// its strict mode and injection mode from cfg.Container, logs through the
// application logger and reports every resolution to the metrics.
func NewWithConfig(cfg *config.Config, logOut io.Writer) (*Application, error) {
	mode, err := container.ParseInjectionMode(cfg.Container.InjectionMode)
	if err != nil {
		return nil, errors.Wrap(err, "CONTAINER_INJECTION_MODE")
	}

	log := logging.New(cfg.Log, logOut).With().Str("app", cfg.App.Name).Logger()
	m := metrics.New(cfg.App.Name)

	c := container.New(container.Options{
		InjectionMode: mode,
		Strict:        cfg.Container.Strict,
		Logger:        &log,
		OnResolve:     m.Observe,
	})

	a := &Application{
		Container: c,
		Providers: container.NewProviderRegistry(c),
		config:    cfg,
		log:       log,
		metrics:   m,
	}

	// Core providers, registered before any user provider.
	core := []container.ServiceProvider{
		&providers.ConfigServiceProvider{Config: cfg},
		&providers.LoggingServiceProvider{Logger: log},
		&providers.RoutingServiceProvider{Scope: a.scopeRequest},
		&providers.MetricsServiceProvider{Metrics: m},
	}
	for _, p := range core {
		if err := a.Providers.Register(p); err != nil {
			return nil, err
		}
	}
	return a, nil
}

func (a *Application) scopeRequest(scope *container.Container, r *http.Request) error {
	if a.RequestScope == nil {
		return nil
	}
	return a.RequestScope(scope, r)
}

// Provide adds a ServiceProvider to the application.
func (a *Application) Provide(provider container.ServiceProvider) error {
	return a.Providers.Register(provider)
}

// Boot runs the Boot() phase on all providers.
func (a *Application) Boot() error {
	return a.Providers.Boot()
}

// Config returns the application configuration.
func (a *Application) Config() *config.Config { return a.config }

// Logger returns the application logger.
func (a *Application) Logger() zerolog.Logger { return a.log }

// Metrics returns the resolution metrics.
func (a *Application) Metrics() *metrics.Metrics { return a.metrics }

// Router resolves *routing.Router from the container.
func (a *Application) Router() *routing.Router {
	return container.MustResolve[*routing.Router](a.Container, "router")
}

// ── Modules ──────────────────────────────────────────────────────────────────

// defaultPatterns select every module of a catalog up to one directory deep.
var defaultPatterns = []loader.Pattern{{Glob: "*"}, {Glob: "*/*"}}

// LoadModules registers the modules of catalog, configured by the manifests
// of fsys that match CONTAINER_MODULES. Without manifest patterns every
// module is registered with the manifest defaults.
func (a *Application) LoadModules(fsys fs.FS, catalog loader.Catalog) ([]loader.Entry, error) {
	opts, err := a.ModuleOptions(fsys)
	if err != nil {
		return nil, err
	}

	entries, err := loader.Load(a.Container, catalog, opts)
	if err != nil {
		return nil, err
	}
	for _, e := range entries {
		a.log.Debug().Str("name", e.Name).Str("path", e.Path).Str("pattern", e.Pattern).Msg("module loaded")
	}
	return entries, nil
}

// ModuleOptions reads the module manifests of fsys.
func (a *Application) ModuleOptions(fsys fs.FS) (loader.LoadOptions, error) {
	manifests, err := loader.ReadManifests(fsys, a.config.Container.Modules)
	if err != nil {
		return loader.LoadOptions{}, err
	}
	opts := loader.Merge(manifests...)
	if len(opts.Patterns) == 0 {
		opts.Patterns = defaultPatterns
	}
	return opts, nil
}

// ── Lifecycle ────────────────────────────────────────────────────────────────

// Run boots the application (if needed) and serves HTTP on APP_PORT until
// ctx is done. The server is shut down gracefully and the root container
// disposed before Run returns.
func (a *Application) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", ":"+a.config.App.Port)
	if err != nil {
		return errors.Wrap(err, "listen")
	}
	return a.Serve(ctx, ln)
}

// Serve is Run on an existing listener.
func (a *Application) Serve(ctx context.Context, ln net.Listener) error {
	if !a.Providers.Booted() {
		if err := a.Boot(); err != nil {
			_ = ln.Close()
			return err
		}
	}

	srv := &http.Server{
		Handler:           a.Router(),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return a.log.WithContext(context.Background()) },
	}

	a.log.Info().
		Str("addr", ln.Addr().String()).
		Str("env", a.config.App.Env).
		Bool("strict", a.config.Container.Strict).
		Msg("listening")

	served := make(chan error, 1)
	go func() { served <- srv.Serve(ln) }()

	var runErr error
	select {
	case err := <-served:
		if !errors.Is(err, http.ErrServerClosed) {
			runErr = errors.Wrap(err, "serve")
		}
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
		defer cancel()
		runErr = errors.Wrap(srv.Shutdown(shutdownCtx), "shutdown")
		<-served
	}

	disposeCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()
	runErr = multierr.Append(runErr, a.Dispose(disposeCtx))

	a.log.Info().Err(runErr).Msg("stopped")
	return runErr
}

// Environment returns APP_ENV value.
func (a *Application) Environment() string { return a.config.App.Env }
func (a *Application) IsLocal() bool       { return a.Environment() == "local" }
func (a *Application) IsProduction() bool  { return a.config.IsProduction() }
func (a *Application) IsTesting() bool     { return a.Environment() == "testing" }
func (a *Application) IsDebug() bool       { return a.config.App.Debug }

// Controller is an embeddable base for HTTP controllers.
type Controller struct{}

func (c *Controller) Request(r *http.Request) *gohttp.Request {
	return gohttp.NewRequest(r)
}
func (c *Controller) Response(w http.ResponseWriter) *gohttp.Response {
	return gohttp.NewResponse(w)
}
