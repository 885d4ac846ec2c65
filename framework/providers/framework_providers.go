package providers

import (
	"github.com/rs/zerolog"

	"github.com/km-arc/go-cradle/framework/config"
	"github.com/km-arc/go-cradle/framework/container"
	gohttp "github.com/km-arc/go-cradle/framework/http"
	"github.com/km-arc/go-cradle/framework/metrics"
	"github.com/km-arc/go-cradle/framework/routing"
)

// ── ConfigServiceProvider ─────────────────────────────────────────────────────

// ConfigServiceProvider registers the loaded configuration.
//
// Registered names:
//   - "config"     → *config.Config
//   - "appConfig"  → *config.AppConfig
type ConfigServiceProvider struct {
	container.BaseProvider
	Config *config.Config
}

func (p *ConfigServiceProvider) Register(app *container.Container) error {
	return app.RegisterAll(container.Registrations{
		"config":    container.AsValue(p.Config),
		"appConfig": container.AsValue(&p.Config.App),
	})
}

// ── LoggingServiceProvider ────────────────────────────────────────────────────

// LoggingServiceProvider registers the application logger.
//
// Registered names:
//   - "logger"  → zerolog.Logger
type LoggingServiceProvider struct {
	container.BaseProvider
	Logger zerolog.Logger
}

func (p *LoggingServiceProvider) Register(app *container.Container) error {
	return app.Register("logger", container.AsValue(p.Logger))
}

// ── RoutingServiceProvider ────────────────────────────────────────────────────

// RoutingServiceProvider registers the HTTP router. Every request the router
// serves runs in its own scope of the container the provider was registered
// on.
//
// Registered names:
//   - "router"  → *routing.Router
type RoutingServiceProvider struct {
	container.BaseProvider

	// Scope adds request specific registrations to every request scope.
	Scope gohttp.Registrar
}

type routerDeps struct {
	Logger zerolog.Logger `inject:""`
}

func (p *RoutingServiceProvider) Register(app *container.Container) error {
	return app.Register("router", container.AsFunction(func(deps routerDeps) *routing.Router {
		r := routing.New(deps.Logger)
		r.Middleware(gohttp.ScopePerRequest(app, p.Scope))
		return r
	}).Singleton().Proxy())
}

// ── MetricsServiceProvider ────────────────────────────────────────────────────

// MetricsServiceProvider registers the resolution metrics and, once booted,
// serves them on Path of the router.
//
// Registered names:
//   - "metrics"  → *metrics.Metrics
type MetricsServiceProvider struct {
	container.BaseProvider
	Metrics *metrics.Metrics
	Path    string // default: "/metrics"
}

func (p *MetricsServiceProvider) Register(app *container.Container) error {
	return app.Register("metrics", container.AsValue(p.Metrics))
}

func (p *MetricsServiceProvider) Boot(app *container.Container) error {
	if !app.HasRegistration("router") {
		return nil
	}
	router, err := container.Resolve[*routing.Router](app, "router")
	if err != nil {
		return err
	}

	path := p.Path
	if path == "" {
		path = "/metrics"
	}
	router.Mount(path, p.Metrics.Handler())
	return nil
}
