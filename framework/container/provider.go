package container

import (
	"sync"

	"github.com/pkg/errors"
	"go.uber.org/multierr"
)

// ── ServiceProvider interface ─────────────────────────────────────────────────

// ServiceProvider groups the registrations of one part of an application.
//
// Register is called first for every provider. Boot is called after ALL
// providers have been registered, making it safe to resolve other
// registrations inside Boot.
//
//	type UsersProvider struct{ container.BaseProvider }
//
//	func (p *UsersProvider) Register(app *container.Container) error {
//	    return app.Register("users", container.AsClass(newUsers).Singleton())
//	}
//
//	func (p *UsersProvider) Boot(app *container.Container) error {
//	    _, err := app.Resolve("users")
//	    return err
//	}
type ServiceProvider interface {
	// Register adds registrations to the container.
	// Do NOT resolve other registrations here; use Boot for that.
	Register(app *Container) error

	// Boot is called after all providers are registered.
	Boot(app *Container) error

	// Provides returns the names this provider registers.
	// Used for deferred (lazy) provider loading.
	Provides() []Key

	// IsDeferred returns true if this provider should be loaded lazily,
	// only when one of its Provides() names is first resolved.
	IsDeferred() bool
}

// ── BaseProvider ──────────────────────────────────────────────────────────────

// BaseProvider is an embeddable struct that provides no-op implementations
// of Boot(), Provides(), and IsDeferred().
type BaseProvider struct{}

func (p *BaseProvider) Boot(_ *Container) error { return nil }
func (p *BaseProvider) Provides() []Key         { return nil }
func (p *BaseProvider) IsDeferred() bool        { return false }

// ── Deferred loading ──────────────────────────────────────────────────────────

// deferredLoad registers a deferred provider for real, once, on the first
// resolution of any of its names.
type deferredLoad struct {
	once sync.Once
	fn   func() error
	err  error
}

func (l *deferredLoad) run() error {
	l.once.Do(func() { l.err = l.fn() })
	return l.err
}

// ── ProviderRegistry ──────────────────────────────────────────────────────────

// ProviderRegistry manages registration and booting of ServiceProviders,
// including deferred (lazy) providers.
type ProviderRegistry struct {
	mu         sync.Mutex
	app        *Container
	eager      []ServiceProvider
	deferred   map[Key]ServiceProvider // name → provider
	booted     bool
	registered map[ServiceProvider]bool
}

// NewProviderRegistry creates a registry bound to app.
func NewProviderRegistry(app *Container) *ProviderRegistry {
	return &ProviderRegistry{
		app:        app,
		deferred:   make(map[Key]ServiceProvider),
		registered: make(map[ServiceProvider]bool),
	}
}

// Register adds a provider and calls its Register() method (unless deferred).
// Registering the same provider twice is a no-op.
func (r *ProviderRegistry) Register(provider ServiceProvider) error {
	r.mu.Lock()
	if r.registered[provider] {
		r.mu.Unlock()
		return nil
	}
	r.registered[provider] = true

	if provider.IsDeferred() {
		for _, name := range provider.Provides() {
			r.deferred[name] = provider
		}
		r.mu.Unlock()
		return r.interceptDeferred(provider)
	}

	r.eager = append(r.eager, provider)
	booted := r.booted
	r.mu.Unlock()

	if err := provider.Register(r.app); err != nil {
		return errors.Wrapf(err, "register %T", provider)
	}
	// If already booted, boot this provider immediately
	if booted {
		return errors.Wrapf(provider.Boot(r.app), "boot %T", provider)
	}
	return nil
}

// interceptDeferred registers a placeholder for each deferred name. The
// first resolution of any of them registers the provider for real, and
// boots it when the registry has already booted.
func (r *ProviderRegistry) interceptDeferred(provider ServiceProvider) error {
	load := &deferredLoad{fn: func() error {
		if err := provider.Register(r.app); err != nil {
			return errors.Wrapf(err, "register deferred %T", provider)
		}

		r.mu.Lock()
		for _, name := range provider.Provides() {
			delete(r.deferred, name)
		}
		booted := r.booted
		r.mu.Unlock()

		if booted {
			return errors.Wrapf(provider.Boot(r.app), "boot deferred %T", provider)
		}
		return nil
	}}

	placeholders := make(Registrations)
	for _, name := range provider.Provides() {
		placeholders[name] = Resolver{kind: "deferred", leakSafe: true, load: load}
	}
	return r.app.RegisterAll(placeholders)
}

// Boot calls Boot() on all eager providers and returns their combined
// errors. Must be called after ALL providers have been registered.
func (r *ProviderRegistry) Boot() error {
	r.mu.Lock()
	if r.booted {
		r.mu.Unlock()
		return nil
	}
	r.booted = true
	eager := append([]ServiceProvider(nil), r.eager...)
	r.mu.Unlock()

	var errs error
	for _, provider := range eager {
		if err := provider.Boot(r.app); err != nil {
			errs = multierr.Append(errs, errors.Wrapf(err, "boot %T", provider))
		}
	}
	return errs
}

// Booted returns true if Boot() has been called.
func (r *ProviderRegistry) Booted() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.booted
}

// Providers returns all registered eager providers.
func (r *ProviderRegistry) Providers() []ServiceProvider {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]ServiceProvider(nil), r.eager...)
}

// Deferred returns the names whose provider has not been loaded yet.
func (r *ProviderRegistry) Deferred() []Key {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Key, 0, len(r.deferred))
	for k := range r.deferred {
		out = append(out, k)
	}
	sortKeys(out)
	return out
}
