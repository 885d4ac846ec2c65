package container_test

import (
	"errors"
	"testing"

	"github.com/km-arc/go-cradle/framework/container"
)

// ── stub providers ────────────────────────────────────────────────────────────

type eagerProvider struct {
	container.BaseProvider
	registerCalls int
	bootCalled    bool
}

func (p *eagerProvider) Register(app *container.Container) error {
	p.registerCalls++
	return app.Register("eager-svc", container.AsValue("eager"))
}

func (p *eagerProvider) Boot(app *container.Container) error {
	p.bootCalled = true
	return nil
}

// deferredProvider is lazy: only registered when "deferred-svc" is first resolved.
type deferredProvider struct {
	container.BaseProvider
	registerCalls int
	bootCalled    bool
}

func (p *deferredProvider) Register(app *container.Container) error {
	p.registerCalls++
	return app.RegisterAll(container.Registrations{
		"deferred-svc": container.AsFunction(func() string { return "deferred-value" }).Singleton(),
		"deferred-alt": container.AliasTo("deferred-svc"),
	})
}

func (p *deferredProvider) Boot(app *container.Container) error {
	p.bootCalled = true
	return nil
}

func (p *deferredProvider) IsDeferred() bool { return true }
func (p *deferredProvider) Provides() []container.Key {
	return []container.Key{"deferred-svc", "deferred-alt"}
}

// multiProvider registers multiple names.
type multiProvider struct {
	container.BaseProvider
}

func (p *multiProvider) Register(app *container.Container) error {
	if err := app.Register("alpha", container.AsValue("α")); err != nil {
		return err
	}
	return app.Register("beta", container.AsValue("β"))
}

type failingProvider struct {
	container.BaseProvider
	err error
}

func (p *failingProvider) Register(app *container.Container) error { return nil }
func (p *failingProvider) Boot(app *container.Container) error     { return p.err }

func mustString(t *testing.T, c *container.Container, name string) string {
	t.Helper()
	got, err := container.Resolve[string](c, name)
	if err != nil {
		t.Fatalf("%s: %v", name, err)
	}
	return got
}

// ── ProviderRegistry ──────────────────────────────────────────────────────────

func TestRegistry_EagerProvider_RegisterCalled(t *testing.T) {
	c := container.New(container.Options{})
	reg := container.NewProviderRegistry(c)

	p := &eagerProvider{}
	if err := reg.Register(p); err != nil {
		t.Fatal(err)
	}

	if p.registerCalls != 1 {
		t.Error("Register() should be called immediately for eager providers")
	}
}

func TestRegistry_EagerProvider_BootCalledAfterBoot(t *testing.T) {
	c := container.New(container.Options{})
	reg := container.NewProviderRegistry(c)

	p := &eagerProvider{}
	reg.Register(p)

	if p.bootCalled {
		t.Error("Boot() should NOT be called before registry.Boot()")
	}

	if err := reg.Boot(); err != nil {
		t.Fatal(err)
	}

	if !p.bootCalled {
		t.Error("Boot() should be called after registry.Boot()")
	}
}

func TestRegistry_EagerProvider_ServiceResolvable(t *testing.T) {
	c := container.New(container.Options{})
	reg := container.NewProviderRegistry(c)
	reg.Register(&eagerProvider{})
	reg.Boot()

	if got := mustString(t, c, "eager-svc"); got != "eager" {
		t.Errorf("eager-svc: got %q, want 'eager'", got)
	}
}

func TestRegistry_Boot_IdempotentCallsAreIgnored(t *testing.T) {
	c := container.New(container.Options{})
	reg := container.NewProviderRegistry(c)
	reg.Register(&eagerProvider{})

	reg.Boot()
	reg.Boot() // second call should be no-op

	if !reg.Booted() {
		t.Error("Booted() should be true after Boot()")
	}
}

func TestRegistry_Booted_FalseBeforeBoot(t *testing.T) {
	c := container.New(container.Options{})
	reg := container.NewProviderRegistry(c)
	if reg.Booted() {
		t.Error("Booted() should be false before Boot()")
	}
}

func TestRegistry_DuplicateRegister_Ignored(t *testing.T) {
	c := container.New(container.Options{})
	reg := container.NewProviderRegistry(c)

	p := &eagerProvider{}
	reg.Register(p)
	reg.Register(p) // second register of same instance

	if p.registerCalls != 1 {
		t.Errorf("provider registered %d times, want 1", p.registerCalls)
	}
}

func TestRegistry_Boot_CombinesErrors(t *testing.T) {
	c := container.New(container.Options{})
	reg := container.NewProviderRegistry(c)

	first, second := errors.New("first"), errors.New("second")
	reg.Register(&failingProvider{err: first})
	reg.Register(&failingProvider{err: second})

	err := reg.Boot()
	if !errors.Is(err, first) || !errors.Is(err, second) {
		t.Errorf("Boot(): got %v, want both provider errors", err)
	}
}

// ── Deferred providers ────────────────────────────────────────────────────────

func TestRegistry_DeferredProvider_NotRegisteredEagerly(t *testing.T) {
	c := container.New(container.Options{})
	reg := container.NewProviderRegistry(c)

	p := &deferredProvider{}
	reg.Register(p)
	reg.Boot()

	if p.registerCalls != 0 {
		t.Error("deferred provider Register() should not be called until first resolve")
	}
	if len(reg.Deferred()) != 2 {
		t.Errorf("Deferred(): got %v, want both names", reg.Deferred())
	}
}

func TestRegistry_DeferredProvider_RegisteredOnFirstResolve(t *testing.T) {
	c := container.New(container.Options{})
	reg := container.NewProviderRegistry(c)

	p := &deferredProvider{}
	reg.Register(p)
	reg.Boot()

	if got := mustString(t, c, "deferred-svc"); got != "deferred-value" {
		t.Errorf("deferred-svc: got %q, want 'deferred-value'", got)
	}
	if got := mustString(t, c, "deferred-alt"); got != "deferred-value" {
		t.Errorf("deferred-alt: got %q, want 'deferred-value'", got)
	}
	if p.registerCalls != 1 {
		t.Errorf("deferred provider registered %d times, want 1", p.registerCalls)
	}
	if !p.bootCalled {
		t.Error("deferred provider loaded after Boot() should be booted")
	}
	if len(reg.Deferred()) != 0 {
		t.Errorf("Deferred(): got %v, want none", reg.Deferred())
	}
}

func TestRegistry_DeferredProvider_LoadsFromScope(t *testing.T) {
	c := container.New(container.Options{})
	reg := container.NewProviderRegistry(c)
	reg.Register(&deferredProvider{})

	scope := c.CreateScope()
	if got := mustString(t, scope, "deferred-svc"); got != "deferred-value" {
		t.Errorf("deferred-svc: got %q, want 'deferred-value'", got)
	}
}

// ── Multiple providers ────────────────────────────────────────────────────────

func TestRegistry_MultipleProviders_AllServicesResolvable(t *testing.T) {
	c := container.New(container.Options{})
	reg := container.NewProviderRegistry(c)
	reg.Register(&multiProvider{})
	reg.Register(&eagerProvider{})
	reg.Boot()

	if got := mustString(t, c, "alpha"); got != "α" {
		t.Errorf("alpha: got %q, want 'α'", got)
	}
	if got := mustString(t, c, "beta"); got != "β" {
		t.Errorf("beta: got %q, want 'β'", got)
	}
	if got := mustString(t, c, "eager-svc"); got != "eager" {
		t.Errorf("eager-svc: got %q, want 'eager'", got)
	}
}

// ── Providers list ────────────────────────────────────────────────────────────

func TestRegistry_Providers_ReturnsEagerOnes(t *testing.T) {
	c := container.New(container.Options{})
	reg := container.NewProviderRegistry(c)
	reg.Register(&eagerProvider{})
	reg.Register(&deferredProvider{}) // deferred, so not in Providers()

	if len(reg.Providers()) != 1 {
		t.Errorf("Providers(): got %d, want 1 (eager only)", len(reg.Providers()))
	}
}

// ── BaseProvider defaults ─────────────────────────────────────────────────────

func TestBaseProvider_Defaults(t *testing.T) {
	var p container.BaseProvider
	c := container.New(container.Options{})

	if err := p.Boot(c); err != nil {
		t.Errorf("BaseProvider.Boot(): %v", err)
	}
	if p.IsDeferred() {
		t.Error("BaseProvider.IsDeferred() should be false")
	}
	if len(p.Provides()) != 0 {
		t.Error("BaseProvider.Provides() should return empty slice")
	}
}

// ── Boot after registration (late provider) ───────────────────────────────────

func TestRegistry_RegisterAfterBoot_BootsImmediately(t *testing.T) {
	c := container.New(container.Options{})
	reg := container.NewProviderRegistry(c)
	reg.Boot() // boot before registering

	p := &eagerProvider{}
	reg.Register(p) // register after boot

	if !p.bootCalled {
		t.Error("provider registered after Boot() should be booted immediately")
	}
}
