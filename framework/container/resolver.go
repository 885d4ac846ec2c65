package container

import (
	"context"

	"github.com/km-arc/go-cradle/framework/signature"
)

// Locals are values that shadow container lookups for the direct
// dependencies of a single resolver.
type Locals map[Key]any

// Injector computes Locals each time its resolver runs.
type Injector func(cr Cradle) (Locals, error)

// Disposer releases a cached value when its container is disposed.
type Disposer func(ctx context.Context, value any) error

type resolveFunc func(r Resolver, cr Cradle) (any, error)

// Resolver knows how to produce a value from a Cradle. Resolvers are
// immutable: every modifier returns a new Resolver and leaves the receiver
// untouched.
//
//	c.Register("users", container.AsClass(newUserService).Scoped())
type Resolver struct {
	kind          string
	resolve       resolveFunc
	lifetime      Lifetime
	injectionMode InjectionMode
	leakSafe      bool
	injector      Injector
	dispose       Disposer
	deps          []signature.Parameter
	load          *deferredLoad
	err           error
}

// Option configures a Resolver while it is built.
type Option func(r *Resolver)

// WithLifetime sets the lifetime.
func WithLifetime(l Lifetime) Option {
	return func(r *Resolver) { r.lifetime = l }
}

// WithInjectionMode sets the injection mode.
func WithInjectionMode(m InjectionMode) Option {
	return func(r *Resolver) { r.injectionMode = m }
}

// WithInjector sets the locals injector.
func WithInjector(fn Injector) Option {
	return func(r *Resolver) { r.injector = fn }
}

// WithDisposer sets the disposer.
func WithDisposer(fn Disposer) Option {
	return func(r *Resolver) { r.dispose = fn }
}

// ── Builders ──────────────────────────────────────────────────────────────────

// AsValue resolves to v as is. Values never leak a lifetime, so they are
// exempt from strict-mode checks.
//
//	c.Register("dsn", container.AsValue("postgres://localhost/app"))
func AsValue(v any) Resolver {
	return Resolver{
		kind:     "value",
		leakSafe: true,
		resolve:  func(Resolver, Cradle) (any, error) { return v, nil },
	}
}

// AliasTo resolves to whatever key resolves to, from the perspective of the
// container performing the resolution.
//
//	c.Register("db", container.AliasTo("postgres"))
func AliasTo(key Key) Resolver {
	r := Resolver{kind: "alias", leakSafe: true}
	if err := checkKey("AliasTo", key); err != nil {
		r.err = err
		return r
	}
	r.resolve = func(_ Resolver, cr Cradle) (any, error) { return cr.Resolve(key) }
	return r
}

// AsFunction resolves by calling target, a function or *Constructor.
// Options given here override options the Constructor declared itself.
//
//	c.Register("clock", container.AsFunction(time.Now, container.WithLifetime(container.Transient)))
func AsFunction(target any, opts ...Option) Resolver {
	return build("function", "AsFunction", target, opts)
}

// AsClass resolves by constructing target, a function or *Constructor with
// a class-shaped signature. Dependencies are parsed from the class, walking
// to the parent constructor when the class declares none.
//
//	c.Register("users", container.AsClass(
//	    container.Func("class Users { constructor(db, logger) {} }", NewUsers),
//	).Singleton())
func AsClass(target any, opts ...Option) Resolver {
	return build("class", "AsClass", target, opts)
}

func build(kind, funcName string, target any, opts []Option) Resolver {
	r := Resolver{kind: kind}

	ctor, err := toConstructor(funcName, target)
	if err != nil {
		r.err = err
		return r
	}

	for _, opt := range ctor.DeclaredOptions() {
		opt(&r)
	}
	for _, opt := range opts {
		opt(&r)
	}

	resolve, deps, err := generateResolve(ctor, ctor)
	if err != nil {
		r.err = err
		return r
	}
	r.resolve = resolve
	r.deps = deps
	return r
}

// ── Modifiers ─────────────────────────────────────────────────────────────────

// SetLifetime returns a copy with lifetime l.
func (r Resolver) SetLifetime(l Lifetime) Resolver {
	r.lifetime = l
	return r
}

// Transient returns a copy with the Transient lifetime.
func (r Resolver) Transient() Resolver { return r.SetLifetime(Transient) }

// Scoped returns a copy with the Scoped lifetime.
func (r Resolver) Scoped() Resolver { return r.SetLifetime(Scoped) }

// Singleton returns a copy with the Singleton lifetime.
func (r Resolver) Singleton() Resolver { return r.SetLifetime(Singleton) }

// SetInjectionMode returns a copy with injection mode m.
func (r Resolver) SetInjectionMode(m InjectionMode) Resolver {
	r.injectionMode = m
	return r
}

// Proxy returns a copy using proxy injection.
func (r Resolver) Proxy() Resolver { return r.SetInjectionMode(InjectionProxy) }

// Classic returns a copy using classic injection.
func (r Resolver) Classic() Resolver { return r.SetInjectionMode(InjectionClassic) }

// Inject returns a copy that computes locals with fn before every call.
func (r Resolver) Inject(fn Injector) Resolver {
	r.injector = fn
	return r
}

// Disposer returns a copy that releases cached values with fn.
func (r Resolver) Disposer(fn Disposer) Resolver {
	r.dispose = fn
	return r
}

// ── Accessors ─────────────────────────────────────────────────────────────────

// Kind is "value", "alias", "function", "class" or "deferred".
func (r Resolver) Kind() string { return r.kind }

// Lifetime returns the caching discipline, Transient unless set.
func (r Resolver) Lifetime() Lifetime { return r.lifetime }

// InjectionMode returns the resolver's own mode. InjectionInherit defers to
// the container.
func (r Resolver) InjectionMode() InjectionMode { return r.injectionMode }

// LeakSafe reports whether strict mode skips the lifetime check for r.
func (r Resolver) LeakSafe() bool { return r.leakSafe }

// HasDisposer reports whether cached values of r are released on Dispose.
func (r Resolver) HasDisposer() bool { return r.dispose != nil }

// Dependencies returns the parameters parsed from the signature text.
func (r Resolver) Dependencies() []signature.Parameter {
	return append([]signature.Parameter(nil), r.deps...)
}

// Err returns the error recorded while the resolver was built, if any.
// Registering such a resolver fails with the same error.
func (r Resolver) Err() error { return r.err }
