package container

import (
	"fmt"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"
)

// Options configure a root container. Scopes inherit them.
type Options struct {
	// InjectionMode applies to resolvers that do not set their own.
	InjectionMode InjectionMode

	// Strict enables lifetime-leak detection, forbids singletons on scopes
	// and resolves singletons against the root.
	Strict bool

	// Logger receives debug output for registrations and failures. A nil
	// Logger disables logging.
	Logger *zerolog.Logger

	// OnResolve, when set, is called after every resolution with its
	// outcome.
	OnResolve func(name Key, lifetime Lifetime, took time.Duration, err error)
}

// Registrations maps names to resolvers for RegisterAll.
type Registrations map[Key]Resolver

type cacheEntry struct {
	resolver Resolver
	value    any
}

// ── Container ─────────────────────────────────────────────────────────────────

// Container holds registrations and caches resolved values.
//
// It supports:
//   - Register / RegisterAll with value, function, class and alias resolvers
//   - Resolve with transient, scoped and singleton lifetimes
//   - Child scopes that inherit registrations and share singletons
//   - Cycle detection, and lifetime-leak detection in strict mode
//   - Contextual locals (when A needs B, give it C)
//   - Tags (group several names under one tag)
//   - Dispose of cached values
//
// A Container is safe for concurrent use.
type Container struct {
	mu sync.RWMutex

	options Options
	log     zerolog.Logger
	parent  *Container
	root    *Container

	// name → resolver, local to this container
	registrations map[Key]Resolver

	// name → resolved value, scoped values here, singletons on the root
	cache map[Key]cacheEntry

	// tag → names
	tags map[string][]Key

	// collapses concurrent first resolutions of one cached name
	flight singleflight.Group

	// name → stack of the resolution currently building it
	building map[Key]*stack
}

// New creates a root container.
//
//	c := container.New(container.Options{Strict: true})
func New(opts Options) *Container {
	log := zerolog.Nop()
	if opts.Logger != nil {
		log = opts.Logger.With().Str("component", "container").Logger()
	}

	c := &Container{
		options:       opts,
		log:           log,
		registrations: make(map[Key]Resolver),
		cache:         make(map[Key]cacheEntry),
		tags:          make(map[string][]Key),
		building:      make(map[Key]*stack),
	}
	c.root = c
	return c
}

// CreateScope returns a child container. The child sees every registration
// of its ancestors, may shadow them with its own, and keeps its own cache of
// scoped values. Singletons are shared through the root.
func (c *Container) CreateScope() *Container {
	return &Container{
		options:       c.options,
		log:           c.log,
		parent:        c,
		root:          c.root,
		registrations: make(map[Key]Resolver),
		cache:         make(map[Key]cacheEntry),
		tags:          make(map[string][]Key),
		building:      make(map[Key]*stack),
	}
}

// Parent returns the container this scope was created from, or nil.
func (c *Container) Parent() *Container { return c.parent }

// Options returns the options the container was created with.
func (c *Container) Options() Options { return c.options }

// ── Registration ──────────────────────────────────────────────────────────────

// Register adds r under name, replacing any registration of the same name in
// this container. Ancestors are left untouched.
//
//	c.Register("db", container.AsFunction(openDB).Singleton())
func (c *Container) Register(name Key, r Resolver) error {
	if err := c.checkRegistration(name, r); err != nil {
		return err
	}

	c.mu.Lock()
	c.registrations[name] = r
	c.mu.Unlock()

	c.log.Debug().Str("name", keyString(name)).Str("kind", r.kind).
		Stringer("lifetime", r.lifetime).Msg("registered")
	return nil
}

// RegisterAll validates every entry before storing any of them.
func (c *Container) RegisterAll(regs Registrations) error {
	for name, r := range regs {
		if err := c.checkRegistration(name, r); err != nil {
			return err
		}
	}

	c.mu.Lock()
	for name, r := range regs {
		c.registrations[name] = r
	}
	c.mu.Unlock()

	c.log.Debug().Int("count", len(regs)).Msg("registered")
	return nil
}

func (c *Container) checkRegistration(name Key, r Resolver) error {
	if err := checkKey("Register", name); err != nil {
		return err
	}
	switch {
	case r.err != nil:
		return &RegistrationError{Name: name, Err: r.err}
	case r.resolve == nil && r.load == nil:
		return &RegistrationError{Name: name, Err: ErrEmptyResolver}
	case c.options.Strict && c.parent != nil && r.lifetime == Singleton:
		return &RegistrationError{Name: name, Err: ErrSingletonOnScope}
	}
	return nil
}

// Registration looks name up in this container and then in each ancestor.
func (c *Container) Registration(name Key) (Resolver, bool) {
	if checkKey("Registration", name) != nil {
		return Resolver{}, false
	}
	for cur := c; cur != nil; cur = cur.parent {
		cur.mu.RLock()
		r, ok := cur.registrations[name]
		cur.mu.RUnlock()
		if ok {
			return r, true
		}
	}
	return Resolver{}, false
}

// HasRegistration reports whether name is registered in the scope chain.
func (c *Container) HasRegistration(name Key) bool {
	_, ok := c.Registration(name)
	return ok
}

// Registrations returns the rolled-up registrations visible from c. A scope
// shadows the registrations of its ancestors.
func (c *Container) Registrations() Registrations {
	var chain []*Container
	for cur := c; cur != nil; cur = cur.parent {
		chain = append(chain, cur)
	}

	out := make(Registrations)
	for i := len(chain) - 1; i >= 0; i-- {
		chain[i].mu.RLock()
		for k, r := range chain[i].registrations {
			out[k] = r
		}
		chain[i].mu.RUnlock()
	}
	return out
}

// ── Tags ──────────────────────────────────────────────────────────────────────

// Tag groups names under tag.
//
//	c.Tag("reports", "cpuReport", "memoryReport")
func (c *Container) Tag(tag string, names ...Key) error {
	for _, name := range names {
		if err := checkKey("Tag", name); err != nil {
			return err
		}
	}
	c.mu.Lock()
	c.tags[tag] = append(c.tags[tag], names...)
	c.mu.Unlock()
	return nil
}

// Tagged resolves every name tagged with tag in this container and its
// ancestors, ancestors first.
func (c *Container) Tagged(tag string) ([]any, error) {
	var chain []*Container
	for cur := c; cur != nil; cur = cur.parent {
		chain = append(chain, cur)
	}

	var names []Key
	for i := len(chain) - 1; i >= 0; i-- {
		chain[i].mu.RLock()
		names = append(names, chain[i].tags[tag]...)
		chain[i].mu.RUnlock()
	}

	out := make([]any, 0, len(names))
	for _, name := range names {
		v, err := c.Resolve(name)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// ── Resolution ────────────────────────────────────────────────────────────────

// Resolve returns the value registered under name.
//
//	v, err := c.Resolve("users")
func (c *Container) Resolve(name Key) (any, error) {
	return c.ResolveWith(name, ResolveOptions{})
}

// ResolveWith is Resolve with options.
func (c *Container) ResolveWith(name Key, opts ResolveOptions) (any, error) {
	return c.resolve(&stack{}, name, opts)
}

// Cradle returns a lookup view of c.
func (c *Container) Cradle() Cradle {
	return c.cradle(&stack{})
}

func (c *Container) cradle(st *stack) Cradle {
	return Cradle{container: c, stack: st}
}

func (c *Container) resolve(st *stack, name Key, opts ResolveOptions) (value any, err error) {
	if err := checkKey("Resolve", name); err != nil {
		return nil, err
	}

	start := time.Now()
	depth := st.depth()
	lifetime := Transient
	done := false
	defer func() {
		// A failure, or a panic escaping a factory, unwinds the frames this
		// call added.
		if !done {
			st.truncate(depth)
		}
		if c.options.OnResolve != nil && (done || err != nil) {
			c.options.OnResolve(name, lifetime, time.Since(start), err)
		}
	}()

	r, ok := c.Registration(name)
	if ok && r.load != nil {
		if err := r.load.run(); err != nil {
			return nil, c.failure(name, st.path(name), err, "")
		}
		if r, ok = c.Registration(name); ok && r.load != nil {
			return nil, c.failure(name, st.path(name), ErrNotRegistered, "deferred provider did not register it")
		}
	}

	if st.contains(name) {
		return nil, c.failure(name, st.path(name), ErrCyclicDependency, "")
	}

	if !ok {
		if v, reserved := c.reserved(name); reserved {
			done = true
			return v, nil
		}
		if opts.AllowUnregistered {
			done = true
			return nil, nil
		}
		return nil, c.failure(name, st.path(name), ErrNotRegistered, "")
	}

	lifetime = r.lifetime
	if c.options.Strict && !r.leakSafe {
		if f, found := st.outliving(lifetime); found {
			detail := fmt.Sprintf("dependency %s has a shorter lifetime than its ancestor %s",
				quoteKey(name), quoteKey(f.name))
			return nil, c.failure(name, st.path(name), ErrLifetimeLeak, detail)
		}
	}

	st.push(name, lifetime)
	switch lifetime {
	case Transient:
		value, err = invoke(r, c.cradle(st))
	case Scoped:
		value, err = c.cached(st, name, r, func() (any, error) {
			return invoke(r, c.cradle(st))
		})
	case Singleton:
		target := c
		if c.options.Strict {
			target = c.root
		}
		value, err = c.root.cached(st, name, r, func() (any, error) {
			return invoke(r, target.cradle(st))
		})
	default:
		err = ErrUnknownLifetime
	}
	if err != nil {
		var re *ResolutionError
		if errors.As(err, &re) {
			return nil, err
		}
		return nil, c.failure(name, st.path(), err, "")
	}

	st.pop()
	done = true
	return value, nil
}

func (c *Container) failure(name Key, path []Key, err error, detail string) error {
	c.log.Debug().Str("name", keyString(name)).Err(err).Msg("resolution failed")
	return &ResolutionError{Name: name, Path: path, Detail: detail, Err: err}
}

// invoke runs the resolve function of r. Cradle.Get and MustResolve report
// a failed lookup by panicking; such a panic is returned as the error of
// this resolution. Any other panic keeps unwinding.
func invoke(r Resolver, cr Cradle) (value any, err error) {
	defer func() {
		if p := recover(); p != nil {
			perr, ok := p.(error)
			var re *ResolutionError
			if !ok || !errors.As(perr, &re) {
				panic(p)
			}
			value, err = nil, perr
		}
	}()
	return r.resolve(r, cr)
}

// cached returns the value cached under name, building and storing it once.
// st is the stack of the calling resolution. It must not join a build that
// is itself waiting on one of st's names.
func (c *Container) cached(st *stack, name Key, r Resolver, build func() (any, error)) (any, error) {
	if v, ok := c.lookup(name); ok {
		return v, nil
	}

	c.mu.RLock()
	owner := c.building[name]
	c.mu.RUnlock()
	if owner != nil {
		if cycle, found := st.waitsOn(owner, name); found {
			return nil, c.failure(name, cycle, ErrCyclicDependency, "")
		}
	}

	v, err, _ := c.flight.Do(flightKey(name), func() (any, error) {
		if v, ok := c.lookup(name); ok {
			return v, nil
		}

		c.mu.Lock()
		c.building[name] = st
		c.mu.Unlock()
		defer func() {
			c.mu.Lock()
			delete(c.building, name)
			c.mu.Unlock()
		}()

		v, err := build()
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		c.cache[name] = cacheEntry{resolver: r, value: v}
		c.mu.Unlock()
		return v, nil
	})
	return v, err
}

func (c *Container) lookup(name Key) (any, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.cache[name]
	return e.value, ok
}

// Cached reports whether this container holds a cached value for name.
// Singletons are cached on the root.
func (c *Container) Cached(name Key) bool {
	if checkKey("Cached", name) != nil {
		return false
	}
	_, ok := c.lookup(name)
	return ok
}

// reserved answers introspection names that were not registered.
func (c *Container) reserved(name Key) (any, bool) {
	s, ok := name.(string)
	if !ok {
		return nil, false
	}
	switch s {
	case "toString", "inspect", "toJSON", "String":
		return c.String(), true
	case "then":
		return nil, true
	}
	return nil, false
}

func (c *Container) String() string {
	kind := "root"
	if c.parent != nil {
		kind = "scoped"
	}
	return fmt.Sprintf("[Container (%s, registrations: %d)]", kind, len(c.Registrations()))
}
