// Package container provides a dependency injection container with named
// registrations, lifetimes, child scopes and Service Providers.
//
// # Overview
//
// The container manages the instantiation and lifecycle of your application's
// dependencies. Dependencies are looked up by name. A function declares the
// names it needs through the source text of its signature, parsed by package
// signature, or receives a Cradle and looks them up itself.
//
// # Container Lifecycle
//
//  1. Create: c := container.New(container.Options{Strict: true})
//  2. Register providers: registry.Register(&MyProvider{})
//  3. Boot: registry.Boot()
//  4. Per request: scope := c.CreateScope(); defer scope.Dispose(ctx)
//  5. Shutdown: c.Dispose(ctx)
//
// # Resolvers
//
//	// Value, returned as is
//	c.Register("dsn", container.AsValue("postgres://localhost/app"))
//
//	// Function in proxy mode, receiving the cradle
//	c.Register("db", container.AsFunction(func(cr container.Cradle) (*sql.DB, error) {
//	    dsn := container.MustResolve[string](cr, "dsn")
//	    return sql.Open("postgres", dsn)
//	}).Singleton().Disposer(closeDB))
//
//	// Class in classic mode, dependencies named by the signature text
//	c.Register("users", container.AsClass(
//	    container.Func("class Users { constructor(db, logger) {} }", NewUsers),
//	).Classic().Scoped())
//
//	// Alias
//	c.Register("database", container.AliasTo("db"))
//
// # Lifetimes
//
// Transient resolves every time. Scoped caches per container, so each scope
// gets its own value. Singleton caches once on the root and is shared by
// every scope.
//
// # Strict mode
//
// In strict mode a resolution fails with ErrLifetimeLeak when a longer-lived
// value would depend on a shorter-lived one, singletons may only be
// registered on the root, and singletons resolve their dependencies from the
// root.
//
// # Resolving
//
//	raw, err := c.Resolve("users")
//
//	// Generic, with the type assertion done for you
//	users, err := container.Resolve[*Users](c, "users")
//
// # Contextual Binding
//
//	c.When("photoController").Needs("storage").Give(container.AsFunction(newS3))
//
// # Tags
//
//	c.Tag("reports", "cpuReport", "memoryReport")
//	reports, err := c.Tagged("reports")
//
// # Service Providers
//
//	type UsersProvider struct{ container.BaseProvider }
//
//	func (p *UsersProvider) Register(app *container.Container) error {
//	    return app.Register("users", container.AsClass(newUsers).Singleton())
//	}
//
//	registry := container.NewProviderRegistry(app)
//	registry.Register(&UsersProvider{})
//	registry.Boot()
//
// # Deferred Providers
//
// A provider that returns true from IsDeferred is only registered when one
// of the names it Provides is first resolved.
package container
