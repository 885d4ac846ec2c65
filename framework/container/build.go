package container

// Build resolves target once against c without registering or caching it.
// Target is a Resolver, a *Constructor or a plain function. A class-shaped
// Constructor is built with AsClass, anything else with AsFunction; opts
// apply to both but are ignored for a Resolver.
//
//	v, err := c.Build(container.Func("function (users, logger) {}", newReport))
func (c *Container) Build(target any, opts ...Option) (any, error) {
	var r Resolver
	switch t := target.(type) {
	case Resolver:
		r = t
	case *Resolver:
		if t == nil {
			return nil, &TypeError{Func: "Build", Param: "target", Expected: "a resolver, function or *Constructor", Given: target}
		}
		r = *t
	case *Constructor:
		if t != nil && t.IsClass() {
			r = AsClass(t, opts...)
		} else {
			r = AsFunction(t, opts...)
		}
	default:
		r = AsFunction(target, opts...)
	}

	if r.err != nil {
		return nil, r.err
	}
	if r.resolve == nil {
		return nil, &TypeError{Func: "Build", Param: "target", Expected: "a resolver, function or *Constructor", Given: target}
	}
	return r.resolve(r, c.Cradle())
}
