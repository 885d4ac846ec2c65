package container

// ContextualBuilder implements the fluent contextual binding API on top of
// resolver locals.
//
//	c.When("photoController").Needs("storage").Give(container.AsFunction(newS3))
type ContextualBuilder struct {
	container *Container
	concrete  Key
	needs     Key
}

// When starts a contextual binding chain for the registration of concrete.
func (c *Container) When(concrete Key) *ContextualBuilder {
	return &ContextualBuilder{container: c, concrete: concrete}
}

// Needs specifies which name the concrete registration depends on.
func (b *ContextualBuilder) Needs(name Key) *ContextualBuilder {
	b.needs = name
	return b
}

// Give makes give supply the needed name whenever concrete is resolved.
// give is built on every resolution of concrete; its lifetime is ignored.
//
// The registration of concrete, found anywhere in the scope chain, is
// re-registered on the container When was called on, so a scope can
// override a dependency without touching its ancestors.
func (b *ContextualBuilder) Give(give Resolver) error {
	if err := checkKey("Needs", b.needs); err != nil {
		return err
	}
	if give.err != nil {
		return &RegistrationError{Name: b.concrete, Err: give.err}
	}
	if give.resolve == nil {
		return &RegistrationError{Name: b.concrete, Err: ErrEmptyResolver}
	}

	r, ok := b.container.Registration(b.concrete)
	if !ok {
		return &RegistrationError{Name: b.concrete, Err: ErrNotRegistered}
	}

	prev, needs := r.injector, b.needs
	injector := func(cr Cradle) (Locals, error) {
		locals := make(Locals)
		if prev != nil {
			more, err := prev(cr)
			if err != nil {
				return nil, err
			}
			for k, v := range more {
				locals[k] = v
			}
		}

		v, err := give.resolve(give, cr)
		if err != nil {
			return nil, err
		}
		locals[needs] = v
		return locals, nil
	}
	return b.container.Register(b.concrete, r.Inject(injector))
}

// GiveValue is a shorthand for Give(AsValue(value)).
//
//	c.When("photoController").Needs("storagePath").GiveValue("/tmp/photos")
func (b *ContextualBuilder) GiveValue(value any) error {
	return b.Give(AsValue(value))
}
