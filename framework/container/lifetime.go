package container

import (
	"strings"

	"github.com/pkg/errors"
)

// Lifetime controls how a resolved value is cached.
type Lifetime int

const (
	// Transient resolves on every call and never caches. It is the default.
	Transient Lifetime = iota

	// Scoped caches the value in the container that performed the
	// resolution, so every scope gets its own instance.
	Scoped

	// Singleton caches the value once, in the root container.
	Singleton
)

func (l Lifetime) String() string {
	switch l {
	case Transient:
		return "transient"
	case Scoped:
		return "scoped"
	case Singleton:
		return "singleton"
	default:
		return "unknown"
	}
}

// LongerThan reports whether l strictly outlives o.
func (l Lifetime) LongerThan(o Lifetime) bool {
	return (l == Singleton && o != Singleton) || (l == Scoped && o == Transient)
}

// ParseLifetime parses "transient", "scoped" or "singleton", ignoring case.
func ParseLifetime(s string) (Lifetime, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "transient", "":
		return Transient, nil
	case "scoped":
		return Scoped, nil
	case "singleton":
		return Singleton, nil
	}
	return Transient, errors.Wrapf(ErrUnknownLifetime, "parse %q", s)
}

// UnmarshalYAML lets lifetimes be written by name in manifests.
func (l *Lifetime) UnmarshalYAML(unmarshal func(any) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	parsed, err := ParseLifetime(s)
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}

// InjectionMode selects how a callable receives its dependencies.
type InjectionMode int

const (
	// InjectionInherit defers to the container option, then to
	// InjectionProxy.
	InjectionInherit InjectionMode = iota

	// InjectionProxy passes a single Cradle through which dependencies are
	// looked up by name.
	InjectionProxy

	// InjectionClassic resolves each declared parameter by name and passes
	// the values positionally.
	InjectionClassic
)

func (m InjectionMode) String() string {
	switch m {
	case InjectionInherit:
		return "inherit"
	case InjectionProxy:
		return "proxy"
	case InjectionClassic:
		return "classic"
	default:
		return "unknown"
	}
}

// ParseInjectionMode parses "proxy" or "classic", ignoring case. An empty
// string means InjectionInherit.
func ParseInjectionMode(s string) (InjectionMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return InjectionInherit, nil
	case "proxy":
		return InjectionProxy, nil
	case "classic":
		return InjectionClassic, nil
	}
	return InjectionInherit, errors.Errorf("unknown injection mode %q", s)
}

// UnmarshalYAML lets injection modes be written by name in manifests.
func (m *InjectionMode) UnmarshalYAML(unmarshal func(any) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	parsed, err := ParseInjectionMode(s)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}
