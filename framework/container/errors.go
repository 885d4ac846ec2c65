package container

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

var (
	// ErrNotRegistered is returned when a name is registered nowhere in the
	// scope chain.
	ErrNotRegistered = errors.New("not registered")

	// ErrCyclicDependency is returned when a name depends on itself,
	// directly or transitively.
	ErrCyclicDependency = errors.New("cyclic dependencies detected")

	// ErrLifetimeLeak is returned in strict mode when a longer-lived
	// resolution would capture a shorter-lived dependency.
	ErrLifetimeLeak = errors.New("dependency has a shorter lifetime than its ancestor")

	// ErrUnknownLifetime is returned for a lifetime outside the known set.
	ErrUnknownLifetime = errors.New("unknown lifetime")

	// ErrSingletonOnScope is returned in strict mode when a singleton is
	// registered on a scoped container.
	ErrSingletonOnScope = errors.New("cannot register a singleton on a scoped container")

	// ErrEmptyResolver is returned when a zero Resolver is registered.
	ErrEmptyResolver = errors.New("resolver has no resolve function")
)

// TypeError reports an argument of the wrong shape, such as a non-function
// handed to AsFunction.
type TypeError struct {
	Func     string
	Param    string
	Expected string
	Given    any
}

func (e *TypeError) Error() string {
	return fmt.Sprintf("%s: expected %s to be %s, but got %T", e.Func, e.Param, e.Expected, e.Given)
}

// RegistrationError reports a registration the container refused.
type RegistrationError struct {
	Name Key
	Err  error
}

func (e *RegistrationError) Error() string {
	return fmt.Sprintf("could not register %s: %v", quoteKey(e.Name), e.Err)
}

func (e *RegistrationError) Unwrap() error { return e.Err }

// ResolutionError reports a failed resolution together with the path of
// names that led to it.
type ResolutionError struct {
	Name Key
	Path []Key

	// Detail is an optional human readable explanation.
	Detail string
	Err    error
}

func (e *ResolutionError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "could not resolve %s: ", quoteKey(e.Name))
	if e.Detail != "" {
		b.WriteString(e.Detail)
	} else {
		fmt.Fprint(&b, e.Err)
	}

	names := make([]string, len(e.Path))
	for i, k := range e.Path {
		names[i] = keyString(k)
	}
	fmt.Fprintf(&b, " (resolution path: %s)", strings.Join(names, " -> "))
	return b.String()
}

func (e *ResolutionError) Unwrap() error { return e.Err }
