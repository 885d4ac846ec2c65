package container

import (
	"reflect"

	"github.com/pkg/errors"
)

// Locator is anything names can be resolved from: a *Container or a Cradle.
type Locator interface {
	Resolve(name Key) (any, error)
}

// Resolve is a generic helper that resolves name and asserts its type.
//
//	repo, err := container.Resolve[*UserRepo](c, "userRepo")
func Resolve[T any](l Locator, name Key) (T, error) {
	var zero T

	v, err := l.Resolve(name)
	if err != nil {
		return zero, err
	}
	if v == nil {
		return zero, nil
	}

	typed, ok := v.(T)
	if !ok {
		return zero, errors.Errorf("container: %s resolved to %T, not %s",
			quoteKey(name), v, reflect.TypeOf((*T)(nil)).Elem())
	}
	return typed, nil
}

// MustResolve is like Resolve but panics on error.
//
//	logger := container.MustResolve[zerolog.Logger](cr, "logger")
func MustResolve[T any](l Locator, name Key) T {
	v, err := Resolve[T](l, name)
	if err != nil {
		panic(err)
	}
	return v
}
