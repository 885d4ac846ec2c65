package http

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/km-arc/go-cradle/framework/container"
)

type scopeKey struct{}

// ErrNoScope is returned when a request did not pass through ScopePerRequest.
var ErrNoScope = errors.New("request has no container scope")

// Registrar adds request specific registrations to a fresh scope.
type Registrar func(scope *container.Container, r *http.Request) error

// ScopePerRequest gives every request its own child scope of root. The scope
// holds "request" (the *http.Request) and "requestId", plus whatever
// register adds, and is disposed once the handler returns.
//
//	router.Middleware(gohttp.ScopePerRequest(app.Container, func(s *container.Container, r *http.Request) error {
//	    return s.Register("currentUser", container.AsValue(userFrom(r)))
//	}))
func ScopePerRequest(root *container.Container, register Registrar) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			scope := root.CreateScope()
			defer func() {
				if err := scope.Dispose(context.WithoutCancel(r.Context())); err != nil {
					zerolog.Ctx(r.Context()).Warn().Err(err).Msg("request scope dispose failed")
				}
			}()

			r = r.WithContext(WithScope(r.Context(), scope))
			err := scope.RegisterAll(container.Registrations{
				"request":   container.AsValue(r),
				"requestId": container.AsValue(middleware.GetReqID(r.Context())),
			})
			if err == nil && register != nil {
				err = register(scope, r)
			}
			if err != nil {
				zerolog.Ctx(r.Context()).Error().Err(err).Msg("request scope setup failed")
				NewResponse(w).ServerError()
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// WithScope returns a copy of ctx carrying scope.
func WithScope(ctx context.Context, scope *container.Container) context.Context {
	return context.WithValue(ctx, scopeKey{}, scope)
}

// ScopeFrom returns the scope stored in ctx, if any.
func ScopeFrom(ctx context.Context) (*container.Container, bool) {
	scope, ok := ctx.Value(scopeKey{}).(*container.Container)
	return scope, ok && scope != nil
}

// FromRequest resolves name from the scope of r and asserts its type.
func FromRequest[T any](r *http.Request, name container.Key) (T, error) {
	scope, ok := ScopeFrom(r.Context())
	if !ok {
		var zero T
		return zero, ErrNoScope
	}
	return container.Resolve[T](scope, name)
}

// Invoke builds a handler that resolves name from the request scope on
// every request and hands it to action. A resolution failure answers 500.
//
//	r.Get("/users", gohttp.Invoke("userController", (*UserController).Index))
func Invoke[T any](name container.Key, action func(T, http.ResponseWriter, *http.Request)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		target, err := FromRequest[T](r, name)
		if err != nil {
			zerolog.Ctx(r.Context()).Error().Err(err).Msg("resolve handler target")
			NewResponse(w).Fail(err)
			return
		}
		action(target, w, r)
	}
}
