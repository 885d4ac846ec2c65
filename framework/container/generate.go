package container

import (
	"github.com/km-arc/go-cradle/framework/signature"
)

type invoker interface {
	callWithCradle(cr Cradle) (any, error)
	callPositional(args []any) (any, error)
}

// generateResolve parses the dependencies of parseTarget once and returns
// the resolve function that calls fn with them.
//
// The injection mode is taken from the resolver, then from the container
// options, then defaults to proxy.
func generateResolve(fn invoker, parseTarget signature.Source) (resolveFunc, []signature.Parameter, error) {
	deps, err := signature.ParseDependencies(parseTarget)
	if err != nil {
		return nil, nil, err
	}

	resolve := func(r Resolver, cr Cradle) (any, error) {
		if r.injector != nil {
			locals, err := r.injector(cr)
			if err != nil {
				return nil, err
			}
			cr = cr.withLocals(locals)
		}

		if cr.injectionMode(r.injectionMode) != InjectionClassic {
			return fn.callWithCradle(cr)
		}

		args := make([]any, len(deps))
		for i, p := range deps {
			v, err := cr.ResolveWith(p.Name, ResolveOptions{AllowUnregistered: p.Optional})
			if err != nil {
				return nil, err
			}
			args[i] = v
		}
		return fn.callPositional(args)
	}
	return resolve, deps, nil
}
