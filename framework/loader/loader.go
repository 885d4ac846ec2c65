// Package loader registers a catalog of compiled-in modules on a container,
// selecting them with glob patterns and naming them after their paths.
//
//	catalog := loader.Catalog{
//	    {Path: "repositories/user-repo.go", Target: newUserRepo},
//	    {Path: "services/user-service.go", Target: userServiceCtor},
//	}
//	entries, err := loader.Load(c, catalog, loader.LoadOptions{
//	    Patterns: []loader.Pattern{{Glob: "repositories/*", Options: loader.Singleton()}},
//	})
package loader

import (
	"path"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/pkg/errors"

	"github.com/km-arc/go-cradle/framework/container"
)

// Module is one registrable unit of the catalog.
type Module struct {
	// Path is slash separated and matched against pattern globs.
	Path string

	// Target is a function, a *container.Constructor or a container.Resolver.
	Target any

	// Name, when set, is used as is instead of the formatted path.
	Name string

	// Options declared by the module itself. They win over pattern options.
	Options Options
}

// Catalog lists the modules available to the loader.
type Catalog []Module

// Options are resolver settings a loader, a pattern or a module may set.
// Nil and empty fields are unset.
type Options struct {
	Lifetime      *container.Lifetime      `yaml:"lifetime,omitempty"`
	InjectionMode *container.InjectionMode `yaml:"injectionMode,omitempty"`

	// Register is "class", "function" or empty to decide from the target.
	Register string `yaml:"register,omitempty"`
}

// Singleton is shorthand for Options with the Singleton lifetime.
func Singleton() Options {
	l := container.Singleton
	return Options{Lifetime: &l}
}

// Scoped is shorthand for Options with the Scoped lifetime.
func Scoped() Options {
	l := container.Scoped
	return Options{Lifetime: &l}
}

// merge returns o with every field set in over replaced.
func (o Options) merge(over Options) Options {
	if over.Lifetime != nil {
		o.Lifetime = over.Lifetime
	}
	if over.InjectionMode != nil {
		o.InjectionMode = over.InjectionMode
	}
	if over.Register != "" {
		o.Register = over.Register
	}
	return o
}

// Pattern selects modules by glob, using path.Match syntax.
type Pattern struct {
	Glob    string `yaml:"glob"`
	Options `yaml:",inline"`
}

// LoadOptions configure a Load.
type LoadOptions struct {
	Patterns []Pattern

	// Defaults apply to every matched module.
	Defaults Options

	// FormatName turns the base name of a module path, without extension,
	// into a registration name. CamelCase is used when nil.
	FormatName func(base string, m Module) string
}

// Entry describes one module selected by Plan.
type Entry struct {
	Name    string
	Path    string
	Pattern string
	Options Options
	Module  Module
}

// Plan selects and names the modules of catalog without registering
// anything. A module matched by several patterns is taken once, with the
// options of the first pattern that matches.
func Plan(catalog Catalog, opts LoadOptions) ([]Entry, error) {
	format := opts.FormatName
	if format == nil {
		format = func(base string, _ Module) string { return CamelCase(base) }
	}

	var entries []Entry
	for _, m := range catalog {
		for _, p := range opts.Patterns {
			ok, err := path.Match(p.Glob, m.Path)
			if err != nil {
				return nil, errors.Wrapf(err, "pattern %q", p.Glob)
			}
			if !ok {
				continue
			}

			name := m.Name
			if name == "" {
				base := path.Base(m.Path)
				name = format(strings.TrimSuffix(base, path.Ext(base)), m)
			}
			entries = append(entries, Entry{
				Name:    name,
				Path:    m.Path,
				Pattern: p.Glob,
				Options: opts.Defaults.merge(p.Options).merge(m.Options),
				Module:  m,
			})
			break
		}
	}
	return entries, nil
}

// Load registers every module Plan selects on c, exactly once each, and
// returns the entries it registered.
func Load(c *container.Container, catalog Catalog, opts LoadOptions) ([]Entry, error) {
	entries, err := Plan(catalog, opts)
	if err != nil {
		return nil, err
	}

	regs := make(container.Registrations, len(entries))
	for _, e := range entries {
		r, err := e.resolver()
		if err != nil {
			return nil, errors.Wrapf(err, "module %s", e.Path)
		}
		regs[e.Name] = r
	}
	if err := c.RegisterAll(regs); err != nil {
		return nil, err
	}
	return entries, nil
}

func (e Entry) resolver() (container.Resolver, error) {
	var r container.Resolver
	switch t := e.Module.Target.(type) {
	case container.Resolver:
		r = t
	default:
		switch e.Options.Register {
		case "class":
			r = container.AsClass(t)
		case "function":
			r = container.AsFunction(t)
		case "":
			if ctor, ok := t.(*container.Constructor); ok && ctor != nil && ctor.IsClass() {
				r = container.AsClass(t)
			} else {
				r = container.AsFunction(t)
			}
		default:
			return r, errors.Errorf("unknown register kind %q", e.Options.Register)
		}
	}
	if err := r.Err(); err != nil {
		return r, err
	}

	if e.Options.Lifetime != nil {
		r = r.SetLifetime(*e.Options.Lifetime)
	}
	if e.Options.InjectionMode != nil {
		r = r.SetInjectionMode(*e.Options.InjectionMode)
	}
	return r, nil
}

// CamelCase joins the words of s, split on '-', '_', '.' and spaces, into
// lower camel case: "user-service" becomes "userService".
func CamelCase(s string) string {
	words := strings.FieldsFunc(s, func(r rune) bool {
		return r == '-' || r == '_' || r == '.' || unicode.IsSpace(r)
	})

	var b strings.Builder
	for i, w := range words {
		r, size := utf8.DecodeRuneInString(w)
		if i == 0 {
			b.WriteRune(unicode.ToLower(r))
		} else {
			b.WriteRune(unicode.ToUpper(r))
		}
		b.WriteString(w[size:])
	}
	return b.String()
}
