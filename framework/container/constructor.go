package container

import (
	"reflect"

	"github.com/pkg/errors"

	"github.com/km-arc/go-cradle/framework/signature"
)

var (
	cradleType = reflect.TypeOf(Cradle{})
	errorType  = reflect.TypeOf((*error)(nil)).Elem()
)

// Constructor pairs a Go function with the source text of its signature.
// The text names the dependencies; the function builds the value.
//
//	repo := container.Func("class UserRepo { constructor(db, logger) {} }",
//	    func(db *sql.DB, log zerolog.Logger) *UserRepo { ... })
//
// The function must return (T) or (T, error).
type Constructor struct {
	source string
	fn     reflect.Value
	parent *Constructor
	opts   []Option
	err    error
}

// Func creates a Constructor. A malformed fn is reported when the
// Constructor is handed to a resolver builder.
func Func(source string, fn any) *Constructor {
	c := &Constructor{source: source}

	v := reflect.ValueOf(fn)
	if fn == nil || v.Kind() != reflect.Func || v.IsNil() {
		c.err = &TypeError{Func: "Func", Param: "fn", Expected: "a function", Given: fn}
		return c
	}
	if err := checkReturns(v.Type()); err != nil {
		c.err = err
		return c
	}
	c.fn = v
	return c
}

func checkReturns(t reflect.Type) error {
	switch {
	case t.NumOut() == 1:
		return nil
	case t.NumOut() == 2 && t.Out(1) == errorType:
		return nil
	}
	return errors.Errorf("constructor %s must return (T) or (T, error)", t)
}

// Extends returns a copy of c whose dependencies fall back to parent when
// c's own signature declares no constructor.
func (c *Constructor) Extends(parent *Constructor) *Constructor {
	cp := *c
	cp.parent = parent
	return &cp
}

// Declare returns a copy of c carrying self-declared resolver options.
// Options passed to a builder take precedence over declared ones.
func (c *Constructor) Declare(opts ...Option) *Constructor {
	cp := *c
	cp.opts = append(append([]Option(nil), c.opts...), opts...)
	return &cp
}

// DeclaredOptions returns the options set with Declare.
func (c *Constructor) DeclaredOptions() []Option { return c.opts }

// Signature implements signature.Source.
func (c *Constructor) Signature() string { return c.source }

// Parent implements signature.Inherited.
func (c *Constructor) Parent() signature.Source {
	if c.parent == nil {
		return nil
	}
	return c.parent
}

// IsClass reports whether the signature text is class-shaped.
func (c *Constructor) IsClass() bool { return signature.IsClass(c.source) }

func (c *Constructor) String() string {
	if !c.fn.IsValid() {
		return "<invalid constructor>"
	}
	return c.fn.Type().String()
}

// toConstructor accepts a *Constructor or a bare function. A bare function
// has no signature text and therefore no declared dependencies.
func toConstructor(funcName string, target any) (*Constructor, error) {
	switch t := target.(type) {
	case *Constructor:
		if t == nil {
			break
		}
		if t.err != nil {
			return nil, t.err
		}
		return t, nil
	default:
		if target != nil && reflect.TypeOf(target).Kind() == reflect.Func {
			c := Func("", target)
			if c.err != nil {
				return nil, c.err
			}
			return c, nil
		}
	}
	return nil, &TypeError{Func: funcName, Param: "target", Expected: "a function or *Constructor", Given: target}
}

// callWithCradle invokes the function in proxy mode. The single parameter
// may be a Cradle, an interface a Cradle satisfies, or a struct (or pointer
// to one) whose tagged fields are filled from the cradle.
func (c *Constructor) callWithCradle(cr Cradle) (any, error) {
	t := c.fn.Type()
	switch t.NumIn() {
	case 0:
		return c.call(nil)
	case 1:
	default:
		return nil, errors.Errorf("proxy injection passes one argument, but %s takes %d", t, t.NumIn())
	}

	in := t.In(0)
	switch {
	case in == cradleType, in.Kind() == reflect.Interface && cradleType.Implements(in):
		return c.call([]reflect.Value{reflect.ValueOf(cr)})
	case in.Kind() == reflect.Ptr && hasInjectTags(in.Elem()):
		arg := reflect.New(in.Elem())
		if err := cr.Fill(arg.Interface()); err != nil {
			return nil, err
		}
		return c.call([]reflect.Value{arg})
	case hasInjectTags(in):
		arg := reflect.New(in)
		if err := cr.Fill(arg.Interface()); err != nil {
			return nil, err
		}
		return c.call([]reflect.Value{arg.Elem()})
	}
	return nil, errors.Errorf("proxy injection cannot supply a %s", in)
}

// callPositional invokes the function in classic mode. A nil argument
// becomes the zero value of its parameter.
func (c *Constructor) callPositional(args []any) (any, error) {
	t := c.fn.Type()
	if t.IsVariadic() || t.NumIn() != len(args) {
		return nil, errors.Errorf("signature declares %d parameters, but %s takes %d", len(args), t, t.NumIn())
	}

	in := make([]reflect.Value, len(args))
	for i, a := range args {
		want := t.In(i)
		if a == nil {
			in[i] = reflect.Zero(want)
			continue
		}
		v := reflect.ValueOf(a)
		if !v.Type().AssignableTo(want) {
			return nil, errors.Errorf("argument %d: %s is not assignable to %s", i, v.Type(), want)
		}
		in[i] = v
	}
	return c.call(in)
}

func (c *Constructor) call(in []reflect.Value) (any, error) {
	out := c.fn.Call(in)
	if len(out) == 2 && !out[1].IsNil() {
		return nil, out[1].Interface().(error)
	}
	return out[0].Interface(), nil
}
