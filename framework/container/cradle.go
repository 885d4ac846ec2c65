package container

import (
	"reflect"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/pkg/errors"
)

// Cradle is the lookup view a factory receives in proxy mode. Every lookup
// performs a full resolution against the owning container, so values are
// never resolved ahead of time.
//
// A Cradle is only valid while the resolution it was handed to is running;
// use Container.Cradle for a long-lived view.
type Cradle struct {
	container *Container
	stack     *stack
	locals    Locals
}

// ResolveOptions adjusts a single resolution.
type ResolveOptions struct {
	// AllowUnregistered makes an unknown name resolve to nil instead of
	// failing with ErrNotRegistered.
	AllowUnregistered bool
}

// Resolve looks key up, honouring any injected locals first.
func (cr Cradle) Resolve(key Key) (any, error) {
	return cr.ResolveWith(key, ResolveOptions{})
}

// ResolveWith is Resolve with options.
func (cr Cradle) ResolveWith(key Key, opts ResolveOptions) (any, error) {
	if cr.container == nil {
		return nil, errors.New("container: zero Cradle")
	}
	if err := checkKey("Resolve", key); err != nil {
		return nil, err
	}
	if v, ok := cr.locals[key]; ok {
		return v, nil
	}
	return cr.container.resolve(cr.stack, key, opts)
}

// Get is Resolve for factories that prefer to fail loudly. It panics on
// error. Inside a factory the panic fails only that resolution, which
// returns the error as usual.
func (cr Cradle) Get(key Key) any {
	v, err := cr.Resolve(key)
	if err != nil {
		panic(err)
	}
	return v
}

// Has reports whether key is an injected local or registered anywhere in the
// scope chain.
func (cr Cradle) Has(key Key) bool {
	if checkKey("Has", key) != nil {
		return false
	}
	if _, ok := cr.locals[key]; ok {
		return true
	}
	return cr.container != nil && cr.container.HasRegistration(key)
}

// Keys lists the registered names visible from the owning container plus
// any locals, sorted by name.
func (cr Cradle) Keys() []Key {
	seen := make(map[Key]struct{})
	var keys []Key
	if cr.container != nil {
		for k := range cr.container.Registrations() {
			seen[k] = struct{}{}
			keys = append(keys, k)
		}
	}
	for k := range cr.locals {
		if _, ok := seen[k]; !ok {
			keys = append(keys, k)
		}
	}
	sortKeys(keys)
	return keys
}

// Container returns the container the cradle resolves against.
func (cr Cradle) Container() *Container { return cr.container }

func (cr Cradle) String() string { return "[ContainerCradle]" }

func (cr Cradle) withLocals(locals Locals) Cradle {
	cr.locals = locals
	return cr
}

func (cr Cradle) injectionMode(m InjectionMode) InjectionMode {
	if m == InjectionInherit && cr.container != nil {
		m = cr.container.options.InjectionMode
	}
	if m == InjectionInherit {
		m = InjectionProxy
	}
	return m
}

// ── Struct injection ──────────────────────────────────────────────────────────

const injectTag = "inject"

// Fill sets the tagged fields of the struct target points to.
//
//	type deps struct {
//	    Users  *UserRepo      `inject:""` // "users"
//	    Logger zerolog.Logger `inject:"logger"`
//	    Cache  Cache          `inject:"cache,optional"`
//	}
//
// An empty tag name means the field name with its first letter lowered.
// Optional fields are left at their zero value when the name is not
// registered.
func (cr Cradle) Fill(target any) error {
	v := reflect.ValueOf(target)
	if v.Kind() != reflect.Ptr || v.IsNil() || v.Elem().Kind() != reflect.Struct {
		return &TypeError{Func: "Fill", Param: "target", Expected: "a pointer to a struct", Given: target}
	}

	s := v.Elem()
	st := s.Type()
	for i := 0; i < st.NumField(); i++ {
		field := st.Field(i)
		tag, ok := field.Tag.Lookup(injectTag)
		if !ok {
			continue
		}
		if !field.IsExported() {
			return errors.Errorf("cannot inject unexported field %s.%s", st, field.Name)
		}

		name, optional := parseInjectTag(tag, field.Name)
		val, err := cr.ResolveWith(name, ResolveOptions{AllowUnregistered: optional})
		if err != nil {
			return err
		}
		if val == nil {
			continue
		}

		rv := reflect.ValueOf(val)
		if !rv.Type().AssignableTo(field.Type) {
			return errors.Errorf("cannot inject %q into %s.%s: %s is not assignable to %s",
				name, st, field.Name, rv.Type(), field.Type)
		}
		s.Field(i).Set(rv)
	}
	return nil
}

func parseInjectTag(tag, fieldName string) (name string, optional bool) {
	parts := strings.Split(tag, ",")
	name = strings.TrimSpace(parts[0])
	for _, p := range parts[1:] {
		if strings.TrimSpace(p) == "optional" {
			optional = true
		}
	}
	if name == "" {
		name = lowerFirst(fieldName)
	}
	return name, optional
}

func lowerFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToLower(r)) + s[size:]
}

func hasInjectTags(t reflect.Type) bool {
	if t.Kind() != reflect.Struct {
		return false
	}
	for i := 0; i < t.NumField(); i++ {
		if _, ok := t.Field(i).Tag.Lookup(injectTag); ok {
			return true
		}
	}
	return false
}
