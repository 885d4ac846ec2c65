package signature

import (
	"unicode"
	"unicode/utf8"
)

// Source is anything that can report the source text of its signature.
type Source interface {
	Signature() string
}

// Inherited is a Source that may inherit the constructor of a parent, the
// way a subclass without its own constructor does.
type Inherited interface {
	Source
	Parent() Source
}

// Text is a bare signature string used as a Source.
type Text string

func (t Text) Signature() string { return string(t) }

// ParseDependencies returns the parameter list of src. When src is a class
// without its own constructor, the parents are tried in turn; with no parent
// left the list is empty.
func ParseDependencies(src Source) ([]Parameter, error) {
	for src != nil {
		params, err := ParseParameterList(src.Signature())
		if err != nil {
			return nil, err
		}
		if params != nil {
			return params, nil
		}

		inherited, ok := src.(Inherited)
		if !ok {
			break
		}
		src = inherited.Parent()
	}
	return []Parameter{}, nil
}

// IsClass reports whether source is class-shaped: it starts with `class`, or
// with `function` followed by a capitalised name.
func IsClass(source string) bool {
	lex := NewLexer(source)

	first := lex.Next(ScanDumb)
	if first.Kind == TokenClass {
		return true
	}
	if first.Kind != TokenFunction {
		return false
	}

	second := lex.Next(ScanDumb)
	if second.Kind != TokenIdent {
		return false
	}
	r, _ := utf8.DecodeRuneInString(second.Value)
	return unicode.IsUpper(r)
}

// Names returns the parameter names in order.
func Names(params []Parameter) []string {
	names := make([]string, len(params))
	for i, p := range params {
		names[i] = p.Name
	}
	return names
}
