package signature_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/km-arc/go-cradle/framework/signature"
)

func req(names ...string) []signature.Parameter {
	out := make([]signature.Parameter, len(names))
	for i, n := range names {
		out[i] = signature.Parameter{Name: n}
	}
	return out
}

func TestParseParameterList(t *testing.T) {
	tests := []struct {
		name   string
		source string
		want   []signature.Parameter
	}{
		{"empty parens", "()", []signature.Parameter{}},
		{"empty source", "", []signature.Parameter{}},
		{"plain list", "(a, b)", req("a", "b")},
		{"default marks optional", "(a, b = 1)", []signature.Parameter{
			{Name: "a"},
			{Name: "b", Optional: true},
		}},
		{"function keyword", "function (db, logger) { return 1 }", req("db", "logger")},
		{"named function", "function makeRepo(db) {}", req("db")},
		{"generator", "function* gen(a, b) {}", req("a", "b")},
		{"anonymous generator", "function *(a) {}", req("a")},
		{"arrow without parens", "db => db.connect()", req("db")},
		{"async arrow", "async (a, b) => {}", req("a", "b")},
		{"async function", "async function load(a) {}", req("a")},
		{"param named async", "async => async", req("async")},
		{"async single param arrow", "async a => a", req("a")},
		{"trailing comma dropped", "(a, b,)", req("a", "b")},
		{"whitespace and tabs", "(\n\ta,\r\n\tb\n)", req("a", "b")},
		{"line comments", "(a, // first\n b) => {}", req("a", "b")},
		{"block comments", "(/* x, y */ a, b /* c */) => {}", req("a", "b")},
		{"class constructor", "class Repo { constructor(db, logger) {} }", req("db", "logger")},
		{"class with methods before constructor", "class Repo { find(id) { return id } constructor(db) {} }", req("db")},
		{"member expression is not a constructor", "class A { foo() { this.constructor(1) } constructor(b) {} }", req("b")},
		{"optional chaining member", "class A { foo() { a?.constructor(1) } constructor(c) {} }", req("c")},
		{"non-ascii identifiers", "(größe, ñame)", req("größe", "ñame")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := signature.ParseParameterList(tt.source)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseParameterList_DefaultExpressions(t *testing.T) {
	tests := []struct {
		name   string
		source string
	}{
		{"nested call", "(a = fn(1, 2), b)"},
		{"deeply nested call", "(a = fn(g(1, h(2, 3)), 4), b)"},
		{"array literal", "(a = [1, 2, 3], b)"},
		{"object literal", "(a = {x: 1, y: 2}, b)"},
		{"double quoted string", `(a = "x, y)", b)`},
		{"single quoted string", `(a = 'x, (y', b)`},
		{"escaped quote", `(a = "x\", y", b)`},
		{"template literal", "(a = `x, y`, b)"},
		{"template interpolation", "(a = `x${fn(1, 2)}y`, b)"},
		{"nested template interpolation", "(a = `x${`in ${c, d} ner`}y`, b)"},
		{"object inside interpolation", "(a = `${ {k: 1, j: 2}.k }`, b)"},
		{"comment inside default", "(a = 1 /* , z */, b)"},
	}

	want := []signature.Parameter{{Name: "a", Optional: true}, {Name: "b"}}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := signature.ParseParameterList(tt.source)
			require.NoError(t, err)
			assert.Equal(t, want, got)
		})
	}
}

func TestParseParameterList_ClassWithoutConstructor(t *testing.T) {
	for _, src := range []string{
		"class Repo {}",
		"class Repo extends Base { find(id) { return id } }",
		"class Repo { foo() { return this.constructor } }",
		"class Repo",
	} {
		got, err := signature.ParseParameterList(src)
		require.NoError(t, err, src)
		assert.Nil(t, got, src)
	}
}

func TestParseParameterList_SyntaxError(t *testing.T) {
	for _, src := range []string{
		"= a",
		", a",
		"(a, b",
		"(a * b)",
		"(function)",
		"function a b c (x)",
		"function foo",
		"function",
		"function * * (a)",
		"function name * (a)",
	} {
		_, err := signature.ParseParameterList(src)
		require.Error(t, err, src)

		var syntaxErr *signature.SyntaxError
		assert.True(t, errors.As(err, &syntaxErr), src)
	}
}

func TestSyntaxError_Message(t *testing.T) {
	_, err := signature.ParseParameterList("(a * b)")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "did not expect * token")
}
