package signature_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/km-arc/go-cradle/framework/signature"
)

type class struct {
	source string
	parent *class
}

func (c *class) Signature() string { return c.source }

func (c *class) Parent() signature.Source {
	if c.parent == nil {
		return nil
	}
	return c.parent
}

func TestParseDependencies(t *testing.T) {
	t.Run("own parameter list", func(t *testing.T) {
		got, err := signature.ParseDependencies(signature.Text("(a, b = 1)"))
		require.NoError(t, err)
		assert.Equal(t, []signature.Parameter{{Name: "a"}, {Name: "b", Optional: true}}, got)
	})

	t.Run("inherits parent constructor", func(t *testing.T) {
		base := &class{source: "class Base { constructor(x, y) {} }"}
		child := &class{source: "class Child extends Base {}", parent: base}

		got, err := signature.ParseDependencies(child)
		require.NoError(t, err)
		assert.Equal(t, []string{"x", "y"}, signature.Names(got))
	})

	t.Run("walks several levels", func(t *testing.T) {
		root := &class{source: "class Root { constructor(db) {} }"}
		mid := &class{source: "class Mid extends Root {}", parent: root}
		leaf := &class{source: "class Leaf extends Mid { run() {} }", parent: mid}

		got, err := signature.ParseDependencies(leaf)
		require.NoError(t, err)
		assert.Equal(t, []string{"db"}, signature.Names(got))
	})

	t.Run("own constructor wins over parent", func(t *testing.T) {
		base := &class{source: "class Base { constructor(x) {} }"}
		child := &class{source: "class Child extends Base { constructor(z) {} }", parent: base}

		got, err := signature.ParseDependencies(child)
		require.NoError(t, err)
		assert.Equal(t, []string{"z"}, signature.Names(got))
	})

	t.Run("no constructor and no parent is empty", func(t *testing.T) {
		got, err := signature.ParseDependencies(&class{source: "class Lonely {}"})
		require.NoError(t, err)
		assert.NotNil(t, got)
		assert.Empty(t, got)
	})

	t.Run("plain text without constructor is empty", func(t *testing.T) {
		got, err := signature.ParseDependencies(signature.Text("class Lonely {}"))
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("syntax error surfaces", func(t *testing.T) {
		_, err := signature.ParseDependencies(signature.Text("(a, b"))
		require.Error(t, err)
	})
}

func TestIsClass(t *testing.T) {
	tests := []struct {
		source string
		want   bool
	}{
		{"class Repo {}", true},
		{"function Repo(db) {}", true},
		{"function repo(db) {}", false},
		{"function (db) {}", false},
		{"(db) => db", false},
		{"db => db", false},
		{"", false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, signature.IsClass(tt.source), tt.source)
	}
}
