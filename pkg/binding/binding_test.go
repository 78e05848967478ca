package binding

import (
	"testing"

	"github.com/acaciamc/acacia/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeclareAndShadow(t *testing.T) {
	root := NewRootFrame()
	ok := root.Declare("x", &Binding{Kind: KindRuntimeVar, Name: "x", Type: types.Int})
	require.True(t, ok)

	ok = root.Declare("x", &Binding{Kind: KindRuntimeVar, Name: "x", Type: types.Bool})
	assert.False(t, ok, "redeclaration in the same frame must fail")

	child := root.Push(true)
	ok = child.Declare("x", &Binding{Kind: KindConst, Name: "x", Type: types.Int})
	assert.True(t, ok, "shadowing an outer frame is permitted")

	b, found := child.Resolve("x")
	require.True(t, found)
	assert.Equal(t, KindConst, b.Kind)
}

func TestResolveWalksParents(t *testing.T) {
	root := NewRootFrame()
	root.Declare("outer", &Binding{Kind: KindConst, Name: "outer", Type: types.Int})
	child := root.Push(true)

	b, found := child.Resolve("outer")
	require.True(t, found)
	assert.Equal(t, "outer", b.Name)

	_, found = child.Resolve("nope")
	assert.False(t, found)
}

func TestCrossesWorldBoundary(t *testing.T) {
	root := NewRootFrame()
	root.Declare("rt", &Binding{Kind: KindRuntimeVar, Name: "rt", Type: types.Int})

	ctFrame := root.Push(false)
	assert.True(t, ctFrame.CrossesWorldBoundary("rt"))

	ctFrame.Declare("k", &Binding{Kind: KindConst, Name: "k", Type: types.Int})
	assert.False(t, ctFrame.CrossesWorldBoundary("k"))
}

func TestIsAssignable(t *testing.T) {
	rv := &Binding{Kind: KindRuntimeVar}
	ref := &Binding{Kind: KindReference}
	c := &Binding{Kind: KindConst}
	assert.True(t, rv.IsAssignable())
	assert.True(t, ref.IsAssignable())
	assert.False(t, c.IsAssignable())
}
