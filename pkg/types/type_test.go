package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPrimitiveStorability(t *testing.T) {
	assert.True(t, Int.HasRuntimeForm())
	assert.True(t, Int.HasCompileTimeForm())
	assert.True(t, Bool.StorableAsEntityField())

	assert.False(t, Float.HasRuntimeForm())
	assert.True(t, Float.HasCompileTimeForm())
	assert.False(t, Float.StorableAsEntityField())
	assert.True(t, Float.StorableAsStructField())

	assert.False(t, Enfilter.HasRuntimeForm())
	assert.False(t, Enfilter.HasCompileTimeForm())
}

func TestEngroupIsRuntimeOnly(t *testing.T) {
	g := &Engroup{Elem: &Entity{TemplateName: "Zombie"}}
	assert.True(t, g.HasRuntimeForm())
	assert.False(t, g.HasCompileTimeForm())
	assert.Equal(t, "Engroup[Zombie]", g.String())
}

func TestStructStorabilityIsRecursive(t *testing.T) {
	ok := &Struct{
		TemplateName: "Point",
		Fields: []StructField{
			{Name: "x", Type: Int},
			{Name: "y", Type: Int},
		},
	}
	assert.True(t, ok.StorableAsEntityField())

	bad := &Struct{
		TemplateName: "Bag",
		Fields: []StructField{
			{Name: "items", Type: &List{Elem: Int}},
		},
	}
	assert.False(t, bad.StorableAsEntityField())
	assert.False(t, bad.StorableAsStructField())
}

func TestTypeEquality(t *testing.T) {
	a := &List{Elem: Int}
	b := &List{Elem: Int}
	c := &List{Elem: Bool}
	assert.True(t, a.Equals(b))
	assert.False(t, a.Equals(c))

	m1 := &Map{Key: String, Value: Int}
	m2 := &Map{Key: String, Value: Int}
	assert.True(t, m1.Equals(m2))

	f1 := &Func{Params: []Type{Int, Int}, Result: Int}
	f2 := &Func{Params: []Type{Int, Int}, Result: Int}
	f3 := &Func{Params: []Type{Int}, Result: Int}
	assert.True(t, f1.Equals(f2))
	assert.False(t, f1.Equals(f3))
}

func TestEntityAndStructIdentityByName(t *testing.T) {
	e1 := &Entity{TemplateName: "Zombie"}
	e2 := &Entity{TemplateName: "Zombie"}
	e3 := &Entity{TemplateName: "Skeleton"}
	assert.True(t, e1.Equals(e2))
	assert.False(t, e1.Equals(e3))
}
