package analyzer

import (
	"testing"

	"github.com/acaciamc/acacia/pkg/ast"
	"github.com/acaciamc/acacia/pkg/diag"
	"github.com/acaciamc/acacia/pkg/ir"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// An entity template with no `new` method is instantiated by spawning it
// directly: calling it by name lowers a Summon followed by its
// virtual-dispatch tag instructions.
func TestEntityInstantiateWithoutNewMethod(t *testing.T) {
	a, _ := newAnalyzer()

	def := &ast.EntityDef{Name: "Zombie", EntityType: "minecraft:zombie"}
	_, err := a.analyzeStmt(def)
	require.Nil(t, err)

	call := &ast.CallExpr{Callee: &ast.NameExpr{Name: "Zombie"}}
	typed, instrs, cerr := a.analyzeExpr(call)
	require.Nil(t, cerr)
	assert.Equal(t, "Zombie", typed.Type.String())

	require.Len(t, instrs, 2)

	summon, ok := instrs[0].(*ir.Summon)
	require.True(t, ok, "expected a Summon, got %T", instrs[0])
	assert.Equal(t, "minecraft:zombie", summon.EntityType)
	assert.Equal(t, "~ ~ ~", summon.Pos)

	_, ok = instrs[1].(*ir.TagAdd)
	require.True(t, ok, "expected a TagAdd, got %T", instrs[1])
}

// An entity template with a `new`-qualified method runs that method's body
// on instantiation; new(...) inside it lowers the actual Summon.
func TestEntityInstantiateRunsNewMethod(t *testing.T) {
	a, _ := newAnalyzer()

	newMethod := &ast.FuncDef{
		Name:      "new",
		Qualifier: ast.QualifierNew,
		Body: []ast.Stmt{
			&ast.ExprStmt{Value: &ast.NewExpr{}},
		},
	}

	def := &ast.EntityDef{Name: "Skeleton", EntityType: "minecraft:skeleton", Methods: []*ast.FuncDef{newMethod}}
	_, err := a.analyzeStmt(def)
	require.Nil(t, err)

	call := &ast.CallExpr{Callee: &ast.NameExpr{Name: "Skeleton"}}
	typed, instrs, cerr := a.analyzeExpr(call)
	require.Nil(t, cerr)
	assert.Equal(t, "Skeleton", typed.Type.String())

	foundSummon := false
	for _, instr := range instrs {
		if s, ok := instr.(*ir.Summon); ok {
			foundSummon = true
			assert.Equal(t, "minecraft:skeleton", s.EntityType)
		}
	}
	assert.True(t, foundSummon, "expected new(...) to lower a Summon instruction")
}

// new(...) outside of a new method body is rejected.
func TestNewOutsideNewMethodRejected(t *testing.T) {
	a, _ := newAnalyzer()

	_, _, err := a.analyzeExpr(&ast.NewExpr{})
	require.NotNil(t, err)
	assert.Equal(t, diag.NewOutOfScope, err.Kind)
}

// A method that shadows a virtual base method without the `override`
// qualifier is rejected (spec.md §4.5 step 3).
func TestEntityOverrideQualifierRequired(t *testing.T) {
	a, _ := newAnalyzer()

	base := &ast.EntityDef{
		Name:       "Base",
		EntityType: "minecraft:armor_stand",
		Methods: []*ast.FuncDef{
			{Name: "greet", Qualifier: ast.QualifierVirtual},
		},
	}
	_, err := a.analyzeStmt(base)
	require.Nil(t, err)

	derived := &ast.EntityDef{
		Name:  "Derived",
		Bases: []string{"Base"},
		Methods: []*ast.FuncDef{
			{Name: "greet", Qualifier: ast.QualifierNone},
		},
	}
	_, err = a.analyzeStmt(derived)
	require.NotNil(t, err)
	assert.Equal(t, diag.OverrideQualifier, err.Kind)
}

// Redeclaring the same virtual method with the override qualifier is
// accepted.
func TestEntityOverrideQualifierAccepted(t *testing.T) {
	a, _ := newAnalyzer()

	base := &ast.EntityDef{
		Name:       "Base",
		EntityType: "minecraft:armor_stand",
		Methods: []*ast.FuncDef{
			{Name: "greet", Qualifier: ast.QualifierVirtual},
		},
	}
	_, err := a.analyzeStmt(base)
	require.Nil(t, err)

	derived := &ast.EntityDef{
		Name:  "Derived",
		Bases: []string{"Base"},
		Methods: []*ast.FuncDef{
			{Name: "greet", Qualifier: ast.QualifierOverride},
		},
	}
	_, err = a.analyzeStmt(derived)
	require.Nil(t, err)
}
