package analyzer

import (
	"testing"

	"github.com/acaciamc/acacia/pkg/ast"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// A call to a compile-time function with a const parameter analyzes and has
// the declared result type: def double(const n: Int) -> Int: result n * 2
func TestAnalyzeFuncDefAndCompileTimeCall(t *testing.T) {
	a, _ := newAnalyzer()

	def := &ast.FuncDef{
		Name:   "double",
		Flavor: ast.FlavorCompileTime,
		Params: []ast.Param{
			{Name: "n", Port: ast.PortConst, TypeExpr: &ast.NamedTypeExpr{Name: "Int"}},
		},
		ResultType: &ast.NamedTypeExpr{Name: "Int"},
		Body: []ast.Stmt{
			&ast.ResultStmt{
				Value: &ast.BinaryExpr{
					Op:    ast.OpMul,
					Left:  &ast.NameExpr{Name: "n"},
					Right: &ast.IntLit{Value: 2},
				},
			},
		},
	}

	_, err := a.analyzeStmt(def)
	require.Nil(t, err)

	call := &ast.CallExpr{
		Callee: &ast.NameExpr{Name: "double"},
		Args:   []ast.Arg{{Value: &ast.IntLit{Value: 21}}},
	}

	typed, _, cerr := a.analyzeExpr(call)
	require.Nil(t, cerr)
	assert.Equal(t, "Int", typed.Type.String())
}

// Calling an undeclared name is uncallable/not-defined, not a panic.
func TestAnalyzeCallUndefinedName(t *testing.T) {
	a, _ := newAnalyzer()

	call := &ast.CallExpr{Callee: &ast.NameExpr{Name: "missing"}}

	_, _, err := a.analyzeExpr(call)
	require.NotNil(t, err)
}

// A struct literal with every declared field present evaluates to a
// compile-time struct value; attribute access reads the field back.
func TestAnalyzeStructDefAndLiteral(t *testing.T) {
	a, _ := newAnalyzer()

	def := &ast.StructDef{
		Name: "Point",
		Fields: []ast.StructFieldDecl{
			{Name: "x", TypeExpr: &ast.NamedTypeExpr{Name: "Int"}},
			{Name: "y", TypeExpr: &ast.NamedTypeExpr{Name: "Int"}},
		},
	}

	_, err := a.analyzeStmt(def)
	require.Nil(t, err)

	lit := &ast.StructLiteralExpr{
		TypeName: "Point",
		Fields: []ast.StructFieldInit{
			{Name: "x", Value: &ast.IntLit{Value: 1}},
			{Name: "y", Value: &ast.IntLit{Value: 2}},
		},
	}

	typed, _, lerr := a.analyzeExpr(lit)
	require.Nil(t, lerr)
	assert.True(t, typed.IsConst())

	attr := &ast.AttributeExpr{Object: lit, Name: "y"}
	fieldTyped, _, aerr := a.analyzeExpr(attr)
	require.Nil(t, aerr)
	assert.EqualValues(t, 2, fieldTyped.Value.Int)
}

// A struct literal missing a declared field is rejected.
func TestAnalyzeStructLiteralMissingField(t *testing.T) {
	a, _ := newAnalyzer()

	def := &ast.StructDef{
		Name: "Point",
		Fields: []ast.StructFieldDecl{
			{Name: "x", TypeExpr: &ast.NamedTypeExpr{Name: "Int"}},
			{Name: "y", TypeExpr: &ast.NamedTypeExpr{Name: "Int"}},
		},
	}

	_, err := a.analyzeStmt(def)
	require.Nil(t, err)

	lit := &ast.StructLiteralExpr{
		TypeName: "Point",
		Fields:   []ast.StructFieldInit{{Name: "x", Value: &ast.IntLit{Value: 1}}},
	}

	_, _, lerr := a.analyzeExpr(lit)
	require.NotNil(t, lerr)
}

// `import mod` binds `mod` as a resolvable name (spec.md §4.7), so a
// duplicate import in the same scope is a shadowedname error.
func TestAnalyzeImportBindsNameOnce(t *testing.T) {
	a, _ := newAnalyzer()

	imp := &ast.ImportStmt{Path: "foo.bar"}

	_, err := a.analyzeStmt(imp)
	require.Nil(t, err)

	_, err = a.analyzeStmt(imp)
	require.NotNil(t, err)
}
