package analyzer

import (
	"testing"

	"github.com/acaciamc/acacia/pkg/ast"
	"github.com/acaciamc/acacia/pkg/diag"
	"github.com/acaciamc/acacia/pkg/util/source"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func alwaysConst(ast.Expr) bool { return true }
func neverConst(ast.Expr) bool  { return false }

func TestCompileTimeFunctionRejectsRefParam(t *testing.T) {
	file := source.NewSourceFile("test.aca", []byte(""))
	def := &ast.FuncDef{
		Name:   "f",
		Flavor: ast.FlavorCompileTime,
		Params: []ast.Param{{Name: "x", Port: ast.PortRef}},
	}

	err := ValidateFuncDef(file, def, alwaysConst)
	require.NotNil(t, err)
	assert.Equal(t, diag.PortNotPermitted, err.Kind)
}

func TestNonDefaultAfterDefaultRejected(t *testing.T) {
	file := source.NewSourceFile("test.aca", []byte(""))
	lit := &ast.IntLit{Value: 1}
	def := &ast.FuncDef{
		Name:   "f",
		Flavor: ast.FlavorRuntime,
		Params: []ast.Param{
			{Name: "a", Port: ast.PortValue, Default: lit},
			{Name: "b", Port: ast.PortValue},
		},
	}

	err := ValidateFuncDef(file, def, alwaysConst)
	require.NotNil(t, err)
}

func TestNonConstDefaultRejected(t *testing.T) {
	file := source.NewSourceFile("test.aca", []byte(""))
	def := &ast.FuncDef{
		Name:   "f",
		Flavor: ast.FlavorRuntime,
		Params: []ast.Param{
			{Name: "a", Port: ast.PortValue, Default: &ast.NameExpr{Name: "rt"}},
		},
	}

	err := ValidateFuncDef(file, def, neverConst)
	require.NotNil(t, err)
	assert.Equal(t, diag.NonRefArgDefaultNotConst, err.Kind)
}

func TestValidateCallArgRefAndConst(t *testing.T) {
	file := source.NewSourceFile("test.aca", []byte(""))
	span := source.NewSpan(0, 1)

	err := ValidateCallArg(file, span, ast.PortRef, false, false)
	require.NotNil(t, err)
	assert.Equal(t, diag.CantRefArg, err.Kind)

	err = ValidateCallArg(file, span, ast.PortConst, true, false)
	require.NotNil(t, err)
	assert.Equal(t, diag.ArgNotConst, err.Kind)

	err = ValidateCallArg(file, span, ast.PortRef, true, false)
	assert.Nil(t, err)
}

func TestInlineRefResultMultipleResultsRejected(t *testing.T) {
	file := source.NewSourceFile("test.aca", []byte(""))
	def := &ast.FuncDef{
		Name:   "f",
		Flavor: ast.FlavorInline,
		Params: []ast.Param{{Name: "x", Port: ast.PortRef}},
		Body: []ast.Stmt{
			&ast.ResultStmt{},
			&ast.ResultStmt{},
		},
	}

	err := ValidateFuncDef(file, def, alwaysConst)
	require.NotNil(t, err)
	assert.Equal(t, diag.MultipleResults, err.Kind)
}
