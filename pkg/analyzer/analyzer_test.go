package analyzer

import (
	"testing"

	"github.com/acaciamc/acacia/pkg/ast"
	"github.com/acaciamc/acacia/pkg/diag"
	"github.com/acaciamc/acacia/pkg/emitter"
	"github.com/acaciamc/acacia/pkg/ir"
	"github.com/acaciamc/acacia/pkg/util/source"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAnalyzer() (*Analyzer, *emitter.Emitter) {
	file := source.NewSourceFile("test.aca", []byte(""))
	em := emitter.New(emitter.DefaultConfig())
	reg := NewRegistry(file)

	return New(file, em, reg), em
}

// S1: x = 0XF2e + 0b11 folds entirely to a single AssignLiteral; no runtime
// ScoreboardOp should be emitted.
func TestAnalyzeProgramConstantFoldingS1(t *testing.T) {
	a, _ := newAnalyzer()

	prog := &ast.Program{
		Statements: []ast.Stmt{
			&ast.CompoundDeclStmt{
				Name: "x",
				Value: &ast.BinaryExpr{
					Op:    ast.OpAdd,
					Left:  &ast.IntLit{Value: 0xf2e},
					Right: &ast.IntLit{Value: 0b11},
				},
			},
		},
	}

	instrs, err := a.AnalyzeProgram(prog)
	require.Nil(t, err)
	require.Len(t, instrs, 1)

	lit, ok := instrs[0].(*ir.AssignLiteral)
	require.True(t, ok, "expected a single AssignLiteral, got %T", instrs[0])
	assert.Equal(t, int32(3889), lit.Value)
}

// S5: const k = some_runtime_var fails with *notconstname*.
func TestAnalyzeProgramWorldViolationS5(t *testing.T) {
	a, _ := newAnalyzer()

	prog := &ast.Program{
		Statements: []ast.Stmt{
			&ast.VarDeclStmt{Name: "rt", Value: &ast.IntLit{Value: 1}},
		},
	}
	_, err := a.AnalyzeProgram(prog)
	require.Nil(t, err)

	// `rt` is now a runtime variable bound in the root frame; referencing
	// it from a const declaration must fail.
	constProg := &ast.Program{
		Statements: []ast.Stmt{
			&ast.ConstDeclStmt{Name: "k", Value: &ast.NameExpr{Name: "rt"}},
		},
	}
	_, err = a.AnalyzeProgram(constProg)
	require.NotNil(t, err)
	assert.Equal(t, diag.NotConstName, err.Kind)
}

func TestEndlessWhileLoopRejected(t *testing.T) {
	a, _ := newAnalyzer()

	prog := &ast.Program{
		Statements: []ast.Stmt{
			&ast.WhileStmt{Cond: &ast.BoolLit{Value: true}, Body: []ast.Stmt{&ast.PassStmt{}}},
		},
	}

	_, err := a.AnalyzeProgram(prog)
	require.NotNil(t, err)
	assert.Equal(t, diag.EndlessWhileLoop, err.Kind)
}

func TestShadowedNameRejected(t *testing.T) {
	a, _ := newAnalyzer()

	prog := &ast.Program{
		Statements: []ast.Stmt{
			&ast.CompoundDeclStmt{Name: "x", Value: &ast.IntLit{Value: 1}},
			&ast.CompoundDeclStmt{Name: "x", Value: &ast.IntLit{Value: 2}},
		},
	}

	_, err := a.AnalyzeProgram(prog)
	require.NotNil(t, err)
	assert.Equal(t, diag.ShadowedName, err.Kind)
}

// S3: a compile-time list literal of 7 elements iterated by a for loop
// expands to exactly 7 analyzer passes of the body.
func TestForInUnrollsOverCompileTimeList(t *testing.T) {
	a, _ := newAnalyzer()

	elements := make([]ast.Expr, 7)
	for i := range elements {
		elements[i] = &ast.IntLit{Value: int32(i)}
	}

	prog := &ast.Program{
		Statements: []ast.Stmt{
			&ast.ForInStmt{
				Name:     "c",
				Iterable: &ast.ListExpr{Elements: elements},
				Body: []ast.Stmt{
					&ast.RawCommandStmt{Segments: []ast.StringSegment{{Text: "say hi"}}},
				},
			},
		},
	}

	instrs, err := a.AnalyzeProgram(prog)
	require.Nil(t, err)
	assert.Len(t, instrs, 7)
}

func TestResultOutsideFunctionRejected(t *testing.T) {
	a, _ := newAnalyzer()

	prog := &ast.Program{
		Statements: []ast.Stmt{
			&ast.ResultStmt{Value: &ast.IntLit{Value: 1}},
		},
	}

	_, err := a.AnalyzeProgram(prog)
	require.NotNil(t, err)
	assert.Equal(t, diag.ResultOutOfScope, err.Kind)
}
