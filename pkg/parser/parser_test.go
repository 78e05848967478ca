package parser

import (
	"testing"

	"github.com/acaciamc/acacia/pkg/ast"
	"github.com/acaciamc/acacia/pkg/lexer"
	"github.com/acaciamc/acacia/pkg/util/source"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseSrc(t *testing.T, src string) *ast.Program {
	t.Helper()

	file := source.NewSourceFile("test.aca", []byte(src))

	tokens, err := lexer.Tokenize(file)
	require.Nil(t, err)

	prog, perr := New(file, tokens).ParseProgram()
	require.Nil(t, perr)

	return prog
}

func TestParseCompoundDecl(t *testing.T) {
	prog := parseSrc(t, "x := 1 + 2\n")
	require.Len(t, prog.Statements, 1)

	decl, ok := prog.Statements[0].(*ast.CompoundDeclStmt)
	require.True(t, ok)
	assert.Equal(t, "x", decl.Name)

	bin, ok := decl.Value.(*ast.BinaryExpr)
	require.True(t, ok)
	assert.Equal(t, ast.OpAdd, bin.Op)
}

func TestParseIfElifElse(t *testing.T) {
	src := "if a:\n    pass\nelif b:\n    pass\nelse:\n    pass\n"
	prog := parseSrc(t, src)
	require.Len(t, prog.Statements, 1)

	ifs, ok := prog.Statements[0].(*ast.IfStmt)
	require.True(t, ok)
	assert.Len(t, ifs.Elifs, 1)
	assert.True(t, ifs.HasElse)
}

func TestParseForIn(t *testing.T) {
	prog := parseSrc(t, "for c in [1, 2, 3]:\n    pass\n")
	require.Len(t, prog.Statements, 1)

	forin, ok := prog.Statements[0].(*ast.ForInStmt)
	require.True(t, ok)
	assert.Equal(t, "c", forin.Name)

	list, ok := forin.Iterable.(*ast.ListExpr)
	require.True(t, ok)
	assert.Len(t, list.Elements, 3)
}

func TestParseFuncDefWithPortsAndResult(t *testing.T) {
	src := "def add(ref a: Int, b: Int = 1) -> Int:\n    result a + b\n"
	prog := parseSrc(t, src)
	require.Len(t, prog.Statements, 1)

	fn, ok := prog.Statements[0].(*ast.FuncDef)
	require.True(t, ok)
	assert.Equal(t, "add", fn.Name)
	require.Len(t, fn.Params, 2)
	assert.Equal(t, ast.PortRef, fn.Params[0].Port)
	assert.NotNil(t, fn.Params[1].Default)
}

func TestParseEntityDefWithBasesAndMethod(t *testing.T) {
	src := "entity Zombie(Mob):\n    hp: Int = 20\n    virtual def attack():\n        pass\n"
	prog := parseSrc(t, src)
	require.Len(t, prog.Statements, 1)

	def, ok := prog.Statements[0].(*ast.EntityDef)
	require.True(t, ok)
	assert.Equal(t, "Zombie", def.Name)
	assert.Equal(t, []string{"Mob"}, def.Bases)
	require.Len(t, def.Fields, 1)
	require.Len(t, def.Methods, 1)
	assert.Equal(t, ast.QualifierVirtual, def.Methods[0].Qualifier)
}

func TestParseEntityDefWithTypeAndSpawnPos(t *testing.T) {
	src := "entity Zombie(Mob) \"minecraft:zombie\" at 0:\n    hp: Int = 20\n"
	prog := parseSrc(t, src)
	require.Len(t, prog.Statements, 1)

	def, ok := prog.Statements[0].(*ast.EntityDef)
	require.True(t, ok)
	assert.Equal(t, "minecraft:zombie", def.EntityType)
	require.NotNil(t, def.SpawnPos)

	lit, ok := def.SpawnPos.(*ast.IntLit)
	require.True(t, ok)
	assert.EqualValues(t, 0, lit.Value)
}

func TestParseRawCommandStmt(t *testing.T) {
	prog := parseSrc(t, "/say hello\n")
	require.Len(t, prog.Statements, 1)

	_, ok := prog.Statements[0].(*ast.RawCommandStmt)
	require.True(t, ok)
}
