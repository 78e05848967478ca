package loader

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/acaciamc/acacia/pkg/ast"
	"github.com/acaciamc/acacia/pkg/diag"
	"github.com/acaciamc/acacia/pkg/util/source"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubBuiltin struct{ name string }

func (s stubBuiltin) Name() string      { return s.name }
func (s stubBuiltin) Members() []string { return []string{"play"} }

func noopParse(file *source.File) (*ast.Program, *diag.Error) {
	return &ast.Program{}, nil
}

func TestLoadBuiltinModule(t *testing.T) {
	l := New(t.TempDir(), noopParse)
	l.RegisterBuiltin(stubBuiltin{"music"})

	unit, err := l.Load("music")
	require.Nil(t, err)
	assert.NotNil(t, unit.Builtin)
	assert.Nil(t, unit.Program)
}

func TestLoadSourceUnitIsCached(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "helpers.aca"), []byte("pass\n"), 0644))

	l := New(dir, noopParse)

	u1, err := l.Load("helpers")
	require.Nil(t, err)
	u2, err := l.Load("helpers")
	require.Nil(t, err)
	assert.Same(t, u1, u2)
}

func TestLoadModuleNotFound(t *testing.T) {
	l := New(t.TempDir(), noopParse)
	_, err := l.Load("does.not.exist")
	require.NotNil(t, err)
	assert.Equal(t, diag.ModuleNotFound, err.Kind)
}

func TestLoadDetectsCircularImport(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.aca"), []byte("pass\n"), 0644))

	l := New(dir, noopParse)
	l.states[mustAbs(t, dir, "a.aca")] = inProgress

	_, err := l.Load("a")
	require.NotNil(t, err)
	assert.Equal(t, diag.CircularParse, err.Kind)
}

// Load joins each unit's top-level statements into the loader's combined
// cross-file map, so a statement from an imported module can be rendered
// through Loader.Maps() without the caller tracking which file it came from.
func TestLoadJoinsUnitIntoCombinedMaps(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "helpers.aca"), []byte("pass\n"), 0644))

	stmt := &ast.PassStmt{}
	stmt.SetSpan(source.NewSpan(0, 4))

	parseOne := func(file *source.File) (*ast.Program, *diag.Error) {
		return &ast.Program{Statements: []ast.Stmt{stmt}}, nil
	}

	l := New(dir, parseOne)

	_, err := l.Load("helpers")
	require.Nil(t, err)

	assert.True(t, l.Maps().Has(stmt))
}

func mustAbs(t *testing.T, dir, name string) string {
	t.Helper()
	abs, err := filepath.Abs(filepath.Join(dir, name))
	require.NoError(t, err)
	return abs
}
