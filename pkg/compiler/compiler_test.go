package compiler

import (
	"testing"

	"github.com/acaciamc/acacia/pkg/emitter"
	"github.com/acaciamc/acacia/pkg/util/source"
	"github.com/stretchr/testify/require"
)

// TestCompileConstantFoldingS1 exercises the full pipeline (lex, parse,
// analyze, emit) over S1's source form end to end, rather than at the
// analyzer-unit level: the objective declaration and the folded literal must
// land in the init file (spec.md §6), and the main file must invoke the init
// file before anything else (spec.md §4.7).
func TestCompileConstantFoldingS1(t *testing.T) {
	src := "x := 0XF2e + 0b11\n"
	file := source.NewSourceFile("main.aca", []byte(src))

	result, err := Compile(DefaultConfig(), file, t.TempDir())
	require.Nil(t, err)
	require.NotEmpty(t, result.Files)

	var initFile, mainFile *emitter.File

	for _, f := range result.Files {
		switch f.Path {
		case "init":
			initFile = f
		case "main":
			mainFile = f
		}
	}

	require.NotNil(t, initFile, "expected an init file")
	require.NotNil(t, mainFile, "expected a main file")

	require.Equal(t, []string{
		"scoreboard objectives add acacia dummy",
		"scoreboard players set $acacia1 acacia 3889",
	}, initFile.Lines)

	require.Equal(t, []string{"function init"}, mainFile.Lines)
}

func TestCompileSyntaxErrorSurfaces(t *testing.T) {
	src := "x := \n"
	file := source.NewSourceFile("main.aca", []byte(src))

	_, err := Compile(DefaultConfig(), file, t.TempDir())
	require.NotNil(t, err)
}
