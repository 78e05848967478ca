package emitter

import (
	"testing"

	"github.com/acaciamc/acacia/pkg/ir"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConstantFoldingEmitsInitOnly(t *testing.T) {
	// S1: x = 0XF2e + 0b11 folds entirely at compile time.
	e := New(DefaultConfig())
	e.DeclareObjective()
	e.EmitInit("scoreboard players set $acacia1 acacia 3889")

	var initLines []string
	for _, f := range e.Files() {
		if f.Path == e.InitFilePath() {
			initLines = f.Lines
		}
	}

	require.Len(t, initLines, 2)
	assert.Equal(t, "scoreboard objectives add acacia dummy", initLines[0])
	assert.Equal(t, "scoreboard players set $acacia1 acacia 3889", initLines[1])
}

func TestConditionalInlinesSmallBody(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxInline = 20
	e := New(cfg)

	e.Lower("main", &ir.ConditionalExecute{
		Cond: "cond",
		Body: []ir.Instr{&ir.TagAdd{Selector: "@s", Name: "hit"}},
	})

	var mainLines []string
	for _, f := range e.Files() {
		if f.Path == "main" {
			mainLines = f.Lines
		}
	}

	require.Len(t, mainLines, 1)
	assert.Equal(t, "execute if score cond acacia matches 1 run tag @s add hit", mainLines[0])
}

func TestConditionalSinksLargeBodyToFunction(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxInline = 1
	e := New(cfg)

	e.Lower("main", &ir.ConditionalExecute{
		Cond: "cond",
		Body: []ir.Instr{
			&ir.TagAdd{Selector: "@s", Name: "a"},
			&ir.TagAdd{Selector: "@s", Name: "b"},
		},
	})

	var mainLines, fnLines []string
	for _, f := range e.Files() {
		switch f.Path {
		case "main":
			mainLines = f.Lines
		case "__internal__/f1":
			fnLines = f.Lines
		}
	}

	require.Len(t, mainLines, 1)
	assert.Contains(t, mainLines[0], "run function __internal__/f1")
	require.Len(t, fnLines, 2)
}

func TestDuplicateInterfaceRejected(t *testing.T) {
	e := New(DefaultConfig())
	assert.True(t, e.DeclareInterface("tools/reset"))
	assert.False(t, e.DeclareInterface("tools/reset"))
}

func TestReservedInterfacePath(t *testing.T) {
	e := New(DefaultConfig())
	assert.True(t, e.IsReservedPath("main"))
	assert.True(t, e.IsReservedPath("init"))
	assert.False(t, e.IsReservedPath("tools/reset"))
}

func TestSummonLowersToSummonCommand(t *testing.T) {
	e := New(DefaultConfig())

	e.Lower("main", &ir.Summon{EntityType: "minecraft:zombie", Pos: "~ ~ ~", Tag: "aca_tag1"})

	var mainLines []string
	for _, f := range e.Files() {
		if f.Path == "main" {
			mainLines = f.Lines
		}
	}

	require.Len(t, mainLines, 1)
	assert.Equal(t, `summon minecraft:zombie ~ ~ ~ {Tags:["aca_tag1"]}`, mainLines[0])
}

func TestAllocSlotsAreMonotonicAndDistinct(t *testing.T) {
	e := New(DefaultConfig())
	a := e.AllocSlot()
	b := e.AllocSlot()
	assert.NotEqual(t, a, b)
}
