// Package emitter consumes the analyzer's intermediate operations and
// produces the command-text tree of an Acacia compilation: the main file,
// the init file, one file per declared interface, and internal helper
// files (spec.md §4.7 "Emitter").
//
// Grounded on the teacher's pkg/air/schema.go (a schema assembled from
// discrete, independently-allocated columns) for the allocate-then-emit
// shape, and pkg/cmd/util.go's file-writing helpers for the scoped,
// all-or-nothing output discipline required by spec.md §5.
package emitter

import (
	"fmt"
	"strings"

	"github.com/acaciamc/acacia/pkg/ir"
	"github.com/acaciamc/acacia/pkg/util"
)

// Config carries the emission-affecting CLI options of spec.md §6.
type Config struct {
	Scoreboard      string
	FunctionFolder  string
	MainFile        string
	InitFile        string
	InternalFolder  string
	EntityTagPrefix string
	DebugComments   bool
	MaxInline       uint
}

// DefaultConfig mirrors spec.md §6's CLI defaults.
func DefaultConfig() Config {
	return Config{
		Scoreboard:      "acacia",
		FunctionFolder:  "functions",
		MainFile:        "main",
		InitFile:        "init",
		InternalFolder:  "__internal__",
		EntityTagPrefix: "aca",
		MaxInline:       20,
	}
}

// File is one emitted path under the output root paired with its ordered
// command lines (spec.md §3 "Emitted file").
type File struct {
	Path  string
	Lines []string
}

// Emitter allocates scoreboard slots and tag names and accumulates emitted
// files in memory; it writes nothing to disk itself, and the caller writes
// Files() out only after compilation has succeeded (spec.md §5).
type Emitter struct {
	cfg        Config
	files      map[string]*File
	order      []string
	init       *File
	slotCount  int
	tagCount   int
	funcCount  int
	reserved   map[string]bool
}

// New constructs an Emitter for the given configuration.  The main and init
// file names are reserved so a user `interface` statement cannot collide
// with them (spec.md §4.7 "reservedinterfacepath").
func New(cfg Config) *Emitter {
	e := &Emitter{
		cfg:      cfg,
		files:    make(map[string]*File),
		reserved: make(map[string]bool),
	}
	e.reserved[cfg.MainFile] = true
	e.reserved[cfg.InitFile] = true
	e.init = e.fileFor(cfg.InitFile)

	return e
}

// AllocSlot returns a fresh scoreboard player name: a stable prefix plus a
// monotonic counter (spec.md §4.7 "allocates fresh scoreboard names (stable
// prefix plus monotonic counter)").
func (e *Emitter) AllocSlot() string {
	e.slotCount++
	return fmt.Sprintf("$acacia%d", e.slotCount)
}

// AllocTag returns a fresh command-tag name, used for boolean-class
// attribute storage and virtual-dispatch markers (spec.md §4.5 steps 4-5).
func (e *Emitter) AllocTag() string {
	e.tagCount++

	prefix := util.None[string]()
	if e.cfg.EntityTagPrefix != "" {
		prefix = util.Some(e.cfg.EntityTagPrefix)
	}

	return fmt.Sprintf("%s_tag%d", prefix.UnwrapOr("aca"), e.tagCount)
}

// AllocFunctionName returns a fresh internal helper function name, used for
// conditional-execute bodies that exceed the inline threshold.
func (e *Emitter) AllocFunctionName() string {
	e.funcCount++
	return fmt.Sprintf("%s/f%d", e.cfg.InternalFolder, e.funcCount)
}

// IsReservedPath reports whether path collides with the main or init file.
func (e *Emitter) IsReservedPath(path string) bool {
	return e.reserved[path]
}

// DeclareInterface registers path as belonging to a user `interface`
// statement, returning false if it duplicates a prior interface
// declaration (spec.md §4.7 "duplicate-interface").
func (e *Emitter) DeclareInterface(path string) bool {
	if _, exists := e.files[path]; exists {
		return false
	}

	e.fileFor(path)

	return true
}

func (e *Emitter) fileFor(path string) *File {
	if f, ok := e.files[path]; ok {
		return f
	}

	f := &File{Path: path}
	e.files[path] = f
	e.order = append(e.order, path)

	return f
}

// EmitInit appends a line to the separate initialization file (spec.md
// §4.7: "A scoreboard objective declaration and all literal-constant
// initializers into the init file").
func (e *Emitter) EmitInit(line string) {
	e.init.Lines = append(e.init.Lines, line)
}

// DeclareObjective emits the dummy-criterion scoreboard objective
// declaration (spec.md §6: "The scoreboard objective named by --scoreboard
// is declared of dummy criterion in the init file").
func (e *Emitter) DeclareObjective() {
	e.EmitInit(fmt.Sprintf("scoreboard objectives add %s dummy", e.cfg.Scoreboard))
}

// EmitLines appends the given lines to path's file (creating it if
// needed). Lines are appended as given; the DebugComments setting is not
// consulted.
func (e *Emitter) EmitLines(path string, lines ...string) {
	f := e.fileFor(path)
	f.Lines = append(f.Lines, lines...)
}

// Lower renders one instruction to its canonical command line(s), given the
// path it is being emitted into; ConditionalExecute instructions may
// recursively emit a helper function file when their body exceeds
// MaxInline (spec.md §4.7).
func (e *Emitter) Lower(path string, instr ir.Instr) {
	switch v := instr.(type) {
	case *ir.AssignLiteral:
		e.EmitInit(fmt.Sprintf("scoreboard players set %s %s %d", v.Slot, e.cfg.Scoreboard, v.Value))
	case *ir.ScoreboardOp:
		e.EmitLines(path, e.scoreboardOpLine(v))
	case *ir.TagAdd:
		e.EmitLines(path, fmt.Sprintf("tag %s add %s", v.Selector, v.Name))
	case *ir.TagRemove:
		e.EmitLines(path, fmt.Sprintf("tag %s remove %s", v.Selector, v.Name))
	case *ir.FunctionCall:
		e.EmitLines(path, fmt.Sprintf("function %s", v.Path))
	case *ir.RawCommandExpansion:
		e.EmitLines(path, v.Line)
	case *ir.BuiltinCommand:
		e.EmitLines(path, e.builtinLine(v))
	case *ir.Summon:
		e.EmitLines(path, fmt.Sprintf("summon %s %s {Tags:[%q]}", v.EntityType, v.Pos, v.Tag))
	case *ir.ConditionalExecute:
		e.lowerConditional(path, v)
	default:
		panic(fmt.Sprintf("emitter: unhandled instruction %T", instr))
	}
}

func (e *Emitter) scoreboardOpLine(v *ir.ScoreboardOp) string {
	if v.Op == ir.ScoreAssign && v.Src.IsLiteral {
		return fmt.Sprintf("scoreboard players set %s %s %d", v.Dst, e.cfg.Scoreboard, v.Src.Literal)
	}

	op := map[ir.ScoreboardKind]string{
		ir.ScoreAssign: "=",
		ir.ScoreAdd:    "+=",
		ir.ScoreSub:    "-=",
		ir.ScoreMul:    "*=",
		ir.ScoreDiv:    "/=",
		ir.ScoreMod:    "%=",
	}[v.Op]

	return fmt.Sprintf("scoreboard players operation %s %s %s %s %s",
		v.Dst, e.cfg.Scoreboard, op, v.Src.Name, e.cfg.Scoreboard)
}

func (e *Emitter) builtinLine(v *ir.BuiltinCommand) string {
	parts := []string{string(v.Kind)}
	for _, op := range v.Operands {
		parts = append(parts, operandText(op))
	}

	if v.Extra != "" {
		parts = append(parts, v.Extra)
	}

	return strings.Join(parts, " ")
}

func operandText(op ir.Operand) string {
	switch {
	case op.IsLiteral:
		return fmt.Sprintf("%d", op.Literal)
	case op.Selector != "":
		return op.Selector
	default:
		return op.Name
	}
}

// lowerConditional implements spec.md §4.7's inline-vs-function decision:
// a body of at most cfg.MaxInline lines is inlined inside an `execute`
// chain; a larger body is sunk into a freshly allocated helper function and
// invoked with `run function`.
func (e *Emitter) lowerConditional(path string, v *ir.ConditionalExecute) {
	bodyLines := e.renderBody(v.Body)
	cmp := "matches 1"

	if v.Negate {
		cmp = "matches 0"
	}

	prefix := fmt.Sprintf("execute if score %s %s %s run ", v.Cond, e.cfg.Scoreboard, cmp)

	if uint(len(bodyLines)) <= e.cfg.MaxInline {
		for _, line := range bodyLines {
			e.EmitLines(path, prefix+line)
		}

		return
	}

	fn := e.AllocFunctionName()
	e.EmitLines(fn, bodyLines...)
	e.EmitLines(path, prefix+fmt.Sprintf("function %s", fn))
}

// renderBody lowers a nested instruction sequence into plain command lines
// without attaching them to any file, for use inside an inline execute
// chain or a freshly allocated helper function.
func (e *Emitter) renderBody(body []ir.Instr) []string {
	scratch := "__scratch__"
	before := len(e.fileFor(scratch).Lines)

	for _, instr := range body {
		e.Lower(scratch, instr)
	}

	lines := append([]string(nil), e.files[scratch].Lines[before:]...)
	e.files[scratch].Lines = e.files[scratch].Lines[:before]

	return lines
}

// Files returns every emitted file in declaration order, including the
// init file first.
func (e *Emitter) Files() []*File {
	out := make([]*File, 0, len(e.order))
	for _, path := range e.order {
		if path == "__scratch__" {
			continue
		}

		out = append(out, e.files[path])
	}

	return out
}

// MainFilePath returns the configured main file's emitted path.
func (e *Emitter) MainFilePath() string { return e.cfg.MainFile }

// InitFilePath returns the configured init file's emitted path.
func (e *Emitter) InitFilePath() string { return e.cfg.InitFile }
