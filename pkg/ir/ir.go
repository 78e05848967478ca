// Package ir defines Acacia's intermediate operations: the tagged sequence
// the analyzer lowers runtime expressions and statements into, which the
// emitter then consumes to produce command text (spec.md §3 "Intermediate
// operation (IR instruction)").
//
// Grounded on the teacher's pkg/air.Term family (one small struct per
// operation variant implementing a shared marker interface, e.g. Add / Sub
// / Mul / Constant / ColumnAccess in pkg/air/term.go), generalized from
// field-arithmetic AIR terms to Acacia's scoreboard/tag/command operations.
package ir

// Operand is a reference an instruction's operands resolve against at
// emission time: either a compile-time-known literal, or a name the
// emitter has (or will) allocate storage for (spec.md §4.7: "allocates
// fresh scoreboard names ... operand references that resolve to allocated
// scoreboard names or selectors at emission").
type Operand struct {
	// Literal holds an already-known integer value; Name is empty in this
	// case.
	Literal   int32
	IsLiteral bool
	// Name is a scoreboard-backed slot name, populated for non-literal
	// operands.
	Name string
	// Selector is a raw `@e[...]`-style selector fragment, used by
	// operands which reference an entity or entity group rather than a
	// scalar.
	Selector string
}

// LiteralOperand constructs a compile-time-known integer operand.
func LiteralOperand(v int32) Operand { return Operand{Literal: v, IsLiteral: true} }

// SlotOperand constructs an operand referencing an allocated scoreboard
// slot.
func SlotOperand(name string) Operand { return Operand{Name: name} }

// SelectorOperand constructs an operand referencing a raw selector
// fragment.
func SelectorOperand(sel string) Operand { return Operand{Selector: sel} }

// Instr is implemented by every intermediate operation.
type Instr interface {
	isInstr()
}

func (*AssignLiteral) isInstr()       {}
func (*ScoreboardOp) isInstr()        {}
func (*TagAdd) isInstr()              {}
func (*TagRemove) isInstr()           {}
func (*ConditionalExecute) isInstr()  {}
func (*FunctionCall) isInstr()        {}
func (*RawCommandExpansion) isInstr() {}
func (*BuiltinCommand) isInstr()      {}
func (*Summon) isInstr()              {}

// AssignLiteral stores a known-at-compile-time integer into a scoreboard
// slot: `scoreboard players set <slot> <objective> <value>` (spec.md §8 S1:
// "Emitted init file contains `scoreboard players set <alloc(x)> acacia
// 3889`").
type AssignLiteral struct {
	Slot  string
	Value int32
}

// ScoreboardKind enumerates the scoreboard arithmetic/assignment operations
// (spec.md §3 "scoreboard-op (add/sub/mul/div/mod/assign)").
type ScoreboardKind string

// Recognized scoreboard operation kinds.
const (
	ScoreAssign ScoreboardKind = "="
	ScoreAdd    ScoreboardKind = "+="
	ScoreSub    ScoreboardKind = "-="
	ScoreMul    ScoreboardKind = "*="
	ScoreDiv    ScoreboardKind = "/="
	ScoreMod    ScoreboardKind = "%="
)

// ScoreboardOp is a runtime arithmetic or assignment between two scoreboard
// operands: `scoreboard players operation <dst> <objective> OP <src>
// <objective>`.
type ScoreboardOp struct {
	Dst string
	Op  ScoreboardKind
	Src Operand
}

// TagAdd emits `tag <selector> add <name>`, used both for boolean-class
// attribute storage and for virtual-dispatch marker tags (spec.md §4.5 step
// 5).
type TagAdd struct {
	Selector string
	Name     string
}

// TagRemove emits `tag <selector> remove <name>`.
type TagRemove struct {
	Selector string
	Name     string
}

// ConditionalExecute guards a nested instruction sequence on a scoreboard
// comparison, corresponding to an `if`/`while` condition lowered to runtime
// code (spec.md §4.7: "Conditional execution ... becomes `execute if score
// ... matches 1 run function ...` ... or inlines the body").  The emitter
// decides inline-vs-function based on the configured --max-inline
// threshold; Body is populated either way so that decision can be made
// purely in the emitter.
type ConditionalExecute struct {
	// Cond is the scoreboard slot holding the boolean condition; the body
	// runs when it matches 1, or 0 when Negate is set.
	Cond    string
	Negate  bool
	Body    []Instr
	// FunctionName is neither set nor read by the emitter, which allocates
	// the helper function name itself when a body is not inlined.
	FunctionName string
}

// FunctionCall invokes a previously emitted interface or internal helper
// function by its emitted path: `function <path>`.
type FunctionCall struct {
	Path string
}

// RawCommandExpansion emits one already-interpolated raw command line
// (spec.md §8 invariant 6: "every raw-command line with a `${name}`
// interpolation emits exactly one line containing the textual value of the
// compile-time constant bound to name").
type RawCommandExpansion struct {
	Line string
}

// BuiltinKind enumerates the host builtin commands Acacia exposes directly
// (spec.md §4.7 "tp/setblock/fill/clone/etc").
type BuiltinKind string

// Recognized builtin command kinds.
const (
	BuiltinTP       BuiltinKind = "tp"
	BuiltinSetblock BuiltinKind = "setblock"
	BuiltinFill     BuiltinKind = "fill"
	BuiltinClone    BuiltinKind = "clone"
	BuiltinTellraw  BuiltinKind = "tellraw"
)

// BuiltinCommand is a structured call to one of Acacia's built-in commands,
// whose operands are resolved and formatted by the emitter according to
// Kind.
type BuiltinCommand struct {
	Kind     BuiltinKind
	Operands []Operand
	Extra    string // verbatim trailing text, e.g. a tellraw JSON payload
}

// Summon spawns one instance of an entity template: `summon <EntityType>
// <Pos> {Tags:["<Tag>"]}` (spec.md §4.5 step 5 "emit one command-tag per
// (template, method) at instance creation"). Tag is a freshly allocated,
// instance-unique marker so the instructions that follow (attribute-storage
// initialization, virtual-dispatch tag adds) can scope themselves to
// exactly the entity just created via `@e[tag=<Tag>]`.
type Summon struct {
	EntityType string
	// Pos is the raw position text to spawn at; the analyzer always passes
	// "~ ~ ~" and does not use a template's spawn-position expression.
	Pos string
	Tag string
}
