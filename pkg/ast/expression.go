package ast

import "github.com/acaciamc/acacia/pkg/util/source"

func (*IntLit) exprNode()            {}
func (*FloatLit) exprNode()          {}
func (*BoolLit) exprNode()           {}
func (*NoneLit) exprNode()           {}
func (*StringLit) exprNode()         {}
func (*NameExpr) exprNode()          {}
func (*UnaryExpr) exprNode()         {}
func (*BinaryExpr) exprNode()        {}
func (*CompareChain) exprNode()      {}
func (*CallExpr) exprNode()          {}
func (*AttributeExpr) exprNode()     {}
func (*SubscriptExpr) exprNode()     {}
func (*ListExpr) exprNode()          {}
func (*MapExpr) exprNode()           {}
func (*StructLiteralExpr) exprNode() {}
func (*SelectorExpr) exprNode()      {}
func (*NewExpr) exprNode()           {}

// IntLit is an integer literal, already range-checked to 32 bits by the
// tokenizer (spec.md §4.1).
type IntLit struct {
	baseNode
	Value int32
}

// FloatLit is a float literal (compile-time only type, spec.md §3).
type FloatLit struct {
	baseNode
	Value float64
}

// BoolLit is `true` or `false`.
type BoolLit struct {
	baseNode
	Value bool
}

// NoneLit is the `none` literal of the `None` type.
type NoneLit struct{ baseNode }

// StringSegment is one piece of a parsed string literal: plain text, a
// parsed formatted-expression hole, or a font escape (spec.md §3).
type StringSegment struct {
	Text     string // for plain-text segments
	Hole     Expr   // for formatted-hole segments (nil otherwise)
	FontSpec string // for font-escape segments ("" to close, else opens)
	IsHole   bool
	IsFont   bool
}

// StringLit is a double-quoted string literal, a sequence of segments
// (spec.md §3 "string literal").
type StringLit struct {
	baseNode
	Segments []StringSegment
}

// NameExpr references a name to be resolved through the lexical scope stack
// (spec.md §4.3).
type NameExpr struct {
	baseNode
	Name string
}

// UnaryOp enumerates the unary operators of spec.md §4.2 ("unary `+` `-`
// `not`").
type UnaryOp string

// Recognized unary operators.
const (
	UnaryPlus UnaryOp = "+"
	UnaryMinus UnaryOp = "-"
	UnaryNot  UnaryOp = "not"
)

// UnaryExpr is `op operand`.
type UnaryExpr struct {
	baseNode
	Op      UnaryOp
	Operand Expr
}

// BinaryOp enumerates the binary operators of spec.md §4.2's precedence
// table, excluding the comparison chain (modeled separately as
// CompareChain) and `and`/`or` (modeled as LogicalExpr below).
type BinaryOp string

// Recognized binary arithmetic operators.
const (
	OpAdd BinaryOp = "+"
	OpSub BinaryOp = "-"
	OpMul BinaryOp = "*"
	OpDiv BinaryOp = "/"
	OpMod BinaryOp = "%"
)

// BinaryExpr is `left op right` for the arithmetic operators.
type BinaryExpr struct {
	baseNode
	Op    BinaryOp
	Left  Expr
	Right Expr
}

func (*LogicalExpr) exprNode() {}

// LogicalOp distinguishes `and`/`or`.
type LogicalOp string

// Recognized logical operators.
const (
	LogicalAnd LogicalOp = "and"
	LogicalOr  LogicalOp = "or"
)

// LogicalExpr is `left and right` / `left or right`, kept distinct from
// BinaryExpr because these operators short-circuit at the world level
// differently (spec.md §4.2 precedence: "or"; "and"; ...).
type LogicalExpr struct {
	baseNode
	Op    LogicalOp
	Left  Expr
	Right Expr
}

// CompareOp enumerates the comparators of a comparison chain.
type CompareOp string

// Recognized comparators.
const (
	CmpEq CompareOp = "=="
	CmpNe CompareOp = "!="
	CmpLt CompareOp = "<"
	CmpLe CompareOp = "<="
	CmpGt CompareOp = ">"
	CmpGe CompareOp = ">="
)

// CompareChain represents `a OP1 b OP2 c ...`: N+1 operands and N
// comparators, as a single node for later short-circuit lowering (spec.md
// §4.2: "comparison chain ... carrying N+1 operands and N comparators").
type CompareChain struct {
	baseNode
	Operands   []Expr
	Comparators []CompareOp
}

// CallExpr is `callee(args...)`, where each argument may be a positional
// value or bound to a named parameter (`name=value`), per spec.md §4.4's
// parameter/default model.
type CallExpr struct {
	baseNode
	Callee Expr
	Args   []Arg
}

// Arg is one call argument, optionally named.
type Arg struct {
	Name  string // "" for positional
	Value Expr
}

// AttributeExpr is `obj.name`.
type AttributeExpr struct {
	baseNode
	Object Expr
	Name   string
}

// SubscriptExpr is `obj[index]`, used for list/map indexing and slicing
// (spec.md §4.6).
type SubscriptExpr struct {
	baseNode
	Object Expr
	Index  Expr
	// SliceEnd is non-nil when this is a slice `obj[index:end]`.
	SliceEnd Expr
}

// ListExpr is a `[e1, e2, ...]` list literal (compile-time only, spec.md
// §3).
type ListExpr struct {
	baseNode
	Elements []Expr
}

// MapEntry is one `key: value` pair of a map literal.
type MapEntry struct {
	Key   Expr
	Value Expr
}

// MapExpr is a `{k1: v1, k2: v2, ...}` map literal (compile-time only).
type MapExpr struct {
	baseNode
	Entries []MapEntry
}

// StructFieldInit is one `name=value` field initializer in a struct
// literal.
type StructFieldInit struct {
	Name  string
	Value Expr
}

// StructLiteralExpr constructs a struct instance: `StructName(f1=v1, ...)`.
type StructLiteralExpr struct {
	baseNode
	TypeName string
	Fields   []StructFieldInit
}

// SelectorExpr is the `|sel: obj|` selector literal of spec.md §4.3,
// parsing directly to a raw selector/objective score reference.
type SelectorExpr struct {
	baseNode
	Selector  string
	Objective string
}

// NewExpr is `new(args...)`, valid only inside a `new` method body (spec.md
// §4.3 "result and new").
type NewExpr struct {
	baseNode
	Args []Arg
}

// FormattedString re-exposes StringLit under the name used by spec.md's
// expression family list ("formatted-string"); kept as an alias rather than
// a duplicate type since a string literal's segments already carry its
// formatted holes.
type FormattedString = StringLit

// NewSpanFromNodes is a small helper for constructing the span of a
// compound expression from its first and last child spans.
func NewSpanFromNodes(first, last Node) source.Span {
	a, b := first.Span(), last.Span()
	return a.Merge(b)
}
