// Package ast defines the typed abstract syntax tree produced by the parser
// (spec.md §4.2) from the Acacia token stream: expressions, statements,
// declarations, and raw-command templates (spec.md §3 "AST node families").
//
// Grounded on the teacher's pkg/corset/ast package split (expression.go /
// declaration.go / type.go / binding.go), generalized from constraint
// expressions over field elements to Acacia's dual-world (runtime /
// compile-time) expression and statement forms.
package ast

import "github.com/acaciamc/acacia/pkg/util/source"

// Node is implemented by every AST node; it exposes the node's source span
// for diagnostics (spec.md §3 "Source position").
type Node interface {
	Span() source.Span
}

// Expr is implemented by every expression node (spec.md §3 "Expressions").
type Expr interface {
	Node
	exprNode()
}

// Stmt is implemented by every statement and declaration node (spec.md §3
// "statements"; function/entity/struct/interface definitions are
// statement-level declarations).
type Stmt interface {
	Node
	stmtNode()
}

// baseNode centralizes span storage so each concrete node only needs to
// embed it rather than repeat a Span() method.
type baseNode struct {
	span source.Span
}

// Span returns this node's source span.
func (b baseNode) Span() source.Span { return b.span }

// SetSpan assigns this node's source span; used by the parser once a
// compound node's full extent (first token through last) is known.
func (b *baseNode) SetSpan(span source.Span) { b.span = span }

func newBase(span source.Span) baseNode { return baseNode{span} }

// Program is the root of a parsed source unit: a flat list of top-level
// statements (which includes function/entity/struct/interface/import
// declarations, since those are statement-level per spec.md §3).
type Program struct {
	Statements []Stmt
}
