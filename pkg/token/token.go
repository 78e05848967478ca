// Package token defines the lexical tokens produced by the Acacia tokenizer
// (spec.md §4.1) and consumed by the parser (spec.md §4.2).
package token

import "github.com/acaciamc/acacia/pkg/util/source"

// Kind identifies the variant of a Token, per spec.md §3 ("Token. Variant:
// identifier, integer literal, float literal, string literal ..., raw
// command literal ..., indent/dedent/newline").
type Kind uint

const (
	// EOF marks the end of the token stream.
	EOF Kind = iota
	// INDENT is synthesized when a line's indentation increases.
	INDENT
	// DEDENT is synthesized when a line's indentation decreases.
	DEDENT
	// NEWLINE separates logical lines outside of bracket-nesting mode.
	NEWLINE
	// IDENT is an identifier.
	IDENT
	// KEYWORD is a reserved word (see Keywords below).
	KEYWORD
	// INT is an integer literal (decimal, 0x, or 0b).
	INT
	// FLOAT is a floating-point literal.
	FLOAT
	// STRING is a double-quoted string literal, stored as a segment list.
	STRING
	// RAWCOMMAND is a raw Minecraft command line or block, stored as a
	// segment list.
	RAWCOMMAND
	// OP is an operator or punctuation token (its exact text is stored in
	// Token.Text).
	OP
)

// Keywords is the set of reserved identifiers recognized by the tokenizer.
// An identifier matching one of these is retagged from IDENT to KEYWORD.
var Keywords = map[string]bool{
	"if": true, "elif": true, "else": true, "while": true, "for": true,
	"in": true, "def": true, "entity": true, "struct": true, "interface": true,
	"import": true, "pass": true, "result": true, "new": true, "const": true,
	"var": true, "ref": true, "and": true, "or": true, "not": true,
	"static": true, "virtual": true, "override": true, "inline": true,
	"extern": true, "none": true, "true": true, "false": true, "at": true,
}

// StringSegmentKind distinguishes the pieces of a string or raw-command
// literal (spec.md §3: "a sequence of segments: plain text, formatted hole,
// font escape").
type StringSegmentKind uint

const (
	// SegmentText is plain literal text.
	SegmentText StringSegmentKind = iota
	// SegmentHole is a `{expr}` formatted-expression hole.
	SegmentHole
	// SegmentFont is a `\f{spec}` font escape.
	SegmentFont
	// SegmentInterp is a `${name}` raw-command interpolation.
	SegmentInterp
)

// Segment is one piece of a string or raw-command literal.
type Segment struct {
	Seg StringSegmentKind
	// Text holds the literal text for SegmentText, or the unparsed source
	// text of the hole/escape/interpolation (to be reparsed by the parser
	// as a nested expression or identifier).
	Text string
	// Span locates this segment within the overall source file.
	Span source.Span
}

// Token is a single lexical token with its classifying Kind, its source
// span, and kind-specific payload fields.
type Token struct {
	Kind Kind
	Span source.Span
	// Text is the raw text of the token (identifier name, keyword text,
	// operator symbol, or the literal digits of a number).
	Text string
	// Segments is populated only for STRING and RAWCOMMAND tokens.
	Segments []Segment
	// IntValue is populated only for INT tokens, after overflow checking.
	IntValue int32
	// FloatValue is populated only for FLOAT tokens.
	FloatValue float64
}

// String renders a token for debug logging and parser error messages.
func (t Token) String() string {
	switch t.Kind {
	case EOF:
		return "<eof>"
	case INDENT:
		return "<indent>"
	case DEDENT:
		return "<dedent>"
	case NEWLINE:
		return "<newline>"
	default:
		return t.Text
	}
}

// IsOp checks whether this token is the operator/punctuation with the given
// text, e.g. `tok.IsOp(":")`.
func (t Token) IsOp(text string) bool {
	return t.Kind == OP && t.Text == text
}

// IsKeyword checks whether this token is the keyword with the given text.
func (t Token) IsKeyword(text string) bool {
	return t.Kind == KEYWORD && t.Text == text
}
