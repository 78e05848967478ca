// Package diag implements the Acacia diagnostic subsystem of spec.md §7: a
// closed set of error kinds, each reported as a source.SyntaxError carrying
// a primary span and zero or more trace notes.
package diag

import (
	"fmt"
	"strings"

	"github.com/acaciamc/acacia/pkg/util/source"
)

// Kind enumerates the error kinds of spec.md §7.  The representative names
// there are kept verbatim; this is the "full enumeration supplied in
// source" that §7 promises.
type Kind string

// Lexical error kinds (spec.md §4.1).
const (
	InvalidChar            Kind = "invalid-char"
	UnclosedQuote          Kind = "unclosed-quote"
	UnclosedLongComment    Kind = "unclosed-long-comment"
	InvalidDedent          Kind = "invalid-dedent"
	IntOverflow            Kind = "int-overflow"
	CharAfterContinuation  Kind = "char-after-continuation"
	EofAfterContinuation   Kind = "eof-after-continuation"
	UnmatchedBracketPair   Kind = "unmatched-bracket-pair"
	UnclosedBracket        Kind = "unclosed-bracket"
	InvalidUnicodeEscape   Kind = "invalid-unicode-escape"
	UnclosedHole           Kind = "unclosed-hole"
	UnclosedFont           Kind = "unclosed-font"
	UnclosedInterpolation  Kind = "unclosed-interpolation"
)

// Syntactic error kinds (spec.md §4.2).
const (
	UnexpectedToken   Kind = "unexpected-token"
	EmptyBlock        Kind = "empty-block"
	InvalidAssignTarget Kind = "invalid-assign-target"
	InvalidFexpr      Kind = "invalid-fexpr"
)

// Name / type error kinds (spec.md §7).
const (
	NameNotDefined  Kind = "name-not-defined"
	HasNoAttribute  Kind = "has-no-attribute"
	WrongAssignType Kind = "wrong-assign-type"
	WrongArgType    Kind = "wrong-arg-type"
	InvalidOperand  Kind = "invalid-operand"
	Uncallable      Kind = "uncallable"
	NotIterable     Kind = "not-iterable"
	NoGetitem       Kind = "no-getitem"
	ShadowedName    Kind = "shadowedname"
	WrongIfCondition    Kind = "wrongifcondition"
	WrongWhileCondition Kind = "wrongwhilecondition"
	EndlessWhileLoop    Kind = "endlesswhileloop"
	ResultOutOfScope    Kind = "resultoutofscope"
	NewOutOfScope       Kind = "newoutofscope"
)

// World-coherence error kinds (spec.md §4.3, §7).
const (
	NotConstName Kind = "notconstname"
	NotConstAttr Kind = "notconstattr"
	ArgNotConst  Kind = "argnotconst"
	NonRtResult  Kind = "nonrtresult"
	NonRtName    Kind = "nonrt-name"
	CantRef      Kind = "cantref"
	CantRefArg   Kind = "cantrefarg"
	NonRefArgDefaultNotConst Kind = "nonrefargdefaultnotconst"
	ArgDefaultNotConst       Kind = "argdefaultnotconst"
	MultipleResults          Kind = "multipleresults"
	PortNotPermitted         Kind = "portnotpermitted"
)

// Entity-template semantics error kinds (spec.md §4.5, §7).
const (
	MRO                   Kind = "mro"
	EFieldMultipleDefs     Kind = "efieldmultipledefs"
	MethodAttrConflict     Kind = "methodattrconflict"
	MultipleNewMethods     Kind = "multiplenewmethods"
	MultipleVirtualMethod  Kind = "multiplevirtualmethod"
	OverrideResultMismatch Kind = "overrideresultmismatch"
	OverrideQualifier      Kind = "overridequalifier"
	NotOverriding          Kind = "notoverriding"
	InstOverrideStatic     Kind = "instoverridestatic"
	StaticOverrideInst     Kind = "staticoverrideinst"
	UnsupportedEFieldInStruct Kind = "unsupportedefieldinstruct"
)

// Compile-time constant evaluator error kinds (spec.md §4.6).
const (
	ConstArithmetic        Kind = "constarithmetic"
	ListIndexOutOfBounds   Kind = "listindexoutofbounds"
	MapKeyNotFound         Kind = "mapkeynotfound"
	InvalidMapKey          Kind = "invalidmapkey"
	ListMultimesNonLiteral Kind = "listmultimesnonliteral"
)

// Emission / environment error kinds (spec.md §7).
const (
	IOError              Kind = "io-error"
	ModuleNotFound       Kind = "module-not-found"
	CircularParse        Kind = "circularparse"
	ReservedInterfacePath Kind = "reservedinterfacepath"
	DuplicateInterface    Kind = "duplicate-interface"
)

// Error is a single Acacia diagnostic: a kind, a rendered message, a primary
// span (via the embedded SyntaxError) and trace notes.
type Error struct {
	*source.SyntaxError
	Kind Kind
}

// New constructs a diagnostic of the given kind over the given file/span.
func New(file *source.File, span source.Span, kind Kind, format string, args ...any) *Error {
	msg := fmt.Sprintf(format, args...)
	return &Error{file.SyntaxError(span, msg), kind}
}

// Render produces the human-readable, render-ready rendering of this
// diagnostic: "file:line:col-col [kind] message", the source excerpt, a caret
// underline, and any trace notes -- grounded on the teacher's
// printSyntaxError (pkg/cmd/util/schema_stacker.go).
func (e *Error) Render() string {
	var b strings.Builder
	//
	span := e.Span()
	line := e.FirstEnclosingLine()
	lineOffset := span.Start() - line.Start()
	length := min(line.Length()-lineOffset, span.Length())
	//
	fmt.Fprintf(&b, "%s:%d:%d-%d [%s] %s\n", e.SourceFile().Filename(),
		line.Number(), 1+lineOffset, 1+lineOffset+length, e.Kind, e.Message())
	b.WriteString("\n")
	b.WriteString(line.String())
	b.WriteString("\n")
	b.WriteString(strings.Repeat(" ", max(0, lineOffset)))
	b.WriteString(strings.Repeat("^", max(1, length)))
	//
	for _, note := range e.Notes() {
		b.WriteString("\n  ")
		b.WriteString(note.Message)
	}
	//
	return b.String()
}
