// Package lexer implements the Acacia tokenizer of spec.md §4.1: a
// significant-indentation, string-interpolation-aware scanner that also
// recognizes embedded raw Minecraft commands.
//
// Unlike the teacher's table-driven pkg/util/source/lex.Lexer, indentation
// tracking, bracket nesting and line continuation all require carrying
// state across characters that a longest-match rule table cannot express,
// so this is a hand-written stateful scanner.  It still builds its
// character-class recognizers (digit runs, identifier runs) by composing
// pkg/util/source/lex.Scanner combinators, the same way the teacher
// composes scanners into lexing rules.
package lexer

import (
	"strconv"
	"strings"

	"github.com/acaciamc/acacia/pkg/diag"
	"github.com/acaciamc/acacia/pkg/token"
	"github.com/acaciamc/acacia/pkg/util/collection/stack"
	"github.com/acaciamc/acacia/pkg/util/source"
	"github.com/acaciamc/acacia/pkg/util/source/lex"
)

// punctuation holds the recognized operator/punctuation strings, longest
// first so that e.g. "==" is preferred over "=".
var punctuation = []string{
	"...", "->",
	"==", "!=", "<=", ">=", ":=", "+=", "-=", "*=", "/=", "%=",
	"(", ")", "[", "]", "{", "}", ":", ",", ".", "=", "+", "-", "*", "/", "%",
	"<", ">", "|", "@",
}

var (
	isDigit      = lex.Within(rune('0'), rune('9'))
	isHexDigit   = lex.Or(lex.Within(rune('0'), rune('9')), lex.Within(rune('a'), rune('f')), lex.Within(rune('A'), rune('F')))
	isBinDigit   = lex.Within(rune('0'), rune('1'))
	isIdentStart = lex.Or(lex.Within(rune('a'), rune('z')), lex.Within(rune('A'), rune('Z')), lex.Unit(rune('_')))
	isIdentCont  = lex.Or(isIdentStart, isDigit)
	decimalRun   = lex.AtLeastOne(isDigit)
	hexRun       = lex.AtLeastOne(isHexDigit)
	binRun       = lex.AtLeastOne(isBinDigit)
	identRun     = lex.Sequence(isIdentStart, lex.Many(isIdentCont))
)

const extraUnclosedRawCommand diag.Kind = "unclosed-raw-command"

// bracketPairs maps each opening bracket to its expected closer.
var bracketPairs = map[rune]rune{'(': ')', '[': ']', '{': '}'}

// Lexer tokenizes a single Acacia source file.
type Lexer struct {
	file    *source.File
	runes   []rune
	pos     int
	tokens  []token.Token
	indents *stack.Stack[int]
	// brackets tracks open-bracket characters so mismatches can be
	// reported with the correct opener.
	brackets *stack.Stack[bracketFrame]
	// atLineStart is true when the next character to be read is the first
	// of a physical line (i.e. indentation should be measured there).
atLineStart bool
	// continuation is true when the previous physical line ended in a
	// backslash, so the upcoming line is part of the same logical line.
	continuation bool
}

type bracketFrame struct {
	char rune
	span source.Span
}

// Tokenize scans an entire source file into a token stream ending in a
// single EOF token, or returns the first diagnostic encountered (spec.md §7:
// "a single diagnostic is surfaced and compilation aborts").
func Tokenize(file *source.File) ([]token.Token, *diag.Error) {
	l := &Lexer{
		file:        file,
		runes:       file.Contents(),
		indents:     stack.NewStack[int](),
		brackets:    stack.NewStack[bracketFrame](),
		atLineStart: true,
	}
	l.indents.Push(0)
	//
	if err := l.run(); err != nil {
		return nil, err
	}
	//
	return l.tokens, nil
}

func (l *Lexer) run() *diag.Error {
	for {
		if l.atLineStart && l.brackets.IsEmpty() && !l.continuation {
			if err := l.handleLineStart(); err != nil {
				return err
			}
		}

		if l.pos >= len(l.runes) {
			break
		}

		c := l.runes[l.pos]

		switch {
		case c == '\n':
			l.pos++
			if l.brackets.IsEmpty() {
				l.emit(token.NEWLINE, l.pos-1, l.pos, "\n")
				l.atLineStart = true
			}
		case c == ' ' || c == '\t' || c == '\r':
			l.pos++
		case c == '\\' && l.peekIsEndOfLine():
			if err := l.consumeContinuation(); err != nil {
				return err
			}
		case c == '#':
			if err := l.consumeComment(); err != nil {
				return err
			}
		case c == '/' && l.atStatementStart():
			if err := l.consumeRawCommand(); err != nil {
				return err
			}
		case c == '"':
			if err := l.consumeString(); err != nil {
				return err
			}
		case isDigit([]rune{c}) > 0:
			if err := l.consumeNumber(); err != nil {
				return err
			}
		case isIdentStart([]rune{c}) > 0:
			l.consumeIdentifier()
		case c == '(' || c == '[' || c == '{':
			l.brackets.Push(bracketFrame{c, source.NewSpan(l.pos, l.pos+1)})
			l.emit1(token.OP, string(c))
		case c == ')' || c == ']' || c == '}':
			if err := l.consumeCloser(c); err != nil {
				return err
			}
		default:
			if err := l.consumeOperator(); err != nil {
				return err
			}
		}
	}
	// Final dedents to close every open indentation level.
	for l.indents.Len() > 1 {
		l.indents.Pop()
		l.emit(token.DEDENT, l.pos, l.pos, "")
	}
	//
	if !l.brackets.IsEmpty() {
		top := l.brackets.Peek(0)
		return diag.New(l.file, top.span, diag.UnclosedBracket, "unclosed bracket '%c'", top.char)
	}
	//
	if l.continuation {
		return diag.New(l.file, source.NewSpan(l.pos, l.pos), diag.EofAfterContinuation,
			"end of file after line continuation")
	}
	//
	l.emit(token.EOF, l.pos, l.pos, "")
	//
	return nil
}

// handleLineStart measures indentation at the start of a physical line and
// emits INDENT/DEDENT tokens, or skips the line entirely if it is blank or
// comment-only (spec.md §4.1 "Indentation").
func (l *Lexer) handleLineStart() *diag.Error {
	start := l.pos
	indent := 0
	//
	for l.pos < len(l.runes) && (l.runes[l.pos] == ' ' || l.runes[l.pos] == '\t') {
		indent++
		l.pos++
	}
	// Blank line, comment-only line, or EOF: no indentation change.
	if l.pos >= len(l.runes) || l.runes[l.pos] == '\n' || l.runes[l.pos] == '\r' || l.runes[l.pos] == '#' {
		l.atLineStart = false
		return nil
	}
	//
	l.atLineStart = false
	top := l.indents.Peek(0)
	//
	switch {
	case indent > top:
		l.indents.Push(indent)
		l.emit(token.INDENT, start, l.pos, "")
	case indent < top:
		for l.indents.Len() > 0 && l.indents.Peek(0) > indent {
			l.indents.Pop()
			l.emit(token.DEDENT, start, l.pos, "")
		}
		if l.indents.IsEmpty() || l.indents.Peek(0) != indent {
			return diag.New(l.file, source.NewSpan(start, l.pos), diag.InvalidDedent,
				"unindent does not match any outer indentation level")
		}
	}
	//
	return nil
}

func (l *Lexer) peekAt(offset int) rune {
	if l.pos+offset >= len(l.runes) {
		return 0
	}
	return l.runes[l.pos+offset]
}

func (l *Lexer) peekIsEndOfLine() bool {
	i := l.pos + 1
	for i < len(l.runes) && (l.runes[i] == ' ' || l.runes[i] == '\t' || l.runes[i] == '\r') {
		i++
	}
	return i >= len(l.runes) || l.runes[i] == '\n'
}

func (l *Lexer) consumeContinuation() *diag.Error {
	start := l.pos
	l.pos++
	// Skip trailing whitespace; any non-whitespace before the newline is an
	// error (spec.md §4.1 "Line continuation").
	for l.pos < len(l.runes) && l.runes[l.pos] != '\n' {
		if l.runes[l.pos] != ' ' && l.runes[l.pos] != '\t' && l.runes[l.pos] != '\r' {
			return diag.New(l.file, source.NewSpan(start, l.pos+1), diag.CharAfterContinuation,
				"character after line continuation backslash")
		}
		l.pos++
	}
	//
	if l.pos >= len(l.runes) {
		l.continuation = true
		return nil
	}
	// Consume the newline itself without emitting NEWLINE.
	l.pos++
	l.continuation = false
	l.atLineStart = false
	//
	return nil
}

func (l *Lexer) consumeComment() *diag.Error {
	if l.peekAt(1) == '*' {
		start := l.pos
		l.pos += 2
		for {
			if l.pos >= len(l.runes) {
				return diag.New(l.file, source.NewSpan(start, l.pos), diag.UnclosedLongComment,
					"unclosed long comment")
			}
			if l.runes[l.pos] == '*' && l.peekAt(1) == '#' {
				l.pos += 2
				return nil
			}
			l.pos++
		}
	}
	// Line comment.
	for l.pos < len(l.runes) && l.runes[l.pos] != '\n' {
		l.pos++
	}
	//
	return nil
}

// atStatementStart reports whether the next token would begin a new
// statement -- i.e. no token has been emitted yet on the current logical
// line.  Used to distinguish a raw-command line (`/give ...`) from the `/`
// division operator appearing inside an expression.
func (l *Lexer) atStatementStart() bool {
	if len(l.tokens) == 0 {
		return true
	}
	//
	switch l.tokens[len(l.tokens)-1].Kind {
	case token.NEWLINE, token.INDENT, token.DEDENT:
		return true
	default:
		return false
	}
}

func (l *Lexer) consumeRawCommand() *diag.Error {
	start := l.pos
	block := l.peekAt(1) == '*'
	//
	if block {
		l.pos += 2
	} else {
		l.pos++
	}
	//
	var segs []token.Segment
	var text strings.Builder
	textStart := l.pos
	//
	flushText := func(end int) {
		if end > textStart {
			segs = append(segs, token.Segment{Seg: token.SegmentText, Text: text.String(),
				Span: source.NewSpan(textStart, end)})
		}
		text.Reset()
	}
	//
	for {
		if l.pos >= len(l.runes) {
			if block {
				return diag.New(l.file, source.NewSpan(start, l.pos), extraUnclosedRawCommand,
					"unclosed raw command block")
			}
			flushText(l.pos)
			break
		}

		c := l.runes[l.pos]

		if block && c == '*' && l.peekAt(1) == '/' {
			flushText(l.pos)
			l.pos += 2
			break
		}

		if !block && c == '\n' {
			flushText(l.pos)
			break
		}

		if c == '$' && l.peekAt(1) == '{' {
			flushText(l.pos)
			interpStart := l.pos
			l.pos += 2
			nameStart := l.pos
			for l.pos < len(l.runes) && l.runes[l.pos] != '}' {
				l.pos++
			}
			if l.pos >= len(l.runes) {
				return diag.New(l.file, source.NewSpan(interpStart, l.pos), diag.UnclosedInterpolation,
					"unclosed '${...}' interpolation in raw command")
			}
			name := string(l.runes[nameStart:l.pos])
			l.pos++
			segs = append(segs, token.Segment{Seg: token.SegmentInterp, Text: name,
				Span: source.NewSpan(interpStart, l.pos)})
			textStart = l.pos

			continue
		}

		text.WriteRune(c)
		l.pos++
	}
	//
	l.tokens = append(l.tokens, token.Token{Kind: token.RAWCOMMAND, Span: source.NewSpan(start, l.pos), Segments: segs})
	//
	return nil
}

func (l *Lexer) consumeString() *diag.Error {
	start := l.pos
	l.pos++
	//
	var segs []token.Segment
	var text strings.Builder
	textStart := l.pos
	//
	flushText := func(end int) {
		if end > textStart {
			segs = append(segs, token.Segment{Seg: token.SegmentText, Text: text.String(),
				Span: source.NewSpan(textStart, end)})
		}
		text.Reset()
	}
	//
	for {
		if l.pos >= len(l.runes) || l.runes[l.pos] == '\n' {
			return diag.New(l.file, source.NewSpan(start, start+1), diag.UnclosedQuote,
				"unclosed string literal")
		}

		c := l.runes[l.pos]

		switch {
		case c == '"':
			flushText(l.pos)
			l.pos++
			l.tokens = append(l.tokens, token.Token{Kind: token.STRING,
				Span: source.NewSpan(start, l.pos), Segments: segs})

			return nil
		case c == '{':
			flushText(l.pos)
			holeStart := l.pos
			l.pos++
			depth := 1
			exprStart := l.pos
			for l.pos < len(l.runes) && depth > 0 {
				switch l.runes[l.pos] {
				case '{':
					depth++
				case '}':
					depth--
				}
				if depth > 0 {
					l.pos++
				}
			}
			if depth != 0 {
				return diag.New(l.file, source.NewSpan(holeStart, l.pos), diag.UnclosedHole,
					"unclosed formatted-expression hole")
			}
			expr := string(l.runes[exprStart:l.pos])
			l.pos++ // consume closing '}'
			segs = append(segs, token.Segment{Seg: token.SegmentHole, Text: expr,
				Span: source.NewSpan(holeStart, l.pos)})
			textStart = l.pos
		case c == '\\' && l.peekAt(1) == 'f' && l.peekAt(2) == '{':
			flushText(l.pos)
			fontStart := l.pos
			l.pos += 3
			specStart := l.pos
			for l.pos < len(l.runes) && l.runes[l.pos] != '}' {
				l.pos++
			}
			if l.pos >= len(l.runes) {
				return diag.New(l.file, source.NewSpan(fontStart, l.pos), diag.UnclosedFont,
					"unclosed '\\f{...}' font escape")
			}
			spec := string(l.runes[specStart:l.pos])
			l.pos++
			segs = append(segs, token.Segment{Seg: token.SegmentFont, Text: spec,
				Span: source.NewSpan(fontStart, l.pos)})
			textStart = l.pos
		case c == '\\':
			escStart := l.pos
			l.pos++
			if l.pos >= len(l.runes) {
				return diag.New(l.file, source.NewSpan(escStart, l.pos), diag.UnclosedQuote,
					"unclosed string literal")
			}
			escaped, ok := unescape(l.runes[l.pos])
			if !ok {
				return diag.New(l.file, source.NewSpan(escStart, l.pos+1), diag.InvalidUnicodeEscape,
					"invalid escape sequence '\\%c'", l.runes[l.pos])
			}
			text.WriteRune(escaped)
			l.pos++
			textStart = l.pos
		default:
			text.WriteRune(c)
			l.pos++
		}
	}
}

func unescape(c rune) (rune, bool) {
	switch c {
	case 'n':
		return '\n', true
	case 't':
		return '\t', true
	case 'r':
		return '\r', true
	case '0':
		return 0, true
	case '\\':
		return '\\', true
	case '"':
		return '"', true
	case '\'':
		return '\'', true
	default:
		return 0, false
	}
}

func (l *Lexer) consumeNumber() *diag.Error {
	start := l.pos
	//
	if l.runes[l.pos] == '0' && (l.peekAt(1) == 'x' || l.peekAt(1) == 'X') {
		l.pos += 2
		digitsStart := l.pos
		if n := hexRun(l.runes[l.pos:]); n > 0 {
			l.pos += int(n)
		}
		return l.emitInt(start, string(l.runes[digitsStart:l.pos]), 16)
	}
	//
	if l.runes[l.pos] == '0' && (l.peekAt(1) == 'b' || l.peekAt(1) == 'B') {
		l.pos += 2
		digitsStart := l.pos
		if n := binRun(l.runes[l.pos:]); n > 0 {
			l.pos += int(n)
		}
		return l.emitInt(start, string(l.runes[digitsStart:l.pos]), 2)
	}
	// Decimal, possibly float.
	n := decimalRun(l.runes[l.pos:])
	l.pos += int(n)
	//
	if l.pos < len(l.runes) && l.runes[l.pos] == '.' && isDigit([]rune{l.peekAt(1)}) > 0 {
		l.pos++
		m := decimalRun(l.runes[l.pos:])
		l.pos += int(m)
		text := string(l.runes[start:l.pos])
		v, _ := strconv.ParseFloat(text, 64)
		l.tokens = append(l.tokens, token.Token{Kind: token.FLOAT, Span: source.NewSpan(start, l.pos),
			Text: text, FloatValue: v})

		return nil
	}
	//
	return l.emitInt(start, string(l.runes[start:l.pos]), 10)
}

// emitInt parses digits in the given base and checks the result fits within
// the host-machine 32-bit signed range, since the runtime uses 32-bit
// scoreboards (spec.md §4.1 "Numbers").
func (l *Lexer) emitInt(start int, digits string, base int) *diag.Error {
	v, err := strconv.ParseInt(digits, base, 64)
	span := source.NewSpan(start, l.pos)
	//
	if err != nil || v > int64(1<<31-1) || v < -int64(1<<31) {
		return diag.New(l.file, span, diag.IntOverflow, "integer literal overflows 32-bit range")
	}
	//
	l.tokens = append(l.tokens, token.Token{Kind: token.INT, Span: span, Text: digits, IntValue: int32(v)})

	return nil
}

func (l *Lexer) consumeIdentifier() {
	start := l.pos
	n := identRun(l.runes[l.pos:])
	l.pos += int(n)
	text := string(l.runes[start:l.pos])
	kind := token.IDENT
	//
	if token.Keywords[text] {
		kind = token.KEYWORD
	}
	//
	l.tokens = append(l.tokens, token.Token{Kind: kind, Span: source.NewSpan(start, l.pos), Text: text})
}

func (l *Lexer) consumeCloser(c rune) *diag.Error {
	if l.brackets.IsEmpty() {
		return diag.New(l.file, source.NewSpan(l.pos, l.pos+1), diag.UnmatchedBracketPair,
			"unmatched closing bracket '%c'", c)
	}
	//
	top := l.brackets.Peek(0)
	if bracketPairs[top.char] != c {
		return diag.New(l.file, source.NewSpan(l.pos, l.pos+1), diag.UnmatchedBracketPair,
			"closing bracket '%c' does not match opening bracket '%c'", c, top.char)
	}
	//
	l.brackets.Pop()
	l.emit1(token.OP, string(c))
	//
	return nil
}

func (l *Lexer) consumeOperator() *diag.Error {
	for _, p := range punctuation {
		if n := lex.String(p)(l.runes[l.pos:]); n > 0 {
			l.emit1(token.OP, p)
			return nil
		}
	}
	//
	return diag.New(l.file, source.NewSpan(l.pos, l.pos+1), diag.InvalidChar,
		"unrecognized character '%c'", l.runes[l.pos])
}

func (l *Lexer) emit1(kind token.Kind, text string) {
	start := l.pos
	l.pos += len(text)
	l.tokens = append(l.tokens, token.Token{Kind: kind, Span: source.NewSpan(start, l.pos), Text: text})
}

func (l *Lexer) emit(kind token.Kind, start, end int, text string) {
	l.tokens = append(l.tokens, token.Token{Kind: kind, Span: source.NewSpan(start, end), Text: text})
}
