// Package parser implements Acacia's recursive-descent parser: token
// stream to typed AST (spec.md §4.2 "Parser").
//
// Grounded on the teacher's recursive-descent S-expression/Lisp parsers in
// pkg/air/lisp.go and pkg/corset's own parser (single-token lookahead,
// explicit precedence climbing via a chain of parseX methods), generalized
// from Lisp-style parenthesized forms to Acacia's indentation-structured
// grammar.
package parser

import (
	"github.com/acaciamc/acacia/pkg/ast"
	"github.com/acaciamc/acacia/pkg/diag"
	"github.com/acaciamc/acacia/pkg/token"
	"github.com/acaciamc/acacia/pkg/util/source"
)

// Parser holds a single-token lookahead cursor over an already-lexed token
// stream for one source file.
type Parser struct {
	file   *source.File
	tokens []token.Token
	pos    int
}

// New constructs a Parser over a token stream produced by pkg/lexer for
// file.
func New(file *source.File, tokens []token.Token) *Parser {
	return &Parser{file: file, tokens: tokens}
}

// ParseProgram parses the entire token stream into a Program (spec.md §4.2
// "Produces the AST family listed in §3").
func (p *Parser) ParseProgram() (*ast.Program, *diag.Error) {
	var stmts []ast.Stmt

	for !p.atEOF() {
		if p.check(token.NEWLINE) {
			p.advance()
			continue
		}

		stmt, err := p.parseStmt()
		if err != nil {
			return nil, err
		}

		stmts = append(stmts, stmt)
	}

	return &ast.Program{Statements: stmts}, nil
}

func (p *Parser) cur() token.Token {
	if p.pos >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1]
	}

	return p.tokens[p.pos]
}

func (p *Parser) atEOF() bool {
	return p.cur().Kind == token.EOF
}

func (p *Parser) advance() token.Token {
	t := p.cur()
	if p.pos < len(p.tokens)-1 {
		p.pos++
	}

	return t
}

func (p *Parser) check(kind token.Kind) bool {
	return p.cur().Kind == kind
}

func (p *Parser) checkOp(text string) bool {
	return p.cur().Kind == token.OP && p.cur().Text == text
}

func (p *Parser) checkKeyword(text string) bool {
	return p.cur().Kind == token.KEYWORD && p.cur().Text == text
}

func (p *Parser) matchOp(text string) bool {
	if p.checkOp(text) {
		p.advance()
		return true
	}

	return false
}

func (p *Parser) matchKeyword(text string) bool {
	if p.checkKeyword(text) {
		p.advance()
		return true
	}

	return false
}

func (p *Parser) expectOp(text string) (token.Token, *diag.Error) {
	if !p.checkOp(text) {
		return token.Token{}, p.unexpected("expected %q", text)
	}

	return p.advance(), nil
}

func (p *Parser) expectKeyword(text string) (token.Token, *diag.Error) {
	if !p.checkKeyword(text) {
		return token.Token{}, p.unexpected("expected keyword %q", text)
	}

	return p.advance(), nil
}

func (p *Parser) expect(kind token.Kind) (token.Token, *diag.Error) {
	if !p.check(kind) {
		return token.Token{}, p.unexpected("unexpected token")
	}

	return p.advance(), nil
}

func (p *Parser) unexpected(format string, args ...any) *diag.Error {
	return diag.New(p.file, p.cur().Span, diag.UnexpectedToken, format, args...)
}
