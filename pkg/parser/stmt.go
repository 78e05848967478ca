package parser

import (
	"github.com/acaciamc/acacia/pkg/ast"
	"github.com/acaciamc/acacia/pkg/diag"
	"github.com/acaciamc/acacia/pkg/token"
)

var augOps = map[string]ast.AugAssignOp{
	"+=": ast.AugAdd, "-=": ast.AugSub, "*=": ast.AugMul, "/=": ast.AugDiv, "%=": ast.AugMod,
}

// parseStmt parses one top-level or block-level statement, including
// function/entity/struct/interface/import declarations, which are
// statement-level forms per spec.md §3.
func (p *Parser) parseStmt() (ast.Stmt, *diag.Error) {
	t := p.cur()

	if t.Kind == token.KEYWORD {
		switch t.Text {
		case "if":
			return p.parseIf()
		case "while":
			return p.parseWhile()
		case "for":
			return p.parseForIn()
		case "pass":
			p.advance()
			n := &ast.PassStmt{}
			n.SetSpan(t.Span)
			return n, p.endOfStmt()
		case "result":
			return p.parseResult()
		case "def":
			return p.parseFuncDef(ast.FlavorRuntime, ast.QualifierNone)
		case "inline":
			return p.parseFlavoredFuncDef(ast.FlavorInline)
		case "extern":
			return p.parseFlavoredFuncDef(ast.FlavorCompileTime)
		case "static", "virtual", "override", "new":
			return p.parseQualifiedFuncDef()
		case "entity":
			return p.parseEntityDef()
		case "struct":
			return p.parseStructDef()
		case "interface":
			return p.parseInterfaceDef()
		case "import":
			return p.parseImport()
		case "var":
			return p.parseVarDecl()
		case "const":
			return p.parseConstDecl()
		case "ref":
			return p.parseRefDecl()
		}
	}

	if t.Kind == token.RAWCOMMAND {
		p.advance()

		n := &ast.RawCommandStmt{Segments: convertSegments(t.Segments)}
		n.SetSpan(t.Span)

		return n, p.endOfStmt()
	}

	return p.parseSimpleStmt()
}

func convertSegments(segs []token.Segment) []ast.StringSegment {
	out := make([]ast.StringSegment, len(segs))

	for i, seg := range segs {
		switch seg.Seg {
		case token.SegmentText:
			out[i] = ast.StringSegment{Text: seg.Text}
		case token.SegmentFont:
			out[i] = ast.StringSegment{IsFont: true, FontSpec: seg.Text}
		case token.SegmentHole, token.SegmentInterp:
			out[i] = ast.StringSegment{IsHole: true, Hole: &ast.NameExpr{Name: seg.Text}}
		}
	}

	return out
}

// endOfStmt consumes the statement-terminating NEWLINE, tolerating EOF.
func (p *Parser) endOfStmt() *diag.Error {
	if p.check(token.NEWLINE) {
		p.advance()
		return nil
	}

	if p.atEOF() || p.check(token.DEDENT) {
		return nil
	}

	return p.unexpected("expected end of statement")
}

// parseBlock parses `:` NEWLINE INDENT stmt+ DEDENT, per spec.md §4.2's
// indentation-delimited block grammar.
func (p *Parser) parseBlock() ([]ast.Stmt, *diag.Error) {
	if _, err := p.expectOp(":"); err != nil {
		return nil, err
	}

	if !p.check(token.NEWLINE) {
		// Single-line block: `if cond: stmt`.
		stmt, err := p.parseStmt()
		if err != nil {
			return nil, err
		}

		return []ast.Stmt{stmt}, nil
	}

	p.advance()

	if _, err := p.expect(token.INDENT); err != nil {
		return nil, err
	}

	var stmts []ast.Stmt

	for !p.check(token.DEDENT) && !p.atEOF() {
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

	if _, err := p.expect(token.DEDENT); err != nil {
		return nil, err
	}

	if len(stmts) == 0 {
		return nil, diag.New(p.file, p.cur().Span, diag.EmptyBlock, "block must contain at least one statement")
	}

	return stmts, nil
}

func (p *Parser) parseIf() (ast.Stmt, *diag.Error) {
	start := p.advance()

	cond, err := p.parseExpr()
	if err != nil {
		return nil, err
	}

	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}

	n := &ast.IfStmt{Cond: cond, Body: body}

	for p.checkKeyword("elif") {
		p.advance()

		econd, err := p.parseExpr()
		if err != nil {
			return nil, err
		}

		ebody, err := p.parseBlock()
		if err != nil {
			return nil, err
		}

		n.Elifs = append(n.Elifs, ast.ElifClause{Cond: econd, Body: ebody})
	}

	end := lastStmt(body).Span()

	if p.checkKeyword("else") {
		p.advance()

		ebody, err := p.parseBlock()
		if err != nil {
			return nil, err
		}

		n.HasElse = true
		n.Else = ebody
		end = lastStmt(ebody).Span()
	} else if len(n.Elifs) > 0 {
		end = lastStmt(n.Elifs[len(n.Elifs)-1].Body).Span()
	}

	n.SetSpan(start.Span.Merge(end))

	return n, nil
}

// lastStmt returns the final statement of a non-empty block, for span
// computation.
func lastStmt(stmts []ast.Stmt) ast.Stmt {
	return stmts[len(stmts)-1]
}

func (p *Parser) parseWhile() (ast.Stmt, *diag.Error) {
	start := p.advance()

	cond, err := p.parseExpr()
	if err != nil {
		return nil, err
	}

	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}

	n := &ast.WhileStmt{Cond: cond, Body: body}
	n.SetSpan(start.Span.Merge(body[len(body)-1].Span()))

	return n, nil
}

func (p *Parser) parseForIn() (ast.Stmt, *diag.Error) {
	start := p.advance()

	name, err := p.expect(token.IDENT)
	if err != nil {
		return nil, err
	}

	if _, err := p.expectKeyword("in"); err != nil {
		return nil, err
	}

	iterable, err := p.parseExpr()
	if err != nil {
		return nil, err
	}

	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}

	n := &ast.ForInStmt{Name: name.Text, Iterable: iterable, Body: body}
	n.SetSpan(start.Span.Merge(body[len(body)-1].Span()))

	return n, nil
}

func (p *Parser) parseResult() (ast.Stmt, *diag.Error) {
	start := p.advance()

	var value ast.Expr

	if !p.check(token.NEWLINE) && !p.atEOF() {
		v, err := p.parseExpr()
		if err != nil {
			return nil, err
		}

		value = v
	}

	n := &ast.ResultStmt{Value: value}
	n.SetSpan(start.Span)

	return n, p.endOfStmt()
}

func (p *Parser) parseImport() (ast.Stmt, *diag.Error) {
	start := p.advance()

	path, err := p.parseDottedPath()
	if err != nil {
		return nil, err
	}

	alias := ""

	if p.matchKeyword("as") {
		aliasTok, err := p.expect(token.IDENT)
		if err != nil {
			return nil, err
		}

		alias = aliasTok.Text
	}

	n := &ast.ImportStmt{Path: path, Alias: alias}
	n.SetSpan(start.Span)

	return n, p.endOfStmt()
}

func (p *Parser) parseDottedPath() (string, *diag.Error) {
	first, err := p.expect(token.IDENT)
	if err != nil {
		return "", err
	}

	path := first.Text

	for p.matchOp(".") {
		next, err := p.expect(token.IDENT)
		if err != nil {
			return "", err
		}

		path += "." + next.Text
	}

	return path, nil
}

func (p *Parser) parseVarDecl() (ast.Stmt, *diag.Error) {
	start := p.advance()

	name, err := p.expect(token.IDENT)
	if err != nil {
		return nil, err
	}

	var typeExpr ast.TypeExpr

	if p.matchOp(":") {
		te, err := p.parseTypeExpr()
		if err != nil {
			return nil, err
		}

		typeExpr = te
	}

	if _, err := p.expectOp("="); err != nil {
		return nil, err
	}

	value, err := p.parseExpr()
	if err != nil {
		return nil, err
	}

	n := &ast.VarDeclStmt{Name: name.Text, TypeExpr: typeExpr, Value: value}
	n.SetSpan(start.Span.Merge(value.Span()))

	return n, p.endOfStmt()
}

func (p *Parser) parseConstDecl() (ast.Stmt, *diag.Error) {
	start := p.advance()

	name, err := p.expect(token.IDENT)
	if err != nil {
		return nil, err
	}

	var typeExpr ast.TypeExpr

	if p.matchOp(":") {
		te, err := p.parseTypeExpr()
		if err != nil {
			return nil, err
		}

		typeExpr = te
	}

	if _, err := p.expectOp("="); err != nil {
		return nil, err
	}

	value, err := p.parseExpr()
	if err != nil {
		return nil, err
	}

	n := &ast.ConstDeclStmt{Name: name.Text, TypeExpr: typeExpr, Value: value}
	n.SetSpan(start.Span.Merge(value.Span()))

	return n, p.endOfStmt()
}

func (p *Parser) parseRefDecl() (ast.Stmt, *diag.Error) {
	start := p.advance()

	name, err := p.expect(token.IDENT)
	if err != nil {
		return nil, err
	}

	if _, err := p.expectOp("="); err != nil {
		return nil, err
	}

	target, err := p.parseExpr()
	if err != nil {
		return nil, err
	}

	n := &ast.RefDeclStmt{Name: name.Text, Target: target}
	n.SetSpan(start.Span.Merge(target.Span()))

	return n, p.endOfStmt()
}

// parseSimpleStmt parses an expression-led statement: a plain expression
// statement, an assignment, an augmented assignment, or a compound
// `name := value` declaration.
func (p *Parser) parseSimpleStmt() (ast.Stmt, *diag.Error) {
	expr, err := p.parseExpr()
	if err != nil {
		return nil, err
	}

	switch {
	case p.checkOp(":="):
		p.advance()

		name, ok := expr.(*ast.NameExpr)
		if !ok {
			return nil, diag.New(p.file, expr.Span(), diag.InvalidAssignTarget, "left side of ':=' must be a name")
		}

		value, err := p.parseExpr()
		if err != nil {
			return nil, err
		}

		n := &ast.CompoundDeclStmt{Name: name.Name, Value: value}
		n.SetSpan(expr.Span().Merge(value.Span()))

		return n, p.endOfStmt()
	case p.checkOp("="):
		p.advance()

		value, err := p.parseExpr()
		if err != nil {
			return nil, err
		}

		n := &ast.AssignStmt{Target: expr, Value: value}
		n.SetSpan(expr.Span().Merge(value.Span()))

		return n, p.endOfStmt()
	case p.cur().Kind == token.OP && isAugOp(p.cur().Text):
		opTok := p.advance()

		value, err := p.parseExpr()
		if err != nil {
			return nil, err
		}

		n := &ast.AugAssignStmt{Target: expr, Op: augOps[opTok.Text], Value: value}
		n.SetSpan(expr.Span().Merge(value.Span()))

		return n, p.endOfStmt()
	default:
		n := &ast.ExprStmt{Value: expr}
		n.SetSpan(expr.Span())

		return n, p.endOfStmt()
	}
}

func isAugOp(text string) bool {
	_, ok := augOps[text]
	return ok
}

// parseTypeExpr parses a type annotation: a bare name, a single-argument
// generic `Name[Arg]`, or `Map[K, V]` (spec.md §3 "type expression").
func (p *Parser) parseTypeExpr() (ast.TypeExpr, *diag.Error) {
	name, err := p.expect(token.IDENT)
	if err != nil {
		return nil, err
	}

	if !p.checkOp("[") {
		n := &ast.NamedTypeExpr{Name: name.Text}
		n.SetSpan(name.Span)

		return n, nil
	}

	p.advance()

	first, err := p.parseTypeExpr()
	if err != nil {
		return nil, err
	}

	if p.matchOp(",") {
		second, err := p.parseTypeExpr()
		if err != nil {
			return nil, err
		}

		end, err := p.expectOp("]")
		if err != nil {
			return nil, err
		}

		n := &ast.MapTypeExpr{Key: first, Value: second}
		n.SetSpan(name.Span.Merge(end.Span))

		return n, nil
	}

	end, err := p.expectOp("]")
	if err != nil {
		return nil, err
	}

	n := &ast.GenericTypeExpr{Name: name.Text, Arg: first}
	n.SetSpan(name.Span.Merge(end.Span))

	return n, nil
}
