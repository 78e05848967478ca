package parser

import (
	"strings"

	"github.com/acaciamc/acacia/pkg/ast"
	"github.com/acaciamc/acacia/pkg/diag"
	"github.com/acaciamc/acacia/pkg/token"
)

// parseExpr is the entry point for expression parsing: logical-or binds
// loosest, per spec.md §4.2's precedence table (or, and, not, comparison
// chain, additive, multiplicative, unary, postfix, atom).
func (p *Parser) parseExpr() (ast.Expr, *diag.Error) {
	return p.parseOr()
}

func (p *Parser) parseOr() (ast.Expr, *diag.Error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}

	for p.checkKeyword("or") {
		p.advance()

		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}

		n := &ast.LogicalExpr{Op: ast.LogicalOr, Left: left, Right: right}
		n.SetSpan(ast.NewSpanFromNodes(left, right))
		left = n
	}

	return left, nil
}

func (p *Parser) parseAnd() (ast.Expr, *diag.Error) {
	left, err := p.parseNot()
	if err != nil {
		return nil, err
	}

	for p.checkKeyword("and") {
		p.advance()

		right, err := p.parseNot()
		if err != nil {
			return nil, err
		}

		n := &ast.LogicalExpr{Op: ast.LogicalAnd, Left: left, Right: right}
		n.SetSpan(ast.NewSpanFromNodes(left, right))
		left = n
	}

	return left, nil
}

func (p *Parser) parseNot() (ast.Expr, *diag.Error) {
	if p.checkKeyword("not") {
		start := p.advance()

		operand, err := p.parseNot()
		if err != nil {
			return nil, err
		}

		n := &ast.UnaryExpr{Op: ast.UnaryNot, Operand: operand}
		n.SetSpan(start.Span.Merge(operand.Span()))

		return n, nil
	}

	return p.parseComparison()
}

var compareOps = map[string]ast.CompareOp{
	"==": ast.CmpEq, "!=": ast.CmpNe, "<": ast.CmpLt, "<=": ast.CmpLe, ">": ast.CmpGt, ">=": ast.CmpGe,
}

func (p *Parser) parseComparison() (ast.Expr, *diag.Error) {
	first, err := p.parseAdditive()
	if err != nil {
		return nil, err
	}

	var operands = []ast.Expr{first}
	var comparators []ast.CompareOp

	for p.cur().Kind == token.OP {
		cmp, ok := compareOps[p.cur().Text]
		if !ok {
			break
		}

		p.advance()

		next, err := p.parseAdditive()
		if err != nil {
			return nil, err
		}

		operands = append(operands, next)
		comparators = append(comparators, cmp)
	}

	if len(comparators) == 0 {
		return first, nil
	}

	n := &ast.CompareChain{Operands: operands, Comparators: comparators}
	n.SetSpan(ast.NewSpanFromNodes(operands[0], operands[len(operands)-1]))

	return n, nil
}

func (p *Parser) parseAdditive() (ast.Expr, *diag.Error) {
	left, err := p.parseMultiplicative()
	if err != nil {
		return nil, err
	}

	for p.checkOp("+") || p.checkOp("-") {
		opTok := p.advance()

		right, err := p.parseMultiplicative()
		if err != nil {
			return nil, err
		}

		op := ast.OpAdd
		if opTok.Text == "-" {
			op = ast.OpSub
		}

		n := &ast.BinaryExpr{Op: op, Left: left, Right: right}
		n.SetSpan(ast.NewSpanFromNodes(left, right))
		left = n
	}

	return left, nil
}

func (p *Parser) parseMultiplicative() (ast.Expr, *diag.Error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}

	for p.checkOp("*") || p.checkOp("/") || p.checkOp("%") {
		opTok := p.advance()

		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}

		var op ast.BinaryOp
		switch opTok.Text {
		case "*":
			op = ast.OpMul
		case "/":
			op = ast.OpDiv
		case "%":
			op = ast.OpMod
		}

		n := &ast.BinaryExpr{Op: op, Left: left, Right: right}
		n.SetSpan(ast.NewSpanFromNodes(left, right))
		left = n
	}

	return left, nil
}

func (p *Parser) parseUnary() (ast.Expr, *diag.Error) {
	if p.checkOp("+") || p.checkOp("-") {
		opTok := p.advance()

		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}

		op := ast.UnaryPlus
		if opTok.Text == "-" {
			op = ast.UnaryMinus
		}

		n := &ast.UnaryExpr{Op: op, Operand: operand}
		n.SetSpan(opTok.Span.Merge(operand.Span()))

		return n, nil
	}

	return p.parsePostfix()
}

func (p *Parser) parsePostfix() (ast.Expr, *diag.Error) {
	expr, err := p.parseAtom()
	if err != nil {
		return nil, err
	}

	for {
		switch {
		case p.checkOp("("):
			expr, err = p.parseCallTail(expr)
		case p.checkOp("."):
			p.advance()

			name, nerr := p.expect(token.IDENT)
			if nerr != nil {
				return nil, nerr
			}

			n := &ast.AttributeExpr{Object: expr, Name: name.Text}
			n.SetSpan(expr.Span().Merge(name.Span))
			expr = n

			continue
		case p.checkOp("["):
			expr, err = p.parseSubscriptTail(expr)
		default:
			return expr, nil
		}

		if err != nil {
			return nil, err
		}
	}
}

func (p *Parser) parseCallTail(callee ast.Expr) (ast.Expr, *diag.Error) {
	p.advance()

	var args []ast.Arg

	for !p.checkOp(")") {
		if len(args) > 0 {
			if _, err := p.expectOp(","); err != nil {
				return nil, err
			}

			if p.checkOp(")") {
				break
			}
		}

		name := ""
		if p.check(token.IDENT) && p.peekIsOp(1, "=") {
			name = p.advance().Text
			p.advance()
		}

		val, err := p.parseExpr()
		if err != nil {
			return nil, err
		}

		args = append(args, ast.Arg{Name: name, Value: val})
	}

	end, err := p.expectOp(")")
	if err != nil {
		return nil, err
	}

	n := &ast.CallExpr{Callee: callee, Args: args}
	n.SetSpan(callee.Span().Merge(end.Span))

	return n, nil
}

func (p *Parser) parseSubscriptTail(object ast.Expr) (ast.Expr, *diag.Error) {
	p.advance()

	var index, sliceEnd ast.Expr

	if !p.checkOp(":") {
		idx, err := p.parseExpr()
		if err != nil {
			return nil, err
		}

		index = idx
	}

	if p.matchOp(":") {
		if !p.checkOp("]") {
			end, err := p.parseExpr()
			if err != nil {
				return nil, err
			}

			sliceEnd = end
		}
	}

	end, err := p.expectOp("]")
	if err != nil {
		return nil, err
	}

	n := &ast.SubscriptExpr{Object: object, Index: index, SliceEnd: sliceEnd}
	n.SetSpan(object.Span().Merge(end.Span))

	return n, nil
}

func (p *Parser) peekIsOp(offset int, text string) bool {
	idx := p.pos + offset
	if idx >= len(p.tokens) {
		return false
	}

	t := p.tokens[idx]

	return t.Kind == token.OP && t.Text == text
}

func (p *Parser) parseAtom() (ast.Expr, *diag.Error) {
	t := p.cur()

	switch t.Kind {
	case token.INT:
		p.advance()

		n := &ast.IntLit{Value: t.IntValue}
		n.SetSpan(t.Span)

		return n, nil
	case token.FLOAT:
		p.advance()

		n := &ast.FloatLit{Value: t.FloatValue}
		n.SetSpan(t.Span)

		return n, nil
	case token.STRING:
		p.advance()
		return p.buildStringLit(t)
	case token.RAWCOMMAND:
		return nil, p.unexpected("raw command is only valid as a statement")
	case token.IDENT:
		p.advance()

		n := &ast.NameExpr{Name: t.Text}
		n.SetSpan(t.Span)

		return n, nil
	case token.KEYWORD:
		switch t.Text {
		case "true":
			p.advance()

			n := &ast.BoolLit{Value: true}
			n.SetSpan(t.Span)

			return n, nil
		case "false":
			p.advance()

			n := &ast.BoolLit{Value: false}
			n.SetSpan(t.Span)

			return n, nil
		case "none":
			p.advance()

			n := &ast.NoneLit{}
			n.SetSpan(t.Span)

			return n, nil
		case "new":
			return p.parseNewExpr()
		}
	case token.OP:
		switch t.Text {
		case "(":
			p.advance()

			inner, err := p.parseExpr()
			if err != nil {
				return nil, err
			}

			if _, err := p.expectOp(")"); err != nil {
				return nil, err
			}

			return inner, nil
		case "[":
			return p.parseListExpr()
		case "{":
			return p.parseMapExpr()
		case "|":
			return p.parseSelectorExpr()
		}
	}

	return nil, p.unexpected("unexpected token in expression")
}

func (p *Parser) buildStringLit(t token.Token) (ast.Expr, *diag.Error) {
	segments := make([]ast.StringSegment, len(t.Segments))

	for i, seg := range t.Segments {
		switch seg.Seg {
		case token.SegmentText:
			segments[i] = ast.StringSegment{Text: seg.Text}
		case token.SegmentFont:
			segments[i] = ast.StringSegment{IsFont: true, FontSpec: seg.Text}
		case token.SegmentHole, token.SegmentInterp:
			holeExpr, err := p.parseSubExpr(seg.Text)
			if err != nil {
				return nil, err
			}

			segments[i] = ast.StringSegment{IsHole: true, Hole: holeExpr}
		}
	}

	n := &ast.StringLit{Segments: segments}
	n.SetSpan(t.Span)

	return n, nil
}

// parseSubExpr reparses a hole's raw text as a nested expression. Acacia
// holes hold either a bare name or a dotted attribute chain in practice;
// full sub-expression parsing of a hole's token text is a compiler-layer
// concern once the lexer can be invoked recursively without an import
// cycle, so this handles the common bare-name and dotted-attribute cases
// directly.
func (p *Parser) parseSubExpr(text string) (ast.Expr, *diag.Error) {
	text = strings.TrimSpace(text)

	parts := strings.Split(text, ".")

	var expr ast.Expr

	name := &ast.NameExpr{Name: parts[0]}
	expr = name

	for _, part := range parts[1:] {
		attr := &ast.AttributeExpr{Object: expr, Name: part}
		expr = attr
	}

	return expr, nil
}

func (p *Parser) parseListExpr() (ast.Expr, *diag.Error) {
	start := p.advance()

	var elems []ast.Expr

	for !p.checkOp("]") {
		if len(elems) > 0 {
			if _, err := p.expectOp(","); err != nil {
				return nil, err
			}

			if p.checkOp("]") {
				break
			}
		}

		el, err := p.parseExpr()
		if err != nil {
			return nil, err
		}

		elems = append(elems, el)
	}

	end, err := p.expectOp("]")
	if err != nil {
		return nil, err
	}

	n := &ast.ListExpr{Elements: elems}
	n.SetSpan(start.Span.Merge(end.Span))

	return n, nil
}

func (p *Parser) parseMapExpr() (ast.Expr, *diag.Error) {
	start := p.advance()

	var entries []ast.MapEntry

	for !p.checkOp("}") {
		if len(entries) > 0 {
			if _, err := p.expectOp(","); err != nil {
				return nil, err
			}

			if p.checkOp("}") {
				break
			}
		}

		key, err := p.parseExpr()
		if err != nil {
			return nil, err
		}

		if _, err := p.expectOp(":"); err != nil {
			return nil, err
		}

		val, err := p.parseExpr()
		if err != nil {
			return nil, err
		}

		entries = append(entries, ast.MapEntry{Key: key, Value: val})
	}

	end, err := p.expectOp("}")
	if err != nil {
		return nil, err
	}

	n := &ast.MapExpr{Entries: entries}
	n.SetSpan(start.Span.Merge(end.Span))

	return n, nil
}

func (p *Parser) parseSelectorExpr() (ast.Expr, *diag.Error) {
	start := p.advance()

	sel, err := p.expect(token.IDENT)
	if err != nil {
		return nil, err
	}

	objective := ""
	if p.matchOp(":") {
		obj, err := p.expect(token.IDENT)
		if err != nil {
			return nil, err
		}

		objective = obj.Text
	}

	end, err := p.expectOp("|")
	if err != nil {
		return nil, err
	}

	n := &ast.SelectorExpr{Selector: sel.Text, Objective: objective}
	n.SetSpan(start.Span.Merge(end.Span))

	return n, nil
}

func (p *Parser) parseNewExpr() (ast.Expr, *diag.Error) {
	start := p.advance()

	if _, err := p.expectOp("("); err != nil {
		return nil, err
	}

	var args []ast.Arg

	for !p.checkOp(")") {
		if len(args) > 0 {
			if _, err := p.expectOp(","); err != nil {
				return nil, err
			}

			if p.checkOp(")") {
				break
			}
		}

		name := ""
		if p.check(token.IDENT) && p.peekIsOp(1, "=") {
			name = p.advance().Text
			p.advance()
		}

		val, err := p.parseExpr()
		if err != nil {
			return nil, err
		}

		args = append(args, ast.Arg{Name: name, Value: val})
	}

	end, err := p.expectOp(")")
	if err != nil {
		return nil, err
	}

	n := &ast.NewExpr{Args: args}
	n.SetSpan(start.Span.Merge(end.Span))

	return n, nil
}
