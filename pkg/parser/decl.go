package parser

import (
	"strings"

	"github.com/acaciamc/acacia/pkg/ast"
	"github.com/acaciamc/acacia/pkg/diag"
	"github.com/acaciamc/acacia/pkg/token"
)

// parseFuncDef parses `def name(params) [-> Type]: body`.
func (p *Parser) parseFuncDef(flavor ast.ParamFlavor, qualifier ast.MethodQualifier) (*ast.FuncDef, *diag.Error) {
	start, err := p.expectKeyword("def")
	if err != nil {
		return nil, err
	}

	return p.finishFuncDef(start, flavor, qualifier)
}

// parseFlavoredFuncDef parses `inline def ...` / `extern def ...`, where the
// leading keyword selects the function's calling-convention flavor (spec.md
// §4.4 "runtime / inline / compile-time").
func (p *Parser) parseFlavoredFuncDef(flavor ast.ParamFlavor) (*ast.FuncDef, *diag.Error) {
	start := p.advance()

	if _, err := p.expectKeyword("def"); err != nil {
		return nil, err
	}

	return p.finishFuncDef(start, flavor, ast.QualifierNone)
}

var qualifierKeywords = map[string]ast.MethodQualifier{
	"static": ast.QualifierStatic, "virtual": ast.QualifierVirtual,
	"override": ast.QualifierOverride, "new": ast.QualifierNew,
}

// parseQualifiedFuncDef parses an entity-template method carrying one of
// the `static` / `virtual` / `override` / `new` qualifiers (spec.md §4.5).
func (p *Parser) parseQualifiedFuncDef() (*ast.FuncDef, *diag.Error) {
	qualTok := p.advance()
	qualifier := qualifierKeywords[qualTok.Text]

	flavor := ast.FlavorRuntime

	if p.checkKeyword("inline") {
		p.advance()
		flavor = ast.FlavorInline
	} else if p.checkKeyword("extern") {
		p.advance()
		flavor = ast.FlavorCompileTime
	}

	if _, err := p.expectKeyword("def"); err != nil {
		return nil, err
	}

	return p.finishFuncDef(qualTok, flavor, qualifier)
}

func (p *Parser) finishFuncDef(start token.Token, flavor ast.ParamFlavor, qualifier ast.MethodQualifier) (*ast.FuncDef, *diag.Error) {
	name, err := p.expect(token.IDENT)
	if err != nil {
		return nil, err
	}

	params, err := p.parseParamList()
	if err != nil {
		return nil, err
	}

	var resultType ast.TypeExpr

	if p.matchOp("->") {
		rt, err := p.parseTypeExpr()
		if err != nil {
			return nil, err
		}

		resultType = rt
	}

	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}

	n := &ast.FuncDef{Name: name.Text, Flavor: flavor, Qualifier: qualifier, Params: params, ResultType: resultType, Body: body}
	n.SetSpan(start.Span.Merge(lastStmt(body).Span()))

	return n, nil
}

// parseParamList parses `(port? name[: Type] [= default], ...)` (spec.md
// §4.4 "function ports").  A bare `ref`/`const` keyword before a parameter
// name selects its port; the absence of either means by-value.
func (p *Parser) parseParamList() ([]ast.Param, *diag.Error) {
	if _, err := p.expectOp("("); err != nil {
		return nil, err
	}

	var params []ast.Param

	for !p.checkOp(")") {
		if len(params) > 0 {
			if _, err := p.expectOp(","); err != nil {
				return nil, err
			}

			if p.checkOp(")") {
				break
			}
		}

		port := ast.PortValue

		if p.checkKeyword("ref") {
			p.advance()
			port = ast.PortRef
		} else if p.checkKeyword("const") {
			p.advance()
			port = ast.PortConst
		}

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

		var def ast.Expr

		if p.matchOp("=") {
			d, err := p.parseExpr()
			if err != nil {
				return nil, err
			}

			def = d
		}

		params = append(params, ast.Param{Name: name.Text, Port: port, TypeExpr: typeExpr, Default: def})
	}

	if _, err := p.expectOp(")"); err != nil {
		return nil, err
	}

	return params, nil
}

// parseEntityDef parses `entity Name(Base1, Base2, ...): body` (spec.md
// §4.5 "entity templates").
func (p *Parser) parseEntityDef() (ast.Stmt, *diag.Error) {
	start := p.advance()

	name, err := p.expect(token.IDENT)
	if err != nil {
		return nil, err
	}

	var bases []string

	if p.matchOp("(") {
		for !p.checkOp(")") {
			if len(bases) > 0 {
				if _, err := p.expectOp(","); err != nil {
					return nil, err
				}

				if p.checkOp(")") {
					break
				}
			}

			b, err := p.expect(token.IDENT)
			if err != nil {
				return nil, err
			}

			bases = append(bases, b.Text)
		}

		if _, err := p.expectOp(")"); err != nil {
			return nil, err
		}
	}

	var entityType string

	if p.check(token.STRING) {
		t, serr := p.expect(token.STRING)
		if serr != nil {
			return nil, serr
		}

		s, terr := p.plainStringText(t)
		if terr != nil {
			return nil, terr
		}

		entityType = s
	}

	var spawnPos ast.Expr

	if p.checkKeyword("at") {
		p.advance()

		pos, perr := p.parseExpr()
		if perr != nil {
			return nil, perr
		}

		spawnPos = pos
	}

	if _, err := p.expectOp(":"); err != nil {
		return nil, err
	}

	if _, err := p.expect(token.NEWLINE); err != nil {
		return nil, err
	}

	if _, err := p.expect(token.INDENT); err != nil {
		return nil, err
	}

	n := &ast.EntityDef{Name: name.Text, Bases: bases, EntityType: entityType, SpawnPos: spawnPos}

	for !p.check(token.DEDENT) && !p.atEOF() {
		if p.check(token.NEWLINE) {
			p.advance()
			continue
		}

		if p.checkKeyword("def") {
			m, err := p.parseFuncDef(ast.FlavorRuntime, ast.QualifierNone)
			if err != nil {
				return nil, err
			}

			n.Methods = append(n.Methods, m)
			continue
		}

		if isQualifierKeyword(p.cur()) {
			m, err := p.parseQualifiedFuncDef()
			if err != nil {
				return nil, err
			}

			n.Methods = append(n.Methods, m)
			continue
		}

		if p.checkKeyword("inline") || p.checkKeyword("extern") {
			flavor := ast.FlavorInline
			if p.checkKeyword("extern") {
				flavor = ast.FlavorCompileTime
			}

			m, err := p.parseFlavoredFuncDef(flavor)
			if err != nil {
				return nil, err
			}

			n.Methods = append(n.Methods, m)
			continue
		}

		field, err := p.parseEntityField()
		if err != nil {
			return nil, err
		}

		n.Fields = append(n.Fields, field)
	}

	if _, err := p.expect(token.DEDENT); err != nil {
		return nil, err
	}

	n.SetSpan(start.Span)

	return n, nil
}

// plainStringText concatenates a STRING token's segments, rejecting one
// with a formatted hole or raw-command interpolation: an entity-type string
// names a fixed Minecraft entity id, not an interpolated value.
func (p *Parser) plainStringText(t token.Token) (string, *diag.Error) {
	var b strings.Builder

	for _, seg := range t.Segments {
		if seg.Seg != token.SegmentText {
			return "", diag.New(p.file, t.Span, diag.InvalidFexpr, "entity-type string must not contain a formatted hole")
		}

		b.WriteString(seg.Text)
	}

	return b.String(), nil
}

func isQualifierKeyword(t token.Token) bool {
	if t.Kind != token.KEYWORD {
		return false
	}

	_, ok := qualifierKeywords[t.Text]

	return ok
}

func (p *Parser) parseEntityField() (ast.EntityField, *diag.Error) {
	name, err := p.expect(token.IDENT)
	if err != nil {
		return ast.EntityField{}, err
	}

	var typeExpr ast.TypeExpr

	if p.matchOp(":") {
		te, err := p.parseTypeExpr()
		if err != nil {
			return ast.EntityField{}, err
		}

		typeExpr = te
	}

	var def ast.Expr

	if p.matchOp("=") {
		d, err := p.parseExpr()
		if err != nil {
			return ast.EntityField{}, err
		}

		def = d
	}

	if err := p.endOfStmt(); err != nil {
		return ast.EntityField{}, err
	}

	return ast.EntityField{Name: name.Text, TypeExpr: typeExpr, Default: def}, nil
}

// parseStructDef parses `struct Name: body` (spec.md §4.5 "struct
// definition").
func (p *Parser) parseStructDef() (ast.Stmt, *diag.Error) {
	start := p.advance()

	name, err := p.expect(token.IDENT)
	if err != nil {
		return nil, err
	}

	if _, err := p.expectOp(":"); err != nil {
		return nil, err
	}

	if _, err := p.expect(token.NEWLINE); err != nil {
		return nil, err
	}

	if _, err := p.expect(token.INDENT); err != nil {
		return nil, err
	}

	n := &ast.StructDef{Name: name.Text}

	for !p.check(token.DEDENT) && !p.atEOF() {
		if p.check(token.NEWLINE) {
			p.advance()
			continue
		}

		fieldName, err := p.expect(token.IDENT)
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

		var def ast.Expr

		if p.matchOp("=") {
			d, err := p.parseExpr()
			if err != nil {
				return nil, err
			}

			def = d
		}

		if err := p.endOfStmt(); err != nil {
			return nil, err
		}

		n.Fields = append(n.Fields, ast.StructFieldDecl{Name: fieldName.Text, TypeExpr: typeExpr, Default: def})
	}

	if _, err := p.expect(token.DEDENT); err != nil {
		return nil, err
	}

	n.SetSpan(start.Span)

	return n, nil
}

// parseInterfaceDef parses `interface Name: body`, a list of bare method
// signatures (spec.md §4.5 "interface definition").
func (p *Parser) parseInterfaceDef() (ast.Stmt, *diag.Error) {
	start := p.advance()

	name, err := p.expect(token.IDENT)
	if err != nil {
		return nil, err
	}

	if _, err := p.expectOp(":"); err != nil {
		return nil, err
	}

	if _, err := p.expect(token.NEWLINE); err != nil {
		return nil, err
	}

	if _, err := p.expect(token.INDENT); err != nil {
		return nil, err
	}

	n := &ast.InterfaceDef{Name: name.Text}

	for !p.check(token.DEDENT) && !p.atEOF() {
		if p.check(token.NEWLINE) {
			p.advance()
			continue
		}

		if _, err := p.expectKeyword("def"); err != nil {
			return nil, err
		}

		methodName, err := p.expect(token.IDENT)
		if err != nil {
			return nil, err
		}

		params, err := p.parseParamList()
		if err != nil {
			return nil, err
		}

		var resultType ast.TypeExpr

		if p.matchOp("->") {
			rt, err := p.parseTypeExpr()
			if err != nil {
				return nil, err
			}

			resultType = rt
		}

		if err := p.endOfStmt(); err != nil {
			return nil, err
		}

		n.Methods = append(n.Methods, ast.InterfaceMethodSig{Name: methodName.Text, Params: params, ResultType: resultType})
	}

	if _, err := p.expect(token.DEDENT); err != nil {
		return nil, err
	}

	n.SetSpan(start.Span)

	return n, nil
}
