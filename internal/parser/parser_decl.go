package parser

import (
	"github.com/sunholo/etude/internal/ast"
	"github.com/sunholo/etude/internal/lexer"
)

// parseDecl parses one top-level declaration: fun, var, type, trait, impl.
// An optional leading `@test` attribute marks a FuncDecl for test-build
// discovery (spec §3's Module.tests, §4.7's entry set).
func (p *Parser) parseDecl() ast.Decl {
	isTest := false
	for p.cur.Type == lexer.AT {
		p.next()
		// "test" lexes as the TEST keyword, not IDENT, so it needs its
		// own case here rather than a plain expect(IDENT).
		var attr string
		if p.cur.Type == lexer.TEST {
			attr = p.cur.Literal
			p.next()
		} else {
			attr = p.expect(lexer.IDENT).Literal
		}
		if attr == "test" {
			isTest = true
		}
	}

	switch p.cur.Type {
	case lexer.FUN:
		return p.parseFuncDecl(isTest)
	case lexer.VAR:
		return p.parseVarDecl()
	case lexer.TYPE:
		return p.parseTypeDecl()
	case lexer.TRAIT:
		return p.parseTraitDecl()
	case lexer.IMPL:
		return p.parseImplDecl()
	default:
		p.errorHere("expected declaration, got %q", p.cur.Literal)
		return nil
	}
}

func (p *Parser) parseFuncDecl(isTest bool) *ast.FuncDecl {
	fn := &ast.FuncDecl{IsTest: isTest}
	fn.Loc = p.loc()
	p.expect(lexer.FUN)
	fn.Name = p.expect(lexer.IDENT).Literal

	p.expect(lexer.LPAREN)
	for p.cur.Type != lexer.RPAREN && p.cur.Type != lexer.EOF {
		name := p.expect(lexer.IDENT).Literal
		var typ ast.TypeExpr
		if p.cur.Type == lexer.COLON {
			p.next()
			typ = p.parseTypeExpr()
		}
		fn.Params = append(fn.Params, ast.Param{Name: name, Type: typ})
		if p.cur.Type == lexer.COMMA {
			p.next()
		}
	}
	p.expect(lexer.RPAREN)

	if p.cur.Type != lexer.LBRACE && p.cur.Type != lexer.SEMI {
		fn.ReturnType = p.parseTypeExpr()
	}

	if p.cur.Type == lexer.SEMI {
		fn.IsExtern = true
		p.next()
		return fn
	}

	fn.Body = p.parseBlock()
	return fn
}

func (p *Parser) parseVarDecl() *ast.VarDecl {
	v := &ast.VarDecl{}
	v.Loc = p.loc()
	p.expect(lexer.VAR)
	v.Name = p.expect(lexer.IDENT).Literal
	if p.cur.Type == lexer.COLON {
		p.next()
		v.Type = p.parseTypeExpr()
	}
	p.expect(lexer.ASSIGN)
	v.Value = p.parseExpr()
	p.skipSemi()
	return v
}

func (p *Parser) parseTypeDecl() *ast.TypeDecl {
	td := &ast.TypeDecl{}
	td.Loc = p.loc()
	p.expect(lexer.TYPE)
	td.Name = p.expect(lexer.IDENT).Literal

	if p.cur.Type == lexer.LPAREN {
		p.next()
		for p.cur.Type != lexer.RPAREN && p.cur.Type != lexer.EOF {
			td.Params = append(td.Params, p.expect(lexer.IDENT).Literal)
			if p.cur.Type == lexer.COMMA {
				p.next()
			}
		}
		p.expect(lexer.RPAREN)
	}

	p.expect(lexer.ASSIGN)

	switch p.cur.Type {
	case lexer.STRUCT:
		td.Kind = ast.TypeStruct
		p.next()
		p.expect(lexer.LBRACE)
		for p.cur.Type != lexer.RBRACE && p.cur.Type != lexer.EOF {
			fname := p.expect(lexer.IDENT).Literal
			p.expect(lexer.COLON)
			ftype := p.parseTypeExpr()
			td.Fields = append(td.Fields, ast.StructField{Name: fname, Type: ftype})
			if p.cur.Type == lexer.COMMA {
				p.next()
			}
		}
		p.expect(lexer.RBRACE)

	case lexer.SUM:
		td.Kind = ast.TypeSum
		p.next()
		p.expect(lexer.LBRACE)
		for p.cur.Type != lexer.RBRACE && p.cur.Type != lexer.EOF {
			tag := p.expect(lexer.IDENT).Literal
			var payload ast.TypeExpr
			if p.cur.Type == lexer.LPAREN {
				p.next()
				payload = p.parseTypeExpr()
				p.expect(lexer.RPAREN)
			}
			td.Variants = append(td.Variants, ast.SumVariant{Tag: tag, Payload: payload})
			if p.cur.Type == lexer.COMMA {
				p.next()
			}
		}
		p.expect(lexer.RBRACE)

	default:
		td.Kind = ast.TypeConstructor
		td.Body = p.parseTypeExpr()
	}

	p.skipSemi()
	return td
}

func (p *Parser) parseTraitDecl() *ast.TraitDecl {
	t := &ast.TraitDecl{}
	t.Loc = p.loc()
	p.expect(lexer.TRAIT)
	t.Name = p.expect(lexer.IDENT).Literal
	p.expect(lexer.LBRACE)
	for p.cur.Type != lexer.RBRACE && p.cur.Type != lexer.EOF {
		p.expect(lexer.FUN)
		sig := ast.TraitMethodSig{Name: p.expect(lexer.IDENT).Literal}
		p.expect(lexer.LPAREN)
		for p.cur.Type != lexer.RPAREN && p.cur.Type != lexer.EOF {
			name := p.expect(lexer.IDENT).Literal
			p.expect(lexer.COLON)
			sig.Params = append(sig.Params, ast.Param{Name: name, Type: p.parseTypeExpr()})
			if p.cur.Type == lexer.COMMA {
				p.next()
			}
		}
		p.expect(lexer.RPAREN)
		if p.cur.Type != lexer.SEMI {
			sig.Return = p.parseTypeExpr()
		}
		p.skipSemi()
		t.Methods = append(t.Methods, sig)
	}
	p.expect(lexer.RBRACE)
	return t
}

func (p *Parser) parseImplDecl() *ast.ImplDecl {
	impl := &ast.ImplDecl{}
	impl.Loc = p.loc()
	p.expect(lexer.IMPL)
	impl.Trait = p.expect(lexer.IDENT).Literal
	impl.Type = p.parseTypeExpr()
	p.expect(lexer.LBRACE)
	for p.cur.Type == lexer.FUN {
		impl.Methods = append(impl.Methods, p.parseFuncDecl(false))
	}
	p.expect(lexer.RBRACE)
	return impl
}
