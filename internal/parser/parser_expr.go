package parser

import (
	"github.com/sunholo/etude/internal/ast"
	"github.com/sunholo/etude/internal/lexer"
)

// precedence levels, lowest to highest.
const (
	precLowest = iota
	precCompare
	precAdditive
	precMultiplicative
	precUnary
	precCall
)

func precedenceOf(tt lexer.TokenType) int {
	switch tt {
	case lexer.EQ, lexer.NEQ, lexer.LT, lexer.GT, lexer.LE, lexer.GE:
		return precCompare
	case lexer.PLUS, lexer.MINUS:
		return precAdditive
	case lexer.STAR, lexer.SLASH:
		return precMultiplicative
	case lexer.LPAREN:
		return precCall
	default:
		return precLowest
	}
}

func isCompareOp(tt lexer.TokenType) bool {
	switch tt {
	case lexer.EQ, lexer.NEQ, lexer.LT, lexer.GT, lexer.LE, lexer.GE:
		return true
	}
	return false
}

// parseExpr parses an expression using precedence climbing.
func (p *Parser) parseExpr() ast.Expr {
	return p.parseBinary(precLowest)
}

func (p *Parser) parseBinary(minPrec int) ast.Expr {
	left := p.parseUnary()

	for {
		prec := precedenceOf(p.cur.Type)
		if prec <= minPrec && p.cur.Type != lexer.LPAREN {
			break
		}

		switch {
		case p.cur.Type == lexer.LPAREN && prec > minPrec:
			left = p.parseCallTail(left)
			continue

		case isCompareOp(p.cur.Type) && prec > minPrec:
			op := p.cur
			loc := p.loc()
			p.next()
			right := p.parseBinary(prec)
			left = &ast.CompareExpr{Op: op.Literal, Left: left, Right: right}
			left.(*ast.CompareExpr).Loc = loc

		case prec > minPrec:
			op := p.cur
			loc := p.loc()
			p.next()
			right := p.parseBinary(prec)
			bin := &ast.BinaryExpr{Op: op.Literal, Left: left, Right: right}
			bin.Loc = loc
			left = bin

		default:
			return left
		}
	}
	return left
}

func (p *Parser) parseUnary() ast.Expr {
	if p.cur.Type == lexer.MINUS || p.cur.Type == lexer.BANG {
		op := p.cur
		loc := p.loc()
		p.next()
		x := p.parseUnary()
		u := &ast.UnaryExpr{Op: op.Literal, X: x}
		u.Loc = loc
		return u
	}
	return p.parseCallOrPrimary()
}

func (p *Parser) parseCallOrPrimary() ast.Expr {
	expr := p.parsePrimary()
	return p.parseCallTail(expr)
}

// parseCallTail consumes zero or more trailing `(args)` suffixes, so
// `f()()` and member-call-like chains parse left-associatively.
func (p *Parser) parseCallTail(expr ast.Expr) ast.Expr {
	for p.cur.Type == lexer.LPAREN {
		loc := p.loc()
		p.next()
		var args []ast.Expr
		for p.cur.Type != lexer.RPAREN && p.cur.Type != lexer.EOF {
			args = append(args, p.parseExpr())
			if p.cur.Type == lexer.COMMA {
				p.next()
			}
		}
		p.expect(lexer.RPAREN)
		call := &ast.CallExpr{Callee: expr, Args: args}
		call.Loc = loc
		expr = call
	}
	return expr
}

func (p *Parser) parsePrimary() ast.Expr {
	loc := p.loc()

	switch p.cur.Type {
	case lexer.INT:
		lit := &ast.Literal{Kind: ast.LitInt}
		lit.Loc = loc
		var v int64
		for _, c := range p.cur.Literal {
			v = v*10 + int64(c-'0')
		}
		lit.Int = v
		p.next()
		return lit

	case lexer.TRUE, lexer.FALSE:
		lit := &ast.Literal{Kind: ast.LitBool, Bool: p.cur.Type == lexer.TRUE}
		lit.Loc = loc
		p.next()
		return lit

	case lexer.CHAR:
		lit := &ast.Literal{Kind: ast.LitChar, Char: []rune(p.cur.Literal)[0]}
		lit.Loc = loc
		p.next()
		return lit

	case lexer.IDENT:
		id := &ast.Ident{Name: p.cur.Literal}
		id.Loc = loc
		p.next()
		return id

	case lexer.LPAREN:
		p.next()
		if p.cur.Type == lexer.RPAREN {
			p.next()
			lit := &ast.Literal{Kind: ast.LitUnit}
			lit.Loc = loc
			return lit
		}
		inner := p.parseExpr()
		p.expect(lexer.RPAREN)
		return inner

	case lexer.LBRACE:
		return p.parseBlock()

	case lexer.IF:
		return p.parseIf()

	case lexer.VAR:
		return p.parseVarExpr()

	default:
		p.errorHere("unexpected token %q in expression", p.cur.Literal)
		lit := &ast.Literal{Kind: ast.LitUnit}
		lit.Loc = loc
		p.next()
		return lit
	}
}

func (p *Parser) parseVarExpr() ast.Expr {
	loc := p.loc()
	p.next()
	name := p.expect(lexer.IDENT).Literal
	p.expect(lexer.ASSIGN)
	val := p.parseExpr()
	v := &ast.VarExpr{Name: name, Value: val}
	v.Loc = loc
	return v
}

func (p *Parser) parseIf() ast.Expr {
	loc := p.loc()
	p.next()
	cond := p.parseExpr()
	then := p.parseBlock()
	var els ast.Expr
	if p.cur.Type == lexer.ELSE {
		p.next()
		if p.cur.Type == lexer.IF {
			els = p.parseIf()
		} else {
			els = p.parseBlock()
		}
	}
	ie := &ast.IfExpr{Cond: cond, Then: then, Else: els}
	ie.Loc = loc
	return ie
}

// parseBlock parses `{ expr; expr; ... }`. A leading `return expr;` is
// just an expression statement; the trailing expression's value is the
// block's value, matching the constraint generator's rule in §4.6.
func (p *Parser) parseBlock() *ast.Block {
	loc := p.loc()
	p.expect(lexer.LBRACE)
	b := &ast.Block{}
	b.Loc = loc

	for p.cur.Type != lexer.RBRACE && p.cur.Type != lexer.EOF {
		if p.cur.Type == lexer.RETURN {
			p.next()
		}
		e := p.parseExpr()
		b.Exprs = append(b.Exprs, e)
		p.skipSemi()
	}
	p.expect(lexer.RBRACE)
	return b
}
