// Package parser turns a token stream into a module AST. It is a thin
// recursive-descent implementation: the core pipeline (module loading,
// scope resolution, inference, monomorphization) depends only on the
// AST node shapes it produces (internal/ast), never on parser internals
// — spec §4.2 describes the parser as an external collaborator, and this
// package exists only so the rest of the pipeline has real input to run
// against.
package parser

import (
	"github.com/sunholo/etude/internal/ast"
	"github.com/sunholo/etude/internal/errors"
	"github.com/sunholo/etude/internal/lexer"
)

// Parser holds the token stream and one token of lookahead.
type Parser struct {
	moduleName string
	lex        *lexer.Lexer
	cur        lexer.Token
	peek       lexer.Token
	errs       []error
}

// New creates a Parser over src, tagging every produced Location with
// moduleName.
func New(moduleName string, src []byte) *Parser {
	p := &Parser{moduleName: moduleName, lex: lexer.New(lexer.Normalize(src))}
	p.next()
	p.next()
	return p
}

// Errors returns every SyntaxError (PAR001) accumulated during Parse.
func (p *Parser) Errors() []error { return p.errs }

func (p *Parser) next() {
	p.cur = p.peek
	p.peek = p.lex.Next()
}

func (p *Parser) loc() ast.Location {
	return ast.Location{Module: p.moduleName, Line: p.cur.Line, Column: p.cur.Column}
}

func (p *Parser) errorHere(format string, args ...any) {
	p.errs = append(p.errs, errors.At(errors.PAR001, "parser", p.loc(), format, args...))
}

func (p *Parser) expect(tt lexer.TokenType) lexer.Token {
	if p.cur.Type != tt {
		p.errorHere("unexpected token %q", p.cur.Literal)
		return p.cur
	}
	t := p.cur
	p.next()
	return t
}

// ParseModule parses an entire source file into an *ast.Module.
func (p *Parser) ParseModule() *ast.Module {
	mod := &ast.Module{Exports: map[string]bool{}}
	mod.Loc = p.loc()

	if p.cur.Type == lexer.MODULE {
		p.next()
		name := p.expect(lexer.IDENT)
		mod.Name = name.Literal
		p.skipSemi()
	}

	for p.cur.Type == lexer.IMPORT {
		importLoc := p.loc()
		p.next()
		name := p.expect(lexer.IDENT)
		imp := &ast.Import{Name: name.Literal}
		imp.Loc = importLoc
		mod.Imports = append(mod.Imports, imp)
		p.skipSemi()
	}

	for p.cur.Type != lexer.EOF {
		exported := false
		if p.cur.Type == lexer.EXPORT {
			exported = true
			p.next()
		}
		decl := p.parseDecl()
		if decl == nil {
			p.next() // avoid infinite loop on unrecoverable token
			continue
		}
		mod.Decls = append(mod.Decls, decl)
		if exported {
			mod.Exports[declName(decl)] = true
		}
	}

	return mod
}

func declName(d ast.Decl) string {
	switch d := d.(type) {
	case *ast.FuncDecl:
		return d.Name
	case *ast.VarDecl:
		return d.Name
	case *ast.TypeDecl:
		return d.Name
	case *ast.TraitDecl:
		return d.Name
	}
	return ""
}

func (p *Parser) skipSemi() {
	if p.cur.Type == lexer.SEMI {
		p.next()
	}
}
