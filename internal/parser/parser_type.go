package parser

import (
	"github.com/sunholo/etude/internal/ast"
	"github.com/sunholo/etude/internal/lexer"
)

// parseTypeExpr parses a surface type annotation: a bare name (`Int`,
// `T`) or a type-constructor application (`List(Int)`).
func (p *Parser) parseTypeExpr() ast.TypeExpr {
	t := &ast.NamedTypeExpr{}
	t.Loc = p.loc()
	t.Name = p.expect(lexer.IDENT).Literal

	if p.cur.Type == lexer.LPAREN {
		p.next()
		for p.cur.Type != lexer.RPAREN && p.cur.Type != lexer.EOF {
			t.Args = append(t.Args, p.parseTypeExpr())
			if p.cur.Type == lexer.COMMA {
				p.next()
			}
		}
		p.expect(lexer.RPAREN)
	}
	return t
}
