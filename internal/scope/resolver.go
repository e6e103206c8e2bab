package scope

import (
	"github.com/sunholo/etude/internal/ast"
	"github.com/sunholo/etude/internal/errors"
	"github.com/sunholo/etude/internal/types"
)

// FindDeclForUsage resolves name as it would read AT usage: the latest
// binding of that name, in the chain of enclosing scopes, declared at
// or before usage's source position. This differs from FindLocal, which
// always returns the FIRST declaration of a name in a layer; here a
// later `var x = ...` in the same block shadows an earlier one for any
// usage that appears after it (spec §4.4, §8 scenario 4).
//
// Grounded on original_source/src/ast/scope/context.cpp's
// Context::FindDeclForUsage.
func (c *Context) FindDeclForUsage(name string, usage ast.Location) (*Symbol, bool) {
	if sym, ok := c.latestBefore(name, usage); ok {
		return sym, true
	}
	if c.Parent != nil {
		return c.Parent.FindDeclForUsage(name, usage)
	}
	if c.Exports != nil {
		return c.Exports.Lookup(name)
	}
	return nil, false
}

// latestBefore scans this layer's symbols (in declaration order, not
// just the name index) for the one of name declared at or before usage
// whose declaration is latest. A plain map lookup would always return
// the first declaration instead, which is wrong once a name is
// rebound within the same layer.
func (c *Context) latestBefore(name string, usage ast.Location) (*Symbol, bool) {
	var found *Symbol
	for _, sym := range c.Bindings.Symbols {
		if sym.Name != name {
			continue
		}
		if !sym.DeclaredAt.Before(usage) {
			continue
		}
		if found == nil || found.DeclaredAt.Before(sym.DeclaredAt) {
			found = sym
		}
	}
	return found, found != nil
}

// ResolveConstructor implements types.ConsResolver: it looks up name as
// a KindType symbol reachable from c and, if its definition is a TCons
// node (the scope builder stores every TypeDecl, struct, sum or alias,
// that way), returns its parameter names and body. This is the one place types.Type reaches back into a
// scope, satisfied structurally so internal/types never imports this
// package.
func (c *Context) ResolveConstructor(name string) ([]string, *types.Type, bool) {
	sym := c.FindLocal(name)
	if sym == nil && c.Exports != nil {
		sym, _ = c.Exports.Lookup(name)
	}
	if sym == nil || sym.Kind != KindType || sym.Type == nil {
		return nil, nil, false
	}
	cons := types.FindLeader(sym.Type.Type)
	if cons.Tag != types.TCons {
		return nil, nil, false
	}
	return cons.ConsParams, cons.ConsBody, true
}

// Undeclared reports the spec §4.4 "unresolved, non-exported reference"
// error (SCP001) for a usage that resolved to nothing anywhere in the
// chain, including the Export Index.
func Undeclared(name string, usage ast.Location) error {
	return errors.At(errors.SCP001, "scope", usage, "undeclared name %q", name)
}
