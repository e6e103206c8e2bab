// Package scope implements the Scope (Context) tree, Symbol table and
// both lookup policies described in spec §3/§4.4: FindLocal (plain,
// insertion-order-first) and the usage-aware lookup that disambiguates
// shadowed bindings by textual position. Grounded directly on
// original_source/src/ast/scope/context.{hpp,cpp} and symbol.hpp.
package scope

import (
	"github.com/sunholo/etude/internal/ast"
)

// BindingsLayer is an ordered sequence of symbols (insertion order
// preserved — shadowing and usage-position lookups depend on it) plus an
// auxiliary name index for O(1) local lookup. Mirroring the C++
// unordered_map::insert semantics it is grounded on, the index keeps the
// FIRST symbol inserted under a given name; FindLocal therefore returns
// the first declaration, while usage-aware lookup (FindDeclForUsage)
// scans the full ordered Symbols slice to find the one actually in
// effect at a given source position.
type BindingsLayer struct {
	Symbols []*Symbol
	index   map[string]*Symbol
}

func newBindingsLayer() *BindingsLayer {
	return &BindingsLayer{index: make(map[string]*Symbol)}
}

// Insert appends sym to the ordered sequence and, if no symbol of that
// name has been indexed yet in this layer, adds it to the index. Both
// updates happen atomically from the caller's viewpoint.
func (b *BindingsLayer) Insert(sym *Symbol) {
	b.Symbols = append(b.Symbols, sym)
	if _, exists := b.index[sym.Name]; !exists {
		b.index[sym.Name] = sym
	}
}

func (b *BindingsLayer) get(name string) (*Symbol, bool) {
	s, ok := b.index[name]
	return s, ok
}

// ExportIndex resolves a name visible at the top level of some OTHER
// module in the program to the symbol that module exports it as. The
// interface lives here, not in internal/module or internal/loader, so
// that this package never imports either of them (they both already
// depend on internal/scope for Context).
type ExportIndex interface {
	Lookup(name string) (*Symbol, bool)
}

// Context is a node in the scope tree: one per module, plus one per
// nested block/function that opens a new binding layer.
type Context struct {
	Name       string
	ModuleName string
	Location   ast.Location

	Parent   *Context
	Children []*Context

	Bindings *BindingsLayer

	// Exports is set only on a module's root Context, after the Export
	// Index (spec §4.3) has been built across the whole program. A
	// lookup that climbs past the root without finding a local binding
	// falls through to it.
	Exports ExportIndex
}

// NewRoot creates the module-owning root scope.
func NewRoot(moduleName string) *Context {
	return &Context{
		Name:       "<module>",
		ModuleName: moduleName,
		Bindings:   newBindingsLayer(),
	}
}

// NewChild opens a new scope layer as a child of c, recording the
// location it was opened at (spec §4.4 "Scope creation"). Exit is
// implicit in AST traversal: there is no corresponding close operation.
func (c *Context) NewChild(name string, loc ast.Location) *Context {
	child := &Context{
		Name:       name,
		ModuleName: c.ModuleName,
		Location:   loc,
		Parent:     c,
		Bindings:   newBindingsLayer(),
	}
	c.Children = append(c.Children, child)
	return child
}

// Insert adds sym to this scope's bindings layer, in source order.
func (c *Context) Insert(sym *Symbol) {
	c.Bindings.Insert(sym)
}

// FindLayer returns the nearest scope (c or an ancestor) whose bindings
// layer has an entry for name, or nil if none does.
func (c *Context) FindLayer(name string) *Context {
	if _, ok := c.Bindings.get(name); ok {
		return c
	}
	if c.Parent == nil {
		return nil
	}
	return c.Parent.FindLayer(name)
}

// FindLocal returns the symbol of that name in the nearest enclosing
// scope, searching upward by parent links; it stops at the module root
// and does not consult the Export Index.
func (c *Context) FindLocal(name string) *Symbol {
	if sym, ok := c.Bindings.get(name); ok {
		return sym
	}
	if c.Parent == nil {
		return nil
	}
	return c.Parent.FindLocal(name)
}
