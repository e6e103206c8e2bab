// Package loader implements the Module Loader & Topological Sort (spec
// §4.3): it walks a root module's import graph via the source.Provider,
// parses each file reached, and returns the full module set in
// dependency order (dependencies before dependents), detecting import
// cycles and duplicate exports along the way.
//
// Grounded on the teacher's internal/loader.ModuleLoader (DFS-with-cache
// shape, cycle-path tracking) and internal/link/topo.go's DFS
// (not-seen/in-progress/finished states, LDR002 cycle reporting), and on
// original_source/src/driver/compil_driver.hpp's CompilationDriver::TopSort
// and RegisterSymbols.
package loader

import (
	"fmt"
	"sort"

	"github.com/sunholo/etude/internal/ast"
	"github.com/sunholo/etude/internal/errors"
	"github.com/sunholo/etude/internal/module"
	"github.com/sunholo/etude/internal/parser"
	"github.com/sunholo/etude/internal/scope"
	"github.com/sunholo/etude/internal/source"
)

// state is a module's DFS visitation state, matching the classic
// three-color cycle-detection scheme.
type state int

const (
	notSeen state = iota
	inProgress
	finished
)

// Loader loads a program's full module graph from a single entry point.
type Loader struct {
	provider source.Provider

	modules map[string]*module.Module
	state   map[string]state
	path    []string // current DFS stack, for cycle-path reporting
}

// New creates a Loader that reads module source through provider.
func New(provider source.Provider) *Loader {
	return &Loader{
		provider: provider,
		modules:  make(map[string]*module.Module),
		state:    make(map[string]state),
	}
}

// Load walks the import graph starting at rootName and returns every
// reached module in topological (dependency-first) order. A cycle
// anywhere in the graph fails the whole load with LDR002, carrying the
// cycle's module names in encounter order.
func (l *Loader) Load(rootName string) ([]*module.Module, error) {
	var sorted []*module.Module
	if err := l.visit(rootName, ast.Location{}, &sorted); err != nil {
		return nil, err
	}
	return sorted, nil
}

// visit loads name and everything it imports, recording the result in
// sorted in dependency-first order. importLoc is the location of the
// import statement that referenced name (the zero Location for the
// root module, which nothing imports); every error that originates at
// or below this name is wrapped with it, so the caller sees the import
// chain's entry point rather than a bare, unlocated failure (spec §4.3,
// §7).
func (l *Loader) visit(name string, importLoc ast.Location, sorted *[]*module.Module) error {
	switch l.state[name] {
	case finished:
		return nil
	case inProgress:
		cycle := append(append([]string{}, l.path...), name)
		err := errors.At(errors.LDR002, "loader", importLoc, "import cycle: %v", cycle)
		if rep, ok := errors.AsReport(err); ok && len(l.path) > 0 {
			rep.Fix = fmt.Sprintf("remove the import of %q from module %q to break the cycle", name, l.path[len(l.path)-1])
		}
		return err
	}

	l.state[name] = inProgress
	l.path = append(l.path, name)

	content, absPath, err := l.provider.Open(name)
	if err != nil {
		return wrapWithLoc(err, importLoc)
	}

	p := parser.New(name, content)
	file := p.ParseModule()
	if errs := p.Errors(); len(errs) > 0 {
		return errs[0]
	}
	if file.Name == "" {
		file.Name = name
	}

	mod := module.FromAST(name, absPath, file)
	l.modules[name] = mod

	for _, imp := range mod.Imports {
		if err := l.visit(imp.Name, imp.Pos(), sorted); err != nil {
			return wrapWithLoc(err, imp.Pos())
		}
	}

	l.state[name] = finished
	l.path = l.path[:len(l.path)-1]
	*sorted = append(*sorted, mod)
	return nil
}

// wrapWithLoc attaches loc to err's Report if it doesn't already carry
// a location, so the innermost failure (a cycle, a missing file) keeps
// reporting at the import statement closest to it rather than being
// overwritten on the way back up the recursion.
func wrapWithLoc(err error, loc ast.Location) error {
	rep, ok := errors.AsReport(err)
	if !ok || rep.Loc != nil {
		return err
	}
	rep.Loc = &loc
	return err
}

// ExportIndex is the program-wide map of exported name to owning
// module, built once after every module in the graph has loaded (spec
// §4.3's "Export Index"). It implements scope.ExportIndex so module
// root Contexts can resolve an imported name without this package
// importing scope's builder (which would create a cycle the other way).
type ExportIndex struct {
	owner map[string]*module.Module
}

// BuildExportIndex scans every module's declared Exports set and
// records which module owns each exported name, failing MOD002 on the
// first name exported by more than one module.
func BuildExportIndex(modules []*module.Module) (*ExportIndex, error) {
	idx := &ExportIndex{owner: make(map[string]*module.Module)}

	seen := make(map[string]*module.Module)
	for _, m := range modules {
		names := make([]string, 0, len(m.Exports))
		for name := range m.Exports {
			names = append(names, name)
		}
		sort.Strings(names) // deterministic MOD002 reporting order
		for _, name := range names {
			if other, dup := seen[name]; dup {
				return nil, errors.New(errors.MOD002, "loader",
					"%q is exported by both %q and %q", name, other.Name, m.Name)
			}
			seen[name] = m
		}
	}
	idx.owner = seen
	return idx, nil
}

// Lookup implements scope.ExportIndex. It looks the owning module's
// root scope up for name's Symbol; the module's Root must already be
// built (i.e. Lookup is only valid once every module's scope tree has
// been constructed).
func (idx *ExportIndex) Lookup(name string) (*scope.Symbol, bool) {
	m, ok := idx.owner[name]
	if !ok || m.Root == nil {
		return nil, false
	}
	sym := m.Root.FindLocal(name)
	return sym, sym != nil
}
