// Package source implements the Source Provider (spec §4.1): it maps a
// module name to file content plus an absolute canonical path. It is a
// capability — the FileProvider below reads real files, but any
// implementation satisfying Provider may be substituted (an in-memory
// provider serving unsaved editor buffers, a package-cache-backed one
// for an LSP host) without the loader changing at all.
package source

import (
	"os"
	"path/filepath"

	"github.com/sunholo/etude/internal/errors"
	"github.com/sunholo/etude/internal/lexer"
	"github.com/sunholo/etude/internal/manifest"
)

// Provider opens a module by name and returns its normalized content and
// absolute canonical path.
type Provider interface {
	Open(moduleName string) (content []byte, absPath string, err error)
}

// FileProvider is the default Provider: it searches the working
// directory, then any manifest-declared search paths, then the stdlib
// directory named by ETUDE_STDLIB (or the manifest's stdlib override).
type FileProvider struct {
	WorkDir  string
	StdlibEnv string // value of ETUDE_STDLIB, captured at construction
	Manifest *manifest.Manifest
}

// NewFileProvider builds a FileProvider rooted at workDir, loading
// etude.yaml from workDir if present and reading ETUDE_STDLIB from the
// environment.
func NewFileProvider(workDir string) (*FileProvider, error) {
	m, err := manifest.Load(workDir)
	if err != nil {
		return nil, err
	}
	return &FileProvider{
		WorkDir:   workDir,
		StdlibEnv: os.Getenv("ETUDE_STDLIB"),
		Manifest:  m,
	}, nil
}

func (p *FileProvider) stdlibDir() string {
	if p.Manifest != nil && p.Manifest.Stdlib != "" {
		return p.Manifest.Stdlib
	}
	return p.StdlibEnv
}

// Open implements Provider. Search order: (1) <name>.et in the working
// directory; (2) <name>.et under each manifest search path; (3)
// <name>.et under the stdlib directory. Fails MissingStandardLibrary if
// absent from (1)/(2) and no stdlib directory is configured;
// FileNotFound otherwise.
func (p *FileProvider) Open(moduleName string) ([]byte, string, error) {
	candidates := []string{filepath.Join(p.WorkDir, moduleName+".et")}

	if p.Manifest != nil {
		for _, sp := range p.Manifest.SearchPaths {
			dir := sp
			if !filepath.IsAbs(dir) {
				dir = filepath.Join(p.WorkDir, dir)
			}
			candidates = append(candidates, filepath.Join(dir, moduleName+".et"))
		}
	}

	for _, path := range candidates {
		if data, err := os.ReadFile(path); err == nil {
			abs, _ := filepath.Abs(path)
			return lexer.Normalize(data), abs, nil
		}
	}

	stdlib := p.stdlibDir()
	if stdlib == "" {
		return nil, "", errors.New(errors.MOD001, "loader",
			"module %q not found in working directory and no stdlib path is configured", moduleName)
	}

	path := filepath.Join(stdlib, moduleName+".et")
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, "", errors.New(errors.LDR001, "loader", "module %q not found (searched %v and stdlib %q)",
			moduleName, candidates, stdlib)
	}
	abs, _ := filepath.Abs(path)
	return lexer.Normalize(data), abs, nil
}
