// Package manifest reads an optional etude.yaml project manifest, which
// supplements the Source Provider's search order (spec §4.1) with extra
// search directories and a stdlib override, ahead of the ETUDE_STDLIB
// environment variable fallback. Grounded on the YAML-backed
// configuration style the teacher uses for its eval-harness spec files
// (internal/eval_harness/spec.go).
package manifest

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Manifest is the optional etude.yaml found at a project root.
type Manifest struct {
	SearchPaths []string `yaml:"search_paths"`
	Stdlib      string   `yaml:"stdlib"`
}

// Load reads etude.yaml from dir, if present. A missing manifest is not
// an error: it yields a zero-value Manifest, so callers fall through to
// the environment-variable-driven search order unchanged.
func Load(dir string) (*Manifest, error) {
	path := filepath.Join(dir, "etude.yaml")
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Manifest{}, nil
		}
		return nil, err
	}

	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	return &m, nil
}
