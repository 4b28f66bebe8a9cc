package versionfile

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

// manifest is the on-disk module list, for trees whose modules cannot be
// discovered from Go sources.
//
//	modules:
//	  - name: core
//	    path: core
//	    kind: generic
//	  - name: docs
//	    source: false
type manifest struct {
	Modules []manifestModule `yaml:"modules"`
}

type manifestModule struct {
	Name   string `yaml:"name"`
	Path   string `yaml:"path"`
	Kind   string `yaml:"kind"`
	Source *bool  `yaml:"source"`
}

// LoadManifest reads a YAML module list. Relative paths are resolved against
// the manifest's directory; path defaults to the module name, kind to generic
// and source to true.
func LoadManifest(fs afero.Fs, manifestPath string) ([]Module, error) {
	data, err := afero.ReadFile(fs, manifestPath)
	if err != nil {
		return nil, fmt.Errorf("reading manifest: %w", err)
	}
	var mf manifest
	if err := yaml.Unmarshal(data, &mf); err != nil {
		return nil, fmt.Errorf("parsing manifest %s: %w", manifestPath, err)
	}

	base := filepath.Dir(manifestPath)
	seen := make(map[string]bool, len(mf.Modules))
	modules := make([]Module, 0, len(mf.Modules))
	for i, mm := range mf.Modules {
		if mm.Name == "" {
			return nil, fmt.Errorf("manifest %s: module %d has no name", manifestPath, i)
		}
		if seen[mm.Name] {
			return nil, fmt.Errorf("manifest %s: duplicate module name %q", manifestPath, mm.Name)
		}
		seen[mm.Name] = true

		kind := ModuleKind(mm.Kind)
		switch kind {
		case "":
			kind = KindGeneric
		case KindGeneric, KindExecutable, KindTest:
		default:
			return nil, fmt.Errorf("manifest %s: module %q has unknown kind %q", manifestPath, mm.Name, mm.Kind)
		}

		dir := mm.Path
		if dir == "" {
			dir = mm.Name
		}
		if !filepath.IsAbs(dir) {
			dir = filepath.Join(base, dir)
		}

		source := true
		if mm.Source != nil {
			source = *mm.Source
		}
		modules = append(modules, Module{Name: mm.Name, Dir: dir, Kind: kind, Source: source})
	}
	return modules, nil
}
