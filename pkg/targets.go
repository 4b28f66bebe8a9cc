package versionfile

import (
	"path/filepath"
	"slices"
)

// DefaultFileName is the name of the version record inside a module directory.
const DefaultFileName = "version.go"

// ModuleKind classifies a module the way the host build reports it.
type ModuleKind string

const (
	KindGeneric    ModuleKind = "generic"
	KindExecutable ModuleKind = "executable"
	KindTest       ModuleKind = "test"
)

// Module is a unit of source provided by the host, eligible for its own
// version record.
type Module struct {
	Name   string
	Dir    string
	Kind   ModuleKind
	Source bool // false for configuration-only modules
}

// VersionPath returns the path of the module's version record.
func (m Module) VersionPath(fileName string) string {
	if fileName == "" {
		fileName = DefaultFileName
	}
	return filepath.Join(m.Dir, fileName)
}

// ResolveTargets returns the modules to process, in host order. An empty
// filter selects every module; names missing from the host list are ignored.
// Only source modules of kind generic or executable are kept. Duplicates are
// passed through.
func ResolveTargets(all []Module, filter []string) []Module {
	var targets []Module
	for _, m := range all {
		if len(filter) > 0 && !slices.Contains(filter, m.Name) {
			continue
		}
		if !m.Source {
			continue
		}
		switch m.Kind {
		case KindGeneric, KindExecutable:
			targets = append(targets, m)
		case KindTest:
		}
	}
	return targets
}
