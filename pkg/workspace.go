package versionfile

import (
	"fmt"
	"go/token"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
	"golang.org/x/mod/modfile"
	"golang.org/x/mod/module"
)

// DiscoverModules lists the packages of the Go source tree at root as
// modules. When root holds a go.work file only its use directories are
// scanned; otherwise the whole tree is, including nested modules.
//
// Each directory with Go source becomes a module named by its import path.
// Package main is an executable, a directory holding only _test.go files is a
// test module and a module root without Go files is reported as non-source.
// Modules are returned in lexical directory order.
func DiscoverModules(fs afero.Fs, root string) ([]Module, error) {
	root = filepath.Clean(root)

	dirs := []string{root}
	workPath := filepath.Join(root, "go.work")
	if data, err := afero.ReadFile(fs, workPath); err == nil {
		wf, err := modfile.ParseWork(workPath, data, nil)
		if err != nil {
			return nil, fmt.Errorf("parsing go.work: %w", err)
		}
		dirs = dirs[:0]
		for _, u := range wf.Use {
			dir := u.Path
			if !filepath.IsAbs(dir) {
				dir = filepath.Join(root, dir)
			}
			dirs = append(dirs, filepath.Clean(dir))
		}
	}

	var modules []Module
	for _, dir := range dirs {
		found, err := scanTree(fs, root, dir, dirs)
		if err != nil {
			return nil, err
		}
		modules = append(modules, found...)
	}
	return modules, nil
}

// moduleRoot is the go.mod that owns a directory.
type moduleRoot struct {
	dir  string
	path string
}

func scanTree(fs afero.Fs, root, start string, workDirs []string) ([]Module, error) {
	owners := map[string]moduleRoot{}
	if dir, modPath, err := locateGoMod(fs, start); err == nil {
		owners[filepath.Dir(start)] = moduleRoot{dir: dir, path: modPath}
	}

	var modules []Module
	err := afero.Walk(fs, start, func(p string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() {
			return nil
		}
		if p != start && (skipDir(info.Name()) || isOtherWorkDir(p, start, workDirs)) {
			return filepath.SkipDir
		}

		owner := owners[filepath.Dir(p)]
		hasGoMod := false
		if data, err := afero.ReadFile(fs, filepath.Join(p, "go.mod")); err == nil {
			hasGoMod = true
			if modPath := modfile.ModulePath(data); modPath != "" {
				owner = moduleRoot{dir: p, path: modPath}
			}
		}
		owners[p] = owner

		m, ok, err := classifyDir(fs, p, hasGoMod)
		if err != nil || !ok {
			return err
		}
		m.Name = moduleName(root, p, owner)
		modules = append(modules, m)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", start, err)
	}
	return modules, nil
}

func classifyDir(fs afero.Fs, dir string, hasGoMod bool) (Module, bool, error) {
	entries, err := afero.ReadDir(fs, dir)
	if err != nil {
		return Module{}, false, err
	}

	var pkgName string
	var hasSource, hasTests bool
	fset := token.NewFileSet()
	for _, fi := range entries {
		name := fi.Name()
		switch {
		case fi.IsDir() || !strings.HasSuffix(name, ".go"):
		case strings.HasSuffix(name, "_test.go"):
			hasTests = true
		default:
			hasSource = true
			if pkgName == "" {
				pkgName = parsePackageName(fs, fset, filepath.Join(dir, name))
			}
		}
	}

	m := Module{Dir: dir, Kind: KindGeneric, Source: true}
	switch {
	case hasSource && pkgName == "main":
		m.Kind = KindExecutable
	case hasSource:
	case hasTests:
		m.Kind = KindTest
	case hasGoMod:
		m.Source = false
	default:
		return Module{}, false, nil
	}
	return m, true, nil
}

// moduleName returns the import path of dir, or its slash-separated path
// relative to root when no valid import path can be formed.
func moduleName(root, dir string, owner moduleRoot) string {
	if owner.path != "" {
		rel, err := filepath.Rel(owner.dir, dir)
		if err == nil {
			name := path.Join(owner.path, filepath.ToSlash(rel))
			if module.CheckImportPath(name) == nil {
				return name
			}
		}
	}
	rel, err := filepath.Rel(root, dir)
	if err != nil {
		return filepath.ToSlash(dir)
	}
	return filepath.ToSlash(rel)
}

// locateGoMod walks up from startDir until it finds a go.mod and returns its
// directory and module path.
func locateGoMod(fs afero.Fs, startDir string) (string, string, error) {
	d := startDir
	for {
		if data, err := afero.ReadFile(fs, filepath.Join(d, "go.mod")); err == nil {
			return d, modfile.ModulePath(data), nil
		}
		parent := filepath.Dir(d)
		if parent == d {
			break
		}
		d = parent
	}
	return "", "", os.ErrNotExist
}

func skipDir(name string) bool {
	return name == "vendor" || name == "testdata" ||
		strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_")
}

func isOtherWorkDir(dir, start string, workDirs []string) bool {
	for _, w := range workDirs {
		if w != start && w == dir {
			return true
		}
	}
	return false
}
