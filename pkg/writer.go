package versionfile

import (
	"fmt"
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/spf13/afero"
)

// defaultPackageName is used when no package clause can be found near the
// version record.
const defaultPackageName = "version"

var packageClause = regexp.MustCompile(`(?m)^package\s+(\w+)`)

// RenderVersionFile returns the contents of a version record for version.
// The version is repeated in a header comment above the package clause, so
// ReadVersion finds it before any digits in the package name.
func RenderVersionFile(pkgName, version string) string {
	return fmt.Sprintf(`// Code generated by versionfile. DO NOT EDIT.
// Version: %s

package %s

// Version is the current version of the package in which this file is contained.
const Version = %q
`, version, pkgName, version)
}

// WriteVersion renders version into the record at path, replacing whatever was
// there. The file is written to a temporary file in the same directory and
// renamed into place, so path holds either the old or the new content.
func WriteVersion(fs afero.Fs, version, path string) error {
	content := RenderVersionFile(determinePackageName(fs, path), version)
	if err := atomicWriteFile(fs, path, []byte(content)); err != nil {
		return &IOError{Op: "write", Path: path, Err: err}
	}
	return nil
}

// determinePackageName returns the package name for the record at path. It
// prefers the package clause of the existing record, then the clause of any
// other non-test Go file in the directory, then defaultPackageName.
func determinePackageName(fs afero.Fs, path string) string {
	if data, err := afero.ReadFile(fs, path); err == nil {
		if m := packageClause.FindSubmatch(data); m != nil {
			return string(m[1])
		}
	}

	dir := filepath.Dir(path)
	entries, err := afero.ReadDir(fs, dir)
	if err != nil {
		return defaultPackageName
	}
	fset := token.NewFileSet()
	for _, fi := range entries {
		name := fi.Name()
		if fi.IsDir() || !isGoSource(name) || filepath.Join(dir, name) == filepath.Clean(path) {
			continue
		}
		if pkg := parsePackageName(fs, fset, filepath.Join(dir, name)); pkg != "" {
			return pkg
		}
	}
	return defaultPackageName
}

func parsePackageName(fs afero.Fs, fset *token.FileSet, path string) string {
	src, err := afero.ReadFile(fs, path)
	if err != nil {
		return ""
	}
	f, err := parser.ParseFile(fset, path, src, parser.PackageClauseOnly)
	if err != nil {
		return ""
	}
	return f.Name.Name
}

func isGoSource(name string) bool {
	return strings.HasSuffix(name, ".go") && !strings.HasSuffix(name, "_test.go")
}

func atomicWriteFile(fs afero.Fs, path string, data []byte) error {
	perm := os.FileMode(0644)
	if fi, err := fs.Stat(path); err == nil {
		perm = fi.Mode().Perm()
	}

	tmp, err := afero.TempFile(fs, filepath.Dir(path), filepath.Base(path)+".tmp.*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		fs.Remove(tmpPath)
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		fs.Remove(tmpPath)
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		fs.Remove(tmpPath)
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := fs.Chmod(tmpPath, perm); err != nil {
		fs.Remove(tmpPath)
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err := fs.Rename(tmpPath, path); err != nil {
		fs.Remove(tmpPath)
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}
