// Package versionfile maintains a generated version record in every module of
// a multi-module source tree.
//
// It provides functionalities for:
//   - Parsing an invocation (--bump <release> | --create <version>, repeatable --target)
//     into exactly one Command.
//   - Selecting the modules to process from a host-provided module list, either
//     discovered from go.work/go.mod files or loaded from a YAML manifest.
//   - Reading the current version from a module's version record.
//   - Delegating the version arithmetic to an external calculator executable
//     invoked as `semver bump <release> <current>`.
//   - Rendering and atomically replacing the version record.
//
// Modules are processed one at a time; the first failure stops the run and
// records already written earlier in the run are kept.
//
// Usage Example:
//
//	import (
//	    "context"
//	    "log"
//
//	    "github.com/spf13/afero"
//	    versionfile "github.com/bcomnes/versionfile/pkg"
//	)
//
//	func main() {
//	    fs := afero.NewOsFs()
//	    modules, err := versionfile.DiscoverModules(fs, ".")
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    _, err = versionfile.Run(context.Background(), []string{"--bump", "patch"}, versionfile.Options{
//	        FS:      fs,
//	        Modules: modules,
//	        Tool:    versionfile.NewSemverTool("semver", nil),
//	    })
//	    if err != nil {
//	        log.Fatalf("version bump failed: %v", err)
//	    }
//	}
package versionfile
