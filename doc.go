// Package main implements the versionfile CLI tool.
//
// The versionfile tool keeps a generated version file (default "version.go") in
// every module of a multi-module source tree. It either creates the file with an
// explicit version or bumps the version already recorded in it. Bumping is
// delegated to an external calculator, invoked as "semver bump <release> <version>",
// and each bumped version is printed on its own line.
//
// Command Usage:
//
//	versionfile (--bump <release> | --create <version>) [--target <name>]... [flags]
//
// Flags:
//
//	--bump:     Bump the recorded version. One of: patch, minor, major, release, prerel.
//	            Takes precedence when --create is also given.
//	--create:   Write the given version as-is, replacing any existing file.
//	--target:   Restrict the run to the named module (its import path). May be repeated.
//	            Names that match no module are ignored.
//	--verbose:  Print the parsed invocation and a table of every module first.
//	--dry-run:  Compute new versions without writing any file.
//	--tool:     Calculator executable (defaults to "semver" on PATH).
//	--file:     Name of the version file inside each module.
//	--root:     Source tree to discover modules in (defaults to ".").
//	--manifest: YAML module list to use instead of discovery.
//	--timeout:  Kill the calculator and fail after this long (0 waits forever).
//	--version:  Displays the version of the versionfile CLI tool and exits.
//
// Settings other than the command flags may also come from .versionfile.yaml in
// the working directory or from VERSIONFILE_* environment variables.
//
// Modules are the packages found under --root: go.work use directories when a
// go.work file exists, otherwise every go.mod below the root. Library and main
// packages are processed; packages holding only tests and module roots without
// Go files are skipped.
//
// Examples:
//
//	# Create version.go with 0.1.0 in every package
//	versionfile --create 0.1.0
//
//	# Bump the patch version (e.g. 1.2.3 → 1.2.4) of one package
//	versionfile --bump patch --target example.com/m/api
//
//	# Bump the minor version of every package using a module list
//	versionfile --manifest modules.yaml --bump minor
//
// The run stops at the first failing module. Version files already written for
// earlier modules in the same run are kept.
//
// For library usage see the documentation of the "pkg" package.
package main
