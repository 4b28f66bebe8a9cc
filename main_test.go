package main

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	versionfile "github.com/bcomnes/versionfile/pkg"
)

// TestMain triggers the CLI as a subprocess when GO_HELPER_PROCESS is set,
// and stands in for the version calculator when GO_HELPER_SEMVER is set.
func TestMain(m *testing.M) {
	if os.Getenv("GO_HELPER_SEMVER") == "1" && len(os.Args) > 1 && os.Args[1] == "bump" {
		os.Exit(fakeSemver(os.Args[2:]))
	}
	if os.Getenv("GO_HELPER_PROCESS") == "1" {
		main()
		os.Exit(0)
	}
	os.Exit(m.Run())
}

// fakeSemver implements "bump <release> <version>" for patch, minor and major.
// It fails for the version named by GO_HELPER_SEMVER_FAIL.
func fakeSemver(args []string) int {
	if len(args) != 2 {
		fmt.Fprintln(os.Stderr, "usage: bump <release> <version>")
		return 2
	}
	if args[1] == os.Getenv("GO_HELPER_SEMVER_FAIL") {
		fmt.Fprintf(os.Stderr, "refusing to bump %s\n", args[1])
		return 3
	}
	parts := strings.Split(args[1], ".")
	if len(parts) != 3 {
		fmt.Fprintf(os.Stderr, "invalid version %q\n", args[1])
		return 2
	}
	var n [3]int
	for i, p := range parts {
		v, err := strconv.Atoi(p)
		if err != nil {
			fmt.Fprintf(os.Stderr, "invalid version %q\n", args[1])
			return 2
		}
		n[i] = v
	}
	switch args[0] {
	case "patch":
		n[2]++
	case "minor":
		n[1], n[2] = n[1]+1, 0
	case "major":
		n[0], n[1], n[2] = n[0]+1, 0, 0
	default:
		fmt.Fprintf(os.Stderr, "unsupported release %q\n", args[0])
		return 2
	}
	fmt.Printf("%d.%d.%d\n", n[0], n[1], n[2])
	return 0
}

// newTree lays out a small module:
//
//	api/       library, version 1.2.3
//	cmd/tool/  executable, version 0.9.0
//	e2e/       tests only
//	z/         library, version 3.0.0
func newTree(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	files := map[string]string{
		"go.mod":              "module example.com/m\n\ngo 1.22\n",
		"api/api.go":          "package api\n",
		"api/version.go":      versionfile.RenderVersionFile("api", "1.2.3"),
		"cmd/tool/main.go":    "package main\n\nfunc main() {}\n",
		"cmd/tool/version.go": versionfile.RenderVersionFile("main", "0.9.0"),
		"e2e/e2e_test.go":     "package e2e_test\n",
		"z/z.go":              "package z\n",
		"z/version.go":        versionfile.RenderVersionFile("z", "3.0.0"),
	}
	for name, content := range files {
		p := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(p), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(p, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

// runCLI runs the CLI in helper process mode inside dir, with the test binary
// itself as the version calculator.
func runCLI(dir string, args []string, extraEnv ...string) (string, error) {
	cmd := exec.Command(os.Args[0], args...)
	cmd.Dir = dir
	cmd.Env = append(os.Environ(),
		"GO_HELPER_PROCESS=1",
		"GO_HELPER_SEMVER=1",
		"VERSIONFILE_TOOL="+os.Args[0],
	)
	cmd.Env = append(cmd.Env, extraEnv...)
	out, err := cmd.CombinedOutput()
	return string(out), err
}

func readFile(t *testing.T, dir, name string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(dir, name))
	if err != nil {
		t.Fatal(err)
	}
	return string(data)
}

func TestCLIHelp(t *testing.T) {
	out, _ := runCLI(t.TempDir(), []string{"--help"})
	if !strings.Contains(out, "Usage:") || !strings.Contains(out, "--bump") {
		t.Errorf("expected help output, got:\n%s", out)
	}
}

func TestCLIVersionFlag(t *testing.T) {
	out, _ := runCLI(t.TempDir(), []string{"--version"})
	if !strings.Contains(out, Version) {
		t.Errorf("expected CLI version in output, got:\n%s", out)
	}
}

func TestCLIUnknownArguments(t *testing.T) {
	dir := newTree(t)
	out, err := runCLI(dir, []string{"--target", "example.com/m/api"})
	if err == nil {
		t.Fatalf("expected a non-zero exit, got output:\n%s", out)
	}
	if !strings.Contains(out, "Error: Unknown arguments") {
		t.Errorf("expected unknown arguments error, got:\n%s", out)
	}
}

func TestCLIInvalidBump(t *testing.T) {
	dir := newTree(t)
	out, err := runCLI(dir, []string{"--bump", "tiny"})
	if err == nil {
		t.Fatalf("expected a non-zero exit, got output:\n%s", out)
	}
	if !strings.Contains(out, "Invalid bump value `tiny`") {
		t.Errorf("expected invalid bump error, got:\n%s", out)
	}
	if got := readFile(t, dir, "api/version.go"); got != versionfile.RenderVersionFile("api", "1.2.3") {
		t.Errorf("version file changed on invalid input:\n%s", got)
	}
}

func TestCLIPatchBump(t *testing.T) {
	dir := newTree(t)
	out, err := runCLI(dir, []string{"--bump", "patch"})
	if err != nil {
		t.Fatalf("CLI failed: %v\n%s", err, out)
	}
	if out != "1.2.4\n0.9.1\n3.0.1\n" {
		t.Errorf("unexpected output %q", out)
	}

	expected := map[string]string{
		"api/version.go":      versionfile.RenderVersionFile("api", "1.2.4"),
		"cmd/tool/version.go": versionfile.RenderVersionFile("main", "0.9.1"),
		"z/version.go":        versionfile.RenderVersionFile("z", "3.0.1"),
	}
	for name, want := range expected {
		if got := readFile(t, dir, name); got != want {
			t.Errorf("%s:\n%s\nexpected:\n%s", name, got, want)
		}
	}
	if _, err := os.Stat(filepath.Join(dir, "e2e", "version.go")); !os.IsNotExist(err) {
		t.Errorf("test-only package must not get a version file")
	}
}

func TestCLITargetFilter(t *testing.T) {
	dir := newTree(t)
	out, err := runCLI(dir, []string{"--target", "example.com/m/z", "--bump", "major", "--target", "example.com/m/e2e"})
	if err != nil {
		t.Fatalf("CLI failed: %v\n%s", err, out)
	}
	if out != "4.0.0\n" {
		t.Errorf("unexpected output %q", out)
	}
	if got := readFile(t, dir, "api/version.go"); !strings.Contains(got, `"1.2.3"`) {
		t.Errorf("unselected module was modified:\n%s", got)
	}
}

func TestCLICreate(t *testing.T) {
	dir := newTree(t)
	if err := os.WriteFile(filepath.Join(dir, "z", "version.go"), []byte("not a version\n"), 0644); err != nil {
		t.Fatal(err)
	}

	out, err := runCLI(dir, []string{"--create", "2.0.0"})
	if err != nil {
		t.Fatalf("CLI failed: %v\n%s", err, out)
	}
	if out != "" {
		t.Errorf("create should print nothing, got %q", out)
	}
	if got := readFile(t, dir, "z/version.go"); got != versionfile.RenderVersionFile("z", "2.0.0") {
		t.Errorf("z/version.go:\n%s", got)
	}
	if got := readFile(t, dir, "cmd/tool/version.go"); got != versionfile.RenderVersionFile("main", "2.0.0") {
		t.Errorf("cmd/tool/version.go:\n%s", got)
	}
}

func TestCLIStopsAtFirstFailure(t *testing.T) {
	dir := newTree(t)
	out, err := runCLI(dir, []string{"--bump", "patch"}, "GO_HELPER_SEMVER_FAIL=0.9.0")
	if err == nil {
		t.Fatalf("expected a non-zero exit, got output:\n%s", out)
	}
	if !strings.HasPrefix(out, "1.2.4\n") {
		t.Errorf("expected the first bump to be printed, got:\n%s", out)
	}
	for _, want := range []string{"example.com/m/cmd/tool", "exit:3", "refusing to bump 0.9.0"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in output, got:\n%s", want, out)
		}
	}
	if got := readFile(t, dir, "api/version.go"); !strings.Contains(got, `"1.2.4"`) {
		t.Errorf("earlier write should be kept:\n%s", got)
	}
	if got := readFile(t, dir, "z/version.go"); !strings.Contains(got, `"3.0.0"`) {
		t.Errorf("later module should be untouched:\n%s", got)
	}
}

func TestCLIConfigFile(t *testing.T) {
	dir := newTree(t)
	if err := os.WriteFile(filepath.Join(dir, ".versionfile.yaml"), []byte("file: release.go\n"), 0644); err != nil {
		t.Fatal(err)
	}

	out, err := runCLI(dir, []string{"--create", "0.1.0", "--target", "example.com/m/api"})
	if err != nil {
		t.Fatalf("CLI failed: %v\n%s", err, out)
	}
	if got := readFile(t, dir, "api/release.go"); got != versionfile.RenderVersionFile("api", "0.1.0") {
		t.Errorf("api/release.go:\n%s", got)
	}
	if got := readFile(t, dir, "api/version.go"); !strings.Contains(got, `"1.2.3"`) {
		t.Errorf("default file should be untouched:\n%s", got)
	}

	// Flags take precedence over the config file.
	out, err = runCLI(dir, []string{"--bump", "minor", "--file", "version.go", "--target", "example.com/m/api"})
	if err != nil {
		t.Fatalf("CLI failed: %v\n%s", err, out)
	}
	if out != "1.3.0\n" {
		t.Errorf("unexpected output %q", out)
	}
}

func TestCLIVerbose(t *testing.T) {
	dir := newTree(t)
	out, err := runCLI(dir, []string{"--verbose", "--dry-run", "--bump", "patch"})
	if err != nil {
		t.Fatalf("CLI failed: %v\n%s", err, out)
	}
	for _, want := range []string{"Command execution with arguments", "example.com/m/e2e", "executable", "1.2.4", "dry run"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in output, got:\n%s", want, out)
		}
	}
	if got := readFile(t, dir, "api/version.go"); !strings.Contains(got, `"1.2.3"`) {
		t.Errorf("dry run must not write:\n%s", got)
	}
}

func TestCLIManifest(t *testing.T) {
	dir := newTree(t)
	manifest := "modules:\n  - name: core\n    path: api\n  - name: tool-tests\n    path: cmd/tool\n    kind: test\n"
	if err := os.WriteFile(filepath.Join(dir, "modules.yaml"), []byte(manifest), 0644); err != nil {
		t.Fatal(err)
	}

	out, err := runCLI(dir, []string{"--manifest", "modules.yaml", "--bump", "minor"})
	if err != nil {
		t.Fatalf("CLI failed: %v\n%s", err, out)
	}
	if out != "1.3.0\n" {
		t.Errorf("unexpected output %q", out)
	}
	if got := readFile(t, dir, "cmd/tool/version.go"); !strings.Contains(got, `"0.9.0"`) {
		t.Errorf("test module should be skipped:\n%s", got)
	}
}
