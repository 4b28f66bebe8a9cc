package versionfile

import (
	"regexp"

	"github.com/spf13/afero"
)

// versionPattern matches the leading numeric dotted run of a version number.
// Pre-release and build suffixes are not part of the match.
var versionPattern = regexp.MustCompile(`([0-9]+\.*)+`)

// ReadVersion reads the version record at path and returns the first version
// number found in it.
func ReadVersion(fs afero.Fs, path string) (string, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return "", &IOError{Op: "read", Path: path, Err: err}
	}
	return ExtractVersion(path, string(data))
}

// ExtractVersion returns the first version number in content. path is only
// used for error reporting.
func ExtractVersion(path, content string) (string, error) {
	v := versionPattern.FindString(content)
	if v == "" {
		return "", &ParseError{Path: path, Content: content}
	}
	return v, nil
}
