package versionfile

import (
	"fmt"
	"strings"
)

// Release is the kind of increment requested from the calculator.
type Release string

const (
	Patch      Release = "patch"
	Minor      Release = "minor"
	Major      Release = "major"
	Final      Release = "release"
	Prerelease Release = "prerel"
)

// Releases returns every valid release kind in declaration order.
func Releases() []Release {
	return []Release{Patch, Minor, Major, Final, Prerelease}
}

// ParseRelease maps a wire token to its Release.
func ParseRelease(s string) (Release, error) {
	for _, r := range Releases() {
		if string(r) == s {
			return r, nil
		}
	}
	return "", &ValidationError{
		Msg: fmt.Sprintf("Invalid bump value `%s` - valid options are: %s", s, releaseOptions()),
	}
}

func releaseOptions() string {
	opts := make([]string, 0, len(Releases()))
	for _, r := range Releases() {
		opts = append(opts, string(r))
	}
	return strings.Join(opts, " | ")
}
