package versionfile

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownArguments is returned when an invocation carries neither --bump
// nor --create.
var ErrUnknownArguments = errors.New("Unknown arguments")

// ValidationError reports a bad, missing or conflicting flag value.
type ValidationError struct {
	Msg string
	Err error
}

func (e *ValidationError) Error() string {
	if e.Msg == "" && e.Err != nil {
		return e.Err.Error()
	}
	return e.Msg
}

func (e *ValidationError) Unwrap() error { return e.Err }

// IOError reports a version record that could not be read or written.
type IOError struct {
	Op   string // "read" or "write"
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("failed to %s version file %q: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }

// ParseError reports a version record with no version number in it. Content
// holds the whole file so the failure can be diagnosed from the message alone.
type ParseError struct {
	Path    string
	Content string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("unable to parse current version number from %s: %s", e.Path, e.Content)
}

// ExternalToolError reports a calculator invocation that did not exit cleanly.
type ExternalToolError struct {
	Tool     string
	Args     []string
	Reason   string // e.g. "exit:3", "signal:killed", "timed out"
	ExitCode int
	Stderr   string
}

func (e *ExternalToolError) Error() string {
	msg := fmt.Sprintf("%s %s invocation failed: %s", e.Tool, strings.Join(e.Args, " "), e.Reason)
	if s := strings.TrimSpace(e.Stderr); s != "" {
		msg += ", detail: " + s
	}
	return msg
}
