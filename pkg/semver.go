package versionfile

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/mod/semver"
)

// DefaultTool is the name of the version calculator looked up on PATH.
const DefaultTool = "semver"

// SemverTool invokes the external version calculator.
type SemverTool struct {
	Path     string
	Executor Executor
	// Timeout bounds a single invocation. Zero waits for the tool to exit.
	Timeout time.Duration
	Logger  *log.Logger
}

// NewSemverTool returns a SemverTool that runs path with os/exec.
func NewSemverTool(path string, logger *log.Logger) *SemverTool {
	if path == "" {
		path = DefaultTool
	}
	return &SemverTool{Path: path, Executor: OSExecutor{}, Logger: logger}
}

// Bump asks the calculator for the version following current.
func (t *SemverTool) Bump(ctx context.Context, release Release, current string) (string, error) {
	next, err := t.Invoke(ctx, "bump", string(release), current)
	if err != nil {
		return "", err
	}
	if !semver.IsValid("v" + next) {
		t.logger().Warn("calculator returned a non-semver version", "tool", t.Path, "version", next)
	}
	return next, nil
}

// Invoke runs the calculator with args and returns its stdout without
// surrounding whitespace. Anything other than a clean exit is reported as an
// *ExternalToolError, which is also logged before it is returned.
func (t *SemverTool) Invoke(ctx context.Context, args ...string) (string, error) {
	if t.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, t.Timeout)
		defer cancel()
	}

	t.logger().Debug("invoking calculator", "tool", t.Path, "args", args)
	res, err := t.Executor.Execute(ctx, t.Path, args)
	if err != nil {
		return "", t.fail(&ExternalToolError{Tool: t.Path, Args: args, Reason: err.Error(), ExitCode: -1})
	}
	if res.Success() {
		return strings.TrimSpace(res.Stdout), nil
	}

	reason := fmt.Sprintf("exit:%d", res.ExitCode)
	switch {
	case errors.Is(ctx.Err(), context.DeadlineExceeded):
		reason = "timed out"
	case errors.Is(ctx.Err(), context.Canceled):
		reason = "canceled"
	case res.Signal != "":
		reason = "signal:" + res.Signal
	}
	return "", t.fail(&ExternalToolError{
		Tool:     t.Path,
		Args:     args,
		Reason:   reason,
		ExitCode: res.ExitCode,
		Stderr:   res.Stderr,
	})
}

func (t *SemverTool) fail(err *ExternalToolError) error {
	t.logger().Error("calculator invocation failed", "tool", err.Tool, "args", err.Args, "reason", err.Reason)
	return err
}

func (t *SemverTool) logger() *log.Logger {
	if t.Logger == nil {
		return discardLogger
	}
	return t.Logger
}
