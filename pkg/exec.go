package versionfile

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"syscall"
	"time"
)

// waitDelay bounds how long Execute waits for the output pipes to close after
// the command was killed. Grandchildren of a script can hold them open.
const waitDelay = 250 * time.Millisecond

// ExecResult describes how an external command terminated.
type ExecResult struct {
	Stdout   string
	Stderr   string
	ExitCode int    // -1 when the process did not exit normally
	Signal   string // set when the process was terminated by a signal
}

// Success reports a normal exit with status 0.
func (r ExecResult) Success() bool {
	return r.ExitCode == 0 && r.Signal == ""
}

// Executor runs an external command to completion. A non-zero exit is not an
// error; the returned error is reserved for commands that could not be started.
type Executor interface {
	Execute(ctx context.Context, name string, args []string) (ExecResult, error)
}

// OSExecutor runs commands with os/exec. Stdout and stderr are captured and
// no input is piped in.
type OSExecutor struct {
	Dir string
}

// Execute implements Executor.
func (e OSExecutor) Execute(ctx context.Context, name string, args []string) (ExecResult, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = e.Dir
	cmd.WaitDelay = waitDelay
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	res := ExecResult{Stdout: stdout.String(), Stderr: stderr.String()}
	if err == nil {
		return res, nil
	}

	var exitErr *exec.ExitError
	if !errors.As(err, &exitErr) {
		return res, err
	}
	res.ExitCode = exitErr.ExitCode()
	if ws, ok := exitErr.Sys().(syscall.WaitStatus); ok && ws.Signaled() {
		res.Signal = ws.Signal().String()
	}
	return res, nil
}
