package versionfile

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/afero"
)

// Calculator computes the version that follows current for a release kind.
type Calculator interface {
	Bump(ctx context.Context, release Release, current string) (string, error)
}

// Options holds the collaborators of a run.
type Options struct {
	FS       afero.Fs // defaults to the OS file system
	Modules  []Module // host-provided module list, in host order
	Root     string   // shown in verbose output
	Tool     Calculator
	FileName string    // defaults to DefaultFileName
	Stdout   io.Writer // receives bumped versions and verbose output
	Logger   *log.Logger
}

// TargetResult describes one processed module.
type TargetResult struct {
	Target     Module
	Path       string
	OldVersion string // empty for create
	NewVersion string
	Written    bool // false on dry runs
}

// RunMeta holds metadata about a run. When a run fails, Results lists the
// modules that completed before the failure.
type RunMeta struct {
	Command Command
	Results []TargetResult
}

// Run parses args and executes the resulting invocation.
func Run(ctx context.Context, args []string, opts Options) (RunMeta, error) {
	inv, err := ParseArguments(args)
	if inv.Verbose {
		DescribeInvocation(opts.stdout(), args, inv, opts.Root, opts.Modules)
	}
	if err != nil {
		return RunMeta{}, err
	}
	return Execute(ctx, inv, opts)
}

// Execute processes the resolved targets one at a time. The first failure
// stops the run; records already written for earlier targets are kept.
func Execute(ctx context.Context, inv Invocation, opts Options) (RunMeta, error) {
	meta := RunMeta{Command: inv.Command}
	if inv.Command == nil {
		return meta, &ValidationError{Msg: ErrUnknownArguments.Error(), Err: ErrUnknownArguments}
	}

	targets := ResolveTargets(opts.Modules, inv.Targets)
	opts.logger().Debug("resolved targets", "command", inv.Command, "count", len(targets))

	for _, target := range targets {
		if err := ctx.Err(); err != nil {
			return meta, err
		}
		res, err := processTarget(ctx, inv, target, opts)
		if err != nil {
			return meta, fmt.Errorf("%s: %w", target.Name, err)
		}
		meta.Results = append(meta.Results, res)
	}
	return meta, nil
}

func processTarget(ctx context.Context, inv Invocation, target Module, opts Options) (TargetResult, error) {
	fs := opts.fs()
	logger := opts.logger().With("target", target.Name)
	res := TargetResult{Target: target, Path: target.VersionPath(opts.FileName)}

	switch cmd := inv.Command.(type) {
	case Bump:
		if opts.Tool == nil {
			return res, errors.New("no version calculator configured")
		}
		current, err := ReadVersion(fs, res.Path)
		if err != nil {
			return res, err
		}
		next, err := opts.Tool.Bump(ctx, cmd.Release, current)
		if err != nil {
			return res, err
		}
		res.OldVersion, res.NewVersion = current, next
		if !inv.DryRun {
			if err := WriteVersion(fs, next, res.Path); err != nil {
				return res, err
			}
			res.Written = true
		}
		logger.Debug("bumped version", "from", current, "to", next, "path", res.Path, "dry_run", inv.DryRun)
		fmt.Fprintln(opts.stdout(), next)

	case Create:
		res.NewVersion = cmd.Version
		if !inv.DryRun {
			if err := WriteVersion(fs, cmd.Version, res.Path); err != nil {
				return res, err
			}
			res.Written = true
		}
		logger.Debug("created version file", "version", cmd.Version, "path", res.Path, "dry_run", inv.DryRun)

	default:
		return res, fmt.Errorf("unsupported command %T", inv.Command)
	}
	return res, nil
}

func (o Options) fs() afero.Fs {
	if o.FS == nil {
		return afero.NewOsFs()
	}
	return o.FS
}

func (o Options) stdout() io.Writer {
	if o.Stdout == nil {
		return os.Stdout
	}
	return o.Stdout
}

func (o Options) logger() *log.Logger {
	if o.Logger == nil {
		return discardLogger
	}
	return o.Logger
}
