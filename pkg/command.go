package versionfile

import (
	"fmt"
	"io"

	"github.com/spf13/pflag"
)

// Command is either Bump or Create.
type Command interface {
	isCommand()
	fmt.Stringer
}

// Bump increments the existing version with the given release kind.
type Bump struct {
	Release Release
}

// Create writes a literal version, ignoring any existing record.
type Create struct {
	Version string
}

func (Bump) isCommand()   {}
func (Create) isCommand() {}

func (b Bump) String() string   { return "bump " + string(b.Release) }
func (c Create) String() string { return "create " + c.Version }

// Flag names owned by the argument parser.
const (
	FlagBump    = "bump"
	FlagCreate  = "create"
	FlagTarget  = "target"
	FlagVerbose = "verbose"
	FlagDryRun  = "dry-run"
)

// Invocation is a parsed command line.
type Invocation struct {
	Command Command
	Targets []string // empty means every eligible module
	Verbose bool
	DryRun  bool
}

// RegisterFlags adds the invocation flags to fs.
func RegisterFlags(fs *pflag.FlagSet) {
	fs.StringArray(FlagBump, nil, "Bump the version with the given release: patch | minor | major | release | prerel")
	fs.StringArray(FlagCreate, nil, "Create the version file with the given version")
	fs.StringArray(FlagTarget, nil, "Module to process. May be repeated; omit for all eligible modules")
	fs.Bool(FlagVerbose, false, "Print the parsed invocation and module list before running")
	fs.Bool(FlagDryRun, false, "Compute new versions without writing any file")
}

// ParseArguments parses a flat argument list into an Invocation. Flags not
// owned by the parser are skipped so that host flags can be interleaved.
func ParseArguments(args []string) (Invocation, error) {
	fs := pflag.NewFlagSet("versionfile", pflag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.ParseErrorsWhitelist.UnknownFlags = true
	RegisterFlags(fs)
	if err := fs.Parse(args); err != nil {
		return partialInvocation(fs), &ValidationError{Msg: err.Error(), Err: err}
	}
	return InvocationFromFlags(fs)
}

// partialInvocation returns the flags that were set before a parse failure.
// The command is left nil.
func partialInvocation(fs *pflag.FlagSet) Invocation {
	var inv Invocation
	inv.Targets, _ = fs.GetStringArray(FlagTarget)
	inv.Verbose, _ = fs.GetBool(FlagVerbose)
	inv.DryRun, _ = fs.GetBool(FlagDryRun)
	return inv
}

// InvocationFromFlags builds an Invocation from a parsed flag set that had
// RegisterFlags applied to it.
func InvocationFromFlags(fs *pflag.FlagSet) (Invocation, error) {
	var inv Invocation
	var err error

	if inv.Targets, err = fs.GetStringArray(FlagTarget); err != nil {
		return inv, err
	}
	if inv.Verbose, err = fs.GetBool(FlagVerbose); err != nil {
		return inv, err
	}
	if inv.DryRun, err = fs.GetBool(FlagDryRun); err != nil {
		return inv, err
	}

	bumps, err := fs.GetStringArray(FlagBump)
	if err != nil {
		return inv, err
	}
	creates, err := fs.GetStringArray(FlagCreate)
	if err != nil {
		return inv, err
	}

	inv.Command, err = ExtractCommand(bumps, creates)
	return inv, err
}

// ExtractCommand picks the command from the values given to --bump and
// --create. Bump is checked first, so it wins when both are present; within a
// flag the first occurrence wins.
func ExtractCommand(bumps, creates []string) (Command, error) {
	if len(bumps) > 0 {
		release, err := ParseRelease(bumps[0])
		if err != nil {
			return nil, err
		}
		return Bump{Release: release}, nil
	}
	if len(creates) > 0 {
		return Create{Version: creates[0]}, nil
	}
	return nil, &ValidationError{Msg: ErrUnknownArguments.Error(), Err: ErrUnknownArguments}
}
