// Package main implements a CLI tool that creates or bumps the generated
// version file of every module in a source tree.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	versionfile "github.com/bcomnes/versionfile/pkg"
)

const examples = `  # Create version.go with 1.0.0 in every library and executable package
  versionfile --create 1.0.0

  # Bump the patch version of two packages
  versionfile --bump patch --target example.com/m/api --target example.com/m/cmd/server

  # Use a module list instead of scanning go.mod/go.work
  versionfile --manifest modules.yaml --bump minor

  # Show the parsed invocation and every module, then compute without writing
  versionfile --verbose --dry-run --bump prerel`

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	err := execute(ctx, os.Args[1:])
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func execute(ctx context.Context, args []string) error {
	conf, err := newConfig()
	if err != nil {
		return err
	}
	cmd, err := newRootCmd(conf, args)
	if err != nil {
		return err
	}
	cmd.SetArgs(args)
	return cmd.ExecuteContext(ctx)
}

func newRootCmd(conf *config, rawArgs []string) (*cobra.Command, error) {
	cmd := &cobra.Command{
		Use:   "versionfile (--bump <release> | --create <version>) [--target <name>]... [flags]",
		Short: "Create or bump the generated version file of each module",
		Long: `Creates or bumps the generated version file (default: version.go) of every
library and executable package in a source tree. Bumps delegate the version
arithmetic to an external calculator invoked as "<tool> bump <release> <version>";
each bumped version is printed on its own line.

Valid releases: patch | minor | major | release | prerel`,
		Example:       examples,
		Version:       Version,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, conf, rawArgs)
		},
	}

	versionfile.RegisterFlags(cmd.Flags())
	if err := conf.bindFlags(cmd.Flags()); err != nil {
		return nil, err
	}
	return cmd, nil
}

func run(cmd *cobra.Command, conf *config, rawArgs []string) error {
	inv, invErr := versionfile.InvocationFromFlags(cmd.Flags())
	if invErr != nil && !inv.Verbose {
		return invErr
	}

	logger := versionfile.NewLogger(cmd.ErrOrStderr(), inv.Verbose)
	fs := afero.NewOsFs()

	root, err := filepath.Abs(conf.Root())
	if err != nil {
		return fmt.Errorf("resolving root: %w", err)
	}
	modules, err := loadModules(fs, root, conf.Manifest())
	if err != nil {
		return err
	}

	if inv.Verbose {
		versionfile.DescribeInvocation(cmd.OutOrStdout(), rawArgs, inv, root, modules)
	}
	if invErr != nil {
		return invErr
	}

	tool := versionfile.NewSemverTool(conf.Tool(), logger)
	tool.Timeout = conf.Timeout()

	meta, err := versionfile.Execute(cmd.Context(), inv, versionfile.Options{
		FS:       fs,
		Modules:  modules,
		Root:     root,
		Tool:     tool,
		FileName: conf.File(),
		Stdout:   cmd.OutOrStdout(),
		Logger:   logger,
	})
	if inv.DryRun {
		for _, r := range meta.Results {
			logger.Info("dry run, not written", "target", r.Target.Name, "path", r.Path, "version", r.NewVersion)
		}
	}
	return err
}

// loadModules returns the host module list: the manifest when one is
// configured, otherwise the modules discovered under root.
func loadModules(fs afero.Fs, root, manifestPath string) ([]versionfile.Module, error) {
	if manifestPath != "" {
		return versionfile.LoadManifest(fs, manifestPath)
	}
	return versionfile.DiscoverModules(fs, root)
}
