package main

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	versionfile "github.com/bcomnes/versionfile/pkg"
)

// Viper keys. Each is also a flag of the same name and an environment
// variable with the VERSIONFILE_ prefix.
const (
	keyTool     = "tool"
	keyFile     = "file"
	keyRoot     = "root"
	keyManifest = "manifest"
	keyTimeout  = "timeout"
)

type configOption struct {
	Key         string
	Default     any
	Description string
}

var configOptions = []configOption{
	{Key: keyTool, Default: versionfile.DefaultTool, Description: "Version calculator executable, invoked as `<tool> bump <release> <version>`"},
	{Key: keyFile, Default: versionfile.DefaultFileName, Description: "Name of the version file inside each module"},
	{Key: keyRoot, Default: ".", Description: "Root of the source tree to discover modules in"},
	{Key: keyManifest, Default: "", Description: "YAML module list to use instead of discovering modules"},
	{Key: keyTimeout, Default: time.Duration(0), Description: "Timeout for each calculator invocation (0 waits forever)"},
}

// config resolves settings from flags, VERSIONFILE_* environment variables,
// .versionfile.yaml in the working directory and compiled defaults, in that
// order of precedence.
type config struct {
	v *viper.Viper
}

func newConfig() (*config, error) {
	v := viper.New()
	for _, o := range configOptions {
		v.SetDefault(o.Key, o.Default)
	}

	v.SetConfigName(".versionfile")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		var notFoundErr viper.ConfigFileNotFoundError
		if !(errors.As(err, &notFoundErr) || errors.Is(err, os.ErrNotExist)) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	v.SetEnvPrefix("VERSIONFILE")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()

	return &config{v: v}, nil
}

func (c *config) bindFlags(fs *pflag.FlagSet) error {
	for _, o := range configOptions {
		switch d := o.Default.(type) {
		case string:
			fs.String(o.Key, d, o.Description)
		case time.Duration:
			fs.Duration(o.Key, d, o.Description)
		default:
			return fmt.Errorf("unsupported flag type for key: %s", o.Key)
		}
		if err := c.v.BindPFlag(o.Key, fs.Lookup(o.Key)); err != nil {
			return fmt.Errorf("failed to bind flag %s: %w", o.Key, err)
		}
	}
	return nil
}

func (c *config) Tool() string {
	return c.v.GetString(keyTool) // VERSIONFILE_TOOL
}

func (c *config) File() string {
	return c.v.GetString(keyFile) // VERSIONFILE_FILE
}

func (c *config) Root() string {
	return c.v.GetString(keyRoot) // VERSIONFILE_ROOT
}

func (c *config) Manifest() string {
	return c.v.GetString(keyManifest) // VERSIONFILE_MANIFEST
}

func (c *config) Timeout() time.Duration {
	return c.v.GetDuration(keyTimeout) // VERSIONFILE_TIMEOUT
}
