package cfg_test

import (
	"testing"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"

	"github.com/free5lot-go/catalogfs/cfg"
)

func TestLoadUnmarshalsBoundFlags(t *testing.T) {
	viper.Reset()
	flagSet := pflag.NewFlagSet("test", pflag.ContinueOnError)
	c := &cfg.Config{}
	require.NoError(t, c.BindFlags(flagSet))
	require.NoError(t, flagSet.Parse([]string{"--source-dir=/tmp/src", "--mount-point=/tmp/mnt"}))

	loaded, err := cfg.Load()

	require.NoError(t, err)
	require.Equal(t, cfg.ResolvedPath("/tmp/src"), loaded.FileSystem.SourceDir)
	require.Equal(t, cfg.ResolvedPath("/tmp/mnt"), loaded.FileSystem.MountPoint)
}

// Load does not validate: the mountpoint is ordinarily still unresolved
// positional state at this point (see cmd/root.go), so leaving it unset
// here must not be an error from Load's own perspective.
func TestLoadDoesNotRequireMountPoint(t *testing.T) {
	viper.Reset()
	flagSet := pflag.NewFlagSet("test", pflag.ContinueOnError)
	c := &cfg.Config{}
	require.NoError(t, c.BindFlags(flagSet))
	require.NoError(t, flagSet.Parse([]string{"--source-dir=/tmp/src"}))

	loaded, err := cfg.Load()

	require.NoError(t, err)
	require.Equal(t, cfg.ResolvedPath(""), loaded.FileSystem.MountPoint)
}
