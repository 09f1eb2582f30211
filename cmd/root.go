// Copyright 2024 Google Inc. All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/free5lot-go/catalogfs/cfg"
)

// MountFunc mounts the overlay given a fully loaded config and the
// resolved source directory / mount point. Factored out of the cobra
// command so tests can substitute a fake without actually mounting FUSE.
type MountFunc func(c *cfg.Config, sourceDir, mountPoint string) error

var cfgFile string
var dumpConfig bool

// NewRootCmd builds the catalogfs command, wired to call mountFn once
// flags and positional arguments have been resolved into a cfg.Config.
func NewRootCmd(mountFn MountFunc) (*cobra.Command, error) {
	var configFileErr error

	cmd := &cobra.Command{
		Use:   "catalogfs [flags] mountpoint",
		Short: "Mount a sidecar metadata catalog as a FUSE overlay",
		Long: `catalogfs mounts a directory of sidecar text files as a FUSE overlay
that reports each sidecar's saved attributes (size, mode, owner, times)
instead of its own tiny on-disk footprint. Writes to a mounted file are
counted, not stored, and become the file's new reported size on close.

mountpoint is the only required argument. --source-dir names the
directory holding the sidecars; if it's omitted, the mountpoint doubles
as the source and the overlay mounts in place over its own directory.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if configFileErr != nil {
				return configFileErr
			}

			loaded, err := cfg.Load()
			if err != nil {
				return err
			}

			mountPoint, err := resolvePath(args[0])
			if err != nil {
				return fmt.Errorf("resolving mount point: %w", err)
			}
			loaded.FileSystem.MountPoint = cfg.ResolvedPath(mountPoint)

			sourceDir := string(loaded.FileSystem.SourceDir)
			if sourceDir == "" {
				// No --source-dir given: mount in place over the
				// mountpoint itself.
				sourceDir = mountPoint
			} else if sourceDir, err = resolvePath(sourceDir); err != nil {
				return fmt.Errorf("resolving source directory: %w", err)
			}
			loaded.FileSystem.SourceDir = cfg.ResolvedPath(sourceDir)

			if err := cfg.ValidateConfig(loaded); err != nil {
				return fmt.Errorf("validating config: %w", err)
			}

			if dumpConfig {
				out, err := yaml.Marshal(loaded)
				if err != nil {
					return fmt.Errorf("marshalling resolved config: %w", err)
				}
				fmt.Fprint(cmd.OutOrStdout(), string(out))
				return nil
			}

			return mountFn(loaded, sourceDir, mountPoint)
		},
	}

	cmd.PersistentFlags().StringVar(&cfgFile, "config-file", "", "Path to the config file")
	cmd.PersistentFlags().BoolVar(&dumpConfig, "dump-config", false, "print the fully resolved configuration as YAML and exit, without mounting")
	if err := (&cfg.Config{}).BindFlags(cmd.PersistentFlags()); err != nil {
		return nil, err
	}

	cobra.OnInitialize(func() {
		if cfgFile == "" {
			return
		}

		resolved, err := resolvePath(cfgFile)
		if err != nil {
			configFileErr = fmt.Errorf("resolving config file path: %w", err)
			return
		}

		viper.SetConfigFile(resolved)
		viper.SetConfigType("yaml")

		if err := viper.ReadInConfig(); err != nil {
			configFileErr = fmt.Errorf("reading config file: %w", err)
		}
	})

	return cmd, nil
}

func resolvePath(p string) (string, error) {
	var rp cfg.ResolvedPath
	if err := rp.UnmarshalText([]byte(p)); err != nil {
		return "", err
	}
	return string(rp), nil
}

// Execute runs the real catalogfs command against os.Args, mounting the
// overlay for real.
func Execute() {
	cmd, err := NewRootCmd(func(c *cfg.Config, sourceDir, mountPoint string) error {
		return mount(context.Background(), c)
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
