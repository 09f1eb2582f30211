// Copyright 2024 Google LLC
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
	"strings"

	"github.com/jacobsa/fuse"
	"github.com/jacobsa/timeutil"
	"golang.org/x/sys/unix"

	"github.com/free5lot-go/catalogfs/cfg"
	"github.com/free5lot-go/catalogfs/fs"
	"github.com/free5lot-go/catalogfs/internal/logger"
	"github.com/free5lot-go/catalogfs/internal/perms"
	"github.com/free5lot-go/catalogfs/sidecar/convert"
)

// mount builds the overlay's fileSystem server and mounts it at
// newConfig.FileSystem.MountPoint, blocking until the kernel reports the
// mount is torn down.
func mount(ctx context.Context, newConfig *cfg.Config) error {
	// Forced to 0 so a create/mkdir's requested mode reaches the
	// underlying filesystem unfiltered.
	unix.Umask(0)

	if err := logger.InitLogFile(newConfig.Logging); err != nil {
		return fmt.Errorf("initializing log file: %w", err)
	}
	logger.SetLogFormat(newConfig.Logging.Format)

	uid, gid, err := perms.MyUserAndGroup()
	if err != nil {
		return fmt.Errorf("MyUserAndGroup: %w", err)
	}

	serverCfg := &fs.ServerConfig{
		Clock:     timeutil.RealClock(),
		SourceDir: string(newConfig.FileSystem.SourceDir),
		Uid:       uid,
		Gid:       gid,
		Options: convert.Options{
			IgnoreSavedMode:  newConfig.FileSystem.IgnoreSavedMode,
			IgnoreSavedTimes: newConfig.FileSystem.IgnoreSavedTimes,
			UseSavedUID:      newConfig.FileSystem.UseSavedUID,
			UseSavedGID:      newConfig.FileSystem.UseSavedGID,
		},
		LogErrorsOnly: newConfig.FileSystem.LogErrorsOnly,
	}

	logger.Infof("Creating a new server for %q...", newConfig.FileSystem.SourceDir)
	server, err := fs.NewServer(serverCfg)
	if err != nil {
		return fmt.Errorf("fs.NewServer: %w", err)
	}

	mountCfg := getFuseMountConfig(newConfig)

	logger.Infof("Mounting %q at %q...", newConfig.FileSystem.SourceDir, newConfig.FileSystem.MountPoint)
	mfs, err := fuse.Mount(string(newConfig.FileSystem.MountPoint), server, mountCfg)
	if err != nil {
		return fmt.Errorf("mount: %w", err)
	}

	if newConfig.FileSystem.Foreground {
		return mfs.Join(ctx)
	}
	return nil
}

func getFuseMountConfig(newConfig *cfg.Config) *fuse.MountConfig {
	// default_permissions hands access checks to the kernel rather than
	// this dispatcher.
	parsedOptions := map[string]string{"default_permissions": ""}
	for _, o := range newConfig.FileSystem.MountOptions {
		parts := strings.SplitN(o, "=", 2)
		if len(parts) == 2 {
			parsedOptions[parts[0]] = parts[1]
		} else {
			parsedOptions[parts[0]] = ""
		}
	}

	mountCfg := &fuse.MountConfig{
		FSName:     "catalogfs",
		Subtype:    "catalogfs",
		VolumeName: "catalogfs",
		Options:    parsedOptions,
		ReadOnly:   newConfig.FileSystem.ReadOnly,
	}

	if newConfig.Logging.Severity.Rank() <= cfg.ErrorLogSeverity.Rank() {
		mountCfg.ErrorLogger = logger.NewLegacyLogger(logger.LevelError, "fuse: ", "catalogfs")
	}
	if newConfig.Logging.Severity.Rank() <= cfg.TraceLogSeverity.Rank() {
		mountCfg.DebugLogger = logger.NewLegacyLogger(logger.LevelTrace, "fuse_debug: ", "catalogfs")
	}

	return mountCfg
}
