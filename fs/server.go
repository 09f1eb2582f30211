// Copyright 2015 Google Inc. All Rights Reserved.
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

// Package fs implements the FUSE dispatcher: a fuseutil.FileSystem that
// presents every regular file in a source directory as the metadata its
// sidecar remembers, instead of the sidecar's own tiny real size. The
// inode table is a trivial inode-ID-to-relative-path map, since this
// overlay has no generations, no leasing, and no remote object store to
// reconcile against.
package fs

import (
	"fmt"

	"github.com/jacobsa/fuse"
	"github.com/jacobsa/fuse/fuseops"
	"github.com/jacobsa/fuse/fuseutil"
	"github.com/jacobsa/syncutil"
	"github.com/jacobsa/timeutil"
	"golang.org/x/sys/unix"

	"github.com/free5lot-go/catalogfs/internal/logger"
	"github.com/free5lot-go/catalogfs/sidecar/convert"
)

// ServerConfig configures a mount of the overlay.
type ServerConfig struct {
	// A clock used to time each dispatcher call for the elapsed= field of
	// its log line.
	Clock timeutil.Clock

	// The directory this overlay presents. Every inode is a path relative
	// to this directory.
	SourceDir string

	// Policy flags controlling how a sidecar's saved metadata is merged
	// with the sidecar file's own real stat when attributes are reported.
	Options convert.Options

	// Uid and Gid of the user mounting the filesystem. They are stored on
	// the dispatcher but not used when reporting attributes: a sidecar's
	// owner is its own real stat's uid/gid, or the saved one when
	// Options.UseSavedUID/UseSavedGID is set.
	Uid uint32
	Gid uint32

	// LogErrorsOnly, when set, suppresses the per-operation success log
	// line — only failures are still logged.
	LogErrorsOnly bool
}

// fileHandle is the state kept for one open regular file: the real file
// descriptor and the running maximum of offset+size ever written, which
// becomes the file's recorded size at flush/release.
type fileHandle struct {
	fd      int
	path    string
	written int64
}

type dirHandle struct {
	entries []fuseutil.Dirent
	fetched bool
}

type fileSystem struct {
	fuseutil.NotImplementedFileSystem

	clock   timeutil.Clock
	dirFd   int
	options convert.Options
	uid     uint32
	gid     uint32
	ops     *logger.OpTracker

	mu syncutil.InvariantMutex

	// GUARDED_BY(mu)
	paths map[fuseops.InodeID]string
	// GUARDED_BY(mu)
	ids map[string]fuseops.InodeID
	// GUARDED_BY(mu)
	lookupCounts map[fuseops.InodeID]uint64
	// GUARDED_BY(mu)
	nextInode fuseops.InodeID

	// GUARDED_BY(mu)
	fileHandles map[fuseops.HandleID]*fileHandle
	// GUARDED_BY(mu)
	dirHandles map[fuseops.HandleID]*dirHandle
	// GUARDED_BY(mu)
	nextHandle fuseops.HandleID
}

// NewServer creates a fuse.Server for the overlay described by cfg.
func NewServer(cfg *ServerConfig) (fuse.Server, error) {
	fs, err := newFileSystem(cfg)
	if err != nil {
		return nil, err
	}

	return fuseutil.NewFileSystemServer(fs), nil
}

// newFileSystem builds the dispatcher itself, without the fuseutil.Server
// wrapping that hides its concrete type from callers. Split out of
// NewServer so tests can drive CreateFile/WriteFile/ReadDir/etc. directly
// against a *fileSystem without a real kernel mount.
func newFileSystem(cfg *ServerConfig) (*fileSystem, error) {
	dirFd, err := unix.Open(cfg.SourceDir, unix.O_DIRECTORY|unix.O_RDONLY, 0)
	if err != nil {
		return nil, fmt.Errorf("fs: opening source dir %q: %w", cfg.SourceDir, err)
	}

	fs := &fileSystem{
		clock:   cfg.Clock,
		dirFd:   dirFd,
		options: cfg.Options,
		uid:     cfg.Uid,
		gid:     cfg.Gid,
		ops:     logger.NewOpTracker(cfg.Clock, cfg.LogErrorsOnly),

		paths:        map[fuseops.InodeID]string{fuseops.RootInodeID: "."},
		ids:          map[string]fuseops.InodeID{".": fuseops.RootInodeID},
		lookupCounts: map[fuseops.InodeID]uint64{fuseops.RootInodeID: 1},
		nextInode:    fuseops.RootInodeID + 1,

		fileHandles: make(map[fuseops.HandleID]*fileHandle),
		dirHandles:  make(map[fuseops.HandleID]*dirHandle),
		nextHandle:  1,
	}

	fs.mu = syncutil.NewInvariantMutex(fs.checkInvariants)

	return fs, nil
}

// checkInvariants panics if the dispatcher's bookkeeping tables have
// drifted out of sync with each other. Every request is served to
// completion before the next one starts, so in principle nothing can ever
// observe drift, but the invariant-mutex check costs nothing and catches
// it immediately if that single-threaded assumption is ever violated.
func (fs *fileSystem) checkInvariants() {
	if len(fs.paths) != len(fs.ids) {
		panic(fmt.Sprintf("fs: paths/ids size mismatch: %d vs %d", len(fs.paths), len(fs.ids)))
	}
	for id, p := range fs.paths {
		if fs.ids[p] != id {
			panic(fmt.Sprintf("fs: inode %d maps to %q, but %q maps back to inode %d", id, p, p, fs.ids[p]))
		}
	}
	for id := range fs.lookupCounts {
		if _, ok := fs.paths[id]; !ok {
			panic(fmt.Sprintf("fs: lookup count held for unknown inode %d", id))
		}
	}
}
