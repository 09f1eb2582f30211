package fs

import (
	"path"

	"github.com/jacobsa/fuse/fuseops"
)

// childRelPath builds the relative path of a directory entry from its
// parent's relative path and its name.
func childRelPath(parentRelPath, name string) string {
	if parentRelPath == "." {
		return name
	}
	return path.Join(parentRelPath, name)
}

// pathForInode returns the relative path recorded for id.
//
// LOCKS_REQUIRED(fs.mu)
func (fs *fileSystem) pathForInode(id fuseops.InodeID) string {
	return fs.paths[id]
}
