package fs

import (
	"strings"

	"github.com/jacobsa/fuse/fuseops"
)

// mintOrReuseInode returns the inode ID already assigned to relPath, or
// allocates a new one and records it. It does not touch the lookup
// count; callers increment that separately so ForgetInode's bookkeeping
// stays in one place.
//
// LOCKS_REQUIRED(fs.mu)
func (fs *fileSystem) mintOrReuseInode(relPath string) fuseops.InodeID {
	if id, ok := fs.ids[relPath]; ok {
		return id
	}

	id := fs.nextInode
	fs.nextInode++

	fs.paths[id] = relPath
	fs.ids[relPath] = id

	return id
}

// incrementLookupCount bumps id's kernel lookup count by delta.
//
// LOCKS_REQUIRED(fs.mu)
func (fs *fileSystem) incrementLookupCount(id fuseops.InodeID, delta uint64) {
	fs.lookupCounts[id] += delta
}

// decrementLookupCount reduces id's lookup count by delta, forgetting the
// inode — freeing its path/id table entries — once the count reaches
// zero. The root inode is never forgotten.
//
// LOCKS_REQUIRED(fs.mu)
func (fs *fileSystem) decrementLookupCount(id fuseops.InodeID, delta uint64) {
	if id == fuseops.RootInodeID {
		return
	}

	count := fs.lookupCounts[id]
	if delta >= count {
		delete(fs.lookupCounts, id)
		if p, ok := fs.paths[id]; ok {
			delete(fs.paths, id)
			delete(fs.ids, p)
		}
		return
	}

	fs.lookupCounts[id] = count - delta
}

// renamePath updates the path table entry for oldRelPath, and for every
// descendant an earlier lookup minted an inode for, to sit under
// newRelPath instead. A renamed directory carries its children's minted
// inodes along with it; without this, a later lookup under the new
// prefix would mint a second inode for a path already tracked under the
// stale one, and its lookup count would never be released.
//
// LOCKS_REQUIRED(fs.mu)
func (fs *fileSystem) renamePath(oldRelPath, newRelPath string) {
	prefix := oldRelPath + "/"

	type move struct {
		id   fuseops.InodeID
		from string
		to   string
	}
	var moves []move
	for p, id := range fs.ids {
		if p != oldRelPath && !strings.HasPrefix(p, prefix) {
			continue
		}
		moves = append(moves, move{id, p, newRelPath + strings.TrimPrefix(p, oldRelPath)})
	}

	for _, m := range moves {
		delete(fs.ids, m.from)
		fs.paths[m.id] = m.to
		fs.ids[m.to] = m.id
	}
}
