package fs

import (
	"context"
	"os"

	"github.com/jacobsa/fuse/fuseops"
	"github.com/jacobsa/fuse/fuseutil"
	"golang.org/x/sys/unix"

	"github.com/free5lot-go/catalogfs/internal/fserrors"
)

// MkDir creates a real directory. Directories carry no sidecar of their
// own — only regular files do — so there is nothing to seed beyond the
// directory itself.
func (fs *fileSystem) MkDir(ctx context.Context, op *fuseops.MkDirOp) (err error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	parentPath := fs.pathForInode(op.Parent)
	relPath := childRelPath(parentPath, op.Name)
	defer fs.ops.Track("MkDir", relPath)(&err)

	if err := unix.Mkdirat(fs.dirFd, relPath, uint32(op.Mode.Perm())); err != nil {
		return fserrors.FromSyscall(err)
	}

	attrs, err := fs.attributesForPath(relPath)
	if err != nil {
		return fserrors.FromSyscall(err)
	}

	id := fs.mintOrReuseInode(relPath)
	fs.incrementLookupCount(id, 1)

	op.Entry.Child = id
	op.Entry.Attributes = attrs
	op.Entry.AttributesExpiration = noExpiration
	op.Entry.EntryExpiration = noExpiration

	return nil
}

// CreateSymlink creates a real symlink. Like directories, symlinks carry
// no sidecar — only regular files report saved attributes.
func (fs *fileSystem) CreateSymlink(ctx context.Context, op *fuseops.CreateSymlinkOp) (err error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	parentPath := fs.pathForInode(op.Parent)
	relPath := childRelPath(parentPath, op.Name)
	defer fs.ops.Track("CreateSymlink", relPath)(&err)

	if err := unix.Symlinkat(op.Target, fs.dirFd, relPath); err != nil {
		return fserrors.FromSyscall(err)
	}

	attrs, err := fs.attributesForPath(relPath)
	if err != nil {
		return fserrors.FromSyscall(err)
	}

	id := fs.mintOrReuseInode(relPath)
	fs.incrementLookupCount(id, 1)

	op.Entry.Child = id
	op.Entry.Attributes = attrs
	op.Entry.AttributesExpiration = noExpiration
	op.Entry.EntryExpiration = noExpiration

	return nil
}

// CreateLink hard-links an existing sidecar under a new name. Since a
// sidecar's saved record is just the text content of the file itself,
// linking it gives both names the same catalog entry for free — exactly
// like a real hard link sharing one inode's content.
func (fs *fileSystem) CreateLink(ctx context.Context, op *fuseops.CreateLinkOp) (err error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	parentPath := fs.pathForInode(op.Parent)
	relPath := childRelPath(parentPath, op.Name)
	targetPath := fs.pathForInode(op.Target)
	defer fs.ops.Track("CreateLink", relPath)(&err)

	if err := unix.Linkat(fs.dirFd, targetPath, fs.dirFd, relPath, 0); err != nil {
		return fserrors.FromSyscall(err)
	}

	attrs, err := fs.attributesForPath(relPath)
	if err != nil {
		return fserrors.FromSyscall(err)
	}

	id := fs.mintOrReuseInode(relPath)
	fs.incrementLookupCount(id, 1)

	op.Entry.Child = id
	op.Entry.Attributes = attrs
	op.Entry.AttributesExpiration = noExpiration
	op.Entry.EntryExpiration = noExpiration

	return nil
}

// ReadSymlink reads the real symlink target straight through.
func (fs *fileSystem) ReadSymlink(ctx context.Context, op *fuseops.ReadSymlinkOp) (err error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	relPath := fs.pathForInode(op.Inode)
	defer fs.ops.Track("ReadSymlink", relPath)(&err)

	buf := make([]byte, 4096)
	n, err := unix.Readlinkat(fs.dirFd, relPath, buf)
	if err != nil {
		return fserrors.FromSyscall(err)
	}

	op.Target = string(buf[:n])
	return nil
}

// Rename moves the real file or directory and keeps the inode table's
// path entry in step, so a renamed sidecar keeps reporting the same
// saved attributes under its new name. Per spec non-goals, the sidecar's
// own content is never rewritten on rename.
func (fs *fileSystem) Rename(ctx context.Context, op *fuseops.RenameOp) (err error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	oldParent := fs.pathForInode(op.OldParent)
	newParent := fs.pathForInode(op.NewParent)
	oldPath := childRelPath(oldParent, op.OldName)
	newPath := childRelPath(newParent, op.NewName)
	defer fs.ops.Track("Rename", oldPath+" -> "+newPath)(&err)

	if err := unix.Renameat(fs.dirFd, oldPath, fs.dirFd, newPath); err != nil {
		return fserrors.FromSyscall(err)
	}

	fs.renamePath(oldPath, newPath)
	return nil
}

// RmDir removes a real, empty directory.
func (fs *fileSystem) RmDir(ctx context.Context, op *fuseops.RmDirOp) (err error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	parentPath := fs.pathForInode(op.Parent)
	relPath := childRelPath(parentPath, op.Name)
	defer fs.ops.Track("RmDir", relPath)(&err)

	if err := unix.Unlinkat(fs.dirFd, relPath, unix.AT_REMOVEDIR); err != nil {
		return fserrors.FromSyscall(err)
	}

	if id, ok := fs.ids[relPath]; ok {
		fs.decrementLookupCount(id, fs.lookupCounts[id])
	}

	return nil
}

// Unlink removes a sidecar. Per spec non-goals, no attempt is made to
// reclaim or archive its saved record before the file disappears.
func (fs *fileSystem) Unlink(ctx context.Context, op *fuseops.UnlinkOp) (err error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	parentPath := fs.pathForInode(op.Parent)
	relPath := childRelPath(parentPath, op.Name)
	defer fs.ops.Track("Unlink", relPath)(&err)

	if err := unix.Unlinkat(fs.dirFd, relPath, 0); err != nil {
		return fserrors.FromSyscall(err)
	}

	if id, ok := fs.ids[relPath]; ok {
		fs.decrementLookupCount(id, fs.lookupCounts[id])
	}

	return nil
}

// OpenDir hands out a handle with no entries yet; the first ReadDir on it
// fetches the directory's entries once, and later ReadDir calls serve
// pages out of that cached slice.
func (fs *fileSystem) OpenDir(ctx context.Context, op *fuseops.OpenDirOp) (err error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	defer fs.ops.Track("OpenDir", fs.pathForInode(op.Inode))(&err)

	handleID := fs.nextHandle
	fs.nextHandle++
	fs.dirHandles[handleID] = &dirHandle{}
	op.Handle = handleID

	return nil
}

func (fs *fileSystem) fetchDirEntries(relPath string) ([]fuseutil.Dirent, error) {
	fd, err := unix.Openat(fs.dirFd, relPath, unix.O_DIRECTORY|unix.O_RDONLY, 0)
	if err != nil {
		return nil, err
	}
	f := fdFile(fd, relPath)
	defer f.Close()

	names, err := f.Readdirnames(-1)
	if err != nil {
		return nil, err
	}

	entries := make([]fuseutil.Dirent, 0, len(names))
	for i, name := range names {
		childPath := childRelPath(relPath, name)

		var st unix.Stat_t
		if err := unix.Fstatat(fs.dirFd, childPath, &st, unix.AT_SYMLINK_NOFOLLOW); err != nil {
			continue
		}

		id := fs.mintOrReuseInode(childPath)

		entries = append(entries, fuseutil.Dirent{
			Offset: fuseops.DirOffset(i + 1),
			Inode:  id,
			Name:   name,
			Type:   direntType(modeFromUnix(st.Mode)),
		})
	}

	return entries, nil
}

// direntType maps a Go file mode's type bits to the DT_* constant ReadDir
// reports to the kernel.
func direntType(mode os.FileMode) fuseutil.DirentType {
	switch {
	case mode&os.ModeDir != 0:
		return fuseutil.DT_Directory
	case mode&os.ModeSymlink != 0:
		return fuseutil.DT_Link
	case mode.IsRegular():
		return fuseutil.DT_File
	default:
		return fuseutil.DT_Unknown
	}
}

// ReadDir serves entries out of the handle's cached slice, honoring the
// kernel's offset/buffer-size contract via fuseutil.WriteDirent.
func (fs *fileSystem) ReadDir(ctx context.Context, op *fuseops.ReadDirOp) (err error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	defer fs.ops.Track("ReadDir", fs.pathForInode(op.Inode))(&err)

	h, ok := fs.dirHandles[op.Handle]
	if !ok {
		return fserrors.EINVAL
	}

	if !h.fetched {
		relPath := fs.pathForInode(op.Inode)
		entries, err := fs.fetchDirEntries(relPath)
		if err != nil {
			return fserrors.FromSyscall(err)
		}
		h.entries = entries
		h.fetched = true
	}

	for _, e := range h.entries {
		if e.Offset <= op.Offset {
			continue
		}
		n := fuseutil.WriteDirent(op.Dst[op.BytesRead:], e)
		if n == 0 {
			break
		}
		op.BytesRead += n
	}

	return nil
}

func (fs *fileSystem) ReleaseDirHandle(ctx context.Context, op *fuseops.ReleaseDirHandleOp) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	delete(fs.dirHandles, op.Handle)
	return nil
}
