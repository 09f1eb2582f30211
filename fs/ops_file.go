package fs

import (
	"context"

	"github.com/jacobsa/fuse/fuseops"
	"golang.org/x/sys/unix"

	"github.com/free5lot-go/catalogfs/internal/fserrors"
	"github.com/free5lot-go/catalogfs/sidecar/convert"
	"github.com/free5lot-go/catalogfs/sidecar/format"
)

// CreateFile creates a brand-new sidecar: an ordinary empty file on the
// real filesystem, immediately seeded with its own real stat (size zero)
// as its saved record.
func (fs *fileSystem) CreateFile(ctx context.Context, op *fuseops.CreateFileOp) (err error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	parentPath := fs.pathForInode(op.Parent)
	relPath := childRelPath(parentPath, op.Name)
	defer fs.ops.Track("CreateFile", relPath)(&err)

	fd, err := unix.Openat(fs.dirFd, relPath, unix.O_CREAT|unix.O_EXCL|unix.O_RDWR, uint32(op.Mode.Perm()))
	if err != nil {
		return fserrors.FromSyscall(err)
	}

	rec, err := convert.RecordFromUnderlyingFile(fs.dirFd, relPath)
	if err != nil {
		unix.Close(fd)
		return fserrors.FromSyscall(err)
	}

	f := fdFile(fd, relPath)
	if err := format.Write(f, rec); err != nil {
		f.Close()
		return err
	}

	id := fs.mintOrReuseInode(relPath)
	fs.incrementLookupCount(id, 1)

	handleID := fs.nextHandle
	fs.nextHandle++
	fs.fileHandles[handleID] = &fileHandle{fd: fd, path: relPath, written: 0}

	attrs, err := fs.attributesForPath(relPath)
	if err != nil {
		return fserrors.FromSyscall(err)
	}

	op.Entry.Child = id
	op.Entry.Attributes = attrs
	op.Entry.AttributesExpiration = noExpiration
	op.Entry.EntryExpiration = noExpiration
	op.Handle = handleID

	return nil
}

// OpenFile always rejects with access-denied. Existing sidecars are
// archival: the only supported way to "edit" one is to recreate it via
// CreateFile.
func (fs *fileSystem) OpenFile(ctx context.Context, op *fuseops.OpenFileOp) (err error) {
	fs.mu.Lock()
	relPath := fs.pathForInode(op.Inode)
	fs.mu.Unlock()

	defer fs.ops.Track("OpenFile", relPath)(&err)
	return fserrors.EACCES
}

// ReadFile always rejects with operation-not-permitted: there is no file
// content to read, and OpenFile never hands out a handle to read it
// through anyway.
func (fs *fileSystem) ReadFile(ctx context.Context, op *fuseops.ReadFileOp) (err error) {
	defer fs.ops.Track("ReadFile", "")(&err)
	return fserrors.EPERM
}

// WriteFile counts the write against the handle's accumulator and
// discards the bytes: writes are counted, never stored.
func (fs *fileSystem) WriteFile(ctx context.Context, op *fuseops.WriteFileOp) (err error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	h, ok := fs.fileHandles[op.Handle]
	if !ok {
		return fserrors.EINVAL
	}
	defer fs.ops.Track("WriteFile", h.path)(&err)

	h.written = nextValue(h.written, op.Offset+int64(len(op.Data)))
	return nil
}

// FlushFile backs flush, which the kernel may send several times per
// handle (once per close of a descriptor): it's idempotent, so the
// sidecar is rewritten through a dup'd descriptor, leaving the handle's
// own descriptor open for further operations.
func (fs *fileSystem) FlushFile(ctx context.Context, op *fuseops.FlushFileOp) (err error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	h, ok := fs.fileHandles[op.Handle]
	if !ok {
		return fserrors.EINVAL
	}
	defer fs.ops.Track("FlushFile", h.path)(&err)

	return fs.writeBackSize(h.fd, h.written, true)
}

// ReleaseFileHandle is close: the sidecar gets one last rewrite through
// the handle's own descriptor, which is then closed. A serialization
// error here is logged but never propagated — the runtime treats release
// as fire-and-forget and ignores its return value, so returning an error
// would have no effect beyond suppressing this log line.
func (fs *fileSystem) ReleaseFileHandle(ctx context.Context, op *fuseops.ReleaseFileHandleOp) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	h, ok := fs.fileHandles[op.Handle]
	if !ok {
		return fserrors.EINVAL
	}
	delete(fs.fileHandles, op.Handle)

	var serializeErr error
	defer fs.ops.Track("ReleaseFileHandle", h.path)(&serializeErr)

	serializeErr = fs.writeBackSize(h.fd, h.written, false)
	unix.Close(h.fd)
	return nil
}

// writeBackSize rewrites the sidecar reachable through fd with its size
// (and derived block count) set to size, preserving every other saved
// field. When dup is true, the rewrite happens through a duplicate of fd
// that is closed afterwards, so fd itself stays open; the duplicate
// shares fd's file offset, which ParseFile and Write both reset first.
func (fs *fileSystem) writeBackSize(fd int, size int64, dup bool) error {
	useFd := fd
	if dup {
		dupFd, err := unix.Dup(fd)
		if err != nil {
			return fserrors.FromSyscall(err)
		}
		defer unix.Close(dupFd)
		useFd = dupFd
	}

	f := fdFile(useFd, "")

	rec, err := format.ParseFile(f)
	if err != nil {
		rec = &format.Record{}
	}

	rec.Size = size
	rec.Blocks = format.BlocksFromSize(size)

	return format.Write(f, rec)
}

// StatFS passes the source directory's real filesystem statistics
// straight through, a full statvfs copy rather than a partial one.
func (fs *fileSystem) StatFS(ctx context.Context, op *fuseops.StatFSOp) (err error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	defer fs.ops.Track("StatFS", ".")(&err)

	var st unix.Statfs_t
	if err := unix.Fstatfs(fs.dirFd, &st); err != nil {
		return fserrors.FromSyscall(err)
	}

	op.BlockSize = uint32(st.Bsize)
	op.IoSize = uint32(st.Bsize)
	op.Blocks = st.Blocks
	op.BlocksFree = st.Bfree
	op.BlocksAvailable = st.Bavail
	op.Inodes = st.Files
	op.InodesFree = st.Ffree

	return nil
}
