package fs

import (
	"context"
	"time"

	"github.com/jacobsa/fuse/fuseops"
	"golang.org/x/sys/unix"

	"github.com/free5lot-go/catalogfs/internal/fserrors"
	"github.com/free5lot-go/catalogfs/sidecar/format"
)

// noExpiration is returned for every cache-expiration field the fuseops
// API offers: a zero time.Time is already in the past, so the kernel
// never trusts a cached entry or attribute across requests — a mode
// change or a write from this same mount must be visible on the very
// next request.
var noExpiration time.Time

func (fs *fileSystem) Init(ctx context.Context, op *fuseops.InitOp) error {
	return nil
}

func (fs *fileSystem) LookUpInode(ctx context.Context, op *fuseops.LookUpInodeOp) (err error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	parentPath := fs.pathForInode(op.Parent)
	childPath := childRelPath(parentPath, op.Name)
	defer fs.ops.Track("LookUpInode", childPath)(&err)

	attrs, err := fs.attributesForPath(childPath)
	if err != nil {
		return fserrors.FromSyscall(err)
	}

	id := fs.mintOrReuseInode(childPath)
	fs.incrementLookupCount(id, 1)

	op.Entry.Child = id
	op.Entry.Attributes = attrs
	op.Entry.AttributesExpiration = noExpiration
	op.Entry.EntryExpiration = noExpiration

	return nil
}

func (fs *fileSystem) GetInodeAttributes(ctx context.Context, op *fuseops.GetInodeAttributesOp) (err error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	relPath := fs.pathForInode(op.Inode)
	defer fs.ops.Track("GetInodeAttributes", relPath)(&err)

	attrs, err := fs.attributesForPath(relPath)
	if err != nil {
		return fserrors.FromSyscall(err)
	}

	op.Attributes = attrs
	op.AttributesExpiration = noExpiration
	return nil
}

// SetInodeAttributes backs chmod, utimens, and truncate: chmod and
// utimens apply directly to the sidecar file's own real attributes and
// deliberately leave the sidecar's saved fields untouched, so by default
// (ignore_saved_mode/ignore_saved_times unset) the overlay keeps
// reporting the archived values regardless. Truncate has no real content
// to truncate, so it's treated as a direct rewrite of the saved size, the
// same way a write's accumulated byte count becomes the saved size at
// flush.
func (fs *fileSystem) SetInodeAttributes(ctx context.Context, op *fuseops.SetInodeAttributesOp) (err error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	relPath := fs.pathForInode(op.Inode)
	defer fs.ops.Track("SetInodeAttributes", relPath)(&err)

	if op.Mode != nil {
		if err := unix.Fchmodat(fs.dirFd, relPath, uint32(op.Mode.Perm()), unix.AT_SYMLINK_NOFOLLOW); err != nil {
			return fserrors.FromSyscall(err)
		}
	}

	if op.Atime != nil || op.Mtime != nil {
		if err := fs.applyTimes(relPath, op.Atime, op.Mtime); err != nil {
			return fserrors.FromSyscall(err)
		}
	}

	if op.Size != nil {
		if err := fs.truncateSidecar(relPath, int64(*op.Size)); err != nil {
			return fserrors.FromSyscall(err)
		}
	}

	attrs, err := fs.attributesForPath(relPath)
	if err != nil {
		return fserrors.FromSyscall(err)
	}

	op.Attributes = attrs
	op.AttributesExpiration = noExpiration
	return nil
}

// applyTimes implements utimensat with AT_SYMLINK_NOFOLLOW — utime/utimes
// are avoided because, unlike utimensat, they follow a trailing symlink.
// A nil component means "leave this one alone", expressed to utimensat
// as UTIME_OMIT.
func (fs *fileSystem) applyTimes(relPath string, atime, mtime *time.Time) error {
	spec := [2]unix.Timespec{
		{Nsec: unix.UTIME_OMIT},
		{Nsec: unix.UTIME_OMIT},
	}
	if atime != nil {
		spec[0] = unix.NsecToTimespec(atime.UnixNano())
	}
	if mtime != nil {
		spec[1] = unix.NsecToTimespec(mtime.UnixNano())
	}

	return unix.UtimesNanoAt(fs.dirFd, relPath, spec[:], unix.AT_SYMLINK_NOFOLLOW)
}

func (fs *fileSystem) truncateSidecar(relPath string, size int64) error {
	fd, err := unix.Openat(fs.dirFd, relPath, unix.O_RDWR, 0)
	if err != nil {
		return err
	}

	f := fdFile(fd, relPath)
	defer f.Close()

	rec, err := format.ParseFile(f)
	if err != nil {
		rec = &format.Record{}
	}

	rec.Size = size
	rec.Blocks = format.BlocksFromSize(size)

	return format.Write(f, rec)
}

func (fs *fileSystem) ForgetInode(ctx context.Context, op *fuseops.ForgetInodeOp) (err error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	relPath := fs.pathForInode(op.Inode)
	defer fs.ops.Track("ForgetInode", relPath)(&err)

	fs.decrementLookupCount(op.Inode, op.N)
	return nil
}
