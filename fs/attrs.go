package fs

import (
	"os"
	"time"

	"github.com/jacobsa/fuse/fuseops"
	"golang.org/x/sys/unix"

	"github.com/free5lot-go/catalogfs/internal/fserrors"
	"github.com/free5lot-go/catalogfs/sidecar/convert"
	"github.com/free5lot-go/catalogfs/sidecar/format"
)

// modeFromUnix converts a raw stat mode (permission bits plus an S_IFMT
// file-type field) into the os.FileMode the fuseops API expects, whose
// type bits live in a different part of the word than the kernel's.
func modeFromUnix(raw uint32) os.FileMode {
	perm := os.FileMode(raw & 0777)

	switch raw & unix.S_IFMT {
	case unix.S_IFDIR:
		return perm | os.ModeDir
	case unix.S_IFLNK:
		return perm | os.ModeSymlink
	case unix.S_IFCHR:
		return perm | os.ModeDevice | os.ModeCharDevice
	case unix.S_IFBLK:
		return perm | os.ModeDevice
	case unix.S_IFIFO:
		return perm | os.ModeNamedPipe
	case unix.S_IFSOCK:
		return perm | os.ModeSocket
	default:
		return perm
	}
}

func attrsFromStat(st *unix.Stat_t) fuseops.InodeAttributes {
	return fuseops.InodeAttributes{
		Size:  uint64(st.Size),
		Nlink: uint32(st.Nlink),
		Mode:  modeFromUnix(st.Mode),
		Uid:   st.Uid,
		Gid:   st.Gid,
		Atime: time.Unix(st.Atim.Sec, st.Atim.Nsec),
		Mtime: time.Unix(st.Mtim.Sec, st.Mtim.Nsec),
		Ctime: time.Unix(st.Ctim.Sec, st.Ctim.Nsec),
	}
}

// attributesForPath stats relPath and, if it's a regular file, overlays
// its sidecar's saved metadata per fs.options before building the
// fuseops attributes the kernel sees. Directories and symlinks are
// reported from their own real stat untouched — only regular files are
// sidecars. Anything else (device, FIFO, socket) is rejected outright;
// the overlay has no notion of how to present one.
func (fs *fileSystem) attributesForPath(relPath string) (fuseops.InodeAttributes, error) {
	var st unix.Stat_t
	if err := unix.Fstatat(fs.dirFd, relPath, &st, unix.AT_SYMLINK_NOFOLLOW); err != nil {
		return fuseops.InodeAttributes{}, err
	}

	switch st.Mode & unix.S_IFMT {
	case unix.S_IFDIR, unix.S_IFLNK:
		return attrsFromStat(&st), nil
	case unix.S_IFREG:
		// fall through to the sidecar handling below.
	default:
		return fuseops.InodeAttributes{}, fserrors.EPERM
	}

	// A zero-byte file on disk has no record to parse, so its real (empty)
	// attributes are reported as they are. CreateFile writes a seed record
	// into every sidecar it creates, so this case covers an empty file put
	// in the source directory by other means, or one whose seed write
	// failed.
	if st.Size == 0 {
		return attrsFromStat(&st), nil
	}

	rec, err := fs.readSidecar(relPath)
	if err != nil {
		return fuseops.InodeAttributes{}, err
	}

	convert.ApplyToStat(&st, rec, fs.options)
	return attrsFromStat(&st), nil
}

// readSidecar opens and parses the sidecar at relPath.
func (fs *fileSystem) readSidecar(relPath string) (*format.Record, error) {
	fd, err := unix.Openat(fs.dirFd, relPath, unix.O_RDONLY, 0)
	if err != nil {
		return nil, err
	}
	f := os.NewFile(uintptr(fd), relPath)
	defer f.Close()

	return format.ParseFile(f)
}
