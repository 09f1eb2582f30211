// Package fserrors converts Go's error values — the ones returned by
// golang.org/x/sys/unix calls and by os/io — into the errno values
// fuseops operations are expected to return. Grounded on the repeated
// err = fuse.ENOENT / fuse.EEXIST / fuse.ENOTDIR idiom throughout fs.go:
// jacobsa/fuse's Errno is a plain alias for syscall.Errno, so most
// conversions only need to unwrap a stdlib error down to the bare errno a
// syscall package already gave it.
package fserrors

import (
	"errors"
	"os"
	"syscall"

	"github.com/jacobsa/fuse"
)

// Named errno values used throughout the dispatcher, re-exported under
// this package so callers don't reach into jacobsa/fuse directly for them.
const (
	ENOENT    = fuse.Errno(syscall.ENOENT)
	EEXIST    = fuse.Errno(syscall.EEXIST)
	ENOTDIR   = fuse.Errno(syscall.ENOTDIR)
	EISDIR    = fuse.Errno(syscall.EISDIR)
	ENOTEMPTY = fuse.Errno(syscall.ENOTEMPTY)
	EACCES    = fuse.Errno(syscall.EACCES)
	EPERM     = fuse.Errno(syscall.EPERM)
	EINVAL    = fuse.Errno(syscall.EINVAL)
	ENOSYS    = fuse.Errno(syscall.ENOSYS)
	EIO       = fuse.Errno(syscall.EIO)
)

// FromSyscall unwraps err — typically straight from a golang.org/x/sys/unix
// call, or an *os.PathError/*os.LinkError wrapping one — down to the bare
// syscall.Errno it carries, so it can be returned as-is from a fuseops
// operation. A nil err passes through unchanged. An err that carries no
// errno at all (not expected from this package's callers, but possible
// from an os/io failure) is reported as EIO rather than dropped.
func FromSyscall(err error) error {
	if err == nil {
		return nil
	}

	var errno syscall.Errno
	if errors.As(err, &errno) {
		return fuse.Errno(errno)
	}

	var pathErr *os.PathError
	if errors.As(err, &pathErr) {
		if errors.As(pathErr.Err, &errno) {
			return fuse.Errno(errno)
		}
	}

	var linkErr *os.LinkError
	if errors.As(err, &linkErr) {
		if errors.As(linkErr.Err, &errno) {
			return fuse.Errno(errno)
		}
	}

	if os.IsNotExist(err) {
		return ENOENT
	}
	if os.IsExist(err) {
		return EEXIST
	}
	if os.IsPermission(err) {
		return EPERM
	}

	return EIO
}

// IsNotExist reports whether err, once unwrapped by FromSyscall, is ENOENT.
func IsNotExist(err error) bool {
	var errno fuse.Errno
	return errors.As(FromSyscall(err), &errno) && errno == syscall.Errno(ENOENT)
}
