package fs

import (
	"os"
	"runtime"
)

// fdFile wraps a raw file descriptor obtained from an *at syscall as an
// *os.File so it can be handed to sidecar/format, which reads and writes
// through the standard io interfaces. name is cosmetic — *os.File uses it
// only for error messages and Name().
//
// The caller owns fd's lifetime, not the returned *os.File: several
// callers keep fd open in a fileHandle long after this wrapper is
// dropped, and os.NewFile's finalizer would otherwise close fd out from
// under them whenever the wrapper happens to be garbage collected.
func fdFile(fd int, name string) *os.File {
	f := os.NewFile(uintptr(fd), name)
	runtime.SetFinalizer(f, nil)
	return f
}

func nextValue(a, b int64) int64 {
	if a > b {
		return a
	}
	return b
}
