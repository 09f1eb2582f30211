// Package delim implements a buffered, two-delimiter line reader.
//
// It is the leaf dependency of the sidecar format codec: the codec reads a
// sidecar file one line at a time, and a "line" there means "bytes up to and
// including the first '\n' or '\r'". This package knows nothing about
// sidecars; it only knows how to pull delimited runs of bytes off an
// io.ByteReader with a hard cap on how large a single run may grow.
package delim

import (
	"errors"
	"io"
)

// NoSecondaryDelim disables the secondary delimiter in a ReadLine call.
const NoSecondaryDelim = -1

// startingCapacity is the initial backing-array size for a line, unless the
// caller's maxSize is smaller.
const startingCapacity = 120

// ErrOverflow is returned when one more byte would push a line past maxSize.
var ErrOverflow = errors.New("delim: line exceeds maximum size")

// ReadLine reads the next run of bytes from r up to and including whichever
// of delim or secondaryDelim (NoSecondaryDelim to disable) appears first.
// maxSize caps the total number of bytes read before a delimiter is seen; 0
// means unbounded.
//
// Three outcomes are distinguished:
//
//   - A delimiter was read: (line, false, nil) with the delimiter as the
//     last byte of line.
//   - The stream ended with no delimiter seen but at least one byte read:
//     (line, true, nil). The caller should still treat line as a line; it
//     was simply never newline-terminated.
//   - The stream ended with zero bytes read: (nil, true, nil). There was no
//     line left to read.
//
// Any other return indicates a real I/O error or ErrOverflow; the caller
// owns discarding whatever partial bytes it has buffered.
//
// Reading a single line from a single stream is not reentrant: the caller is
// responsible for serializing calls against the same io.ByteReader (in this
// module's dispatcher, that discipline falls out of the single mutex
// described in the mount lifecycle package, not from anything in here).
func ReadLine(r io.ByteReader, delim byte, secondaryDelim int, maxSize int) (line []byte, eof bool, err error) {
	buf := make([]byte, 0, initialCapacity(maxSize))

	for {
		b, readErr := r.ReadByte()
		if readErr != nil {
			if errors.Is(readErr, io.EOF) {
				if len(buf) == 0 {
					return nil, true, nil
				}
				return buf, true, nil
			}
			return nil, false, readErr
		}

		if maxSize > 0 && len(buf)+1 > maxSize {
			return nil, false, ErrOverflow
		}

		buf = append(buf, b)
		if b == delim || (secondaryDelim >= 0 && int(b) == secondaryDelim) {
			return buf, false, nil
		}
	}
}

func initialCapacity(maxSize int) int {
	if maxSize > 0 && maxSize < startingCapacity {
		return maxSize
	}
	return startingCapacity
}
