package format

import (
	"bytes"
	"fmt"
	"io"
)

// Sink is the minimal file-like surface the writer needs: truncate to zero,
// seek back to the start, then write. *os.File satisfies it.
type Sink interface {
	io.Writer
	io.Seeker
	Truncate(size int64) error
}

// Write truncates f to zero length, seeks to its start, and serializes rec
// as a v3 sidecar: the header line followed by the 13 data lines, in the
// fixed order size, blocks, mode, uid, gid, atime, mtime, ctime, atimensec,
// mtimensec, ctimensec, nlink, blksize. Exactly 14 lines are emitted.
//
// Any truncate, seek, or write error is returned verbatim.
func Write(f Sink, rec *Record) error {
	if err := f.Truncate(0); err != nil {
		return err
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return err
	}

	var buf bytes.Buffer
	buf.WriteString(headerLine)
	fmt.Fprintf(&buf, "size=%d\n", rec.Size)
	fmt.Fprintf(&buf, "blocks=%d\n", rec.Blocks)
	fmt.Fprintf(&buf, "mode=%d\n", rec.Mode)
	fmt.Fprintf(&buf, "uid=%d\n", rec.UID)
	fmt.Fprintf(&buf, "gid=%d\n", rec.GID)
	fmt.Fprintf(&buf, "atime=%d\n", rec.Atime)
	fmt.Fprintf(&buf, "mtime=%d\n", rec.Mtime)
	fmt.Fprintf(&buf, "ctime=%d\n", rec.Ctime)
	fmt.Fprintf(&buf, "atimensec=%d\n", rec.AtimeNsec)
	fmt.Fprintf(&buf, "mtimensec=%d\n", rec.MtimeNsec)
	fmt.Fprintf(&buf, "ctimensec=%d\n", rec.CtimeNsec)
	fmt.Fprintf(&buf, "nlink=%d\n", rec.Nlink)
	fmt.Fprintf(&buf, "blksize=%d\n", rec.Blksize)

	_, err := f.Write(buf.Bytes())
	return err
}
