package format

import (
	"bufio"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/free5lot-go/catalogfs/sidecar/delim"
)

// ParseFile stats f to learn its size before reading a byte of it — a
// sidecar strictly larger than MaxSidecarSize is rejected with ErrTooLarge
// without allocating anything for its contents.
func ParseFile(f *os.File) (*Record, error) {
	fi, err := f.Stat()
	if err != nil {
		return nil, err
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}
	return ParseReader(f, fi.Size())
}

// ParseReader parses a sidecar from r into a Record. sizeHint, when >= 0, is
// the file's already-known size and is checked against MaxSidecarSize before
// any byte is read; pass -1 when the size isn't known ahead of time (tests
// exercising the parser directly on a string do this).
//
// The returned Record starts out zeroed and only the fields the file names
// are set: a field the file does not mention stays zero, and unrecognized
// keys are ignored. No caller-supplied skeleton is merged in.
func ParseReader(r io.Reader, sizeHint int64) (*Record, error) {
	if sizeHint >= 0 && sizeHint > MaxSidecarSize {
		return nil, ErrTooLarge
	}

	br := bufio.NewReader(r)

	legacy, sep, err := readHeader(br)
	if err != nil {
		return nil, err
	}

	rec := &Record{}
	for {
		line, atEOF, err := nextSignificantLine(br, 0)
		if err != nil {
			return nil, err
		}
		if line == "" && atEOF {
			break
		}

		key, value, err := splitKV(line, sep)
		if err != nil {
			return nil, err
		}

		if legacy && isLegacyTerminalKey(key) {
			break
		}

		if err := applyField(rec, key, value); err != nil {
			return nil, err
		}

		if atEOF {
			break
		}
	}

	if err := validateNonNegative(rec); err != nil {
		return nil, err
	}

	return rec, nil
}

// readHeader locates the first non-skippable line (skipping comments and
// blank lines, each capped at MaxHeaderBytes) and classifies it as the
// current header or one of the two legacy headers, returning whether legacy
// mode applies and which separator byte subsequent data lines use.
func readHeader(br *bufio.Reader) (legacy bool, sep byte, err error) {
	line, atEOF, err := nextSignificantLine(br, MaxHeaderBytes)
	if err != nil {
		return false, 0, err
	}
	if line == "" && atEOF {
		return false, 0, ErrBadHeader
	}

	switch line {
	case CurrentHeader:
		return false, Separator, nil
	case LegacyHeaderV1, LegacyHeaderV2:
		return true, LegacySeparator, nil
	default:
		return false, 0, ErrBadHeader
	}
}

// nextSignificantLine returns the next line that is neither a comment nor
// blank, with its trailing delimiter stripped and surrounding whitespace
// trimmed. A return of ("", true, nil) means the stream is exhausted.
func nextSignificantLine(br *bufio.Reader, maxSize int) (string, bool, error) {
	for {
		raw, atEOF, err := delim.ReadLine(br, '\n', int('\r'), maxSize)
		if err != nil {
			return "", false, err
		}
		if len(raw) == 0 && atEOF {
			return "", true, nil
		}

		cleaned := strings.TrimSpace(string(trimDelimiter(raw)))
		if cleaned == "" || isComment(cleaned) {
			if atEOF {
				return "", true, nil
			}
			continue
		}

		return cleaned, atEOF, nil
	}
}

func trimDelimiter(line []byte) []byte {
	if n := len(line); n > 0 && (line[n-1] == '\n' || line[n-1] == '\r') {
		return line[:n-1]
	}
	return line
}

func isComment(line string) bool {
	return strings.HasPrefix(line, "#") || strings.HasPrefix(line, ";")
}

// splitKV splits a data line on the first occurrence of sep, trimming
// whitespace from both sides.
func splitKV(line string, sep byte) (key, value string, err error) {
	idx := strings.IndexByte(line, sep)
	if idx < 0 {
		return "", "", ErrMalformedLine
	}

	key = strings.TrimSpace(line[:idx])
	value = strings.TrimSpace(line[idx+1:])

	if key == "" || len(key) > MaxKeyBytes || len(value) > MaxValueBytes {
		return "", "", ErrMalformedLine
	}

	return key, value, nil
}

// applyField assigns a recognized key's strictly-parsed numeric value onto
// rec. An unrecognized key is accepted and silently ignored.
func applyField(rec *Record, key, value string) error {
	switch key {
	case "size":
		return parseInt(value, &rec.Size)
	case "blocks":
		return parseInt(value, &rec.Blocks)
	case "mode":
		return parseUint32(value, &rec.Mode)
	case "uid":
		return parseUint32(value, &rec.UID)
	case "gid":
		return parseUint32(value, &rec.GID)
	case "atime":
		return parseInt(value, &rec.Atime)
	case "mtime":
		return parseInt(value, &rec.Mtime)
	case "ctime":
		return parseInt(value, &rec.Ctime)
	case "atimensec":
		return parseInt(value, &rec.AtimeNsec)
	case "mtimensec":
		return parseInt(value, &rec.MtimeNsec)
	case "ctimensec":
		return parseInt(value, &rec.CtimeNsec)
	case "nlink":
		return parseUint64(value, &rec.Nlink)
	case "blksize":
		return parseInt(value, &rec.Blksize)
	default:
		return nil
	}
}

func parseInt(value string, dst *int64) error {
	v, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return ErrMalformedLine
	}
	*dst = v
	return nil
}

func parseUint32(value string, dst *uint32) error {
	v, err := strconv.ParseUint(value, 10, 32)
	if err != nil {
		return ErrMalformedLine
	}
	*dst = uint32(v)
	return nil
}

func parseUint64(value string, dst *uint64) error {
	v, err := strconv.ParseUint(value, 10, 64)
	if err != nil {
		return ErrMalformedLine
	}
	*dst = v
	return nil
}

// validateNonNegative enforces the post-read validation rule: size, blocks,
// atime, mtime, ctime, atimensec, mtimensec, ctimensec and blksize must all
// be non-negative. mode/uid/gid/nlink can't be negative; they're unsigned.
func validateNonNegative(rec *Record) error {
	for _, v := range []int64{
		rec.Size, rec.Blocks,
		rec.Atime, rec.Mtime, rec.Ctime,
		rec.AtimeNsec, rec.MtimeNsec, rec.CtimeNsec,
		rec.Blksize,
	} {
		if v < 0 {
			return ErrNegativeField
		}
	}
	return nil
}
