package format_test

import (
	"os"
	"testing"

	"github.com/free5lot-go/catalogfs/sidecar/format"
	"github.com/stretchr/testify/require"
)

// Invariant 1: writing a Record to an empty file and reading it back yields
// the same Record, bit-identical on every field.
func TestRoundTripIsBitIdentical(t *testing.T) {
	f, err := os.CreateTemp(t.TempDir(), "sidecar")
	require.NoError(t, err)
	defer f.Close()

	want := &format.Record{
		Size: 123456, Blocks: 242, Mode: 0100755, UID: 501, GID: 20,
		Atime: 1753900000, Mtime: 1753900001, Ctime: 1753900002,
		AtimeNsec: 111, MtimeNsec: 222, CtimeNsec: 333,
		Nlink: 2, Blksize: 131072,
	}

	require.NoError(t, format.Write(f, want))

	got, err := format.ParseFile(f)
	require.NoError(t, err)
	require.Equal(t, want, got)
}

// Rewriting a Record over an existing sidecar still round-trips; the second
// write's content fully replaces the first's.
func TestRoundTripSurvivesRewrite(t *testing.T) {
	f, err := os.CreateTemp(t.TempDir(), "sidecar")
	require.NoError(t, err)
	defer f.Close()

	require.NoError(t, format.Write(f, &format.Record{Size: 1, Nlink: 1}))
	require.NoError(t, format.Write(f, &format.Record{Size: 999, Blksize: 4096, Nlink: 3}))

	got, err := format.ParseFile(f)
	require.NoError(t, err)
	require.EqualValues(t, 999, got.Size)
	require.EqualValues(t, 4096, got.Blksize)
	require.EqualValues(t, 3, got.Nlink)
}
