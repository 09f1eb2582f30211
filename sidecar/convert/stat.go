package convert

import (
	"golang.org/x/sys/unix"

	"github.com/free5lot-go/catalogfs/sidecar/format"
)

// RecordFromStat builds a Record from a raw stat buffer, a straight
// field-for-field copy including the nanosecond split of each timestamp.
// Grounded on fill_filestat_from_stat.
func RecordFromStat(st *unix.Stat_t) *format.Record {
	return &format.Record{
		Size:      st.Size,
		Blocks:    st.Blocks,
		Mode:      st.Mode,
		UID:       st.Uid,
		GID:       st.Gid,
		Atime:     st.Atim.Sec,
		Mtime:     st.Mtim.Sec,
		Ctime:     st.Ctim.Sec,
		AtimeNsec: st.Atim.Nsec,
		MtimeNsec: st.Mtim.Nsec,
		CtimeNsec: st.Ctim.Nsec,
		Nlink:     st.Nlink,
		Blksize:   st.Blksize,
	}
}

// RecordFromUnderlyingFile stats the file at relPath beneath dirFd without
// following a trailing symlink and returns its metadata as a Record. This
// is how a newly created sidecar is seeded: the overlay's own real stat of
// the file it just created is the initial truth, later mutated in place by
// writes. Grounded on fill_filestat_from_realfile.
func RecordFromUnderlyingFile(dirFd int, relPath string) (*format.Record, error) {
	var st unix.Stat_t
	if err := unix.Fstatat(dirFd, relPath, &st, unix.AT_SYMLINK_NOFOLLOW); err != nil {
		return nil, err
	}
	return RecordFromStat(&st), nil
}
