package convert_test

import (
	"testing"

	"golang.org/x/sys/unix"

	"github.com/free5lot-go/catalogfs/sidecar/convert"
	"github.com/free5lot-go/catalogfs/sidecar/format"
)

func realStat() unix.Stat_t {
	var st unix.Stat_t
	st.Size = 12
	st.Blocks = 1
	st.Mode = 0100644
	st.Uid = 1
	st.Gid = 1
	st.Nlink = 3
	st.Blksize = 4096
	st.Atim = unix.Timespec{Sec: 1, Nsec: 1}
	st.Mtim = unix.Timespec{Sec: 2, Nsec: 2}
	st.Ctim = unix.Timespec{Sec: 3, Nsec: 3}
	return st
}

func savedRecord() *format.Record {
	return &format.Record{
		Size: 999, Blocks: 2, Mode: 0100755, UID: 42, GID: 42,
		Atime: 100, Mtime: 200, Ctime: 300,
		AtimeNsec: 10, MtimeNsec: 20, CtimeNsec: 30,
		Nlink: 999, Blksize: 999,
	}
}

func TestRecordFromStatIsAStraightCopy(t *testing.T) {
	st := realStat()
	rec := convert.RecordFromStat(&st)

	if rec.Size != 12 || rec.Blocks != 1 || rec.Mode != 0100644 {
		t.Fatalf("unexpected record: %+v", rec)
	}
	if rec.UID != 1 || rec.GID != 1 || rec.Nlink != 3 || rec.Blksize != 4096 {
		t.Fatalf("unexpected record: %+v", rec)
	}
	if rec.Atime != 1 || rec.AtimeNsec != 1 || rec.Ctime != 3 || rec.CtimeNsec != 3 {
		t.Fatalf("unexpected record: %+v", rec)
	}
}

func TestApplyToStatAlwaysOverwritesSizeAndBlocks(t *testing.T) {
	st := realStat()
	convert.ApplyToStat(&st, savedRecord(), convert.Options{})

	if st.Size != 999 || st.Blocks != 2 {
		t.Fatalf("size/blocks should always be overwritten, got %+v", st)
	}
}

func TestApplyToStatNeverTouchesNlinkOrBlksize(t *testing.T) {
	st := realStat()
	opts := convert.Options{UseSavedUID: true, UseSavedGID: true}
	convert.ApplyToStat(&st, savedRecord(), opts)

	if st.Nlink != 3 || st.Blksize != 4096 {
		t.Fatalf("nlink/blksize must stay the real file's, got %+v", st)
	}
}

func TestApplyToStatModeAndTimesDefaultToSaved(t *testing.T) {
	st := realStat()
	convert.ApplyToStat(&st, savedRecord(), convert.Options{})

	if st.Mode != 0100755 {
		t.Fatalf("expected saved mode to win by default, got %o", st.Mode)
	}
	if st.Atim.Sec != 100 || st.Mtim.Sec != 200 || st.Ctim.Sec != 300 {
		t.Fatalf("expected saved times to win by default, got %+v", st)
	}
}

func TestApplyToStatIgnoreFlagsKeepRealValues(t *testing.T) {
	st := realStat()
	opts := convert.Options{IgnoreSavedMode: true, IgnoreSavedTimes: true}
	convert.ApplyToStat(&st, savedRecord(), opts)

	if st.Mode != 0100644 {
		t.Fatalf("expected real mode preserved, got %o", st.Mode)
	}
	if st.Atim.Sec != 1 || st.Mtim.Sec != 2 || st.Ctim.Sec != 3 {
		t.Fatalf("expected real times preserved, got %+v", st)
	}
}

func TestApplyToStatUidGidDefaultToReal(t *testing.T) {
	st := realStat()
	convert.ApplyToStat(&st, savedRecord(), convert.Options{})

	if st.Uid != 1 || st.Gid != 1 {
		t.Fatalf("expected real uid/gid preserved by default, got %+v", st)
	}
}

func TestApplyToStatUseFlagsPullFromSaved(t *testing.T) {
	st := realStat()
	opts := convert.Options{UseSavedUID: true, UseSavedGID: true}
	convert.ApplyToStat(&st, savedRecord(), opts)

	if st.Uid != 42 || st.Gid != 42 {
		t.Fatalf("expected saved uid/gid applied, got %+v", st)
	}
}
