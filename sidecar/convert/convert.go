package convert

import (
	"golang.org/x/sys/unix"

	"github.com/free5lot-go/catalogfs/sidecar/format"
)

// ApplyToStat overlays rec onto dst, which the caller has already populated
// with a real stat of the sidecar file on disk. Size and blocks are always
// replaced with the saved values: that substitution is the entire point of
// the overlay. Mode and the three timestamps are replaced unless the
// corresponding Ignore flag is set; uid and gid are replaced only if the
// corresponding Use flag is set. Nlink and Blksize are never touched — dst
// keeps whatever the real stat of the sidecar reported for them.
//
// Grounded on fill_stat_from_filestat_with_options, including its choice to
// leave nlink/blksize alone: the comment there argues the real directory's
// link count and block size are more useful to callers than anything a
// sidecar could remember.
func ApplyToStat(dst *unix.Stat_t, rec *format.Record, opts Options) {
	dst.Size = rec.Size
	dst.Blocks = rec.Blocks

	if !opts.IgnoreSavedMode {
		dst.Mode = rec.Mode
	}

	if !opts.IgnoreSavedTimes {
		dst.Atim.Sec, dst.Atim.Nsec = rec.Atime, rec.AtimeNsec
		dst.Mtim.Sec, dst.Mtim.Nsec = rec.Mtime, rec.MtimeNsec
		dst.Ctim.Sec, dst.Ctim.Nsec = rec.Ctime, rec.CtimeNsec
	}

	if opts.UseSavedUID {
		dst.Uid = rec.UID
	}
	if opts.UseSavedGID {
		dst.Gid = rec.GID
	}
}
