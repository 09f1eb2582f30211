// Package convert moves metadata between a sidecar Record, a raw platform
// stat buffer, and the attributes FUSE reports for an inode. It is grounded
// on filestat_converter.c: the same three operations that file implements
// (stat -> filestat, realfile -> filestat, filestat -> stat) reappear here
// as RecordFromStat, RecordFromUnderlyingFile, and ApplyToStat.
package convert

// Options is catalogfs's per-mount policy: whether a saved field in the
// Record overrides the sidecar's own real stat when the overlay reports
// attributes back to the kernel.
//
// Mode and Times use override-if-NOT-ignore semantics: the saved value
// wins unless the flag says to ignore it. UID and GID use the opposite,
// override-if-use semantics: the sidecar's real owner wins unless the
// flag says to use the saved one. This asymmetry matches the flag
// naming and is not a bug.
type Options struct {
	IgnoreSavedMode  bool
	IgnoreSavedTimes bool
	UseSavedUID      bool
	UseSavedGID      bool
}
