package format

import "errors"

var (
	// ErrTooLarge is returned when a sidecar's size (known in advance, from a
	// stat of the underlying file) exceeds MaxSidecarSize. The file's
	// contents are never read in this case.
	ErrTooLarge = errors.New("format: sidecar exceeds maximum size")

	// ErrBadHeader is returned when the first non-skippable line is neither
	// the current header nor a recognized legacy header.
	ErrBadHeader = errors.New("format: missing or unrecognized header")

	// ErrMalformedLine is returned for a data line with no separator, or
	// with a key that is empty or longer than MaxKeyBytes, or a value
	// longer than MaxValueBytes.
	ErrMalformedLine = errors.New("format: malformed data line")

	// ErrNegativeField is returned when a parsed numeric field that must be
	// non-negative parsed as negative.
	ErrNegativeField = errors.New("format: negative field value")
)
