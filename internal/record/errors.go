package record

import "errors"

var (
	// ErrStopped is returned by a sink whose consumer went away, e.g. a
	// preview window that was closed. It ends a run without failing it.
	ErrStopped = errors.New("record: stopped")

	// ErrBadCodec indicates an unknown codec or one that is not 4 characters.
	ErrBadCodec = errors.New("record: bad codec")

	// ErrNotWritable indicates an output location that cannot be written.
	ErrNotWritable = errors.New("record: output not writable")

	// ErrTooLong indicates a run longer than the output format can buffer.
	ErrTooLong = errors.New("record: output too long")

	// ErrClosed is returned when writing to a sink after Close.
	ErrClosed = errors.New("record: sink closed")
)
