package ext2

import "errors"

// Error kinds the engine raises. Callers should use errors.Is against these
// sentinels; concrete errors are wrapped with additional context via %w.
var (
	// ErrIO reports that the underlying sector I/O failed, or that a
	// required indirect pointer was zero under a strict (failOnZero) read.
	ErrIO = errors.New("ext2: device I/O error")
	// ErrNoSpace reports that every relevant bitmap is full.
	ErrNoSpace = errors.New("ext2: no space left on device")
	// ErrFileTooBig reports that a logical block index exceeds what the
	// inode's direct/indirect pointers can address.
	ErrFileTooBig = errors.New("ext2: file too big")
	// ErrNotDirectory reports that a create's parent inode is not a
	// directory.
	ErrNotDirectory = errors.New("ext2: not a directory")
	// ErrNameTooLong reports a directory entry name outside [1, 255] bytes.
	ErrNameTooLong = errors.New("ext2: name too long")
	// ErrMagicMismatch reports that a probed device does not carry the
	// ext2 magic number; probing should skip the device rather than treat
	// this as fatal.
	ErrMagicMismatch = errors.New("ext2: magic number mismatch")
)
