package archive

import "errors"

// Error kinds returned by the archival pipelines. Every error carries the
// relevant paths and the underlying I/O error via wrapping; match the kind
// with errors.Is.
var (
	// ErrCreateDest means the destination file could not be created or
	// truncated (missing parent directory, permissions, full disk). The
	// operation never started.
	ErrCreateDest = errors.New("create destination")

	// ErrWrite means a container-level failure while appending entries.
	// The destination file exists but is truncated or corrupt.
	ErrWrite = errors.New("write archive")

	// ErrFinalize means the tar trailer, zip central directory, or
	// compressor trailer could not be written. All entries were appended,
	// yet the destination file is unusable.
	ErrFinalize = errors.New("finalize archive")

	// ErrEncoder means the compressor itself could not be constructed,
	// independent of any write.
	ErrEncoder = errors.New("construct encoder")

	// ErrUnsupportedEntry means the source tree contains a filesystem
	// object the archive cannot represent (symlink, device, socket).
	// The error is fatal; entries are never silently skipped.
	ErrUnsupportedEntry = errors.New("unsupported entry")
)
