// Package archive turns a directory tree into a single compressed archive
// file. Four container/compression pairings are supported: tar+gzip,
// tar+xz, tar+zstd, and zip with stored entries. An optional root prefix
// relocates the tree's apparent position inside the archive without
// touching the source filesystem.
//
// Every operation is synchronous and self-contained: handles are created,
// used once, and torn down within the call. Destination files are created
// with create-or-truncate semantics and are left behind on failure;
// deleting a partially written destination is the caller's decision.
package archive

import "fmt"

// Format selects one of the supported container/compression pairings.
// Formats are chosen by the caller, never sniffed from the destination
// path.
type Format string

const (
	FormatTarGz  Format = "tar-gz"
	FormatTarXz  Format = "tar-xz"
	FormatTarZst Format = "tar-zst"
	FormatZip    Format = "zip"
)

// ParseFormat maps a user-facing format name to a Format.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatTarGz, FormatTarXz, FormatTarZst, FormatZip:
		return Format(s), nil
	default:
		return "", fmt.Errorf("unsupported archive format %q (want tar-gz, tar-xz, tar-zst or zip)", s)
	}
}

// Extension returns the conventional file extension for f.
func (f Format) Extension() string {
	switch f {
	case FormatTarGz:
		return CompressionGzip.Extension()
	case FormatTarXz:
		return CompressionXz.Extension()
	case FormatTarZst:
		return CompressionZstd.Extension()
	case FormatZip:
		return ".zip"
	default:
		return ""
	}
}

// Request names a single archival operation: the tree rooted at SourceDir
// is written to DestPath. With a non-empty RootPrefix every entry is
// relocated under that slash-separated relative path; otherwise the
// tree's contents land directly at the archive root, not nested under the
// source directory's own name.
type Request struct {
	SourceDir  string
	DestPath   string
	RootPrefix string
}

// Create runs the pipeline for f against req.
func Create(f Format, req Request) error {
	switch f {
	case FormatTarGz:
		return TarGzDir(req.SourceDir, req.DestPath, req.RootPrefix)
	case FormatTarXz:
		return TarXzDir(req.SourceDir, req.DestPath, req.RootPrefix)
	case FormatTarZst:
		return TarZstdDir(req.SourceDir, req.DestPath, req.RootPrefix)
	case FormatZip:
		return ZipDir(req.SourceDir, req.DestPath, req.RootPrefix)
	default:
		return fmt.Errorf("unsupported archive format %q", string(f))
	}
}
