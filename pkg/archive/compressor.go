package archive

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/ulikunitz/xz"
)

// Compression selects the byte-stream transform wrapped around the tar
// container. The zip pipeline carries no outer compressor; the zip format
// frames (and here, stores) each entry individually.
type Compression string

const (
	CompressionGzip Compression = "gzip"
	CompressionXz   Compression = "xz"
	CompressionZstd Compression = "zstd"
)

// xzDictCap is the 64 MiB dictionary of liblzma preset 9, the level these
// .tar.xz files have always been encoded at.
const xzDictCap = 64 << 20

// Extension returns the conventional file extension for a tar archive
// compressed with c.
func (c Compression) Extension() string {
	switch c {
	case CompressionGzip:
		return ".tar.gz"
	case CompressionXz:
		return ".tar.xz"
	case CompressionZstd:
		return ".tar.zst"
	default:
		return ".tar"
	}
}

// wrap layers the compressor for c over the destination file. The returned
// writer exclusively owns dest until it is closed; closing it flushes the
// compression trailer but leaves the file itself open. Construction is
// fallible for xz (config verification) and zstd (encoder allocation).
func (c Compression) wrap(dest *os.File) (io.WriteCloser, error) {
	switch c {
	case CompressionGzip:
		zw := gzip.NewWriter(dest)
		// The gzip header's name field records what the decompressed
		// stream is: the tar container named after the destination.
		zw.Name = filepath.Base(dest.Name()) + ".tar"
		return zw, nil
	case CompressionXz:
		xw, err := xz.WriterConfig{DictCap: xzDictCap}.NewWriter(dest)
		if err != nil {
			return nil, fmt.Errorf("%w: xz: %w", ErrEncoder, err)
		}
		return xw, nil
	case CompressionZstd:
		zw, err := zstd.NewWriter(dest)
		if err != nil {
			return nil, fmt.Errorf("%w: zstd: %w", ErrEncoder, err)
		}
		return zw, nil
	default:
		return nil, fmt.Errorf("%w: unsupported compression %q", ErrEncoder, string(c))
	}
}
