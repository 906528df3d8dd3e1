package archive

import (
	"archive/tar"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// TarGzDir archives the contents of src into a gzip-compressed tarball at
// dest. With a non-empty prefix the tree is relocated under prefix inside
// the archive; otherwise contents land at the archive root.
func TarGzDir(src, dest, prefix string) error {
	return tarDir(src, dest, prefix, CompressionGzip)
}

// TarXzDir is TarGzDir with xz compression.
func TarXzDir(src, dest, prefix string) error {
	return tarDir(src, dest, prefix, CompressionXz)
}

// TarZstdDir is TarGzDir with zstd compression.
func TarZstdDir(src, dest, prefix string) error {
	return tarDir(src, dest, prefix, CompressionZstd)
}

func tarDir(src, dest, prefix string, kind Compression) error {
	f, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrCreateDest, dest, err)
	}
	defer f.Close()

	cw, err := kind.wrap(f)
	if err != nil {
		return fmt.Errorf("%s: %w", dest, err)
	}

	tw := tar.NewWriter(cw)
	if err := appendTree(tw, src, prefix); err != nil {
		return fmt.Errorf("%s => %s: %w", src, dest, err)
	}

	// Finalize inner before outer: the tar end-of-archive marker has to
	// pass through the compressor before the compression trailer goes out.
	// Either phase failing leaves dest corrupt.
	if err := tw.Close(); err != nil {
		return fmt.Errorf("%w: tar trailer: %s: %w", ErrFinalize, dest, err)
	}
	if err := cw.Close(); err != nil {
		return fmt.Errorf("%w: compression trailer: %s: %w", ErrFinalize, dest, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrFinalize, dest, err)
	}
	return nil
}

// appendTree writes every entry under src into tw with names joined under
// prefix. Ancestor directories of a non-empty prefix are written first so
// the relocated tree never relies on implicit parents. Symlinks and other
// special files are a hard error, never silently skipped.
func appendTree(tw *tar.Writer, src, prefix string) error {
	for _, dir := range prefixAncestors(prefix) {
		hdr := &tar.Header{Name: dir + "/", Mode: 0o755, Typeflag: tar.TypeDir}
		if err := tw.WriteHeader(hdr); err != nil {
			return fmt.Errorf("%w: %s: %w", ErrWrite, dir, err)
		}
	}

	for entry, err := range Walk(src) {
		if err != nil {
			return fmt.Errorf("%w: %s: %w", ErrWrite, entry.Abs, err)
		}
		if entry.Rel == "." {
			// The walk root has no entry of its own; with a prefix its
			// place is taken by the ancestor entries above.
			continue
		}
		info, err := entry.D.Info()
		if err != nil {
			return fmt.Errorf("%w: %s: %w", ErrWrite, entry.Abs, err)
		}
		name := archiveName(prefix, entry.Rel)
		switch {
		case info.Mode().IsRegular():
			hdr, err := tar.FileInfoHeader(info, "")
			if err != nil {
				return fmt.Errorf("%w: %s: %w", ErrWrite, entry.Abs, err)
			}
			hdr.Name = name
			if err := tw.WriteHeader(hdr); err != nil {
				return fmt.Errorf("%w: %s: %w", ErrWrite, name, err)
			}
			if err := copyFile(tw, entry.Abs); err != nil {
				return fmt.Errorf("%w: %s: %w", ErrWrite, entry.Abs, err)
			}
		case info.IsDir():
			hdr, err := tar.FileInfoHeader(info, "")
			if err != nil {
				return fmt.Errorf("%w: %s: %w", ErrWrite, entry.Abs, err)
			}
			hdr.Name = name + "/"
			if err := tw.WriteHeader(hdr); err != nil {
				return fmt.Errorf("%w: %s: %w", ErrWrite, name, err)
			}
		default:
			return fmt.Errorf("%w: %s (%s)", ErrUnsupportedEntry, entry.Abs, info.Mode().Type())
		}
	}
	return nil
}

func copyFile(w io.Writer, p string) error {
	f, err := os.Open(p)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = io.Copy(w, f)
	return err
}

// archiveName joins prefix and a root-relative path into the slash
// separated in-archive name.
func archiveName(prefix, rel string) string {
	return path.Join(filepath.ToSlash(prefix), filepath.ToSlash(rel))
}

// prefixAncestors expands "a/b/c" into ["a", "a/b", "a/b/c"]. An empty
// prefix expands to nothing.
func prefixAncestors(prefix string) []string {
	prefix = strings.Trim(path.Clean(filepath.ToSlash(prefix)), "/")
	if prefix == "" || prefix == "." {
		return nil
	}
	parts := strings.Split(prefix, "/")
	out := make([]string, len(parts))
	for i, part := range parts {
		if i == 0 {
			out[i] = part
		} else {
			out[i] = out[i-1] + "/" + part
		}
	}
	return out
}
