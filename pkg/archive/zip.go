package archive

import (
	"archive/zip"
	"fmt"
	"os"
)

// ZipDir archives the contents of src into a zip file at dest. Entries use
// the store method: the zip container already frames per entry, and
// storing bytes verbatim keeps a second compression backend out of this
// pipeline. With a non-empty prefix every ancestor component of the prefix
// is written as an explicit directory entry; some unzip tools refuse paths
// whose parent directories were never declared.
func ZipDir(src, dest, prefix string) error {
	f, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrCreateDest, dest, err)
	}
	defer f.Close()

	zw := zip.NewWriter(f)

	for _, dir := range prefixAncestors(prefix) {
		hdr := &zip.FileHeader{Name: dir + "/", Method: zip.Store}
		if _, err := zw.CreateHeader(hdr); err != nil {
			return fmt.Errorf("%w: %s => %s: %s: %w", ErrWrite, src, dest, dir, err)
		}
	}

	for entry, werr := range Walk(src) {
		if werr != nil {
			return fmt.Errorf("%w: %s => %s: %s: %w", ErrWrite, src, dest, entry.Abs, werr)
		}
		if entry.Rel == "." {
			// The archive root itself has no name; empty-name entries are
			// rejected by several unzip implementations.
			continue
		}
		info, err := entry.D.Info()
		if err != nil {
			return fmt.Errorf("%w: %s => %s: %s: %w", ErrWrite, src, dest, entry.Abs, err)
		}
		name := archiveName(prefix, entry.Rel)
		switch {
		case info.Mode().IsRegular():
			hdr := &zip.FileHeader{Name: name, Method: zip.Store, Modified: info.ModTime()}
			hdr.SetMode(info.Mode())
			w, err := zw.CreateHeader(hdr)
			if err != nil {
				return fmt.Errorf("%w: %s => %s: %s: %w", ErrWrite, src, dest, name, err)
			}
			if err := copyFile(w, entry.Abs); err != nil {
				return fmt.Errorf("%w: %s => %s: %s: %w", ErrWrite, src, dest, entry.Abs, err)
			}
		case info.IsDir():
			hdr := &zip.FileHeader{Name: name + "/", Method: zip.Store, Modified: info.ModTime()}
			hdr.SetMode(info.Mode())
			if _, err := zw.CreateHeader(hdr); err != nil {
				return fmt.Errorf("%w: %s => %s: %s: %w", ErrWrite, src, dest, name, err)
			}
		default:
			return fmt.Errorf("%w: %s (%s)", ErrUnsupportedEntry, entry.Abs, info.Mode().Type())
		}
	}

	// The central directory is mandatory metadata; without it nothing can
	// read the entries written above.
	if err := zw.Close(); err != nil {
		return fmt.Errorf("%w: central directory: %s: %w", ErrFinalize, dest, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrFinalize, dest, err)
	}
	return nil
}
