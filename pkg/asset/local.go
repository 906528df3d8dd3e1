package asset

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
)

var (
	// ErrMissingFilename means a filename could not be derived from an
	// origin path.
	ErrMissingFilename = errors.New("no filename in origin path")

	// ErrSearchFailed means SearchAncestors exhausted every ancestor
	// directory without finding the wanted file.
	ErrSearchFailed = errors.New("file not found in any ancestor directory")
)

// Local reads and writes assets on a filesystem.
type Local struct {
	fs afero.Fs
}

// NewLocal returns a Local over the OS filesystem.
func NewLocal() *Local {
	return NewLocalWithFs(afero.NewOsFs())
}

// NewLocalWithFs returns a Local over the given filesystem. Tests use
// afero.NewMemMapFs here.
func NewLocalWithFs(fs afero.Fs) *Local {
	return &Local{fs: fs}
}

// Filename computes the filename component of an origin path.
func Filename(originPath string) (string, error) {
	name := filepath.Base(originPath)
	if name == "." || name == string(filepath.Separator) || name == "/" || name == "" {
		return "", fmt.Errorf("%w: %q", ErrMissingFilename, originPath)
	}
	return name, nil
}

// Load reads the asset at originPath.
func (l *Local) Load(originPath string) (*Asset, error) {
	contents, err := l.LoadBytes(originPath)
	if err != nil {
		return nil, err
	}
	filename, err := Filename(originPath)
	if err != nil {
		return nil, err
	}
	return &Asset{Filename: filename, OriginPath: originPath, Contents: contents}, nil
}

// LoadBytes reads the contents of the asset at originPath.
func (l *Local) LoadBytes(originPath string) ([]byte, error) {
	contents, err := afero.ReadFile(l.fs, originPath)
	if err != nil {
		return nil, fmt.Errorf("read local asset %s: %w", originPath, err)
	}
	return contents, nil
}

// LoadString reads the contents of the asset at originPath as a string.
func (l *Local) LoadString(originPath string) (string, error) {
	contents, err := l.LoadBytes(originPath)
	if err != nil {
		return "", err
	}
	return string(contents), nil
}

// LoadSource reads the asset at originPath as a diagnostics-ready
// SourceFile named after the origin.
func (l *Local) LoadSource(originPath string) (*SourceFile, error) {
	source, err := l.LoadString(originPath)
	if err != nil {
		return nil, err
	}
	return NewSourceFile(originPath, source), nil
}

// Write stores a into destDir under the asset's filename, returning the
// written path.
func (l *Local) Write(a *Asset, destDir string) (string, error) {
	destPath := filepath.Join(destDir, a.Filename)
	if err := afero.WriteFile(l.fs, destPath, a.Contents, 0o644); err != nil {
		return "", fmt.Errorf("write asset %s to %s: %w", a.OriginPath, destPath, err)
	}
	return destPath, nil
}

// WriteNew creates filename in destDir with the given contents, returning
// the written path. The parent directory must already exist.
func (l *Local) WriteNew(contents []byte, filename, destDir string) (string, error) {
	destPath := filepath.Join(destDir, filename)
	if err := afero.WriteFile(l.fs, destPath, contents, 0o644); err != nil {
		return "", fmt.Errorf("write new asset %s: %w", destPath, err)
	}
	return destPath, nil
}

// WriteNewAll is WriteNew creating destDir and any missing parents first.
func (l *Local) WriteNewAll(contents []byte, filename, destDir string) (string, error) {
	if err := l.fs.MkdirAll(destDir, 0o755); err != nil {
		return "", fmt.Errorf("write new asset %s: %w", filepath.Join(destDir, filename), err)
	}
	return l.WriteNew(contents, filename, destDir)
}

// CreateDir creates a single directory.
func (l *Local) CreateDir(dest string) error {
	if err := l.fs.Mkdir(dest, 0o755); err != nil {
		return fmt.Errorf("create directory %s: %w", dest, err)
	}
	return nil
}

// CreateDirAll creates a directory and any missing parents.
func (l *Local) CreateDirAll(dest string) error {
	if err := l.fs.MkdirAll(dest, 0o755); err != nil {
		return fmt.Errorf("create directory %s: %w", dest, err)
	}
	return nil
}

// RemoveFile deletes a single file.
func (l *Local) RemoveFile(dest string) error {
	if err := l.fs.Remove(dest); err != nil {
		return fmt.Errorf("remove %s: %w", dest, err)
	}
	return nil
}

// RemoveDir deletes an empty directory. Removing a path that is not a
// directory is a no-op, mirroring the historical behavior callers rely
// on.
func (l *Local) RemoveDir(dest string) error {
	ok, err := afero.DirExists(l.fs, dest)
	if err != nil || !ok {
		return nil
	}
	if err := l.fs.Remove(dest); err != nil {
		return fmt.Errorf("remove %s: %w", dest, err)
	}
	return nil
}

// RemoveDirAll deletes a directory and everything under it.
func (l *Local) RemoveDirAll(dest string) error {
	ok, err := afero.DirExists(l.fs, dest)
	if err != nil || !ok {
		return nil
	}
	if err := l.fs.RemoveAll(dest); err != nil {
		return fmt.Errorf("remove %s: %w", dest, err)
	}
	return nil
}

// Copy loads the asset at originPath and writes it into destDir,
// returning the written path.
func (l *Local) Copy(originPath, destDir string) (string, error) {
	a, err := l.Load(originPath)
	if err != nil {
		return "", err
	}
	return l.Write(a, destDir)
}

// SearchAncestors looks for desiredFilename in startDir and each of its
// ancestor directories, returning the path of the first match. A relative
// startDir is resolved against the working directory first so ancestor
// iteration walks real roots.
func (l *Local) SearchAncestors(startDir, desiredFilename string) (string, error) {
	startDir = filepath.Clean(startDir)
	if !filepath.IsAbs(startDir) {
		cwd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("resolve working directory: %w", err)
		}
		startDir = filepath.Join(cwd, startDir)
	}
	for dir := startDir; ; dir = filepath.Dir(dir) {
		filePath := filepath.Join(dir, desiredFilename)
		if info, err := l.fs.Stat(filePath); err == nil && info.Mode().IsRegular() {
			return filePath, nil
		}
		if dir == filepath.Dir(dir) {
			break
		}
	}
	return "", fmt.Errorf("%w: %s (from %s)", ErrSearchFailed, desiredFilename, startDir)
}
