package bundle

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
)

// Sink delivers bundle files somewhere.
type Sink interface {
	// Name identifies the sink for logging.
	Name() string

	// Write stores data under path inside the sink.
	Write(ctx context.Context, path string, data io.Reader) error

	// Close releases the sink once all writes are done.
	Close(ctx context.Context) error
}

// DirectorySink writes bundle files as loose files under a base
// directory.
type DirectorySink struct {
	fs afero.Fs
}

// NewDirectorySink returns a sink rooted at path, creating the directory
// if needed.
func NewDirectorySink(path string) (*DirectorySink, error) {
	cleanPath := filepath.Clean(path)
	if err := os.MkdirAll(cleanPath, 0o755); err != nil {
		return nil, fmt.Errorf("create output directory %s: %w", cleanPath, err)
	}
	return NewDirectorySinkWithFs(afero.NewBasePathFs(afero.NewOsFs(), cleanPath)), nil
}

// NewDirectorySinkWithFs returns a sink over the given filesystem.
func NewDirectorySinkWithFs(fs afero.Fs) *DirectorySink {
	return &DirectorySink{fs: fs}
}

func (s *DirectorySink) Name() string {
	return fmt.Sprintf("directory(%s)", s.fs.Name())
}

func (s *DirectorySink) Write(_ context.Context, path string, data io.Reader) (err error) {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := s.fs.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}

	f, err := s.fs.Create(path)
	if err != nil {
		return fmt.Errorf("create file %s: %w", path, err)
	}
	defer func() {
		err = errors.Join(err, f.Close())
	}()

	if _, err = io.Copy(f, data); err != nil {
		return fmt.Errorf("write file %s: %w", path, err)
	}
	return nil
}

func (s *DirectorySink) Close(context.Context) error {
	return nil
}
