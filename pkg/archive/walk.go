package archive

import (
	"io/fs"
	"iter"
	"path/filepath"
)

// Entry is a single filesystem object found under a walk root.
type Entry struct {
	// Rel is the path relative to the walk root, in the platform's
	// separator. The root itself is ".".
	Rel string
	// Abs is the root joined with Rel, usable for opening the object.
	Abs string
	// D is the directory entry as reported by the traversal. Nil when the
	// walker yields an enumeration error for this path.
	D fs.DirEntry
}

// Walk enumerates every file and directory under root, the root itself
// included, depth-first in whatever order the filesystem reports. The
// sequence is lazy and restartable: ranging over it again re-walks the
// tree. Enumeration failures (permission errors, races with deletion) are
// yielded to the consumer, who decides whether to skip or abort; the
// walker never swallows them. Symlinks are not followed and hardlinks are
// not deduplicated.
func Walk(root string) iter.Seq2[Entry, error] {
	return func(yield func(Entry, error) bool) {
		_ = filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				if !yield(Entry{Abs: p}, err) {
					return filepath.SkipAll
				}
				return nil
			}
			rel, rerr := filepath.Rel(root, p)
			if rerr != nil {
				if !yield(Entry{Abs: p}, rerr) {
					return filepath.SkipAll
				}
				return nil
			}
			if !yield(Entry{Rel: rel, Abs: p, D: d}, nil) {
				return filepath.SkipAll
			}
			return nil
		})
	}
}
