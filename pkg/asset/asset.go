// Package asset loads, writes, and copies byte assets addressed either by
// a filesystem path or by an http(s) URL. The logic is deliberately thin;
// the point of the package is a single place where both kinds of origin
// behave the same and fail with the same kind of context.
package asset

import (
	"context"
	"fmt"
	"net/url"
	"strings"
)

// Asset is a named blob of bytes together with where it came from.
type Asset struct {
	// Filename is computed from OriginPath and names the asset when it is
	// written somewhere.
	Filename string
	// OriginPath is the local path or URL the asset was loaded from.
	OriginPath string
	// Contents holds the asset bytes.
	Contents []byte
}

// IsRemote reports whether origin names an http(s) URL. URL-looking
// origins with any other scheme are an explicit error rather than being
// quietly treated as filesystem paths.
func IsRemote(origin string) (bool, error) {
	if !strings.HasPrefix(origin, "http") {
		return false, nil
	}
	u, err := url.Parse(origin)
	if err != nil {
		return false, fmt.Errorf("parse origin %q: %w", origin, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return false, fmt.Errorf("unsupported scheme %q in origin %q", u.Scheme, origin)
	}
	return true, nil
}

// Store dispatches asset operations to the local filesystem or to HTTP by
// inspecting each origin.
type Store struct {
	local  *Local
	remote *Remote
}

// StoreOption customizes a Store.
type StoreOption func(*Store)

// WithLocal replaces the local backend, typically with one over an
// in-memory filesystem.
func WithLocal(l *Local) StoreOption {
	return func(s *Store) { s.local = l }
}

// WithRemote replaces the remote backend.
func WithRemote(r *Remote) StoreOption {
	return func(s *Store) { s.remote = r }
}

// NewStore returns a Store over the OS filesystem and a pooled HTTP
// client.
func NewStore(opts ...StoreOption) *Store {
	s := &Store{}
	for _, opt := range opts {
		opt(s)
	}
	if s.local == nil {
		s.local = NewLocal()
	}
	if s.remote == nil {
		s.remote = NewRemote()
	}
	return s
}

// Local returns the store's local backend.
func (s *Store) Local() *Local { return s.local }

// Remote returns the store's remote backend.
func (s *Store) Remote() *Remote { return s.remote }

// Load fetches the asset at origin, local or remote.
func (s *Store) Load(ctx context.Context, origin string) (*Asset, error) {
	remote, err := IsRemote(origin)
	if err != nil {
		return nil, err
	}
	if remote {
		return s.remote.Load(ctx, origin)
	}
	return s.local.Load(origin)
}

// LoadBytes fetches the contents of the asset at origin.
func (s *Store) LoadBytes(ctx context.Context, origin string) ([]byte, error) {
	a, err := s.Load(ctx, origin)
	if err != nil {
		return nil, err
	}
	return a.Contents, nil
}

// LoadString fetches the contents of the asset at origin as a string.
func (s *Store) LoadString(ctx context.Context, origin string) (string, error) {
	b, err := s.LoadBytes(ctx, origin)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Copy fetches the asset at origin and writes it into destDir under its
// computed filename, returning the written path.
func (s *Store) Copy(ctx context.Context, origin, destDir string) (string, error) {
	a, err := s.Load(ctx, origin)
	if err != nil {
		return "", err
	}
	return s.local.Write(a, destDir)
}

// LoadSource fetches the asset at origin as a diagnostics-ready
// SourceFile.
func (s *Store) LoadSource(ctx context.Context, origin string) (*SourceFile, error) {
	source, err := s.LoadString(ctx, origin)
	if err != nil {
		return nil, err
	}
	return NewSourceFile(origin, source), nil
}
