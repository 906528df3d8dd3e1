package asset

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/hashicorp/go-cleanhttp"
	"github.com/samber/lo"
)

const defaultTimeout = 30 * time.Second

var defaultHeaders = map[string]string{
	"User-Agent": "assetkit/0.1.0",
	"Accept":     "*/*",
}

var (
	// ErrMissingContentType means the server sent no Content-Type header
	// and the URL path carries no extension to name the asset with.
	ErrMissingContentType = errors.New("missing content-type header")

	// ErrUnsupportedMimeType means no file extension is known for the
	// served content type.
	ErrUnsupportedMimeType = errors.New("unsupported mime type")
)

// Remote fetches assets over http(s).
type Remote struct {
	client  *http.Client
	headers map[string]string
}

// RemoteOption customizes a Remote.
type RemoteOption func(*Remote)

// WithHTTPClient replaces the default pooled client.
func WithHTTPClient(client *http.Client) RemoteOption {
	return func(r *Remote) { r.client = client }
}

// WithHeaders merges extra request headers over the defaults.
func WithHeaders(headers map[string]string) RemoteOption {
	return func(r *Remote) { r.headers = lo.Assign(r.headers, headers) }
}

// NewRemote returns a Remote over a pooled transport with a request
// timeout.
func NewRemote(opts ...RemoteOption) *Remote {
	r := &Remote{headers: lo.Assign(defaultHeaders)}
	for _, opt := range opts {
		opt(r)
	}
	if r.client == nil {
		r.client = &http.Client{
			Transport: cleanhttp.DefaultPooledTransport(),
			Timeout:   defaultTimeout,
		}
	}
	return r
}

// Load fetches the asset at originURL with a single GET.
func (r *Remote) Load(ctx context.Context, originURL string) (*Asset, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, originURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request for %s: %w", originURL, err)
	}
	for k, v := range r.headers {
		if req.Header.Get(k) == "" {
			req.Header.Set(k, v)
		}
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch remote asset %s: %w", originURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch remote asset %s: unexpected status %s", originURL, resp.Status)
	}

	contents, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read remote asset %s: %w", originURL, err)
	}

	filename, err := remoteFilename(originURL, resp.Header)
	if err != nil {
		return nil, err
	}

	return &Asset{Filename: filename, OriginPath: originURL, Contents: contents}, nil
}

// LoadBytes fetches the contents of the asset at originURL.
func (r *Remote) LoadBytes(ctx context.Context, originURL string) ([]byte, error) {
	a, err := r.Load(ctx, originURL)
	if err != nil {
		return nil, err
	}
	return a.Contents, nil
}

// LoadString fetches the contents of the asset at originURL as a string.
func (r *Remote) LoadString(ctx context.Context, originURL string) (string, error) {
	b, err := r.LoadBytes(ctx, originURL)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// LoadSource fetches the asset at originURL as a diagnostics-ready
// SourceFile named after the URL.
func (r *Remote) LoadSource(ctx context.Context, originURL string) (*SourceFile, error) {
	source, err := r.LoadString(ctx, originURL)
	if err != nil {
		return nil, err
	}
	return NewSourceFile(originURL, source), nil
}

// Copy fetches the asset at originURL and writes it into destDir under
// its computed filename, returning the written path.
func (r *Remote) Copy(ctx context.Context, originURL, destDir string) (string, error) {
	a, err := r.Load(ctx, originURL)
	if err != nil {
		return "", err
	}
	destPath := filepath.Join(destDir, a.Filename)
	if err := os.WriteFile(destPath, a.Contents, 0o644); err != nil {
		return "", fmt.Errorf("write remote asset %s to %s: %w", originURL, destPath, err)
	}
	return destPath, nil
}

// remoteFilename flattens the URL path into a filename, inferring an
// extension from the response Content-Type when the path has none.
func remoteFilename(originURL string, header http.Header) (string, error) {
	u, err := url.Parse(originURL)
	if err != nil {
		return "", fmt.Errorf("parse origin %q: %w", originURL, err)
	}
	stem := strings.TrimPrefix(strings.ReplaceAll(u.Path, "/", "_"), "_")
	if stem == "" {
		return "", fmt.Errorf("%w: %q", ErrMissingFilename, originURL)
	}
	if strings.Contains(stem, ".") {
		return stem, nil
	}
	ext, err := extensionForContentType(header.Get("Content-Type"), originURL)
	if err != nil {
		return "", err
	}
	return stem + ext, nil
}

func extensionForContentType(contentType, originURL string) (string, error) {
	if contentType == "" {
		return "", fmt.Errorf("%w: %s", ErrMissingContentType, originURL)
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return "", fmt.Errorf("parse content-type %q for %s: %w", contentType, originURL, err)
	}
	mt := mimetype.Lookup(mediaType)
	if mt == nil || mt.Extension() == "" {
		return "", fmt.Errorf("%w: %s (%s)", ErrUnsupportedMimeType, originURL, mediaType)
	}
	return mt.Extension(), nil
}
