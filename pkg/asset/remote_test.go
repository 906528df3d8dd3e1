package asset

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAssetServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/README.md", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/markdown")
		_, _ = w.Write([]byte("# assetkit"))
	})
	mux.HandleFunc("/readme", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("# assetkit"))
	})
	mux.HandleFunc("/styles", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/css")
		_, _ = w.Write([]byte("@import"))
	})
	mux.HandleFunc("/naked", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("???"))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestRemote_LoadKeepsPathExtension(t *testing.T) {
	srv := newAssetServer(t)
	remote := NewRemote()

	a, err := remote.Load(t.Context(), srv.URL+"/README.md")
	require.NoError(t, err)
	assert.Equal(t, "README.md", a.Filename)
	assert.Equal(t, "# assetkit", string(a.Contents))
}

func TestRemote_LoadInfersExtension(t *testing.T) {
	srv := newAssetServer(t)
	remote := NewRemote()

	a, err := remote.Load(t.Context(), srv.URL+"/readme")
	require.NoError(t, err)
	assert.Equal(t, "readme.txt", a.Filename)

	a, err = remote.Load(t.Context(), srv.URL+"/styles")
	require.NoError(t, err)
	assert.Equal(t, "styles.css", a.Filename)
}

func TestRemote_LoadMissingContentType(t *testing.T) {
	remote := NewRemote()

	// net/http sniffs a Content-Type on write unless the header is
	// explicitly nil, so force it off to exercise the missing-header path.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header()["Content-Type"] = nil
		_, _ = w.Write([]byte("???"))
	}))
	t.Cleanup(srv.Close)

	_, err := remote.Load(t.Context(), srv.URL+"/naked")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMissingContentType)
}

func TestRemote_LoadNon200(t *testing.T) {
	srv := newAssetServer(t)
	remote := NewRemote()

	_, err := remote.Load(t.Context(), srv.URL+"/missing.md")
	require.Error(t, err)
	assert.ErrorContains(t, err, "404")
}

func TestRemote_Copy(t *testing.T) {
	srv := newAssetServer(t)
	remote := NewRemote()
	destDir := t.TempDir()

	destPath, err := remote.Copy(t.Context(), srv.URL+"/README.md", destDir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(destDir, "README.md"), destPath)

	got, err := os.ReadFile(destPath)
	require.NoError(t, err)
	assert.Equal(t, "# assetkit", string(got))
}

func TestRemote_DefaultHeadersSent(t *testing.T) {
	var gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "text/plain")
		_, _ = w.Write([]byte("ok"))
	}))
	t.Cleanup(srv.Close)

	remote := NewRemote(WithHeaders(map[string]string{"Accept": "text/plain"}))
	_, err := remote.Load(t.Context(), srv.URL+"/file.txt")
	require.NoError(t, err)
	assert.Equal(t, "assetkit/0.1.0", gotUA)
}
