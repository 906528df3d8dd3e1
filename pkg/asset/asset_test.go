package asset

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsRemote(t *testing.T) {
	tests := []struct {
		origin  string
		remote  bool
		wantErr bool
	}{
		{origin: "/local/path.txt", remote: false},
		{origin: "relative/path.txt", remote: false},
		{origin: "http://example.com/a.txt", remote: true},
		{origin: "https://example.com/a.txt", remote: true},
		// Looks like a URL but is not fetchable over http(s): refuse it
		// rather than treating it as a weird filesystem path.
		{origin: "httpx://example.com/a.txt", wantErr: true},
	}
	for _, tt := range tests {
		remote, err := IsRemote(tt.origin)
		if tt.wantErr {
			assert.Error(t, err, "origin %q", tt.origin)
			continue
		}
		require.NoError(t, err, "origin %q", tt.origin)
		assert.Equal(t, tt.remote, remote, "origin %q", tt.origin)
	}
}

func TestStore_DispatchesLocalAndRemote(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		_, _ = w.Write([]byte("remote contents"))
	}))
	t.Cleanup(srv.Close)

	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/assets/local.txt", []byte("local contents"), 0o644))
	store := NewStore(WithLocal(NewLocalWithFs(fs)))

	got, err := store.LoadString(t.Context(), "/assets/local.txt")
	require.NoError(t, err)
	assert.Equal(t, "local contents", got)

	got, err = store.LoadString(t.Context(), srv.URL+"/file.txt")
	require.NoError(t, err)
	assert.Equal(t, "remote contents", got)
}

func TestStore_LoadSource(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/cfg.yaml", []byte("name: bundled\n"), 0o644))
	store := NewStore(WithLocal(NewLocalWithFs(fs)))

	src, err := store.LoadSource(t.Context(), "/cfg.yaml")
	require.NoError(t, err)
	assert.Equal(t, "/cfg.yaml", src.Name())

	var got struct {
		Name string `yaml:"name"`
	}
	require.NoError(t, src.DecodeYAML(&got))
	assert.Equal(t, "bundled", got.Name)
}

func TestStore_RejectsUnsupportedScheme(t *testing.T) {
	store := NewStore()

	_, err := store.Load(t.Context(), "httpfoo://example.com/x")
	require.Error(t, err)
}
