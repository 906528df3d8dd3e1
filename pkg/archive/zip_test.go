package archive

import (
	"archive/zip"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// readZip collects a zip file into name -> contents, directory entries
// keeping their trailing slash and an empty body.
func readZip(t *testing.T, p string) map[string]string {
	t.Helper()
	zr, err := zip.OpenReader(p)
	require.NoError(t, err)
	defer zr.Close()

	found := make(map[string]string)
	for _, zf := range zr.File {
		if strings.HasSuffix(zf.Name, "/") {
			found[zf.Name] = ""
			continue
		}
		rc, err := zf.Open()
		require.NoError(t, err)
		body, err := io.ReadAll(rc)
		require.NoError(t, err)
		require.NoError(t, rc.Close())
		found[zf.Name] = string(body)
	}
	return found
}

func TestZipDir_RoundTrip(t *testing.T) {
	src := writeTree(t)
	dest := filepath.Join(t.TempDir(), "out.zip")

	require.NoError(t, ZipDir(src, dest, ""))

	assert.Equal(t, map[string]string{
		"a.txt":      "hello",
		"sub/":       "",
		"sub/b.txt":  "world",
		"sub/empty/": "",
	}, readZip(t, dest))
}

func TestZipDir_StoreMethod(t *testing.T) {
	src := writeTree(t)
	dest := filepath.Join(t.TempDir(), "out.zip")

	require.NoError(t, ZipDir(src, dest, ""))

	zr, err := zip.OpenReader(dest)
	require.NoError(t, err)
	defer zr.Close()
	for _, zf := range zr.File {
		assert.Equal(t, zip.Store, zf.Method, "entry %s", zf.Name)
	}
}

func TestZipDir_Prefix(t *testing.T) {
	src := writeTree(t)
	dest := filepath.Join(t.TempDir(), "out.zip")

	require.NoError(t, ZipDir(src, dest, "pkg"))

	found := readZip(t, dest)
	assert.Equal(t, map[string]string{
		"pkg/":           "",
		"pkg/a.txt":      "hello",
		"pkg/sub/":       "",
		"pkg/sub/b.txt":  "world",
		"pkg/sub/empty/": "",
	}, found)

	for name := range found {
		assert.True(t, name == "pkg/" || strings.HasPrefix(name, "pkg/"), "entry %s escaped the prefix", name)
	}
}

func TestZipDir_PrefixAncestorEntries(t *testing.T) {
	src := writeTree(t)
	dest := filepath.Join(t.TempDir(), "out.zip")

	require.NoError(t, ZipDir(src, dest, "a/b/c"))

	names := lo.Keys(readZip(t, dest))
	for _, dir := range []string{"a/", "a/b/", "a/b/c/"} {
		assert.Contains(t, names, dir)
	}
}

func TestZipDir_MissingDestParent(t *testing.T) {
	src := writeTree(t)
	dest := filepath.Join(t.TempDir(), "no", "such", "dir", "out.zip")

	err := ZipDir(src, dest, "")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrCreateDest)
}

func TestZipDir_SymlinkUnsupported(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlink creation requires privileges on windows")
	}
	src := writeTree(t)
	require.NoError(t, os.Symlink("a.txt", filepath.Join(src, "link")))
	dest := filepath.Join(t.TempDir(), "out.zip")

	err := ZipDir(src, dest, "")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnsupportedEntry)
}
