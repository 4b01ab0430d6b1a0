package storage

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var localURLPattern = regexp.MustCompile(`^/uploads/\d+-[A-Za-z0-9._-]+$`)

func stringSource(name, content string) Source {
	return Source{
		Name: name,
		Size: int64(len(content)),
		Open: func() (io.ReadCloser, error) {
			return io.NopCloser(strings.NewReader(content)), nil
		},
	}
}

func TestLocalBackendStore(t *testing.T) {
	dir := t.TempDir()
	backend, err := NewLocal(dir)
	require.NoError(t, err)

	obj, err := backend.Store(context.Background(), "announcement", stringSource("tüzük taslağı.pdf", "pdf-bytes"))
	require.NoError(t, err)

	assert.Equal(t, BackendLocal, obj.Backend)
	assert.Regexp(t, localURLPattern, obj.URL)

	// the URL maps straight onto the uploads directory
	name := strings.TrimPrefix(obj.URL, "/uploads/")
	data, err := os.ReadFile(filepath.Join(dir, name))
	require.NoError(t, err)
	assert.Equal(t, "pdf-bytes", string(data))
}

func TestLocalBackendDistinctNames(t *testing.T) {
	backend, err := NewLocal(t.TempDir())
	require.NoError(t, err)

	a, err := backend.Store(context.Background(), "press", stringSource("photo.jpg", "a"))
	require.NoError(t, err)
	b, err := backend.Store(context.Background(), "press", stringSource("photo.jpg", "b"))
	require.NoError(t, err)

	assert.NotEqual(t, a.URL, b.URL)
}

func TestNewLocalRequiresDir(t *testing.T) {
	_, err := NewLocal("")
	assert.Error(t, err)
}

func TestSanitizeFilename(t *testing.T) {
	cases := map[string]string{
		"basın bülteni.pdf":     "bas-n-b-lteni.pdf",
		`..\..\evil.sh`:         "evil.sh",
		"/etc/passwd":           "passwd",
		"normal-name_1.2.jpg":   "normal-name_1.2.jpg",
		"":                      "file",
		"???":                   "file",
		"  spaced  name  .png ": "spaced-name-.png",
	}
	for in, want := range cases {
		assert.Equal(t, want, SanitizeFilename(in), "input %q", in)
	}
}
