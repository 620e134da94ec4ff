package location

import (
	"net/url"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveShapesAgree(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "data.db")

	fromString, err := Resolve(path)
	require.NoError(t, err)

	fromBytes, err := Resolve([]byte(path))
	require.NoError(t, err)

	u, err := url.Parse("file://" + path)
	require.NoError(t, err)
	fromURL, err := Resolve(u)
	require.NoError(t, err)

	assert.Equal(t, fromString, fromBytes)
	assert.Equal(t, fromString, fromURL)
	assert.True(t, filepath.IsAbs(fromString))
}

func TestResolveRelativeUsesCwd(t *testing.T) {
	cwd, err := os.Getwd()
	require.NoError(t, err)

	got, err := Resolve("some.db")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(cwd, "some.db"), got)
}

func TestResolveInMemorySentinel(t *testing.T) {
	got, err := Resolve(InMemory)
	require.NoError(t, err)
	assert.Equal(t, InMemory, got)
}

func TestResolveRejectsNullBytes(t *testing.T) {
	_, err := Resolve("bad\x00path.db")
	assert.ErrorContains(t, err, "null bytes")

	_, err = Resolve([]byte{'a', 0, 'b'})
	assert.ErrorContains(t, err, "null bytes")
}

func TestResolveRejectsUnsupportedTypes(t *testing.T) {
	for _, loc := range []any{nil, 42, 3.14, true, struct{}{}, map[string]string{}} {
		_, err := Resolve(loc)
		assert.Error(t, err, "location %#v should be rejected", loc)
	}
}

func TestResolveRejectsNonFileScheme(t *testing.T) {
	u, err := url.Parse("https://example.com/data.db")
	require.NoError(t, err)
	_, err = Resolve(u)
	assert.ErrorContains(t, err, "file: scheme")
}

func TestResolveRejectsURLTraversal(t *testing.T) {
	u, err := url.Parse("file:///tmp/../etc/passwd")
	require.NoError(t, err)
	_, err = Resolve(u)
	assert.ErrorContains(t, err, "traversal")
}

func TestResolveRejectsEmpty(t *testing.T) {
	_, err := Resolve("")
	assert.Error(t, err)
}
