package stub

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestLoader_SingleFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "login.json"), `{"request":{"method":"GET"}}`)

	files, err := NewLoader(dir).Load("login.json")
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, filepath.Join(dir, "login.json"), files[0].Path)
	assert.JSONEq(t, `{"request":{"method":"GET"}}`, string(files[0].Data))
}

func TestLoader_DirectoryIsSortedAndFlat(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "checkout", "02_pay.json"), `{"n":2}`)
	writeFile(t, filepath.Join(dir, "checkout", "01_cart.json"), `{"n":1}`)
	writeFile(t, filepath.Join(dir, "checkout", "nested", "03_skip.json"), `{"n":3}`)

	paths, err := NewLoader(dir).Resolve("checkout")
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "checkout", "01_cart.json"),
		filepath.Join(dir, "checkout", "02_pay.json"),
	}, paths)
}

func TestLoader_RecursiveGlob(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a", "one.json"), `{}`)
	writeFile(t, filepath.Join(dir, "a", "b", "two.json"), `{}`)
	writeFile(t, filepath.Join(dir, "a", "b", "notes.txt"), `ignored`)

	paths, err := NewLoader(dir).Resolve("a/**/*.json")
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "a", "b", "two.json"),
		filepath.Join(dir, "a", "one.json"),
	}, paths)
}

func TestLoader_Errors(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "empty"), 0o755))
	writeFile(t, filepath.Join(dir, "blank.json"), "  \n")

	t.Run("missing file", func(t *testing.T) {
		_, err := NewLoader(dir).Load("missing.json")
		var loadErr *LoadError
		require.True(t, errors.As(err, &loadErr))
		assert.Equal(t, filepath.Join(dir, "missing.json"), loadErr.Path)
		assert.True(t, errors.Is(err, os.ErrNotExist))
	})

	t.Run("empty directory", func(t *testing.T) {
		_, err := NewLoader(dir).Load("empty")
		assert.ErrorIs(t, err, ErrNoStubsFound)
	})

	t.Run("glob without matches", func(t *testing.T) {
		_, err := NewLoader(dir).Load("nothing/*.json")
		assert.ErrorIs(t, err, ErrNoStubsFound)
	})

	t.Run("blank file", func(t *testing.T) {
		_, err := NewLoader(dir).Load("blank.json")
		var loadErr *LoadError
		require.True(t, errors.As(err, &loadErr))
		assert.Contains(t, err.Error(), "blank.json")
	})
}

func TestLoader_AbsolutePathIgnoresRoot(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "abs.json")
	writeFile(t, path, `{}`)

	paths, err := NewLoader("/does/not/exist").Resolve(path)
	require.NoError(t, err)
	assert.Equal(t, []string{path}, paths)
}
