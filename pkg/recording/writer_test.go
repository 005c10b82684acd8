package recording

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriter_WriteAll(t *testing.T) {
	root := t.TempDir()
	w := NewWriter(root, nil)

	docs := []Document{
		{Index: 0, Name: "login", Body: map[string]any{"request": map[string]any{"urlPath": "/login"}}},
		{Index: 1, Name: "list items", Body: map[string]any{"request": map[string]any{"urlPath": "/items"}}},
	}

	paths, err := w.WriteAll("features/mocks/new", docs)
	require.NoError(t, err)

	dir := filepath.Join(root, "features", "mocks", "new")
	assert.Equal(t, []string{
		filepath.Join(dir, "00_login.json"),
		filepath.Join(dir, "01_list_items.json"),
	}, paths)

	data, err := os.ReadFile(paths[1])
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"request\": {\n    \"urlPath\": \"/items\"\n  }\n}\n", string(data))
}

func TestWriter_OverwritesExistingFiles(t *testing.T) {
	dir := t.TempDir()
	w := NewWriter("", nil)
	target := filepath.Join(dir, "00_a.json")
	require.NoError(t, os.WriteFile(target, []byte("stale"), 0o644))

	_, err := w.WriteAll(dir, []Document{{Index: 0, Name: "a", Body: map[string]any{"k": "v"}}})
	require.NoError(t, err)

	data, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"k\": \"v\"\n}\n", string(data))
}

func TestWriter_Dir(t *testing.T) {
	w := NewWriter("/srv/project", nil)
	assert.Equal(t, filepath.Join("/srv/project", "mocks"), w.Dir("mocks"))
	assert.Equal(t, "/tmp/out", w.Dir("/tmp/out/"))

	bare := NewWriter("", nil)
	assert.Equal(t, "mocks", bare.Dir("mocks/"))
}

func TestWriter_EmptyRecording(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "empty")
	paths, err := NewWriter("", nil).WriteAll(dir, nil)
	require.NoError(t, err)
	assert.Empty(t, paths)
	assert.DirExists(t, dir)
}

func TestFileName(t *testing.T) {
	tests := []struct {
		index int
		name  string
		want  string
	}{
		{0, "login", "00_login.json"},
		{4, "checkout", "04_checkout.json"},
		{123, "big", "123_big.json"},
		{2, "", "02_mapping.json"},
		{3, "  ", "03_mapping.json"},
		{5, "api/v1: users", "05_api_v1__users.json"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, FileName(tt.index, tt.name))
		})
	}
}

func TestDecodeResult(t *testing.T) {
	t.Run("wrapper", func(t *testing.T) {
		res, err := DecodeResult([]byte(`{"mappings":[{"request":{}},{"request":{}}],"meta":{"total":2}}`))
		require.NoError(t, err)
		assert.Len(t, res.Mappings, 2)
	})

	t.Run("bare array", func(t *testing.T) {
		res, err := DecodeResult([]byte("  [{\"request\":{}}]\n"))
		require.NoError(t, err)
		assert.Len(t, res.Mappings, 1)
	})

	t.Run("empty mappings", func(t *testing.T) {
		res, err := DecodeResult([]byte(`{"mappings":[]}`))
		require.NoError(t, err)
		assert.Empty(t, res.Mappings)
	})

	for name, input := range map[string]string{
		"empty input":     "",
		"missing field":   `{"other":1}`,
		"invalid json":    `{"mappings":`,
		"wrong type":      `{"mappings":"x"}`,
		"bad array entry": `[{"request":}]`,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := DecodeResult([]byte(input))
			assert.Error(t, err)
		})
	}
}
