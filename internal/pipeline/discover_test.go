// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiscover(t *testing.T) {
	root := t.TempDir()
	files := []string{
		"top.pdf",
		"UPPER.PDF",
		filepath.Join("a", "nested.pdf"),
		filepath.Join("a", "b", "deep.pdf"),
		"notes.txt",
		filepath.Join("a", "image.png"),
	}
	for _, f := range files {
		path := filepath.Join(root, f)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
	}
	require.NoError(t, os.MkdirAll(filepath.Join(root, "empty"), 0o755))

	got, err := Discover(root)
	require.NoError(t, err)

	want := []string{
		"UPPER.PDF",
		filepath.Join("a", "b", "deep.pdf"),
		filepath.Join("a", "nested.pdf"),
		"top.pdf",
	}
	assert.Equal(t, want, got)
}

func TestDiscover_MissingRoot(t *testing.T) {
	_, err := Discover(filepath.Join(t.TempDir(), "nope"))
	assert.Error(t, err)
}

func TestSweepEmptyDirs(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "a", "b", "c"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "keep"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "keep", "file.pdf"), []byte("x"), 0o644))

	require.NoError(t, SweepEmptyDirs(root))

	// The empty chain is gone, bottom-up.
	_, err := os.Stat(filepath.Join(root, "a"))
	assert.True(t, os.IsNotExist(err), "empty directory chain should be removed")

	// Non-empty directories and the root survive.
	_, err = os.Stat(filepath.Join(root, "keep", "file.pdf"))
	assert.NoError(t, err)
	_, err = os.Stat(root)
	assert.NoError(t, err)
}
