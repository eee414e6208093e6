package fsutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTree(t *testing.T, files ...string) string {
	t.Helper()
	root := t.TempDir()
	for _, f := range files {
		p := filepath.Join(root, f)
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, nil, 0o644))
	}
	return root
}

func TestFindFilesByExtension(t *testing.T) {
	root := writeTree(t, "b.hcl", "a.hcl", "nested/c.hcl", "notes.txt")

	files, err := FindFilesByExtension(root, ".hcl")
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(root, "a.hcl"),
		filepath.Join(root, "b.hcl"),
		filepath.Join(root, "nested", "c.hcl"),
	}, files)
}

func TestCollectFiles(t *testing.T) {
	root := writeTree(t, "dir/b.hcl", "dir/a.hcl", "single.hcl")
	single := filepath.Join(root, "single.hcl")

	files, err := CollectFiles([]string{single, filepath.Join(root, "dir"), single}, ".hcl")
	require.NoError(t, err)
	assert.Equal(t, []string{
		single,
		filepath.Join(root, "dir", "a.hcl"),
		filepath.Join(root, "dir", "b.hcl"),
	}, files)

	_, err = CollectFiles([]string{filepath.Join(root, "missing")}, ".hcl")
	assert.ErrorContains(t, err, "error accessing path")
}
