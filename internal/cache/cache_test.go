package cache

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/viant/mdt/internal/model"
)

func TestIndexCache_StoreThenReuse(t *testing.T) {
	root := t.TempDir()
	filePath := filepath.Join(root, "readme.md")
	require.NoError(t, os.WriteFile(filePath, []byte("content"), 0o644))
	info, err := os.Stat(filePath)
	require.NoError(t, err)

	c := New(root, "fp-1", false)
	idx := model.NewProjectIndex(root)
	idx.FilesScanned = append(idx.FilesScanned, model.FileEntry{
		Path: "readme.md", Size: info.Size(), ModTimeNs: info.ModTime().UnixNano(),
		Blocks: []model.Block{{Name: "x"}},
	})
	require.NoError(t, c.Store(idx))

	reopened := New(root, "fp-1", false)
	reuse := reopened.ReuseFunc()
	blocks, _, ok := reuse("readme.md", info.Size(), info.ModTime().UnixNano())
	require.True(t, ok)
	require.Len(t, blocks, 1)
	assert.Equal(t, "x", blocks[0].Name)
}

func TestIndexCache_FingerprintMismatchInvalidatesArtifact(t *testing.T) {
	root := t.TempDir()
	c := New(root, "fp-1", false)
	idx := model.NewProjectIndex(root)
	idx.FilesScanned = append(idx.FilesScanned, model.FileEntry{Path: "a.md", Size: 1, ModTimeNs: 1})
	require.NoError(t, c.Store(idx))

	reopened := New(root, "fp-2", false)
	reuse := reopened.ReuseFunc()
	_, _, ok := reuse("a.md", 1, 1)
	assert.False(t, ok)
}

func TestIndexCache_SizeMismatchForcesReparse(t *testing.T) {
	root := t.TempDir()
	c := New(root, "fp-1", false)
	idx := model.NewProjectIndex(root)
	idx.FilesScanned = append(idx.FilesScanned, model.FileEntry{Path: "a.md", Size: 10, ModTimeNs: 100})
	require.NoError(t, c.Store(idx))

	reuse := c.ReuseFunc()
	_, _, ok := reuse("a.md", 11, 100)
	assert.False(t, ok)
}

func TestIndexCache_TelemetryAccumulates(t *testing.T) {
	root := t.TempDir()
	c := New(root, "fp-1", false)
	idx := model.NewProjectIndex(root)
	idx.FilesScanned = append(idx.FilesScanned, model.FileEntry{Path: "a.md", Size: 1, ModTimeNs: 1})
	require.NoError(t, c.Store(idx))
	assert.Equal(t, 1, c.art.Telemetry.TotalScans)
	assert.Equal(t, "full", c.art.Telemetry.LastScan.Mode)
}
