package data_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/viant/mdt/internal/config/data"
)

func TestScriptCache_StoreThenLookup(t *testing.T) {
	dir := t.TempDir()
	watchPath := filepath.Join(dir, "package.json")
	require.NoError(t, os.WriteFile(watchPath, []byte(`{}`), 0o644))

	cache := data.NewScriptCache(dir)
	cache.Store("badges", "echo ok", "text", []string{"package.json"}, dir, []byte("ok\n"))

	out, ok := cache.Lookup("badges", "echo ok", "text", []string{"package.json"}, dir)
	require.True(t, ok)
	assert.Equal(t, "ok\n", string(out))
}

func TestScriptCache_LookupMissesAfterWatchFileChanges(t *testing.T) {
	dir := t.TempDir()
	watchPath := filepath.Join(dir, "package.json")
	require.NoError(t, os.WriteFile(watchPath, []byte(`{}`), 0o644))

	cache := data.NewScriptCache(dir)
	cache.Store("badges", "echo ok", "text", []string{"package.json"}, dir, []byte("ok\n"))

	require.NoError(t, os.WriteFile(watchPath, []byte(`{"changed":true}`), 0o644))

	_, ok := cache.Lookup("badges", "echo ok", "text", []string{"package.json"}, dir)
	assert.False(t, ok)
}

func TestScriptCache_LookupMissesForDifferentCommand(t *testing.T) {
	dir := t.TempDir()
	cache := data.NewScriptCache(dir)
	cache.Store("badges", "echo a", "text", nil, dir, []byte("a\n"))

	_, ok := cache.Lookup("badges", "echo b", "text", nil, dir)
	assert.False(t, ok)
}
