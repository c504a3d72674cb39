package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/viant/mdt/internal/config"
)

func writeConfig(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDiscover_AbsentConfigDefaults(t *testing.T) {
	dir := t.TempDir()
	cfg, err := config.Discover(dir)
	require.NoError(t, err)
	assert.Equal(t, "", cfg.Path)
	assert.Equal(t, "no-config", cfg.Fingerprint())
}

func TestDiscover_FindsMdtToml(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "mdt.toml", `
max_file_size = 2048
disable_gitignore = true

[exclude]
patterns = ["**/vendor/**"]
blocks = ["internal-notes"]

[include]
patterns = ["**/*.md"]

[templates]
paths = [".templates"]
`)
	cfg, err := config.Discover(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"**/vendor/**"}, cfg.ExcludePatterns)
	assert.Equal(t, []string{"internal-notes"}, cfg.ExcludeBlocks)
	assert.Equal(t, []string{"**/*.md"}, cfg.IncludePatterns)
	assert.Equal(t, []string{".templates"}, cfg.TemplatePaths)
	assert.EqualValues(t, 2048, cfg.MaxFileSize)
	assert.True(t, cfg.DisableGitignore)
}

func TestDiscover_PrefersMdtTomlOverDotVariant(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "mdt.toml", "max_file_size = 111\n")
	writeConfig(t, dir, ".mdt.toml", "max_file_size = 222\n")
	cfg, err := config.Discover(dir)
	require.NoError(t, err)
	assert.EqualValues(t, 111, cfg.MaxFileSize)
}

func TestLoad_PaddingDefaultsToOneWhenFieldOmitted(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, "mdt.toml", "[padding]\n")
	cfg, err := config.Load(path)
	require.NoError(t, err)
	require.NotNil(t, cfg.Padding)
	require.NotNil(t, cfg.Padding.Before)
	require.NotNil(t, cfg.Padding.After)
	assert.False(t, cfg.Padding.Before.Disabled)
	assert.Equal(t, 1, cfg.Padding.Before.Lines)
}

func TestLoad_PaddingFalseDisables(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, "mdt.toml", "[padding]\nbefore = false\nafter = 2\n")
	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.True(t, cfg.Padding.Before.Disabled)
	assert.Equal(t, 2, cfg.Padding.After.Lines)
}

func TestLoad_DataSourcesStringAndTableForms(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, "mdt.toml", `
[data]
pkg = "package.json"

[data.badges]
command = "echo ok"
format = "text"
watch = ["package.json"]
`)
	cfg, err := config.Load(path)
	require.NoError(t, err)
	require.Len(t, cfg.Data, 2)
	byNS := map[string]config.DataSource{}
	for _, d := range cfg.Data {
		byNS[d.Namespace] = d
	}
	assert.Equal(t, "package.json", byNS["pkg"].Path)
	assert.Equal(t, "echo ok", byNS["badges"].Command)
	assert.Equal(t, "text", byNS["badges"].Format)
	assert.Equal(t, []string{"package.json"}, byNS["badges"].Watch)
}

func TestLoad_MalformedTomlIsError(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, "mdt.toml", "not = [valid\n")
	_, err := config.Load(path)
	assert.Error(t, err)
}

func TestFingerprint_ChangesWithContent(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, "mdt.toml", "max_file_size = 1\n")
	cfg1, err := config.Load(path)
	require.NoError(t, err)
	fp1 := cfg1.Fingerprint()

	writeConfig(t, dir, "mdt.toml", "max_file_size = 2\n")
	cfg2, err := config.Load(path)
	require.NoError(t, err)
	fp2 := cfg2.Fingerprint()

	assert.NotEqual(t, fp1, fp2)
}
