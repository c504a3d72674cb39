package engine

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	full := filepath.Join(root, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
	require.NoError(t, os.WriteFile(full, []byte(content), 0o644))
}

// TestEngine_BasicSyncScenario exercises the core sync loop end to end:
// scan -> check (stale) -> update -> check (ok) -> update again (no writes).
func TestEngine_BasicSyncScenario(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "template.t.md", "<!-- {@greeting} -->\nHello\n<!-- {/greeting} -->\n")
	writeFile(t, root, "readme.md", "<!-- {=greeting} -->OLD<!-- {/greeting} --><!-- end -->")

	eng, err := Open(root)
	require.NoError(t, err)

	_, res, err := eng.Check(context.Background())
	require.NoError(t, err)
	assert.False(t, res.OK())
	require.Len(t, res.Stale, 1)

	_, _, written, err := eng.Update(context.Background(), false)
	require.NoError(t, err)
	assert.Contains(t, written, "readme.md")

	_, res2, err := eng.Check(context.Background())
	require.NoError(t, err)
	assert.True(t, res2.OK())

	_, _, written2, err := eng.Update(context.Background(), false)
	require.NoError(t, err)
	assert.Empty(t, written2)
}

func TestEngine_Init_CreatesTemplateFileOnce(t *testing.T) {
	root := t.TempDir()
	created, err := Init(root)
	require.NoError(t, err)
	assert.True(t, created)

	created, err = Init(root)
	require.NoError(t, err)
	assert.False(t, created)

	_, err = os.Stat(filepath.Join(root, ".templates", "template.t.md"))
	require.NoError(t, err)
}

func TestEngine_List_ClassifiesMissingProvider(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "readme.md", "<!-- {=ghost} -->x<!-- {/ghost} -->")

	eng, err := Open(root)
	require.NoError(t, err)
	_, entries, err := eng.List(context.Background())
	require.NoError(t, err)

	var found bool
	for _, e := range entries {
		if e.Name == "ghost" {
			found = true
			assert.Equal(t, LinkMissingProvider, e.Status)
		}
	}
	assert.True(t, found)
}

func TestEngine_Doctor_FlagsDuplicateProvider(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "a.t.md", "<!-- {@dup} -->one<!-- {/dup} -->")
	writeFile(t, root, "b.t.md", "<!-- {@dup} -->two<!-- {/dup} -->")

	eng, err := Open(root)
	require.NoError(t, err)
	_, issues, err := eng.Doctor(context.Background())
	require.NoError(t, err)

	var found bool
	for _, i := range issues {
		if strings.Contains(i.Message, "dup") {
			found = true
		}
	}
	assert.True(t, found)
}
