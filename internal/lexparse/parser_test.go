package lexparse_test

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/viant/mdt/internal/lexparse"
	"github.com/viant/mdt/internal/model"
)

func TestParseFile_BasicProviderConsumer(t *testing.T) {
	src := lexparse.NormalizeCRLF([]byte("<!-- {=greeting} -->OLD<!-- {/greeting} -->\n"))
	blocks, diags := lexparse.ParseFile("readme.md", src, lexparse.FileMarkdown, false)

	require.Empty(t, diags)
	require.Len(t, blocks, 1)
	assert.Equal(t, "greeting", blocks[0].Name)
	assert.Equal(t, model.BlockConsumer, blocks[0].Kind)
	assert.Equal(t, "OLD", string(blocks[0].Content))
}

func TestParseFile_ProviderWithArgsAndTransformers(t *testing.T) {
	src := lexparse.NormalizeCRLF([]byte(`<!-- {@badges:"crate_name"|trim} -->[x]<!-- {/badges} -->`))
	blocks, diags := lexparse.ParseFile("template.t.md", src, lexparse.FileTemplate, false)

	require.Empty(t, diags)
	require.Len(t, blocks, 1)
	b := blocks[0]
	assert.Equal(t, model.BlockProvider, b.Kind)
	require.Len(t, b.Arguments, 1)
	assert.Equal(t, "crate_name", b.Arguments[0].Str)
	require.Len(t, b.Transformers, 1)
	assert.Equal(t, model.TransformTrim, b.Transformers[0].Kind)
}

func TestParseFile_OverflowingNumberArgumentBecomesPositiveInfinity(t *testing.T) {
	overflow := "1" + strings.Repeat("0", 310)
	src := lexparse.NormalizeCRLF([]byte(`<!-- {=badges:` + overflow + `} -->x<!-- {/badges} -->`))
	blocks, diags := lexparse.ParseFile("readme.md", src, lexparse.FileMarkdown, false)

	require.Empty(t, diags)
	require.Len(t, blocks, 1)
	require.Len(t, blocks[0].Arguments, 1)
	assert.Equal(t, model.ArgNumber, blocks[0].Arguments[0].Kind)
	assert.True(t, math.IsInf(blocks[0].Arguments[0].Num, 1))
}

func TestParseFile_ProviderOutsideTemplateIsWarning(t *testing.T) {
	src := lexparse.NormalizeCRLF([]byte(`<!-- {@foo} -->x<!-- {/foo} -->`))
	_, diags := lexparse.ParseFile("readme.md", src, lexparse.FileMarkdown, false)

	require.Len(t, diags, 1)
	assert.Equal(t, model.CodeNonTemplateProvider, diags[0].Code)
	assert.Equal(t, model.SeverityWarning, diags[0].Severity)
}

func TestParseFile_InlineMissingTemplate(t *testing.T) {
	src := lexparse.NormalizeCRLF([]byte(`<!-- {~v} -->x<!-- {/v} -->`))
	_, diags := lexparse.ParseFile("readme.md", src, lexparse.FileMarkdown, false)

	require.Len(t, diags, 1)
	assert.Equal(t, model.CodeInlineMissingTemplate, diags[0].Code)
}

func TestParseFile_UnclosedBlock(t *testing.T) {
	src := lexparse.NormalizeCRLF([]byte(`<!-- {=foo} -->content with no close`))
	blocks, diags := lexparse.ParseFile("readme.md", src, lexparse.FileMarkdown, false)

	assert.Empty(t, blocks)
	require.Len(t, diags, 1)
	assert.Equal(t, model.CodeUnclosedBlock, diags[0].Code)
}

func TestParseFile_NestedOpenClosesOuterAsUnclosed(t *testing.T) {
	src := lexparse.NormalizeCRLF([]byte(`<!-- {=foo} -->a<!-- {=foo} -->b<!-- {/foo} -->`))
	blocks, diags := lexparse.ParseFile("readme.md", src, lexparse.FileMarkdown, false)

	require.Len(t, diags, 1)
	assert.Equal(t, model.CodeUnclosedBlock, diags[0].Code)
	require.Len(t, blocks, 1)
	assert.Equal(t, "b", string(blocks[0].Content))
}

func TestParseFile_InvalidNameIsDiagnosed(t *testing.T) {
	src := lexparse.NormalizeCRLF([]byte(`<!-- {=1bad} -->x<!-- {/1bad} -->`))
	blocks, diags := lexparse.ParseFile("readme.md", src, lexparse.FileMarkdown, false)

	require.Len(t, diags, 1)
	assert.Equal(t, model.CodeInvalidName, diags[0].Code)
	assert.Equal(t, model.SeverityError, diags[0].Severity)
	require.Len(t, blocks, 1)
	assert.Equal(t, "1bad", blocks[0].Name)
}

func TestParseFile_NonTagCommentIsIgnored(t *testing.T) {
	src := lexparse.NormalizeCRLF([]byte(`<!-- just a regular comment -->`))
	blocks, diags := lexparse.ParseFile("readme.md", src, lexparse.FileMarkdown, false)

	assert.Empty(t, blocks)
	assert.Empty(t, diags)
}

func TestParseFile_SourceModeLenientDiscardsUnclosedAtEOF(t *testing.T) {
	src := lexparse.NormalizeCRLF([]byte("// <!-- {=foo} -->\nno close\n"))
	blocks, diags := lexparse.ParseFile("main.go", src, lexparse.FileSource, false)

	assert.Empty(t, blocks)
	assert.Empty(t, diags)
}

func TestParseFile_FencedCodeBlockNotInterpreted(t *testing.T) {
	src := lexparse.NormalizeCRLF([]byte("```\n<!-- {=foo} -->x<!-- {/foo} -->\n```\n"))
	blocks, diags := lexparse.ParseFile("readme.md", src, lexparse.FileMarkdown, false)

	assert.Empty(t, blocks)
	assert.Empty(t, diags)
}

func TestParseFile_CRLFPositionsRemainConsistent(t *testing.T) {
	raw := []byte("line1\r\n<!-- {=foo} -->body<!-- {/foo} -->\r\n")
	src := lexparse.NormalizeCRLF(raw)
	blocks, _ := lexparse.ParseFile("readme.md", src, lexparse.FileMarkdown, false)
	require.Len(t, blocks, 1)
	assert.EqualValues(t, 2, blocks[0].Open.Start.Line)
}
