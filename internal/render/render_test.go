package render

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/viant/mdt/internal/model"
)

func makeIndex() *model.ProjectIndex {
	idx := model.NewProjectIndex("/root")
	idx.Data = model.NewDataContext()
	return idx
}

func rng(start, end uint64) model.Range {
	return model.Range{Start: model.Position{Offset: start}, End: model.Position{Offset: end}}
}

func TestRenderBlock_BasicProvider(t *testing.T) {
	idx := makeIndex()
	idx.Providers["greeting"] = &model.Block{Name: "greeting", Kind: model.BlockProvider, Content: []byte("\nHello\n")}

	consumer := model.Block{Name: "greeting", Kind: model.BlockConsumer, Content: []byte("OLD"), SourceFile: "readme.md"}
	expected, warnings, rerr := RenderBlock(idx, consumer, nil)
	require.Nil(t, rerr)
	assert.Empty(t, warnings)
	assert.Equal(t, "\nHello\n", expected)
}

func TestRenderBlock_MissingProviderIsWarningNotRenderError(t *testing.T) {
	idx := makeIndex()
	consumer := model.Block{Name: "nope", Kind: model.BlockConsumer, SourceFile: "readme.md", Content: []byte("OLD")}
	expected, warnings, rerr := RenderBlock(idx, consumer, nil)
	require.Nil(t, rerr)
	assert.Equal(t, "OLD", expected)
	require.Len(t, warnings, 1)
	assert.Equal(t, model.CodeMissingProvider, warnings[0].Code)
}

func TestCheck_MissingProviderIsWarningDoesNotFailOK(t *testing.T) {
	idx := makeIndex()
	idx.Consumers = []model.Block{{Name: "nope", Kind: model.BlockConsumer, Content: []byte("OLD"), SourceFile: "readme.md"}}

	res := Check(idx, nil, nil)
	assert.True(t, res.OK())
	assert.Empty(t, res.Stale)
	require.Len(t, res.Warnings, 1)
	assert.Equal(t, model.CodeMissingProvider, res.Warnings[0].Code)
}

func TestRenderBlock_ArgumentMismatch(t *testing.T) {
	idx := makeIndex()
	idx.Providers["badges"] = &model.Block{
		Name: "badges", Kind: model.BlockProvider,
		Arguments: []model.Argument{model.NewStringArg("crate_name")},
		Content:   []byte("[{{ crate_name }}]"),
	}
	consumer := model.Block{Name: "badges", Kind: model.BlockConsumer, SourceFile: "readme.md"}
	_, _, rerr := RenderBlock(idx, consumer, nil)
	require.NotNil(t, rerr)
	assert.Equal(t, model.CodeArgumentMismatch, rerr.Code)
}

func TestRenderBlock_NonFiniteNumberArgumentIsRenderError(t *testing.T) {
	idx := makeIndex()
	idx.Providers["badges"] = &model.Block{
		Name: "badges", Kind: model.BlockProvider,
		Arguments: []model.Argument{model.NewStringArg("n")},
		Content:   []byte("[{{ n }}]"),
	}
	consumer := model.Block{
		Name: "badges", Kind: model.BlockConsumer, SourceFile: "readme.md",
		Arguments: []model.Argument{model.NewNumberArg(math.Inf(1))},
	}
	_, _, rerr := RenderBlock(idx, consumer, nil)
	require.NotNil(t, rerr)
	assert.Equal(t, model.CodeNonFiniteNumber, rerr.Code)
}

func TestRenderBlock_ArgumentsBound(t *testing.T) {
	idx := makeIndex()
	idx.Providers["badges"] = &model.Block{
		Name: "badges", Kind: model.BlockProvider,
		Arguments: []model.Argument{model.NewStringArg("crate_name")},
		Content:   []byte("[{{ crate_name }}]"),
	}
	consumer := model.Block{
		Name: "badges", Kind: model.BlockConsumer, SourceFile: "readme.md",
		Arguments: []model.Argument{model.NewStringArg("mdt_core")},
	}
	expected, _, rerr := RenderBlock(idx, consumer, nil)
	require.Nil(t, rerr)
	assert.Equal(t, "[mdt_core]", expected)
}

func TestRenderBlock_TransformerChain(t *testing.T) {
	idx := makeIndex()
	idx.Providers["docs"] = &model.Block{Name: "docs", Kind: model.BlockProvider, Content: []byte("Line1\n\nLine2\n")}
	consumer := model.Block{
		Name: "docs", Kind: model.BlockConsumer, SourceFile: "readme.md",
		Transformers: []model.Transformer{
			{Kind: model.TransformTrim},
			{Kind: model.TransformIndent, Args: []model.Argument{model.NewStringArg("/// "), model.NewBoolArg(true)}},
		},
	}
	expected, _, rerr := RenderBlock(idx, consumer, nil)
	require.Nil(t, rerr)
	assert.Equal(t, "/// Line1\n///\n/// Line2", expected)
}

func TestRenderBlock_Inline(t *testing.T) {
	idx := makeIndex()
	pkg := model.Object()
	pkg.Set("version", model.String("1.2.3"))
	idx.Data.Set("pkg", pkg)

	consumer := model.Block{
		Name: "v", Kind: model.BlockInline, SourceFile: "readme.md",
		Arguments: []model.Argument{model.NewStringArg("{{ pkg.version }}")},
		Content:   []byte("0.0.0"),
	}
	expected, _, rerr := RenderBlock(idx, consumer, nil)
	require.Nil(t, rerr)
	assert.Equal(t, "1.2.3", expected)
}

func TestCheck_DetectsStaleEntry(t *testing.T) {
	idx := makeIndex()
	idx.Providers["greeting"] = &model.Block{Name: "greeting", Kind: model.BlockProvider, Content: []byte("\nHello\n")}
	idx.Consumers = []model.Block{{Name: "greeting", Kind: model.BlockConsumer, Content: []byte("OLD"), SourceFile: "readme.md", ContentRange: rng(10, 13)}}

	res := Check(idx, nil, nil)
	assert.False(t, res.OK())
	require.Len(t, res.Stale, 1)
	assert.Equal(t, "\nHello\n", res.Stale[0].Expected)
}

func TestCheck_ExcludedBlockSkipped(t *testing.T) {
	idx := makeIndex()
	idx.Providers["greeting"] = &model.Block{Name: "greeting", Kind: model.BlockProvider, Content: []byte("Hi")}
	idx.Consumers = []model.Block{{Name: "greeting", Kind: model.BlockConsumer, Content: []byte("OLD"), SourceFile: "readme.md"}}

	res := Check(idx, map[string]bool{"greeting": true}, nil)
	assert.True(t, res.OK())
}

func TestPlanUpdate_EditsOrderedLastToFirst(t *testing.T) {
	idx := makeIndex()
	idx.Providers["a"] = &model.Block{Name: "a", Kind: model.BlockProvider, Content: []byte("A")}
	idx.Providers["b"] = &model.Block{Name: "b", Kind: model.BlockProvider, Content: []byte("B")}
	idx.Consumers = []model.Block{
		{Name: "a", Kind: model.BlockConsumer, Content: []byte("x"), SourceFile: "f.md", ContentRange: rng(5, 6)},
		{Name: "b", Kind: model.BlockConsumer, Content: []byte("y"), SourceFile: "f.md", ContentRange: rng(20, 21)},
	}
	edits, _ := PlanUpdate(idx, nil, nil)
	require.Len(t, edits, 2)
	assert.Greater(t, edits[0].Range.Start.Offset, edits[1].Range.Start.Offset)
}

func TestApplyFileEdits_ByteExact(t *testing.T) {
	src := []byte("<!-- {=a} -->OLD<!-- {/a} -->")
	edits := []Edit{{Range: rng(13, 16), Expected: "NEW"}}
	out := applyFileEdits(src, edits)
	assert.Equal(t, "<!-- {=a} -->NEW<!-- {/a} -->", string(out))
}

func TestUnifiedDiff_ProducesPatch(t *testing.T) {
	out, err := UnifiedDiff("readme.md", "greeting", "OLD\n", "Hello\n")
	require.NoError(t, err)
	assert.Contains(t, out, "-OLD")
	assert.Contains(t, out, "+Hello")
}
