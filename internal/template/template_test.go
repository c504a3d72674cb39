package template

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/viant/mdt/internal/model"
)

func TestRenderSource_PlainText(t *testing.T) {
	out, warnings, err := RenderSource("hello world\n", nil)
	require.NoError(t, err)
	assert.Empty(t, warnings)
	assert.Equal(t, "hello world\n", out)
}

func TestRenderSource_OutputVariable(t *testing.T) {
	scope := Scope{"name": model.String("Ada")}
	out, _, err := RenderSource("hi {{ name }}!", scope)
	require.NoError(t, err)
	assert.Equal(t, "hi Ada!", out)
}

func TestRenderSource_UndefinedRootIsError(t *testing.T) {
	_, _, err := RenderSource("{{ missing }}", Scope{})
	require.Error(t, err)
}

func TestRenderSource_UndefinedAttributeIsEmptyPlusWarning(t *testing.T) {
	obj := model.Object()
	scope := Scope{"cfg": obj}
	out, warnings, err := RenderSource("[{{ cfg.name }}]", scope)
	require.NoError(t, err)
	assert.Equal(t, "[]", out)
	require.Len(t, warnings, 1)
	assert.Equal(t, "cfg.name", warnings[0].Path)
}

func TestRenderSource_IfElifElse(t *testing.T) {
	tpl := "{% if x == 1 %}one{% elif x == 2 %}two{% else %}other{% endif %}"
	out, _, err := RenderSource(tpl, Scope{"x": model.Number(2)})
	require.NoError(t, err)
	assert.Equal(t, "two", out)

	out, _, err = RenderSource(tpl, Scope{"x": model.Number(9)})
	require.NoError(t, err)
	assert.Equal(t, "other", out)
}

func TestRenderSource_ForLoop(t *testing.T) {
	items := model.Array([]model.Value{model.String("a"), model.String("b"), model.String("c")})
	out, _, err := RenderSource("{% for item in items %}<{{ item }}>{% endfor %}", Scope{"items": items})
	require.NoError(t, err)
	assert.Equal(t, "<a><b><c>", out)
}

func TestRenderSource_AndOrNot(t *testing.T) {
	scope := Scope{"a": model.Bool(true), "b": model.Bool(false)}
	out, _, err := RenderSource("{% if a and not b %}yes{% endif %}", scope)
	require.NoError(t, err)
	assert.Equal(t, "yes", out)
}

func TestRenderSource_IndexAndBracketAccess(t *testing.T) {
	arr := model.Array([]model.Value{model.String("zero"), model.String("one")})
	obj := model.Object()
	obj.Set("items", arr)
	out, _, err := RenderSource(`{{ cfg["items"][1] }}`, Scope{"cfg": obj})
	require.NoError(t, err)
	assert.Equal(t, "one", out)
}

func TestRenderSource_TrailingNewlinePreserved(t *testing.T) {
	out, _, err := RenderSource("line one\nline two\n\n", Scope{})
	require.NoError(t, err)
	assert.Equal(t, "line one\nline two\n\n", out)
}

func TestRenderSource_CommentStripped(t *testing.T) {
	out, _, err := RenderSource("a{# this is dropped #}b", Scope{})
	require.NoError(t, err)
	assert.Equal(t, "ab", out)
}

func TestParseExpr_Comparisons(t *testing.T) {
	e, err := ParseExpr("1 < 2")
	require.NoError(t, err)
	v, _, err := func() (model.Value, []Warning, error) {
		var w []Warning
		val, err := eval(e, Scope{}, &w)
		return val, w, err
	}()
	require.NoError(t, err)
	assert.True(t, v.AsBool())
}
