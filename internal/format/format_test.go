package format

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/viant/mdt/internal/model"
	"github.com/viant/mdt/internal/render"
)

func TestCheckResult_TextOkWhenClean(t *testing.T) {
	res := &render.Result{}
	out := CheckResult(ModeText, res)
	assert.Equal(t, "ok", out)
}

func TestCheckResult_GithubAnnotationForStale(t *testing.T) {
	res := &render.Result{Stale: []render.StaleEntry{{File: "readme.md", Block: "greeting", Line: 3, Column: 1}}}
	out := CheckResult(ModeGitHub, res)
	assert.Contains(t, out, "::error file=readme.md,line=3,col=1::")
}

func TestDiagnostics_JSONRoundTripsFields(t *testing.T) {
	diags := []model.Diagnostic{{Severity: model.SeverityWarning, Code: model.CodeUndefinedAttribute, File: "a.md", Message: "oops"}}
	out := Diagnostics(ModeJSON, diags)
	assert.Contains(t, out, `"File": "a.md"`)
}
