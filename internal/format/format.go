// Package format renders diagnostics and stale entries for the `check`
// command in three modes: a rich human-readable text form, a
// machine-readable JSON form, and a GitHub Actions workflow-command
// annotation form (`::error file=...::...`). The info command uses the text
// mode for its diagnostics; list and doctor print their own plain lines.
package format

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/viant/mdt/internal/model"
	"github.com/viant/mdt/internal/render"
)

// Mode is the closed set of supported output formats.
type Mode string

const (
	ModeText   Mode = "text"
	ModeJSON   Mode = "json"
	ModeGitHub Mode = "github"
)

// Diagnostics renders a diagnostic list in the requested mode.
func Diagnostics(mode Mode, diags []model.Diagnostic) string {
	switch mode {
	case ModeJSON:
		raw, _ := json.MarshalIndent(diags, "", "  ")
		return string(raw)
	case ModeGitHub:
		var sb strings.Builder
		for _, d := range diags {
			sb.WriteString(githubAnnotation(d.Severity, string(d.Code), d.File, d.Range.Start.Line, d.Range.Start.Column, d.Message))
			sb.WriteString("\n")
		}
		return strings.TrimRight(sb.String(), "\n")
	default:
		var sb strings.Builder
		for _, d := range diags {
			sb.WriteString(textDiagnostic(d))
			sb.WriteString("\n")
		}
		return strings.TrimRight(sb.String(), "\n")
	}
}

// CheckResult renders a render.Result (stale entries + render errors +
// warnings) in the requested mode.
func CheckResult(mode Mode, res *render.Result) string {
	switch mode {
	case ModeJSON:
		raw, _ := json.MarshalIndent(res, "", "  ")
		return string(raw)
	case ModeGitHub:
		var sb strings.Builder
		for _, s := range res.Stale {
			sb.WriteString(githubAnnotation(model.SeverityError, "stale-entry", s.File, s.Line, s.Column, fmt.Sprintf("block %q is out of sync with its provider", s.Block)))
			sb.WriteString("\n")
		}
		for _, r := range res.RenderErrors {
			sb.WriteString(githubAnnotation(model.SeverityError, string(r.Code), r.File, r.Range.Start.Line, r.Range.Start.Column, r.Message))
			sb.WriteString("\n")
		}
		for _, w := range res.Warnings {
			sb.WriteString(githubAnnotation(model.SeverityWarning, string(w.Code), w.File, w.Range.Start.Line, w.Range.Start.Column, w.Message))
			sb.WriteString("\n")
		}
		return strings.TrimRight(sb.String(), "\n")
	default:
		var sb strings.Builder
		for _, s := range res.Stale {
			sb.WriteString(fmt.Sprintf("stale [stale-entry]: block %q in %s:%d:%d differs from its provider\n", s.Block, s.File, s.Line, s.Column))
		}
		for _, r := range res.RenderErrors {
			sb.WriteString(fmt.Sprintf("error [%s]: %s (%s:%d:%d)\n", r.Code, r.Message, r.File, r.Range.Start.Line, r.Range.Start.Column))
		}
		for _, w := range res.Warnings {
			sb.WriteString(fmt.Sprintf("warning [%s]: %s (%s:%d:%d)\n", w.Code, w.Message, w.File, w.Range.Start.Line, w.Range.Start.Column))
		}
		if res.OK() {
			sb.WriteString("ok\n")
		}
		return strings.TrimRight(sb.String(), "\n")
	}
}

func textDiagnostic(d model.Diagnostic) string {
	s := fmt.Sprintf("%s [%s]: %s (%s:%d:%d)", d.Severity, d.Code, d.Message, d.File, d.Range.Start.Line, d.Range.Start.Column)
	if d.Help != "" {
		s += "\n  help: " + d.Help
	}
	return s
}

func githubAnnotation(sev model.Severity, code, file string, line, col uint32, message string) string {
	kind := "error"
	if sev == model.SeverityWarning {
		kind = "warning"
	}
	return fmt.Sprintf("::%s file=%s,line=%d,col=%d::[%s] %s", kind, file, line, col, code, message)
}
