package transform

import (
	"regexp"
	"strings"

	"github.com/viant/mdt/internal/config"
)

// commentPrefixes is the small restricted set of line prefixes padding
// lines may carry, longest first so detection prefers the most specific
// match (e.g. "///" over "//").
var commentPrefixes = []string{"//!", "///", "//", " * ", "*", "#"}

// ApplyPadding adjusts body's leading/trailing blank lines per the
// configured [padding] section. openingLine is the source line the
// consumer's opening tag sits on, used to detect a shared comment prefix
// for the padding lines.
func ApplyPadding(body string, padding *config.Padding, openingLine string) string {
	if padding == nil {
		return body
	}
	prefix := detectCommentPrefix(openingLine, body)
	if padding.Before != nil {
		body = adjustBefore(body, padding.Before, prefix)
	}
	if padding.After != nil {
		body = adjustAfter(body, padding.After, prefix)
	}
	return body
}

func adjustBefore(body string, spec *config.PadSpec, prefix string) string {
	body = strings.TrimLeft(body, "\n")
	if spec.Disabled || spec.Lines <= 0 {
		return body
	}
	var sb strings.Builder
	sb.WriteString("\n")
	for i := 0; i < spec.Lines; i++ {
		sb.WriteString(strings.TrimRight(prefix, " \t"))
		sb.WriteString("\n")
	}
	sb.WriteString(body)
	return sb.String()
}

func adjustAfter(body string, spec *config.PadSpec, prefix string) string {
	body = strings.TrimRight(body, "\n")
	if spec.Disabled || spec.Lines <= 0 {
		return body
	}
	var sb strings.Builder
	sb.WriteString(body)
	for i := 0; i < spec.Lines; i++ {
		sb.WriteString("\n")
		sb.WriteString(strings.TrimRight(prefix, " \t"))
	}
	sb.WriteString("\n")
	return sb.String()
}

var nonIdentLeading = regexp.MustCompile(`^[^A-Za-z0-9_\s]+`)

// detectCommentPrefix takes the non-identifier leading run of the
// opening-tag line and returns the first known comment prefix it starts
// with, or "" when none matches. The body's own lines are not examined.
func detectCommentPrefix(openingLine, body string) string {
	candidate := nonIdentLeading.FindString(strings.TrimLeft(openingLine, " \t"))
	if candidate == "" {
		return ""
	}
	for _, known := range commentPrefixes {
		if strings.HasPrefix(candidate, known) {
			return known
		}
	}
	return ""
}
