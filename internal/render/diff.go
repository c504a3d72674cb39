package render

import (
	"strings"

	"github.com/pmezard/go-difflib/difflib"
)

// UnifiedDiff renders a unified diff (default 3 lines of context) between a
// stale entry's current and expected bodies, for `check --diff`.
func UnifiedDiff(file, blockName, current, expected string) (string, error) {
	diff := difflib.UnifiedDiff{
		A:        difflib.SplitLines(current),
		B:        difflib.SplitLines(expected),
		FromFile: file + "#" + blockName + " (current)",
		ToFile:   file + "#" + blockName + " (expected)",
		Context:  3,
	}
	text, err := difflib.GetUnifiedDiffString(diff)
	if err != nil {
		return "", err
	}
	return strings.TrimRight(text, "\n"), nil
}
