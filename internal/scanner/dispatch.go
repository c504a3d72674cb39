package scanner

import (
	"strings"

	"github.com/viant/mdt/internal/lexparse"
)

var sourceExtensions = map[string]bool{
	".rs": true, ".ts": true, ".tsx": true, ".js": true, ".jsx": true,
	".py": true, ".go": true, ".java": true, ".kt": true, ".swift": true,
	".c": true, ".cpp": true, ".h": true, ".cs": true,
}

var markdownExtensions = map[string]bool{
	".md": true, ".mdx": true, ".markdown": true,
}

// classify determines how to parse a file from its name, or reports skip
// when the file is not scanned at all.
func classify(name string) (kind lexparse.FileKind, skip bool) {
	lower := strings.ToLower(name)
	if strings.HasSuffix(lower, ".t.md") {
		return lexparse.FileTemplate, false
	}
	for ext := range markdownExtensions {
		if strings.HasSuffix(lower, ext) {
			return lexparse.FileMarkdown, false
		}
	}
	if dot := strings.LastIndex(lower, "."); dot >= 0 {
		if sourceExtensions[lower[dot:]] {
			return lexparse.FileSource, false
		}
	}
	return 0, true
}
