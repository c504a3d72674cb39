package lexparse

import (
	"strings"

	"github.com/viant/mdt/internal/model"
)

// Comment is one HTML comment span found in a file, with inner-body
// boundaries (excluding the "<!--"/"-->" delimiters).
type Comment struct {
	Whole model.Range
	Body  model.Range
}

// FindComments scans src for "<!-- ... -->" spans.
//
// When skipFencedCode is true (markdown mode, or source mode configured via
// [exclude].markdown_codeblocks), comments whose start falls inside a
// fenced code block (``` or ~~~, of matching fence character and length)
// are skipped — the markdown-aware extractor never interprets tags written
// as documentation examples inside a code fence.
//
// When goMode is true (a *.go file in FileSource mode), candidate spans are
// additionally cross-checked against a tree-sitter parse of src: a span
// whose start byte doesn't land inside a real `comment` node is dropped,
// since Go string and rune literals can legally contain the four bytes
// "<!--" without it being a comment.
func FindComments(src []byte, table *model.LineTable, skipFencedCode bool, goMode bool) []Comment {
	var comments []Comment
	fences := fencedRanges(src, skipFencedCode)

	var goSpans []byteRange
	var goVerified bool
	if goMode {
		goSpans, goVerified = goCommentSpans(src)
	}

	i := 0
	for i < len(src) {
		start := indexFrom(src, "<!--", i)
		if start < 0 {
			break
		}
		if inAnyRange(fences, start) {
			i = start + 4
			continue
		}
		if goVerified && !inAnyRange(goSpans, start) {
			i = start + 4
			continue
		}
		end := indexFrom(src, "-->", start+4)
		if end < 0 {
			break
		}
		whole := model.Range{
			Start: table.Position(uint64(start)),
			End:   table.Position(uint64(end + 3)),
		}
		body := model.Range{
			Start: table.Position(uint64(start + 4)),
			End:   table.Position(uint64(end)),
		}
		comments = append(comments, Comment{Whole: whole, Body: body})
		i = end + 3
	}
	return comments
}

func indexFrom(src []byte, needle string, from int) int {
	if from >= len(src) {
		return -1
	}
	idx := strings.Index(string(src[from:]), needle)
	if idx < 0 {
		return -1
	}
	return from + idx
}

type byteRange struct{ start, end int }

func inAnyRange(ranges []byteRange, offset int) bool {
	for _, r := range ranges {
		if offset >= r.start && offset < r.end {
			return true
		}
	}
	return false
}

// fencedRanges finds fenced code block byte spans (```/~~~ delimited,
// closing fence must use the same character and be at least as long as the
// opener, per common markdown conventions).
func fencedRanges(src []byte, enabled bool) []byteRange {
	if !enabled {
		return nil
	}
	var ranges []byteRange
	lines := splitLinesKeepOffsets(src)

	var open *byteRange
	var fenceChar byte
	var fenceLen int

	for _, ln := range lines {
		trimmed := strings.TrimLeft(string(src[ln.start:ln.end]), " \t")
		if trimmed == "" {
			continue
		}
		c := trimmed[0]
		if c != '`' && c != '~' {
			continue
		}
		n := 0
		for n < len(trimmed) && trimmed[n] == c {
			n++
		}
		if n < 3 {
			continue
		}
		if open == nil {
			open = &byteRange{start: ln.start}
			fenceChar = c
			fenceLen = n
		} else if c == fenceChar && n >= fenceLen {
			open.end = ln.end
			ranges = append(ranges, *open)
			open = nil
		}
	}
	if open != nil {
		open.end = len(src)
		ranges = append(ranges, *open)
	}
	return ranges
}

type lineSpan struct{ start, end int }

func splitLinesKeepOffsets(src []byte) []lineSpan {
	var spans []lineSpan
	start := 0
	for i, b := range src {
		if b == '\n' {
			spans = append(spans, lineSpan{start, i})
			start = i + 1
		}
	}
	spans = append(spans, lineSpan{start, len(src)})
	return spans
}
