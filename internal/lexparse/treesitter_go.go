package lexparse

import (
	"context"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/golang"
)

// goCommentSpans walks a tree-sitter parse of Go source and returns the byte
// range of every `comment` node, the way inspector/golang's TreeSitterInspector
// walks the parse tree to pull out type/function nodes. FindComments uses this
// to confirm a candidate "<!--"-prefixed span found by the byte scan actually
// sits inside a real Go comment, rather than inside a string or rune literal
// that happens to contain the same four characters.
//
// A parse failure (e.g. the file isn't valid Go, or was only partially
// written when scanned) degrades to "no spans known", which FindComments
// treats as "accept the candidate" rather than discarding it outright —
// lenient scanning must never regress because of unparsable source.
func goCommentSpans(src []byte) ([]byteRange, bool) {
	parser := sitter.NewParser()
	parser.SetLanguage(golang.GetLanguage())

	tree, err := parser.ParseCtx(context.Background(), nil, src)
	if err != nil || tree == nil {
		return nil, false
	}
	defer tree.Close()

	var spans []byteRange
	var walk func(n *sitter.Node)
	walk = func(n *sitter.Node) {
		if n == nil {
			return
		}
		if n.Type() == "comment" {
			spans = append(spans, byteRange{start: int(n.StartByte()), end: int(n.EndByte())})
		}
		for i := 0; i < int(n.ChildCount()); i++ {
			walk(n.Child(i))
		}
	}
	walk(tree.RootNode())
	return spans, true
}
