package lexparse

import (
	"fmt"
	"strings"

	"github.com/viant/mdt/internal/model"
)

// FileKind selects how a file's comments are scanned and how "@" tags are
// treated.
type FileKind int

const (
	// FileTemplate is a *.t.md file: markdown-mode scanning, providers
	// authoritative.
	FileTemplate FileKind = iota
	// FileMarkdown is any other scanned markdown file (.md/.mdx/.markdown):
	// markdown-mode scanning, "@" tags are a validation warning.
	FileMarkdown
	// FileSource is a recognized source-code extension: lenient scanning
	// (HTML comments found anywhere), "@" tags are a validation warning.
	FileSource
)

type openEntry struct {
	name    string
	sigil   byte
	comment Comment
	tag     *TagSyntax
}

// ParseFile tokenizes and parses one file's contents into blocks and
// diagnostics. src must already be CRLF-normalized; path stamps
// Block.SourceFile and diagnostic file fields, and a ".go" suffix on a
// FileSource path turns on tree-sitter comment verification.
//
// skipFencedCode controls whether comments inside ``` / ~~~ fences are
// ignored; it is forced on for FileTemplate/FileMarkdown and is the
// caller-configured [exclude].markdown_codeblocks value for FileSource.
func ParseFile(path string, src []byte, kind FileKind, skipFencedCode bool) ([]model.Block, []model.Diagnostic) {
	table := model.NewLineTable(src)
	fenceFilter := skipFencedCode
	if kind != FileSource {
		fenceFilter = true
	}
	goMode := kind == FileSource && strings.HasSuffix(path, ".go")
	comments := FindComments(src, table, fenceFilter, goMode)

	var blocks []model.Block
	var diags []model.Diagnostic
	var stack []openEntry

	emitUnclosed := func(o openEntry) {
		diags = append(diags, model.Diagnostic{
			Severity: model.SeverityError,
			Code:     model.CodeUnclosedBlock,
			File:     path,
			Range:    o.comment.Whole,
			Message:  fmt.Sprintf("block %q is never closed", o.name),
			Help:     fmt.Sprintf("add a matching \"{/%s}\" close tag", o.name),
		})
	}

	for _, c := range comments {
		bodyText := string(src[c.Body.Start.Offset:c.Body.End.Offset])
		tag, ok := parseTagBody(bodyText)
		if !ok {
			continue // not a tag: silently ignored
		}
		if tag.Sigil == '/' {
			if len(stack) == 0 {
				continue // stray close: no matching open, dropped silently
			}
			top := stack[len(stack)-1]
			if top.name == tag.Name {
				stack = stack[:len(stack)-1]
				blocks = append(blocks, buildBlock(path, top, c, src, table))
			} else {
				emitUnclosed(top)
				stack = stack[:len(stack)-1]
			}
			continue
		}

		// Opening tag (@ / = / ~). Tag issues are reported here only, so a
		// malformed name shared by the open and close tag is diagnosed once.
		base := int(c.Body.Start.Offset)
		diags = append(diags, tagIssueDiagnostics(path, base, table, tag)...)

		if len(stack) > 0 {
			outer := stack[len(stack)-1]
			emitUnclosed(outer)
			stack = stack[:len(stack)-1]
		}

		if tag.Sigil == '@' && kind != FileTemplate {
			diags = append(diags, model.Diagnostic{
				Severity: model.SeverityWarning,
				Code:     model.CodeNonTemplateProvider,
				File:     path,
				Range:    c.Whole,
				Message:  fmt.Sprintf("provider %q declared outside a *.t.md file", tag.Name),
				Help:     "move this provider into a *.t.md template file",
			})
		}
		if tag.Sigil == '~' && len(tag.Arguments) == 0 {
			diags = append(diags, model.Diagnostic{
				Severity: model.SeverityError,
				Code:     model.CodeInlineMissingTemplate,
				File:     path,
				Range:    c.Whole,
				Message:  fmt.Sprintf("inline block %q is missing its template string argument", tag.Name),
				Help:     "inline blocks require a string argument: {~name:\"template\"}",
			})
		}

		stack = append(stack, openEntry{name: tag.Name, sigil: tag.Sigil, comment: c, tag: tag})
	}

	// EOF with a non-empty stack.
	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if kind == FileSource {
			continue // lenient: discard silently
		}
		emitUnclosed(top)
	}

	return blocks, diags
}

func buildBlock(path string, open openEntry, close Comment, src []byte, table *model.LineTable) model.Block {
	var blockKind model.BlockKind
	switch open.sigil {
	case '@':
		blockKind = model.BlockProvider
	case '~':
		blockKind = model.BlockInline
	default:
		blockKind = model.BlockConsumer
	}

	contentRange := model.Range{Start: open.comment.Whole.End, End: close.Whole.Start}
	lineStart := table.LineStart(open.comment.Whole.Start.Line)
	lineEnd := lineStart
	for lineEnd < uint64(len(src)) && src[lineEnd] != '\n' {
		lineEnd++
	}

	return model.Block{
		Name:         open.name,
		Kind:         blockKind,
		Open:         open.comment.Whole,
		Close:        close.Whole,
		ContentRange: contentRange,
		Arguments:    open.tag.Arguments,
		Transformers: translateTransformers(open.tag.Transformers, int(open.comment.Body.Start.Offset)),
		SourceFile:   path,
		Content:      append([]byte(nil), src[contentRange.Start.Offset:contentRange.End.Offset]...),
		OpeningLine:  string(src[lineStart:lineEnd]),
	}
}

// translateTransformers shifts transformer Pos ranges (lexed body-relative)
// into file-absolute byte offsets. Line/Column are left
// zero for transformer positions; callers needing a line/column for a
// transformer diagnostic re-resolve via the file's LineTable using Offset.
func translateTransformers(in []model.Transformer, base int) []model.Transformer {
	out := make([]model.Transformer, len(in))
	for i, t := range in {
		out[i] = model.Transformer{
			Kind: t.Kind,
			Name: t.Name,
			Args: t.Args,
			Pos: model.Range{
				Start: model.Position{Offset: uint64(base) + t.Pos.Start.Offset},
				End:   model.Position{Offset: uint64(base) + t.Pos.End.Offset},
			},
		}
	}
	return out
}

func tagIssueDiagnostics(path string, base int, table *model.LineTable, tag *TagSyntax) []model.Diagnostic {
	var diags []model.Diagnostic
	for _, issue := range tag.malformed {
		r := model.Range{
			Start: table.Position(uint64(base + issue.start)),
			End:   table.Position(uint64(base + issue.end)),
		}
		switch issue.kind {
		case issueInvalidName:
			diags = append(diags, model.Diagnostic{
				Severity: model.SeverityError, Code: model.CodeInvalidName,
				File: path, Range: r,
				Message: fmt.Sprintf("%q is not a valid identifier", issue.name),
				Help:    "identifiers start with a letter or underscore and contain only letters, digits, underscore",
			})
		case issueUnknownTransformer:
			diags = append(diags, model.Diagnostic{
				Severity: model.SeverityError, Code: model.CodeUnknownTransformer,
				File: path, Range: r,
				Message: fmt.Sprintf("unknown transformer %q", issue.name),
				Help:    "see the transformer catalog for valid names",
			})
		case issueInvalidTransformerArgs:
			diags = append(diags, model.Diagnostic{
				Severity: model.SeverityError, Code: model.CodeInvalidTransformerArg,
				File: path, Range: r,
				Message: fmt.Sprintf("transformer %q called with the wrong number of arguments", issue.name),
				Help:    "check the transformer's arity in the catalog",
			})
		}
	}
	return diags
}
