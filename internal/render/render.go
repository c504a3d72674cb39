// Package render implements the check/update/diff engine: for every
// consumer it locates its provider, renders the template + argument
// scope, applies the transformer chain and padding, and compares the
// result to the on-disk bytes. Rendering stays single-threaded so
// diagnostics come out in a stable, deterministic order.
package render

import (
	"fmt"
	"math"
	"sort"

	"github.com/viant/mdt/internal/config"
	"github.com/viant/mdt/internal/model"
	"github.com/viant/mdt/internal/template"
	"github.com/viant/mdt/internal/transform"
)

// StaleEntry is a consumer whose current bytes differ from the rendered
// expected bytes.
type StaleEntry struct {
	File     string
	Block    string
	Current  string
	Expected string
	Line     uint32
	Column   uint32
	Range    model.Range
}

// Result is the outcome of rendering every consumer/inline block in a
// ProjectIndex: what's stale, and every non-fatal problem encountered.
type Result struct {
	Stale       []StaleEntry
	RenderErrors []model.RenderError
	Warnings    []model.TemplateWarning
}

// OK reports the success condition: no stale entries and no render
// errors (warnings never fail the result).
func (r *Result) OK() bool {
	return len(r.Stale) == 0 && len(r.RenderErrors) == 0
}

// Check renders every consumer and inline block in idx and reports staleness
// without touching the filesystem.
func Check(idx *model.ProjectIndex, excludedBlocks map[string]bool, padding *config.Padding) *Result {
	res := &Result{}
	consumers := append(append([]model.Block{}, idx.Consumers...), idx.Inlines...)
	sort.SliceStable(consumers, func(i, j int) bool {
		if consumers[i].SourceFile != consumers[j].SourceFile {
			return consumers[i].SourceFile < consumers[j].SourceFile
		}
		return consumers[i].Open.Start.Offset < consumers[j].Open.Start.Offset
	})

	for _, c := range consumers {
		if excludedBlocks[c.Name] {
			continue
		}
		expected, warnings, renderErr := RenderBlock(idx, c, padding)
		res.Warnings = append(res.Warnings, warnings...)
		if renderErr != nil {
			res.RenderErrors = append(res.RenderErrors, *renderErr)
			continue
		}
		current := string(c.Content)
		if current != expected {
			res.Stale = append(res.Stale, StaleEntry{
				File:     c.SourceFile,
				Block:    c.Name,
				Current:  current,
				Expected: expected,
				Line:     c.ContentRange.Start.Line,
				Column:   c.ContentRange.Start.Column,
				Range:    c.ContentRange,
			})
		}
	}

	sort.Slice(res.Stale, func(i, j int) bool {
		if res.Stale[i].File != res.Stale[j].File {
			return res.Stale[i].File < res.Stale[j].File
		}
		if res.Stale[i].Line != res.Stale[j].Line {
			return res.Stale[i].Line < res.Stale[j].Line
		}
		return res.Stale[i].Column < res.Stale[j].Column
	})
	return res
}

// RenderBlock renders a single consumer or inline block against idx, returning
// the expected content, any template warnings, and a render error when the
// block cannot be rendered at all (argument mismatch, template syntax error,
// unknown root variable). A consumer whose provider cannot be found is not a
// render error: it comes back as a CodeMissingProvider warning with expected
// content equal to the block's current content, so Check never marks it
// stale and update never touches it.
func RenderBlock(idx *model.ProjectIndex, consumer model.Block, padding *config.Padding) (string, []model.TemplateWarning, *model.RenderError) {
	var body string
	var provider *model.Block
	var tmplWarnings []template.Warning
	var err error

	switch consumer.Kind {
	case model.BlockInline:
		scope := dataScope(idx.Data)
		body, tmplWarnings, err = template.RenderSource(consumer.InlineTemplate(), scope)
	default:
		var ok bool
		provider, ok = idx.Providers[consumer.Name]
		if !ok {
			warning := model.TemplateWarning{
				Code:    model.CodeMissingProvider,
				File:    consumer.SourceFile,
				Block:   consumer.Name,
				Range:   consumer.Open,
				Message: fmt.Sprintf("no provider named %q is declared", consumer.Name),
			}
			return string(consumer.Content), []model.TemplateWarning{warning}, nil
		}
		if len(consumer.Arguments) != len(provider.Arguments) {
			return "", nil, &model.RenderError{
				Code:  model.CodeArgumentMismatch,
				File:  consumer.SourceFile,
				Block: consumer.Name,
				Range: consumer.Open,
				Message: fmt.Sprintf("provider %q declares %d parameter(s), consumer passed %d",
					consumer.Name, len(provider.Arguments), len(consumer.Arguments)),
			}
		}
		scope := dataScope(idx.Data)
		for i, param := range provider.Arguments {
			arg := consumer.Arguments[i]
			if arg.Kind == model.ArgNumber && (math.IsNaN(arg.Num) || math.IsInf(arg.Num, 0)) {
				return "", nil, &model.RenderError{
					Code:  model.CodeNonFiniteNumber,
					File:  consumer.SourceFile,
					Block: consumer.Name,
					Range: consumer.Open,
					Message: fmt.Sprintf("argument %d (%q) is not a finite number: %v",
						i, param.Str, arg.Num),
				}
			}
			scope[param.Str] = argumentValue(arg)
		}
		body, tmplWarnings, err = template.RenderSource(string(provider.Content), scope)
	}

	if err != nil {
		if rerr, ok := err.(*template.RenderErr); ok {
			return "", nil, &model.RenderError{
				Code:    model.CodeUnknownRootVar,
				File:    consumer.SourceFile,
				Block:   consumer.Name,
				Range:   consumer.Open,
				Message: rerr.Message,
			}
		}
		return "", nil, &model.RenderError{
			Code:    model.CodeTemplateSyntax,
			File:    consumer.SourceFile,
			Block:   consumer.Name,
			Range:   consumer.Open,
			Message: err.Error(),
		}
	}

	for _, t := range consumer.Transformers {
		body, err = transform.Apply(t.Kind, t.Args, body, idx.Data)
		if err != nil {
			return "", nil, &model.RenderError{
				Code:    model.CodeInvalidTransformerArg,
				File:    consumer.SourceFile,
				Block:   consumer.Name,
				Range:   t.Pos,
				Message: err.Error(),
			}
		}
	}

	body = transform.ApplyPadding(body, padding, consumer.OpeningLine)

	warnings := make([]model.TemplateWarning, 0, len(tmplWarnings))
	for _, w := range tmplWarnings {
		warnings = append(warnings, model.TemplateWarning{
			Code:    model.CodeUndefinedAttribute,
			File:    consumer.SourceFile,
			Block:   consumer.Name,
			Range:   consumer.Open,
			Path:    w.Path,
			Message: w.Message,
		})
	}
	return body, warnings, nil
}

func dataScope(data *model.DataContext) template.Scope {
	scope := template.Scope{}
	if data == nil {
		return scope
	}
	for _, ns := range data.Namespaces() {
		v, _ := data.Get(ns)
		scope[ns] = v
	}
	return scope
}

// argumentValue converts a tag Argument literal into the model.Value it is
// bound to in a provider's rendering scope.
func argumentValue(a model.Argument) model.Value {
	switch a.Kind {
	case model.ArgString:
		return model.String(a.Str)
	case model.ArgNumber:
		return model.Number(a.Num)
	case model.ArgBoolean:
		return model.Bool(a.Bool)
	}
	return model.Null()
}
