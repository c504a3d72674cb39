// Package transform implements the closed transformer catalog: a chain of
// pure string->string functions applied left-to-right after template
// rendering, dispatched over a closed kind enum rather than an interface
// hierarchy.
package transform

import (
	"fmt"
	"strings"

	"github.com/viant/mdt/internal/model"
)

// Apply runs a single transformer against input. Argument arity must
// already have been validated by the caller (parser-time
// InvalidTransformerArgs); Apply itself only interprets well-formed args.
func Apply(kind model.TransformerKind, args []model.Argument, input string, data *model.DataContext) (string, error) {
	switch kind {
	case model.TransformTrim:
		return strings.Trim(input, " \t\r\n"), nil
	case model.TransformTrimStart:
		return strings.TrimLeft(input, " \t\r\n"), nil
	case model.TransformTrimEnd:
		return strings.TrimRight(input, " \t\r\n"), nil
	case model.TransformIndent:
		return applyLinePrefix(args, input), nil
	case model.TransformLineSuffix:
		return applyLineSuffix(args, input), nil
	case model.TransformPrefix:
		return stringArg(args, 0) + input, nil
	case model.TransformSuffix:
		return input + stringArg(args, 0), nil
	case model.TransformWrap:
		w := stringArg(args, 0)
		return w + input + w, nil
	case model.TransformCode:
		return "`" + input + "`", nil
	case model.TransformCodeBlock:
		lang := stringArg(args, 0)
		return "```" + lang + "\n" + input + "\n```", nil
	case model.TransformReplace:
		if len(args) < 2 {
			return input, fmt.Errorf("replace requires 2 arguments")
		}
		return strings.ReplaceAll(input, args[0].String(), args[1].String()), nil
	case model.TransformIf:
		if len(args) < 1 {
			return input, fmt.Errorf("if requires 1 argument")
		}
		if truthyAt(data, args[0].String()) {
			return input, nil
		}
		return "", nil
	}
	return input, fmt.Errorf("unknown transformer kind %v", kind)
}

func stringArg(args []model.Argument, i int) string {
	if i >= len(args) {
		return ""
	}
	return args[i].String()
}

func boolArg(args []model.Argument, i int) bool {
	if i >= len(args) {
		return false
	}
	return args[i].Kind == model.ArgBoolean && args[i].Bool
}

func applyLinePrefix(args []model.Argument, input string) string {
	prefix := stringArg(args, 0)
	includeEmpty := boolArg(args, 1)
	lines := splitKeepingLastEmpty(input)
	for i, line := range lines {
		if line == "" {
			if includeEmpty {
				lines[i] = strings.TrimRight(prefix, " \t")
			}
			continue
		}
		lines[i] = prefix + line
	}
	return strings.Join(lines, "\n")
}

func applyLineSuffix(args []model.Argument, input string) string {
	suffix := stringArg(args, 0)
	includeEmpty := boolArg(args, 1)
	lines := splitKeepingLastEmpty(input)
	for i, line := range lines {
		if line == "" {
			if includeEmpty {
				lines[i] = strings.TrimLeft(suffix, " \t")
			}
			continue
		}
		lines[i] = line + suffix
	}
	return strings.Join(lines, "\n")
}

// splitKeepingLastEmpty splits on "\n" the ordinary way: strings.Split
// already preserves a trailing empty element for a trailing newline, which
// is exactly the semantics needed here (that trailing "line" is untouched
// content, not a transformer target, unless includeEmpty is set).
func splitKeepingLastEmpty(s string) []string {
	return strings.Split(s, "\n")
}

// truthyAt resolves a dot-path (e.g. "flags.enabled") against the data
// namespaces for the `if` transformer.
func truthyAt(data *model.DataContext, path string) bool {
	if data == nil || path == "" {
		return false
	}
	parts := strings.Split(path, ".")
	v, ok := data.Get(parts[0])
	if !ok {
		return false
	}
	for _, part := range parts[1:] {
		v, ok = v.Field(part)
		if !ok {
			return false
		}
	}
	return v.Truthy()
}
