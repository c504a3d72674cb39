package model

// Severity classifies a Diagnostic for exit-code and formatter purposes.
type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
)

func (s Severity) String() string {
	if s == SeverityWarning {
		return "warning"
	}
	return "error"
}

// Code is a closed set of diagnostic identifiers, one per diagnostic
// category. Codes are stable strings so CLI/LSP/MCP adapters can key off
// them without string-matching messages.
type Code string

const (
	CodeUnclosedBlock         Code = "unclosed-block"
	CodeInvalidName           Code = "invalid-name"
	CodeUnknownTransformer    Code = "unknown-transformer"
	CodeInvalidTransformerArg Code = "invalid-transformer-args"
	CodeDuplicateProvider     Code = "duplicate-provider"
	CodeNonTemplateProvider   Code = "non-template-provider"
	CodeInlineMissingTemplate Code = "inline-missing-template"

	CodeArgumentMismatch   Code = "argument-mismatch"
	CodeTemplateSyntax     Code = "template-syntax"
	CodeUnknownRootVar     Code = "unknown-root-variable"
	CodeNonFiniteNumber    Code = "non-finite-number"
	CodeUndefinedAttribute Code = "undefined-attribute"

	CodeMissingProvider Code = "missing-provider"

	CodeUnreadableFile  Code = "unreadable-file"
	CodeOversizeFile    Code = "oversize-file"
	CodeMalformedData   Code = "malformed-data"
	CodeMissingData     Code = "missing-data-file"
	CodeScriptFailure   Code = "script-failure"
	CodeConfigParse     Code = "config-parse-error"
)

// Diagnostic is a structured, positioned report produced by the lexer,
// parser, scanner, or render stage. Diagnostics never abort a scan; they
// accumulate in ProjectIndex.Diagnostics (or a render result) and are
// reported by the caller's formatter (text/json/github).
type Diagnostic struct {
	Severity Severity
	Code     Code
	File     string
	Range    Range
	Message  string
	Help     string

	// Related carries a secondary location, used for DuplicateProvider to
	// point at both the first occurrence and the duplicate.
	Related *Range
}

// RenderError is a per-consumer failure that does not abort rendering of
// other consumers.
type RenderError struct {
	Code    Code
	File    string
	Block   string
	Range   Range
	Message string
}

// TemplateWarning is a non-fatal render-time condition: an undefined nested
// attribute access that resolved to empty string instead of failing the
// render (Code == CodeUndefinedAttribute, Path set), or a consumer whose
// provider could not be found (Code == CodeMissingProvider, Path empty).
// Neither case writes anything or fails Result.OK().
type TemplateWarning struct {
	Code    Code
	File    string
	Block   string
	Range   Range
	Path    string
	Message string
}
