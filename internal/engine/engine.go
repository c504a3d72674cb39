// Package engine is the top-level orchestration API: the single entry
// point every adapter (CLI, LSP, MCP) calls into. All entry points are
// blocking synchronous calls and must not assume an ambient executor.
package engine

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/viant/mdt/internal/cache"
	"github.com/viant/mdt/internal/config"
	"github.com/viant/mdt/internal/model"
	"github.com/viant/mdt/internal/render"
	"github.com/viant/mdt/internal/scanner"
)

// Engine bundles one project's resolved configuration and incremental
// cache. Create one per root directory.
type Engine struct {
	Root string
	Cfg  *config.Config

	idxCache *cache.IndexCache
}

// Open discovers config at root and opens the incremental index cache.
func Open(root string) (*Engine, error) {
	cfg, err := config.Discover(root)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	verifyHash := os.Getenv("MDT_CACHE_VERIFY_HASH") == "1"
	return &Engine{
		Root:     root,
		Cfg:      cfg,
		idxCache: cache.New(root, cfg.Fingerprint(), verifyHash),
	}, nil
}

// excludedBlockSet turns [exclude].blocks into a lookup set.
func (e *Engine) excludedBlockSet() map[string]bool {
	set := make(map[string]bool, len(e.Cfg.ExcludeBlocks))
	for _, name := range e.Cfg.ExcludeBlocks {
		set[name] = true
	}
	return set
}

// Scan walks the project and returns the populated index, persisting the
// incremental cache as a side effect.
func (e *Engine) Scan(ctx context.Context) (*model.ProjectIndex, error) {
	s := scanner.New(e.Cfg, e.idxCache.ReuseFunc())
	idx, err := s.Scan(ctx, e.Root)
	if err != nil {
		return nil, err
	}
	if err := e.idxCache.Store(idx); err != nil {
		return idx, fmt.Errorf("failed to persist index cache: %w", err)
	}
	return idx, nil
}

// Check scans and renders, returning the check Result.
func (e *Engine) Check(ctx context.Context) (*model.ProjectIndex, *render.Result, error) {
	idx, err := e.Scan(ctx)
	if err != nil {
		return nil, nil, err
	}
	res := render.Check(idx, e.excludedBlockSet(), e.Cfg.Padding)
	return idx, res, nil
}

// Update scans, renders, and writes every stale consumer. dryRun computes
// the same edit set without touching the filesystem.
func (e *Engine) Update(ctx context.Context, dryRun bool) (*model.ProjectIndex, *render.Result, []string, error) {
	idx, err := e.Scan(ctx)
	if err != nil {
		return nil, nil, nil, err
	}
	edits, res := render.PlanUpdate(idx, e.excludedBlockSet(), e.Cfg.Padding)
	written, err := render.Apply(e.Root, edits, dryRun)
	if err != nil {
		return idx, res, written, fmt.Errorf("failed to write updates: %w", err)
	}
	return idx, res, written, nil
}

// LinkStatus classifies a consumer or inline block for `list` (SUPPLEMENTED
// feature): whether it resolves and whether it is currently in sync.
type LinkStatus int

const (
	LinkOK LinkStatus = iota
	LinkStale
	LinkMissingProvider
	LinkError
)

func (s LinkStatus) String() string {
	switch s {
	case LinkOK:
		return "ok"
	case LinkStale:
		return "stale"
	case LinkMissingProvider:
		return "missing-provider"
	case LinkError:
		return "error"
	}
	return "unknown"
}

// ListEntry describes one provider/consumer/inline block for `list`.
type ListEntry struct {
	Name   string
	Kind   model.BlockKind
	File   string
	Status LinkStatus
}

// List scans and classifies every block for the `list` command.
func (e *Engine) List(ctx context.Context) (*model.ProjectIndex, []ListEntry, error) {
	idx, err := e.Scan(ctx)
	if err != nil {
		return nil, nil, err
	}
	excluded := e.excludedBlockSet()

	var out []ListEntry
	for name, p := range idx.Providers {
		out = append(out, ListEntry{Name: name, Kind: model.BlockProvider, File: p.SourceFile, Status: LinkOK})
	}
	for _, c := range append(append([]model.Block{}, idx.Consumers...), idx.Inlines...) {
		if excluded[c.Name] {
			continue
		}
		entry := ListEntry{Name: c.Name, Kind: c.Kind, File: c.SourceFile}
		expected, warnings, rerr := render.RenderBlock(idx, c, e.Cfg.Padding)
		missingProvider := false
		for _, w := range warnings {
			if w.Code == model.CodeMissingProvider {
				missingProvider = true
			}
		}
		switch {
		case missingProvider:
			entry.Status = LinkMissingProvider
		case rerr != nil:
			entry.Status = LinkError
		case string(c.Content) != expected:
			entry.Status = LinkStale
		default:
			entry.Status = LinkOK
		}
		out = append(out, entry)
	}
	return idx, out, nil
}

// HealthIssue is one problem doctor reports (SUPPLEMENTED feature).
type HealthIssue struct {
	Severity model.Severity
	Message  string
}

// Doctor scans and reports health issues (SUPPLEMENTED): every
// error-severity diagnostic, a warning when no *.t.md template file was
// found, and an error per duplicated provider name. It does not report
// cache telemetry.
func (e *Engine) Doctor(ctx context.Context) (*model.ProjectIndex, []HealthIssue, error) {
	idx, err := e.Scan(ctx)
	if err != nil {
		return nil, nil, err
	}
	var issues []HealthIssue
	for _, d := range idx.Diagnostics {
		if d.Severity == model.SeverityError {
			issues = append(issues, HealthIssue{Severity: d.Severity, Message: fmt.Sprintf("%s: %s (%s:%d)", d.Code, d.Message, d.File, d.Range.Start.Line)})
		}
	}
	if len(idx.Templates) == 0 {
		issues = append(issues, HealthIssue{Severity: model.SeverityWarning, Message: "no *.t.md template files were found in this project"})
	}
	for name, dups := range idx.ProviderDuplicates {
		issues = append(issues, HealthIssue{Severity: model.SeverityError, Message: fmt.Sprintf("provider %q is declared %d extra time(s)", name, len(dups))})
	}
	return idx, issues, nil
}

// Init creates .templates/template.t.md if absent.
func Init(root string) (created bool, err error) {
	dir := filepath.Join(root, ".templates")
	path := filepath.Join(dir, "template.t.md")
	if _, statErr := os.Stat(path); statErr == nil {
		return false, nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return false, fmt.Errorf("failed to create %s: %w", dir, err)
	}
	content := fmt.Sprintf("<!-- generated %s -->\n<!-- {@example} -->\nReplace this with your authoritative content.\n<!-- {/example} -->\n", time.Now().UTC().Format(time.RFC3339))
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return false, fmt.Errorf("failed to write %s: %w", path, err)
	}
	return true, nil
}
