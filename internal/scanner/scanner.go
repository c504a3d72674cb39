// Package scanner walks a project tree, honors ignore/include/sub-project
// rules, and produces the unified model.ProjectIndex the render engine
// consumes, using a filepath.Walk-based discovery pass generalized from
// "find Go packages" to "find scannable files of any dispatched kind".
package scanner

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/viant/afs"

	"github.com/viant/mdt/internal/config"
	"github.com/viant/mdt/internal/config/data"
	"github.com/viant/mdt/internal/lexparse"
	"github.com/viant/mdt/internal/model"
)

var alwaysSkipDirs = map[string]bool{"node_modules": true, "target": true}

// ReuseFunc lets a caller (the incremental cache) short-circuit re-parsing
// a file whose fingerprint has not changed. It returns ok=false when the
// file must be parsed fresh.
type ReuseFunc func(path string, size int64, modTimeNs int64) (blocks []model.Block, diags []model.Diagnostic, ok bool)

// Scanner walks a project root and builds a model.ProjectIndex.
type Scanner struct {
	cfg   *config.Config
	reuse ReuseFunc
	fs    afs.Service
}

// New creates a Scanner for the given resolved config. reuse may be nil (no
// incremental cache). File content during traversal is read through
// afs.Service, the same storage abstraction the data loader uses, so a
// future remote-backed project root does not require a second read path.
func New(cfg *config.Config, reuse ReuseFunc) *Scanner {
	return &Scanner{cfg: cfg, reuse: reuse, fs: afs.New()}
}

// Scan walks root and returns the populated ProjectIndex. It never aborts
// on a single bad file or block: oversize and unreadable files are both
// reported as diagnostics here since a single unreadable file should not
// abort the whole scan; config/data load failures surface separately
// from Loader.Load.
func (s *Scanner) Scan(ctx context.Context, root string) (*model.ProjectIndex, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve root %s: %w", root, err)
	}

	idx := model.NewProjectIndex(absRoot)
	ig := newIgnoreSet(s.cfg.ExcludePatterns, s.cfg.IncludePatterns, s.cfg.DisableGitignore)
	visited := map[string]bool{}

	if err := s.walkDir(ctx, absRoot, absRoot, ig, visited, idx); err != nil {
		return nil, err
	}

	dedupeProviderBlocks(idx)

	loader := data.NewLoader(absRoot)
	dc, err := loader.Load(ctx, s.cfg.Data)
	if err != nil {
		return nil, err
	}
	idx.Data = dc

	sortDiagnostics(idx.Diagnostics)
	return idx, nil
}

func (s *Scanner) walkDir(ctx context.Context, absRoot, dir string, ig *ignoreSet, visited map[string]bool, idx *model.ProjectIndex) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	canonical, err := filepath.EvalSymlinks(dir)
	if err != nil {
		canonical = dir
	}
	if visited[canonical] {
		return nil
	}
	visited[canonical] = true

	popped := ig.pushGitignore(dir)
	if popped {
		defer ig.pop()
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("failed to read directory %s: %w", dir, err)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

	for _, entry := range entries {
		full := filepath.Join(dir, entry.Name())
		relPath := filepath.ToSlash(mustRel(absRoot, full))

		if entry.IsDir() {
			if alwaysSkipDirs[entry.Name()] {
				continue
			}
			if isHiddenDir(entry.Name()) && !hiddenAllowed(relPath, s.cfg.TemplatePaths) {
				continue
			}
			if ig.excluded(relPath) {
				continue
			}
			if full != absRoot && isSubProjectBoundary(full) {
				continue
			}
			if err := s.walkDir(ctx, absRoot, full, ig, visited, idx); err != nil {
				return err
			}
			continue
		}

		if ig.excluded(relPath) {
			continue
		}

		kind, skip := classify(entry.Name())
		if skip {
			continue
		}
		if kind == lexparse.FileTemplate && !templateRecognized(relPath, s.cfg.TemplatePaths) {
			kind = lexparse.FileMarkdown
		}
		if kind == lexparse.FileSource && !ig.included(relPath) {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			idx.Diagnostics = append(idx.Diagnostics, ioDiagnostic(relPath, model.CodeUnreadableFile, err))
			continue
		}
		if info.Size() > s.cfg.MaxFileSize {
			idx.Diagnostics = append(idx.Diagnostics, model.Diagnostic{
				Severity: model.SeverityError,
				Code:     model.CodeOversizeFile,
				File:     relPath,
				Message:  fmt.Sprintf("file exceeds max_file_size (%d bytes)", s.cfg.MaxFileSize),
			})
			continue
		}

		blocks, diags, entryRecord := s.scanFile(ctx, full, relPath, kind, info, s.markdownCodeblocksEnabled(kind, entry.Name()))
		idx.FilesScanned = append(idx.FilesScanned, entryRecord)
		idx.Diagnostics = append(idx.Diagnostics, diags...)

		if kind == lexparse.FileTemplate {
			idx.Templates = append(idx.Templates, relPath)
		}

		for _, b := range blocks {
			switch b.Kind {
			case model.BlockProvider:
				if kind == lexparse.FileTemplate {
					idx.AddProvider(b)
				}
				// Providers found outside template files were already
				// diagnosed by the parser (NonTemplateProvider) and are
				// dropped from the name table here.
			case model.BlockInline:
				idx.Inlines = append(idx.Inlines, b)
			default:
				idx.Consumers = append(idx.Consumers, b)
			}
		}
	}
	return nil
}

func (s *Scanner) scanFile(ctx context.Context, path, relPath string, kind lexparse.FileKind, info os.FileInfo, skipFenced bool) ([]model.Block, []model.Diagnostic, model.FileEntry) {
	modTimeNs := info.ModTime().UnixNano()
	if s.reuse != nil {
		if blocks, diags, ok := s.reuse(relPath, info.Size(), modTimeNs); ok {
			return blocks, diags, model.FileEntry{Path: relPath, Size: info.Size(), ModTimeNs: modTimeNs, Blocks: blocks, Diagnostics: diags}
		}
	}

	raw, err := s.fs.DownloadWithURL(ctx, path)
	if err != nil {
		diag := ioDiagnostic(relPath, model.CodeUnreadableFile, err)
		return nil, []model.Diagnostic{diag}, model.FileEntry{Path: relPath, Size: info.Size(), ModTimeNs: modTimeNs}
	}
	src := lexparse.NormalizeCRLF(raw)
	blocks, diags := lexparse.ParseFile(relPath, src, kind, skipFenced)
	return blocks, diags, model.FileEntry{Path: relPath, Size: info.Size(), ModTimeNs: modTimeNs, Blocks: blocks, Diagnostics: diags}
}

// markdownCodeblocksEnabled resolves [exclude].markdown_codeblocks for a
// source-mode file: Always/Never force the behavior, ExtensionsOnly scopes
// it to specific extensions, and the zero value (no section) defaults to
// off for source files (lenient-by-default source scanning).
func (s *Scanner) markdownCodeblocksEnabled(kind lexparse.FileKind, name string) bool {
	if kind != lexparse.FileSource {
		return true
	}
	mc := s.cfg.MarkdownCodeblocks
	if mc.Always {
		return true
	}
	if mc.Never {
		return false
	}
	if len(mc.ExtensionsOnly) == 0 {
		return false
	}
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range mc.ExtensionsOnly {
		if strings.ToLower(e) == ext || "."+strings.ToLower(strings.TrimPrefix(e, ".")) == ext {
			return true
		}
	}
	return false
}

func ioDiagnostic(path string, code model.Code, err error) model.Diagnostic {
	return model.Diagnostic{Severity: model.SeverityError, Code: code, File: path, Message: err.Error()}
}

func mustRel(base, target string) string {
	rel, err := filepath.Rel(base, target)
	if err != nil {
		return target
	}
	return rel
}

func hiddenAllowed(relDir string, templatePaths []string) bool {
	return pathWithinConfigured(relDir, templatePaths)
}

func templateRecognized(relFile string, templatePaths []string) bool {
	if len(templatePaths) == 0 {
		return true
	}
	return pathWithinConfigured(filepath.ToSlash(filepath.Dir(relFile)), templatePaths)
}

func pathWithinConfigured(rel string, configured []string) bool {
	if len(configured) == 0 {
		return false
	}
	rel = filepath.ToSlash(rel)
	for _, cp := range configured {
		cp = filepath.ToSlash(filepath.Clean(cp))
		if rel == cp || strings.HasPrefix(cp, rel+"/") || strings.HasPrefix(rel, cp+"/") {
			return true
		}
	}
	return false
}

// dedupeProviderBlocks turns repeated AddProvider calls recorded during the
// walk into DuplicateProvider diagnostics referencing both locations:
// first occurrence wins, and both locations are reported.
func dedupeProviderBlocks(idx *model.ProjectIndex) {
	for name, dups := range idx.ProviderDuplicates {
		first := idx.Providers[name]
		for _, dup := range dups {
			d := dup
			idx.Diagnostics = append(idx.Diagnostics, model.Diagnostic{
				Severity: model.SeverityError,
				Code:     model.CodeDuplicateProvider,
				File:     d.SourceFile,
				Range:    d.Open,
				Message:  fmt.Sprintf("provider %q is already declared in %s", name, first.SourceFile),
				Related:  &first.Open,
			})
		}
	}
}

func sortDiagnostics(diags []model.Diagnostic) {
	sort.Slice(diags, func(i, j int) bool {
		a, b := diags[i], diags[j]
		if a.File != b.File {
			return a.File < b.File
		}
		if a.Range.Start.Line != b.Range.Start.Line {
			return a.Range.Start.Line < b.Range.Start.Line
		}
		return a.Range.Start.Column < b.Range.Start.Column
	})
}
