package scanner

import (
	"os"
	"path/filepath"
	"strings"

	gitignore "github.com/sabhiram/go-gitignore"
	"github.com/bmatcuk/doublestar/v4"
)

// ignoreSet bundles every rule source that can exclude a path during the
// walk: accumulated .gitignore files, [exclude] patterns, and [include]
// patterns.
type ignoreSet struct {
	gitignores      []*gitignore.GitIgnore // one per .gitignore found along the path, outermost first
	excludeMatcher  *gitignore.GitIgnore   // [exclude].patterns, gitignore-style with negation
	includePatterns []string               // [include].patterns, doublestar glob
	disableGitignore bool
}

func newIgnoreSet(excludePatterns []string, includePatterns []string, disableGitignore bool) *ignoreSet {
	set := &ignoreSet{includePatterns: includePatterns, disableGitignore: disableGitignore}
	if len(excludePatterns) > 0 {
		if m, err := gitignore.CompileIgnoreLines(excludePatterns...); err == nil {
			set.excludeMatcher = m
		}
	}
	return set
}

// pushGitignore loads dir/.gitignore, if present, onto the accumulated
// stack used for everything under dir.
func (s *ignoreSet) pushGitignore(dir string) (popped bool) {
	if s.disableGitignore {
		return false
	}
	path := filepath.Join(dir, ".gitignore")
	if _, err := os.Stat(path); err != nil {
		return false
	}
	m, err := gitignore.CompileIgnoreFile(path)
	if err != nil {
		return false
	}
	s.gitignores = append(s.gitignores, m)
	return true
}

func (s *ignoreSet) pop() {
	if len(s.gitignores) > 0 {
		s.gitignores = s.gitignores[:len(s.gitignores)-1]
	}
}

// excluded reports whether relPath (slash-separated, relative to the scan
// root) should be skipped per the union of active .gitignore rules and
// [exclude].patterns.
func (s *ignoreSet) excluded(relPath string) bool {
	for _, gi := range s.gitignores {
		if gi.MatchesPath(relPath) {
			return true
		}
	}
	if s.excludeMatcher != nil && s.excludeMatcher.MatchesPath(relPath) {
		return true
	}
	return false
}

// included reports whether a non-markdown file matches [include].patterns.
// An empty pattern list means "everything not otherwise excluded".
func (s *ignoreSet) included(relPath string) bool {
	if len(s.includePatterns) == 0 {
		return true
	}
	base := filepath.ToSlash(relPath)
	for _, pat := range s.includePatterns {
		if ok, _ := doublestar.Match(pat, base); ok {
			return true
		}
	}
	return false
}

func isHiddenDir(name string) bool {
	return strings.HasPrefix(name, ".") && name != "." && name != ".."
}
