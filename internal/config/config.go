// Package config resolves an mdt project's configuration file and exposes
// its typed options, following the same "search then parse, absence is
// legal" shape common to marker-file project detectors.
package config

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/minio/highwayhash"
	"github.com/pkg/errors"
)

// DataSource describes one [data].<ns> entry: either a path-backed source
// (format inferred from extension unless overridden) or a command-backed
// source whose stdout is parsed according to Format.
type DataSource struct {
	Namespace string
	Path      string
	Command   string
	Format    string
	Watch     []string
}

// Padding holds the optional [padding] section. A nil *Padding means the
// section is absent: no padding adjustment at all. When the section is
// present, Before and After are always set; an omitted key defaults to one
// blank line.
type Padding struct {
	Before *PadSpec
	After  *PadSpec
}

// PadSpec is either "false" (ensure no blank line) or a non-negative blank
// line count.
type PadSpec struct {
	Disabled bool
	Lines    int
}

// Config is the fully resolved mdt.toml (or .mdt.toml / .config/mdt.toml).
type Config struct {
	// Path is the absolute path to the config file that was loaded, or ""
	// when no config file was found (legal; all options default).
	Path string

	Data               []DataSource
	ExcludePatterns    []string
	ExcludeBlocks      []string
	MarkdownCodeblocks MarkdownCodeblocks
	IncludePatterns    []string
	TemplatePaths      []string
	Padding            *Padding
	MaxFileSize        int64
	DisableGitignore   bool
}

// MarkdownCodeblocks models [exclude].markdown_codeblocks, which can be
// false, true, a single extension string, or a list of them.
type MarkdownCodeblocks struct {
	Always      bool
	Never       bool
	ExtensionsOnly []string
}

const defaultMaxFileSize = 10 * 1024 * 1024

// candidateNames is the search order, most to least specific.
var candidateNames = []string{"mdt.toml", ".mdt.toml", filepath.Join(".config", "mdt.toml")}

// Discover searches root for a config file. Absence returns a zero-value
// *Config with Path == "" and all options defaulted — not an error.
func Discover(root string) (*Config, error) {
	for _, name := range candidateNames {
		candidate := filepath.Join(root, name)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return Load(candidate)
		}
	}
	return defaultConfig(""), nil
}

// Load parses a specific config file path.
func Load(path string) (*Config, error) {
	var raw rawConfig
	if _, err := toml.DecodeFile(path, &raw); err != nil {
		return nil, errors.Wrapf(err, "failed to parse config %s", path)
	}
	cfg := defaultConfig(path)
	raw.apply(cfg)
	return cfg, nil
}

var cacheHashKey = []byte("0123456789ABCDEF0123456789ABCDEF")

// Fingerprint hashes the config file's raw bytes so internal/cache can
// invalidate its whole artifact whenever mdt.toml changes. A
// project with no config file fingerprints to a fixed sentinel.
func (c *Config) Fingerprint() string {
	if c.Path == "" {
		return "no-config"
	}
	raw, err := os.ReadFile(c.Path)
	if err != nil {
		return "unreadable-config"
	}
	h, err := highwayhash.New64(cacheHashKey)
	if err != nil {
		return "unreadable-config"
	}
	h.Write(raw)
	return string(h.Sum(nil))
}

func defaultConfig(path string) *Config {
	return &Config{
		Path:        path,
		MaxFileSize: defaultMaxFileSize,
	}
}

// rawConfig mirrors the TOML shape exactly (table names match );
// translation into the richer Config happens in apply.
type rawConfig struct {
	Data    map[string]interface{} `toml:"data"`
	Exclude struct {
		Patterns           []string    `toml:"patterns"`
		Blocks             []string    `toml:"blocks"`
		MarkdownCodeblocks interface{} `toml:"markdown_codeblocks"`
	} `toml:"exclude"`
	Include struct {
		Patterns []string `toml:"patterns"`
	} `toml:"include"`
	Templates struct {
		Paths []string `toml:"paths"`
	} `toml:"templates"`
	Padding *struct {
		Before interface{} `toml:"before"`
		After  interface{} `toml:"after"`
	} `toml:"padding"`
	MaxFileSize      int64 `toml:"max_file_size"`
	DisableGitignore bool  `toml:"disable_gitignore"`
}

func (r *rawConfig) apply(cfg *Config) {
	cfg.ExcludePatterns = r.Exclude.Patterns
	cfg.ExcludeBlocks = r.Exclude.Blocks
	cfg.MarkdownCodeblocks = parseMarkdownCodeblocks(r.Exclude.MarkdownCodeblocks)
	cfg.IncludePatterns = r.Include.Patterns
	cfg.TemplatePaths = r.Templates.Paths
	if r.MaxFileSize > 0 {
		cfg.MaxFileSize = r.MaxFileSize
	}
	cfg.DisableGitignore = r.DisableGitignore
	cfg.Padding = parsePadding(r.Padding)
	cfg.Data = parseDataSources(r.Data)
}

func parseMarkdownCodeblocks(v interface{}) MarkdownCodeblocks {
	switch t := v.(type) {
	case bool:
		return MarkdownCodeblocks{Always: t, Never: !t}
	case string:
		return MarkdownCodeblocks{ExtensionsOnly: []string{t}}
	case []interface{}:
		var exts []string
		for _, e := range t {
			if s, ok := e.(string); ok {
				exts = append(exts, s)
			}
		}
		return MarkdownCodeblocks{ExtensionsOnly: exts}
	}
	return MarkdownCodeblocks{}
}

func parsePadding(raw *struct {
	Before interface{} `toml:"before"`
	After  interface{} `toml:"after"`
}) *Padding {
	if raw == nil {
		return nil
	}
	return &Padding{Before: parsePadSpec(raw.Before), After: parsePadSpec(raw.After)}
}

func parsePadSpec(v interface{}) *PadSpec {
	switch t := v.(type) {
	case bool:
		if !t {
			return &PadSpec{Disabled: true}
		}
		return &PadSpec{Lines: 1}
	case int64:
		return &PadSpec{Lines: int(t)}
	case int:
		return &PadSpec{Lines: t}
	case nil:
		return &PadSpec{Lines: 1} // present section, omitted field defaults to 1
	}
	return &PadSpec{Lines: 1}
}

func parseDataSources(raw map[string]interface{}) []DataSource {
	sources := make([]DataSource, 0, len(raw))
	for ns, v := range raw {
		ds := DataSource{Namespace: ns}
		switch t := v.(type) {
		case string:
			ds.Path = t
		case map[string]interface{}:
			if p, ok := t["path"].(string); ok {
				ds.Path = p
			}
			if c, ok := t["command"].(string); ok {
				ds.Command = c
			}
			if f, ok := t["format"].(string); ok {
				ds.Format = f
			}
			if w, ok := t["watch"].([]interface{}); ok {
				for _, item := range w {
					if s, ok := item.(string); ok {
						ds.Watch = append(ds.Watch, s)
					}
				}
			}
		}
		sources = append(sources, ds)
	}
	return sources
}
