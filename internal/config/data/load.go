// Package data loads [data] namespaces: path-backed files in
// json/toml/yaml/kdl/ini/text format, or command-backed sources whose
// stdout is parsed the same way, with a disk cache keyed by watch-file
// fingerprints.
package data

import (
	"bytes"
	"context"
	"fmt"
	"math"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/viant/afs"
	"github.com/pkg/errors"

	"github.com/viant/mdt/internal/config"
	"github.com/viant/mdt/internal/model"
)

// Loader resolves every configured DataSource into a model.DataContext. It
// reads files through afs and runs script-backed sources through a shell,
// like a light build tool would.
type Loader struct {
	fs   afs.Service
	root string
	// cache is the on-disk script-output cache; nil disables caching.
	// NewLoader always sets it.
	cache *ScriptCache
}

// NewLoader creates a Loader rooted at root, with the on-disk script cache
// at .mdt/cache/data-v1.json enabled.
func NewLoader(root string) *Loader {
	return &Loader{fs: afs.New(), root: root, cache: NewScriptCache(root)}
}

// Load resolves every source into a DataContext. IO/parse/script failures
// are fatal and abort the whole load; the caller should treat a non-nil
// error as a scan-aborting condition.
func (l *Loader) Load(ctx context.Context, sources []config.DataSource) (*model.DataContext, error) {
	dc := model.NewDataContext()
	for _, src := range sources {
		v, err := l.loadOne(ctx, src)
		if err != nil {
			return nil, errors.Wrapf(err, "data namespace %q", src.Namespace)
		}
		dc.Set(src.Namespace, v)
	}
	return dc, nil
}

func (l *Loader) loadOne(ctx context.Context, src config.DataSource) (model.Value, error) {
	format := src.Format
	if src.Command != "" {
		if format == "" {
			return model.Value{}, fmt.Errorf("script-backed source %q requires a format", src.Namespace)
		}
		return l.loadScript(ctx, src, format)
	}

	if format == "" {
		format = inferFormat(src.Path)
	}
	absPath := src.Path
	if !filepath.IsAbs(absPath) {
		absPath = filepath.Join(l.root, absPath)
	}
	content, err := l.fs.DownloadWithURL(ctx, absPath)
	if err != nil {
		return model.Value{}, fmt.Errorf("missing data file %s: %w", absPath, err)
	}
	return Parse(format, content)
}

func (l *Loader) loadScript(ctx context.Context, src config.DataSource, format string) (model.Value, error) {
	if l.cache != nil && len(src.Watch) > 0 {
		if cached, ok := l.cache.Lookup(src.Namespace, src.Command, format, src.Watch, l.root); ok {
			return Parse(format, cached)
		}
	}

	cmd := exec.CommandContext(ctx, "sh", "-c", src.Command)
	cmd.Dir = l.root
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return model.Value{}, fmt.Errorf("script %q failed: %w: %s", src.Command, err, stderr.String())
	}

	out := stdout.Bytes()
	if l.cache != nil && len(src.Watch) > 0 {
		l.cache.Store(src.Namespace, src.Command, format, src.Watch, l.root, out)
	}
	return Parse(format, out)
}

func inferFormat(path string) string {
	if strings.ToLower(filepath.Base(path)) == "go.mod" {
		return "gomod"
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return "json"
	case ".toml":
		return "toml"
	case ".yaml", ".yml":
		return "yaml"
	case ".kdl":
		return "kdl"
	case ".ini":
		return "ini"
	default:
		return "text"
	}
}

// Parse converts raw bytes in the given format into a model.Value.
// Non-finite numbers (NaN/Infinity) are a hard error.
func Parse(format string, content []byte) (model.Value, error) {
	switch strings.ToLower(format) {
	case "text":
		return model.String(string(content)), nil
	case "json":
		return parseJSON(content)
	case "toml":
		return parseTOML(content)
	case "yaml", "yml":
		return parseYAML(content)
	case "kdl":
		return parseKDL(content)
	case "ini":
		return parseINI(content)
	case "gomod":
		return parseGoMod(content)
	}
	return model.Value{}, fmt.Errorf("unsupported data format %q", format)
}

func rejectNonFinite(f float64) error {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return fmt.Errorf("non-finite number %v is not representable", f)
	}
	return nil
}
