// Package cache implements the incremental index cache of : a
// single JSON artifact at .mdt/cache/index-v1.json persisting per-file
// fingerprints, parsed blocks, and scan telemetry, following the same
// schema-versioned-JSON-with-atomic-write shape as internal/config/data's
// ScriptCache (data-v1.json).
package cache

import (
	"encoding/hex"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/minio/highwayhash"

	"github.com/viant/mdt/internal/model"
	"github.com/viant/mdt/internal/scanner"
)

const indexSchemaVersion = 1

var highwayKey = []byte("0123456789ABCDEF0123456789ABCDEF")

// Telemetry mirrors the configured telemetry block.
type Telemetry struct {
	TotalScans        int      `json:"total_scans"`
	FullHitScans      int      `json:"full_hit_scans"`
	ReusedFilesTotal  int      `json:"reused_files_total"`
	ReparsedFilesTotal int     `json:"reparsed_files_total"`
	LastScan          LastScan `json:"last_scan"`
}

// LastScan records the outcome of the most recent scan.
type LastScan struct {
	Reused   int    `json:"reused"`
	Reparsed int    `json:"reparsed"`
	Mode     string `json:"mode"`
}

type entry struct {
	Size        int64             `json:"size"`
	ModTimeNs   int64             `json:"mtime_ns"`
	ContentHash string            `json:"content_hash,omitempty"`
	Blocks      []model.Block     `json:"blocks"`
	Diagnostics []model.Diagnostic `json:"diagnostics"`
}

type artifact struct {
	SchemaVersion int              `json:"schema_version"`
	ProjectKey    string           `json:"project_key"`
	Entries       map[string]entry `json:"entries"`
	Telemetry     Telemetry        `json:"telemetry"`
}

// IndexCache is the project-scoped incremental cache. VerifyHash controls
// whether a content hash is compared in addition to (size, mtime_ns) —
// enabled when MDT_CACHE_VERIFY_HASH=1 or configured.
type IndexCache struct {
	root        string
	path        string
	projectKey  string
	verifyHash  bool

	mu      sync.Mutex
	art     *artifact
	reused  int
	reparsed int
}

// New opens (or lazily initializes) the cache for root, keyed by a
// fingerprint of root plus the resolved config's own fingerprint (so
// changing mdt.toml invalidates the whole artifact).
func New(root, configFingerprint string, verifyHash bool) *IndexCache {
	c := &IndexCache{
		root:       root,
		path:       filepath.Join(root, ".mdt", "cache", "index-v1.json"),
		projectKey: projectKey(root, configFingerprint),
		verifyHash: verifyHash,
	}
	if art, ok := c.read(); ok && art.ProjectKey == c.projectKey {
		c.art = art
	} else {
		c.art = &artifact{SchemaVersion: indexSchemaVersion, ProjectKey: c.projectKey, Entries: map[string]entry{}}
	}
	return c
}

// ReuseFunc returns a scanner.ReuseFunc backed by this cache.
func (c *IndexCache) ReuseFunc() scanner.ReuseFunc {
	return func(path string, size int64, modTimeNs int64) ([]model.Block, []model.Diagnostic, bool) {
		c.mu.Lock()
		e, ok := c.art.Entries[path]
		c.mu.Unlock()
		if !ok || e.Size != size || e.ModTimeNs != modTimeNs {
			c.mu.Lock()
			c.reparsed++
			c.mu.Unlock()
			return nil, nil, false
		}
		if c.verifyHash {
			sum, err := c.hashFile(path)
			if err != nil || sum != e.ContentHash {
				c.mu.Lock()
				c.reparsed++
				c.mu.Unlock()
				return nil, nil, false
			}
		}
		c.mu.Lock()
		c.reused++
		c.mu.Unlock()
		return e.Blocks, e.Diagnostics, true
	}
}

// Store records idx's scanned files and telemetry, then persists the
// artifact atomically.
func (c *IndexCache) Store(idx *model.ProjectIndex) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	entries := map[string]entry{}
	for _, fe := range idx.FilesScanned {
		e := entry{Size: fe.Size, ModTimeNs: fe.ModTimeNs, Blocks: fe.Blocks, Diagnostics: fe.Diagnostics}
		if c.verifyHash {
			if sum, err := c.hashFile(fe.Path); err == nil {
				e.ContentHash = sum
			}
		}
		entries[fe.Path] = e
	}
	c.art.Entries = entries

	c.art.Telemetry.TotalScans++
	if c.reparsed == 0 && len(idx.FilesScanned) > 0 {
		c.art.Telemetry.FullHitScans++
	}
	c.art.Telemetry.ReusedFilesTotal += c.reused
	c.art.Telemetry.ReparsedFilesTotal += c.reparsed
	mode := "incremental"
	if c.reused == 0 {
		mode = "full"
	}
	c.art.Telemetry.LastScan = LastScan{Reused: c.reused, Reparsed: c.reparsed, Mode: mode}

	return c.write()
}

func (c *IndexCache) hashFile(relPath string) (string, error) {
	raw, err := os.ReadFile(filepath.Join(c.root, relPath))
	if err != nil {
		return "", err
	}
	h, err := highwayhash.New64(highwayKey)
	if err != nil {
		return "", err
	}
	h.Write(raw)
	sum := h.Sum(nil)
	return hex.EncodeToString(sum), nil
}

func (c *IndexCache) read() (*artifact, bool) {
	raw, err := os.ReadFile(c.path)
	if err != nil {
		return nil, false
	}
	var art artifact
	if err := json.Unmarshal(raw, &art); err != nil {
		return nil, false
	}
	if art.SchemaVersion != indexSchemaVersion {
		return nil, false
	}
	return &art, true
}

func (c *IndexCache) write() error {
	if err := os.MkdirAll(filepath.Dir(c.path), 0o755); err != nil {
		return err
	}
	raw, err := json.MarshalIndent(c.art, "", "  ")
	if err != nil {
		return err
	}
	tmp := c.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, c.path)
}

func projectKey(root, configFingerprint string) string {
	h, err := highwayhash.New64(highwayKey)
	if err != nil {
		return root + "\x00" + configFingerprint
	}
	h.Write([]byte(root))
	h.Write([]byte{0})
	h.Write([]byte(configFingerprint))
	return hex.EncodeToString(h.Sum(nil))
}
