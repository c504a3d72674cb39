package data

import (
	"encoding/hex"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/minio/highwayhash"
)

const dataCacheSchemaVersion = 1

// ScriptCache persists script-backed data source stdout at
// .mdt/cache/data-v1.json, keyed by (namespace, command, format,
// fingerprint(watch files)). An empty watch list disables
// caching for that source entirely (handled by the caller).
type ScriptCache struct {
	path string
	mu   sync.Mutex
}

type dataCacheFile struct {
	SchemaVersion int                      `json:"schema_version"`
	Entries       map[string]dataCacheItem `json:"entries"`
}

type dataCacheItem struct {
	Fingerprint string `json:"fingerprint"`
	Stdout      string `json:"stdout"`
}

func NewScriptCache(root string) *ScriptCache {
	return &ScriptCache{path: filepath.Join(root, ".mdt", "cache", "data-v1.json")}
}

func (c *ScriptCache) Lookup(namespace, command, format string, watch []string, root string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	file, ok := c.read()
	if !ok {
		return nil, false
	}
	item, ok := file.Entries[cacheKey(namespace, command, format)]
	if !ok {
		return nil, false
	}
	fp, err := fingerprintWatch(watch, root)
	if err != nil || fp != item.Fingerprint {
		return nil, false
	}
	return []byte(item.Stdout), true
}

func (c *ScriptCache) Store(namespace, command, format string, watch []string, root string, stdout []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()

	fp, err := fingerprintWatch(watch, root)
	if err != nil {
		return
	}
	file, ok := c.read()
	if !ok {
		file = &dataCacheFile{SchemaVersion: dataCacheSchemaVersion, Entries: map[string]dataCacheItem{}}
	}
	file.Entries[cacheKey(namespace, command, format)] = dataCacheItem{Fingerprint: fp, Stdout: string(stdout)}
	_ = c.write(file)
}

func cacheKey(namespace, command, format string) string {
	return namespace + "\x00" + command + "\x00" + format
}

func (c *ScriptCache) read() (*dataCacheFile, bool) {
	raw, err := os.ReadFile(c.path)
	if err != nil {
		return nil, false
	}
	var file dataCacheFile
	if err := json.Unmarshal(raw, &file); err != nil {
		return nil, false
	}
	if file.SchemaVersion != dataCacheSchemaVersion {
		return nil, false
	}
	return &file, true
}

func (c *ScriptCache) write(file *dataCacheFile) error {
	if err := os.MkdirAll(filepath.Dir(c.path), 0o755); err != nil {
		return err
	}
	raw, err := json.MarshalIndent(file, "", "  ")
	if err != nil {
		return err
	}
	tmp := c.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, c.path)
}

var highwayKey = []byte("0123456789ABCDEF0123456789ABCDEF")

func fingerprintWatch(watch []string, root string) (string, error) {
	h, err := highwayhash.New64(highwayKey)
	if err != nil {
		return "", err
	}
	for _, w := range watch {
		p := w
		if !filepath.IsAbs(p) {
			p = filepath.Join(root, p)
		}
		info, err := os.Stat(p)
		if err != nil {
			// A missing watch file fingerprints as absent; it simply never
			// matches a cached entry until it is created.
			h.Write([]byte(w + "\x00missing"))
			continue
		}
		h.Write([]byte(w))
		size := [8]byte{}
		mtime := info.ModTime().UnixNano()
		putInt64(size[:], info.Size())
		h.Write(size[:])
		var mt [8]byte
		putInt64(mt[:], mtime)
		h.Write(mt[:])
	}
	sum := h.Sum(nil)
	return hex.EncodeToString(sum), nil
}

func putInt64(b []byte, v int64) {
	for i := 0; i < 8; i++ {
		b[i] = byte(v >> (8 * i))
	}
}
