package model

// FileEntry is the incremental-cache key for one scanned file.
type FileEntry struct {
	Path       string
	Size       int64
	ModTimeNs  int64
	ContentHash *uint64 // not populated by the scanner; internal/cache keeps its own content digest

	Blocks      []Block
	Diagnostics []Diagnostic
}

// ProjectIndex is the unified result of one project scan: every provider,
// consumer, and inline block discovered, plus the data namespaces available
// for rendering.
type ProjectIndex struct {
	Root        string
	Providers   map[string]*Block
	// ProviderDuplicates records, for a provider name seen more than once,
	// every occurrence after the first (which wins ).
	ProviderDuplicates map[string][]Block
	Consumers   []Block
	Inlines     []Block
	Diagnostics []Diagnostic
	FilesScanned []FileEntry
	Data        *DataContext
	Templates   []string
}

func NewProjectIndex(root string) *ProjectIndex {
	return &ProjectIndex{
		Root:               root,
		Providers:          map[string]*Block{},
		ProviderDuplicates: map[string][]Block{},
		Data:               NewDataContext(),
	}
}

// AddProvider registers a provider block, honoring "first occurrence wins"
// and recording duplicates for diagnostics.
func (p *ProjectIndex) AddProvider(b Block) {
	if existing, ok := p.Providers[b.Name]; ok {
		p.ProviderDuplicates[b.Name] = append(p.ProviderDuplicates[b.Name], b)
		_ = existing
		return
	}
	blockCopy := b
	p.Providers[b.Name] = &blockCopy
}
