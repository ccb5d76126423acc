package cratograph

import (
	"fmt"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
)

// crateSetCacheSize bounds the per-provider classification cache. Crate set
// queries repeat once per unit and pass, so the cache stays tiny in practice.
const crateSetCacheSize = 16

// Provider answers crate set and tool table queries for the check units.
type Provider interface {
	// CrateSet returns the ordered crate names belonging to the
	// classification.
	CrateSet(classification Classification) ([]string, error)
	// Tool looks up one tool's identity by name.
	Tool(name string) (ToolInfo, error)
	// Tools returns every tool declared by the workspace, in manifest order.
	Tools() ([]ToolInfo, error)
}

// FileProvider reads crate sets from a workspace manifest on disk. The
// manifest is loaded lazily on first query and the per-classification results
// are cached.
type FileProvider struct {
	Path string

	loadOnce sync.Once
	loadErr  error
	manifest *Manifest
	cache    *lru.Cache[Classification, []string]
}

// NewFileProvider constructs a provider for the manifest at path.
func NewFileProvider(path string) (*FileProvider, error) {
	cache, err := lru.New[Classification, []string](crateSetCacheSize)
	if err != nil {
		return nil, err
	}
	return &FileProvider{Path: path, cache: cache}, nil
}

func (p *FileProvider) load() (*Manifest, error) {
	p.loadOnce.Do(func() {
		p.manifest, p.loadErr = LoadManifest(p.Path)
	})
	return p.manifest, p.loadErr
}

// CrateSet returns the ordered crate names for the classification.
func (p *FileProvider) CrateSet(classification Classification) ([]string, error) {
	if cached, ok := p.cache.Get(classification); ok {
		return cached, nil
	}

	manifest, err := p.load()
	if err != nil {
		return nil, err
	}
	crates, ok := manifest.CrateSets[classification]
	if !ok {
		return nil, fmt.Errorf("unknown crate classification %q", classification)
	}

	// Copy so callers cannot mutate the cached slice.
	ordered := append([]string(nil), crates...)
	p.cache.Add(classification, ordered)
	return ordered, nil
}

// Tool looks up one tool by name.
func (p *FileProvider) Tool(name string) (ToolInfo, error) {
	manifest, err := p.load()
	if err != nil {
		return ToolInfo{}, err
	}
	for _, tool := range manifest.Tools {
		if tool.Name == name {
			return tool, nil
		}
	}
	return ToolInfo{}, fmt.Errorf("unknown tool %q", name)
}

// Tools returns the declared tool table in manifest order.
func (p *FileProvider) Tools() ([]ToolInfo, error) {
	manifest, err := p.load()
	if err != nil {
		return nil, err
	}
	return append([]ToolInfo(nil), manifest.Tools...), nil
}
