package manager

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"gopkg.in/yaml.v3"

	commonerrors "github.com/duynguyendang/formalmath/pkg/common/errors"
	"github.com/duynguyendang/formalmath/pkg/loader"
	"github.com/duynguyendang/formalmath/pkg/proof"
)

// SystemMetadata represents the system information exposed by the API.
type SystemMetadata struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

const (
	MaxOpenSystems = 10
	SystemListTTL  = 1 * time.Minute
)

// SystemManager manages the formal systems stored as YAML databases under
// a base directory. Loaded (and therefore fully proof-checked) systems
// are kept in an LRU cache; a loaded system is immutable, so cached
// entries never go stale while the process runs.
type SystemManager struct {
	baseDir       string
	systems       *lru.Cache[string, *proof.System]
	mu            sync.RWMutex
	stepLimit     int
	cachedList    []SystemMetadata
	lastListBuild time.Time
}

// NewSystemManager creates a new SystemManager. stepLimit bounds the
// proof steps of any verification run; zero means unbounded.
func NewSystemManager(baseDir string, stepLimit int) *SystemManager {
	cache, _ := lru.New[string, *proof.System](MaxOpenSystems)
	return &SystemManager{
		baseDir:   baseDir,
		systems:   cache,
		stepLimit: stepLimit,
	}
}

// GetSystem retrieves a system by ID, loading its database if necessary.
func (sm *SystemManager) GetSystem(systemID string) (*proof.System, error) {
	// Fast path: check if loaded in LRU
	// lru.Get updates recency
	if s, ok := sm.systems.Get(systemID); ok {
		return s, nil
	}

	sm.mu.Lock()
	defer sm.mu.Unlock()

	// Double-check under lock
	if s, ok := sm.systems.Get(systemID); ok {
		return s, nil
	}

	path := filepath.Join(sm.baseDir, systemID+".yaml")
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("system %s: %w", systemID, commonerrors.ErrNotFound)
	}

	var opts []proof.Option
	if sm.stepLimit > 0 {
		opts = append(opts, proof.WithStepLimit(sm.stepLimit))
	}
	s, err := loader.LoadFile(path, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load system %s: %w", systemID, err)
	}

	sm.systems.Add(systemID, s)
	return s, nil
}

// ListSystems returns the systems available under the base directory.
func (sm *SystemManager) ListSystems() ([]SystemMetadata, error) {
	sm.mu.RLock()
	if time.Since(sm.lastListBuild) < SystemListTTL && sm.cachedList != nil {
		// Return copy to be safe
		list := make([]SystemMetadata, len(sm.cachedList))
		copy(list, sm.cachedList)
		sm.mu.RUnlock()
		return list, nil
	}
	sm.mu.RUnlock()

	sm.mu.Lock()
	defer sm.mu.Unlock()

	// Double-check
	if time.Since(sm.lastListBuild) < SystemListTTL && sm.cachedList != nil {
		list := make([]SystemMetadata, len(sm.cachedList))
		copy(list, sm.cachedList)
		return list, nil
	}

	entries, err := os.ReadDir(sm.baseDir)
	if err != nil {
		return nil, err
	}

	var systems []SystemMetadata
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".yaml") {
			continue
		}
		id := strings.TrimSuffix(entry.Name(), ".yaml")
		meta := SystemMetadata{
			ID:   id,
			Name: id, // Default name is file name
		}

		// Read just the header fields without building the system.
		if data, err := os.ReadFile(filepath.Join(sm.baseDir, entry.Name())); err == nil {
			var header struct {
				Name        string `yaml:"name"`
				Description string `yaml:"description"`
			}
			if err := yaml.Unmarshal(data, &header); err == nil {
				if header.Name != "" {
					meta.Name = header.Name
				}
				meta.Description = header.Description
			}
		}
		systems = append(systems, meta)
	}

	sm.cachedList = systems
	sm.lastListBuild = time.Now()

	return systems, nil
}

// Purge drops all cached systems, forcing reloads on next access.
func (sm *SystemManager) Purge() {
	sm.systems.Purge()
}
