package formal

import (
	"fmt"
	"sync"
)

// Entity is anything owned by a Registry under a unique label.
// Entities are immutable after registration.
type Entity interface {
	Label() string
}

// Coded is implemented by entities that additionally carry an optional
// short code and/or external code. Each code namespace is unique
// registry-wide independently of labels.
type Coded interface {
	Entity
	ShortCode() string
	ExternalCode() string
}

// Registry enforces label uniqueness for a single formal system or
// session. It replaces the process-global namespace of earlier designs so
// that independent systems can coexist and tests can reset state by simply
// dropping the registry.
type Registry struct {
	mu        sync.RWMutex
	byLabel   map[string]Entity
	shortIdx  map[string]Entity
	externIdx map[string]Entity
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		byLabel:   make(map[string]Entity),
		shortIdx:  make(map[string]Entity),
		externIdx: make(map[string]Entity),
	}
}

// Register adds an entity to the registry. It fails with ErrDuplicateLabel
// if the label, short code, or external code is already taken.
func (r *Registry) Register(e Entity) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	label := e.Label()
	if label == "" {
		return fmt.Errorf("register: empty label: %w", ErrDuplicateLabel)
	}
	if _, exists := r.byLabel[label]; exists {
		return fmt.Errorf("register %q: %w", label, ErrDuplicateLabel)
	}

	var short, extern string
	if c, ok := e.(Coded); ok {
		short = c.ShortCode()
		extern = c.ExternalCode()
		if short != "" {
			if _, exists := r.shortIdx[short]; exists {
				return fmt.Errorf("register %q: short code %q: %w", label, short, ErrDuplicateLabel)
			}
		}
		if extern != "" {
			if _, exists := r.externIdx[extern]; exists {
				return fmt.Errorf("register %q: external code %q: %w", label, extern, ErrDuplicateLabel)
			}
		}
	}

	r.byLabel[label] = e
	if short != "" {
		r.shortIdx[short] = e
	}
	if extern != "" {
		r.externIdx[extern] = e
	}
	return nil
}

// Lookup returns the entity registered under label.
func (r *Registry) Lookup(label string) (Entity, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.byLabel[label]
	if !ok {
		return nil, fmt.Errorf("lookup %q: %w", label, ErrNotFound)
	}
	return e, nil
}

// LookupShortCode returns the entity registered under the given short code.
func (r *Registry) LookupShortCode(code string) (Entity, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.shortIdx[code]
	if !ok {
		return nil, fmt.Errorf("lookup short code %q: %w", code, ErrNotFound)
	}
	return e, nil
}

// Contains reports whether a label is taken.
func (r *Registry) Contains(label string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.byLabel[label]
	return ok
}

// Labels returns all registered labels. Useful for introspection and
// similarity search; no ordering is guaranteed.
func (r *Registry) Labels() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	labels := make([]string, 0, len(r.byLabel))
	for label := range r.byLabel {
		labels = append(labels, label)
	}
	return labels
}
