package rules

import (
	"fmt"
	"sort"
)

// Registry holds the variants a process offers. It is built once at startup
// and handed to whatever constructs games; nothing registers into it as an
// import side effect.
type Registry struct {
	bundles map[string]Bundle
}

// NewRegistry returns a registry holding the given bundles
func NewRegistry(bundles ...Bundle) (*Registry, error) {
	r := &Registry{
		bundles: make(map[string]Bundle),
	}

	for _, b := range bundles {
		if b.ID == "" {
			return nil, fmt.Errorf("bundle is missing an ID")
		}

		if b.HoleCards <= 0 {
			return nil, fmt.Errorf("bundle %s deals no hole cards", b.ID)
		}

		if _, found := r.bundles[b.ID]; found {
			return nil, fmt.Errorf("bundle %s is registered twice", b.ID)
		}

		r.bundles[b.ID] = b
	}

	return r, nil
}

// Get returns the bundle for the given variant
func (r *Registry) Get(id string) (Bundle, bool) {
	b, found := r.bundles[id]
	return b, found
}

// IDs returns every registered variant, sorted
func (r *Registry) IDs() []string {
	ids := make([]string, 0, len(r.bundles))
	for id := range r.bundles {
		ids = append(ids, id)
	}

	sort.Strings(ids)
	return ids
}
