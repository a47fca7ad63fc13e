package provider

import (
	"fmt"
	"slices"
	"sync"

	"github.com/pqinterop/crossverify/internal/layout"
	"github.com/pqinterop/crossverify/internal/rounderrors"
)

type key struct {
	family layout.Family
	format layout.Format
}

// Registry maps a family and format to a provider. It is safe for
// concurrent use.
type Registry struct {
	mu        sync.RWMutex
	providers map[key]Provider
}

// NewRegistry returns a registry holding ps. Later providers replace
// earlier ones registered for the same family and format.
func NewRegistry(ps ...Provider) *Registry {
	r := &Registry{providers: make(map[key]Provider)}
	for _, p := range ps {
		r.Register(p)
	}
	return r
}

// Register adds p, replacing any provider for the same family and format.
func (r *Registry) Register(p Provider) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.providers[key{p.Family(), p.Format()}] = p
}

// Lookup returns the provider for a family and format.
func (r *Registry) Lookup(f layout.Family, format layout.Format) (Provider, error) {
	r.mu.RLock()
	p, ok := r.providers[key{f, format}]
	r.mu.RUnlock()
	if !ok {
		return nil, &rounderrors.TranslationError{
			Family: string(f), From: string(format), To: string(format),
			Reason: "no provider registered",
		}
	}
	return p, nil
}

// Families returns the families that have both a subject and a reference
// provider, in layout order.
func (r *Registry) Families() []layout.Family {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []layout.Family
	for _, f := range layout.Families() {
		_, sub := r.providers[key{f, layout.Subject}]
		_, ref := r.providers[key{f, layout.Reference}]
		if sub && ref {
			out = append(out, f)
		}
	}
	return out
}

// Describe returns one "family/format: name" line per registered provider.
func (r *Registry) Describe() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.providers))
	for k, p := range r.providers {
		out = append(out, fmt.Sprintf("%s/%s: %s", k.family, k.format, p.Name()))
	}
	slices.Sort(out)
	return out
}
