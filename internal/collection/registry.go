package collection

import (
	"errors"
	"sort"
	"sync"

	"github.com/google/uuid"

	"tcr/internal/domain"
)

// ErrInvalidAssembly indicates a registry constructed without an assembly identity.
var ErrInvalidAssembly = errors.New("collection: empty assembly identity")

// Registry maps collection names to collections for one test suite.
// It is safe for concurrent use. Bindings are never removed or replaced.
type Registry struct {
	assemblyID string
	namespace  uuid.UUID
	resolver   *Resolver

	mu     sync.RWMutex
	byName map[string]*TestCollection
}

// NewRegistry creates an empty registry for the test suite identified by assemblyID.
func NewRegistry(assemblyID string, resolver *Resolver) (*Registry, error) {
	if assemblyID == "" {
		return nil, ErrInvalidAssembly
	}
	if resolver == nil {
		resolver = NewResolver(nil)
	}
	return &Registry{
		assemblyID: assemblyID,
		namespace:  assemblyNamespace(assemblyID),
		resolver:   resolver,
		byName:     make(map[string]*TestCollection),
	}, nil
}

// AssemblyID returns the identity the registry was created with.
func (r *Registry) AssemblyID() string { return r.assemblyID }

// Get returns the collection of class, creating it on first use of its name.
// All classes that resolve to the same name receive the same *TestCollection.
func (r *Registry) Get(class domain.TestClass) (*TestCollection, error) {
	name, err := r.resolver.Resolve(class)
	if err != nil {
		return nil, err
	}
	return r.bind(name), nil
}

// bind returns the collection bound to name, creating and binding it if absent.
func (r *Registry) bind(name string) *TestCollection {
	r.mu.RLock()
	c, ok := r.byName[name]
	r.mu.RUnlock()
	if ok {
		return c
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	// Another caller may have bound the name between the two locks.
	if c, ok := r.byName[name]; ok {
		return c
	}
	c = &TestCollection{
		displayName: name,
		id:          nameIdentity(r.namespace, name),
		assemblyID:  r.assemblyID,
	}
	r.byName[name] = c
	return c
}

// Lookup returns the collection already bound to name, if any.
func (r *Registry) Lookup(name string) (*TestCollection, bool) {
	r.mu.RLock()
	c, ok := r.byName[name]
	r.mu.RUnlock()
	return c, ok
}

// Len returns the number of collections created so far.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byName)
}

// Collections returns a snapshot of all collections ordered by display name.
func (r *Registry) Collections() []*TestCollection {
	r.mu.RLock()
	items := make([]*TestCollection, 0, len(r.byName))
	for _, c := range r.byName {
		items = append(items, c)
	}
	r.mu.RUnlock()

	sort.Slice(items, func(i, j int) bool {
		return items[i].displayName < items[j].displayName
	})
	return items
}
