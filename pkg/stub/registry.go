package stub

import "errors"

// ErrNoID is returned when registering a stub the server did not assign an id to.
var ErrNoID = errors.New("stub has no id")

// DuplicateStubError is returned when a stub id is registered twice.
type DuplicateStubError struct {
	ID string
}

func (e *DuplicateStubError) Error() string {
	return "stub " + e.ID + " is already registered"
}

// Registry holds the stubs registered during the current scenario, keyed by
// the id the mock server assigned to them.
//
// A Registry is owned by one scenario and is not safe for concurrent use.
type Registry struct {
	stubs map[string]Stub
	order []string
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{stubs: make(map[string]Stub)}
}

// Register tracks a stub under its id.
func (r *Registry) Register(s Stub) error {
	id := s.ID()
	if id == "" {
		return ErrNoID
	}
	if _, exists := r.stubs[id]; exists {
		return &DuplicateStubError{ID: id}
	}
	if r.stubs == nil {
		r.stubs = make(map[string]Stub)
	}
	r.stubs[id] = s
	r.order = append(r.order, id)
	return nil
}

// Get returns the stub registered under id.
func (r *Registry) Get(id string) (Stub, bool) {
	s, ok := r.stubs[id]
	return s, ok
}

// Has reports whether id is registered.
func (r *Registry) Has(id string) bool {
	_, ok := r.stubs[id]
	return ok
}

// All returns every tracked stub in registration order.
func (r *Registry) All() []Stub {
	out := make([]Stub, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.stubs[id])
	}
	return out
}

// IDs returns the registered ids in registration order.
func (r *Registry) IDs() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// Len returns the number of registered stubs.
func (r *Registry) Len() int {
	return len(r.order)
}

// Clear empties the registry. Called at the start of every scenario.
func (r *Registry) Clear() {
	r.stubs = make(map[string]Stub)
	r.order = nil
}
