package graph

import (
	"io"
	"slices"
	"strings"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/shadergraph/pkg/errors"
)

type entry struct {
	typ     *NodeType
	factory Factory
}

// Registry maps node type names to factories.
//
// A registry is filled once at startup and then frozen. Registering a name
// twice replaces the earlier entry and logs a warning. A Registry is safe for
// concurrent use.
type Registry struct {
	Logger *log.Logger

	mu      sync.RWMutex
	entries map[string]entry
	frozen  bool
}

// NewRegistry returns an empty registry. A nil logger discards output.
func NewRegistry(logger *log.Logger) *Registry {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Registry{Logger: logger, entries: make(map[string]entry)}
}

// Register adds t under t.Name. It fails when the registry is frozen or the
// descriptor is malformed.
func (r *Registry) Register(t *NodeType, f Factory) error {
	if t == nil || f == nil {
		return errors.New(errors.ErrCodeInvalidInput, "register: nil descriptor or factory")
	}
	if err := errors.ValidateNodeTypeName(t.Name); err != nil {
		return err
	}
	for _, in := range t.Inputs {
		if in.Default.Kind() != in.Kind {
			return errors.New(errors.ErrCodeInvalidInput, "%s: input %q default is %s, want %s",
				t.Name, in.Name, in.Default.Kind(), in.Kind)
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.frozen {
		return errors.New(errors.ErrCodeUnsupported, "register %q: registry is frozen", t.Name)
	}
	if _, ok := r.entries[t.Name]; ok {
		r.Logger.Warn("node type registered twice, replacing", "type", t.Name)
	}
	r.entries[t.Name] = entry{typ: t, factory: f}
	return nil
}

// MustRegister is like Register but panics on error.
func (r *Registry) MustRegister(t *NodeType, f Factory) {
	if err := r.Register(t, f); err != nil {
		panic(err)
	}
}

// Freeze makes the registry read-only.
func (r *Registry) Freeze() {
	r.mu.Lock()
	r.frozen = true
	r.mu.Unlock()
}

// New creates a defaulted instance of the named node type.
func (r *Registry) New(name string) (Node, error) {
	r.mu.RLock()
	e, ok := r.entries[name]
	r.mu.RUnlock()
	if !ok {
		return nil, errors.New(errors.ErrCodeUnknownNodeType, "unknown node type %q", name)
	}
	return e.factory(), nil
}

// Lookup returns the descriptor registered under name.
func (r *Registry) Lookup(name string) (*NodeType, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entries[name]
	return e.typ, ok
}

// Types returns all descriptors ordered by category path, then name.
func (r *Registry) Types() []*NodeType {
	r.mu.RLock()
	out := make([]*NodeType, 0, len(r.entries))
	for _, e := range r.entries {
		out = append(out, e.typ)
	}
	r.mu.RUnlock()

	slices.SortFunc(out, func(a, b *NodeType) int {
		if c := strings.Compare(strings.Join(a.Category, "/"), strings.Join(b.Category, "/")); c != 0 {
			return c
		}
		return strings.Compare(a.Name, b.Name)
	})
	return out
}

// Len returns the number of registered types.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}
