// Package icons maps icon names to drawing procedures for node bodies.
//
// Registration must happen before any render that references the name.
// Lookups are safe from concurrent renders.
package icons

import (
	"sort"
	"sync"

	"github.com/matzehuels/archdraw/pkg/canvas"
	"github.com/matzehuels/archdraw/pkg/errors"
)

// DrawFunc draws an icon of the given size into a new subtree under parent,
// with its top-left corner at the parent's origin, and returns the subtree
// root.
type DrawFunc func(c *canvas.Canvas, parent canvas.Handle, size float64) canvas.Handle

// Registry is a name → DrawFunc table.
type Registry struct {
	mu    sync.RWMutex
	icons map[string]DrawFunc
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{icons: make(map[string]DrawFunc)}
}

// Register adds or replaces the drawing procedure for name.
func (r *Registry) Register(name string, fn DrawFunc) error {
	if name == "" {
		return errors.New(errors.ErrCodeInvalidInput, "icon name cannot be empty")
	}
	if fn == nil {
		return errors.New(errors.ErrCodeInvalidInput, "icon %q: nil draw function", name)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.icons[name] = fn
	return nil
}

// Get returns the drawing procedure registered for name.
func (r *Registry) Get(name string) (DrawFunc, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	fn, ok := r.icons[name]
	return fn, ok
}

// Names returns the registered names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.icons))
	for name := range r.icons {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of registered icons.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.icons)
}

// Default returns a new registry holding the built-in icons.
func Default() *Registry {
	r := NewRegistry()
	for name, fn := range builtins {
		_ = r.Register(name, fn)
	}
	return r
}
