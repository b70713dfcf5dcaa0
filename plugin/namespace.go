package plugin

import (
	"maps"
	"slices"
	"strings"
	"sync"
)

// Loader returns a module value. It runs once per discovery.
type Loader func() (any, error)

// Namespace is a compiled-in table of candidate modules keyed by module path.
type Namespace struct {
	name    string
	mu      sync.RWMutex
	modules map[string]Loader
}

// NewNamespace creates an empty namespace.
func NewNamespace(name string) *Namespace {
	return &Namespace{
		name:    name,
		modules: make(map[string]Loader),
	}
}

// Name returns the namespace name.
func (n *Namespace) Name() string {
	return n.name
}

// Add registers a candidate module. It panics if path is empty, load is nil,
// or path was already added, so mistakes surface at program start.
func (n *Namespace) Add(path string, load Loader) {
	path = strings.Trim(path, "/")
	if path == "" {
		panic("plugin: Add with empty module path")
	}
	if load == nil {
		panic("plugin: Add with nil loader for " + path)
	}

	n.mu.Lock()
	defer n.mu.Unlock()
	if _, dup := n.modules[path]; dup {
		panic("plugin: Add called twice for " + path)
	}
	n.modules[path] = load
}

// Paths returns the candidate module paths in sorted order.
func (n *Namespace) Paths() []string {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return slices.Sorted(maps.Keys(n.modules))
}

func (n *Namespace) loader(path string) (Loader, bool) {
	n.mu.RLock()
	defer n.mu.RUnlock()
	l, ok := n.modules[path]
	return l, ok
}

// PluginName derives the plugin name from a module path.
func PluginName(path string) string {
	path = strings.Trim(path, "/")
	i := strings.LastIndex(path, "/")
	if i < 0 {
		return path
	}
	return strings.ReplaceAll(path[:i], "/", ".")
}
