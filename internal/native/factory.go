package native

import (
	"fmt"
	"slices"
	"sync"
)

// Info is the static catalog entry of an algorithm.
type Info struct {
	Name        string
	Category    string
	Description string
}

// Constructor builds a fresh algorithm instance.
type Constructor func() Algorithm

// Factory creates algorithms by name.
type Factory interface {
	// Keys returns every registered algorithm name in sorted order.
	Keys() []string
	Create(name string) (Algorithm, error)
	Info(name string) (Info, error)
}

// Backend is a native library instance with a process-wide lifecycle.
// Factory may only be used between Init and Shutdown.
type Backend interface {
	Init() error
	Shutdown() error
	Factory() Factory
}

type catalogEntry struct {
	info Info
	ctor Constructor
}

// Catalog is a Factory backed by an in-memory table.
type Catalog struct {
	mu      sync.RWMutex
	entries map[string]catalogEntry
}

// NewCatalog returns an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{entries: make(map[string]catalogEntry)}
}

// Register adds or replaces the constructor for info.Name.
func (c *Catalog) Register(info Info, ctor Constructor) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[info.Name] = catalogEntry{info: info, ctor: ctor}
}

func (c *Catalog) Keys() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	keys := make([]string, 0, len(c.entries))
	for k := range c.entries {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

func (c *Catalog) Create(name string) (Algorithm, error) {
	c.mu.RLock()
	e, ok := c.entries[name]
	c.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownAlgorithm, name)
	}
	return e.ctor(), nil
}

func (c *Catalog) Info(name string) (Info, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[name]
	if !ok {
		return Info{}, fmt.Errorf("%w: %q", ErrUnknownAlgorithm, name)
	}
	return e.info, nil
}
