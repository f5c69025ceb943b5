// Package registry is the entry point of the boundary layer. It owns the
// process-wide native library lifecycle: Open initializes the backend, Close
// shuts it down, and every binding is created in between.
//
// Only one Registry may be open per process. Close refuses to shut the
// backend down while bindings it created are still open.
package registry

import (
	"errors"
	"log/slog"
	"slices"
	"sync"

	"github.com/patrickmn/go-cache"

	"github.com/roach88/sigbind/internal/algorithm"
	"github.com/roach88/sigbind/internal/native"
)

var (
	activeMu sync.Mutex
	active   *Registry
)

// Registry creates algorithm bindings against an initialized backend.
type Registry struct {
	mu       sync.Mutex
	backend  native.Backend
	logger   *slog.Logger
	cache    *cache.Cache
	bindings map[uint64]string
	nextID   uint64
	closed   bool
}

// Option configures a Registry.
type Option func(*Registry)

// WithLogger sets the logger used by the registry and its bindings.
func WithLogger(l *slog.Logger) Option {
	return func(r *Registry) {
		r.logger = l
	}
}

// WithCache sets the cache holding introspection snapshots. The default never
// expires entries and runs no janitor.
func WithCache(c *cache.Cache) Option {
	return func(r *Registry) {
		r.cache = c
	}
}

// Open initializes backend and returns the process-wide registry. Opening a
// second registry before the first is closed fails with ALREADY_INITIALIZED.
func Open(backend native.Backend, opts ...Option) (*Registry, error) {
	activeMu.Lock()
	defer activeMu.Unlock()

	if active != nil {
		return nil, &Error{Code: ErrCodeAlreadyInitialized, Message: "a registry is already open"}
	}

	r := &Registry{
		backend:  backend,
		logger:   slog.Default(),
		bindings: make(map[uint64]string),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.cache == nil {
		r.cache = cache.New(cache.NoExpiration, 0)
	}

	if err := backend.Init(); err != nil {
		return nil, &Error{Code: ErrCodeInitFailed, Message: "backend init failed", Err: err}
	}
	active = r
	r.logger.Debug("registry opened", "algorithms", len(backend.Factory().Keys()))
	return r, nil
}

// Current returns the open registry, or NOT_INITIALIZED when there is none.
func Current() (*Registry, error) {
	activeMu.Lock()
	defer activeMu.Unlock()
	if active == nil {
		return nil, &Error{Code: ErrCodeNotInitialized, Message: "no registry is open"}
	}
	return active, nil
}

// Close shuts the backend down. Every binding created by the registry must be
// closed first.
func (r *Registry) Close() error {
	activeMu.Lock()
	defer activeMu.Unlock()
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return &Error{Code: ErrCodeClosed, Message: "registry is closed"}
	}
	if n := len(r.bindings); n > 0 {
		r.logger.Warn("close refused", "open_bindings", n)
		return &Error{Code: ErrCodeBindingsOpen, Message: "bindings are still open"}
	}

	// A failed shutdown leaves the registry open so Close can be retried.
	if err := r.backend.Shutdown(); err != nil {
		return &Error{Code: ErrCodeShutdownFailed, Message: "backend shutdown failed", Err: err}
	}
	r.closed = true
	r.cache.Flush()
	if active == r {
		active = nil
	}
	r.logger.Debug("registry closed")
	return nil
}

// Names lists every algorithm the backend provides, sorted.
func (r *Registry) Names() ([]string, error) {
	f, err := r.factory()
	if err != nil {
		return nil, err
	}
	return slices.Sorted(slices.Values(f.Keys())), nil
}

// Has reports whether the backend provides name.
func (r *Registry) Has(name string) bool {
	names, err := r.Names()
	if err != nil {
		return false
	}
	_, found := slices.BinarySearch(names, name)
	return found
}

// Create instantiates name and wraps it in a binding. The binding counts as
// open until it is closed.
func (r *Registry) Create(name string) (*algorithm.Binding, error) {
	algo, f, err := r.instantiate(name)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	id := r.nextID
	r.nextID++
	r.bindings[id] = name
	r.mu.Unlock()

	r.logger.Debug("binding created", "algorithm", name, "id", id)
	return algorithm.New(algo, f,
		algorithm.WithLogger(r.logger),
		algorithm.OnClose(func() { r.release(id) }),
	), nil
}

// Describe returns the introspection snapshot of name. Snapshots are cached
// per registry; callers must not modify them.
func (r *Registry) Describe(name string) (*algorithm.Introspection, error) {
	if cached, ok := r.cache.Get(name); ok {
		return cached.(*algorithm.Introspection), nil
	}
	algo, f, err := r.instantiate(name)
	if err != nil {
		return nil, err
	}
	b := algorithm.New(algo, f, algorithm.WithLogger(r.logger))
	defer b.Close()

	in, err := b.Introspect()
	if err != nil {
		return nil, err
	}
	r.cache.Set(name, in, cache.DefaultExpiration)
	return in, nil
}

// OpenBindings returns the number of bindings not yet closed.
func (r *Registry) OpenBindings() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.bindings)
}

func (r *Registry) instantiate(name string) (native.Algorithm, native.Factory, error) {
	f, err := r.factory()
	if err != nil {
		return nil, nil, err
	}
	algo, err := f.Create(name)
	if errors.Is(err, native.ErrUnknownAlgorithm) {
		return nil, nil, &Error{Code: ErrCodeAlgorithmNotFound, Message: "unknown algorithm", Algorithm: name, Err: err}
	}
	if errors.Is(err, native.ErrNotInitialized) {
		return nil, nil, &Error{Code: ErrCodeNotInitialized, Message: "backend is not initialized", Algorithm: name, Err: err}
	}
	if err != nil {
		return nil, nil, err
	}
	return algo, f, nil
}

func (r *Registry) factory() (native.Factory, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return nil, &Error{Code: ErrCodeClosed, Message: "registry is closed"}
	}
	return r.backend.Factory(), nil
}

func (r *Registry) release(id uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.bindings, id)
}
