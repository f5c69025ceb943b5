// Package builtin is an in-process native backend with a small set of
// reference algorithms. It lets the boundary layer run end to end without a
// compiled signal-processing library.
package builtin

import (
	"errors"
	"sync"

	"github.com/roach88/sigbind/internal/native"
)

// Backend serves the reference algorithms between Init and Shutdown.
type Backend struct {
	mu          sync.Mutex
	initialized bool
	inits       int
	catalog     *native.Catalog
}

// New returns an uninitialized backend with every reference algorithm
// registered.
func New() *Backend {
	c := native.NewCatalog()
	register(c)
	return &Backend{catalog: c}
}

func register(c *native.Catalog) {
	c.Register(native.Info{Name: "Mean", Category: "Statistics",
		Description: "This algorithm computes the mean of an array."}, newMean)
	c.Register(native.Info{Name: "Energy", Category: "Statistics",
		Description: "This algorithm computes the energy of an array, the sum of its squared values."}, newEnergy)
	c.Register(native.Info{Name: "RMS", Category: "Statistics",
		Description: "This algorithm computes the root mean square of an array."}, newRMS)
	c.Register(native.Info{Name: "Scale", Category: "Standard",
		Description: "This algorithm scales the audio by the specified factor, optionally clipping it."}, newScale)
	c.Register(native.Info{Name: "StereoDemuxer", Category: "Standard",
		Description: "This algorithm splits a stereo signal into its left and right channels."}, newStereoDemuxer)
	c.Register(native.Info{Name: "FrameCutter", Category: "Standard",
		Description: "This algorithm slices a signal into frames of fixed size, zero-padding the last one."}, newFrameCutter)
	c.Register(native.Info{Name: "Magnitude", Category: "Standard",
		Description: "This algorithm computes the absolute value of each element of a complex array."}, newMagnitude)
	c.Register(native.Info{Name: "Summary", Category: "Statistics",
		Description: "This algorithm summarizes an array into a descriptor pool and keeps a history of means across calls."}, newSummary)
}

// Init starts the backend. Calling Init twice without Shutdown is an error.
func (b *Backend) Init() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.initialized {
		return errors.New("builtin: already initialized")
	}
	b.initialized = true
	b.inits++
	return nil
}

// Shutdown stops the backend.
func (b *Backend) Shutdown() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.initialized {
		return native.ErrNotInitialized
	}
	b.initialized = false
	return nil
}

// Initialized reports whether the backend is between Init and Shutdown.
func (b *Backend) Initialized() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.initialized
}

// Factory returns the backend's algorithm factory. It fails every call while
// the backend is not initialized.
func (b *Backend) Factory() native.Factory {
	return guardedFactory{b: b}
}

type guardedFactory struct{ b *Backend }

func (f guardedFactory) Keys() []string {
	if !f.b.Initialized() {
		return nil
	}
	return f.b.catalog.Keys()
}

func (f guardedFactory) Create(name string) (native.Algorithm, error) {
	if !f.b.Initialized() {
		return nil, native.ErrNotInitialized
	}
	return f.b.catalog.Create(name)
}

func (f guardedFactory) Info(name string) (native.Info, error) {
	if !f.b.Initialized() {
		return native.Info{}, native.ErrNotInitialized
	}
	return f.b.catalog.Info(name)
}
