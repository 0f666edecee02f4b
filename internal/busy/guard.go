// Package busy provides per-resource guards that make a second concurrent
// operation on the same resource fail fast instead of interleaving.
package busy

import (
	"errors"
	"fmt"
	"path/filepath"
	"sync"
)

// ErrBusy is returned when the resource already has an operation in flight.
var ErrBusy = errors.New("resource is busy")

// Guard tracks which resources are currently held.
type Guard struct {
	mu   sync.Mutex
	held map[string]struct{}
}

// NewGuard creates an empty guard.
func NewGuard() *Guard {
	return &Guard{held: make(map[string]struct{})}
}

// TryAcquire marks key as held. The returned release func must be called
// once the operation finishes; calling it more than once is harmless.
func (g *Guard) TryAcquire(key string) (func(), error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, ok := g.held[key]; ok {
		return nil, fmt.Errorf("%w: %s", ErrBusy, key)
	}
	g.held[key] = struct{}{}

	var once sync.Once
	return func() {
		once.Do(func() {
			g.mu.Lock()
			delete(g.held, key)
			g.mu.Unlock()
		})
	}, nil
}

// IsBusy reports whether key is currently held.
func (g *Guard) IsBusy(key string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	_, ok := g.held[key]
	return ok
}

var shared = NewGuard()

// Shared returns the process-wide guard. Components that touch the same
// files must use it so that separately constructed instances still
// exclude each other.
func Shared() *Guard {
	return shared
}

// PathKey returns the key for a filesystem path: absolute and cleaned,
// so that different spellings of one path collide.
func PathKey(p string) string {
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return filepath.Clean(p)
}
