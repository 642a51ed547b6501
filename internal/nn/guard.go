package nn

import (
	"fmt"
	"sync"

	"golang.org/x/sync/semaphore"
)

// Guard admits one backup operation at a time. A second caller fails fast
// instead of queueing.
type Guard struct {
	init sync.Once
	slot *semaphore.Weighted

	mu     sync.Mutex
	active string
}

func (g *Guard) sem() *semaphore.Weighted {
	g.init.Do(func() { g.slot = semaphore.NewWeighted(1) })
	return g.slot
}

// Acquire claims the slot for operation. The returned release func may be
// called more than once; only the first call frees the slot.
func (g *Guard) Acquire(operation string) (release func(), err error) {
	slot := g.sem()

	g.mu.Lock()
	defer g.mu.Unlock()
	if !slot.TryAcquire(1) {
		return nil, fmt.Errorf("%w: %s", ErrOperationInProgress, g.active)
	}
	g.active = operation

	var once sync.Once
	return func() {
		once.Do(func() {
			g.mu.Lock()
			g.active = ""
			slot.Release(1)
			g.mu.Unlock()
		})
	}, nil
}

// Active returns the operation holding the slot, or "" when idle.
func (g *Guard) Active() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.active
}
