package async

import (
	"context"
	"sync"
)

// Command is a unit of work bound to the group context.
type Command func(context.Context) error

// NewAtomicGroup returns a group whose context is canceled as soon as any
// command fails.
func NewAtomicGroup(parent context.Context) *AtomicGroup {
	ctx, cancel := context.WithCancel(parent)
	return &AtomicGroup{ctx: ctx, cancel: cancel}
}

// AtomicGroup fails as a unit: the first error cancels the shared context,
// and only that first error is reported.
type AtomicGroup struct {
	ctx    context.Context
	cancel func()
	wg     sync.WaitGroup

	mu  sync.Mutex
	err error
}

// Add spawns cmd in a goroutine and records its result.
func (g *AtomicGroup) Add(cmd Command) {
	g.wg.Add(1)
	go func() {
		defer g.wg.Done()
		err := cmd(g.ctx)
		if err == nil {
			return
		}
		g.mu.Lock()
		defer g.mu.Unlock()
		// do not overwrite the original error with context errors
		if g.err != nil {
			return
		}
		g.err = err
		g.cancel()
	}()
}

// Wait blocks until every command has returned, then releases the group
// context. Commands started after a failure observe a canceled context but
// are still waited for.
func (g *AtomicGroup) Wait() {
	g.wg.Wait()
	g.cancel()
}

// Error reports the first failure. Call it after Wait.
func (g *AtomicGroup) Error() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.err
}

// Stop cancels the group context without waiting for commands to return.
func (g *AtomicGroup) Stop() {
	g.cancel()
}
