// Package memlock provides a process-local advisory lock table keyed by
// string. It prevents duplicate settlement work inside one process; across
// processes the campaign's settled-flag compare-and-swap remains the
// authoritative guard.
package memlock

import "sync"

// Guard is a non-blocking, non-reentrant advisory lock service.
type Guard interface {
	// TryAcquire takes the lock for key. It returns false when the key is
	// already held, without blocking.
	TryAcquire(key string) bool
	// Release frees the lock for key. Releasing an unheld key is a no-op.
	Release(key string)
}

// Table is the in-memory Guard implementation.
type Table struct {
	mu   sync.Mutex
	held map[string]bool
}

// NewTable creates an empty lock table.
func NewTable() *Table {
	return &Table{held: make(map[string]bool)}
}

func (t *Table) TryAcquire(key string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.held[key] {
		return false
	}
	t.held[key] = true
	return true
}

func (t *Table) Release(key string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.held, key)
}
