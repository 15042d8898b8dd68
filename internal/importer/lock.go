package importer

import "sync/atomic"

// ImportLock is a non-blocking mutual exclusion for imports
type ImportLock struct {
	state atomic.Int32 // 0 = free, 1 = import running
}

// TryAcquire takes the lock if no import holds it.
// Returns false without blocking otherwise.
func (l *ImportLock) TryAcquire() bool {
	return l.state.CompareAndSwap(0, 1)
}

// Release frees the lock.
// Must only be called by the holder that acquired it.
func (l *ImportLock) Release() {
	l.state.Store(0)
}

// Held reports whether an import currently holds the lock
func (l *ImportLock) Held() bool {
	return l.state.Load() == 1
}
