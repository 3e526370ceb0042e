package memory

import "sync"

// BoundedLog is an append-only log that drops its oldest entries once it
// holds more than limit items. A limit of zero or less means unbounded.
type BoundedLog[T any] struct {
	mu    sync.RWMutex
	items []T
	limit int
}

// NewBoundedLog creates a log with the given limit
func NewBoundedLog[T any](limit int) *BoundedLog[T] {
	return &BoundedLog[T]{limit: limit}
}

// Push appends item, trimming from the front if the limit is exceeded
func (l *BoundedLog[T]) Push(item T) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.items = append(l.items, item)
	if l.limit > 0 && len(l.items) > l.limit {
		drop := len(l.items) - l.limit
		trimmed := make([]T, l.limit)
		copy(trimmed, l.items[drop:])
		l.items = trimmed
	}
}

// Items returns a copy of the log, oldest first
func (l *BoundedLog[T]) Items() []T {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]T, len(l.items))
	copy(out, l.items)
	return out
}

// Last returns the newest entry
func (l *BoundedLog[T]) Last() (T, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	var zero T
	if len(l.items) == 0 {
		return zero, false
	}
	return l.items[len(l.items)-1], true
}

// Len returns the number of retained entries
func (l *BoundedLog[T]) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.items)
}

// Replace swaps the content, keeping only the newest limit entries
func (l *BoundedLog[T]) Replace(items []T) {
	if l.limit > 0 && len(items) > l.limit {
		items = items[len(items)-l.limit:]
	}
	cp := make([]T, len(items))
	copy(cp, items)

	l.mu.Lock()
	defer l.mu.Unlock()
	l.items = cp
}

// Clear empties the log
func (l *BoundedLog[T]) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.items = nil
}
