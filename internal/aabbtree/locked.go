package aabbtree

import (
	"sync"

	"github.com/lukaszgryglicki/aabbtree/internal/aabb"
)

// Locked guards a Tree with a RWMutex for callers that share one tree across
// goroutines. Queries take the read lock and may run in parallel.
type Locked[T comparable] struct {
	mu   sync.RWMutex
	tree *Tree[T]
}

// NewLocked returns a guarded empty tree.
func NewLocked[T comparable](margin float32, opts ...Option) *Locked[T] {
	return &Locked[T]{tree: New[T](margin, opts...)}
}

// Insert, Remove, Update and Clear take the write lock; the read-only
// methods below them share the read lock. Each behaves as its Tree method.
func (l *Locked[T]) Insert(id T, box aabb.AABB) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.tree.Insert(id, box)
}

func (l *Locked[T]) Remove(id T) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.tree.Remove(id)
}

func (l *Locked[T]) Update(id T, box aabb.AABB) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.tree.Update(id, box)
}

func (l *Locked[T]) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.tree.Clear()
}

func (l *Locked[T]) Get(id T) (aabb.AABB, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.tree.Get(id)
}

func (l *Locked[T]) Has(id T) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.tree.Has(id)
}

func (l *Locked[T]) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.tree.Len()
}

func (l *Locked[T]) Query(box aabb.AABB) []T {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.tree.Query(box)
}

// Do runs fn with exclusive access to the underlying tree.
func (l *Locked[T]) Do(fn func(t *Tree[T])) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fn(l.tree)
}
