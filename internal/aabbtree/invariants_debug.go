//go:build debug

package aabbtree

import "log/slog"

// checkInvariants validates the whole tree after each structural change.
// It is O(n) and only compiled in with -tags debug.
func (t *Tree[T]) checkInvariants(op string) {
	if err := t.Validate(); err != nil {
		slog.Error("aabbtree: invariant broken", "op", op, "err", err)
	}
}
