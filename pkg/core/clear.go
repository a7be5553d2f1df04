package core

import (
	"cmp"
	"fmt"
)

// Clear empties the tree, invoking onValue once per stored value in
// post-order. onValue may be nil. Cleanup is best-effort: errors returned by
// the callback, and panics raised by it, are discarded so that clearing
// always completes and the tree lock is always released. A caller that needs
// to observe failures should use ClearErrors or instrument the callback.
//
// No per-node locking happens here: the exclusive tree lock already excludes
// every other operation and the whole structure is being discarded.
func (t *Tree[K, V]) Clear(onValue func(V) error) {
	t.rw.Lock()
	defer t.rw.Unlock()

	postorder(t.root, onValue, nil)
	t.root = nil
	t.size = 0
}

// ClearErrors behaves exactly like Clear but returns the callback failures
// it encountered, with panics converted to errors. The tree is emptied
// regardless of how many callbacks fail.
func (t *Tree[K, V]) ClearErrors(onValue func(V) error) []error {
	t.rw.Lock()
	defer t.rw.Unlock()

	var errs []error
	postorder(t.root, onValue, &errs)
	t.root = nil
	t.size = 0
	return errs
}

func postorder[K cmp.Ordered, V any](n *node[K, V], onValue func(V) error, errs *[]error) {
	if n == nil {
		return
	}
	postorder(n.left, onValue, errs)
	postorder(n.right, onValue, errs)
	if onValue == nil {
		return
	}
	if err := runCleanup(onValue, n.value); err != nil && errs != nil {
		*errs = append(*errs, fmt.Errorf("cleanup of key %v: %w", n.key, err))
	}
}

// runCleanup shields the traversal from a misbehaving callback.
func runCleanup[V any](onValue func(V) error, value V) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("cleanup callback panicked: %v", r)
		}
	}()
	return onValue(value)
}
