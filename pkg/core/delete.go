package core

import "cmp"

// guard pins one node's mutex for the duration of a traversal step. A guard
// releases at most once, so the delete path cannot double-unlock a mutex even
// when two of its guards turn out to name the same node (the successor's
// parent can be the node being deleted itself). A nil guard is valid and
// releases nothing.
type guard[K cmp.Ordered, V any] struct {
	n    *node[K, V]
	held bool
}

func lockNode[K cmp.Ordered, V any](n *node[K, V]) *guard[K, V] {
	n.mu.Lock()
	return &guard[K, V]{n: n, held: true}
}

func (g *guard[K, V]) release() {
	if g == nil || !g.held {
		return
	}
	g.held = false
	g.n.mu.Unlock()
}

// Delete removes key from the tree and returns the value it held, or false
// if the key was absent. It runs under the exclusive tree lock.
//
// The search descends with hand-over-hand locking, keeping the match and its
// parent locked. A node with at most one child is spliced out directly. A
// node with two children instead has its key and value overwritten with those
// of its in-order successor, and the successor node, which has no left child,
// is spliced out of the right subtree.
func (t *Tree[K, V]) Delete(key K) (V, bool) {
	var zero V

	t.rw.Lock()
	defer t.rw.Unlock()

	if t.root == nil {
		return zero, false
	}

	cur := lockNode(t.root)
	var parent *guard[K, V]

	for {
		c := cmp.Compare(key, cur.n.key)
		if c == 0 {
			break
		}
		next := cur.n.left
		if c > 0 {
			next = cur.n.right
		}
		if next == nil {
			// Reached an empty slot: the key is not in the tree.
			cur.release()
			parent.release()
			return zero, false
		}
		child := lockNode(next)
		parent.release()
		parent = cur
		cur = child
	}

	old := cur.n.value

	if cur.n.left == nil || cur.n.right == nil {
		// At most one child: the child (or nothing) takes the deleted
		// node's place in the parent slot, or becomes the new root.
		child := cur.n.left
		if child == nil {
			child = cur.n.right
		}
		if parent == nil {
			t.root = child
		} else if parent.n.left == cur.n {
			parent.n.left = child
		} else {
			parent.n.right = child
		}
		cur.release()
		parent.release()
		t.size--
		return old, true
	}

	// Two children: locate the in-order successor, keeping it and its parent
	// locked alongside cur.
	succParent, succ := findMinLocked(cur)

	cur.n.key = succ.n.key
	cur.n.value = succ.n.value

	// Splice the successor out; it has no left child by construction.
	if succParent.n == cur.n {
		cur.n.right = succ.n.right
	} else {
		succParent.n.left = succ.n.right
	}

	succ.release()
	if succParent != cur {
		succParent.release()
	}
	cur.release()
	parent.release()
	t.size--
	return old, true
}

// findMinLocked descends to the smallest key in from's right subtree with
// lock coupling, keeping from itself locked the whole way. Both returned
// guards are still held on return; parent is from itself when the right
// child has no left descendant. from must be locked and have a right child.
func findMinLocked[K cmp.Ordered, V any](from *guard[K, V]) (parent, min *guard[K, V]) {
	parent = from
	cur := lockNode(from.n.right)
	for cur.n.left != nil {
		next := lockNode(cur.n.left)
		if parent != from {
			parent.release()
		}
		parent = cur
		cur = next
	}
	return parent, cur
}
