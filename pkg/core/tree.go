// Package core provides the fundamental data structure of ArborDB: a
// thread-safe, ordered, in-memory key-value store backed by an unbalanced
// binary search tree.
//
// Concurrency control is layered. A tree-level writer-preferring
// reader-writer lock serializes structural mutation (Insert, Delete, Clear)
// against everything else while letting lookups run in parallel. Below it,
// every node carries its own mutex: mutators descend hand-over-hand (the next
// node is locked before the current one is released), lookups lock one node
// at a time. The tree is deliberately unbalanced; adversarial key order can
// degenerate it into a list, which is accepted rather than rebalanced.
package core

import (
	"cmp"
	"sync"

	"github.com/arbordb/arbordb/pkg/rwlock"
)

// Outcome reports what an Insert did to the tree.
type Outcome int

const (
	// Inserted means the key was not present and a new node was created.
	Inserted Outcome = iota
	// Replaced means the key was present and its value was overwritten.
	Replaced
)

// String returns the outcome name as used in logs and metric labels.
func (o Outcome) String() string {
	switch o {
	case Inserted:
		return "inserted"
	case Replaced:
		return "replaced"
	default:
		return "unknown"
	}
}

// node is a single tree cell. A node owns its children exclusively (each
// subtree has exactly one parent, there are no back-references) and its mutex
// is created with the node and never replaced.
type node[K cmp.Ordered, V any] struct {
	mu    sync.Mutex
	key   K
	value V
	left  *node[K, V]
	right *node[K, V]
}

// Tree is a thread-safe ordered key-value store. Keys are unique; for every
// node, all keys in its left subtree compare less than the node's key and all
// keys in its right subtree compare greater.
//
// A Tree must be created with New; the zero value is not usable.
type Tree[K cmp.Ordered, V any] struct {
	rw   *rwlock.RWLock
	root *node[K, V]
	size int
}

// New creates an empty tree.
func New[K cmp.Ordered, V any]() *Tree[K, V] {
	return &Tree[K, V]{rw: rwlock.New()}
}

// Insert stores value under key, creating a new node for a new key or
// overwriting the value in place for an existing one. The whole operation
// runs under the exclusive tree lock; the descent locks nodes hand-over-hand
// so at most two node locks are held at any moment.
func (t *Tree[K, V]) Insert(key K, value V) Outcome {
	t.rw.Lock()
	defer t.rw.Unlock()

	if t.root == nil {
		t.root = &node[K, V]{key: key, value: value}
		t.size++
		return Inserted
	}

	cur := lockNode(t.root)
	var parent *guard[K, V]
	defer func() {
		cur.release()
		parent.release()
	}()

	for {
		c := cmp.Compare(key, cur.n.key)
		if c == 0 {
			cur.n.value = value
			return Replaced
		}

		link := &cur.n.left
		if c > 0 {
			link = &cur.n.right
		}
		if *link == nil {
			*link = &node[K, V]{key: key, value: value}
			t.size++
			return Inserted
		}

		// Move down: lock the child before releasing the grandparent.
		next := lockNode(*link)
		parent.release()
		parent = cur
		cur = next
	}
}

// Lookup returns the value stored under key and whether the key was present.
// It runs under the shared tree lock, so any number of lookups proceed in
// parallel while mutators are held out.
//
// The descent locks one node at a time with no overlap: structural change is
// already excluded by the shared lock for the whole call, so the node locks
// only order concurrent lookups inspecting the same node.
func (t *Tree[K, V]) Lookup(key K) (V, bool) {
	t.rw.RLock()
	defer t.rw.RUnlock()

	cur := t.root
	for cur != nil {
		cur.mu.Lock()
		c := cmp.Compare(key, cur.key)
		if c == 0 {
			value := cur.value
			cur.mu.Unlock()
			return value, true
		}
		next := cur.left
		if c > 0 {
			next = cur.right
		}
		cur.mu.Unlock()
		cur = next
	}

	var zero V
	return zero, false
}

// Len returns the number of keys currently stored.
func (t *Tree[K, V]) Len() int {
	t.rw.RLock()
	defer t.rw.RUnlock()
	return t.size
}

// IsEmpty reports whether the tree holds no keys.
func (t *Tree[K, V]) IsEmpty() bool {
	return t.Len() == 0
}
