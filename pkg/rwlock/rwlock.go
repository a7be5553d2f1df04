// Package rwlock provides a writer-preferring reader-writer lock built from a
// mutex and two condition variables.
//
// Unlike sync.RWMutex, whose fairness policy is an implementation detail, the
// policy here is explicit: as soon as one writer is waiting, no new reader may
// start until every queued writer has drained. This prevents writer starvation
// under a continuous stream of readers; the trade-off is that a continuous
// stream of writers can starve readers indefinitely. Wakeup order among
// waiters of the same class is not FIFO.
package rwlock

import "sync"

// RWLock is a reader-writer lock that admits waiting writers before new
// readers. It must be created with New; the zero value is not usable.
//
// The lock is not reentrant and, as with sync.RWMutex, is not associated
// with a particular goroutine: one goroutine may acquire it and another
// release it.
type RWLock struct {
	mu        sync.Mutex
	readersOK *sync.Cond // signalled when readers may proceed
	writersOK *sync.Cond // signalled when one writer may proceed

	activeReaders  int
	activeWriters  int // 0 or 1
	waitingWriters int
}

// New creates an unlocked RWLock.
func New() *RWLock {
	l := &RWLock{}
	l.readersOK = sync.NewCond(&l.mu)
	l.writersOK = sync.NewCond(&l.mu)
	return l
}

// RLock acquires the lock for reading. It blocks while a writer is active or
// waiting, so a stream of readers cannot keep a queued writer out forever.
func (l *RWLock) RLock() {
	l.mu.Lock()
	for l.activeWriters > 0 || l.waitingWriters > 0 {
		l.readersOK.Wait()
	}
	l.activeReaders++
	l.mu.Unlock()
}

// RUnlock releases one read acquisition. The last reader out hands the lock
// to a waiting writer, if any. It panics if the lock is not held for reading.
func (l *RWLock) RUnlock() {
	l.mu.Lock()
	if l.activeReaders == 0 {
		l.mu.Unlock()
		panic("rwlock: RUnlock of unlocked RWLock")
	}
	l.activeReaders--
	if l.activeReaders == 0 {
		l.writersOK.Signal()
	}
	l.mu.Unlock()
}

// Lock acquires the lock for writing, blocking until all active readers and
// any active writer have released. Registering as a waiting writer first is
// what blocks the arrival of new readers.
func (l *RWLock) Lock() {
	l.mu.Lock()
	l.waitingWriters++
	for l.activeWriters > 0 || l.activeReaders > 0 {
		l.writersOK.Wait()
	}
	l.waitingWriters--
	l.activeWriters = 1
	l.mu.Unlock()
}

// Unlock releases the write acquisition. A waiting writer, if any, is served
// next; otherwise all waiting readers are admitted at once. It panics if the
// lock is not held for writing.
func (l *RWLock) Unlock() {
	l.mu.Lock()
	if l.activeWriters == 0 {
		l.mu.Unlock()
		panic("rwlock: Unlock of unlocked RWLock")
	}
	l.activeWriters = 0
	if l.waitingWriters > 0 {
		l.writersOK.Signal()
	} else {
		l.readersOK.Broadcast()
	}
	l.mu.Unlock()
}
