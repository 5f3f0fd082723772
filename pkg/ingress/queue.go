package ingress

import "sync/atomic"

// Queue is a lock-free single-producer single-consumer byte ring.
// Push must only be called from one goroutine at a time, Pop from another.
type Queue struct {
	buf  []byte
	mask uint32
	head uint32 // next read, owned by the consumer
	tail uint32 // next write, owned by the producer
}

// NewQueue creates a Queue holding at least size bytes.
func NewQueue(size int) *Queue {
	n := uint32(1)
	for int(n) < size {
		n <<= 1
	}
	return &Queue{buf: make([]byte, n), mask: n - 1}
}

// Push appends b, false if the queue is full.
func (q *Queue) Push(b byte) bool {
	tail := atomic.LoadUint32(&q.tail)
	if tail-atomic.LoadUint32(&q.head) >= uint32(len(q.buf)) {
		return false
	}
	q.buf[tail&q.mask] = b
	atomic.StoreUint32(&q.tail, tail+1)
	return true
}

// Pop removes the oldest byte.
func (q *Queue) Pop() (byte, bool) {
	head := atomic.LoadUint32(&q.head)
	if head == atomic.LoadUint32(&q.tail) {
		return 0, false
	}
	b := q.buf[head&q.mask]
	atomic.StoreUint32(&q.head, head+1)
	return b, true
}

// Len returns the number of unread bytes.
func (q *Queue) Len() int {
	return int(atomic.LoadUint32(&q.tail) - atomic.LoadUint32(&q.head))
}

// Cap returns the capacity.
func (q *Queue) Cap() int { return len(q.buf) }
