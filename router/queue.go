package router

import (
	"sync"

	"github.com/hexaflex/chip8/event"
)

// queue is an unbounded FIFO of events. Producers never block.
// The signal channel holds at most one pending wakeup for the consumer.
type queue struct {
	mu     sync.Mutex
	items  []event.Event
	signal chan struct{}
	closed bool
}

func newQueue() *queue {
	return &queue{signal: make(chan struct{}, 1)}
}

// put appends e to the queue. Returns false if the queue is closed.
func (q *queue) put(e event.Event) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return false
	}

	q.items = append(q.items, e)

	select {
	case q.signal <- struct{}{}:
	default:
	}

	return true
}

// take removes and returns everything currently queued.
func (q *queue) take() []event.Event {
	q.mu.Lock()
	items := q.items
	q.items = nil
	q.mu.Unlock()
	return items
}

// close rejects any further puts and closes the signal channel.
// Items already queued remain available to take.
func (q *queue) close() {
	q.mu.Lock()
	defer q.mu.Unlock()

	if !q.closed {
		q.closed = true
		close(q.signal)
	}
}

// mailbox feeds a queue into a channel from its own goroutine, so the
// sender never waits on a slow receiver.
type mailbox struct {
	*queue
	out chan event.Event
}

func newMailbox() *mailbox {
	m := &mailbox{
		queue: newQueue(),
		out:   make(chan event.Event),
	}
	go m.run()
	return m
}

func (m *mailbox) run() {
	defer close(m.out)

	for range m.signal {
		for _, e := range m.take() {
			m.out <- e
		}
	}

	for _, e := range m.take() {
		m.out <- e
	}
}
