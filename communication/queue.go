package communication

import (
	"context"
	"sync"
)

// Queue is an unbounded FIFO of lines for one producer and one consumer.
// Send never blocks, so neither side can stall the other.
type Queue struct {
	mu     sync.Mutex
	lines  []string
	closed bool
	ready  chan struct{} // Holds at most one pending wake-up
}

func NewQueue() *Queue {
	return &Queue{ready: make(chan struct{}, 1)}
}

func (q *Queue) Send(line string) error {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return ErrClosed
	}
	q.lines = append(q.lines, line)
	q.mu.Unlock()
	q.wake()
	return nil
}

// Close stops accepting lines. Lines already queued can still be received.
func (q *Queue) Close() {
	q.mu.Lock()
	q.closed = true
	q.mu.Unlock()
	q.wake()
}

func (q *Queue) TryRecv() (string, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.lines) > 0 {
		line := q.lines[0]
		q.lines[0] = ""
		q.lines = q.lines[1:]
		return line, nil
	}
	if q.closed {
		return "", ErrClosed
	}
	return "", ErrEmpty
}

func (q *Queue) Recv(ctx context.Context) (string, error) {
	for {
		line, err := q.TryRecv()
		if err != ErrEmpty {
			return line, err
		}
		select {
		case <-q.ready:
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
}

// Len is the number of queued lines.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.lines)
}

func (q *Queue) wake() {
	select {
	case q.ready <- struct{}{}:
	default:
	}
}
