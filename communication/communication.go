package communication

import (
	"context"
	"errors"
)

var (
	// ErrClosed is returned by a Source that will never yield another line,
	// and by a Sink that no longer accepts lines.
	ErrClosed = errors.New("line channel closed")
	// ErrEmpty is returned by TryRecv when no line is queued yet.
	ErrEmpty = errors.New("no line queued")
)

// Source is the inbound side of a line protocol.
type Source interface {
	// Recv blocks until a line arrives, the source is closed, or ctx is done.
	Recv(ctx context.Context) (string, error)
	// TryRecv never blocks; it returns ErrEmpty when nothing is queued.
	TryRecv() (string, error)
}

// Sink is the outbound side of a line protocol.
type Sink interface {
	Send(line string) error
}
