package command

import (
	"log/slog"
	"sync"

	"github.com/gogpu/glbridge/internal/logging"
)

// Queue is a sink for finished render commands. Implementations preserve
// submission order.
type Queue interface {
	Push(cmd Command) error
}

// Buffered collects commands in memory for later inspection or replay.
// Used by tests and by backends that consume a whole frame at once.
type Buffered struct {
	mu   sync.Mutex
	cmds []Command
}

// NewBuffered returns an empty buffered queue.
func NewBuffered() *Buffered { return &Buffered{} }

// Push appends the command. It never fails.
func (q *Buffered) Push(cmd Command) error {
	q.mu.Lock()
	q.cmds = append(q.cmds, cmd)
	q.mu.Unlock()
	return nil
}

// Commands returns a snapshot of the buffered commands in FIFO order.
func (q *Buffered) Commands() []Command {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := make([]Command, len(q.cmds))
	copy(out, q.cmds)
	return out
}

// Len returns the number of buffered commands.
func (q *Buffered) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.cmds)
}

// Reset discards all buffered commands.
func (q *Buffered) Reset() {
	q.mu.Lock()
	q.cmds = q.cmds[:0]
	q.mu.Unlock()
}

// DefaultAsyncCapacity is the channel depth of an Async queue created with
// capacity <= 0. Sized for several frames of typical command traffic.
const DefaultAsyncCapacity = 4096

// Async forwards commands over a channel to a consumer goroutine. Push
// never blocks the producer: when the consumer falls behind and the channel
// fills up, the command is dropped with a warning rather than stalling the
// instruction stream.
type Async struct {
	ch        chan Command
	closeOnce sync.Once
}

// NewAsync returns an async queue with the given channel capacity.
func NewAsync(capacity int) *Async {
	if capacity <= 0 {
		capacity = DefaultAsyncCapacity
	}
	return &Async{ch: make(chan Command, capacity)}
}

// Push enqueues the command for the consumer. Returns nil even when the
// command is dropped on overflow; a full queue is a performance problem,
// not a protocol error.
func (q *Async) Push(cmd Command) error {
	select {
	case q.ch <- cmd:
	default:
		logging.Logger().Warn("async command queue full, dropping command",
			slog.String("command", cmd.Type().String()))
	}
	return nil
}

// Commands returns the receive side for the consumer goroutine.
func (q *Async) Commands() <-chan Command { return q.ch }

// Close closes the channel, signalling the consumer that no further
// commands will arrive. Safe to call more than once.
func (q *Async) Close() {
	q.closeOnce.Do(func() { close(q.ch) })
}
