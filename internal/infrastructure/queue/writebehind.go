package queue

import (
	"context"

	"github.com/rs/zerolog"
)

const channelBuffer = 256

type op struct {
	name string
	fn   func(ctx context.Context) error
}

// WriteBehind runs persistence writes in the background so no state mutation
// waits on durable storage. Ops are applied in enqueue order by a single
// worker; a failed write is logged and dropped, leaving the last successfully
// flushed value in the slot.
type WriteBehind struct {
	ops chan op
	log zerolog.Logger
}

func NewWriteBehind(log zerolog.Logger) *WriteBehind {
	return &WriteBehind{
		ops: make(chan op, channelBuffer),
		log: log,
	}
}

// Start launches the worker goroutine. The worker stops when ctx is cancelled.
func (w *WriteBehind) Start(ctx context.Context) {
	go w.run(ctx)
}

// Enqueue schedules a persistence op. Non-blocking up to channelBuffer
// capacity; when the buffer is full the op is dropped and logged, matching
// the fire-and-forget contract.
func (w *WriteBehind) Enqueue(name string, fn func(ctx context.Context) error) {
	select {
	case w.ops <- op{name: name, fn: fn}:
	default:
		w.log.Warn().Str("op", name).Msg("write queue full; persistence op dropped")
	}
}

func (w *WriteBehind) run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case o, ok := <-w.ops:
			if !ok {
				return
			}
			if err := o.fn(ctx); err != nil {
				w.log.Error().Err(err).Str("op", o.name).Msg("persistence write failed")
			}
		}
	}
}
