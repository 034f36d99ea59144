package ringwake

import "github.com/diwic/fdringbuf-go/ringbuf"

// Producer wraps a ringbuf.Producer with a pair of Signals: outgoing wakes
// the consumer, incoming is waited on when this side is blocked because
// the channel is full.
type Producer[T ringbuf.Copyable] struct {
	p        *ringbuf.Producer[T]
	outgoing Signal // consumerSignal
	incoming Signal // producerSignal
}

// NewProducer pairs an existing ringbuf.Producer with its two Signals.
// consumerSignal is armed by Send on an empty->non-empty transition;
// producerSignal is what Wait/WaitClear operate on when this side backs
// off because the channel was full.
func NewProducer[T ringbuf.Copyable](p *ringbuf.Producer[T], producerSignal, consumerSignal Signal) *Producer[T] {
	return &Producer[T]{p: p, outgoing: consumerSignal, incoming: producerSignal}
}

func (w *Producer[T]) Writable() uint64 { return w.p.Writable() }

// Send behaves exactly like ringbuf.Producer.Send, plus: if the channel
// was empty immediately before this call and it published at least one
// element, arm the consumer's Signal. No signal is issued when the
// consumer could not have been sleeping (the channel was already
// non-empty), which is what keeps the fast path syscall-free.
func (w *Producer[T]) Send(fn func(a, b []T) int) (int, error) {
	wasEmpty := w.p.Writable() == w.p.Capacity()
	n := w.p.Send(fn)
	if n > 0 && wasEmpty {
		if err := w.outgoing.Arm(); err != nil {
			return n, err
		}
	}
	return n, nil
}

// Wait blocks until producerSignal is armed, i.e. until the consumer has
// freed at least one slot since the last time this side observed the
// channel full. Callers must have already seen Send return 0 for lack of
// space before calling Wait.
func (w *Producer[T]) Wait() error { return w.incoming.Wait() }

// WaitClear drains producerSignal. Only call this after re-checking
// Writable() > 0; calling it after an interrupted Wait without having
// observed free space can drop a legitimate future wake.
func (w *Producer[T]) WaitClear() error { return w.incoming.Drain() }

// Consumer wraps a ringbuf.Consumer with a pair of Signals, symmetric to
// Producer.
type Consumer[T ringbuf.Copyable] struct {
	c        *ringbuf.Consumer[T]
	outgoing Signal // producerSignal
	incoming Signal // consumerSignal
}

// NewConsumer pairs an existing ringbuf.Consumer with its two Signals.
func NewConsumer[T ringbuf.Copyable](c *ringbuf.Consumer[T], producerSignal, consumerSignal Signal) *Consumer[T] {
	return &Consumer[T]{c: c, outgoing: producerSignal, incoming: consumerSignal}
}

func (w *Consumer[T]) Readable() uint64 { return w.c.Readable() }

// Recv behaves exactly like ringbuf.Consumer.Recv, plus: if the channel
// was full immediately before this call and it consumed at least one
// element, arm the producer's Signal.
func (w *Consumer[T]) Recv(fn func(a, b []T) int) (int, error) {
	wasFull := w.c.Readable() == w.c.Capacity()
	n := w.c.Recv(fn)
	if n > 0 && wasFull {
		if err := w.outgoing.Arm(); err != nil {
			return n, err
		}
	}
	return n, nil
}

// Wait blocks until consumerSignal is armed, i.e. until the producer has
// published at least one element since this side last observed the
// channel empty.
func (w *Consumer[T]) Wait() error { return w.incoming.Wait() }

// WaitClear drains consumerSignal. Only call this after re-checking
// Readable() > 0.
func (w *Consumer[T]) WaitClear() error { return w.incoming.Drain() }
