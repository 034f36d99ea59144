package ringbuf

// Producer is the single write-side endpoint of a ring channel. Only one
// goroutine may call its methods at a time; transferring it to another
// goroutine is safe only once the previous one is done with it.
type Producer[T Copyable] struct {
	ch *channel[T]
}

// Capacity returns the channel's fixed element capacity.
func (p *Producer[T]) Capacity() uint64 { return p.ch.capacity }

// Writable returns an approximate lower bound on what the next Send may
// accept: capacity minus the in-flight element count, as of the most
// recent acquire-load of the read cursor.
func (p *Producer[T]) Writable() uint64 {
	w := p.ch.hdr.writeCursor.Load()
	r := p.ch.hdr.readCursor.Load()
	return p.ch.capacity - (w - r)
}

// Send offers fn up to two contiguous, mutable slices covering the
// currently free region, and publishes the first n elements fn claims to
// have written.
//
// Ordering discipline (the critical contract):
//  1. Load w = writeCursor. Only the producer ever writes this cursor, so
//     this load needs no ordering stronger than the consumer ever
//     observes via its own acquire-load of writeCursor.
//  2. Load r = readCursor with acquire semantics, so that every slot the
//     consumer has released (via its own release-store of readCursor) is
//     visible before this call treats those slots as writable.
//  3. free = capacity - (w - r), an unsigned difference safe across
//     cursor wraparound.
//  4. Split the free region at the wrap into up to two slices and call fn.
//  5. fn returns n; n > free is a contract violation and panics, because
//     by the time fn returns it may already have stored into the data
//     array and there is no way to roll that back.
//  6. Store writeCursor = w + n with release semantics, making the n
//     element stores visible to the consumer's subsequent acquire-load.
//
// Returns n. A return of 0 while the buffer is full is not an error; it is
// the transient "not now" signal, and the caller is expected to wait
// (directly, or via the wakeup layer).
func (p *Producer[T]) Send(fn func(a, b []T) int) int {
	w := p.ch.hdr.writeCursor.Load()
	r := p.ch.hdr.readCursor.Load()
	free := p.ch.capacity - (w - r)

	a, b := p.ch.span(w, free)
	n := fn(a, b)
	if n < 0 || uint64(n) > free {
		panic("ringbuf: producer closure committed more elements than were offered")
	}
	if n == 0 {
		return 0
	}
	p.ch.hdr.writeCursor.Store(w + uint64(n))
	return n
}
