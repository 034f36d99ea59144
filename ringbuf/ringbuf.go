package ringbuf

import (
	"unsafe"

	"github.com/diwic/fdringbuf-go/errcode"
)

// Copyable names, without the Go type system being able to enforce it
// further, the precondition spec placed on element types: bit-copyable,
// destructor-free, no pointers into memory that isn't shared as widely as
// the region itself. Use a concrete scalar or an aggregate of scalars.
type Copyable interface {
	any
}

// channel is the shared state a Producer and Consumer both point at. It is
// never copied; Producer and Consumer hold a pointer to it.
type channel[T Copyable] struct {
	hdr      *header
	data     []T
	capacity uint64
}

// Init validates region against Layout for T and capacity, initializes the
// header in place, and returns the two endpoints. Exactly one Producer and
// one Consumer should be constructed per region; Init does not track or
// prevent a second call over the same region, since doing so would require
// state outside the region itself.
func Init[T Copyable](region []byte, capacity uint64) (*Producer[T], *Consumer[T], error) {
	var zero T
	elemSize := unsafe.Sizeof(zero)
	elemAlign := unsafe.Alignof(zero)

	total, align, err := Layout(capacity, elemSize, elemAlign)
	if err != nil {
		return nil, nil, err
	}
	if uintptr(len(region)) < total {
		return nil, nil, &errcode.E{C: errcode.ErrRegionTooSmall, Op: "ringbuf.Init"}
	}
	base := unsafe.Pointer(&region[0])
	if uintptr(base)%align != 0 {
		return nil, nil, &errcode.E{C: errcode.ErrRegionMisaligned, Op: "ringbuf.Init"}
	}

	hdr := (*header)(base)
	hdr.capacity = capacity
	hdr.writeCursor.Store(0)
	hdr.readCursor.Store(0)

	dataPtr := unsafe.Add(base, dataOffset(elemAlign))
	data := unsafe.Slice((*T)(dataPtr), capacity)

	ch := &channel[T]{hdr: hdr, data: data, capacity: capacity}
	return &Producer[T]{ch: ch}, &Consumer[T]{ch: ch}, nil
}

// Attach constructs endpoints over a region that was already initialized
// by a call to Init, possibly in another process mapping the same
// backing memory. Unlike Init, Attach never zeroes the cursors or writes
// capacity; it reads the already-stored capacity from the header and
// validates the region against Layout for it, so every mapper of a
// shared region agrees on the same offsets: the layout calculator is the
// single source of truth for where the data array begins.
func Attach[T Copyable](region []byte) (*Producer[T], *Consumer[T], error) {
	var zero T
	elemSize := unsafe.Sizeof(zero)
	elemAlign := unsafe.Alignof(zero)

	if uintptr(len(region)) < unsafe.Sizeof(header{}) {
		return nil, nil, &errcode.E{C: errcode.ErrRegionTooSmall, Op: "ringbuf.Attach"}
	}
	base := unsafe.Pointer(&region[0])
	hdr := (*header)(base)
	capacity := hdr.capacity

	total, align, err := Layout(capacity, elemSize, elemAlign)
	if err != nil {
		return nil, nil, err
	}
	if uintptr(len(region)) < total {
		return nil, nil, &errcode.E{C: errcode.ErrRegionTooSmall, Op: "ringbuf.Attach"}
	}
	if uintptr(base)%align != 0 {
		return nil, nil, &errcode.E{C: errcode.ErrRegionMisaligned, Op: "ringbuf.Attach"}
	}

	dataPtr := unsafe.Add(base, dataOffset(elemAlign))
	data := unsafe.Slice((*T)(dataPtr), capacity)

	ch := &channel[T]{hdr: hdr, data: data, capacity: capacity}
	return &Producer[T]{ch: ch}, &Consumer[T]{ch: ch}, nil
}

// span splits a run of `n` logical slots starting at absolute cursor
// `start` into up to two contiguous slices of data, honoring the wrap at
// capacity.
func (c *channel[T]) span(start, n uint64) (a, b []T) {
	if n == 0 {
		return nil, nil
	}
	slot := start % c.capacity
	first := c.capacity - slot
	if first > n {
		first = n
	}
	a = c.data[slot : slot+first]
	rem := n - first
	if rem > 0 {
		b = c.data[:rem]
	}
	return a, b
}
