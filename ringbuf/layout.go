package ringbuf

import (
	"sync/atomic"
	"unsafe"

	"github.com/diwic/fdringbuf-go/errcode"
)

const cacheLine = 64

// header is the fixed-size, shared prefix of a ring region: the immutable
// capacity followed by the two atomic cursors, each isolated to its own
// cache line so producer and consumer never bounce the same line.
//
// Both cursors are absolute, monotonically advancing counts (never
// moduloed in storage); slot index is always cursor % capacity. Go's
// atomic loads/stores are already at least as strong as the
// acquire/release this protocol requires (the Go memory model gives
// sequential consistency to atomic operations), so the "relaxed" loads
// documented on Producer.Send/Consumer.Recv are ordinary Load calls.
type header struct {
	capacity uint64
	_        [cacheLine - 8]byte

	writeCursor atomic.Uint64
	_           [cacheLine - 8]byte

	readCursor atomic.Uint64
	_          [cacheLine - 8]byte
}

func alignUp(n, align uintptr) uintptr {
	return (n + align - 1) &^ (align - 1)
}

func isPowerOfTwo(n uintptr) bool {
	return n != 0 && n&(n-1) == 0
}

// Layout reports the exact byte size and alignment a caller must provision
// for a region holding `capacity` elements of the given size and alignment.
//
// Fails on zero capacity, on an elemAlign that is not a power of two, or
// when capacity*elemSize would overflow uintptr.
func Layout(capacity uint64, elemSize, elemAlign uintptr) (total uintptr, align uintptr, err error) {
	if capacity == 0 {
		return 0, 0, errcode.ErrZeroCapacity
	}
	if elemAlign == 0 {
		elemAlign = 1
	}
	if !isPowerOfTwo(elemAlign) {
		return 0, 0, errcode.ErrBadAlignment
	}

	hdrSize := unsafe.Sizeof(header{})
	dataOffset := alignUp(hdrSize, elemAlign)

	if elemSize != 0 {
		maxCap := (^uintptr(0) - dataOffset) / elemSize
		if uintptr(capacity) > maxCap {
			return 0, 0, errcode.ErrOverflow
		}
	}

	total = dataOffset + uintptr(capacity)*elemSize
	align = cacheLine
	if elemAlign > align {
		align = elemAlign
	}
	return total, align, nil
}

// dataOffset returns the offset of the element array for the given
// element alignment; callers have already validated via Layout.
func dataOffset(elemAlign uintptr) uintptr {
	return alignUp(unsafe.Sizeof(header{}), elemAlign)
}
