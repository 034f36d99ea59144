// Package ringbuf implements a single-producer / single-consumer (SPSC)
// lock-free ring channel over a caller-supplied byte region.
//
// # Thread-safety
//
// Exactly one goroutine (or OS thread, or process, when the region is
// shared memory) may hold the Producer and call Send; exactly one may
// hold the Consumer and call Recv. The two endpoints may run on
// different threads, or in different processes mapping the same region,
// with no further synchronization: correctness rests entirely on the
// atomic cursor protocol documented on Producer.Send and Consumer.Recv.
//
// # Memory layout
//
// The region begins with a fixed-size header (capacity and the two
// cursors) immediately followed by the element array, at the first
// elemAlign-aligned offset past the header. Layout reports the exact
// byte size and alignment a caller must provision; Init validates a
// supplied region against it before constructing the endpoints.
//
// # Element constraint
//
// T must be bit-copyable: no destructor semantics, no pointers into
// memory that is not itself shared across however far the region
// travels. This is a documented precondition, not a constraint Go's type
// system can check; Copyable exists only to name it at call sites.
package ringbuf
