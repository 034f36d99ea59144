//go:build linux

package ringwake

import (
	"encoding/binary"

	"golang.org/x/sys/unix"

	"github.com/diwic/fdringbuf-go/errcode"
)

// EventfdSignal is a Signal backed by a Linux eventfd(2) counting
// descriptor: the canonical kernel primitive for exactly the
// "write-to-arm, read-to-clear" edge semantics the wakeup layer needs,
// and directly pollable by epoll-based event loops via Fd.
type EventfdSignal struct {
	fd int
}

// NewEventfdSignal creates a fresh, non-semaphore eventfd starting clear.
func NewEventfdSignal() (*EventfdSignal, error) {
	fd, err := unix.Eventfd(0, unix.EFD_CLOEXEC)
	if err != nil {
		return nil, &errcode.E{C: errcode.ErrSignalIO, Op: "ringwake.NewEventfdSignal", Err: err}
	}
	return &EventfdSignal{fd: fd}, nil
}

// Fd returns the underlying descriptor, for registration with an external
// epoll/kqueue-style event loop. The wakeup layer never reads or writes
// it behind the caller's back except from Arm/Wait/Drain.
func (s *EventfdSignal) Fd() int { return s.fd }

// Arm adds 1 to the eventfd counter, which is what makes it readable.
// Writing again while already non-zero simply increases the counter
// further; readers only care that it is non-zero, so repeated arms
// before a drain are coalesced from the wakeup layer's point of view.
func (s *EventfdSignal) Arm() error {
	var buf [8]byte
	binary.NativeEndian.PutUint64(buf[:], 1)
	if _, err := unix.Write(s.fd, buf[:]); err != nil {
		return &errcode.E{C: errcode.ErrSignalIO, Op: "EventfdSignal.Arm", Err: err}
	}
	return nil
}

// Wait blocks until the descriptor is readable, without consuming the
// counter: it polls for readiness rather than reading.
func (s *EventfdSignal) Wait() error {
	fds := []unix.PollFd{{Fd: int32(s.fd), Events: unix.POLLIN}}
	for {
		n, err := unix.Poll(fds, -1)
		if err == unix.EINTR {
			continue
		}
		if err != nil {
			return &errcode.E{C: errcode.ErrSignalIO, Op: "EventfdSignal.Wait", Err: err}
		}
		if n > 0 {
			return nil
		}
	}
}

// Drain reads the 8-byte counter, resetting it to zero and clearing
// readiness. Must only be called once the caller has separately confirmed
// the buffer condition that justified the wake; calling it without ever
// having observed that condition can consume a wake nobody acted on.
func (s *EventfdSignal) Drain() error {
	var buf [8]byte
	if _, err := unix.Read(s.fd, buf[:]); err != nil {
		return &errcode.E{C: errcode.ErrSignalIO, Op: "EventfdSignal.Drain", Err: err}
	}
	return nil
}

// Close closes the underlying descriptor.
func (s *EventfdSignal) Close() error {
	if err := unix.Close(s.fd); err != nil {
		return &errcode.E{C: errcode.ErrSignalIO, Op: "EventfdSignal.Close", Err: err}
	}
	return nil
}
