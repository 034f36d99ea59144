// Package ringwake layers file-descriptor-style blocking and edge-triggered
// notification on top of package ringbuf, for integration with a
// readiness-based event loop.
//
// The wake protocol (the "check, arm-on-empty, recheck" pattern): the
// side that might put its peer to sleep arms the peer's Signal only on the
// transition that could have unblocked it (empty->non-empty for the
// producer, full->non-full for the consumer), and only after publishing
// with release ordering. The sleeping side checks the buffer condition,
// and only if unsatisfied waits on its own Signal; because arming always
// happens after the publish, any publish racing the check is guaranteed
// to leave the Signal already armed, so the wait returns immediately
// instead of missing the wake.
package ringwake

// Signal is an abstract edge-triggered wake descriptor: "armed" or
// "clear". It is deliberately narrow so the wakeup layer is portable
// across whatever notifier primitive a platform offers (a counting event
// descriptor, a one-byte pipe, or an in-process channel).
type Signal interface {
	// Arm sets the armed/readable edge. Idempotent: arming an
	// already-armed Signal is a no-op from the caller's perspective.
	Arm() error

	// Wait blocks the calling goroutine until the Signal is armed.
	// Whether it also clears the armed state depends on the
	// implementation: EventfdSignal's Wait leaves it armed until Drain,
	// ChanSignal's Wait clears it.
	Wait() error

	// Drain clears the armed state. Callers must only call Drain after
	// having observed the condition that justified the wake (readable()
	// > 0 for a consumer, writable() > 0 for a producer); calling it
	// after an interrupted or spurious Wait can drop a legitimate future
	// wake.
	Drain() error

	// Close releases any resources the Signal owns. It does not close a
	// descriptor the Signal did not itself create.
	Close() error
}

// ChanSignal is a portable, non-descriptor Signal backed by a
// buffered-size-1 channel: the edge-coalescing required of a counting
// event descriptor falls directly out of a channel with a buffer of one.
// Suitable for in-process callers and for tests that want to assert
// wake-count properties without a real file descriptor.
type ChanSignal struct {
	ch chan struct{}
}

// NewChanSignal returns a ready-to-use ChanSignal, initially clear.
func NewChanSignal() *ChanSignal {
	return &ChanSignal{ch: make(chan struct{}, 1)}
}

// Arm sets the edge. A concurrent Arm while already armed is coalesced by
// the channel's buffer of one, matching a counting descriptor's
// saturating-at-one-pending-wake behavior.
func (s *ChanSignal) Arm() error {
	select {
	case s.ch <- struct{}{}:
	default:
	}
	return nil
}

// Wait blocks until armed. Because a channel receive both observes and
// consumes the value, Wait on a ChanSignal clears the edge as a side
// effect; Drain is consequently a no-op for this implementation, which is
// safe precisely because only the waiting side ever receives from ch.
func (s *ChanSignal) Wait() error {
	<-s.ch
	return nil
}

// Drain is a no-op: Wait already cleared the edge. Present for interface
// symmetry with descriptor-backed Signals where wait (poll) and drain
// (read) are genuinely separate syscalls.
func (s *ChanSignal) Drain() error { return nil }

// Close releases no resources; ChanSignal owns no descriptor.
func (s *ChanSignal) Close() error { return nil }

// armed reports whether the Signal currently has a pending wake, without
// consuming it. Used only by tests to assert the "no spurious syscall"
// property.
func (s *ChanSignal) armed() bool {
	select {
	case v := <-s.ch:
		s.ch <- v
		return true
	default:
		return false
	}
}
