//go:build linux

package main

import (
	"golang.org/x/sync/errgroup"
	"golang.org/x/sys/unix"

	"github.com/diwic/fdringbuf-go/ringbuf"
	"github.com/diwic/fdringbuf-go/ringwake"
)

// demoEventLoop drives the consumer side through a real epoll instance,
// registering the consumer's eventfd the way an external readiness-based
// event loop would: it blocks in epoll_wait while the descriptor isn't
// ready. A wake left undrained (because the consumer found data without
// waiting) keeps the descriptor ready, so while the channel is empty the
// loop then repeats epoll_wait without blocking until data arrives.
func demoEventLoop(region []byte, capacity uint64, n int) error {
	p, c, err := ringbuf.Init[int32](region, capacity)
	if err != nil {
		return err
	}

	producerSig, err := ringwake.NewEventfdSignal()
	if err != nil {
		return err
	}
	defer producerSig.Close()
	consumerSig, err := ringwake.NewEventfdSignal()
	if err != nil {
		return err
	}
	defer consumerSig.Close()

	wp := ringwake.NewProducer[int32](p, producerSig, consumerSig)
	wc := ringwake.NewConsumer[int32](c, producerSig, consumerSig)

	epfd, err := unix.EpollCreate1(unix.EPOLL_CLOEXEC)
	if err != nil {
		return err
	}
	defer unix.Close(epfd)
	ev := unix.EpollEvent{Events: unix.EPOLLIN, Fd: int32(consumerSig.Fd())}
	if err := unix.EpollCtl(epfd, unix.EPOLL_CTL_ADD, consumerSig.Fd(), &ev); err != nil {
		return err
	}

	var g errgroup.Group
	g.Go(func() error {
		next := int32(0)
		for int(next) < n {
			sent, err := wp.Send(func(a, b []int32) int {
				k := 0
				for k < len(a) && int(next) < n {
					a[k] = next
					next++
					k++
				}
				j := 0
				for j < len(b) && int(next) < n {
					b[j] = next
					next++
					j++
				}
				return k + j
			})
			if err != nil {
				return err
			}
			if sent == 0 {
				if err := wp.Wait(); err != nil {
					return err
				}
				if wp.Writable() > 0 {
					if err := wp.WaitClear(); err != nil {
						return err
					}
				}
			}
		}
		return nil
	})

	g.Go(func() error {
		events := make([]unix.EpollEvent, 1)
		next := int32(0)
		for int(next) < n {
			if wc.Readable() == 0 {
				if _, err := unix.EpollWait(epfd, events, -1); err != nil && err != unix.EINTR {
					return err
				}
				if wc.Readable() == 0 {
					continue
				}
				if err := wc.WaitClear(); err != nil {
					return err
				}
			}
			_, err := wc.Recv(func(a, b []int32) int {
				for range a {
					next++
				}
				for range b {
					next++
				}
				return len(a) + len(b)
			})
			if err != nil {
				return err
			}
		}
		return nil
	})

	return g.Wait()
}
