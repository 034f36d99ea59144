//go:build linux

// Command ringbuf-demo maps an anonymous shared region, builds a
// wakeup-enabled int32 ring channel over it, and runs a producer and a
// consumer goroutine that blocks on its Signal between bursts — the
// "generic readiness-based event loop" the wakeup layer is meant to
// integrate with, made concrete.
package main

import (
	"fmt"
	"os"

	"github.com/diwic/fdringbuf-go/ringbuf"
	"github.com/diwic/fdringbuf-go/shmregion"
)

const (
	capacity = 256
	count    = 2_000_000
)

func main() {
	total, _, err := ringbuf.Layout(capacity, 4, 4)
	if err != nil {
		fatal("layout", err)
	}
	region, err := shmregion.New(int(total))
	if err != nil {
		fatal("map region", err)
	}
	defer region.Close()

	if err := demoEventLoop(region.Bytes(), capacity, count); err != nil {
		fatal("run", err)
	}
	fmt.Printf("transferred %d elements through a %d-slot channel\n", count, capacity)
}

func fatal(op string, err error) {
	fmt.Fprintf(os.Stderr, "ringbuf-demo: %s: %v\n", op, err)
	os.Exit(1)
}
