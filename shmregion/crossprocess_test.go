//go:build unix

package shmregion

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"testing"

	"github.com/diwic/fdringbuf-go/ringbuf"
)

// S5 — two processes map the same region; one is producer, one is
// consumer; both run over a real mmap'd, file-backed shared region.
//
// This follows the standard Go "helper process" testing pattern (as used
// by net and os/exec's own test suites): the test binary re-execs itself
// with an environment variable set, and the child branches into helper
// logic instead of running the normal test suite.
const (
	envHelper   = "FDRINGBUF_HELPER_PROCESS"
	envRegion   = "FDRINGBUF_REGION_PATH"
	envCapacity = "FDRINGBUF_CAPACITY"
	envTotal    = "FDRINGBUF_TOTAL"
)

func TestMain(m *testing.M) {
	if os.Getenv(envHelper) == "consumer" {
		os.Exit(runHelperConsumer())
	}
	os.Exit(m.Run())
}

// runHelperConsumer attaches to an already-initialized region and prints
// "OK <n>", where n is the count of elements consumed, or "FAIL <reason>".
func runHelperConsumer() int {
	path := os.Getenv(envRegion)
	capacity, _ := strconv.ParseUint(os.Getenv(envCapacity), 10, 64)
	total, _ := strconv.ParseUint(os.Getenv(envTotal), 10, 64)

	regionTotal, _, err := ringbuf.Layout(capacity, 4, 4)
	if err != nil {
		fmt.Println("FAIL layout:", err)
		return 1
	}
	region, err := OpenFile(path, int(regionTotal))
	if err != nil {
		fmt.Println("FAIL open:", err)
		return 1
	}
	defer region.Close()

	_, c, err := ringbuf.Attach[int32](region.Bytes())
	if err != nil {
		fmt.Println("FAIL attach:", err)
		return 1
	}

	next := int32(0)
	for uint64(next) < total {
		n := c.Recv(func(a, b []int32) int {
			for _, v := range a {
				if v != next {
					fmt.Printf("FAIL mismatch at %d: got %d want %d\n", next, v, next)
					os.Exit(1)
				}
				next++
			}
			for _, v := range b {
				if v != next {
					fmt.Printf("FAIL mismatch at %d: got %d want %d\n", next, v, next)
					os.Exit(1)
				}
				next++
			}
			return len(a) + len(b)
		})
		if n == 0 {
			continue
		}
	}
	fmt.Println("OK", next)
	return 0
}

func TestCrossProcessBurst(t *testing.T) {
	if testing.Short() {
		t.Skip("cross-process test skipped in -short mode")
	}

	const capacity = 64
	const total = 200_000

	regionTotal, _, err := ringbuf.Layout(capacity, 4, 4)
	if err != nil {
		t.Fatalf("Layout: %v", err)
	}
	path := t.TempDir() + "/ring"

	region, err := OpenFile(path, int(regionTotal))
	if err != nil {
		t.Fatalf("OpenFile: %v", err)
	}
	defer region.Close()

	p, _, err := ringbuf.Init[int32](region.Bytes(), capacity)
	if err != nil {
		t.Fatalf("Init: %v", err)
	}

	cmd := exec.Command(os.Args[0], os.Args[1:]...)
	cmd.Env = append(os.Environ(),
		envHelper+"=consumer",
		envRegion+"="+path,
		envCapacity+"="+strconv.Itoa(capacity),
		envTotal+"="+strconv.Itoa(total),
	)
	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out
	if err := cmd.Start(); err != nil {
		t.Fatalf("start child: %v", err)
	}

	next := int32(0)
	for next < total {
		n := p.Send(func(a, b []int32) int {
			k := 0
			for k < len(a) && int(next) < total {
				a[k] = next
				next++
				k++
			}
			j := 0
			for j < len(b) && int(next) < total {
				b[j] = next
				next++
				j++
			}
			return k + j
		})
		if n == 0 {
			continue
		}
	}

	if err := cmd.Wait(); err != nil {
		t.Fatalf("child process: %v\noutput: %s", err, out.String())
	}
	want := fmt.Sprintf("OK %d\n", total)
	if out.String() != want {
		t.Fatalf("child output = %q, want %q", out.String(), want)
	}
}
