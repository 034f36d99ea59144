//go:build unix

// Package shmregion is a caller-side helper for provisioning the backing
// byte region package ringbuf needs. The core never allocates memory
// itself, keeping that an external concern; this package is one concrete
// way to satisfy it, for callers who want a real shared-memory mapping
// rather than a plain heap slice.
package shmregion

import (
	"os"

	"golang.org/x/sys/unix"

	"github.com/diwic/fdringbuf-go/errcode"
)

// Region is an mmap'd byte range, optionally backed by a file so it can
// be shared with another process by path instead of by fork/inheritance.
type Region struct {
	data []byte
	file *os.File // nil for an anonymous mapping
}

// New maps size bytes anonymously, MAP_SHARED so the mapping survives and
// stays coherent across a fork. Suitable for a parent/child pair or for
// goroutines within one process that want the same semantics a real
// shared-memory channel would have.
func New(size int) (*Region, error) {
	data, err := unix.Mmap(-1, 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED|unix.MAP_ANONYMOUS)
	if err != nil {
		return nil, &errcode.E{C: errcode.ErrSignalIO, Op: "shmregion.New", Err: err}
	}
	return &Region{data: data}, nil
}

// OpenFile truncates (or extends) the file at path to size and maps it
// MAP_SHARED, for the case where independently-launched processes locate
// the region by path rather than by inheriting a descriptor.
func OpenFile(path string, size int) (*Region, error) {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o600)
	if err != nil {
		return nil, &errcode.E{C: errcode.ErrSignalIO, Op: "shmregion.OpenFile", Err: err}
	}
	if err := f.Truncate(int64(size)); err != nil {
		f.Close()
		return nil, &errcode.E{C: errcode.ErrSignalIO, Op: "shmregion.OpenFile", Err: err}
	}
	data, err := unix.Mmap(int(f.Fd()), 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		f.Close()
		return nil, &errcode.E{C: errcode.ErrSignalIO, Op: "shmregion.OpenFile", Err: err}
	}
	return &Region{data: data, file: f}, nil
}

// Bytes returns the mapped region. The slice is valid until Close.
func (r *Region) Bytes() []byte { return r.data }

// Close unmaps the region and, for a file-backed Region, closes the file.
func (r *Region) Close() error {
	err := unix.Munmap(r.data)
	if r.file != nil {
		if cerr := r.file.Close(); err == nil {
			err = cerr
		}
	}
	if err != nil {
		return &errcode.E{C: errcode.ErrSignalIO, Op: "Region.Close", Err: err}
	}
	return nil
}
