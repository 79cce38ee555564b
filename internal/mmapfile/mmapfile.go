// Package mmapfile memory-maps a read-only file for the lifetime of its
// owning mapper, following the teacher's pattern of scoping a backing
// resource (internal/box.Reader's file handle, internal/codestream's
// parser) to the struct that opened it: the mapping is released exactly
// once, by the owner, in Close.
package mmapfile

import (
	"os"

	"golang.org/x/sys/unix"
)

// File is a memory-mapped, read-only view of a file on disk. The
// returned byte slice is valid only between Open and Close; no overlaid
// typed view may outlive Close.
type File struct {
	f    *os.File
	data []byte
}

// Open maps path read-only and shared. An empty file maps to a File
// whose Bytes returns nil, matching an mmap of length 0 being
// unsupported on some platforms.
func Open(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}
	size := info.Size()
	if size == 0 {
		return &File{f: f}, nil
	}
	data, err := unix.Mmap(int(f.Fd()), 0, int(size), unix.PROT_READ, unix.MAP_SHARED)
	if err != nil {
		f.Close()
		return nil, err
	}
	return &File{f: f, data: data}, nil
}

// Bytes returns the mapped region.
func (m *File) Bytes() []byte {
	return m.data
}

// Close unmaps the region and closes the backing file descriptor.
func (m *File) Close() error {
	var err error
	if m.data != nil {
		err = unix.Munmap(m.data)
		m.data = nil
	}
	if cerr := m.f.Close(); err == nil {
		err = cerr
	}
	return err
}
