package mmap

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// MmapFile represents a memory-mapped file region.
type MmapFile struct {
	Data     []byte   // The memory-mapped byte slice
	File     *os.File // The underlying opened file
	FileSize int      // Total size of the underlying file

	writable bool
}

// NewMmapFile maps an entire existing file read-only.
func NewMmapFile(filePath string) (*MmapFile, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open file %q: %w", filePath, err)
	}

	fi, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to get file info for %q: %w", filePath, err)
	}
	fileSize := int(fi.Size())

	if fileSize == 0 {
		f.Close()
		return nil, fmt.Errorf("file %q is empty, cannot mmap", filePath)
	}

	// MAP_SHARED keeps the mapping coherent with other readers of the same
	// file; with PROT_READ only, no writes can reach the file through it.
	data, err := unix.Mmap(int(f.Fd()), 0, fileSize, unix.PROT_READ, unix.MAP_SHARED)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to mmap file %q: %w", filePath, err)
	}

	return &MmapFile{
		Data:     data,
		File:     f,
		FileSize: fileSize,
	}, nil
}

// Create truncates (or creates) filePath at the given size and maps the
// whole file read-write. Updates through Data are carried through to the
// underlying file; call Sync, or Close, to make them durable.
func Create(filePath string, size int64) (*MmapFile, error) {
	if size <= 0 {
		return nil, fmt.Errorf("cannot create %q with non-positive size %d", filePath, size)
	}

	f, err := os.OpenFile(filePath, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to create file %q: %w", filePath, err)
	}

	if err := f.Truncate(size); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to truncate %q to %d bytes: %w", filePath, size, err)
	}

	data, err := unix.Mmap(int(f.Fd()), 0, int(size), unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to mmap file %q: %w", filePath, err)
	}

	return &MmapFile{
		Data:     data,
		File:     f,
		FileSize: int(size),
		writable: true,
	}, nil
}

// Writable reports whether the mapping was created with Create and may be
// written through.
func (mr *MmapFile) Writable() bool {
	return mr.writable
}

// Sync flushes modified pages of a writable mapping back to the file. It is
// a no-op for read-only mappings.
func (mr *MmapFile) Sync() error {
	if !mr.writable || mr.Data == nil {
		return nil
	}
	if err := unix.Msync(mr.Data, unix.MS_SYNC); err != nil {
		return fmt.Errorf("failed to msync: %w", err)
	}
	return nil
}

// Close unmaps the memory region and closes the underlying file, flushing
// writable mappings first.
func (mr *MmapFile) Close() error {
	var err error
	if mr.Data != nil {
		err = mr.Sync()

		if unmapErr := unix.Munmap(mr.Data); unmapErr != nil {
			if err != nil {
				return fmt.Errorf("failed to msync (%w) and munmap (%v)", err, unmapErr)
			}
			return fmt.Errorf("failed to munmap: %w", unmapErr)
		}
		mr.Data = nil // Clear the reference to the unmapped memory
	}

	if mr.File != nil {
		closeErr := mr.File.Close()
		if closeErr != nil {
			if err != nil { // If msync also failed, return a combined error
				return fmt.Errorf("failed to msync (%w) and close file (%v)", err, closeErr)
			}
			return fmt.Errorf("failed to close file: %w", closeErr)
		}
		mr.File = nil
	}
	return err
}
