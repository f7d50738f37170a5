// Package shm implements page-granular shared memory regions backed by
// plain files, for single-writer multi-reader counter publication.
/*
 * Copyright (c) 2024-2026, Virtblk Authors. All rights reserved.
 */
package shm

import (
	"golang.org/x/sys/unix"

	"github.com/virtblk/vdstats/cmn/cos"
	"github.com/virtblk/vdstats/cmn/debug"
)

// Region describes one shared memory segment. The segment is ephemeral
// application state: Destroy removes the backing file, there is nothing
// durable to recover.
//
// Writer-side lifecycle: Init, set Path and Size, Create, use Mem, Destroy.
// Reader-side lifecycle: OpenReadOnly, use Mem, Unmap.
type Region struct {
	Path string
	Size int64
	Mem  []byte // valid between a successful Create/OpenReadOnly and Destroy/Unmap
}

// Init zero-initializes an unbound region descriptor.
func (r *Region) Init() { *r = Region{} }

// Create creates the backing file, sizes it, and maps it shared read-write.
// Path and Size must be set. A leftover file at Path is a duplicate and an
// error; there is no reattach. On any failure no partial state survives.
func (r *Region) Create() error {
	debug.Assert(r.Path != "" && r.Size > 0)
	debug.Assertf(r.Size%cos.PageSize == 0, "region size %d not page-aligned", r.Size)

	fd, err := unix.Open(r.Path, unix.O_CREAT|unix.O_EXCL|unix.O_RDWR, uint32(cos.PermRWRR))
	if err != nil {
		return err
	}
	if err = unix.Ftruncate(fd, r.Size); err != nil {
		_ = unix.Close(fd)
		_ = unix.Unlink(r.Path)
		return err
	}
	mem, err := unix.Mmap(fd, 0, int(r.Size), unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	_ = unix.Close(fd) // the mapping keeps the segment alive
	if err != nil {
		_ = unix.Unlink(r.Path)
		return err
	}
	r.Mem = mem
	return nil
}

// Destroy unmaps the region and removes the backing file. The descriptor's
// Path is left intact - disposing of it is the caller's business.
func (r *Region) Destroy() error {
	debug.Assert(r.Path != "")
	err := r.Unmap()
	if errRm := unix.Unlink(r.Path); errRm != nil && err == nil {
		err = errRm
	}
	return err
}

// Unmap releases the mapping only; used directly by readers, which must
// never remove the writer's segment.
func (r *Region) Unmap() error {
	if r.Mem == nil {
		return nil
	}
	err := unix.Munmap(r.Mem)
	r.Mem = nil
	return err
}

// OpenReadOnly maps an existing segment for sampling. The returned region
// does not own the segment and must be released via Unmap, not Destroy.
func OpenReadOnly(path string) (*Region, error) {
	fd, err := unix.Open(path, unix.O_RDONLY, 0)
	if err != nil {
		return nil, err
	}
	var st unix.Stat_t
	if err = unix.Fstat(fd, &st); err != nil {
		_ = unix.Close(fd)
		return nil, err
	}
	mem, err := unix.Mmap(fd, 0, int(st.Size), unix.PROT_READ, unix.MAP_SHARED)
	_ = unix.Close(fd)
	if err != nil {
		return nil, err
	}
	return &Region{Path: path, Size: st.Size, Mem: mem}, nil
}
