// Package stats maintains per-device I/O counters in shared memory.
/*
 * Copyright (c) 2024-2026, Virtblk Authors. All rights reserved.
 */
package stats

import (
	"fmt"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/virtblk/vdstats/cmn/cos"
	"github.com/virtblk/vdstats/shm"
)

// HandleID names a live stats handle. Request contexts store the ID and the
// hooks resolve it through the owning Metrics table - the dispatcher never
// holds a pointer into this subsystem.
type HandleID uint64

// Handle pairs one shared region with its typed CounterBlock view. VDI and
// VBD handles differ only in the region naming scheme; the counter shape is
// identical. A handle exclusively owns its region from StartVDI/StartVBD
// until the matching stop.
type Handle struct {
	reg shm.Region
	cnt *CounterBlock
	id  HandleID
}

func (h *Handle) ID() HandleID { return h.id }

// Path returns the region's filesystem path, or "" once stopped.
func (h *Handle) Path() string { return h.reg.Path }

// Counters exposes the writer-side view. Monitoring agents never see this
// pointer - they map the region file read-only on their own (see reader).
func (h *Handle) Counters() *CounterBlock { return h.cnt }

// StartVDI creates and registers the stats handle for the VDI with the given
// minor number. The root must be started. The fresh mapping guarantees the
// CounterBlock starts zeroed. On error the handle is unusable - retry means
// another StartVDI from scratch.
func (m *Metrics) StartVDI(minor int) (*Handle, error) {
	cos.Assert(m.path != "")
	return m.startHandle(fmt.Sprintf(m.cfg.VdiFmt, minor))
}

// StartVBD is StartVDI for the VBD attached to isolation domain `domain` as
// device `id`.
func (m *Metrics) StartVBD(domain, id int) (*Handle, error) {
	cos.Assert(m.path != "")
	return m.startHandle(fmt.Sprintf(m.cfg.VbdFmt, domain, id))
}

func (m *Metrics) startHandle(name string) (*Handle, error) {
	h := &Handle{}
	h.reg.Init()
	h.reg.Path = filepath.Join(m.path, name)
	h.reg.Size = cos.PageSize
	if err := h.reg.Create(); err != nil {
		m.log.Error("failed to create stats region", zap.String("path", h.reg.Path), zap.Error(err))
		return nil, err
	}
	h.cnt = AsCounterBlock(h.reg.Mem)
	m.register(h)
	return h, nil
}

// StopVDI destroys the handle's region. Local state is cleared even when the
// underlying removal fails - the handle must not leak - and the destroy
// outcome is returned. Stopping twice violates the precondition. Callers own
// the ordering vs in-flight I/O: no completion may reach a stopped handle.
func (m *Metrics) StopVDI(h *Handle) error {
	return m.stopHandle(h)
}

// StopVBD: same contract as StopVDI.
func (m *Metrics) StopVBD(h *Handle) error {
	return m.stopHandle(h)
}

func (m *Metrics) stopHandle(h *Handle) error {
	cos.Assert(h.reg.Path != "")
	err := h.reg.Destroy()
	if err != nil {
		m.log.Error("failed to destroy stats region", zap.String("path", h.reg.Path), zap.Error(err))
	}
	delete(m.tbl, h.id)
	h.reg.Init()
	h.cnt = nil
	return err
}
