// Package stats maintains per-device I/O counters in shared memory.
/*
 * Copyright (c) 2024-2026, Virtblk Authors. All rights reserved.
 */
package stats

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/karrick/godirwalk"
	"go.uber.org/zap"

	"github.com/virtblk/vdstats/cmn/cos"
	"github.com/virtblk/vdstats/cmn/debug"
)

// Metrics is the root of one telemetry instance: a per-pid directory that
// parents every device region, plus the table resolving in-flight requests
// to their handles. There is deliberately no process-wide singleton - the
// embedding daemon owns the instance and threads it through device attach
// and the dispatch loop.
//
// All methods, hooks included, are dispatch-thread-only; none of the state
// is guarded by locks.
type Metrics struct {
	cfg  Config
	log  *zap.Logger
	path string // root dir; non-empty iff started
	tbl  map[HandleID]*Handle
	next HandleID
}

func New(cfg Config, log *zap.Logger) *Metrics {
	if log == nil {
		log = zap.NewNop()
	}
	cfg.SetDefaults()
	return &Metrics{cfg: cfg, log: log, tbl: make(map[HandleID]*Handle, 8)}
}

// Path returns the root directory, or "" before Start/after Stop.
func (m *Metrics) Path() string { return m.path }

// Start creates the root directory keyed by pid. A pre-existing directory is
// stale state from a prior instance that reused the pid: it is emptied and
// reused rather than treated as an error.
func (m *Metrics) Start() error {
	root := filepath.Join(m.cfg.BaseDir, fmt.Sprintf(m.cfg.RootFmt, m.cfg.Pid))
	err := os.Mkdir(root, cos.PermRWXU)
	switch {
	case err == nil:
	case os.IsExist(err):
		if err = emptyDir(root); err != nil {
			m.log.Error("failed to clear stale metrics root", zap.String("root", root), zap.Error(err))
			return err
		}
		m.log.Info("reusing stale metrics root", zap.String("root", root))
	default:
		m.log.Error("failed to create metrics root", zap.String("root", root), zap.Error(err))
		return err
	}
	m.path = root
	return nil
}

// Stop removes the root directory. Best-effort: removal failures are logged
// and swallowed, but the root is always marked stopped so that further Stops
// are no-ops. Every handle must have been stopped by now.
func (m *Metrics) Stop() {
	if m.path == "" {
		return
	}
	debug.Assertf(len(m.tbl) == 0, "stopping metrics root with %d live handle(s)", len(m.tbl))
	if err := emptyDir(m.path); err != nil {
		m.log.Error("failed to empty metrics root", zap.String("root", m.path), zap.Error(err))
	} else if err := os.Remove(m.path); err != nil {
		m.log.Error("failed to remove metrics root", zap.String("root", m.path), zap.Error(err))
	}
	m.path = ""
}

// emptyDir recursively deletes everything under dir, leaving dir itself in
// place. The walk visits children before their parent, so subdirectories are
// already empty when removed. First error halts the walk and propagates;
// partial deletions are not rolled back.
func emptyDir(dir string) error {
	return godirwalk.Walk(dir, &godirwalk.Options{
		Unsorted: true,
		Callback: func(path string, de *godirwalk.Dirent) error {
			if path == dir || de.IsDir() {
				return nil // dirs are removed post-children
			}
			return os.Remove(path)
		},
		PostChildrenCallback: func(path string, _ *godirwalk.Dirent) error {
			if path == dir {
				return nil
			}
			return os.Remove(path)
		},
		ErrorCallback: func(_ string, _ error) godirwalk.ErrorAction {
			return godirwalk.Halt
		},
	})
}

// lookup resolves a request's handle ID; requests carry the plain ID, never
// a pointer into this subsystem (see Handle).
func (m *Metrics) lookup(id HandleID) *Handle {
	h := m.tbl[id]
	debug.Assertf(h != nil, "unknown stats handle %d", id)
	return h
}

func (m *Metrics) register(h *Handle) {
	m.next++
	h.id = m.next
	m.tbl[h.id] = h
}
