// Package reader is the monitoring-agent side of the stats regions: it maps
// region files read-only and samples their CounterBlocks. Per the
// single-writer contract there is no synchronization with the data path -
// samples may be stale or, on platforms without aligned-word guarantees,
// torn, and callers must tolerate both.
/*
 * Copyright (c) 2024-2026, Virtblk Authors. All rights reserved.
 */
package reader

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/virtblk/vdstats/shm"
	"github.com/virtblk/vdstats/stats"
)

type (
	// Scanner locates and samples the regions published under one layout.
	// It shares stats.Config with the writing daemon, so a deployment that
	// overrides the path templates configures its readers with the same
	// values. Region matching uses the literal prefix of each template (the
	// part before the first verb), which therefore must stay distinct
	// between the vdi and vbd templates.
	Scanner struct {
		cfg      stats.Config
		rootGlob string
		vdiPre   string
		vbdPre   string
	}

	// Mapped is one region held open for repeated sampling.
	Mapped struct {
		reg *shm.Region
	}

	// Snapshot is a one-shot sample of a device's counters.
	Snapshot struct {
		Device   string // region file name, e.g. "vdi-<minor>" or "vbd-<domain>-<id>"
		Path     string
		Counters stats.CounterBlock
	}
)

func NewScanner(cfg stats.Config) *Scanner {
	cfg.SetDefaults()
	return &Scanner{
		cfg:      cfg,
		rootGlob: fmtPrefix(cfg.RootFmt) + "*",
		vdiPre:   fmtPrefix(cfg.VdiFmt),
		vbdPre:   fmtPrefix(cfg.VbdFmt),
	}
}

// fmtPrefix returns the literal part of a path template.
func fmtPrefix(f string) string {
	if i := strings.IndexByte(f, '%'); i >= 0 {
		return f[:i]
	}
	return f
}

// Open maps the region at path for sampling; release with Close.
func Open(path string) (*Mapped, error) {
	reg, err := shm.OpenReadOnly(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to map stats region %q", path)
	}
	if reg.Size < stats.BlockSize {
		_ = reg.Unmap()
		return nil, errors.Errorf("stats region %q truncated: %d bytes", path, reg.Size)
	}
	return &Mapped{reg: reg}, nil
}

func (m *Mapped) Path() string { return m.reg.Path }

// Counters copies the current counter values out of shared memory.
func (m *Mapped) Counters() stats.CounterBlock {
	return *stats.AsCounterBlock(m.reg.Mem)
}

func (m *Mapped) Close() error { return m.reg.Unmap() }

// Roots lists per-process metrics roots under the configured base dir.
func (s *Scanner) Roots() ([]string, error) {
	roots, err := filepath.Glob(filepath.Join(s.cfg.BaseDir, s.rootGlob))
	if err != nil {
		return nil, err
	}
	sort.Strings(roots)
	return roots, nil
}

// Scan samples every vdi/vbd region under one metrics root, concurrently.
// A root disappearing mid-scan (daemon exit) surfaces as an error from the
// first affected region; readers are expected to retry on the next cycle.
func (s *Scanner) Scan(ctx context.Context, root string) ([]Snapshot, error) {
	dents, err := os.ReadDir(root)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to list metrics root %q", root)
	}
	var (
		snaps   = make([]Snapshot, len(dents))
		g, gctx = errgroup.WithContext(ctx)
	)
	for i, dent := range dents {
		name := dent.Name()
		if dent.IsDir() || !s.isRegion(name) {
			continue
		}
		i, name := i, name
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			m, err := Open(filepath.Join(root, name))
			if err != nil {
				return err
			}
			snaps[i] = Snapshot{Device: name, Path: m.Path(), Counters: m.Counters()}
			return m.Close()
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	// compact the holes left by non-region entries
	out := snaps[:0]
	for i := range snaps {
		if snaps[i].Device != "" {
			out = append(out, snaps[i])
		}
	}
	return out, nil
}

func (s *Scanner) isRegion(name string) bool {
	return strings.HasPrefix(name, s.vdiPre) || strings.HasPrefix(name, s.vbdPre)
}
