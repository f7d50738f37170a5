// Package stats maintains per-device I/O counters in shared memory.
/*
 * Copyright (c) 2024-2026, Virtblk Authors. All rights reserved.
 */
package stats

import "os"

// Path templates and the sector unit are configuration owned by the
// embedding daemon; the defaults reproduce its conventional layout:
//
//	/dev/shm/vdstats-<pid>/vdi-<minor>
//	/dev/shm/vdstats-<pid>/vbd-<domain>-<id>
const (
	DfltBaseDir    = "/dev/shm"
	DfltRootFmt    = "vdstats-%d" // pid
	DfltVdiFmt     = "vdi-%d"     // minor
	DfltVbdFmt     = "vbd-%d-%d"  // domain, id
	DfltSectorSize = 512
)

type Config struct {
	BaseDir    string `yaml:"base_dir"`
	RootFmt    string `yaml:"root_fmt"`
	VdiFmt     string `yaml:"vdi_fmt"`
	VbdFmt     string `yaml:"vbd_fmt"`
	SectorSize uint64 `yaml:"sector_size"`
	Pid        int    `yaml:"-"` // zero means the calling process
}

// SetDefaults fills in the conventional layout for every unset field; called
// by stats.New and by read-side consumers of the same Config (see reader).
func (c *Config) SetDefaults() {
	if c.BaseDir == "" {
		c.BaseDir = DfltBaseDir
	}
	if c.RootFmt == "" {
		c.RootFmt = DfltRootFmt
	}
	if c.VdiFmt == "" {
		c.VdiFmt = DfltVdiFmt
	}
	if c.VbdFmt == "" {
		c.VbdFmt = DfltVbdFmt
	}
	if c.SectorSize == 0 {
		c.SectorSize = DfltSectorSize
	}
	if c.Pid == 0 {
		c.Pid = os.Getpid()
	}
}
