// Package cos provides common low-level types and utilities for vdstats packages.
/*
 * Copyright (c) 2024-2026, Virtblk Authors. All rights reserved.
 */
package cos

import (
	"os"
)

const (
	// POSIX perms: the metrics root is owner-only; region files under it
	// are world-readable - the reader contract does not authenticate, any
	// process able to reach a region may map and sample it.
	PermRWXU os.FileMode = 0o700
	PermRWRR os.FileMode = 0o644
)

// PageSize is the platform memory page size; one page is the fixed size of
// every stats region.
var PageSize = int64(os.Getpagesize())
