// Package cos provides common low-level types and utilities for vdstats packages.
/*
 * Copyright (c) 2024-2026, Virtblk Authors. All rights reserved.
 */
package cos

import (
	"go.uber.org/zap"
)

const assertMsg = "assertion failed"

// NOTE: Not to be used in the datapath.
func Assert(cond bool) {
	if !cond {
		_ = zap.L().Sync()
		panic(assertMsg)
	}
}
