//go:build !mono

// Package mono provides low-level monotonic time
/*
 * Copyright (c) 2024-2026, Virtblk Authors. All rights reserved.
 */
package mono

import "time"

func NanoTime() int64 { return time.Now().UnixNano() }
