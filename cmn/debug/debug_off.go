//go:build !debug

// Package debug provides debug-build-only assertions
/*
 * Copyright (c) 2024-2026, Virtblk Authors. All rights reserved.
 */
package debug

func Assert(_ bool, _ ...any)            {}
func AssertMsg(_ bool, _ string)         {}
func Assertf(_ bool, _ string, _ ...any) {}
