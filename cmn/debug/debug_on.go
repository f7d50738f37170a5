//go:build debug

// Package debug provides debug-build-only assertions
/*
 * Copyright (c) 2024-2026, Virtblk Authors. All rights reserved.
 */
package debug

import (
	"fmt"
	"strings"
)

func Assert(cond bool, a ...any) {
	if !cond {
		if len(a) > 0 {
			sb := &strings.Builder{}
			for _, x := range a {
				fmt.Fprintf(sb, "%v ", x)
			}
			panic("DEBUG PANIC: " + sb.String())
		}
		panic("DEBUG PANIC")
	}
}

func AssertMsg(cond bool, msg string) {
	if !cond {
		panic("DEBUG PANIC: " + msg)
	}
}

func Assertf(cond bool, f string, a ...any) {
	if !cond {
		AssertMsg(cond, fmt.Sprintf(f, a...))
	}
}
