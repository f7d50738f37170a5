// Package mono_test contains standard vs monotonic clock benchmark
/*
 * Copyright (c) 2024-2026, Virtblk Authors. All rights reserved.
 */
package mono_test

import (
	"testing"
	"time"

	"github.com/virtblk/vdstats/cmn/mono"
)

// go test -tags=mono -bench="Fast|Std"

func BenchmarkFast(b *testing.B) {
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			mono.Since(mono.NanoTime())
		}
	})
}

func BenchmarkStd(b *testing.B) {
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			mono.Since(time.Now().UnixNano())
		}
	})
}

func TestMonotonic(t *testing.T) {
	t0 := mono.NanoTime()
	time.Sleep(time.Millisecond)
	if elapsed := mono.SinceNano(t0); elapsed < int64(time.Millisecond) {
		t.Fatalf("expected at least 1ms to elapse, got %dns", elapsed)
	}
}
