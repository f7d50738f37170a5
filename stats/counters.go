// Package stats maintains per-device I/O counters in shared memory: one
// page-sized region per VDI or VBD, updated in place by the single dispatch
// thread and sampled by external monitoring agents without synchronization.
/*
 * Copyright (c) 2024-2026, Virtblk Authors. All rights reserved.
 */
package stats

import (
	"unsafe"

	"github.com/virtblk/vdstats/cmn/debug"
)

// CounterBlock is the fixed record stored at offset zero of every stats
// region. The field order is the wire format: readers in other processes
// interpret the mapped page as this exact layout, so it must never change
// across versions.
//
// All counters increase monotonically; wraparound on overflow is accepted
// and not guarded against. Updates are plain stores by a single writer -
// readers must tolerate stale and, on exotic platforms, torn values. Do not
// add locking or atomics here: keeping the hot path to bare increments is
// the performance contract.
type CounterBlock struct {
	ReadReqsSubmitted  uint64
	WriteReqsSubmitted uint64
	ReadReqsMerged     uint64
	WriteReqsMerged    uint64
	ReadReqsCompleted  uint64
	WriteReqsCompleted uint64
	ReadSectors        uint64
	WriteSectors       uint64
	ReadTotalTicks     uint64 // cumulative completion latency, microseconds
	WriteTotalTicks    uint64 // ditto, writes
}

const BlockSize = int64(unsafe.Sizeof(CounterBlock{}))

// AsCounterBlock reinterprets the head of a mapped region as a CounterBlock.
// The mapping must outlive every use of the returned pointer.
func AsCounterBlock(mem []byte) *CounterBlock {
	debug.Assert(int64(len(mem)) >= BlockSize)
	return (*CounterBlock)(unsafe.Pointer(&mem[0]))
}
