// Package stats maintains per-device I/O counters in shared memory.
/*
 * Copyright (c) 2024-2026, Virtblk Authors. All rights reserved.
 */
package stats

import (
	"time"

	"github.com/virtblk/vdstats/cmn/mono"
)

// Op is a request's declared operation kind.
type Op uint8

const (
	OpRead Op = iota
	OpWrite
)

// Request is the slice of the dispatcher's per-request context that this
// subsystem reads and writes: the operation kind and owning handle, set by
// the dispatcher at queueing time, and the submission tick, stamped here by
// OnSubmit. The dispatcher owns the allocation and guarantees the context
// outlives the in-flight request.
type Request struct {
	Tick   int64 // monotonic nanos at submission; written by OnSubmit
	Handle HandleID
	Op     Op
}

// Event is one entry of a completion batch.
type Event struct {
	Req    *Request
	Nbytes uint64 // transferred
}

// The three hooks below run inline on the dispatch thread at the
// corresponding pipeline stages. They never block, never allocate, and
// never fail: a request resolving to a dead handle is a dispatcher bug, not
// a runtime condition.

// OnSubmit stamps the whole batch with a single timestamp and counts each
// request as submitted, split by operation kind.
func (m *Metrics) OnSubmit(reqs []*Request) {
	now := mono.NanoTime()
	for _, req := range reqs {
		req.Tick = now
		cnt := m.lookup(req.Handle).cnt
		if req.Op == OpRead {
			cnt.ReadReqsSubmitted++
		} else {
			cnt.WriteReqsSubmitted++
		}
	}
}

// OnMerge counts a request coalesced into an already-queued one. Only the
// merged counter moves: the request was counted as submitted in its own
// submit batch, so touching submitted here would double count.
func (m *Metrics) OnMerge(req *Request) {
	cnt := m.lookup(req.Handle).cnt
	if req.Op == OpRead {
		cnt.ReadReqsMerged++
	} else {
		cnt.WriteReqsMerged++
	}
}

// OnComplete counts a completion batch against one timestamp: per event,
// the completed counter, the transferred volume in sectors (integer
// division), and the submit-to-complete latency in microsecond ticks. The
// full monotonic delta is used, so latencies spanning a whole-second
// boundary accumulate correctly.
func (m *Metrics) OnComplete(events []Event) {
	now := mono.NanoTime()
	for i := range events {
		req := events[i].Req
		cnt := m.lookup(req.Handle).cnt
		ticks := uint64((now - req.Tick) / int64(time.Microsecond))
		if req.Op == OpRead {
			cnt.ReadReqsCompleted++
			cnt.ReadSectors += events[i].Nbytes / m.cfg.SectorSize
			cnt.ReadTotalTicks += ticks
		} else {
			cnt.WriteReqsCompleted++
			cnt.WriteSectors += events[i].Nbytes / m.cfg.SectorSize
			cnt.WriteTotalTicks += ticks
		}
	}
}
