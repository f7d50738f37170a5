// Package reader is the monitoring-agent side of the stats regions.
/*
 * Copyright (c) 2024-2026, Virtblk Authors. All rights reserved.
 */
package reader

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/virtblk/vdstats/stats"
)

// Collector exports sampled CounterBlocks as Prometheus const metrics, one
// series per device per counter, labeled {root, device}. Counters are read
// anew on every scrape; a daemon exiting mid-scrape just drops its series
// from that scrape.
type Collector struct {
	scanner *Scanner
	log     *zap.Logger
}

type promCounter struct {
	desc *prometheus.Desc
	get  func(*stats.CounterBlock) uint64
}

var promCounters = []promCounter{
	{newDesc("read_requests_submitted_total", "Read requests submitted to the I/O facility."),
		func(c *stats.CounterBlock) uint64 { return c.ReadReqsSubmitted }},
	{newDesc("write_requests_submitted_total", "Write requests submitted to the I/O facility."),
		func(c *stats.CounterBlock) uint64 { return c.WriteReqsSubmitted }},
	{newDesc("read_requests_merged_total", "Read requests coalesced before submission."),
		func(c *stats.CounterBlock) uint64 { return c.ReadReqsMerged }},
	{newDesc("write_requests_merged_total", "Write requests coalesced before submission."),
		func(c *stats.CounterBlock) uint64 { return c.WriteReqsMerged }},
	{newDesc("read_requests_completed_total", "Read completions."),
		func(c *stats.CounterBlock) uint64 { return c.ReadReqsCompleted }},
	{newDesc("write_requests_completed_total", "Write completions."),
		func(c *stats.CounterBlock) uint64 { return c.WriteReqsCompleted }},
	{newDesc("read_sectors_total", "Sectors read."),
		func(c *stats.CounterBlock) uint64 { return c.ReadSectors }},
	{newDesc("write_sectors_total", "Sectors written."),
		func(c *stats.CounterBlock) uint64 { return c.WriteSectors }},
	{newDesc("read_ticks_total", "Cumulative read completion latency, microseconds."),
		func(c *stats.CounterBlock) uint64 { return c.ReadTotalTicks }},
	{newDesc("write_ticks_total", "Cumulative write completion latency, microseconds."),
		func(c *stats.CounterBlock) uint64 { return c.WriteTotalTicks }},
}

func newDesc(name, help string) *prometheus.Desc {
	return prometheus.NewDesc("vdstats_"+name, help, []string{"root", "device"}, nil)
}

// interface guard
var _ prometheus.Collector = (*Collector)(nil)

func NewCollector(cfg stats.Config, log *zap.Logger) *Collector {
	if log == nil {
		log = zap.NewNop()
	}
	return &Collector{scanner: NewScanner(cfg), log: log}
}

func (*Collector) Describe(ch chan<- *prometheus.Desc) {
	for i := range promCounters {
		ch <- promCounters[i].desc
	}
}

func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	roots, err := c.scanner.Roots()
	if err != nil {
		c.log.Error("failed to glob metrics roots", zap.Error(err))
		return
	}
	for _, root := range roots {
		snaps, err := c.scanner.Scan(context.Background(), root)
		if err != nil {
			c.log.Warn("skipping metrics root", zap.String("root", root), zap.Error(err))
			continue
		}
		for i := range snaps {
			snap := &snaps[i]
			for j := range promCounters {
				pc := &promCounters[j]
				ch <- prometheus.MustNewConstMetric(pc.desc, prometheus.CounterValue,
					float64(pc.get(&snap.Counters)), root, snap.Device)
			}
		}
	}
}
