// The main package for the `vdstat` executable - a monitoring client for
// the per-process stats regions published by the data-path daemon. One-shot
// mode dumps every counter as JSON; serve mode exports them to Prometheus.
/*
 * Copyright (c) 2024-2026, Virtblk Authors. All rights reserved.
 */
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"

	jsoniter "github.com/json-iterator/go"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/virtblk/vdstats/reader"
	"github.com/virtblk/vdstats/stats"
)

// config mirrors the daemon's stats layout (base dir, path templates,
// sector size) so that a deployment overriding the defaults points vdstat
// at the same YAML.
type config struct {
	stats.Config `yaml:",inline"`
	Listen       string `yaml:"listen"`
}

// device augments a raw snapshot with byte volumes derived from the
// configured sector size.
type device struct {
	reader.Snapshot
	ReadBytes  uint64 `json:"read_bytes"`
	WriteBytes uint64 `json:"write_bytes"`
}

var (
	cfgPath string
	baseDir string
	listen  string
)

func main() {
	flag.StringVar(&cfgPath, "config", "", "optional YAML config (layout overrides and listen address)")
	flag.StringVar(&baseDir, "base", stats.DfltBaseDir, "directory holding per-process metrics roots")
	flag.StringVar(&listen, "listen", "", "serve Prometheus metrics on this address instead of dumping JSON")
	flag.Parse()

	cfg := config{Config: stats.Config{BaseDir: baseDir}, Listen: listen}
	if cfgPath != "" {
		if err := loadConfig(cfgPath, &cfg); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	}
	cfg.SetDefaults()

	logger := zap.Must(zap.NewProduction())
	defer logger.Sync()

	var err error
	if cfg.Listen != "" {
		err = serve(&cfg, logger)
	} else {
		err = dump(&cfg)
	}
	if err != nil {
		logger.Fatal("vdstat failed", zap.Error(err))
	}
}

func loadConfig(path string, cfg *config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

func dump(cfg *config) error {
	s := reader.NewScanner(cfg.Config)
	roots, err := s.Roots()
	if err != nil {
		return err
	}
	all := make(map[string][]device, len(roots))
	for _, root := range roots {
		snaps, err := s.Scan(context.Background(), root)
		if err != nil {
			return err
		}
		devs := make([]device, len(snaps))
		for i, snap := range snaps {
			devs[i] = device{
				Snapshot:   snap,
				ReadBytes:  snap.Counters.ReadSectors * cfg.SectorSize,
				WriteBytes: snap.Counters.WriteSectors * cfg.SectorSize,
			}
		}
		all[root] = devs
	}
	out, err := jsoniter.MarshalIndent(all, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}

func serve(cfg *config, logger *zap.Logger) error {
	reg := prometheus.NewRegistry()
	reg.MustRegister(reader.NewCollector(cfg.Config, logger))
	http.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	logger.Info("serving metrics", zap.String("addr", cfg.Listen), zap.String("base", cfg.BaseDir))
	return http.ListenAndServe(cfg.Listen, nil)
}
