// Package stats maintains per-device I/O counters in shared memory.
/*
 * Copyright (c) 2024-2026, Virtblk Authors. All rights reserved.
 */
package stats

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
)

const testPid = 12345

func newTestMetrics(t *testing.T) *Metrics {
	t.Helper()
	m := New(Config{BaseDir: t.TempDir(), Pid: testPid}, nil)
	if err := m.Start(); err != nil {
		t.Fatalf("failed to start metrics root: %v", err)
	}
	t.Cleanup(m.Stop)
	return m
}

func TestRootStartStop(t *testing.T) {
	base := t.TempDir()
	m := New(Config{BaseDir: base, Pid: testPid}, nil)
	if m.Path() != "" {
		t.Fatal("expected empty path before start")
	}
	if err := m.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	want := filepath.Join(base, fmt.Sprintf(DfltRootFmt, testPid))
	if m.Path() != want {
		t.Fatalf("root path %q, want %q", m.Path(), want)
	}
	fi, err := os.Stat(want)
	if err != nil || !fi.IsDir() {
		t.Fatalf("root dir not created: %v", err)
	}
	if fi.Mode().Perm() != 0o700 {
		t.Fatalf("root dir mode %v, want 0700", fi.Mode().Perm())
	}

	m.Stop()
	if m.Path() != "" {
		t.Fatal("expected path cleared after stop")
	}
	if _, err := os.Stat(want); !os.IsNotExist(err) {
		t.Fatalf("root dir still present after stop: %v", err)
	}
	m.Stop() // second stop is a no-op
}

func TestRootReusesStaleDir(t *testing.T) {
	base := t.TempDir()
	root := filepath.Join(base, fmt.Sprintf(DfltRootFmt, testPid))

	// leftovers from a prior instance with the same pid
	if err := os.MkdirAll(filepath.Join(root, "sub", "deeper"), 0o700); err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"vdi-1", "vbd-0-1", "sub/junk", "sub/deeper/junk"} {
		if err := os.WriteFile(filepath.Join(root, name), []byte("stale"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	m := New(Config{BaseDir: base, Pid: testPid}, nil)
	if err := m.Start(); err != nil {
		t.Fatalf("start over stale dir: %v", err)
	}
	defer m.Stop()

	entries, err := os.ReadDir(root)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Fatalf("expected empty root after stale cleanup, found %d entries", len(entries))
	}
}

func TestRootStartFailure(t *testing.T) {
	m := New(Config{BaseDir: filepath.Join(t.TempDir(), "missing"), Pid: testPid}, nil)
	if err := m.Start(); err == nil {
		t.Fatal("expected start to fail under a nonexistent base dir")
	}
	if m.Path() != "" {
		t.Fatal("expected path to remain unset after failed start")
	}
	m.Stop() // no-op, must not panic
}

func TestStopNeverStarted(t *testing.T) {
	m := New(Config{BaseDir: t.TempDir()}, nil)
	m.Stop()
}
