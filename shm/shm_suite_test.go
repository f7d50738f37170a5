// Package shm implements page-granular shared memory regions backed by
// plain files, for single-writer multi-reader counter publication.
/*
 * Copyright (c) 2024-2026, Virtblk Authors. All rights reserved.
 */
package shm_test

import (
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestSHM(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, t.Name())
}
