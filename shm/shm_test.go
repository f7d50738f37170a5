// Package shm implements page-granular shared memory regions backed by
// plain files, for single-writer multi-reader counter publication.
/*
 * Copyright (c) 2024-2026, Virtblk Authors. All rights reserved.
 */
package shm_test

import (
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/virtblk/vdstats/cmn/cos"
	"github.com/virtblk/vdstats/shm"
)

var _ = Describe("Region", func() {
	var (
		dir    string
		region shm.Region
	)

	BeforeEach(func() {
		dir = GinkgoT().TempDir()
		region.Init()
		region.Path = filepath.Join(dir, "seg")
		region.Size = cos.PageSize
	})

	AfterEach(func() {
		if region.Mem != nil {
			_ = region.Destroy()
		}
	})

	It("should create a page-sized zeroed segment", func() {
		Expect(region.Create()).To(Succeed())
		Expect(region.Mem).To(HaveLen(int(cos.PageSize)))
		for _, b := range region.Mem {
			Expect(b).To(BeZero())
		}
		fi, err := os.Stat(region.Path)
		Expect(err).NotTo(HaveOccurred())
		Expect(fi.Size()).To(Equal(cos.PageSize))
	})

	It("should fail on duplicate create and leave the original intact", func() {
		Expect(region.Create()).To(Succeed())
		region.Mem[0] = 0x7f

		dup := shm.Region{Path: region.Path, Size: cos.PageSize}
		Expect(dup.Create()).To(HaveOccurred())
		Expect(dup.Mem).To(BeNil())
		Expect(region.Mem[0]).To(Equal(byte(0x7f)))
	})

	It("should propagate writes to a read-only mapping of the same segment", func() {
		Expect(region.Create()).To(Succeed())
		ro, err := shm.OpenReadOnly(region.Path)
		Expect(err).NotTo(HaveOccurred())
		defer ro.Unmap()

		region.Mem[8] = 0xa5
		Expect(ro.Mem[8]).To(Equal(byte(0xa5)))
	})

	It("should remove the backing file on destroy", func() {
		Expect(region.Create()).To(Succeed())
		Expect(region.Destroy()).To(Succeed())
		_, err := os.Stat(region.Path)
		Expect(os.IsNotExist(err)).To(BeTrue())
	})

	It("should fail to open a nonexistent segment read-only", func() {
		_, err := shm.OpenReadOnly(filepath.Join(dir, "nope"))
		Expect(err).To(HaveOccurred())
	})
})
