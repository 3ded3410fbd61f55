// Copyright (C) 2021  Antonio Lassandro

// This program is free software: you can redistribute it and/or modify it
// under the terms of the GNU General Public License as published by the Free
// Software Foundation, either version 3 of the License, or (at your option)
// any later version.

// This program is distributed in the hope that it will be useful, but WITHOUT
// ANY WARRANTY; without even the implied warranty of MERCHANTABILITY or
// FITNESS FOR A PARTICULAR PURPOSE.  See the GNU General Public License for
// more details.

// You should have received a copy of the GNU General Public License along
// with this program.  If not, see <http://www.gnu.org/licenses/>.

package config_test

import (
	"os"
	"path/filepath"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/lassandro/botasm/pkg/config"
)

var _ = Describe("Decode", func() {
	It("uses the defaults for an empty file", func() {
		cfg, err := config.Decode(strings.NewReader(""))
		Expect(err).NotTo(HaveOccurred())
		Expect(cfg).To(Equal(config.Default()))
	})

	It("overrides the defaults", func() {
		cfg, err := config.Decode(strings.NewReader(
			"byte_order: little\njobs: 4\nlisting: true\n",
		))
		Expect(err).NotTo(HaveOccurred())
		Expect(cfg.ByteOrder).To(Equal("little"))
		Expect(cfg.Jobs).To(Equal(4))
		Expect(cfg.Listing).To(BeTrue())
		Expect(cfg.OutExt).To(Equal(".bin"))
		Expect(cfg.Debug).To(BeFalse())
	})

	DescribeTable("rejects",
		func(input string) {
			_, err := config.Decode(strings.NewReader(input))
			Expect(err).To(HaveOccurred())
		},
		Entry("unknown keys", "output: a.bin\n"),
		Entry("extensions without a dot", "out_ext: bin\n"),
		Entry("unknown byte orders", "byte_order: middle\n"),
		Entry("zero jobs", "jobs: 0\n"),
		Entry("malformed yaml", "jobs: [\n"),
	)
})

var _ = Describe("Load", func() {
	var dir string

	BeforeEach(func() {
		var err error
		dir, err = os.MkdirTemp("", "botasm")
		Expect(err).NotTo(HaveOccurred())
		DeferCleanup(os.RemoveAll, dir)
	})

	It("falls back to the defaults when the file is missing", func() {
		cfg, err := config.Load(filepath.Join(dir, config.DefaultFile), false)
		Expect(err).NotTo(HaveOccurred())
		Expect(cfg).To(Equal(config.Default()))
	})

	It("fails when a required file is missing", func() {
		_, err := config.Load(filepath.Join(dir, "missing.yaml"), true)
		Expect(err).To(HaveOccurred())
	})

	It("reads the file", func() {
		path := filepath.Join(dir, config.DefaultFile)
		Expect(os.WriteFile(path, []byte("out_ext: .img\ndebug: true\n"), 0644)).To(Succeed())

		cfg, err := config.Load(path, true)
		Expect(err).NotTo(HaveOccurred())
		Expect(cfg.OutExt).To(Equal(".img"))
		Expect(cfg.Debug).To(BeTrue())
	})

	It("names the file in errors", func() {
		path := filepath.Join(dir, "bad.yaml")
		Expect(os.WriteFile(path, []byte("jobs: -1\n"), 0644)).To(Succeed())

		_, err := config.Load(path, false)
		Expect(err).To(MatchError(ContainSubstring("bad.yaml")))
	})
})
