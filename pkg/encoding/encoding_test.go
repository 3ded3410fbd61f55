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

package encoding_test

import (
	"bytes"
	"encoding/binary"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/lassandro/botasm/pkg/encoding"
)

var _ = Describe("Literals", func() {
	DescribeTable("decodes",
		func(literal string, want uint16) {
			Expect(encoding.DecodeLiteral(literal)).To(Equal(want))
		},
		Entry("decimal", "42", uint16(42)),
		Entry("zero", "0", uint16(0)),
		Entry("largest decimal", "65535", uint16(0xFFFF)),
		Entry("hex", "0x2A", uint16(42)),
		Entry("upper hex", "0X2a", uint16(42)),
		Entry("largest hex", "0xFFFF", uint16(0xFFFF)),
	)

	DescribeTable("rejects",
		func(literal string) {
			_, err := encoding.DecodeLiteral(literal)
			Expect(err).To(HaveOccurred())
		},
		Entry("oversized decimal", "65536"),
		Entry("oversized hex", "0x10000"),
		Entry("bare prefix", "0x"),
		Entry("hex digits without prefix", "12ab"),
		Entry("empty", ""),
	)

	It("accepts hex without a leading zero", func() {
		Expect(encoding.DecodeHex("x1F")).To(Equal(uint16(0x1F)))
	})
})

var _ = Describe("SignExtend", func() {
	It("extends negative 12-bit offsets", func() {
		Expect(encoding.SignExtend(0xFFB, 12)).To(Equal(uint16(0xFFFB)))
	})

	It("leaves positive offsets alone", func() {
		Expect(encoding.SignExtend(0x7FF, 12)).To(Equal(uint16(0x7FF)))
	})
})

var _ = Describe("Images", func() {
	image := []uint16{0xE001, 0x0000, 0x0005}

	It("writes big endian words by default", func() {
		order, err := encoding.ParseByteOrder("")
		Expect(err).NotTo(HaveOccurred())

		var buf bytes.Buffer
		Expect(encoding.WriteImage(&buf, order, image)).To(Succeed())
		Expect(buf.Bytes()).To(Equal([]byte{0xE0, 0x01, 0x00, 0x00, 0x00, 0x05}))
	})

	It("writes little endian words", func() {
		order, err := encoding.ParseByteOrder("little")
		Expect(err).NotTo(HaveOccurred())
		Expect(order).To(Equal(binary.ByteOrder(binary.LittleEndian)))

		var buf bytes.Buffer
		Expect(encoding.WriteImage(&buf, order, image)).To(Succeed())
		Expect(buf.Bytes()).To(Equal([]byte{0x01, 0xE0, 0x00, 0x00, 0x05, 0x00}))
	})

	It("reads back what it wrote", func() {
		for _, name := range []string{"big", "le"} {
			order, err := encoding.ParseByteOrder(name)
			Expect(err).NotTo(HaveOccurred())

			var buf bytes.Buffer
			Expect(encoding.WriteImage(&buf, order, image)).To(Succeed())
			Expect(encoding.ReadImage(&buf, order, len(image))).To(Equal(image))
		}
	})

	It("fails on a short image", func() {
		_, err := encoding.ReadImage(
			bytes.NewReader([]byte{0x00}), binary.BigEndian, 2,
		)
		Expect(err).To(HaveOccurred())
	})

	It("rejects unknown byte orders", func() {
		_, err := encoding.ParseByteOrder("middle")
		Expect(err).To(MatchError(ContainSubstring("middle")))
	})
})
