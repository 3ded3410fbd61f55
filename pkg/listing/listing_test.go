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

package listing_test

import (
	"bytes"
	"context"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/lassandro/botasm/pkg/assembler"
	"github.com/lassandro/botasm/pkg/listing"
)

var _ = Describe("Fields", func() {
	It("decodes an opcode word", func() {
		fields := listing.DecodeFields(0xF401)

		Expect(fields).To(Equal(listing.Fields{
			Opcode: assembler.OP_MOV,
			Mode1:  assembler.MODE_INDEXED,
			Mode2:  assembler.MODE_INDEXED,
			Carry2: true,
		}))
		Expect(fields.String()).To(Equal("MOV m33 c2"))
	})

	It("decodes signed offsets", func() {
		Expect(listing.Offset(0x2FFB, true)).To(Equal(int16(-5)))
		Expect(listing.Offset(0x2005, false)).To(Equal(int16(5)))
	})
})

var _ = Describe("Write", func() {
	const source = "start:\n" +
		"MOV r0, [r1 - 2]\n" +
		"{7}\n" +
		"end:\n"

	var output string

	BeforeEach(func() {
		stream, errs := assembler.ParseBotSource(strings.NewReader(source))
		Expect(errs).To(BeEmpty())

		image, _, err := assembler.Assemble(context.Background(), stream, assembler.Options{})
		Expect(err).NotTo(HaveOccurred())

		var buf bytes.Buffer
		Expect(listing.Write(&buf, image, stream, []byte(source))).To(Succeed())

		output = buf.String()
	})

	It("lists instructions with their labels", func() {
		row := lineContaining(output, "MOV r0")
		Expect(row).To(ContainSubstring("0000"))
		Expect(row).To(ContainSubstring("start"))
		Expect(row).To(ContainSubstring("f401 0000 1ffe"))
		Expect(row).To(ContainSubstring("MOV m33 c2 o2=-2"))
	})

	It("lists data", func() {
		row := lineContaining(output, "{7}")
		Expect(row).To(ContainSubstring("0003"))
		Expect(row).To(ContainSubstring("0007"))
	})

	It("lists trailing labels", func() {
		row := lineContaining(output, "end")
		Expect(row).To(ContainSubstring("0004"))
	})
})

func lineContaining(output, substr string) string {
	for _, line := range strings.Split(output, "\n") {
		if strings.Contains(line, substr) {
			return line
		}
	}

	Fail("no line containing " + substr)

	return ""
}
