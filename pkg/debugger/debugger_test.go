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

package debugger_test

import (
	"bytes"
	"encoding/binary"
	"encoding/gob"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/lassandro/botasm/pkg/assembler"
	"github.com/lassandro/botasm/pkg/debugger"
	"github.com/lassandro/botasm/pkg/encoding"
)

const source = "info Rover, Jane Doe\n" +
	"start:\n" +
	"MOV r0, 5\n" +
	"JMP Start\n"

var _ = Describe("Debugger", func() {
	var dbg *debugger.Debugger
	var out *bytes.Buffer
	var written []byte

	BeforeEach(func() {
		info := assembler.NewDebugInfo()

		image, errs := assembler.AssembleBotSource(
			strings.NewReader(source), info, assembler.Options{},
		)
		Expect(errs).To(BeEmpty())

		var imageFile bytes.Buffer
		Expect(encoding.WriteImage(&imageFile, binary.BigEndian, image[:])).To(Succeed())

		written = bytes.Clone(imageFile.Bytes())

		var infoFile bytes.Buffer
		Expect(gob.NewEncoder(&infoFile).Encode(info)).To(Succeed())

		out = new(bytes.Buffer)
		dbg = &debugger.Debugger{
			Source: strings.NewReader(source),
			Order:  binary.BigEndian,
			Out:    out,
		}

		var err error

		dbg.Image, err = debugger.LoadImage(&imageFile, binary.BigEndian)
		Expect(err).NotTo(HaveOccurred())
		Expect(*dbg.Image).To(Equal(*image))

		dbg.Info, err = debugger.LoadDebugInfo(&infoFile)
		Expect(err).NotTo(HaveOccurred())
	})

	It("resolves labels ignoring case", func() {
		Expect(dbg.ParseAddress("START")).To(Equal(uint16(0)))
		Expect(dbg.ParseAddress("0x3")).To(Equal(uint16(3)))

		_, err := dbg.ParseAddress("nowhere")
		Expect(err).To(HaveOccurred())

		_, err = dbg.ParseAddress("4000")
		Expect(err).To(HaveOccurred())
	})

	It("prints source lines with their addresses", func() {
		dbg.PrintSource(0, 2)

		lines := strings.Split(strings.TrimSpace(out.String()), "\n")
		Expect(lines).To(Equal([]string{
			"[0x0000] MOV r0, 5",
			"[0x0003] JMP Start",
		}))
	})

	It("reports addresses without source", func() {
		dbg.PrintSource(1, 1)
		Expect(out.String()).To(ContainSubstring("No instruction found at 0x0001"))
	})

	It("prints memory", func() {
		dbg.PrintMem(0, 6)
		Expect(out.String()).To(Equal(
			"[0x0000] 0xe001 0x0000 0x0005 0x8006 \n[0x0004] 0xfffd 0x0000 \n",
		))
	})

	It("stops memory dumps at the end of the image", func() {
		dbg.PrintMem(assembler.IMAGE_SIZE-1, 8)
		Expect(out.String()).To(Equal("[0x0e0f] 0x0000 \n"))
	})

	It("decodes instructions", func() {
		dbg.PrintInstruction(3)
		Expect(out.String()).To(Equal("[0x0003] JMP m20 0xfffd 0x0000\n"))

		out.Reset()
		dbg.PrintInstruction(1)
		Expect(out.String()).To(ContainSubstring("No instruction"))
	})

	It("lists labels and metadata", func() {
		dbg.PrintLabels()
		dbg.PrintMetadata()
		Expect(out.String()).To(Equal("[0x0000] start\nRover\nJane Doe\n"))
	})

	It("saves the image it loaded", func() {
		var saved bytes.Buffer
		Expect(dbg.Save(&saved)).To(Succeed())
		Expect(saved.Bytes()).To(Equal(written))
	})

	It("saves edits in the image's byte order", func() {
		dbg.Order = binary.LittleEndian
		dbg.Image[1] = 0x1234

		var saved bytes.Buffer
		Expect(dbg.Save(&saved)).To(Succeed())
		Expect(saved.Bytes()[:4]).To(Equal([]byte{0x01, 0xE0, 0x34, 0x12}))

		image, err := debugger.LoadImage(&saved, binary.LittleEndian)
		Expect(err).NotTo(HaveOccurred())
		Expect(image[1]).To(Equal(uint16(0x1234)))
		Expect(image[2]).To(Equal(uint16(5)))
	})

	It("rejects truncated images", func() {
		_, err := debugger.LoadImage(bytes.NewReader([]byte{1, 2}), binary.BigEndian)
		Expect(err).To(HaveOccurred())
	})
})
