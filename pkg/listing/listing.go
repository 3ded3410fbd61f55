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

// Package listing renders an assembled image next to the source it came
// from.
package listing

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/lassandro/botasm/pkg/assembler"
	"github.com/lassandro/botasm/pkg/encoding"
)

// Fields are the parts of an opcode word.
type Fields struct {
	Opcode assembler.Opcode
	Mode1  uint16
	Mode2  uint16
	Carry1 bool
	Carry2 bool
}

func DecodeFields(word uint16) Fields {
	return Fields{
		Opcode: assembler.Opcode(word & assembler.OPCODE_MASK),
		Mode1:  (word >> assembler.MODE1_SHIFT) & 0x3,
		Mode2:  (word >> assembler.MODE2_SHIFT) & 0x3,
		Carry1: word&assembler.CARRY1_BIT != 0,
		Carry2: word&assembler.CARRY2_BIT != 0,
	}
}

// Offset returns the signed 12-bit offset of an operand word.
func Offset(word uint16, carry bool) int16 {
	offset := word & assembler.OFFSET_MASK

	if carry {
		return int16(encoding.SignExtend(offset, 12))
	}

	return int16(offset)
}

func (f Fields) String() string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s m%d%d", f.Opcode, f.Mode1, f.Mode2)

	if f.Carry1 {
		b.WriteString(" c1")
	}

	if f.Carry2 {
		b.WriteString(" c2")
	}

	return b.String()
}

func sourceLine(source []byte, lineByte int64) string {
	if lineByte < 0 || lineByte >= int64(len(source)) {
		return ""
	}

	line := source[lineByte:]

	if end := bytes.IndexByte(line, '\n'); end != -1 {
		line = line[:end]
	}

	return strings.TrimSpace(string(line))
}

func hexWords(words []uint16) string {
	parts := make([]string, len(words))

	for i, word := range words {
		parts[i] = fmt.Sprintf("%04x", word)
	}

	return strings.Join(parts, " ")
}

// Write renders one row per emitted record of stream: its address, the
// labels defined there, its words, the decoded opcode word fields for
// instructions and the source line. source may be nil.
func Write(
	w io.Writer, image *assembler.Image, stream []assembler.Record, source []byte,
) error {
	t := table.NewWriter()
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Addr", "Labels", "Words", "Fields", "Source"})

	addrs, _ := assembler.Layout(stream)

	var labels []string

	for i, record := range stream {
		addr := addrs[i]

		switch record := record.(type) {
		case *assembler.LabelDefinition:
			labels = append(labels, record.Name)

		case *assembler.Instruction:
			words := image[addr : addr+assembler.INSTRUCTION_SIZE]
			fields := DecodeFields(words[0])
			desc := fields.String()

			if record.Operand1.Type == assembler.OPERAND_INDEXED {
				desc += fmt.Sprintf(" o1=%d", Offset(words[1], fields.Carry1))
			}

			if record.Operand2.Type == assembler.OPERAND_INDEXED {
				desc += fmt.Sprintf(" o2=%d", Offset(words[2], fields.Carry2))
			}

			t.AppendRow(table.Row{
				fmt.Sprintf("%04d", addr),
				strings.Join(labels, " "),
				hexWords(words),
				desc,
				sourceLine(source, record.Position.LineByte),
			})

			labels = nil

		case *assembler.Data:
			if len(record.Values) == 0 {
				continue
			}

			t.AppendRow(table.Row{
				fmt.Sprintf("%04d", addr),
				strings.Join(labels, " "),
				hexWords(image[addr : addr+len(record.Values)]),
				"data",
				sourceLine(source, record.Position.LineByte),
			})

			labels = nil

		case *assembler.End:
			if len(labels) > 0 {
				t.AppendRow(table.Row{fmt.Sprintf("%04d", addr), strings.Join(labels, " "), "", "", ""})
			}
		}
	}

	_, err := io.WriteString(w, t.Render()+"\n")

	return err
}
