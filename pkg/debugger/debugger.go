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

package debugger

import (
	"bufio"
	"encoding/binary"
	"encoding/gob"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/pkg/errors"

	"github.com/lassandro/botasm/pkg/assembler"
	"github.com/lassandro/botasm/pkg/encoding"
	"github.com/lassandro/botasm/pkg/listing"
)

func LoadImage(r io.Reader, order binary.ByteOrder) (*assembler.Image, error) {
	words, err := encoding.ReadImage(r, order, assembler.IMAGE_SIZE)
	if err != nil {
		return nil, errors.Wrap(err, "Error loading image")
	}

	var image assembler.Image
	copy(image[:], words)

	return &image, nil
}

// Save writes the image, including edits made with set, in the byte order
// it was loaded with.
func (dbg *Debugger) Save(w io.Writer) error {
	return errors.Wrap(
		encoding.WriteImage(w, dbg.Order, dbg.Image[:]), "Error saving image",
	)
}

func LoadDebugInfo(r io.Reader) (*assembler.DebugInfo, error) {
	info := assembler.NewDebugInfo()

	if err := gob.NewDecoder(r).Decode(info); err != nil {
		return nil, errors.Wrap(err, "Error loading symbol file")
	}

	return info, nil
}

func (dbg *Debugger) bold(s string) string {
	if !dbg.Color {
		return s
	}

	return "\033[1m" + s + "\033[0m"
}

func (dbg *Debugger) faint(s string) string {
	if !dbg.Color {
		return s
	}

	return "\033[1;30m" + s + "\033[0m"
}

// Resolve finds the address of a label, ignoring case like the assembler.
func (dbg *Debugger) Resolve(label string) (uint16, bool) {
	if dbg.Info == nil {
		return 0, false
	}

	for addr, names := range dbg.Info.Labels {
		for _, name := range names {
			if strings.EqualFold(name, label) {
				return addr, true
			}
		}
	}

	return 0, false
}

// ParseAddress accepts a label or a numeric literal.
func (dbg *Debugger) ParseAddress(arg string) (uint16, error) {
	if addr, ok := dbg.Resolve(arg); ok {
		return addr, nil
	}

	addr, err := encoding.DecodeLiteral(arg)
	if err != nil {
		return 0, errors.Errorf("Unable to find '%s'", arg)
	}

	if addr >= assembler.IMAGE_SIZE {
		return 0, errors.Errorf("Address %#04x is outside the image", addr)
	}

	return addr, nil
}

func (dbg *Debugger) PrintSource(addr uint16, count uint16) {
	if dbg.Source == nil {
		fmt.Fprintln(dbg.Out, "No source file loaded")
		return
	}

	if dbg.Info == nil {
		fmt.Fprintln(dbg.Out, "No symbol table loaded")
		return
	}

	offset, exists := dbg.Info.Symbols[addr]
	if !exists {
		fmt.Fprintf(dbg.Out, "No instruction found at %#04x\n", addr)
		return
	}

	lines := make(map[int64]uint16, len(dbg.Info.Symbols))
	for lineaddr, linebyte := range dbg.Info.Symbols {
		if prev, exists := lines[linebyte]; !exists || lineaddr < prev {
			lines[linebyte] = lineaddr
		}
	}

	if _, err := dbg.Source.Seek(offset, io.SeekStart); err != nil {
		fmt.Fprintln(dbg.Out, err)
		return
	}

	scanner := bufio.NewScanner(dbg.Source)

	for i := uint16(0); i < count; i++ {
		if !scanner.Scan() {
			break
		}

		line := scanner.Text()

		if lineaddr, exists := lines[offset]; exists {
			fmt.Fprint(dbg.Out, dbg.bold(fmt.Sprintf("[%#04x]", lineaddr))+" ")
		} else {
			fmt.Fprint(dbg.Out, dbg.faint("~~~~~~~~")+" ")
		}

		fmt.Fprintln(dbg.Out, line)

		offset += int64(len(line) + 1)
	}

	if err := scanner.Err(); err != nil {
		fmt.Fprintln(dbg.Out, err)
	}
}

func (dbg *Debugger) PrintMem(addr, count uint16) {
	end := int(addr) + int(count)
	if end > assembler.IMAGE_SIZE {
		end = assembler.IMAGE_SIZE
	}

	for i := int(addr); i < end; i++ {
		if i == int(addr) {
			fmt.Fprint(dbg.Out, dbg.bold(fmt.Sprintf("[%#04x]", i))+" ")
		} else if (i-int(addr))%4 == 0 {
			fmt.Fprintln(dbg.Out)
			fmt.Fprint(dbg.Out, dbg.bold(fmt.Sprintf("[%#04x]", i))+" ")
		}

		word := fmt.Sprintf("%#04x", dbg.Image[i])

		if dbg.Image[i] == 0 {
			word = dbg.faint(word)
		}

		fmt.Fprint(dbg.Out, word+" ")
	}

	fmt.Fprintln(dbg.Out)
}

// PrintInstruction decodes the instruction at addr, which must be aligned.
func (dbg *Debugger) PrintInstruction(addr uint16) {
	if addr%assembler.INSTRUCTION_SIZE != 0 ||
		int(addr)+assembler.INSTRUCTION_SIZE > assembler.IMAGE_SIZE {
		fmt.Fprintf(dbg.Out, "No instruction can start at %#04x\n", addr)
		return
	}

	words := dbg.Image[addr : addr+assembler.INSTRUCTION_SIZE]
	fields := listing.DecodeFields(words[0])

	fmt.Fprintf(
		dbg.Out,
		"%s %s %#04x %#04x\n",
		dbg.bold(fmt.Sprintf("[%#04x]", addr)),
		fields,
		words[1],
		words[2],
	)
}

func (dbg *Debugger) PrintLabels() {
	if dbg.Info == nil {
		fmt.Fprintln(dbg.Out, "No symbol table loaded")
		return
	}

	keys := make([]uint16, 0, len(dbg.Info.Labels))
	for addr := range dbg.Info.Labels {
		keys = append(keys, addr)
	}

	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })

	for _, addr := range keys {
		fmt.Fprintf(
			dbg.Out,
			"%s %s\n",
			dbg.bold(fmt.Sprintf("[%#04x]", addr)),
			strings.Join(dbg.Info.Labels[addr], " "),
		)
	}
}

func (dbg *Debugger) PrintMetadata() {
	if dbg.Info == nil || len(dbg.Info.Metadata) == 0 {
		fmt.Fprintln(dbg.Out, "No bot metadata")
		return
	}

	for _, field := range dbg.Info.Metadata {
		fmt.Fprintln(dbg.Out, field)
	}
}
