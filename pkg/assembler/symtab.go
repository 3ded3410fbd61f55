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

package assembler

import (
	"log/slog"
	"sort"
	"strings"
)

type symbol struct {
	Name     string
	Address  uint16
	Position Cursor
}

// SymbolTable maps case-folded label names to word addresses. It can only
// be built by BuildSymbolTable and is read-only afterwards. A nil table is
// empty.
type SymbolTable struct {
	symbols map[string]symbol
	size    int
}

// Lookup returns the address of label, ignoring case.
func (st *SymbolTable) Lookup(label string) (uint16, bool) {
	if st == nil {
		return 0, false
	}

	sym, exists := st.symbols[strings.ToLower(label)]

	return sym.Address, exists
}

func (st *SymbolTable) Len() int {
	if st == nil {
		return 0
	}

	return len(st.symbols)
}

// Size is the number of words the program occupies, padding included.
func (st *SymbolTable) Size() int {
	if st == nil {
		return 0
	}

	return st.size
}

// Labels groups the label names, as written at their definition, by
// address.
func (st *SymbolTable) Labels() map[uint16][]string {
	labels := make(map[uint16][]string)

	if st == nil {
		return labels
	}

	for _, sym := range st.symbols {
		labels[sym.Address] = append(labels[sym.Address], sym.Name)
	}

	for _, names := range labels {
		sort.Strings(names)
	}

	return labels
}

// alignInstruction returns the first address at or after addr where an
// instruction may start.
func alignInstruction(addr int) int {
	if rem := addr % INSTRUCTION_SIZE; rem != 0 {
		return addr + INSTRUCTION_SIZE - rem
	}

	return addr
}

// Layout walks the stream the way the encoder will and returns the address
// each record starts at (instructions after alignment) and the total size.
// Records after End are left at the end address.
func Layout(stream []Record) (addrs []int, size int) {
	addrs = make([]int, len(stream))

	done := false
	for i, record := range stream {
		if done {
			addrs[i] = size
			continue
		}

		switch record := record.(type) {
		case *Instruction:
			size = alignInstruction(size)
			addrs[i] = size
			size += INSTRUCTION_SIZE
		case *Data:
			addrs[i] = size
			size += len(record.Values)
		case *End:
			addrs[i] = size
			done = true
		default:
			addrs[i] = size
		}
	}

	return addrs, size
}

// BuildSymbolTable is the first assembler pass. It assigns every label the
// address of the next word emitted after its definition without producing
// any output.
func BuildSymbolTable(stream []Record) (*SymbolTable, error) {
	st := &SymbolTable{symbols: make(map[string]symbol)}
	addrs, size := Layout(stream)

	for i, record := range stream {
		if _, ok := record.(*End); ok {
			break
		}

		def, ok := record.(*LabelDefinition)

		if !ok {
			continue
		}

		key := strings.ToLower(def.Name)

		if prev, exists := st.symbols[key]; exists {
			return nil, &DuplicateSymbolError{def.Position, def.Name, prev.Position}
		}

		st.symbols[key] = symbol{def.Name, uint16(addrs[i]), def.Position}

		slog.Debug("label defined", "label", def.Name, "address", addrs[i])
	}

	st.size = size

	return st, nil
}
