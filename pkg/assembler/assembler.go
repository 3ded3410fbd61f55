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
	"context"
	"io"
)

type Options struct {
	// Jobs above 1 encode records concurrently. The image is the same either
	// way.
	Jobs int
}

// Assemble runs both assembler passes over an instruction stream. On error
// neither an image nor a symbol table is returned.
func Assemble(
	ctx context.Context, stream []Record, opts Options,
) (*Image, *SymbolTable, error) {
	symbols, err := BuildSymbolTable(stream)
	if err != nil {
		return nil, nil, err
	}

	var image *Image

	if opts.Jobs > 1 {
		image, err = EncodeParallel(ctx, stream, symbols, opts.Jobs)
	} else {
		image, err = Encode(stream, symbols)
	}

	if err != nil {
		return nil, nil, err
	}

	return image, symbols, nil
}

// ParseBotSource tokenizes and parses bot assembly into an instruction
// stream, collecting every syntax error found.
func ParseBotSource(input io.Reader) ([]Record, []error) {
	tokens, errs := Tokenize(input)

	stream, parseErrs := Parse(tokens)
	errs = append(errs, parseErrs...)

	if len(errs) > 0 {
		return nil, errs
	}

	return stream, nil
}

// AssembleBotSource assembles bot assembly source into a memory image. If
// debug is not nil it is filled with the program's labels, the source line
// of every emitted record and the bot metadata.
func AssembleBotSource(
	input io.Reader, debug *DebugInfo, opts Options,
) (*Image, []error) {
	stream, errs := ParseBotSource(input)

	if len(errs) > 0 {
		return nil, errs
	}

	image, symbols, err := Assemble(context.Background(), stream, opts)
	if err != nil {
		return nil, []error{err}
	}

	if debug != nil {
		FillDebugInfo(debug, stream, symbols)
	}

	return image, nil
}

// FillDebugInfo records where every record of an assembled stream landed.
func FillDebugInfo(debug *DebugInfo, stream []Record, symbols *SymbolTable) {
	if debug.Symbols == nil {
		debug.Symbols = make(map[uint16]int64)
	}

	if debug.Labels == nil {
		debug.Labels = make(map[uint16][]string)
	}

	addrs, _ := Layout(stream)

	for i, record := range stream {
		switch record := record.(type) {
		case *Instruction:
			debug.Symbols[uint16(addrs[i])] = record.Position.LineByte
		case *Data:
			if len(record.Values) > 0 {
				debug.Symbols[uint16(addrs[i])] = record.Position.LineByte
			}
		case *Metadata:
			debug.Metadata = append(debug.Metadata, record.Fields...)
		}
	}

	for addr, names := range symbols.Labels() {
		debug.Labels[addr] = append(debug.Labels[addr], names...)
	}
}
