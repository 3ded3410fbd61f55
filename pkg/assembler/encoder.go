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
	"log/slog"

	"golang.org/x/sync/errgroup"
)

type encodedOperand struct {
	value  uint16
	offset uint16
	carry  bool
}

func (op encodedOperand) word() uint16 {
	return op.value | (op.offset & OFFSET_MASK)
}

func resolve(
	symbols *SymbolTable, label string, position Cursor, addr uint16,
) (uint16, error) {
	value, exists := symbols.Lookup(label)

	if !exists {
		return 0, &UnresolvedSymbolError{position, label, addr}
	}

	return value, nil
}

func checkRegister(reg uint16, position Cursor, addr uint16) error {
	if reg > REGISTER_SP || reg == REGISTER_INVALID {
		return &InvalidAddressingError{position, addr, "invalid register"}
	}

	return nil
}

// encodeOperand computes the operand word parts for an operand of the
// instruction at addr. Immediate operands of positional instructions are
// stored as a displacement from addr.
func encodeOperand(
	op *Operand,
	positional bool,
	addr uint16,
	position Cursor,
	symbols *SymbolTable,
) (result encodedOperand, err error) {
	switch op.Type {
	case OPERAND_NONE:

	case OPERAND_DIRECT:
		result.value = op.Value.Number

		if op.Value.IsLabel() {
			if result.value, err = resolve(symbols, op.Value.Label, position, addr); err != nil {
				return
			}
		}

	case OPERAND_IMMEDIATE:
		result.value = op.Value.Number

		if op.Value.IsLabel() {
			if result.value, err = resolve(symbols, op.Value.Label, position, addr); err != nil {
				return
			}
		}

		if positional {
			result.value -= addr
		}

	case OPERAND_REGISTER:
		if err = checkRegister(op.Register, position, addr); err != nil {
			return
		}

		result.value = op.Register

	case OPERAND_INDEXED:
		// [reg ± number] or [label ± reg]
		switch op.Base.Type {
		case OPERAND_REGISTER:
			if op.Offset.Type == OPERAND_REGISTER {
				err = &InvalidAddressingError{
					position, addr, "register cannot be used as offset",
				}
				return
			}

			if err = checkRegister(op.Base.Register, position, addr); err != nil {
				return
			}

			result.value = op.Base.Register << BASE_SHIFT

		case OPERAND_IMMEDIATE:
			// Deliberately stricter: a number base is rejected, not encoded as offset k
			if !op.Base.Value.IsLabel() {
				err = &InvalidAddressingError{
					position, addr, "number cannot be used as base",
				}
				return
			}

			if result.offset, err = resolve(symbols, op.Base.Value.Label, position, addr); err != nil {
				return
			}

		default:
			err = &InvalidAddressingError{position, addr, "missing base"}
			return
		}

		switch op.Offset.Type {
		case OPERAND_IMMEDIATE:
			if op.Offset.Value.IsLabel() {
				err = &InvalidAddressingError{
					position, addr, "label cannot be used as offset",
				}
				return
			}

			// A number offset replaces a label base's address.
			result.offset = op.Offset.Value.Number

		case OPERAND_REGISTER:
			if err = checkRegister(op.Offset.Register, position, addr); err != nil {
				return
			}

			result.value = op.Offset.Register << BASE_SHIFT

		default:
			err = &InvalidAddressingError{position, addr, "missing offset"}
			return
		}

		// The offset field is 12 bits wide, carry tells the VM to sign
		// extend it.
		if op.Sign == SIGN_MINUS && result.offset != 0 {
			result.offset = 0 - result.offset
			result.carry = true
		}

	default:
		err = &InvalidAddressingError{position, addr, "unknown operand type"}
	}

	return
}

// modeField packs both operands' addressing modes and carry flags into the
// top six bits of the opcode word.
func modeField(op1, op2 *Operand, carry1, carry2 bool) uint16 {
	field := (op1.Mode()<<2 | op2.Mode()) << MODE2_SHIFT

	if carry1 {
		field |= CARRY1_BIT
	}

	if carry2 {
		field |= CARRY2_BIT
	}

	return field
}

func encodeInstruction(
	inst *Instruction, addr uint16, symbols *SymbolTable,
) (words [INSTRUCTION_SIZE]uint16, err error) {
	if !inst.Opcode.Valid() {
		err = &InvalidAddressingError{inst.Position, addr, "unknown opcode"}
		return
	}

	positional := inst.Opcode.IsPositional()

	op1, err := encodeOperand(&inst.Operand1, positional, addr, inst.Position, symbols)
	if err != nil {
		return
	}

	op2, err := encodeOperand(&inst.Operand2, positional, addr, inst.Position, symbols)
	if err != nil {
		return
	}

	words[0] = uint16(inst.Opcode) |
		modeField(&inst.Operand1, &inst.Operand2, op1.carry, op2.carry)
	words[1] = op1.word()
	words[2] = op2.word()

	return
}

// encodeRecord writes a single record starting at addr, which must already
// be aligned for instructions.
func encodeRecord(
	image *Image, record Record, addr int, symbols *SymbolTable,
) error {
	switch record := record.(type) {
	case *Instruction:
		if end := addr + INSTRUCTION_SIZE; end > IMAGE_SIZE {
			return &ProgramTooLargeError{record.Position, IMAGE_SIZE, end}
		}

		words, err := encodeInstruction(record, uint16(addr), symbols)
		if err != nil {
			return err
		}

		copy(image[addr:], words[:])

		slog.Debug(
			"encoded instruction",
			"address", addr,
			"opcode", record.Opcode.String(),
			"words", words,
		)

	case *Data:
		if end := addr + len(record.Values); end > IMAGE_SIZE {
			return &ProgramTooLargeError{record.Position, IMAGE_SIZE, end}
		}

		for i, value := range record.Values {
			word := value.Number

			if value.IsLabel() {
				var err error
				word, err = resolve(symbols, value.Label, record.Position, uint16(addr+i))
				if err != nil {
					return err
				}
			}

			image[addr+i] = word
		}
	}

	return nil
}

// Encode is the second assembler pass. It lays out the stream again,
// padding instructions to 3-word boundaries, and encodes every record into a
// fresh image using the finished symbol table. Encoding stops at the first
// error and no image is returned.
func Encode(stream []Record, symbols *SymbolTable) (*Image, error) {
	var image Image
	var ip int

	for _, record := range stream {
		switch record := record.(type) {
		case *Instruction:
			// Padding words stay zero
			ip = alignInstruction(ip)

			if err := encodeRecord(&image, record, ip, symbols); err != nil {
				return nil, err
			}

			ip += INSTRUCTION_SIZE

		case *Data:
			if err := encodeRecord(&image, record, ip, symbols); err != nil {
				return nil, err
			}

			ip += len(record.Values)

		case *End:
			return &image, nil
		}
	}

	return &image, nil
}

// EncodeParallel produces the same image as Encode, encoding up to jobs
// records at once. Record addresses are computed up front so every worker
// writes its own range of the image. When several records fail, the error
// of the earliest one in the stream is returned.
func EncodeParallel(
	ctx context.Context, stream []Record, symbols *SymbolTable, jobs int,
) (*Image, error) {
	var image Image

	addrs, _ := Layout(stream)
	errs := make([]error, len(stream))

	g := new(errgroup.Group)

	if jobs > 0 {
		g.SetLimit(jobs)
	}

	for i, record := range stream {
		if _, ok := record.(*End); ok {
			break
		}

		switch record.(type) {
		case *Instruction, *Data:
		default:
			continue
		}

		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			errs[i] = encodeRecord(&image, record, addrs[i], symbols)

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	return &image, nil
}
