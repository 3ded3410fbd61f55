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

import "strings"

type opcodeInfo struct {
	name       string
	arity      int
	positional bool
}

var opcodes = [...]opcodeInfo{
	OP_NOP:     {"NOP", 0, false},
	OP_MOV:     {"MOV", 2, false},
	OP_PUSH:    {"PUSH", 1, false},
	OP_POP:     {"POP", 1, false},
	OP_CALL:    {"CALL", 1, true},
	OP_RET:     {"RET", 0, false},
	OP_JMP:     {"JMP", 1, true},
	OP_JL:      {"JL", 1, true},
	OP_JLE:     {"JLE", 1, true},
	OP_JG:      {"JG", 1, true},
	OP_JGE:     {"JGE", 1, true},
	OP_JE:      {"JE", 1, true},
	OP_JNE:     {"JNE", 1, true},
	OP_JS:      {"JS", 1, true},
	OP_JNS:     {"JNS", 1, true},
	OP_ADD:     {"ADD", 2, false},
	OP_SUB:     {"SUB", 2, false},
	OP_MULT:    {"MULT", 2, false},
	OP_DIV:     {"DIV", 2, false},
	OP_MOD:     {"MOD", 2, false},
	OP_AND:     {"AND", 2, false},
	OP_OR:      {"OR", 2, false},
	OP_XOR:     {"XOR", 2, false},
	OP_CMP:     {"CMP", 2, false},
	OP_TEST:    {"TEST", 2, false},
	OP_GETXY:   {"GETXY", 2, false},
	OP_ENERGY:  {"ENERGY", 1, false},
	OP_TRAVEL:  {"TRAVEL", 1, false},
	OP_SHL:     {"SHL", 2, false},
	OP_SHR:     {"SHR", 2, false},
	OP_SENSE:   {"SENSE", 1, false},
	OP_EAT:     {"EAT", 0, false},
	OP_RAND:    {"RAND", 2, false},
	OP_RELEASE: {"RELEASE", 1, false},
	OP_CHARGE:  {"CHARGE", 2, false},
	OP_POKE:    {"POKE", 2, false},
	OP_PEEK:    {"PEEK", 2, false},
	OP_CKSUM:   {"CKSUM", 2, false},
}

// Valid reports whether op is one of the 38 defined opcodes.
func (op Opcode) Valid() bool {
	return int(op) < len(opcodes)
}

func (op Opcode) String() string {
	if !op.Valid() {
		return "<invalid>"
	}

	return opcodes[op].name
}

// Arity is the number of operands the instruction takes in source.
func (op Opcode) Arity() int {
	if !op.Valid() {
		return 0
	}

	return opcodes[op].arity
}

// IsPositional reports whether the instruction's immediate operands are
// encoded relative to the instruction's own address (jumps and CALL).
func (op Opcode) IsPositional() bool {
	if !op.Valid() {
		return false
	}

	return opcodes[op].positional
}

func parseInstruction(ident string) (Opcode, bool) {
	for op, info := range opcodes {
		if strings.EqualFold(ident, info.name) {
			return Opcode(op), true
		}
	}

	return 0, false
}
