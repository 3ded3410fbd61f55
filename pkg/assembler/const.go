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

const (
	TOKEN_NONE TokenType = iota
	TOKEN_IDENT
	TOKEN_LITERAL
	TOKEN_REGISTER
	TOKEN_INSTRUCTION
	TOKEN_INFO
	TOKEN_COMMA
	TOKEN_COLON
	TOKEN_OPEN_BRACKET
	TOKEN_CLOSE_BRACKET
	TOKEN_OPEN_CURLY
	TOKEN_CLOSE_CURLY
	TOKEN_PLUS
	TOKEN_MINUS
	TOKEN_EOF
)

const (
	OP_NOP Opcode = iota
	OP_MOV
	OP_PUSH
	OP_POP
	OP_CALL
	OP_RET
	OP_JMP
	OP_JL
	OP_JLE
	OP_JG
	OP_JGE
	OP_JE
	OP_JNE
	OP_JS
	OP_JNS
	OP_ADD
	OP_SUB
	OP_MULT
	OP_DIV
	OP_MOD
	OP_AND
	OP_OR
	OP_XOR
	OP_CMP
	OP_TEST
	OP_GETXY
	OP_ENERGY
	OP_TRAVEL
	OP_SHL
	OP_SHR
	OP_SENSE
	OP_EAT
	OP_RAND
	OP_RELEASE
	OP_CHARGE
	OP_POKE
	OP_PEEK
	OP_CKSUM
)

const (
	OPERAND_NONE OperandType = iota
	OPERAND_DIRECT
	OPERAND_IMMEDIATE
	OPERAND_REGISTER
	OPERAND_INDEXED
)

// Addressing mode codes as read by the VM decoder from the top nibble of
// the opcode word. Register and indexed operands share a code.
const (
	MODE_NONE      uint16 = 0
	MODE_DIRECT    uint16 = 1
	MODE_IMMEDIATE uint16 = 2
	MODE_REGISTER  uint16 = 3
	MODE_INDEXED   uint16 = 3
)

const (
	SIGN_PLUS Sign = iota
	SIGN_MINUS
)

const (
	IMAGE_SIZE       = 3600
	INSTRUCTION_SIZE = 3

	REGISTER_SP      uint16 = 15
	REGISTER_INVALID uint16 = 14

	// Opcode word layout
	MODE1_SHIFT        = 14
	MODE2_SHIFT        = 12
	CARRY1_BIT  uint16 = 1 << 11
	CARRY2_BIT  uint16 = 1 << 10
	OPCODE_MASK uint16 = 0x03FF

	// Operand word layout
	BASE_SHIFT         = 12
	OFFSET_MASK uint16 = 0x0FFF
)
