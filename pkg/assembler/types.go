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
	"fmt"
	"strings"
)

type TokenType uint
type OperandType uint
type Opcode uint16
type Sign uint

// Image is the memory of the bot VM as produced by the assembler.
type Image [IMAGE_SIZE]uint16

type Cursor struct {
	Line     int
	Column   int
	Byte     int64
	Size     int64
	LineByte int64
}

type Token struct {
	Type     TokenType
	Position Cursor
	Value    string
}

// Value is either a literal word or a reference to a label.
type Value struct {
	Label  string
	Number uint16
}

func NumberValue(n uint16) Value {
	return Value{Number: n}
}

func LabelValue(label string) Value {
	return Value{Label: label}
}

func (v Value) IsLabel() bool {
	return v.Label != ""
}

func (v Value) String() string {
	if v.IsLabel() {
		return v.Label
	}

	return fmt.Sprintf("%d", v.Number)
}

// Term is one side of an indexed operand. Only OPERAND_REGISTER and
// OPERAND_IMMEDIATE terms are meaningful.
type Term struct {
	Type     OperandType
	Register uint16
	Value    Value
}

func RegisterTerm(reg uint16) Term {
	return Term{Type: OPERAND_REGISTER, Register: reg}
}

func ImmediateTerm(value Value) Term {
	return Term{Type: OPERAND_IMMEDIATE, Value: value}
}

type Operand struct {
	Type     OperandType
	Value    Value
	Register uint16

	// OPERAND_INDEXED only
	Base   Term
	Sign   Sign
	Offset Term
}

func DirectOperand(value Value) Operand {
	return Operand{Type: OPERAND_DIRECT, Value: value}
}

func ImmediateOperand(value Value) Operand {
	return Operand{Type: OPERAND_IMMEDIATE, Value: value}
}

func RegisterOperand(reg uint16) Operand {
	return Operand{Type: OPERAND_REGISTER, Register: reg}
}

func IndexedOperand(base Term, sign Sign, offset Term) Operand {
	return Operand{Type: OPERAND_INDEXED, Base: base, Sign: sign, Offset: offset}
}

// Mode returns the 2-bit addressing mode code of the operand.
func (op *Operand) Mode() uint16 {
	switch op.Type {
	case OPERAND_DIRECT:
		return MODE_DIRECT
	case OPERAND_IMMEDIATE:
		return MODE_IMMEDIATE
	case OPERAND_REGISTER:
		return MODE_REGISTER
	case OPERAND_INDEXED:
		return MODE_INDEXED
	}

	return MODE_NONE
}

// Record is one element of the instruction stream handed from the parser to
// the symbol table builder and the encoder.
type Record interface {
	GetPosition() Cursor
}

type Instruction struct {
	Position Cursor
	Opcode   Opcode
	Operand1 Operand
	Operand2 Operand
}

type Data struct {
	Position Cursor
	Values   []Value
}

type LabelDefinition struct {
	Position Cursor
	Name     string
}

// Metadata holds the fields of an `info` line. The backend ignores it.
type Metadata struct {
	Position Cursor
	Fields   []string
}

type End struct {
	Position Cursor
}

func (r *Instruction) GetPosition() Cursor     { return r.Position }
func (r *Data) GetPosition() Cursor            { return r.Position }
func (r *LabelDefinition) GetPosition() Cursor { return r.Position }
func (r *Metadata) GetPosition() Cursor        { return r.Position }
func (r *End) GetPosition() Cursor             { return r.Position }

// DebugInfo is the assembler's debugging sidecar. Symbols maps the address of
// every emitted instruction or data record to the byte offset of its source
// line, Labels maps addresses to the labels defined there.
type DebugInfo struct {
	Source   string
	Symbols  map[uint16]int64
	Labels   map[uint16][]string
	Metadata []string
}

func NewDebugInfo() *DebugInfo {
	return &DebugInfo{
		Symbols: make(map[uint16]int64),
		Labels:  make(map[uint16][]string),
	}
}

type TokenError interface {
	GetPosition() Cursor
}

func tokenTypeName(tokenType TokenType) string {
	switch tokenType {
	case TOKEN_IDENT:
		return "Identifier"
	case TOKEN_LITERAL:
		return "Literal"
	case TOKEN_REGISTER:
		return "Register"
	case TOKEN_INSTRUCTION:
		return "Instruction"
	case TOKEN_INFO:
		return "Info"
	case TOKEN_COMMA:
		return "','"
	case TOKEN_COLON:
		return "':'"
	case TOKEN_OPEN_BRACKET:
		return "'['"
	case TOKEN_CLOSE_BRACKET:
		return "']'"
	case TOKEN_OPEN_CURLY:
		return "'{'"
	case TOKEN_CLOSE_CURLY:
		return "'}'"
	case TOKEN_PLUS:
		return "'+'"
	case TOKEN_MINUS:
		return "'-'"
	case TOKEN_EOF:
		return "End of file"
	}

	return "<invalid>"
}

type InvalidOperandError struct {
	Position Cursor
	Required []TokenType
	Received TokenType
}

func (err *InvalidOperandError) GetPosition() Cursor {
	return err.Position
}

func (err *InvalidOperandError) Error() string {
	var requiredString string

	requiredStrings := make([]string, 0, len(err.Required))

	for _, tokenType := range err.Required {
		requiredStrings = append(requiredStrings, tokenTypeName(tokenType))
	}

	if count := len(requiredStrings); count == 1 {
		requiredString = requiredStrings[0]
	} else if count == 2 {
		requiredString = requiredStrings[0] + " or " + requiredStrings[1]
	} else if count > 2 {
		requiredString = strings.Join(
			requiredStrings[:len(requiredStrings)-1], ", ",
		) + ", or " + requiredStrings[len(requiredStrings)-1]
	}

	return fmt.Sprintf(
		"%02d:%02d: Invalid operands\n\twant:%s\n\thave:%s",
		err.Position.Line,
		err.Position.Column,
		requiredString,
		tokenTypeName(err.Received),
	)
}

type InvalidNumArgumentsError struct {
	Position Cursor
	Required int
	Received int
}

func (err *InvalidNumArgumentsError) GetPosition() Cursor {
	return err.Position
}

func (err *InvalidNumArgumentsError) Error() string {
	return fmt.Sprintf(
		"%02d:%02d: Invalid number of arguments\n\twant:%d\n\thave:%v",
		err.Position.Line,
		err.Position.Column,
		err.Required,
		err.Received,
	)
}

type InvalidLiteralError struct {
	Position Cursor
}

func (err *InvalidLiteralError) GetPosition() Cursor {
	return err.Position
}

func (err *InvalidLiteralError) Error() string {
	return fmt.Sprintf(
		"%02d:%02d: Invalid numeric literal",
		err.Position.Line,
		err.Position.Column,
	)
}

type InvalidRegisterError struct {
	Position Cursor
}

func (err *InvalidRegisterError) GetPosition() Cursor {
	return err.Position
}

func (err *InvalidRegisterError) Error() string {
	return fmt.Sprintf(
		"%02d:%02d: Invalid register identifier",
		err.Position.Line,
		err.Position.Column,
	)
}

type UnexpectedCharacterError struct {
	Position Cursor
	Received rune
}

func (err *UnexpectedCharacterError) GetPosition() Cursor {
	return err.Position
}

func (err *UnexpectedCharacterError) Error() string {
	return fmt.Sprintf(
		"%02d:%02d: Unexpected character %c",
		err.Position.Line,
		err.Position.Column,
		err.Received,
	)
}

type UnknownIdentifierError struct {
	Position Cursor
	Received string
}

func (err *UnknownIdentifierError) GetPosition() Cursor {
	return err.Position
}

func (err *UnknownIdentifierError) Error() string {
	return fmt.Sprintf(
		"%02d:%02d: Unknown identifier '%s'",
		err.Position.Line,
		err.Position.Column,
		err.Received,
	)
}

type DuplicateSymbolError struct {
	Position Cursor
	Label    string
	Previous Cursor
}

func (err *DuplicateSymbolError) GetPosition() Cursor {
	return err.Position
}

func (err *DuplicateSymbolError) Error() string {
	return fmt.Sprintf(
		"%02d:%02d: Redeclaration of label '%s', previously declared at %02d:%02d",
		err.Position.Line,
		err.Position.Column,
		err.Label,
		err.Previous.Line,
		err.Previous.Column,
	)
}

type UnresolvedSymbolError struct {
	Position Cursor
	Label    string
	Address  uint16
}

func (err *UnresolvedSymbolError) GetPosition() Cursor {
	return err.Position
}

func (err *UnresolvedSymbolError) Error() string {
	return fmt.Sprintf(
		"%02d:%02d: Unknown label '%s' (address %#04x)",
		err.Position.Line,
		err.Position.Column,
		err.Label,
		err.Address,
	)
}

type InvalidAddressingError struct {
	Position Cursor
	Address  uint16
	Reason   string
}

func (err *InvalidAddressingError) GetPosition() Cursor {
	return err.Position
}

func (err *InvalidAddressingError) Error() string {
	return fmt.Sprintf(
		"%02d:%02d: Invalid addressing, %s (address %#04x)",
		err.Position.Line,
		err.Position.Column,
		err.Reason,
		err.Address,
	)
}

type ProgramTooLargeError struct {
	Position Cursor
	Required int
	Received int
}

func (err *ProgramTooLargeError) GetPosition() Cursor {
	return err.Position
}

func (err *ProgramTooLargeError) Error() string {
	message := fmt.Sprintf(
		"Binary exceeds allowed size\n\twant:%d\n\thave:%d",
		err.Required,
		err.Received,
	)

	// Streams built without source carry no position
	if err.Position.Line == 0 {
		return message
	}

	return fmt.Sprintf(
		"%02d:%02d: %s", err.Position.Line, err.Position.Column, message,
	)
}
