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
	"strings"

	"github.com/lassandro/botasm/pkg/encoding"
)

var valueTokens = []TokenType{TOKEN_LITERAL, TOKEN_IDENT, TOKEN_MINUS}
var operandTokens = []TokenType{
	TOKEN_REGISTER, TOKEN_LITERAL, TOKEN_IDENT, TOKEN_OPEN_BRACKET,
}

type parser struct {
	tokens  []Token
	current int
	errs    []error
}

func (p *parser) peek() *Token {
	return &p.tokens[p.current]
}

// next consumes a token. The trailing TOKEN_EOF is never consumed.
func (p *parser) next() *Token {
	token := &p.tokens[p.current]

	if token.Type != TOKEN_EOF {
		p.current++
	}

	return token
}

func (p *parser) expect(tokenType TokenType) (*Token, bool) {
	token := p.peek()

	if token.Type != tokenType {
		p.errs = append(
			p.errs,
			&InvalidOperandError{token.Position, []TokenType{tokenType}, token.Type},
		)

		return token, false
	}

	return p.next(), true
}

// skipLine drops the rest of the line of a statement that failed to parse.
func (p *parser) skipLine(line int) {
	for p.peek().Type != TOKEN_EOF && p.peek().Position.Line == line {
		p.next()
	}
}

func (p *parser) register(token *Token) (uint16, bool) {
	reg, _ := parseRegister(token.Value)

	if reg == REGISTER_INVALID {
		p.errs = append(p.errs, &InvalidRegisterError{token.Position})
		return 0, false
	}

	return reg, true
}

func (p *parser) parseValue() (Value, bool) {
	token := p.next()

	switch token.Type {
	case TOKEN_LITERAL:
		number, err := encoding.DecodeLiteral(token.Value)
		if err != nil {
			p.errs = append(p.errs, &InvalidLiteralError{token.Position})
			return Value{}, false
		}

		return NumberValue(number), true

	case TOKEN_MINUS:
		literal, ok := p.expect(TOKEN_LITERAL)
		if !ok {
			return Value{}, false
		}

		number, err := encoding.DecodeLiteral(literal.Value)
		if err != nil {
			p.errs = append(p.errs, &InvalidLiteralError{literal.Position})
			return Value{}, false
		}

		return NumberValue(0 - number), true

	case TOKEN_IDENT:
		return LabelValue(token.Value), true
	}

	p.errs = append(
		p.errs, &InvalidOperandError{token.Position, valueTokens, token.Type},
	)

	return Value{}, false
}

func (p *parser) parseTerm() (Term, bool) {
	token := p.peek()

	switch token.Type {
	case TOKEN_REGISTER:
		p.next()
		reg, ok := p.register(token)
		return RegisterTerm(reg), ok

	case TOKEN_LITERAL, TOKEN_IDENT:
		value, ok := p.parseValue()
		return ImmediateTerm(value), ok
	}

	p.errs = append(
		p.errs,
		&InvalidOperandError{
			token.Position,
			[]TokenType{TOKEN_REGISTER, TOKEN_LITERAL, TOKEN_IDENT},
			token.Type,
		},
	)

	return Term{}, false
}

// parseOperand reads one of:
//
//	r1        register
//	42, loop  immediate
//	[42]      direct
//	[r1]      indexed, zero offset
//	[r1 - 4]  indexed
//	[loop + r1]
func (p *parser) parseOperand() (Operand, bool) {
	token := p.peek()

	switch token.Type {
	case TOKEN_REGISTER:
		p.next()
		reg, ok := p.register(token)
		return RegisterOperand(reg), ok

	case TOKEN_LITERAL, TOKEN_IDENT, TOKEN_MINUS:
		value, ok := p.parseValue()
		return ImmediateOperand(value), ok

	case TOKEN_OPEN_BRACKET:
		p.next()

		base, ok := p.parseTerm()
		if !ok {
			return Operand{}, false
		}

		var operand Operand

		switch p.peek().Type {
		case TOKEN_CLOSE_BRACKET:
			if base.Type == OPERAND_REGISTER {
				operand = IndexedOperand(base, SIGN_PLUS, ImmediateTerm(NumberValue(0)))
			} else {
				operand = DirectOperand(base.Value)
			}

		case TOKEN_PLUS, TOKEN_MINUS:
			sign := SIGN_PLUS
			if p.next().Type == TOKEN_MINUS {
				sign = SIGN_MINUS
			}

			offset, ok := p.parseTerm()
			if !ok {
				return Operand{}, false
			}

			operand = IndexedOperand(base, sign, offset)

		default:
			next := p.peek()
			p.errs = append(
				p.errs,
				&InvalidOperandError{
					next.Position,
					[]TokenType{TOKEN_CLOSE_BRACKET, TOKEN_PLUS, TOKEN_MINUS},
					next.Type,
				},
			)

			return Operand{}, false
		}

		if _, ok := p.expect(TOKEN_CLOSE_BRACKET); !ok {
			return Operand{}, false
		}

		return operand, true
	}

	p.errs = append(
		p.errs, &InvalidOperandError{token.Position, operandTokens, token.Type},
	)

	return Operand{}, false
}

func isOperandStart(tokenType TokenType) bool {
	for _, t := range operandTokens {
		if t == tokenType {
			return true
		}
	}

	return tokenType == TOKEN_MINUS
}

func (p *parser) parseInstruction() (*Instruction, bool) {
	keyword := p.next()
	opcode, _ := parseInstruction(keyword.Value)

	var operands []Operand

	// Operands must start on the mnemonic's line
	if next := p.peek(); next.Position.Line == keyword.Position.Line &&
		isOperandStart(next.Type) {
		for {
			operand, ok := p.parseOperand()
			if !ok {
				return nil, false
			}

			operands = append(operands, operand)

			if p.peek().Type != TOKEN_COMMA {
				break
			}

			p.next()
		}
	}

	if count := len(operands); count != opcode.Arity() {
		p.errs = append(
			p.errs,
			&InvalidNumArgumentsError{keyword.Position, opcode.Arity(), count},
		)

		return nil, false
	}

	inst := &Instruction{Position: keyword.Position, Opcode: opcode}

	if len(operands) > 0 {
		inst.Operand1 = operands[0]
	}

	if len(operands) > 1 {
		inst.Operand2 = operands[1]
	}

	return inst, true
}

func (p *parser) parseData() (*Data, bool) {
	open := p.next()
	data := &Data{Position: open.Position, Values: []Value{}}

	if p.peek().Type == TOKEN_CLOSE_CURLY {
		p.next()
		return data, true
	}

	for {
		value, ok := p.parseValue()
		if !ok {
			return nil, false
		}

		data.Values = append(data.Values, value)

		token := p.peek()

		if token.Type == TOKEN_CLOSE_CURLY {
			p.next()
			return data, true
		}

		if token.Type == TOKEN_COMMA {
			p.next()
		} else {
			p.errs = append(
				p.errs,
				&InvalidOperandError{
					token.Position,
					[]TokenType{TOKEN_COMMA, TOKEN_CLOSE_CURLY},
					token.Type,
				},
			)

			return nil, false
		}
	}
}

// Parse turns tokens into the instruction stream consumed by the assembler
// passes. All statements are parsed even after an error so that every
// problem in the source is reported at once. The stream ends with an End
// record.
func Parse(tokens []Token) (stream []Record, errs []error) {
	if len(tokens) == 0 || tokens[len(tokens)-1].Type != TOKEN_EOF {
		tokens = append(tokens, Token{Type: TOKEN_EOF})
	}

	p := &parser{tokens: tokens}

	for {
		token := p.peek()
		line := token.Position.Line

		var record Record
		var ok = true

		switch token.Type {
		case TOKEN_EOF:
			return append(stream, &End{token.Position}), p.errs

		case TOKEN_INFO:
			p.next()
			record = &Metadata{token.Position, strings.Split(token.Value, ", ")}

		case TOKEN_IDENT:
			p.next()

			if p.peek().Type == TOKEN_COLON {
				p.next()
				record = &LabelDefinition{token.Position, token.Value}
			} else {
				p.errs = append(
					p.errs, &UnknownIdentifierError{token.Position, token.Value},
				)
				ok = false
			}

		case TOKEN_INSTRUCTION:
			record, ok = p.parseInstruction()

		case TOKEN_OPEN_CURLY:
			record, ok = p.parseData()

		default:
			p.next()
			p.errs = append(
				p.errs,
				&InvalidOperandError{
					token.Position,
					[]TokenType{TOKEN_INSTRUCTION, TOKEN_IDENT, TOKEN_OPEN_CURLY},
					token.Type,
				},
			)
			ok = false
		}

		if !ok {
			p.skipLine(line)
			continue
		}

		stream = append(stream, record)
	}
}
