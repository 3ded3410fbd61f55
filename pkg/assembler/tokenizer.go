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
	"bufio"
	"io"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

var punctuation = map[byte]TokenType{
	',': TOKEN_COMMA,
	':': TOKEN_COLON,
	'[': TOKEN_OPEN_BRACKET,
	']': TOKEN_CLOSE_BRACKET,
	'{': TOKEN_OPEN_CURLY,
	'}': TOKEN_CLOSE_CURLY,
	'+': TOKEN_PLUS,
	'-': TOKEN_MINUS,
}

func isDigit(char byte) bool {
	return char >= '0' && char <= '9'
}

func isLetter(char byte) bool {
	return (char >= 'a' && char <= 'z') || (char >= 'A' && char <= 'Z')
}

func isIdentChar(char byte) bool {
	return isLetter(char) || isDigit(char) || char == '_'
}

// Hex digits plus the 'x' of the 0x prefix
func isLiteralChar(char byte) bool {
	return isDigit(char) ||
		(char >= 'a' && char <= 'f') ||
		(char >= 'A' && char <= 'F') ||
		char == 'x' || char == 'X'
}

// parseRegister recognizes r0-r15 and sp. Names such as r16 are ordinary
// identifiers. r14 is recognized so that it can be rejected by the parser.
func parseRegister(ident string) (uint16, bool) {
	if strings.EqualFold(ident, "SP") {
		return REGISTER_SP, true
	}

	if len(ident) < 2 || (ident[0] != 'r' && ident[0] != 'R') {
		return 0, false
	}

	if !isDigit(ident[1]) {
		return 0, false
	}

	reg, err := strconv.ParseUint(ident[1:], 10, 16)

	if err != nil || reg > uint64(REGISTER_SP) {
		return 0, false
	}

	return uint16(reg), true
}

func tokenizeLine(
	line string, cursor Cursor, tokens []Token, errs []error,
) ([]Token, []error) {
	position := func(start, end int) Cursor {
		return Cursor{
			Line:     cursor.Line,
			Column:   start + 1,
			Byte:     cursor.LineByte + int64(start),
			Size:     int64(end - start),
			LineByte: cursor.LineByte,
		}
	}

	for i := 0; i < len(line); {
		char := line[i]

		switch {
		case char == ' ' || char == '\t' || char == '\r' || char == '\v' || char == '\f':
			i++

		// Comments
		case char == ';' || char == '/':
			return tokens, errs

		case punctuation[char] != TOKEN_NONE:
			tokens = append(tokens, Token{punctuation[char], position(i, i+1), line[i : i+1]})
			i++

		// Numeric Literal (i.e. 42, 0x2A)
		case isDigit(char):
			end := i
			for end < len(line) && isLiteralChar(line[end]) {
				end++
			}

			tokens = append(tokens, Token{TOKEN_LITERAL, position(i, end), line[i:end]})
			i = end

		case isLetter(char) || char == '_':
			end := i
			for end < len(line) && isIdentChar(line[end]) {
				end++
			}

			ident := line[i:end]

			// Bot metadata runs to the end of the line
			if strings.EqualFold(ident, "info") {
				info := strings.TrimLeftFunc(line[end:], func(r rune) bool {
					return !unicode.IsLetter(r) && !unicode.IsDigit(r)
				})
				info = strings.TrimRightFunc(info, unicode.IsSpace)

				tokens = append(tokens, Token{TOKEN_INFO, position(i, len(line)), info})
				return tokens, errs
			}

			if _, ok := parseRegister(ident); ok {
				tokens = append(tokens, Token{TOKEN_REGISTER, position(i, end), ident})
			} else if _, ok := parseInstruction(ident); ok {
				tokens = append(tokens, Token{TOKEN_INSTRUCTION, position(i, end), ident})
			} else {
				tokens = append(tokens, Token{TOKEN_IDENT, position(i, end), ident})
			}

			i = end

		default:
			r, size := utf8.DecodeRuneInString(line[i:])
			errs = append(errs, &UnexpectedCharacterError{position(i, i+size), r})
			i += size
		}
	}

	return tokens, errs
}

// Tokenize splits bot assembly source into tokens. The returned tokens always
// end with a TOKEN_EOF token, even when errors were found.
func Tokenize(input io.Reader) (tokens []Token, errs []error) {
	var scanner = bufio.NewScanner(input)
	var cursor = Cursor{Line: 1}

	for scanner.Scan() {
		line := scanner.Text()

		tokens, errs = tokenizeLine(line, cursor, tokens, errs)

		cursor.Line++
		cursor.LineByte += int64(len(line) + 1)
	}

	if err := scanner.Err(); err != nil {
		errs = append(errs, err)
	}

	cursor.Column = 1
	cursor.Byte = cursor.LineByte
	tokens = append(tokens, Token{Type: TOKEN_EOF, Position: cursor})

	return tokens, errs
}
