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

package encoding

import (
	"encoding/binary"
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Decodes a hexidecimal string in the formats: 0xFFFF, xFFFF, 0xFF, xFF
func DecodeHex(s string) (uint16, error) {
	if i := strings.IndexAny(s, "xX"); i == 0 {
		s = "0" + s
	} else if i == -1 || i != 1 {
		return 0, errors.New("Invalid hex string")
	}

	result, err := strconv.ParseUint(s, 0, 16)

	if err != nil {
		return 0, err
	}

	return uint16(result), nil
}

// Decodes an unsigned base-10 string that fits in a word
func DecodeDecimal(s string) (uint16, error) {
	result, err := strconv.ParseUint(s, 10, 16)

	if err != nil {
		return 0, err
	}

	return uint16(result), nil
}

// Decodes a numeric literal as written in bot assembly: 0x2A or 42
func DecodeLiteral(s string) (uint16, error) {
	if len(s) > 1 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
		return DecodeHex(s)
	}

	return DecodeDecimal(s)
}

func SignExtend(value uint16, bitcount uint16) uint16 {
	if (value>>(bitcount-1))&0x1 == 1 {
		value |= (0xFFFF << bitcount)
	}

	return value
}

// ParseByteOrder maps "big" and "little" to their binary.ByteOrder.
func ParseByteOrder(name string) (binary.ByteOrder, error) {
	switch strings.ToLower(name) {
	case "", "big", "be":
		return binary.BigEndian, nil
	case "little", "le":
		return binary.LittleEndian, nil
	}

	return nil, errors.Errorf("unknown byte order %q", name)
}

// WriteImage writes every word of an image in the given byte order.
func WriteImage(w io.Writer, order binary.ByteOrder, image []uint16) error {
	return errors.Wrap(binary.Write(w, order, image), "WriteImage")
}

// ReadImage reads exactly size words in the given byte order.
func ReadImage(r io.Reader, order binary.ByteOrder, size int) ([]uint16, error) {
	image := make([]uint16, size)

	if err := binary.Read(r, order, image); err != nil {
		return nil, errors.Wrap(err, "ReadImage")
	}

	return image, nil
}
