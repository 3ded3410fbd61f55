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
	"encoding/binary"
	"io"

	"github.com/lassandro/botasm/pkg/assembler"
)

// Debugger inspects an assembled image together with the debugging sidecar
// written next to it.
type Debugger struct {
	// Address is the current position, used when a command names none.
	Address uint16
	Color   bool

	Image  *assembler.Image
	Order  binary.ByteOrder
	Info   *assembler.DebugInfo
	Source io.ReadSeeker

	Out io.Writer
}
