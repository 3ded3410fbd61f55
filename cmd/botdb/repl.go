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

package main

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/lassandro/botasm/pkg/debugger"
	"github.com/lassandro/botasm/pkg/encoding"
)

var lastcmd []string

// parseCount reads an optional word count argument.
func parseCount(arg string) (uint16, error) {
	value, err := strconv.ParseUint(arg, 10, 16)
	if err != nil {
		return 0, err
	}

	return uint16(value), nil
}

func debugSource(dbg *debugger.Debugger, args []string) {
	const usage = "source [0x####|label] [#]"

	if len(args) > 2 {
		log.Println(usage)
		return
	}

	var addr uint16 = dbg.Address
	var size uint16 = 3
	var err error

	if len(args) > 0 {
		if addr, err = dbg.ParseAddress(args[0]); err != nil {
			log.Println(err)
			return
		}
	}

	if len(args) > 1 {
		if size, err = parseCount(args[1]); err != nil {
			log.Println(err)
			return
		}
	}

	dbg.PrintSource(addr, size)
}

func debugLabels(dbg *debugger.Debugger, args []string) {
	const usage = "labels"

	if len(args) > 0 {
		log.Println(usage)
		return
	}

	dbg.PrintLabels()
}

func debugJump(dbg *debugger.Debugger, args []string) {
	const usage = "jump [0x####|label]"

	if len(args) != 1 {
		log.Println(usage)
		return
	}

	addr, err := dbg.ParseAddress(args[0])
	if err != nil {
		log.Println(err)
		return
	}

	dbg.Address = addr
	fmt.Printf("at %#04x\n", addr)
}

func debugMemory(dbg *debugger.Debugger, args []string) {
	const usage = "memory [0x####|label] [#]"

	if len(args) > 2 {
		log.Println(usage)
		return
	}

	var size uint16 = 1
	var addr uint16 = dbg.Address
	var err error

	if len(args) > 0 {
		if addr, err = dbg.ParseAddress(args[0]); err != nil {
			log.Println(err)
			return
		}
	}

	if len(args) > 1 {
		if size, err = parseCount(args[1]); err != nil {
			log.Println(err)
			return
		}
	}

	dbg.PrintMem(addr, size)
}

func debugDecode(dbg *debugger.Debugger, args []string) {
	const usage = "decode [0x####|label]"

	if len(args) > 1 {
		log.Println(usage)
		return
	}

	var addr uint16 = dbg.Address
	var err error

	if len(args) > 0 {
		if addr, err = dbg.ParseAddress(args[0]); err != nil {
			log.Println(err)
			return
		}
	}

	dbg.PrintInstruction(addr)
}

func debugSet(dbg *debugger.Debugger, args []string) {
	const usage = "set [0x####|label] [0x####]"

	if len(args) != 2 {
		log.Println(usage)
		return
	}

	addr, err := dbg.ParseAddress(args[0])

	if err != nil {
		log.Println(err)
		return
	}

	value, err := encoding.DecodeLiteral(args[1])

	if err != nil {
		log.Println(err)
		return
	}

	dbg.Image[addr] = value
	dbg.PrintMem(addr, 1)
}

func saveImage(dbg *debugger.Debugger, filename string) error {
	file, err := os.OpenFile(filename, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0666)
	if err != nil {
		return errors.Wrap(err, "Error writing image")
	}

	defer file.Close()

	writer := bufio.NewWriter(file)

	if err := dbg.Save(writer); err != nil {
		return err
	}

	return errors.Wrap(writer.Flush(), "Error writing image")
}

func debugWrite(dbg *debugger.Debugger, args []string) {
	const usage = "write [filename]"

	if len(args) > 1 {
		log.Println(usage)
		return
	}

	filename := imagevar
	if len(args) > 0 {
		filename = args[0]
	}

	if err := saveImage(dbg, filename); err != nil {
		log.Println(err)
		return
	}

	fmt.Printf("Image written to %s\n", filename)
}

func debugREPL(dbg *debugger.Debugger, input io.Reader) {
	scanner := bufio.NewScanner(input)

	for {
		fmt.Print("(dbg) ")

		if !scanner.Scan() {
			fmt.Println()
			return
		}

		args := strings.Fields(scanner.Text())

		if len(args) == 0 {
			if len(lastcmd) == 0 {
				continue
			}
			args = lastcmd
		} else {
			lastcmd = make([]string, len(args))
			copy(lastcmd, args)
		}

		cmd := args[0]
		args = args[1:]

		switch cmd {
		case "s", "src", "source":
			debugSource(dbg, args)

		case "l", "label", "labels":
			debugLabels(dbg, args)

		case "i", "info":
			dbg.PrintMetadata()

		case "j", "jmp", "jump":
			debugJump(dbg, args)

		case "m", "mem", "memory":
			debugMemory(dbg, args)

		case "d", "decode":
			debugDecode(dbg, args)

		case "set":
			debugSet(dbg, args)

		case "w", "write":
			debugWrite(dbg, args)

		case "q", "quit", "exit":
			return

		case "clear":
			fmt.Print("\033[H\033[2J")

		default:
			log.Printf("'%s' is not a valid command\n", cmd)
		}
	}
}
