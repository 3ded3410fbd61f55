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
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/tebeka/atexit"

	"github.com/lassandro/botasm/pkg/debugger"
	"github.com/lassandro/botasm/pkg/encoding"
	"github.com/lassandro/botasm/pkg/term"
)

var helpvar bool
var ordervar string
var imagevar string

const usage = "botdb [-order big|little] filename"

func init() {
	exe, _ := os.Executable()
	log.SetFlags(0)
	log.SetPrefix(fmt.Sprintf("%s: ", filepath.Base(exe)))
	log.SetOutput(os.Stderr)
}

func init() {
	flag.BoolVar(&helpvar, "help", false, "Displays command usage")
	flag.StringVar(
		&ordervar, "order", "big",
		"Byte order the image was written in, 'big' or 'little'",
	)
	flag.Parse()
}

func botdb() int {
	if helpvar {
		fmt.Println(usage)
		flag.PrintDefaults()
		return 0
	}

	args := flag.Args()

	if len(args) != 1 {
		log.Println(usage)
		return 1
	}

	order, err := encoding.ParseByteOrder(ordervar)
	if err != nil {
		log.Println(err)
		return 1
	}

	file, err := os.Open(args[0])

	if err != nil {
		log.Println(err)
		return 1
	}

	defer file.Close()

	dbg := debugger.Debugger{
		Color: term.IsTerminal(os.Stdout),
		Order: order,
		Out:   os.Stdout,
	}

	imagevar = args[0]

	if dbg.Image, err = debugger.LoadImage(file, order); err != nil {
		log.Println(err)
		return 1
	}

	filename := filepath.Join(
		filepath.Dir(args[0]),
		strings.TrimSuffix(filepath.Base(args[0]), filepath.Ext(args[0]))+".botdb",
	)

	if file, err := os.Open(filename); err == nil {
		if dbg.Info, err = debugger.LoadDebugInfo(file); err != nil {
			log.Println(err)
		}

		file.Close()
	} else {
		log.Println("Error loading symbol file")
		log.Println(err)
	}

	if dbg.Info != nil && dbg.Info.Source != "" {
		if file, err := os.Open(dbg.Info.Source); err == nil {
			dbg.Source = file
			atexit.Register(func() { file.Close() })
		} else {
			log.Println("Error loading source file")
			log.Println(err)
		}
	}

	debugREPL(&dbg, os.Stdin)

	return 0
}

func main() {
	atexit.Exit(botdb())
}
