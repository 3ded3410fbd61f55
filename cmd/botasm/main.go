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
	"bytes"
	"context"
	"encoding/gob"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/davecgh/go-spew/spew"
	"github.com/pkg/errors"
	"github.com/tebeka/atexit"

	"github.com/lassandro/botasm/pkg/assembler"
	"github.com/lassandro/botasm/pkg/config"
	"github.com/lassandro/botasm/pkg/encoding"
	"github.com/lassandro/botasm/pkg/listing"
	"github.com/lassandro/botasm/pkg/term"
)

var helpvar bool
var debugvar bool
var listvar bool
var verbosevar bool
var jobsvar int
var outvar string
var ordervar string
var configvar string

var colorvar bool

const usage = "botasm [-debug] [-list] [-verbose] [-config file] [-out outfile] filename"

func init() {
	log.SetFlags(0)
	log.SetOutput(os.Stderr)

	colorvar = term.IsTerminal(os.Stderr)
}

func init() {
	flag.BoolVar(&helpvar, "help", false, "Displays command usage")
	flag.BoolVar(
		&debugvar, "debug", false,
		"Specifies whether to generate debugging information as a symbol "+
			"table. The table will use the output filename with extension "+
			"'.botdb'",
	)
	flag.BoolVar(
		&listvar, "list", false,
		"Prints a listing of the assembled program to stdout",
	)
	flag.BoolVar(
		&verbosevar, "verbose", false,
		"Dumps the parsed program and traces both assembler passes to stderr",
	)
	flag.IntVar(
		&jobsvar, "jobs", 1,
		"Number of records to encode concurrently",
	)
	flag.StringVar(
		&outvar, "out", "",
		"Specifies a precise name for the output file, "+
			"overriding the default means of determining it",
	)
	flag.StringVar(
		&ordervar, "order", "",
		"Byte order of the output image, 'big' or 'little'",
	)
	flag.StringVar(
		&configvar, "config", "",
		"Reads defaults from a YAML config file instead of "+config.DefaultFile,
	)
	flag.Parse()
}

func bold(s string) string {
	if !colorvar {
		return s
	}

	return "\033[1m" + s + "\033[0m"
}

func red(s string) string {
	if !colorvar {
		return s
	}

	return "\033[31m" + s + "\033[0m"
}

// loadConfig merges the config file with the flags given on the command
// line, flags taking precedence.
func loadConfig() (config.Config, error) {
	var cfg config.Config
	var err error

	if configvar != "" {
		cfg, err = config.Load(configvar, true)
	} else {
		cfg, err = config.Load(config.DefaultFile, false)
	}

	if err != nil {
		return cfg, err
	}

	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "debug":
			cfg.Debug = debugvar
		case "list":
			cfg.Listing = listvar
		case "jobs":
			cfg.Jobs = jobsvar
		case "order":
			cfg.ByteOrder = ordervar
		}
	})

	return cfg, cfg.Validate()
}

func printErrors(errs []error, source []byte, stdin bool) {
	for _, err := range errs {
		tokenErr, ok := err.(assembler.TokenError)

		if stdin || !ok {
			log.Println(err)
			continue
		}

		cursor := tokenErr.GetPosition()

		if cursor.Line == 0 || cursor.LineByte > int64(len(source)) {
			log.Println(err)
			continue
		}

		line := source[cursor.LineByte:]

		if end := bytes.IndexByte(line, '\n'); end != -1 {
			line = line[:end]
		}

		underline := int(cursor.Size) - 1
		if underline < 0 {
			underline = 0
		}

		underlinefmt := fmt.Sprintf(
			"%% %ds%s",
			int(cursor.Byte-cursor.LineByte)+1,
			strings.Repeat("~", underline),
		)

		log.Printf(
			"%s\n%s\n%s",
			err,
			strings.TrimRight(string(line), "\r"),
			red(fmt.Sprintf(underlinefmt, "^")),
		)
	}
}

func writeImage(filename string, cfg config.Config, image *assembler.Image) error {
	order, err := encoding.ParseByteOrder(cfg.ByteOrder)
	if err != nil {
		return err
	}

	file, err := os.OpenFile(filename, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0666)
	if err != nil {
		return errors.Wrap(err, "Error writing output file")
	}

	defer file.Close()

	writer := bufio.NewWriter(file)

	if err := encoding.WriteImage(writer, order, image[:]); err != nil {
		return errors.Wrap(err, "Error writing output file")
	}

	return errors.Wrap(writer.Flush(), "Error writing output file")
}

func writeDebugInfo(filename string, debug *assembler.DebugInfo) error {
	file, err := os.OpenFile(filename, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0666)
	if err != nil {
		return errors.Wrap(err, "Error creating symbol table")
	}

	defer file.Close()

	return errors.Wrap(
		gob.NewEncoder(file).Encode(debug), "Error writing symbol table",
	)
}

func botasm() int {
	if helpvar {
		fmt.Println(usage)
		flag.PrintDefaults()
		return 0
	}

	cfg, err := loadConfig()
	if err != nil {
		log.Println(err)
		return 1
	}

	if verbosevar {
		slog.SetDefault(slog.New(slog.NewTextHandler(
			os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug},
		)))
	}

	args := flag.Args()

	var infile string
	var input io.Reader
	var stdin bool

	if stat, err := os.Stdin.Stat(); err == nil && stat.Mode()&os.ModeCharDevice == 0 && len(args) == 0 {
		input = os.Stdin
		stdin = true
		log.SetPrefix(bold("<stdin>:"))

		if outvar == "" {
			outvar = "out" + cfg.OutExt
		}
	} else {
		if len(args) != 1 {
			log.Println(usage)
			return 1
		}

		file, err := os.Open(args[0])

		if err != nil {
			log.Println(err)
			return 1
		}

		defer file.Close()

		filename := filepath.Base(file.Name())

		if stat, err := file.Stat(); err != nil {
			log.Println(err)
			return 1
		} else if stat.IsDir() {
			log.Printf("%s is not a valid bot assembly file", filename)
			return 1
		}

		input = file
		infile = file.Name()
		log.SetPrefix(bold(filename + ":"))

		if outvar == "" {
			outvar = strings.TrimSuffix(filename, filepath.Ext(filename)) + cfg.OutExt
		}
	}

	source, err := io.ReadAll(input)
	if err != nil {
		log.Println(errors.Wrap(err, "Error reading input"))
		return 1
	}

	stream, errs := assembler.ParseBotSource(bytes.NewReader(source))

	if len(errs) > 0 {
		printErrors(errs, source, stdin)
		return 1
	}

	if verbosevar {
		spew.Fdump(os.Stderr, stream)
	}

	image, symbols, err := assembler.Assemble(
		context.Background(), stream, assembler.Options{Jobs: cfg.Jobs},
	)

	if err != nil {
		printErrors([]error{err}, source, stdin)
		return 1
	}

	// Leave no half written image behind if anything below fails
	var done bool

	atexit.Register(func() {
		if !done {
			os.Remove(outvar)
		}
	})

	if err := writeImage(outvar, cfg, image); err != nil {
		log.Println(err)
		return 1
	}

	if cfg.Debug {
		debug := assembler.NewDebugInfo()

		if !stdin {
			if debug.Source, err = filepath.Abs(infile); err != nil {
				log.Println(err)
				debug.Source = ""
			}
		}

		assembler.FillDebugInfo(debug, stream, symbols)

		filename := filepath.Join(
			filepath.Dir(outvar),
			strings.TrimSuffix(filepath.Base(outvar), filepath.Ext(outvar))+".botdb",
		)

		if err := writeDebugInfo(filename, debug); err != nil {
			log.Println(err)
			return 1
		}
	}

	if cfg.Listing {
		if err := listing.Write(os.Stdout, image, stream, source); err != nil {
			log.Println(err)
			return 1
		}
	}

	if verbosevar {
		slog.Debug(
			"assembled",
			"out", outvar,
			"words", symbols.Size(),
			"labels", symbols.Len(),
		)
	}

	done = true

	return 0
}

func main() {
	atexit.Exit(botasm())
}
