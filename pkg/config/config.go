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

package config

import (
	"bytes"
	"io"
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/lassandro/botasm/pkg/encoding"
)

// DefaultFile is looked up in the working directory when no config file is
// named on the command line.
const DefaultFile = "botasm.yaml"

type Config struct {
	OutExt    string `yaml:"out_ext"`
	ByteOrder string `yaml:"byte_order"`
	Debug     bool   `yaml:"debug"`
	Listing   bool   `yaml:"listing"`
	Jobs      int    `yaml:"jobs"`
}

func Default() Config {
	return Config{
		OutExt:    ".bin",
		ByteOrder: "big",
		Jobs:      1,
	}
}

func (c *Config) Validate() error {
	if c.OutExt == "" || c.OutExt[0] != '.' {
		return errors.Errorf("out_ext %q must start with '.'", c.OutExt)
	}

	if _, err := encoding.ParseByteOrder(c.ByteOrder); err != nil {
		return err
	}

	if c.Jobs < 1 {
		return errors.Errorf("jobs must be at least 1, have %d", c.Jobs)
	}

	return nil
}

// Decode reads a YAML config on top of the defaults. Unknown keys are
// rejected.
func Decode(r io.Reader) (Config, error) {
	cfg := Default()

	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)

	if err := decoder.Decode(&cfg); err != nil && err != io.EOF {
		return Config{}, errors.Wrap(err, "decoding config")
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, errors.Wrap(err, "invalid config")
	}

	return cfg, nil
}

// Load reads the config file at path. A missing file yields the defaults
// unless required is set.
func Load(path string, required bool) (Config, error) {
	data, err := os.ReadFile(path)

	if err != nil {
		if os.IsNotExist(err) && !required {
			return Default(), nil
		}

		return Config{}, errors.Wrapf(err, "loading config %s", path)
	}

	cfg, err := Decode(bytes.NewReader(data))
	if err != nil {
		return Config{}, errors.Wrap(err, path)
	}

	return cfg, nil
}
