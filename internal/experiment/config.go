// Copyright 2025 Esteban Alvarez. All Rights Reserved.
//
// Created: October 2025
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package experiment

import (
	"errors"
	"fmt"
	"image/color"
	"os"
	"slices"
	"strconv"

	"gopkg.in/yaml.v3"

	"sortbench"
)

// DefaultTrials is the number of trials per cell. The 95% confidence
// interval constant in the stats package assumes exactly this many.
const DefaultTrials = 10

// Config is the single configuration value of a run. Build it once at
// startup and pass it by value; nothing mutates it after Validate.
type Config struct {
	// LargeSizes and SmallSizes are the input sizes of each regime.
	LargeSizes []int `yaml:"large_sizes"`
	SmallSizes []int `yaml:"small_sizes"`

	// Trials per cell. Each trial is one timed and one counted sort.
	Trials int `yaml:"trials"`

	// Seed for the random ordering generator.
	Seed uint64 `yaml:"seed"`

	// Strict aborts the run on the first unsorted output instead of logging it.
	Strict bool `yaml:"strict"`

	// OutputDir receives charts and file exports. Empty means the working directory.
	OutputDir string `yaml:"output_dir"`

	// Colors maps algorithm name to a "#rrggbb" chart colour.
	Colors map[string]string `yaml:"colors"`

	// LineStyles maps ordering to a chart line style: "-", "--", ":" or "-.".
	LineStyles map[Ordering]string `yaml:"line_styles"`
}

// DefaultConfig returns the standard matrix: 1000..10000 step 1000, 10..100
// step 10, ten trials.
func DefaultConfig() Config {
	return Config{
		LargeSizes: sizeRange(1000, 10000, 1000),
		SmallSizes: sizeRange(10, 100, 10),
		Trials:     DefaultTrials,
		Seed:       1,
		Colors: map[string]string{
			sortbench.InsertionName: "#1f77b4",
			sortbench.QuickName:     "#ff7f0e",
			sortbench.MergeName:     "#2ca02c",
		},
		LineStyles: map[Ordering]string{
			Random:     "-",
			Ascending:  "--",
			Descending: ":",
		},
	}
}

func sizeRange(from, to, step int) []int {
	var out []int
	for n := from; n <= to; n += step {
		out = append(out, n)
	}
	return out
}

// LoadConfig reads a YAML file over DefaultConfig. Keys absent from the file
// keep their defaults; lists in the file replace the default lists.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	raw, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, cfg.Validate()
}

// Validate reports the first problem found in the configuration.
func (c Config) Validate() error {
	if c.Trials < 1 {
		return fmt.Errorf("trials must be at least 1, got %d", c.Trials)
	}
	if len(c.LargeSizes) == 0 && len(c.SmallSizes) == 0 {
		return errors.New("no sizes configured")
	}
	for _, r := range Regimes() {
		seen := make(map[int]bool)
		for _, n := range c.Sizes(r) {
			if n < 0 {
				return fmt.Errorf("%s sizes: negative size %d", r, n)
			}
			if seen[n] {
				return fmt.Errorf("%s sizes: duplicate size %d", r, n)
			}
			seen[n] = true
		}
	}
	for name, hex := range c.Colors {
		if _, err := ParseColor(hex); err != nil {
			return fmt.Errorf("colors: %s: %w", name, err)
		}
	}
	for o, style := range c.LineStyles {
		if !o.valid() {
			return fmt.Errorf("line_styles: unknown ordering %q", o)
		}
		switch style {
		case "-", "--", ":", "-.":
		default:
			return fmt.Errorf("line_styles: unknown style %q for %s", style, o)
		}
	}
	return nil
}

// Sizes returns a copy of the sizes of regime r.
func (c Config) Sizes(r Regime) []int {
	if r == Small {
		return slices.Clone(c.SmallSizes)
	}
	return slices.Clone(c.LargeSizes)
}

// Cells returns the number of cells a complete run produces per algorithm.
func (c Config) Cells() int {
	return (len(c.LargeSizes) + len(c.SmallSizes)) * len(Orderings())
}

// ParseColor parses "#rrggbb". An empty string yields black.
func ParseColor(s string) (color.Color, error) {
	if s == "" {
		return color.Black, nil
	}
	if len(s) != 7 || s[0] != '#' {
		return nil, fmt.Errorf("invalid colour %q: want #rrggbb", s)
	}
	v, err := strconv.ParseUint(s[1:], 16, 32)
	if err != nil {
		return nil, fmt.Errorf("invalid colour %q: %w", s, err)
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}, nil
}
