// Package config loads the compiler's YAML configuration: the target
// data-model widths internal/ctype's sizeof/alignof table uses, and the
// driver's default dump-file paths. It is read once at driver startup;
// nothing downstream of Load re-reads the file.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/cc23/cc23/internal/ctype"
)

// Widths overrides individual entries of specification §4.5's built-in
// ILP64-like size table. A nil field leaves internal/ctype's default for
// that type untouched.
type Widths struct {
	Short      *int `yaml:"short,omitempty"`
	Int        *int `yaml:"int,omitempty"`
	Long       *int `yaml:"long,omitempty"`
	LongLong   *int `yaml:"long_long,omitempty"`
	Float      *int `yaml:"float,omitempty"`
	Double     *int `yaml:"double,omitempty"`
	LongDouble *int `yaml:"long_double,omitempty"`
	Pointer    *int `yaml:"pointer,omitempty"`
}

// DumpPaths are the driver's default `--dump-*` targets, overridable on
// the command line; "" means "dump disabled" (the cobra default).
type DumpPaths struct {
	Tokens string `yaml:"tokens,omitempty"`
	AST    string `yaml:"ast,omitempty"`
	Types  string `yaml:"types,omitempty"`
	IR     string `yaml:"ir,omitempty"`
}

// Config is the top-level shape of a cc23 YAML config file.
type Config struct {
	Widths    Widths    `yaml:"widths,omitempty"`
	DumpPaths DumpPaths `yaml:"dump_paths,omitempty"`
}

// Default returns the zero-valued Config: no width overrides, no default
// dump paths. It is what a driver run without --config uses.
func Default() *Config { return &Config{} }

// Load reads and parses a YAML config file at path. A missing file is an
// error like any other read failure; the returned error wraps the
// underlying one, so callers can detect that case with
// errors.Is(err, fs.ErrNotExist).
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return cfg, nil
}

// Apply pushes every non-nil width override in cfg into types, per
// specification §4.5's target-data-model table. It is the single call
// site that turns a Config into ctype.Table state; nothing else mutates
// base sizes after a TU begins resolving declarations.
func (cfg *Config) Apply(types *ctype.Table) {
	if cfg == nil {
		return
	}
	w := cfg.Widths
	setIf(types, ctype.Short, w.Short)
	setIf(types, ctype.UShort, w.Short)
	setIf(types, ctype.Int, w.Int)
	setIf(types, ctype.UInt, w.Int)
	setIf(types, ctype.Long, w.Long)
	setIf(types, ctype.ULong, w.Long)
	setIf(types, ctype.LongLong, w.LongLong)
	setIf(types, ctype.ULongLong, w.LongLong)
	setIf(types, ctype.Float, w.Float)
	setIf(types, ctype.Double, w.Double)
	setIf(types, ctype.LongDouble, w.LongDouble)
	if w.Pointer != nil {
		types.SetPointerSize(*w.Pointer)
	}
}

func setIf(types *ctype.Table, tag ctype.Tag, v *int) {
	if v != nil {
		types.SetBaseSize(tag, *v)
	}
}
