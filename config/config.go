// Package config holds the run configuration: the knobs that may be set from
// a TOML file or overridden by CLI flags. The fixed architectural constants
// (cpu.XLen, cpu.RegSize) live in package cpu.
package config

import (
	"fmt"

	"github.com/BurntSushi/toml"

	"risculator/cpu"
	"risculator/mem"
)

// Config is the emulator configuration. The zero value is not useful;
// start from Default.
type Config struct {
	RAMSize   int    `toml:"ram_size"`
	MaxCycles int    `toml:"max_cycles"`
	MISA      uint32 `toml:"misa"`
}

// Default returns the stock RV32I configuration.
func Default() Config {
	return Config{
		RAMSize:   mem.DefaultSize,
		MaxCycles: cpu.DefaultMaxCycles,
		MISA:      cpu.DefaultMISA,
	}
}

// Load reads a TOML file over the defaults. Unknown keys are an error; a
// typo in a config file should not silently fall back to a default.
func Load(path string) (Config, error) {
	c := Default()
	meta, err := toml.DecodeFile(path, &c)
	if err != nil {
		return c, fmt.Errorf("config: %w", err)
	}
	if undec := meta.Undecoded(); len(undec) > 0 {
		return c, fmt.Errorf("config: unknown key %q in %s", undec[0].String(), path)
	}
	return c, c.Validate()
}

// Validate rejects configurations the emulator cannot run with.
func (c Config) Validate() error {
	if c.RAMSize <= 0 {
		return fmt.Errorf("config: ram_size must be positive, got %d", c.RAMSize)
	}
	if c.MaxCycles <= 0 {
		return fmt.Errorf("config: max_cycles must be positive, got %d", c.MaxCycles)
	}
	if cpu.Extensions(c.MISA) == "" {
		return fmt.Errorf("config: misa %d names no extension", c.MISA)
	}
	return nil
}
