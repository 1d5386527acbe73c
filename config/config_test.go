package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "risculator.toml")
	assert.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDefault(t *testing.T) {
	c := Default()
	assert.NoError(t, c.Validate())
	assert.Equal(t, c.RAMSize, 1024)
	assert.Equal(t, c.MISA, uint32(0x100))
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, "ram_size = 256\nmax_cycles = 500\n")
	c, err := Load(path)
	assert.NoError(t, err)
	assert.Equal(t, c.RAMSize, 256)
	assert.Equal(t, c.MaxCycles, 500)
	// untouched keys keep their defaults
	assert.Equal(t, c.MISA, uint32(0x100))
}

func TestLoadUnknownKey(t *testing.T) {
	path := writeConfig(t, "ram_sise = 256\n")
	_, err := Load(path)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	c := Default()
	c.RAMSize = 0
	assert.Error(t, c.Validate())

	c = Default()
	c.MaxCycles = -1
	assert.Error(t, c.Validate())

	c = Default()
	c.MISA = 0
	assert.Error(t, c.Validate())
}
