package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDisassemble(t *testing.T) {
	cases := []struct {
		word uint32
		want string
	}{
		{0x00500093, "addi x1, x0, 5"},
		{0xfff00093, "addi x1, x0, -1"},
		{0x002081b3, "add x3, x1, x2"},
		{0x402081b3, "sub x3, x1, x2"},
		{0x00002103, "lw x2, 0(x0)"},
		{0x00102023, "sw x1, 0(x0)"},
		{0x123452b7, "lui x5, 0x12345"},
		{0x00001317, "auipc x6, 0x1"},
		{0x008000ef, "jal x1, 8"},
		{0x00008067, "ret"},
		{0x000100e7, "jalr x1, 0(x2)"},
		{0x00208463, "beq x1, x2, 8"},
		{0x4020d113, "srai x2, x1, 2"},
		{0x0000000f, "fence"},
		{0x00000073, "ecall"},
		{0x00100073, "ebreak"},
		{0x00000000, "<unknown instruction: 00000000>"},
		{0xffffffff, "<unknown instruction: ffffffff>"},
	}
	for _, c := range cases {
		assert.Equal(t, Disassemble(c.word), c.want, "word=%08x", c.word)
	}
}
