package cpu

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"risculator/mem"
)

// loadProc builds a processor with the given instruction words at byte
// addresses 0, 4, 8, ...
func loadProc(t *testing.T, words ...uint32) *Processor {
	t.Helper()
	ram := mem.New(64)
	for i, w := range words {
		ram.WriteIndex(i, int32(i*4), int32(w))
	}
	return New(ram)
}

func TestRunAddiChain(t *testing.T) {
	// addi x1, x0, 5; addi x2, x0, 10; add x3, x1, x2
	p := loadProc(t, 0x00500093, 0x00a00113, 0x002081b3)
	cycles, err := p.Run(0, nil)
	assert.NoError(t, err)
	assert.Equal(t, cycles, 3)
	assert.Equal(t, p.Regs.Read(1), int32(5))
	assert.Equal(t, p.Regs.Read(2), int32(10))
	assert.Equal(t, p.Regs.Read(3), int32(15))
	assert.Equal(t, p.PC, int32(12))
}

func TestRunLoadStoreRoundTrip(t *testing.T) {
	// addi x1, x0, 42; sw x1, 0(x0); lw x2, 0(x0)
	p := loadProc(t, 0x02a00093, 0x00102023, 0x00002103)
	_, err := p.Run(0, nil)
	assert.NoError(t, err)
	assert.Equal(t, p.Regs.Read(1), int32(42))
	assert.Equal(t, p.Regs.Read(2), int32(42))
	assert.Equal(t, p.Ram.ReadAddress(0), int32(42))
}

func TestRunLuiAuipc(t *testing.T) {
	// lui x5, 0x12345; auipc x6, 0x1
	p := loadProc(t, 0x123452b7, 0x00001317)
	cycles, err := p.Run(0, nil)
	assert.NoError(t, err)
	assert.Equal(t, cycles, 2)
	assert.Equal(t, p.Regs.Read(5), int32(0x12345000))
	assert.Equal(t, p.Regs.Read(6), int32(0x00001004))
	assert.Equal(t, p.PC, int32(8))
}

func TestRunJalrTerminator(t *testing.T) {
	// addi x1, x0, 1; jalr x0, 0(x1) -- the ret sentinel halts cleanly
	p := loadProc(t, 0x00100093, 0x00008067)
	cycles, err := p.Run(0, nil)
	assert.NoError(t, err)
	assert.Equal(t, cycles, 2)
}

func TestRunSignedCompare(t *testing.T) {
	// addi x1, x0, -1; addi x2, x0, 1; slt x3, x1, x2; sltu x4, x1, x2
	p := loadProc(t, 0xfff00093, 0x00100113, 0x0020a1b3, 0x0020b233)
	_, err := p.Run(0, nil)
	assert.NoError(t, err)
	assert.Equal(t, p.Regs.Read(3), int32(1))
	assert.Equal(t, p.Regs.Read(4), int32(0))
}

func TestRunBranchTaken(t *testing.T) {
	// addi x1, x0, 5; addi x2, x0, 5; beq x1, x2, +8
	// addi x3, x0, 99 (skipped); addi x4, x0, 7
	p := loadProc(t, 0x00500093, 0x00500113, 0x00208463, 0x06300193, 0x00700213)
	_, err := p.Run(0, nil)
	assert.NoError(t, err)
	assert.Equal(t, p.Regs.Read(3), int32(0))
	assert.Equal(t, p.Regs.Read(4), int32(7))
}

func TestRunPCStaysAligned(t *testing.T) {
	p := loadProc(t, 0x00500093, 0x00500113, 0x00208463, 0x06300193, 0x00700213)
	for {
		assert.Equal(t, p.PC%4, int32(0))
		_, executed, err := p.Step()
		assert.NoError(t, err)
		if !executed {
			break
		}
	}
}

func TestRunWatchdog(t *testing.T) {
	// jal x0, 0 spins forever
	p := loadProc(t, 0x0000006f)
	cycles, err := p.Run(10, nil)
	assert.ErrorIs(t, err, ErrWatchdog)
	assert.Equal(t, cycles, 10)
}

func TestRunDecodeFailure(t *testing.T) {
	p := loadProc(t, 0x00500093, 0xffffffff)
	_, err := p.Run(0, nil)
	assert.ErrorIs(t, err, ErrDecode)
	// the first instruction still executed
	assert.Equal(t, p.Regs.Read(1), int32(5))
}

func TestRunBadPC(t *testing.T) {
	// addi x1, x0, 2; jalr x2, 0(x1) jumps to pc=2, which is not a
	// multiple of 4
	p := loadProc(t, 0x00200093, 0x00008167)
	_, err := p.Run(0, nil)
	assert.ErrorIs(t, err, ErrBadPC)

	// jal x0, -4 at pc=0 leaves the ram entirely
	p = loadProc(t, 0xffdff06f)
	_, err = p.Run(0, nil)
	assert.ErrorIs(t, err, ErrBadPC)
}

func TestRunEcallExit(t *testing.T) {
	// addi x17, x0, 93; ecall
	p := loadProc(t, 0x05d00893, 0x00000073)
	cycles, err := p.Run(0, nil)
	assert.NoError(t, err)
	assert.Equal(t, cycles, 2)
}

func TestRunWritesDecodeLog(t *testing.T) {
	p := loadProc(t, 0x00500093, 0x00008067)
	var buf bytes.Buffer
	_, err := p.Run(0, &buf)
	assert.NoError(t, err)
	out := buf.String()
	assert.True(t, strings.Contains(out, "addi x1, x0, 5"), "log: %s", out)
	assert.True(t, strings.Contains(out, "x1 <- 00000000000000000000000000000101 (5)"), "log: %s", out)
	assert.True(t, strings.Contains(out, "ret"), "log: %s", out)
}

func TestProcessorReset(t *testing.T) {
	p := loadProc(t, 0x00500093)
	_, err := p.Run(0, nil)
	assert.NoError(t, err)
	p.Reset()
	assert.Equal(t, p.PC, int32(0))
	assert.Equal(t, p.Regs.Read(1), int32(0))
	assert.False(t, p.Ram.ReadIndex(0).Dirty)
}

func TestProcessorInfo(t *testing.T) {
	p := New(mem.New(100))
	info := p.Info()
	assert.True(t, strings.Contains(info, "extensions: RV32I\n"), "info: %s", info)
	assert.True(t, strings.Contains(info, "100"), "info: %s", info)
	assert.True(t, strings.Contains(info, "machine"), "info: %s", info)
}
