// Package cpu implements an RV32I hart: the architectural state (register
// file, program counter, misa descriptor, privilege mode), the instruction
// decoder, and the fetch/decode/execute loop.
//
// The decoder is a pure function from (instruction word, processor state) to
// an Effect; it never mutates the processor. The interpreter applies the
// Effect afterwards, so every instruction observes the architectural state
// as it was before the instruction started.
package cpu

import (
	"fmt"

	"risculator/mem"
)

// XLen is the register width in bits.
const XLen = 32

// DefaultMISA has only bit 8 (I) set within the 26 extension bits: plain
// RV32I, no extensions.
const DefaultMISA = 0x100

// A Privilege is the hart's privilege mode. It is informational only; no
// privileged instruction is modeled.
type Privilege int

const (
	User Privilege = iota
	Supervisor
	Machine
)

func (p Privilege) String() string {
	switch p {
	case User:
		return "user"
	case Supervisor:
		return "supervisor"
	case Machine:
		return "machine"
	}
	return fmt.Sprintf("privilege(%d)", int(p))
}

// A Processor aggregates the architectural state of one hart. The processor
// owns its register file and RAM exclusively; it is not goroutine safe.
type Processor struct {
	Regs RegisterFile
	Ram  *mem.RAM

	// PC is the byte address of the current instruction. It is a multiple
	// of 4 at every instruction boundary; the word at PC lives in RAM
	// cell PC/4.
	PC int32

	MISA uint32
	Priv Privilege
}

// New returns a processor in machine mode with a default misa, wired to ram.
func New(ram *mem.RAM) *Processor {
	return &Processor{
		Ram:  ram,
		MISA: DefaultMISA,
		Priv: Machine,
	}
}

// Reset zeroes the register file, the RAM and the program counter.
func (p *Processor) Reset() {
	p.Regs.Reset()
	p.Ram.Reset()
	p.PC = 0
}

// Info renders the system information block shown during boot.
func (p *Processor) Info() string {
	return fmt.Sprintf(
		"instruction length: %d\nextensions: RV%d%s\nram size: %d\nprivilege: %s",
		XLen, XLen, Extensions(p.MISA), p.Ram.Size(), p.Priv,
	)
}

// Apply merges an Effect into the live state: register writes, memory
// writes, then the new PC. Only a store to a full RAM can fail.
func (p *Processor) Apply(e *Effect) error {
	for i, v := range e.Regs {
		p.Regs.Write(i, v)
	}
	for addr, v := range e.Mem {
		if err := p.Ram.WriteAddress(addr, v); err != nil {
			return err
		}
	}
	p.PC = e.NextPC
	return nil
}
