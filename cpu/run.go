package cpu

import (
	"errors"
	"fmt"
	"io"
)

// DefaultMaxCycles bounds the interpreter loop when no bound is configured.
const DefaultMaxCycles = 100000

var (
	// ErrWatchdog indicates that the cycle bound was exceeded before the
	// program reached its termination sentinel.
	ErrWatchdog = errors.New("cpu: cycle bound exceeded")

	// ErrBadPC indicates a program counter that is misaligned or outside
	// the RAM. This is a runtime fault of the guest program, not of the
	// emulator, so it is an error rather than a panic.
	ErrBadPC = errors.New("cpu: bad program counter")
)

// fetch returns the instruction word at PC, or false when PC points at a
// clean cell (the end of the loaded program).
func (p *Processor) fetch() (uint32, bool, error) {
	if p.PC < 0 || p.PC%4 != 0 || int(p.PC/4) >= p.Ram.Size() {
		return 0, false, fmt.Errorf("%w: pc=%d", ErrBadPC, p.PC)
	}
	cell := p.Ram.ReadIndex(int(p.PC / 4))
	if !cell.Dirty {
		return 0, false, nil
	}
	return uint32(cell.Value), true, nil
}

// Step executes exactly one instruction: fetch at PC, decode, merge the
// effect. It returns the decoded Effect, whether an instruction was
// executed at all (false means PC reached a clean cell), and any fault.
// An Effect that marks the termination sentinel is returned without being
// merged, so PC is left on the halting instruction.
func (p *Processor) Step() (*Effect, bool, error) {
	w, ok, err := p.fetch()
	if err != nil || !ok {
		return nil, false, err
	}
	e, err := Decode(w, p)
	if err != nil {
		return nil, true, err
	}
	if e.Halt {
		return e, true, nil
	}
	if err := p.Apply(e); err != nil {
		return e, true, err
	}
	return e, true, nil
}

// Run drives the fetch/decode/execute loop until the termination sentinel,
// the end of the loaded program, a fault, or the cycle bound. Decode log
// lines are written to logw when it is non-nil. The executed cycle count is
// returned either way.
//
// The loop is strictly sequential; register and memory writes from
// instruction N are observable by instruction N+1 and no earlier, which the
// decode-then-apply split enforces even when an instruction reads the
// register it writes.
func (p *Processor) Run(maxCycles int, logw io.Writer) (int, error) {
	if maxCycles <= 0 {
		maxCycles = DefaultMaxCycles
	}
	for cycles := 0; cycles < maxCycles; cycles++ {
		e, executed, err := p.Step()
		if e != nil && logw != nil {
			for _, line := range e.Log {
				fmt.Fprintln(logw, line)
			}
		}
		if err != nil {
			return cycles, err
		}
		if !executed {
			// clean cell: ran off the end of the loaded program
			return cycles, nil
		}
		if e.Halt {
			return cycles + 1, nil
		}
	}
	return maxCycles, fmt.Errorf("%w: %d cycles", ErrWatchdog, maxCycles)
}
