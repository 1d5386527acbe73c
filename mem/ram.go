// Package mem implements the word-addressable RAM that backs the processor.
//
// Unlike a flat byte array, the RAM is a bank of cells, each carrying the
// byte address it is bound to, a 32-bit value, and a dirty marker. The
// program loader binds cells to addresses 0, 4, 8, ... and store
// instructions either update the cell already bound to an address or claim
// the lowest-indexed free cell. Claiming lowest-first keeps the dirty dump
// stable between runs.
package mem

import (
	"errors"
	"fmt"
	"strings"
)

// DefaultSize is the cell count used when no RAM size is configured.
const DefaultSize = 1024

var (
	// ErrFull indicates that a store could not claim a free cell.
	ErrFull = errors.New("mem: ram full")

	// ErrSelfTest indicates that the power-on write/read walk failed.
	ErrSelfTest = errors.New("mem: self test failed")
)

// A Cell is one word of RAM together with the byte address it is bound to.
// Addr is only meaningful while Dirty is true.
type Cell struct {
	Addr  int32
	Value int32
	Dirty bool
}

// RAM is a fixed bank of cells. The zero value is unusable; use New.
type RAM struct {
	cells []Cell
}

// New returns a zeroed RAM with the given number of cells. A non-positive
// size gives DefaultSize cells.
func New(size int) *RAM {
	if size <= 0 {
		size = DefaultSize
	}
	return &RAM{cells: make([]Cell, size)}
}

// Size returns the cell count.
func (r *RAM) Size() int { return len(r.cells) }

// checkIndex panics on an out-of-range cell index. Index access is used by
// the loader, the self test, the interpreter fetch and the debugger view, all
// of which compute indices from trusted state, so a bad index is a programmer
// error.
func (r *RAM) checkIndex(i int) {
	if i < 0 || i >= len(r.cells) {
		panic(fmt.Sprintf("mem: cell index %d out of range [0,%d)", i, len(r.cells)))
	}
}

// ReadIndex returns the cell at index i.
func (r *RAM) ReadIndex(i int) Cell {
	r.checkIndex(i)
	return r.cells[i]
}

// WriteIndex binds the cell at index i to addr and marks it dirty.
func (r *RAM) WriteIndex(i int, addr, value int32) {
	r.checkIndex(i)
	r.cells[i] = Cell{Addr: addr, Value: value, Dirty: true}
}

// ReadAddress returns the value of the cell bound to addr, or 0 when no cell
// is bound to it. Loads from unmapped addresses are not an error; the
// caller may warn.
func (r *RAM) ReadAddress(addr int32) int32 {
	for i := range r.cells {
		if r.cells[i].Dirty && r.cells[i].Addr == addr {
			return r.cells[i].Value
		}
	}
	return 0
}

// Mapped reports whether a cell is bound to addr.
func (r *RAM) Mapped(addr int32) bool {
	for i := range r.cells {
		if r.cells[i].Dirty && r.cells[i].Addr == addr {
			return true
		}
	}
	return false
}

// WriteAddress stores value at addr. When a cell is already bound to addr it
// is updated in place; otherwise the lowest-indexed free cell is claimed.
// Returns ErrFull when every cell is taken.
func (r *RAM) WriteAddress(addr, value int32) error {
	for i := range r.cells {
		if r.cells[i].Dirty && r.cells[i].Addr == addr {
			r.cells[i].Value = value
			return nil
		}
	}
	for i := range r.cells {
		if !r.cells[i].Dirty {
			r.cells[i] = Cell{Addr: addr, Value: value, Dirty: true}
			return nil
		}
	}
	return fmt.Errorf("%w: no free cell for address %d", ErrFull, addr)
}

// Reset clears every cell.
func (r *RAM) Reset() {
	for i := range r.cells {
		r.cells[i] = Cell{}
	}
}

// DumpDirty renders the dirty cells, one per line, in cell order.
func (r *RAM) DumpDirty() string {
	var sb strings.Builder
	for i, c := range r.cells {
		if !c.Dirty {
			continue
		}
		fmt.Fprintf(&sb, "[%4d] addr %4d: %032b: %d\n", i, c.Addr, uint32(c.Value), c.Value)
	}
	return sb.String()
}

// SelfTest walks every cell with a write/read round trip and resets the RAM
// afterwards. Run once at boot, before any program is loaded.
func (r *RAM) SelfTest() error {
	for i := range r.cells {
		r.WriteIndex(i, int32(i*4), 1)
		if got := r.ReadIndex(i); !got.Dirty || got.Value != 1 {
			return fmt.Errorf("%w: cell %d read back %+v", ErrSelfTest, i, got)
		}
	}
	r.Reset()
	return nil
}
