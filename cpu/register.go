package cpu

import (
	"fmt"
	"strings"
)

// RegSize is the number of architectural registers (x0..x31).
const RegSize = 32

// A RegisterFile is a fixed bank of 32 signed word-sized slots with per-slot
// dirty markers. Writes to x0 are stored like any other write, but reads of
// x0 always yield 0; masking on read keeps the decoder unaware of the
// destination, which is simpler than rejecting the write.
type RegisterFile struct {
	regs  [RegSize]int32
	dirty [RegSize]bool
}

// checkReg panics on an out-of-range register index. Decoded indices are 5
// bits wide and can never exceed 31, so an out-of-range index is always a
// programmer error.
func checkReg(i int) {
	if i < 0 || i >= RegSize {
		panic(fmt.Sprintf("cpu: register index %d out of range [0,%d)", i, RegSize))
	}
}

// Read returns the value of slot i. Reads of x0 yield 0 regardless of
// stored contents.
func (rf *RegisterFile) Read(i int) int32 {
	checkReg(i)
	if i == 0 {
		return 0
	}
	return rf.regs[i]
}

// Write sets slot i and marks it dirty.
func (rf *RegisterFile) Write(i int, v int32) {
	checkReg(i)
	rf.regs[i] = v
	rf.dirty[i] = true
}

// Dirty reports whether slot i has been written since the last reset.
func (rf *RegisterFile) Dirty(i int) bool {
	checkReg(i)
	return rf.dirty[i]
}

// Reset clears every slot and dirty marker.
func (rf *RegisterFile) Reset() {
	*rf = RegisterFile{}
}

// String renders every slot, one per line, value in binary and decimal.
func (rf *RegisterFile) String() string {
	var sb strings.Builder
	for i := 0; i < RegSize; i++ {
		fmt.Fprintf(&sb, "x%-2d: %032b: %d\n", i, uint32(rf.Read(i)), rf.Read(i))
	}
	return sb.String()
}

// DumpDirty renders only the slots written since the last reset.
func (rf *RegisterFile) DumpDirty() string {
	var sb strings.Builder
	for i := 0; i < RegSize; i++ {
		if !rf.dirty[i] {
			continue
		}
		fmt.Fprintf(&sb, "x%-2d: %032b: %d\n", i, uint32(rf.Read(i)), rf.Read(i))
	}
	return sb.String()
}

// SelfTest walks slots x1..x31 with a write/read round trip and resets the
// file afterwards. x0 is skipped; it reads as zero no matter what is written.
func (rf *RegisterFile) SelfTest() error {
	for i := 1; i < RegSize; i++ {
		rf.Write(i, 1)
		if rf.Read(i) != 1 {
			return fmt.Errorf("cpu: register self test failed at x%d", i)
		}
	}
	rf.Reset()
	return nil
}
