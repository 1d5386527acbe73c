package cpu

import "risculator/mask"

// Instruction field accessors. Positions follow riscv-spec-v2.2, chapter 2:
// bit 31 is the MSB of the fetched word.

func opcode(w uint32) uint32 { return mask.Bits(w, 6, 0) }
func rd(w uint32) int        { return int(mask.Bits(w, 11, 7)) }
func funct3(w uint32) uint32 { return mask.Bits(w, 14, 12) }
func rs1(w uint32) int       { return int(mask.Bits(w, 19, 15)) }
func rs2(w uint32) int       { return int(mask.Bits(w, 24, 20)) }
func funct7(w uint32) uint32 { return mask.Bits(w, 31, 25) }

// Immediate reconstruction. Each format scatters its immediate across the
// word; the assembled bit pattern is sign-extended from the format's known
// sign position (always inst[31]) to a two's-complement 32-bit value.

// immI assembles inst[31:20].
func immI(w uint32) int32 {
	return mask.SignExtend(mask.Bits(w, 31, 20), 12)
}

// immS assembles inst[31:25] ++ inst[11:7].
func immS(w uint32) int32 {
	v := mask.Bits(w, 31, 25)<<5 | mask.Bits(w, 11, 7)
	return mask.SignExtend(v, 12)
}

// immB assembles inst[31] ++ inst[7] ++ inst[30:25] ++ inst[11:8] ++ 0.
// Branch offsets are always even; bit 0 is implicit.
func immB(w uint32) int32 {
	v := mask.Bit(w, 31)<<12 |
		mask.Bit(w, 7)<<11 |
		mask.Bits(w, 30, 25)<<5 |
		mask.Bits(w, 11, 8)<<1
	return mask.SignExtend(v, 13)
}

// immU assembles inst[31:12] ++ 12 zero bits. Already a full 32-bit value,
// no extension needed.
func immU(w uint32) int32 {
	return int32(w & 0xfffff000)
}

// immJ assembles inst[31] ++ inst[19:12] ++ inst[20] ++ inst[30:21] ++ 0.
func immJ(w uint32) int32 {
	v := mask.Bit(w, 31)<<20 |
		mask.Bits(w, 19, 12)<<12 |
		mask.Bit(w, 20)<<11 |
		mask.Bits(w, 30, 21)<<1
	return mask.SignExtend(v, 21)
}
