package cpu

import "fmt"

// Disassemble renders a single instruction word as assembly. Words the
// decoder would reject come back as a <unknown ...> marker instead of an
// error; the disassembly is only ever used for logs and the debugger view.
func Disassemble(w uint32) string {
	switch opcode(w) {
	case opLoad:
		if m := pick(funct3(w), []string{"lb", "lh", "lw", "", "lbu", "lhu"}); m != "" {
			return fmt.Sprintf("%s x%d, %d(x%d)", m, rd(w), immI(w), rs1(w))
		}
	case opStore:
		if m := pick(funct3(w), []string{"sb", "sh", "sw"}); m != "" {
			return fmt.Sprintf("%s x%d, %d(x%d)", m, rs2(w), immS(w), rs1(w))
		}
	case opImm:
		switch funct3(w) {
		case 0b000:
			return fmt.Sprintf("addi x%d, x%d, %d", rd(w), rs1(w), immI(w))
		case 0b010:
			return fmt.Sprintf("slti x%d, x%d, %d", rd(w), rs1(w), immI(w))
		case 0b011:
			return fmt.Sprintf("sltiu x%d, x%d, %d", rd(w), rs1(w), immI(w))
		case 0b100:
			return fmt.Sprintf("xori x%d, x%d, %d", rd(w), rs1(w), immI(w))
		case 0b110:
			return fmt.Sprintf("ori x%d, x%d, %d", rd(w), rs1(w), immI(w))
		case 0b111:
			return fmt.Sprintf("andi x%d, x%d, %d", rd(w), rs1(w), immI(w))
		case 0b001:
			return fmt.Sprintf("slli x%d, x%d, %d", rd(w), rs1(w), immI(w)&0x1f)
		case 0b101:
			if f7 := funct7(w); f7 != 0b0000000 && f7 != 0b0100000 {
				break // stray funct7 bits: rejected by the decoder
			}
			m := "srli"
			if funct7(w) == 0b0100000 {
				m = "srai"
			}
			return fmt.Sprintf("%s x%d, x%d, %d", m, rd(w), rs1(w), immI(w)&0x1f)
		}
	case opOp:
		names := map[uint32]string{
			key(0b000, 0b0000000): "add",
			key(0b000, 0b0100000): "sub",
			key(0b001, 0b0000000): "sll",
			key(0b010, 0b0000000): "slt",
			key(0b011, 0b0000000): "sltu",
			key(0b100, 0b0000000): "xor",
			key(0b101, 0b0000000): "srl",
			key(0b101, 0b0100000): "sra",
			key(0b110, 0b0000000): "or",
			key(0b111, 0b0000000): "and",
		}
		if m, ok := names[key(funct3(w), funct7(w))]; ok {
			return fmt.Sprintf("%s x%d, x%d, x%d", m, rd(w), rs1(w), rs2(w))
		}
	case opLui:
		return fmt.Sprintf("lui x%d, 0x%x", rd(w), uint32(immU(w))>>12)
	case opAuipc:
		return fmt.Sprintf("auipc x%d, 0x%x", rd(w), uint32(immU(w))>>12)
	case opJal:
		return fmt.Sprintf("jal x%d, %d", rd(w), immJ(w))
	case opJalr:
		if funct3(w) != 0 {
			break // rejected by the decoder
		}
		if rd(w) == 0 && rs1(w) == 1 && immI(w) == 0 {
			return "ret"
		}
		return fmt.Sprintf("jalr x%d, %d(x%d)", rd(w), immI(w), rs1(w))
	case opBranch:
		names := []string{"beq", "bne", "", "", "blt", "bge", "bltu", "bgeu"}
		if m := pick(funct3(w), names); m != "" {
			return fmt.Sprintf("%s x%d, x%d, %d", m, rs1(w), rs2(w), immB(w))
		}
	case opMiscM:
		return "fence"
	case opSystem:
		if immI(w) == 1 {
			return "ebreak"
		}
		return "ecall"
	}
	return fmt.Sprintf("<unknown instruction: %08x>", w)
}

// pick indexes names by f3, tolerating gaps and short tables.
func pick(f3 uint32, names []string) string {
	if int(f3) < len(names) {
		return names[f3]
	}
	return ""
}
