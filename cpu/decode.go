package cpu

import (
	"errors"
	"fmt"
)

// Base opcodes of RV32I (riscv-spec-v2.2, table 19.1). Only the unprivileged
// integer base is dispatched; anything else is a decode error.
const (
	opLoad   = 0b0000011 // i-type: LB LH LW LBU LHU
	opMiscM  = 0b0001111 // FENCE, treated as a no-op
	opImm    = 0b0010011 // i-type: ADDI SLTI SLTIU XORI ORI ANDI SLLI SRLI SRAI
	opAuipc  = 0b0010111 // u-type
	opStore  = 0b0100011 // s-type: SB SH SW
	opOp     = 0b0110011 // r-type: ADD SUB SLL SLT SLTU XOR SRL SRA OR AND
	opLui    = 0b0110111 // u-type
	opBranch = 0b1100011 // b-type: BEQ BNE BLT BGE BLTU BGEU
	opJalr   = 0b1100111 // i-type
	opJal    = 0b1101111 // j-type
	opSystem = 0b1110011 // ECALL/EBREAK, treated as no-ops
)

// regExitCode is x17 (a7), the syscall-number register. An ECALL with a7
// holding sysExit halts the program like the JALR return sentinel does.
const (
	regExitCode = 17
	sysExit     = 93
)

var (
	// ErrDecode indicates an instruction word the decoder does not
	// recognize. The wrapped message carries the PC and the raw word.
	ErrDecode = errors.New("cpu: decode error")
)

// An Effect is everything one instruction does to the architectural state:
// a sparse set of register writes, a sparse set of memory writes, and the
// next program counter. The decoder builds the Effect against the pre-update
// state; the interpreter merges it afterwards, so an instruction that reads
// the register it writes still observes the old value.
type Effect struct {
	Regs   map[int]int32   // register index -> new value
	Mem    map[int32]int32 // byte address -> new value
	NextPC int32

	// Halt marks the program's termination sentinel: a JALR with
	// (rd=0, rs1=1, imm=0), i.e. an unconditional return-to-ra with a
	// discarded link, or an ECALL with a7 holding the exit syscall.
	Halt bool

	// Log carries the decode log lines for this instruction.
	Log []string
}

func newEffect(nextPC int32) *Effect {
	return &Effect{
		Regs:   make(map[int]int32),
		Mem:    make(map[int32]int32),
		NextPC: nextPC,
	}
}

func (e *Effect) logf(format string, args ...any) {
	e.Log = append(e.Log, fmt.Sprintf(format, args...))
}

// writeReg records a register write and its decode log line.
func (e *Effect) writeReg(i int, v int32) {
	e.Regs[i] = v
	e.logf("x%d <- %032b (%d)", i, uint32(v), v)
}

// Decode classifies the instruction word at p.PC and computes its Effect.
// The processor is read, never written.
func Decode(w uint32, p *Processor) (*Effect, error) {
	e := newEffect(p.PC + 4)
	e.logf("%08x: %s", uint32(p.PC), Disassemble(w))

	switch opcode(w) {
	case opLoad:
		return e, decodeLoad(w, p, e)
	case opStore:
		return e, decodeStore(w, p, e)
	case opImm:
		return e, decodeOpImm(w, p, e)
	case opOp:
		return e, decodeOp(w, p, e)

	case opLui:
		// the immediate already occupies the upper 20 bits
		e.writeReg(rd(w), immU(w))
		return e, nil

	case opAuipc:
		e.writeReg(rd(w), p.PC+immU(w))
		return e, nil

	case opJal:
		e.writeReg(rd(w), p.PC+4)
		e.NextPC = p.PC + immJ(w)
		return e, nil

	case opJalr:
		if funct3(w) != 0 {
			return nil, errf(p, w, "jalr funct3 %03b", funct3(w))
		}
		if rd(w) == 0 && rs1(w) == 1 && immI(w) == 0 {
			// ret with a discarded link: the termination sentinel
			e.Halt = true
			return e, nil
		}
		t := p.PC + 4
		e.NextPC = (p.Regs.Read(rs1(w)) + immI(w)) &^ 1
		e.writeReg(rd(w), t)
		return e, nil

	case opBranch:
		return e, decodeBranch(w, p, e)

	case opMiscM:
		// FENCE: no device or memory reordering to fence against here
		return e, nil

	case opSystem:
		if funct3(w) == 0 && immI(w) == 0 && p.Regs.Read(regExitCode) == sysExit {
			// ECALL with a7=93 (exit): alternative termination path
			e.Halt = true
			return e, nil
		}
		// ECALL/EBREAK are otherwise no-ops without a privileged layer
		return e, nil
	}
	return nil, errf(p, w, "unknown opcode %07b", opcode(w))
}

// errf builds a decode error carrying the PC and the raw word.
func errf(p *Processor, w uint32, format string, args ...any) error {
	detail := fmt.Sprintf(format, args...)
	return fmt.Errorf("%w: %s (pc=%d word=%08x)", ErrDecode, detail, p.PC, w)
}

func decodeLoad(w uint32, p *Processor, e *Effect) error {
	addr := p.Regs.Read(rs1(w)) + immI(w)
	if !p.Ram.Mapped(addr) {
		e.logf("warning: load from unmapped address %d reads 0", addr)
	}
	v := p.Ram.ReadAddress(addr)
	switch funct3(w) {
	case 0b000: // LB
		e.writeReg(rd(w), int32(int8(v)))
	case 0b001: // LH
		e.writeReg(rd(w), int32(int16(v)))
	case 0b010: // LW
		e.writeReg(rd(w), v)
	case 0b100: // LBU
		e.writeReg(rd(w), int32(uint32(v)&0xff))
	case 0b101: // LHU
		e.writeReg(rd(w), int32(uint32(v)&0xffff))
	default:
		return errf(p, w, "load funct3 %03b", funct3(w))
	}
	return nil
}

func decodeStore(w uint32, p *Processor, e *Effect) error {
	addr := p.Regs.Read(rs1(w)) + immS(w)
	src := p.Regs.Read(rs2(w))
	old := p.Ram.ReadAddress(addr)
	switch funct3(w) {
	case 0b000: // SB: replace the low byte of the word cell
		e.Mem[addr] = old&^0xff | src&0xff
	case 0b001: // SH
		e.Mem[addr] = old&^0xffff | src&0xffff
	case 0b010: // SW
		e.Mem[addr] = src
	default:
		return errf(p, w, "store funct3 %03b", funct3(w))
	}
	e.logf("mem[%d] <- %032b (%d)", addr, uint32(e.Mem[addr]), e.Mem[addr])
	return nil
}

func decodeOpImm(w uint32, p *Processor, e *Effect) error {
	a := p.Regs.Read(rs1(w))
	imm := immI(w)
	switch funct3(w) {
	case 0b000: // ADDI, two's-complement wrap
		e.writeReg(rd(w), a+imm)
	case 0b010: // SLTI
		e.writeReg(rd(w), boolToWord(a < imm))
	case 0b011: // SLTIU
		e.writeReg(rd(w), boolToWord(uint32(a) < uint32(imm)))
	case 0b100: // XORI
		e.writeReg(rd(w), a^imm)
	case 0b110: // ORI
		e.writeReg(rd(w), a|imm)
	case 0b111: // ANDI
		e.writeReg(rd(w), a&imm)
	case 0b001: // SLLI, shift amount is imm[4:0]
		e.writeReg(rd(w), a<<(uint32(imm)&0x1f))
	case 0b101: // SRLI/SRAI, split on funct7 (= imm[11:5])
		shamt := uint32(imm) & 0x1f
		switch funct7(w) {
		case 0b0000000:
			e.writeReg(rd(w), int32(uint32(a)>>shamt))
		case 0b0100000:
			e.writeReg(rd(w), a>>shamt)
		default:
			return errf(p, w, "shift funct7 %07b", funct7(w))
		}
	}
	return nil
}

func decodeOp(w uint32, p *Processor, e *Effect) error {
	a := p.Regs.Read(rs1(w))
	b := p.Regs.Read(rs2(w))
	sh := uint32(b) & 0x1f
	var v int32
	switch key(funct3(w), funct7(w)) {
	case key(0b000, 0b0000000): // ADD
		v = a + b
	case key(0b000, 0b0100000): // SUB
		v = a - b
	case key(0b001, 0b0000000): // SLL
		v = a << sh
	case key(0b010, 0b0000000): // SLT
		v = boolToWord(a < b)
	case key(0b011, 0b0000000): // SLTU
		v = boolToWord(uint32(a) < uint32(b))
	case key(0b100, 0b0000000): // XOR
		v = a ^ b
	case key(0b101, 0b0000000): // SRL
		v = int32(uint32(a) >> sh)
	case key(0b101, 0b0100000): // SRA
		v = a >> sh
	case key(0b110, 0b0000000): // OR
		v = a | b
	case key(0b111, 0b0000000): // AND
		v = a & b
	default:
		return errf(p, w, "op funct3 %03b funct7 %07b", funct3(w), funct7(w))
	}
	e.writeReg(rd(w), v)
	return nil
}

func decodeBranch(w uint32, p *Processor, e *Effect) error {
	a := p.Regs.Read(rs1(w))
	b := p.Regs.Read(rs2(w))
	var taken bool
	switch funct3(w) {
	case 0b000: // BEQ
		taken = a == b
	case 0b001: // BNE
		taken = a != b
	case 0b100: // BLT
		taken = a < b
	case 0b101: // BGE
		taken = a >= b
	case 0b110: // BLTU
		taken = uint32(a) < uint32(b)
	case 0b111: // BGEU
		taken = uint32(a) >= uint32(b)
	default:
		return errf(p, w, "branch funct3 %03b", funct3(w))
	}
	if taken {
		e.NextPC = p.PC + immB(w)
		e.logf("branch taken -> %d", e.NextPC)
	}
	return nil
}

// key packs funct3 and funct7 into one dispatch value for r-type switches.
func key(f3, f7 uint32) uint32 { return f7<<3 | f3 }

func boolToWord(b bool) int32 {
	if b {
		return 1
	}
	return 0
}
