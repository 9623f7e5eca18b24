package arch

import (
	"fmt"

	"github.com/hexaflex/chip8/fixed"
)

// Instruction defines a decoded instruction word.
type Instruction struct {
	Raw    uint16 // Instruction word as stored in memory.
	Opcode int    // Instruction opcode.
	X      int    // Register operand X (bits 8-11).
	Y      int    // Register operand Y (bits 4-7).
	N      int    // Nibble operand (bits 0-3).
	NN     int    // Byte operand (bits 0-7).
	NNN    int    // Address operand (bits 0-11).
}

// Decode decodes the given instruction word.
// Returns false if the word does not encode a known instruction.
func Decode(raw uint16) (Instruction, bool) {
	w := fixed.Address(uint32(raw))
	instr := Instruction{
		Raw: raw,
		X:   w.BitRange(8, 4).Int(),
		Y:   w.BitRange(4, 4).Int(),
		N:   w.BitRange(0, 4).Int(),
		NN:  w.BitRange(0, 8).Int(),
		NNN: w.BitRange(0, 12).Int(),
	}

	op, ok := decodeOpcode(w.BitRange(12, 4).Int(), &instr)
	instr.Opcode = op
	return instr, ok
}

func decodeOpcode(family int, instr *Instruction) (int, bool) {
	switch family {
	case 0x0:
		switch {
		case instr.Raw == 0x0000:
			return NOP, true
		case instr.Raw&0xfff0 == 0x00c0:
			return SCD, true
		}
		switch instr.Raw {
		case 0x00e0:
			return CLS, true
		case 0x00ee:
			return RET, true
		case 0x00fb:
			return SCR, true
		case 0x00fc:
			return SCL, true
		case 0x00fd:
			return EXIT, true
		case 0x00fe:
			return LOW, true
		case 0x00ff:
			return HIGH, true
		}
	case 0x1:
		return JP, true
	case 0x2:
		return CALL, true
	case 0x3:
		return SKEQI, true
	case 0x4:
		return SKNEI, true
	case 0x5:
		return SKEQ, true
	case 0x6:
		return MOVI, true
	case 0x7:
		return ADDI, true
	case 0x8:
		switch instr.N {
		case 0x0:
			return MOV, true
		case 0x1:
			return OR, true
		case 0x2:
			return AND, true
		case 0x3:
			return XOR, true
		case 0x4:
			return ADD, true
		case 0x5:
			return SUB, true
		case 0x6:
			return SHR, true
		case 0x7:
			return SUBN, true
		case 0xe:
			return SHL, true
		}
	case 0x9:
		return SKNE, true
	case 0xa:
		return LDA, true
	case 0xb:
		return JPV0, true
	case 0xc:
		return RND, true
	case 0xd:
		return DRW, true
	case 0xe:
		switch instr.NN {
		case 0x9e:
			return SKP, true
		case 0xa1:
			return SKNP, true
		}
	case 0xf:
		switch instr.NN {
		case 0x07:
			return GDELAY, true
		case 0x0a:
			return KEY, true
		case 0x15:
			return SDELAY, true
		case 0x18:
			return SSOUND, true
		case 0x1e:
			return ADDA, true
		case 0x29:
			return FONT, true
		case 0x30:
			return BIGFONT, true
		case 0x33:
			return BCD, true
		case 0x55:
			return STORE, true
		case 0x65:
			return LOAD, true
		}
	}
	return -1, false
}

// Family returns the top 4 bits of the instruction word.
func (i Instruction) Family() int {
	return int(i.Raw >> 12)
}

// String returns a disassembled representation of the instruction.
func (i Instruction) String() string {
	name, ok := Name(i.Opcode)
	if !ok {
		return fmt.Sprintf("DW 0x%04x", i.Raw)
	}

	switch OperandLayout(i.Opcode) {
	case LayoutAddress:
		return fmt.Sprintf("%s 0x%03x", name, i.NNN)
	case LayoutNibble:
		return fmt.Sprintf("%s %d", name, i.N)
	case LayoutRegister:
		return fmt.Sprintf("%s %s", name, RegisterName(i.X))
	case LayoutRegisterByte:
		return fmt.Sprintf("%s %s, 0x%02x", name, RegisterName(i.X), i.NN)
	case LayoutRegisterPair:
		return fmt.Sprintf("%s %s, %s", name, RegisterName(i.X), RegisterName(i.Y))
	case LayoutSprite:
		return fmt.Sprintf("%s %s, %s, %d", name, RegisterName(i.X), RegisterName(i.Y), i.N)
	}
	return name
}
