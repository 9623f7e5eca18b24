package arch

// Layout defines how the operand fields of an instruction are used.
type Layout byte

// Known operand layouts.
const (
	LayoutNone         Layout = iota // CLS
	LayoutAddress                    // JP 0x204
	LayoutNibble                     // SCD 4
	LayoutRegister                   // KEY V3
	LayoutRegisterByte               // MOVI V1, 0x12
	LayoutRegisterPair               // MOV V1, V2
	LayoutSprite                     // DRW V0, V1, 5
)

var layouts = [opcodeCount]Layout{
	SCD:     LayoutNibble,
	JP:      LayoutAddress,
	CALL:    LayoutAddress,
	JPV0:    LayoutAddress,
	LDA:     LayoutAddress,
	SKEQI:   LayoutRegisterByte,
	SKNEI:   LayoutRegisterByte,
	MOVI:    LayoutRegisterByte,
	ADDI:    LayoutRegisterByte,
	RND:     LayoutRegisterByte,
	SKEQ:    LayoutRegisterPair,
	SKNE:    LayoutRegisterPair,
	MOV:     LayoutRegisterPair,
	OR:      LayoutRegisterPair,
	AND:     LayoutRegisterPair,
	XOR:     LayoutRegisterPair,
	ADD:     LayoutRegisterPair,
	SUB:     LayoutRegisterPair,
	SHR:     LayoutRegisterPair,
	SUBN:    LayoutRegisterPair,
	SHL:     LayoutRegisterPair,
	DRW:     LayoutSprite,
	SKP:     LayoutRegister,
	SKNP:    LayoutRegister,
	ADDA:    LayoutRegister,
	FONT:    LayoutRegister,
	BIGFONT: LayoutRegister,
	BCD:     LayoutRegister,
	STORE:   LayoutRegister,
	LOAD:    LayoutRegister,
	GDELAY:  LayoutRegister,
	KEY:     LayoutRegister,
	SDELAY:  LayoutRegister,
	SSOUND:  LayoutRegister,
}

// OperandLayout returns the operand layout for the given opcode.
// Unknown opcodes yield LayoutNone.
func OperandLayout(opcode int) Layout {
	if opcode < 0 || opcode >= opcodeCount {
		return LayoutNone
	}
	return layouts[opcode]
}
