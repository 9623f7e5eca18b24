// Package arch defines the system's instruction set along with
// some related helper functions.
package arch

import "strings"

// Known opcodes.
const (
	NOP = iota
	SCD
	CLS
	RET
	SCR
	SCL
	EXIT
	LOW
	HIGH

	JP
	CALL
	JPV0

	SKEQI
	SKNEI
	SKEQ
	SKNE
	SKP
	SKNP

	MOVI
	ADDI
	MOV
	OR
	AND
	XOR
	ADD
	SUB
	SHR
	SUBN
	SHL
	RND

	LDA
	ADDA
	FONT
	BIGFONT
	BCD
	STORE
	LOAD

	DRW

	GDELAY
	KEY
	SDELAY
	SSOUND

	opcodeCount
)

var names = [opcodeCount]string{
	NOP:     "NOP",
	SCD:     "SCD",
	CLS:     "CLS",
	RET:     "RET",
	SCR:     "SCR",
	SCL:     "SCL",
	EXIT:    "EXIT",
	LOW:     "LOW",
	HIGH:    "HIGH",
	JP:      "JP",
	CALL:    "CALL",
	JPV0:    "JPV0",
	SKEQI:   "SKEQI",
	SKNEI:   "SKNEI",
	SKEQ:    "SKEQ",
	SKNE:    "SKNE",
	SKP:     "SKP",
	SKNP:    "SKNP",
	MOVI:    "MOVI",
	ADDI:    "ADDI",
	MOV:     "MOV",
	OR:      "OR",
	AND:     "AND",
	XOR:     "XOR",
	ADD:     "ADD",
	SUB:     "SUB",
	SHR:     "SHR",
	SUBN:    "SUBN",
	SHL:     "SHL",
	RND:     "RND",
	LDA:     "LDA",
	ADDA:    "ADDA",
	FONT:    "FONT",
	BIGFONT: "BIGFONT",
	BCD:     "BCD",
	STORE:   "STORE",
	LOAD:    "LOAD",
	DRW:     "DRW",
	GDELAY:  "GDELAY",
	KEY:     "KEY",
	SDELAY:  "SDELAY",
	SSOUND:  "SSOUND",
}

// Opcode returns the opcode for the given instruction name.
// Returns false if the name is not recognized.
func Opcode(name string) (int, bool) {
	name = strings.ToUpper(name)
	for op, n := range names {
		if n == name {
			return op, true
		}
	}
	return 0, false
}

// Name returns the name for the given opcode.
// Returns false if the opcode is not recognized.
func Name(opcode int) (string, bool) {
	if opcode < 0 || opcode >= opcodeCount {
		return "", false
	}
	return names[opcode], true
}

// ExplicitPC returns true if instructions of the given family (the top
// 4 bits of the instruction word) set the program counter themselves.
// The CPU does not advance the program counter before executing them.
func ExplicitPC(family int) bool {
	switch family {
	case 0x0, 0x1, 0x2, 0xb:
		return true
	}
	return false
}
