package cpu

import (
	"fmt"

	"github.com/hexaflex/chip8/arch"
)

// Error defines a runtime error.
type Error struct {
	arch.Instruction
	PC  uint16 // Address of the failing instruction.
	Msg string
}

// NewError creates a new, formatted error message for the given instruction.
func NewError(pc uint16, instr arch.Instruction, f string, argv ...interface{}) *Error {
	return &Error{
		Instruction: instr,
		PC:          pc,
		Msg:         fmt.Sprintf(f, argv...),
	}
}

func (e *Error) Error() string {
	return fmt.Sprintf("%04x: %s", e.PC, e.Msg)
}
