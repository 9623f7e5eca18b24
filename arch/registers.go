package arch

import (
	"fmt"
	"strconv"
	"strings"
)

// RegisterCount is the number of general purpose registers.
const RegisterCount = 16

// VF is the index of the flags register.
const VF = 0xf

// IsRegister returns true if the given name represents a known register.
func IsRegister(name string) bool {
	return RegisterIndex(name) > -1
}

// RegisterIndex returns the index for the given register name (V0-VF).
// Returns -1 if the name is not recognized.
func RegisterIndex(name string) int {
	name = strings.ToLower(name)
	if len(name) != 2 || name[0] != 'v' {
		return -1
	}

	n, err := strconv.ParseUint(name[1:], 16, 8)
	if err != nil {
		return -1
	}
	return int(n)
}

// RegisterName returns the name associated with the given register index.
// Returns "" if the index is not recognized.
func RegisterName(n int) string {
	if n < 0 || n >= RegisterCount {
		return ""
	}
	return fmt.Sprintf("V%X", n)
}
