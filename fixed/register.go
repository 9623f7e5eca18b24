// Package fixed implements fixed-width unsigned registers.
//
// A Register holds an unsigned value of a given bit width. Every
// mutation masks the result back into range, and the arithmetic
// operations report overflow, borrow and shifted-out bits the way a
// CPU status register would.
package fixed

import "fmt"

// MaxWidth is the widest supported register.
const MaxWidth = 31

// Register is an unsigned integer masked to a fixed number of bits.
type Register struct {
	value uint32
	width uint
}

// New creates a register of the given width holding v.
// Bits of v beyond the width are dropped.
// Panics if width is not in the range [1, MaxWidth].
func New(width uint, v uint32) Register {
	if width == 0 || width > MaxWidth {
		panic(fmt.Sprintf("fixed: invalid register width %d", width))
	}
	return Register{value: v & mask(width), width: width}
}

// Nibble creates a 4-bit register.
func Nibble(v uint32) Register { return New(4, v) }

// Byte creates an 8-bit register.
func Byte(v uint32) Register { return New(8, v) }

// Address creates a 16-bit register.
func Address(v uint32) Register { return New(16, v) }

// Combine concatenates hi and lo into a register of the given width.
// lo occupies the lowest lo.Width() bits.
func Combine(width uint, hi, lo Register) Register {
	return New(width, hi.value<<lo.width|lo.value)
}

// mask returns a value with the lowest n bits set.
func mask(n uint) uint32 {
	if n > MaxWidth {
		n = MaxWidth
	}
	return 1<<n - 1
}

// Max returns the largest value the register can hold.
func (r Register) Max() uint32 { return mask(r.width) }

// Width returns the register width in bits.
func (r Register) Width() uint { return r.width }

// Uint32 returns the register value.
func (r Register) Uint32() uint32 { return r.value }

// Uint16 returns the lowest 16 bits of the register value.
func (r Register) Uint16() uint16 { return uint16(r.value) }

// Uint8 returns the lowest 8 bits of the register value.
func (r Register) Uint8() uint8 { return uint8(r.value) }

// Int returns the register value as an int.
func (r Register) Int() int { return int(r.value) }

// Set loads v, dropping bits beyond the register width.
func (r *Register) Set(v uint32) {
	r.value = v & r.Max()
}

// SetBool loads 1 if v is true and 0 otherwise.
func (r *Register) SetBool(v bool) {
	if v {
		r.Set(1)
	} else {
		r.Set(0)
	}
}

// Bit returns the state of bit n.
func (r Register) Bit(n uint) bool {
	return n < r.width && r.value>>n&1 == 1
}

// BitRange extracts length bits starting at bit start into a register
// of width length.
func (r Register) BitRange(start, length uint) Register {
	return New(length, r.value>>start&mask(length))
}

// Increase adds v and reports whether the unmasked sum overflowed.
func (r *Register) Increase(v uint32) bool {
	sum := uint64(r.value) + uint64(v)
	r.Set(uint32(sum))
	return sum > uint64(r.Max())
}

// Decrease subtracts v (masked to the register width) and reports
// whether the subtraction completed without a borrow.
func (r *Register) Decrease(v uint32) bool {
	v &= r.Max()
	noBorrow := v <= r.value
	r.Set(r.value + r.Max() - v + 1)
	return noBorrow
}

// ReversedDecrease stores v - r (v masked to the register width) and
// reports whether the subtraction completed without a borrow.
func (r *Register) ReversedDecrease(v uint32) bool {
	v &= r.Max()
	noBorrow := r.value <= v
	r.Set(v + r.Max() - r.value + 1)
	return noBorrow
}

// ShiftLeft shifts by one bit and returns the bit shifted out.
func (r *Register) ShiftLeft() bool {
	out := r.Bit(r.width - 1)
	r.Set(r.value << 1)
	return out
}

// ShiftRight shifts by one bit and returns the bit shifted out.
func (r *Register) ShiftRight() bool {
	out := r.value&1 == 1
	r.Set(r.value >> 1)
	return out
}

// And stores r & v.
func (r *Register) And(v uint32) { r.Set(r.value & v) }

// Or stores r | v.
func (r *Register) Or(v uint32) { r.Set(r.value | v) }

// Xor stores r ^ v.
func (r *Register) Xor(v uint32) { r.Set(r.value ^ v) }

// Add returns a register of the same width holding r + v.
func (r Register) Add(v uint32) Register {
	r.Set(r.value + v)
	return r
}

// Equal compares register values, regardless of width.
func (r Register) Equal(o Register) bool { return r.value == o.value }

// Less reports whether r's value is smaller than o's.
func (r Register) Less(o Register) bool { return r.value < o.value }

func (r Register) String() string {
	return fmt.Sprintf("0x%x", r.value)
}
