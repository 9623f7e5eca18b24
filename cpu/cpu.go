// Package cpu implements the CHIP-8 / SUPER-CHIP interpreter.
package cpu

import (
	"io"
	"time"

	"github.com/hexaflex/chip8/arch"
	"github.com/hexaflex/chip8/event"
	"github.com/hexaflex/chip8/fixed"
	"github.com/hexaflex/chip8/screen"
)

const (
	MemoryCapacity = 0x1000 // Size of addressable memory.
	ProgramAddress = 0x200  // Load address and initial program counter.
	StackCapacity  = 16     // Maximum call depth.
)

// EmitFunc receives the events produced by the CPU.
type EmitFunc func(event.Event)

// TraceFunc represents a callback handler for debug trace output.
type TraceFunc func(pc uint16, instr arch.Instruction)

// CPU implements the runtime.
type CPU struct {
	emit    EmitFunc                           // Handler for screen and audio events.
	trace   TraceFunc                          // Handler for debug trace output.
	screen  *screen.Framebuffer                // Display memory.
	memory  [MemoryCapacity]byte               // System memory.
	v       [arch.RegisterCount]fixed.Register // General purpose registers.
	i       fixed.Register                     // Address register.
	pc      fixed.Register                     // Program counter.
	stack   []uint16                           // Return addresses.
	delay   fixed.Register                     // Delay timer.
	sound   fixed.Register                     // Sound timer.
	rng     randomPool                         // Pregenerated random values.
	wait    int                                // Register awaiting a key press, or -1.
	halted  bool                               // Has the program ended?
	buzzing bool                               // Last buzzer state sent.
}

// New creates a new CPU with fonts loaded and the program counter at
// ProgramAddress. Both handlers are optional.
func New(emit EmitFunc, trace TraceFunc) *CPU {
	if emit == nil {
		emit = func(event.Event) { /* nop */ }
	}

	if trace == nil {
		trace = func(uint16, arch.Instruction) { /* nop */ }
	}

	c := &CPU{
		emit:  emit,
		trace: trace,
		rng:   newRandomPool(time.Now().UnixNano()),
	}

	c.screen = screen.New(func(x, y int, lit bool) {
		c.emit(event.Screen{Op: event.DrawPixel, X: x, Y: y, Lit: lit})
	})

	c.clearState()
	return c
}

// clearState resets everything but the random pool and the buzzer state.
func (c *CPU) clearState() {
	c.memory = [MemoryCapacity]byte{}
	copy(c.memory[FontAddress:], font[:])
	copy(c.memory[BigFontAddress:], bigFont())

	for n := range c.v {
		c.v[n] = fixed.Byte(0)
	}

	c.i = fixed.Address(0)
	c.pc = fixed.Address(ProgramAddress)
	c.delay = fixed.Byte(0)
	c.sound = fixed.Byte(0)
	c.stack = c.stack[:0]
	c.wait = -1
	c.halted = false
	c.screen.Reset()
}

// Reset returns the CPU to its power-on state: memory holds only the
// fonts, registers, timers and stack are zero and the screen is cleared.
func (c *CPU) Reset() {
	c.clearState()
	c.emit(event.Screen{Op: event.Clear})
	c.setBuzzer(false)
}

// Seed regenerates the random pool from the given seed.
func (c *CPU) Seed(seed int64) {
	c.rng = newRandomPool(seed)
}

// LoadMemory copies p into memory, starting at the given address.
func (c *CPU) LoadMemory(p []byte, address int) error {
	if address < 0 || address+len(p) > MemoryCapacity {
		return NewError(c.pc.Uint16(), arch.Instruction{Opcode: -1},
			"load of %d bytes at %04x exceeds memory", len(p), address)
	}

	copy(c.memory[address:], p)
	return nil
}

// PC returns the program counter.
func (c *CPU) PC() uint16 { return c.pc.Uint16() }

// I returns the address register.
func (c *CPU) I() uint16 { return c.i.Uint16() }

// V returns general purpose register n.
func (c *CPU) V(n int) uint8 { return c.v[n&0xf].Uint8() }

// Memory returns the cpu's memory bank.
func (c *CPU) Memory() []byte { return c.memory[:] }

// Stack returns a copy of the call stack, bottom first.
func (c *CPU) Stack() []uint16 { return append([]uint16(nil), c.stack...) }

// DelayTimer returns the delay timer.
func (c *CPU) DelayTimer() uint8 { return c.delay.Uint8() }

// SoundTimer returns the sound timer.
func (c *CPU) SoundTimer() uint8 { return c.sound.Uint8() }

// Halted returns true if the program has ended.
func (c *CPU) Halted() bool { return c.halted }

// AwaitingKey returns the register waiting for a key press, if any.
func (c *CPU) AwaitingKey() (int, bool) { return c.wait, c.wait >= 0 }

// Screen returns the framebuffer.
func (c *CPU) Screen() *screen.Framebuffer { return c.screen }

// SetPixel sets the logical pixel under the given screen coordinate,
// bypassing collision detection. Returns false if the coordinate is
// out of range.
func (c *CPU) SetPixel(x, y int, lit bool) bool {
	if !screen.InBounds(x, y) {
		return false
	}

	scale := c.screen.Scale()
	c.screen.Set(x/scale, y/scale, lit)
	return true
}

// RedrawAll emits the full framebuffer.
func (c *CPU) RedrawAll() {
	c.emit(event.Screen{
		Op:     event.Redraw,
		X:      c.screen.ScrollSide(),
		Y:      c.screen.ScrollDown(),
		Pixels: c.screen.Lit(),
	})
}

// NextFrame decrements the timers and updates the buzzer state.
// It should be called once per video frame.
func (c *CPU) NextFrame() {
	if c.delay.Uint32() > 0 {
		c.delay.Decrease(1)
	}

	if c.sound.Uint32() > 0 {
		c.sound.Decrease(1)
	}

	c.setBuzzer(c.sound.Uint32() > 0)
}

// setBuzzer emits an audio event when the buzzer state changes.
func (c *CPU) setBuzzer(on bool) {
	if c.buzzing != on {
		c.buzzing = on
		c.emit(event.Audio{Buzz: on})
	}
}

// Step performs a single execution step with the given keypad state.
// Returns io.EOF if the program has reached its end.
func (c *CPU) Step(keys Keypad) error {
	if c.halted {
		return io.EOF
	}

	if c.wait >= 0 {
		if n, ok := keys.Lowest(); ok {
			c.v[c.wait].Set(uint32(n))
			c.wait = -1
		}
		return nil
	}

	pc := c.pc.Uint16()
	if int(pc) > MemoryCapacity-2 {
		return NewError(pc, arch.Instruction{Opcode: -1}, "program counter out of range")
	}

	raw := fixed.Combine(16, fixed.Byte(uint32(c.memory[pc])), fixed.Byte(uint32(c.memory[pc+1])))
	instr, ok := arch.Decode(raw.Uint16())
	if !ok {
		return NewError(pc, instr, "unknown opcode %04x", instr.Raw)
	}

	c.trace(pc, instr)

	if !arch.ExplicitPC(instr.Family()) {
		c.pc.Increase(2)
	}

	return c.execute(pc, instr, keys)
}

func (c *CPU) execute(pc uint16, instr arch.Instruction, keys Keypad) error {
	vx := &c.v[instr.X]
	vy := c.v[instr.Y]
	vf := &c.v[arch.VF]

	switch instr.Opcode {
	case arch.NOP:
		c.pc.Increase(2)
	case arch.SCD:
		c.screen.AddScroll(instr.N, 0)
		c.emit(event.Screen{Op: event.ScrollDown, Amount: instr.N})
		c.pc.Increase(2)
	case arch.CLS:
		c.screen.Clear()
		c.emit(event.Screen{Op: event.Clear})
		c.pc.Increase(2)
	case arch.RET:
		if len(c.stack) == 0 {
			return NewError(pc, instr, "stack underflow")
		}
		c.pc.Set(uint32(c.stack[len(c.stack)-1]))
		c.stack = c.stack[:len(c.stack)-1]
	case arch.SCR:
		c.screen.AddScroll(0, 4)
		c.emit(event.Screen{Op: event.ScrollSide, Amount: 4})
		c.pc.Increase(2)
	case arch.SCL:
		c.screen.AddScroll(0, -4)
		c.emit(event.Screen{Op: event.ScrollSide, Amount: -4})
		c.pc.Increase(2)
	case arch.EXIT:
		c.halted = true
		return io.EOF
	case arch.LOW:
		c.screen.SetScale(screen.LowRes)
		c.pc.Increase(2)
	case arch.HIGH:
		c.screen.SetScale(screen.HighRes)
		c.pc.Increase(2)

	case arch.JP:
		if uint16(instr.NNN) == pc {
			c.halted = true
			return io.EOF
		}
		c.pc.Set(uint32(instr.NNN))
	case arch.CALL:
		if len(c.stack) >= StackCapacity {
			return NewError(pc, instr, "stack overflow")
		}
		c.stack = append(c.stack, c.pc.Add(2).Uint16())
		c.pc.Set(uint32(instr.NNN))
	case arch.JPV0:
		c.pc.Set(uint32(instr.NNN) + c.v[0].Uint32())

	case arch.SKEQI:
		c.skipIf(vx.Uint32() == uint32(instr.NN))
	case arch.SKNEI:
		c.skipIf(vx.Uint32() != uint32(instr.NN))
	case arch.SKEQ:
		c.skipIf(vx.Equal(vy))
	case arch.SKNE:
		c.skipIf(!vx.Equal(vy))
	case arch.SKP:
		c.skipIf(keys.Pressed(vx.Int()))
	case arch.SKNP:
		c.skipIf(!keys.Pressed(vx.Int()))

	case arch.MOVI:
		vx.Set(uint32(instr.NN))
	case arch.ADDI:
		vx.Increase(uint32(instr.NN))
	case arch.MOV:
		vx.Set(vy.Uint32())
	case arch.OR:
		vx.Or(vy.Uint32())
	case arch.AND:
		vx.And(vy.Uint32())
	case arch.XOR:
		vx.Xor(vy.Uint32())
	case arch.ADD:
		f := vx.Increase(vy.Uint32())
		vf.SetBool(f)
	case arch.SUB:
		f := vx.Decrease(vy.Uint32())
		vf.SetBool(f)
	case arch.SHR:
		f := vx.ShiftRight()
		vf.SetBool(f)
	case arch.SUBN:
		f := vx.ReversedDecrease(vy.Uint32())
		vf.SetBool(f)
	case arch.SHL:
		f := vx.ShiftLeft()
		vf.SetBool(f)
	case arch.RND:
		vx.Set(uint32(c.rng.next()) & uint32(instr.NN))

	case arch.LDA:
		c.i.Set(uint32(instr.NNN))
	case arch.ADDA:
		c.i.Increase(vx.Uint32())
	case arch.FONT:
		c.i.Set(FontAddress + vx.Uint32()*5)
	case arch.BIGFONT:
		c.i.Set(BigFontAddress + vx.Uint32()*10)
	case arch.BCD:
		addr := c.i.Int()
		if addr+2 >= MemoryCapacity {
			return NewError(pc, instr, "address %04x out of range", addr+2)
		}
		n := vx.Uint8()
		c.memory[addr] = n / 100
		c.memory[addr+1] = n / 10 % 10
		c.memory[addr+2] = n % 10
	case arch.STORE:
		addr := c.i.Int()
		if addr+instr.X >= MemoryCapacity {
			return NewError(pc, instr, "address %04x out of range", addr+instr.X)
		}
		for n := 0; n <= instr.X; n++ {
			c.memory[addr+n] = c.v[n].Uint8()
		}
	case arch.LOAD:
		addr := c.i.Int()
		if addr+instr.X >= MemoryCapacity {
			return NewError(pc, instr, "address %04x out of range", addr+instr.X)
		}
		for n := 0; n <= instr.X; n++ {
			c.v[n].Set(uint32(c.memory[addr+n]))
		}

	case arch.DRW:
		c.draw(vx.Int(), vy.Int(), instr.N)

	case arch.GDELAY:
		vx.Set(c.delay.Uint32())
	case arch.KEY:
		c.wait = instr.X
	case arch.SDELAY:
		c.delay.Set(vx.Uint32())
	case arch.SSOUND:
		c.sound.Set(vx.Uint32())
	}

	return nil
}

// skipIf skips the next instruction if cond is true.
func (c *CPU) skipIf(cond bool) {
	if cond {
		c.pc.Increase(2)
	}
}

// draw XORs a sprite onto the screen at logical coordinate x, y.
// n is the sprite height. A height of 0 draws a 16x16 sprite in high
// resolution mode and nothing otherwise. VF is set if any lit pixel
// was turned off.
func (c *CPU) draw(x, y, n int) {
	var collision bool

	if n == 0 {
		if c.screen.Scale() == screen.HighRes {
			for row := 0; row < 16; row++ {
				for half := 0; half < 2; half++ {
					b := c.spriteByte(row*2 + half)
					if c.drawByte(b, x+half*8, y+row) {
						collision = true
					}
				}
			}
		}
	} else {
		for row := 0; row < n; row++ {
			if c.drawByte(c.spriteByte(row), x, y+row) {
				collision = true
			}
		}
	}

	c.v[arch.VF].SetBool(collision)
}

// drawByte XORs the bits of b onto the screen, most significant bit first.
func (c *CPU) drawByte(b byte, x, y int) bool {
	var collision bool
	for bit := 0; bit < 8; bit++ {
		if b&(0x80>>uint(bit)) != 0 && c.screen.Swap(x+bit, y) {
			collision = true
		}
	}
	return collision
}

// spriteByte returns the sprite byte at I+offset.
// Addresses wrap at the end of memory.
func (c *CPU) spriteByte(offset int) byte {
	return c.memory[(c.i.Int()+offset)&(MemoryCapacity-1)]
}
