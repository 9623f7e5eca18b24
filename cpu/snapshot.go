package cpu

import (
	"bytes"
	"io"

	"github.com/hexaflex/chip8/arch"
	"github.com/hexaflex/chip8/screen"
	"github.com/pkg/errors"
)

// waitMarker flags a pending key-wait in the low nibble.
const waitMarker = 0xf0

// snapshot holds the complete machine state in its serialized form.
//
// Layout, all multi-byte values big endian:
//
//	random pool   256 bytes, queue order
//	memory        4096 bytes
//	scale         1 byte
//	scroll down   1 byte, signed
//	scroll side   1 byte, signed
//	pixel count   2 bytes, number of bytes that follow
//	pixels        x, y byte pairs of lit screen pixels, row-major
//	I             2 bytes
//	V0-VF         16 bytes
//	sound timer   1 byte
//	delay timer   1 byte
//	PC            2 bytes
//	key wait      1 byte, 0x00 or 0xf0 | register
//	stack         2 bytes per entry, bottom first, until end of data
type snapshot struct {
	random     [RandomPoolSize]byte
	memory     [MemoryCapacity]byte
	scale      int
	scrollDown int
	scrollSide int
	pixels     []screen.Point
	i          uint16
	v          [arch.RegisterCount]byte
	sound      byte
	delay      byte
	pc         uint16
	wait       int
	stack      []uint16
}

func (c *CPU) capture() *snapshot {
	s := &snapshot{
		memory:     c.memory,
		scale:      c.screen.Scale(),
		scrollDown: c.screen.ScrollDown(),
		scrollSide: c.screen.ScrollSide(),
		pixels:     c.screen.Lit(),
		i:          c.i.Uint16(),
		sound:      c.sound.Uint8(),
		delay:      c.delay.Uint8(),
		pc:         c.pc.Uint16(),
		wait:       c.wait,
		stack:      c.Stack(),
	}

	copy(s.random[:], c.rng.bytes())
	for n := range c.v {
		s.v[n] = c.v[n].Uint8()
	}
	return s
}

func (c *CPU) restore(s *snapshot) {
	c.rng.set(s.random[:])
	c.memory = s.memory
	c.screen.SetScale(s.scale)
	c.screen.SetScroll(s.scrollDown, s.scrollSide)
	c.screen.Restore(s.pixels)
	c.i.Set(uint32(s.i))
	for n := range c.v {
		c.v[n].Set(uint32(s.v[n]))
	}
	c.sound.Set(uint32(s.sound))
	c.delay.Set(uint32(s.delay))
	c.pc.Set(uint32(s.pc))
	c.wait = s.wait
	c.stack = append(c.stack[:0], s.stack...)
	c.halted = false
}

func (s *snapshot) write(w io.Writer) {
	writeBytes(w, s.random[:])
	writeBytes(w, s.memory[:])
	writeU8(w, uint8(s.scale))
	writeI8(w, int8(s.scrollDown))
	writeI8(w, int8(s.scrollSide))

	writeU16(w, uint16(len(s.pixels)*2))
	for _, p := range s.pixels {
		writeU8(w, uint8(p.X))
		writeU8(w, uint8(p.Y))
	}

	writeU16(w, s.i)
	writeBytes(w, s.v[:])
	writeU8(w, s.sound)
	writeU8(w, s.delay)
	writeU16(w, s.pc)

	if s.wait >= 0 {
		writeU8(w, waitMarker|uint8(s.wait))
	} else {
		writeU8(w, 0)
	}

	for _, addr := range s.stack {
		writeU16(w, addr)
	}
}

func (s *snapshot) read(r io.Reader) {
	readFull(r, s.random[:])
	readFull(r, s.memory[:])

	s.scale = int(readU8(r))
	if s.scale != screen.HighRes && s.scale != screen.LowRes {
		panic(errors.Errorf("invalid scale %d", s.scale))
	}

	s.scrollDown = int(readI8(r))
	s.scrollSide = int(readI8(r))

	size := int(readU16(r))
	if size%2 != 0 {
		panic(errors.Errorf("odd pixel list length %d", size))
	}

	s.pixels = make([]screen.Point, size/2)
	for n := range s.pixels {
		p := screen.Point{X: int(readU8(r)), Y: int(readU8(r))}
		if !screen.InBounds(p.X, p.Y) {
			panic(errors.Errorf("pixel %d,%d out of range", p.X, p.Y))
		}
		s.pixels[n] = p
	}

	s.i = readU16(r)
	readFull(r, s.v[:])
	s.sound = readU8(r)
	s.delay = readU8(r)
	s.pc = readU16(r)

	switch m := readU8(r); {
	case m == 0:
		s.wait = -1
	case m&0xf0 == waitMarker:
		s.wait = int(m & 0xf)
	default:
		panic(errors.Errorf("invalid key wait marker %02x", m))
	}

	tail, err := io.ReadAll(r)
	check(err)

	if len(tail)%2 != 0 {
		panic(errors.New("truncated call stack"))
	}
	if len(tail)/2 > StackCapacity {
		panic(errors.Errorf("call stack depth %d exceeds %d", len(tail)/2, StackCapacity))
	}

	s.stack = make([]uint16, len(tail)/2)
	for n := range s.stack {
		s.stack[n] = uint16(tail[n*2])<<8 | uint16(tail[n*2+1])
	}
}

// Save writes the complete machine state to w.
func (c *CPU) Save(w io.Writer) (err error) {
	defer recoverOnPanic(&err)
	c.capture().write(w)
	return
}

// Load reads machine state written by Save. The CPU is left untouched
// if the data is malformed. A halted program is resumed.
func (c *CPU) Load(r io.Reader) (err error) {
	defer recoverOnPanic(&err)

	var s snapshot
	s.read(r)
	c.restore(&s)
	return
}

// MarshalBinary implements encoding.BinaryMarshaler.
func (c *CPU) MarshalBinary() ([]byte, error) {
	var buf bytes.Buffer
	if err := c.Save(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler.
func (c *CPU) UnmarshalBinary(data []byte) error {
	return c.Load(bytes.NewReader(data))
}
