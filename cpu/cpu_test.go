package cpu

import (
	"bytes"
	"io"
	"reflect"
	"testing"

	"github.com/hexaflex/chip8/arch"
	"github.com/hexaflex/chip8/event"
	"github.com/hexaflex/chip8/screen"
)

func TestJumpPlusOffset(t *testing.T) {
	c := New(nil, trace(t))
	c.LoadMemory([]byte{0x12, 0x04, 0x00, 0x00, 0x60, 0x12, 0xb1, 0x23}, ProgramAddress)

	step(t, c, Keypad{})
	if c.PC() != 0x204 {
		t.Fatalf("have PC %04x, want 0204", c.PC())
	}

	step(t, c, Keypad{})
	step(t, c, Keypad{})
	if c.PC() != 0x135 {
		t.Fatalf("have PC %04x, want 0135", c.PC())
	}
}

func TestStoreLoad(t *testing.T) {
	c := New(nil, trace(t))
	c.LoadMemory([]byte{0x60, 0x10, 0xa0, 0x00, 0xf0, 0x55, 0x60, 0x01, 0xf0, 0x65}, ProgramAddress)

	for i := 0; i < 5; i++ {
		step(t, c, Keypad{})
	}

	if c.Memory()[0] != 0x10 {
		t.Fatalf("have memory[0] %02x, want 10", c.Memory()[0])
	}
	if c.V(0) != 0x10 {
		t.Fatalf("have V0 %02x, want 10", c.V(0))
	}
	if c.I() != 0 {
		t.Fatalf("have I %04x, want 0000", c.I())
	}
}

func TestSelfJumpHalts(t *testing.T) {
	c := New(nil, trace(t))
	c.LoadMemory([]byte{0x60, 0x01, 0x12, 0x02}, ProgramAddress)

	step(t, c, Keypad{})
	if err := c.Step(Keypad{}); err != io.EOF {
		t.Fatalf("have %v, want io.EOF", err)
	}

	before, _ := c.MarshalBinary()
	for i := 0; i < 10; i++ {
		if err := c.Step(Keypad{0x1: true}); err != io.EOF {
			t.Fatalf("have %v, want io.EOF", err)
		}
	}
	after, _ := c.MarshalBinary()

	if !c.Halted() || c.PC() != 0x202 {
		t.Fatalf("unexpected state after halt: PC %04x", c.PC())
	}
	if !bytes.Equal(before, after) {
		t.Fatalf("halted steps mutated state")
	}
}

func TestEXIT(t *testing.T) {
	ct := newCodeTest()
	ct.emit(0x00fd)
	ct.emit(0x6001)

	ct.want[0] = 0
	runTest(t, ct)
}

func TestNOP(t *testing.T) {
	ct := newCodeTest()
	ct.emit(0x0000, 0x6001)
	ct.halt()

	ct.want[0] = 1
	runTest(t, ct)
}

func TestMOVI(t *testing.T) {
	ct := newCodeTest()
	ct.emit(0x6012, 0x6aff)
	ct.halt()

	ct.want[0x0] = 0x12
	ct.want[0xa] = 0xff
	runTest(t, ct)
}

func TestADDI(t *testing.T) {
	//   MOVI V0, 0xff
	//   MOVI VF, 0x05
	//   ADDI V0, 0x02
	ct := newCodeTest()
	ct.emit(0x60ff, 0x6f05, 0x7002)
	ct.halt()

	ct.want[0x0] = 0x01
	ct.want[0xf] = 0x05
	runTest(t, ct)
}

func TestLogic(t *testing.T) {
	ct := newCodeTest()
	ct.emit(0x600c, 0x610a, 0x620c, 0x630c)
	ct.emit(0x8011, 0x8212, 0x8313, 0x8410)
	ct.halt()

	ct.want[0] = 0x0e
	ct.want[2] = 0x08
	ct.want[3] = 0x06
	ct.want[4] = 0x0a
	runTest(t, ct)
}

func TestADD(t *testing.T) {
	tests := []struct {
		a, b    uint16
		sum, vf int
	}{
		{0x01, 0x02, 0x03, 0},
		{0xff, 0x02, 0x01, 1},
		{0x80, 0x80, 0x00, 1},
	}

	for _, tt := range tests {
		ct := newCodeTest()
		ct.emit(0x6000|tt.a, 0x6100|tt.b, 0x8014)
		ct.halt()

		ct.want[0] = tt.sum
		ct.want[0xf] = tt.vf
		runTest(t, ct)
	}
}

func TestSUB(t *testing.T) {
	tests := []struct {
		op         uint16
		a, b       uint16
		result, vf int
	}{
		{0x8015, 0x05, 0x03, 0x02, 1},
		{0x8015, 0x03, 0x05, 0xfe, 0},
		{0x8015, 0x05, 0x05, 0x00, 1},
		{0x8017, 0x03, 0x05, 0x02, 1},
		{0x8017, 0x05, 0x03, 0xfe, 0},
	}

	for _, tt := range tests {
		ct := newCodeTest()
		ct.emit(0x6000|tt.a, 0x6100|tt.b, tt.op)
		ct.halt()

		ct.want[0] = tt.result
		ct.want[0xf] = tt.vf
		runTest(t, ct)
	}
}

func TestShift(t *testing.T) {
	tests := []struct {
		op         uint16
		a          uint16
		result, vf int
	}{
		{0x8016, 0x05, 0x02, 1},
		{0x8016, 0x04, 0x02, 0},
		{0x801e, 0x81, 0x02, 1},
		{0x801e, 0x41, 0x82, 0},
	}

	for _, tt := range tests {
		ct := newCodeTest()
		ct.emit(0x6000|tt.a, 0x61ff, tt.op)
		ct.halt()

		ct.want[0] = tt.result
		ct.want[1] = 0xff
		ct.want[0xf] = tt.vf
		runTest(t, ct)
	}
}

func TestFlagOverwritesResult(t *testing.T) {
	//   MOVI VF, 0x01
	//   MOVI V1, 0x02
	//   ADD  VF, V1
	ct := newCodeTest()
	ct.emit(0x6f01, 0x6102, 0x8f14)
	ct.halt()

	ct.want[0xf] = 0
	runTest(t, ct)
}

func TestSkip(t *testing.T) {
	ct := newCodeTest()
	ct.emit(0x6005)
	ct.emit(0x3005, 0x6101) // skipped
	ct.emit(0x4005, 0x6201)
	ct.emit(0x6405)
	ct.emit(0x5040, 0x6601) // skipped
	ct.emit(0x9040, 0x6701)
	ct.halt()

	ct.want[1] = 0
	ct.want[2] = 1
	ct.want[6] = 0
	ct.want[7] = 1
	runTest(t, ct)
}

func TestSkipKey(t *testing.T) {
	ct := newCodeTest()
	ct.emit(0x6005)
	ct.emit(0xe09e, 0x6101) // skipped
	ct.emit(0xe0a1, 0x6201)
	ct.emit(0x6320)
	ct.emit(0xe39e, 0x6401)
	ct.emit(0xe3a1, 0x6501) // skipped
	ct.halt()

	ct.keys[5] = true
	ct.want[1] = 0
	ct.want[2] = 1
	ct.want[4] = 1
	ct.want[5] = 0
	runTest(t, ct)
}

func TestCallRet(t *testing.T) {
	//   0x200 CALL 0x206
	//   0x202 MOVI V1, 2
	//   0x204 JP   0x204
	//   0x206 MOVI V0, 1
	//   0x208 RET
	ct := newCodeTest()
	ct.emit(0x2206, 0x6102, 0x1204, 0x6001, 0x00ee)

	ct.want[0] = 1
	ct.want[1] = 2
	c := runTest(t, ct)

	if len(c.Stack()) != 0 {
		t.Fatalf("have stack %v, want empty", c.Stack())
	}
}

func TestStackUnderflow(t *testing.T) {
	c := New(nil, trace(t))
	c.LoadMemory([]byte{0x00, 0xee}, ProgramAddress)

	err := c.Step(Keypad{})
	e, ok := err.(*Error)
	if !ok {
		t.Fatalf("have %v, want *Error", err)
	}
	if e.PC != ProgramAddress || e.Opcode != arch.RET {
		t.Fatalf("unexpected error: %v", e)
	}
}

func TestStackOverflow(t *testing.T) {
	c := New(nil, trace(t))
	c.LoadMemory([]byte{0x22, 0x00}, ProgramAddress)

	for i := 0; i < StackCapacity; i++ {
		step(t, c, Keypad{})
	}

	if _, ok := c.Step(Keypad{}).(*Error); !ok {
		t.Fatalf("expected stack overflow")
	}
	if len(c.Stack()) != StackCapacity {
		t.Fatalf("have depth %d, want %d", len(c.Stack()), StackCapacity)
	}
}

func TestUnknownOpcode(t *testing.T) {
	c := New(nil, trace(t))
	c.LoadMemory([]byte{0x60, 0x01, 0x01, 0x23}, ProgramAddress)
	step(t, c, Keypad{})

	err := c.Step(Keypad{})
	e, ok := err.(*Error)
	if !ok {
		t.Fatalf("have %v, want *Error", err)
	}
	if e.PC != 0x202 || e.Error() != "0202: unknown opcode 0123" {
		t.Fatalf("unexpected error: %v", e)
	}
}

func TestProgramCounterOutOfRange(t *testing.T) {
	c := New(nil, trace(t))
	c.LoadMemory([]byte{0x1f, 0xff}, ProgramAddress)
	step(t, c, Keypad{})

	if _, ok := c.Step(Keypad{}).(*Error); !ok {
		t.Fatalf("expected an error")
	}
}

func TestMemoryAccessOutOfRange(t *testing.T) {
	for _, op := range []uint16{0xf033, 0xf255, 0xf265} {
		ct := newCodeTest()
		ct.emit(0xaffe, op)

		c := New(nil, trace(t))
		c.LoadMemory(ct.program.Bytes(), ProgramAddress)
		step(t, c, Keypad{})

		if _, ok := c.Step(Keypad{}).(*Error); !ok {
			t.Fatalf("%04x: expected an error", op)
		}
	}
}

func TestLoadMemoryOutOfRange(t *testing.T) {
	c := New(nil, nil)
	if err := c.LoadMemory(make([]byte, 2), MemoryCapacity-1); err == nil {
		t.Fatalf("expected an error")
	}
	if err := c.LoadMemory(make([]byte, 2), MemoryCapacity-2); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestBCD(t *testing.T) {
	ct := newCodeTest()
	ct.emit(0x60fe, 0xa300, 0xf033)
	ct.halt()

	c := runTest(t, ct)
	have := c.Memory()[0x300:0x303]
	if !bytes.Equal(have, []byte{2, 5, 4}) {
		t.Fatalf("have %v, want [2 5 4]", have)
	}
}

func TestAddressRegister(t *testing.T) {
	tests := []struct {
		code []uint16
		want uint16
	}{
		{[]uint16{0xa123}, 0x123},
		{[]uint16{0xa0ff, 0x6002, 0xf01e}, 0x101},
		{[]uint16{0x600a, 0xf029}, FontAddress + 50},
		{[]uint16{0x600a, 0xf030}, BigFontAddress + 100},
	}

	for _, tt := range tests {
		ct := newCodeTest()
		ct.emit(tt.code...)
		ct.halt()

		c := runTest(t, ct)
		if c.I() != tt.want {
			t.Fatalf("%04x: have I %04x, want %04x", tt.code, c.I(), tt.want)
		}
	}
}

func TestFonts(t *testing.T) {
	c := New(nil, nil)
	mem := c.Memory()

	if !bytes.Equal(mem[FontAddress:FontAddress+5], []byte{0xf0, 0x90, 0x90, 0x90, 0xf0}) {
		t.Fatalf("unexpected glyph 0: %v", mem[:5])
	}

	glyph := mem[BigFontAddress+10 : BigFontAddress+20]
	want := []byte{0, 0, 0, 0, 0, 0x20, 0x60, 0x20, 0x20, 0x70}
	if !bytes.Equal(glyph, want) {
		t.Fatalf("have big glyph 1 %v, want %v", glyph, want)
	}
}

func TestRND(t *testing.T) {
	ct := newCodeTest()
	ct.emit(0xc00f, 0xc1f0, 0xc200)
	ct.halt()

	ct.want[2] = 0
	c := runTest(t, ct)

	if c.V(0) > 0x0f || c.V(1)&0x0f != 0 {
		t.Fatalf("mask not applied: %02x %02x", c.V(0), c.V(1))
	}
}

func TestRandomPool(t *testing.T) {
	p := newRandomPool(7)
	seen := make(map[byte]bool)

	first := p.next()
	seen[first] = true
	for i := 1; i < RandomPoolSize; i++ {
		seen[p.next()] = true
	}

	if len(seen) != RandomPoolSize {
		t.Fatalf("have %d distinct values, want %d", len(seen), RandomPoolSize)
	}
	if v := p.next(); v != first {
		t.Fatalf("pool did not cycle: have %02x, want %02x", v, first)
	}
}

func TestDrawCollision(t *testing.T) {
	//   LDA  0x000
	//   MOVI V0, 0
	//   MOVI V1, 0
	//   DRW  V0, V1, 5
	//   MOV  V2, VF
	//   DRW  V0, V1, 5
	var rec recorder
	ct := newCodeTest()
	ct.emit(0xa000, 0x6000, 0x6100, 0xd015, 0x82f0, 0xd015)
	ct.halt()
	ct.emitFunc = rec.emit

	ct.want[2] = 0
	ct.want[0xf] = 1
	c := runTest(t, ct)

	if n := len(c.Screen().Lit()); n != 0 {
		t.Fatalf("have %d lit pixels, want 0", n)
	}

	// Glyph 0 has 14 lit pixels, each covering 2x2 screen pixels.
	on, off := rec.drawCounts()
	if on != 56 || off != 56 {
		t.Fatalf("have %d/%d draw events, want 56/56", on, off)
	}
}

func TestDrawClipping(t *testing.T) {
	ct := newCodeTest()
	ct.emit(0xa300, 0x603e, 0x611f, 0xd012)
	ct.halt()
	ct.data[0x300] = []byte{0xff, 0xff}

	c := runTest(t, ct)
	if n := len(c.Screen().Lit()); n != 8 {
		t.Fatalf("have %d lit pixels, want 8", n)
	}
}

func TestDrawWrapsAddress(t *testing.T) {
	ct := newCodeTest()
	ct.emit(0xafff, 0x6000, 0x6100, 0xd012)
	ct.halt()
	ct.data[0xfff] = []byte{0x80}

	// One pixel from 0xfff, four from the first font byte at 0x000.
	c := runTest(t, ct)
	if n := len(c.Screen().Lit()); n != 5*4 {
		t.Fatalf("have %d lit pixels, want 20", n)
	}
}

func TestDrawLarge(t *testing.T) {
	sprite := bytes.Repeat([]byte{0xff}, 32)

	ct := newCodeTest()
	ct.emit(0x00ff, 0xa300, 0x6000, 0x6100, 0xd010)
	ct.halt()
	ct.data[0x300] = sprite

	c := runTest(t, ct)
	if n := len(c.Screen().Lit()); n != 256 {
		t.Fatalf("have %d lit pixels, want 256", n)
	}
	if !c.Screen().Pixel(15, 15) || c.Screen().Pixel(16, 0) {
		t.Fatalf("unexpected sprite bounds")
	}

	ct = newCodeTest()
	ct.emit(0xa300, 0x6000, 0x6100, 0xd010)
	ct.halt()
	ct.data[0x300] = sprite

	c = runTest(t, ct)
	if n := len(c.Screen().Lit()); n != 0 {
		t.Fatalf("have %d lit pixels in low resolution, want 0", n)
	}
}

func TestScreenControl(t *testing.T) {
	var rec recorder
	ct := newCodeTest()
	ct.emit(0x00c3, 0x00fb, 0x00fc, 0x00fc, 0x00ff, 0x00e0)
	ct.halt()
	ct.emitFunc = rec.emit

	c := runTest(t, ct)
	fb := c.Screen()

	if fb.ScrollDown() != 3 || fb.ScrollSide() != -4 {
		t.Fatalf("have scroll %d/%d, want 3/-4", fb.ScrollDown(), fb.ScrollSide())
	}
	if fb.Scale() != screen.HighRes {
		t.Fatalf("have scale %d, want %d", fb.Scale(), screen.HighRes)
	}

	want := []event.Event{
		event.Screen{Op: event.ScrollDown, Amount: 3},
		event.Screen{Op: event.ScrollSide, Amount: 4},
		event.Screen{Op: event.ScrollSide, Amount: -4},
		event.Screen{Op: event.ScrollSide, Amount: -4},
		event.Screen{Op: event.Clear},
	}
	if !reflect.DeepEqual(rec.events, want) {
		t.Fatalf("have %v, want %v", rec.events, want)
	}
}

func TestKeyWait(t *testing.T) {
	c := New(nil, trace(t))
	c.LoadMemory([]byte{0xf5, 0x0a, 0x12, 0x02}, ProgramAddress)

	step(t, c, Keypad{})
	if n, ok := c.AwaitingKey(); !ok || n != 5 {
		t.Fatalf("have %d/%v, want 5/true", n, ok)
	}

	step(t, c, Keypad{})
	if _, ok := c.AwaitingKey(); !ok {
		t.Fatalf("key wait ended without a key")
	}

	var keys Keypad
	keys[0xb] = true
	keys[0x3] = true
	step(t, c, keys)

	if _, ok := c.AwaitingKey(); ok {
		t.Fatalf("key wait did not end")
	}
	if c.V(5) != 3 {
		t.Fatalf("have V5 %x, want 3", c.V(5))
	}
	if c.PC() != 0x202 {
		t.Fatalf("have PC %04x, want 0202", c.PC())
	}
}

func TestTimers(t *testing.T) {
	var rec recorder
	ct := newCodeTest()
	ct.emit(0x6003, 0xf015, 0xf018, 0xf107)
	ct.halt()
	ct.emitFunc = rec.emit

	ct.want[1] = 3
	c := runTest(t, ct)

	if len(rec.events) != 0 {
		t.Fatalf("sound started outside of a frame: %v", rec.events)
	}

	for i := 0; i < 5; i++ {
		c.NextFrame()
	}

	if c.DelayTimer() != 0 || c.SoundTimer() != 0 {
		t.Fatalf("have timers %d/%d, want 0/0", c.DelayTimer(), c.SoundTimer())
	}

	want := []event.Event{event.Audio{Buzz: true}, event.Audio{Buzz: false}}
	if !reflect.DeepEqual(rec.events, want) {
		t.Fatalf("have %v, want %v", rec.events, want)
	}
}

func TestSetPixel(t *testing.T) {
	var rec recorder
	c := New(rec.emit, nil)

	if !c.SetPixel(11, 10, true) {
		t.Fatalf("expected pixel to be set")
	}
	if !c.Screen().Get(5, 5) || !c.Screen().Pixel(10, 11) {
		t.Fatalf("logical pixel not set")
	}
	if on, _ := rec.drawCounts(); on != 4 {
		t.Fatalf("have %d draw events, want 4", on)
	}
	if c.SetPixel(128, 0, true) {
		t.Fatalf("expected out of bounds")
	}
	if c.V(arch.VF) != 0 {
		t.Fatalf("cheat draw touched VF")
	}
}

func TestRedrawAll(t *testing.T) {
	var rec recorder
	c := New(rec.emit, nil)
	c.Screen().SetScale(screen.HighRes)
	c.Screen().Set(3, 4, true)
	rec.events = nil

	c.RedrawAll()

	if len(rec.events) != 1 {
		t.Fatalf("have %d events, want 1", len(rec.events))
	}
	e := rec.events[0].(event.Screen)
	if e.Op != event.Redraw || len(e.Pixels) != 1 || e.Pixels[0] != (screen.Point{X: 3, Y: 4}) {
		t.Fatalf("unexpected redraw: %+v", e)
	}
}

func TestReset(t *testing.T) {
	ct := newCodeTest()
	ct.emit(0x6005, 0xf518, 0x2208)
	ct.emit(0x0000)
	ct.emit(0x1208)

	c := New(nil, nil)
	c.LoadMemory(ct.program.Bytes(), ProgramAddress)
	for i := 0; i < 4; i++ {
		c.Step(Keypad{})
	}
	c.NextFrame()

	c.Reset()

	if c.PC() != ProgramAddress || c.V(5) != 0 || c.SoundTimer() != 0 || len(c.Stack()) != 0 || c.Halted() {
		t.Fatalf("reset left state behind")
	}
	if c.Memory()[ProgramAddress] != 0 {
		t.Fatalf("reset left the program in memory")
	}
	if c.Memory()[0] != 0xf0 || c.Memory()[BigFontAddress+5] != 0xf0 {
		t.Fatalf("reset lost the fonts")
	}
}

func TestKeypad(t *testing.T) {
	tests := []struct {
		key event.Key
		hex int
	}{
		{event.Key1, 0x1}, {event.Key2, 0x2}, {event.Key3, 0x3}, {event.Key4, 0xc},
		{event.KeyQ, 0x4}, {event.KeyW, 0x5}, {event.KeyE, 0x6}, {event.KeyR, 0xd},
		{event.KeyA, 0x7}, {event.KeyS, 0x8}, {event.KeyD, 0x9}, {event.KeyF, 0xe},
		{event.KeyZ, 0xa}, {event.KeyX, 0x0}, {event.KeyC, 0xb}, {event.KeyV, 0xf},
	}

	for _, tt := range tests {
		if have, ok := HexKey(tt.key); !ok || have != tt.hex {
			t.Fatalf("%v: have %x, want %x", tt.key, have, tt.hex)
		}
		if have := HostKey(tt.hex); have != tt.key {
			t.Fatalf("%x: have %v, want %v", tt.hex, have, tt.key)
		}
	}

	if _, ok := HexKey(event.KeyP); ok {
		t.Fatalf("unexpected mapping for P")
	}

	k := KeypadFromKeys(map[event.Key]bool{event.Key4: true, event.KeyV: true, event.KeyP: true, event.KeyX: false})
	want := Keypad{0xc: true, 0xf: true}
	if k != want {
		t.Fatalf("have %v, want %v", k, want)
	}
	if n, ok := k.Lowest(); !ok || n != 0xc {
		t.Fatalf("have %x, want c", n)
	}
	if k.Pressed(0x20) {
		t.Fatalf("key out of range reported as pressed")
	}
}

// step runs a single step and fails the test on error.
func step(t *testing.T, c *CPU, keys Keypad) {
	t.Helper()
	if err := c.Step(keys); err != nil {
		t.Fatalf("Step failure: %v", err)
	}
}

func runTest(t *testing.T, ct *codeTest) *CPU {
	t.Helper()

	c := New(ct.emitFunc, trace(t))
	c.Seed(1)

	if err := c.LoadMemory(ct.program.Bytes(), ProgramAddress); err != nil {
		t.Fatalf("LoadMemory failure: %v", err)
	}

	for addr, p := range ct.data {
		if err := c.LoadMemory(p, addr); err != nil {
			t.Fatalf("LoadMemory failure: %v", err)
		}
	}

	for i := 0; i < MemoryCapacity; i++ {
		if err := c.Step(ct.keys); err != nil {
			if err == io.EOF {
				break
			}
			t.Fatalf("Step failure: %v", err)
		}
	}

	if !c.Halted() {
		t.Fatalf("program did not halt")
	}

	for reg, want := range ct.want {
		if have := int(c.V(reg)); have != want {
			t.Fatalf("V%X: have %02x, want %02x", reg, have, want)
		}
	}

	return c
}

type codeTest struct {
	program  bytes.Buffer
	data     map[int][]byte
	keys     Keypad
	want     map[int]int
	emitFunc EmitFunc
}

func newCodeTest() *codeTest {
	return &codeTest{
		data: make(map[int][]byte),
		want: make(map[int]int),
	}
}

func (ct *codeTest) emit(words ...uint16) {
	for _, w := range words {
		ct.program.WriteByte(byte(w >> 8))
		ct.program.WriteByte(byte(w))
	}
}

// halt emits a jump to itself.
func (ct *codeTest) halt() {
	ct.emit(0x1000 | uint16(ProgramAddress+ct.program.Len()))
}

func trace(t *testing.T) TraceFunc {
	return func(pc uint16, instr arch.Instruction) {
		t.Logf("%04x %04x %s", pc, instr.Raw, instr)
	}
}

type recorder struct {
	events []event.Event
}

func (r *recorder) emit(e event.Event) {
	r.events = append(r.events, e)
}

func (r *recorder) drawCounts() (on, off int) {
	for _, e := range r.events {
		if s, ok := e.(event.Screen); ok && s.Op == event.DrawPixel {
			if s.Lit {
				on++
			} else {
				off++
			}
		}
	}
	return
}
