// Package screen implements the monochrome framebuffer.
//
// Pixels are stored in screen coordinates on a fixed 128x64 grid. The
// scale factor determines how many screen pixels make up one logical
// pixel: 2 for the low resolution 64x32 mode, 1 for the high resolution
// 128x64 mode. Scroll offsets are tracked as state and applied by the
// renderer.
package screen

// Framebuffer dimensions in screen pixels.
const (
	Width  = 128
	Height = 64
)

// Known scale factors.
const (
	HighRes = 1
	LowRes  = 2
)

// Point is a screen pixel coordinate.
type Point struct {
	X, Y int
}

// ChangeFunc is called whenever a screen pixel changes state.
type ChangeFunc func(x, y int, lit bool)

// Framebuffer holds the pixel grid, scale and scroll state.
type Framebuffer struct {
	pixels     [Width * Height]bool
	scale      int
	scrollDown int
	scrollSide int
	onChange   ChangeFunc
}

// New creates an empty low resolution framebuffer.
// onChange may be nil.
func New(onChange ChangeFunc) *Framebuffer {
	if onChange == nil {
		onChange = func(int, int, bool) { /* nop */ }
	}
	return &Framebuffer{
		scale:    LowRes,
		onChange: onChange,
	}
}

// Scale returns the number of screen pixels per logical pixel edge.
func (f *Framebuffer) Scale() int { return f.scale }

// SetScale sets the scale factor. Returns false if s is not one of
// HighRes or LowRes.
func (f *Framebuffer) SetScale(s int) bool {
	if s != HighRes && s != LowRes {
		return false
	}
	f.scale = s
	return true
}

// LogicalWidth returns the width in logical pixels for the current scale.
func (f *Framebuffer) LogicalWidth() int { return Width / f.scale }

// LogicalHeight returns the height in logical pixels for the current scale.
func (f *Framebuffer) LogicalHeight() int { return Height / f.scale }

// ScrollDown returns the accumulated vertical scroll offset.
func (f *Framebuffer) ScrollDown() int { return f.scrollDown }

// ScrollSide returns the accumulated horizontal scroll offset.
func (f *Framebuffer) ScrollSide() int { return f.scrollSide }

// SetScroll sets both scroll offsets.
func (f *Framebuffer) SetScroll(down, side int) {
	f.scrollDown = down
	f.scrollSide = side
}

// AddScroll adds to the scroll offsets.
func (f *Framebuffer) AddScroll(down, side int) {
	f.scrollDown += down
	f.scrollSide += side
}

// InBounds returns true if the screen coordinate is on the grid.
func InBounds(x, y int) bool {
	return x >= 0 && x < Width && y >= 0 && y < Height
}

// Pixel returns the state of the given screen pixel.
// Out of range coordinates are unlit.
func (f *Framebuffer) Pixel(x, y int) bool {
	return InBounds(x, y) && f.pixels[y*Width+x]
}

// Visible returns the state of the pixel displayed at the given screen
// coordinate once the scroll offsets are applied.
func (f *Framebuffer) Visible(x, y int) bool {
	return f.Pixel(x-f.scrollSide, y-f.scrollDown)
}

// SetPixel sets the given screen pixel. The change function is only
// called when the pixel actually changes. Returns false if the
// coordinate is out of range.
func (f *Framebuffer) SetPixel(x, y int, lit bool) bool {
	if !InBounds(x, y) {
		return false
	}

	i := y*Width + x
	if f.pixels[i] != lit {
		f.pixels[i] = lit
		f.onChange(x, y, lit)
	}
	return true
}

// Get returns the state of the given logical pixel.
func (f *Framebuffer) Get(x, y int) bool {
	return f.Pixel(x*f.scale, y*f.scale)
}

// Set sets every screen pixel covered by the given logical pixel.
// Out of range coordinates are ignored.
func (f *Framebuffer) Set(x, y int, lit bool) {
	if x < 0 || y < 0 || x >= f.LogicalWidth() || y >= f.LogicalHeight() {
		return
	}

	for dy := 0; dy < f.scale; dy++ {
		for dx := 0; dx < f.scale; dx++ {
			f.SetPixel(x*f.scale+dx, y*f.scale+dy, lit)
		}
	}
}

// Swap toggles the given logical pixel.
// Returns true if the pixel went from lit to unlit.
func (f *Framebuffer) Swap(x, y int) bool {
	if x < 0 || y < 0 || x >= f.LogicalWidth() || y >= f.LogicalHeight() {
		return false
	}

	old := f.Get(x, y)
	f.Set(x, y, !old)
	return old
}

// Clear turns every pixel off without calling the change function.
func (f *Framebuffer) Clear() {
	f.pixels = [Width * Height]bool{}
}

// Reset clears the pixels, resets scroll offsets and returns to low
// resolution mode.
func (f *Framebuffer) Reset() {
	f.Clear()
	f.scale = LowRes
	f.scrollDown = 0
	f.scrollSide = 0
}

// Lit returns the coordinates of all lit screen pixels in row-major order.
func (f *Framebuffer) Lit() []Point {
	var out []Point
	for y := 0; y < Height; y++ {
		for x := 0; x < Width; x++ {
			if f.pixels[y*Width+x] {
				out = append(out, Point{X: x, Y: y})
			}
		}
	}
	return out
}

// Restore replaces the pixel grid with the given lit pixels without
// calling the change function. Out of range points are ignored.
func (f *Framebuffer) Restore(lit []Point) {
	f.Clear()
	for _, p := range lit {
		if InBounds(p.X, p.Y) {
			f.pixels[p.Y*Width+p.X] = true
		}
	}
}
