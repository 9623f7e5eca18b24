package term

import (
	"io"
	"strings"

	"github.com/hexaflex/chip8/screen"
)

// Cells for the four combinations of an upper and a lower pixel.
var cells = [4]string{" ", "▀", "▄", "█"}

// render draws fb from the top left corner of the terminal, one
// character cell per two pixel rows, clipped to cols columns. A status
// line follows the image.
func render(w io.Writer, fb *screen.Framebuffer, cols int, paused bool) error {
	if cols <= 0 || cols > screen.Width {
		cols = screen.Width
	}

	var sb strings.Builder
	sb.Grow(screen.Width * screen.Height * 2)
	sb.WriteString("\x1b[H")

	for y := 0; y < screen.Height; y += 2 {
		for x := 0; x < cols; x++ {
			n := 0
			if fb.Visible(x, y) {
				n |= 1
			}
			if fb.Visible(x, y+1) {
				n |= 2
			}
			sb.WriteString(cells[n])
		}
		sb.WriteString("\r\n")
	}

	if paused {
		sb.WriteString("PAUSED")
	}
	sb.WriteString("\x1b[K")

	_, err := io.WriteString(w, sb.String())
	return err
}
