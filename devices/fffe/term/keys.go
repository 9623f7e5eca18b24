package term

import (
	"strconv"

	"github.com/hexaflex/chip8/event"
)

const ctrlC = 0x03

// Function key numbers for "ESC [ n ~" sequences.
var csiFunctionKeys = map[int]int{
	11: 1, 12: 2, 13: 3, 14: 4,
	15: 5, 17: 6, 18: 7, 19: 8,
	20: 9, 21: 10, 23: 11, 24: 12,
}

// decodeKeys translates raw terminal input into keys. quit is true if
// the input holds a Ctrl-C. Unknown bytes and escape sequences are
// skipped.
func decodeKeys(p []byte) (keys []event.Key, quit bool) {
	for i := 0; i < len(p); i++ {
		b := p[i]

		switch {
		case b == ctrlC:
			quit = true

		case b == 0x1b && i+2 < len(p) && p[i+1] == 'O':
			if c := p[i+2]; c >= 'P' && c <= 'S' {
				keys = append(keys, event.KeyFromFunction(int(c-'P')+1))
			}
			i += 2

		case b == 0x1b && i+1 < len(p) && p[i+1] == '[':
			j := i + 2
			for j < len(p) && (p[j] < 0x40 || p[j] > 0x7e) {
				j++
			}

			if j < len(p) && p[j] == '~' {
				n, err := strconv.Atoi(string(p[i+2 : j]))
				if f, ok := csiFunctionKeys[n]; err == nil && ok {
					keys = append(keys, event.KeyFromFunction(f))
				}
			}
			i = j

		default:
			if k := event.KeyFromRune(rune(b)); k != event.KeyUnknown {
				keys = append(keys, k)
			}
		}
	}

	return keys, quit
}
