package buzzer

import (
	"encoding/binary"
	"math"
	"sync/atomic"
)

// wave produces a mono square wave as 32-bit little endian float
// samples. It is silent while switched off.
type wave struct {
	on     atomic.Bool
	step   atomic.Uint64 // Phase increment per sample, as float64 bits.
	volume float32
	phase  float64 // Owned by the reading goroutine.
}

func newWave(volume float64) *wave {
	return &wave{volume: float32(volume)}
}

// setFrequency sets the tone for the given sample rate.
func (w *wave) setFrequency(hz float64, sampleRate int) {
	w.step.Store(math.Float64bits(hz / float64(sampleRate)))
}

func (w *wave) Read(p []byte) (int, error) {
	n := len(p) &^ 3
	step := math.Float64frombits(w.step.Load())
	on := w.on.Load()

	for i := 0; i < n; i += 4 {
		var v float32

		if on {
			if w.phase < 0.5 {
				v = w.volume
			} else {
				v = -w.volume
			}

			w.phase += step
			w.phase -= math.Floor(w.phase)
		}

		binary.LittleEndian.PutUint32(p[i:], math.Float32bits(v))
	}

	return n, nil
}
