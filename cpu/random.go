package cpu

import "math/rand"

// RandomPoolSize is the number of values in the random pool.
const RandomPoolSize = 256

// randomPool is a circular queue of pregenerated bytes.
// Every draw takes the front value and moves it to the back.
type randomPool struct {
	values [RandomPoolSize]byte
	head   int
}

func newRandomPool(seed int64) randomPool {
	var p randomPool
	for i, v := range rand.New(rand.NewSource(seed)).Perm(RandomPoolSize) {
		p.values[i] = byte(v)
	}
	return p
}

func (p *randomPool) next() byte {
	v := p.values[p.head]
	p.head = (p.head + 1) % RandomPoolSize
	return v
}

// bytes returns the pool contents in queue order.
func (p *randomPool) bytes() []byte {
	out := make([]byte, 0, RandomPoolSize)
	out = append(out, p.values[p.head:]...)
	return append(out, p.values[:p.head]...)
}

func (p *randomPool) set(v []byte) {
	copy(p.values[:], v)
	p.head = 0
}
