// Package sevenbag implements the seven-bag piece randomizer: kinds are
// drawn from a shuffled bag of all seven tetrominoes, and the bag is
// reshuffled only once empty. Every window of seven consecutive draws
// aligned to a bag boundary is a permutation of the seven kinds, so no
// piece can repeat more than twice in a row or stay absent longer than
// twelve draws.
package sevenbag

import (
	"math/rand"
	"time"
)

// BagSize is the number of distinct piece kinds in one bag.
const BagSize = 7

// Bag is a seeded bag randomizer. Not safe for concurrent use.
type Bag struct {
	rng   *rand.Rand
	queue []int
}

// New creates a bag randomizer. A zero seed picks one from the clock;
// any other seed makes the draw order fully deterministic.
func New(seed int64) *Bag {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Bag{rng: rand.New(rand.NewSource(seed))}
}

// Next draws the next piece kind.
func (b *Bag) Next() int {
	if len(b.queue) == 0 {
		b.refill()
	}
	kind := b.queue[0]
	b.queue = b.queue[1:]
	return kind
}

// Peek returns the next n kinds without consuming them.
func (b *Bag) Peek(n int) []int {
	for len(b.queue) < n {
		b.refill()
	}
	out := make([]int, n)
	copy(out, b.queue[:n])
	return out
}

func (b *Bag) refill() {
	perm := b.rng.Perm(BagSize)
	b.queue = append(b.queue, perm...)
}
