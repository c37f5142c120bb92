package negotiate

import (
	"math/rand"
	"time"

	"github.com/notnil/chess"
)

// Selector picks a uniformly random legal move when negotiation fails
// to produce one. The source is injectable so tests can fix the seed.
type Selector struct {
	rng *rand.Rand
}

func NewSelector(rng *rand.Rand) *Selector {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Selector{rng: rng}
}

// Pick returns a random element of the legal set, or nil if the set
// is empty (terminal position).
func (s *Selector) Pick(legal []*chess.Move) *chess.Move {
	if len(legal) == 0 {
		return nil
	}
	return legal[s.rng.Intn(len(legal))]
}
