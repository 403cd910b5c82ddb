package generator

import (
	crand "crypto/rand"
	"encoding/binary"
	"math/rand"
	"sync"
)

// SeedSource produces seeds for generation requests that do not supply one.
// Implementations must be safe for concurrent use.
type SeedSource interface {
	Next() int64
}

type randomSeeds struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewSeedSource returns the process-wide seed source: a math/rand stream
// seeded once from crypto/rand. Constructed once at wiring time and reused
// for the life of the service.
func NewSeedSource() SeedSource {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		// crypto/rand is documented to not fail on supported platforms;
		// a zero seed still yields a valid deterministic stream.
		return &randomSeeds{rng: rand.New(rand.NewSource(0))}
	}
	return &randomSeeds{rng: rand.New(rand.NewSource(int64(binary.LittleEndian.Uint64(b[:]))))}
}

func (s *randomSeeds) Next() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	// Full signed range; negative seeds are valid and round-trip through
	// the name grammar.
	return int64(s.rng.Uint64())
}
