package pkg

import (
	"time"

	"github.com/google/uuid"
	"golang.org/x/exp/rand"
)

// GenerateMatchID - generates a unique identifier for a match.
func GenerateMatchID() string {
	return uuid.NewString()
}

// NewRand - returns a PCG-backed generator. The same seed always yields the same sequence.
// The result is not safe for concurrent use.
func NewRand(seed uint64) *rand.Rand {
	source := &rand.PCGSource{}
	source.Seed(seed)

	return rand.New(source)
}

// NewTimeSeededRand - returns a generator seeded from the wall clock.
func NewTimeSeededRand() *rand.Rand {
	return NewRand(uint64(time.Now().UnixNano()))
}
