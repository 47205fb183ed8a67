// Package entropy provides the random source behind minigames, rebuild
// complications, and starting-coin rolls. Gameplay code takes a Source so
// tests and replays can substitute a seeded deterministic stream; the
// default source draws from crypto/rand.
package entropy

import (
	"crypto/rand"
	"encoding/binary"
	"math"
	mathrand "math/rand"
	"sync"
)

// Source yields the random draws the engine consumes.
type Source interface {
	// Float returns a uniform float64 in [0, 1).
	Float() float64
	// Intn returns a uniform int in [0, n). n must be > 0.
	Intn(n int) int
	// Roll returns a die roll in [1, sides].
	Roll(sides int) int
}

// Seeded returns a deterministic Source for tests and replays.
func Seeded(seed int64) Source {
	return &seededSource{rng: mathrand.New(mathrand.NewSource(seed))}
}

type seededSource struct {
	mu  sync.Mutex
	rng *mathrand.Rand
}

func (s *seededSource) Float() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.Float64()
}

func (s *seededSource) Intn(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.Intn(n)
}

func (s *seededSource) Roll(sides int) int {
	return s.Intn(sides) + 1
}

// Crypto returns a Source backed by crypto/rand. Used by default in
// production so runs are not replayable from a leaked seed.
func Crypto() Source {
	return cryptoSource{}
}

type cryptoSource struct{}

func (cryptoSource) Float() float64 {
	return cryptoRandFloat()
}

func (c cryptoSource) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	return int(math.Floor(cryptoRandFloat() * float64(n)))
}

func (c cryptoSource) Roll(sides int) int {
	return c.Intn(sides) + 1
}

// cryptoRandFloat generates a random float64 using crypto/rand.
func cryptoRandFloat() float64 {
	var buf [8]byte
	_, err := rand.Read(buf[:])
	if err != nil {
		// This should never happen but return 0.5 as a safe default.
		return 0.5
	}
	// Use only 53 bits for a uniform float64 in [0, 1).
	n := binary.LittleEndian.Uint64(buf[:]) >> 11
	return float64(n) / float64(1<<53)
}
