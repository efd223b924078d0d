package dice

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	mrand "math/rand/v2"
	"sync"
)

// Source is the randomness provider for dice rolls.
type Source interface {
	// Float64 returns a uniformly distributed value in [0, 1).
	Float64() float64
}

// cryptoSource implements Source using crypto/rand.
//
// Invariant: values are built from 53 random bits, so every result is an
// exact multiple of 2^-53 in [0, 1).
type cryptoSource struct{}

// NewCryptoSource returns a Source backed by crypto/rand. It is safe for
// concurrent use.
//
// Postcondition: Every value returned by Float64 is in [0, 1).
func NewCryptoSource() Source {
	return &cryptoSource{}
}

// Float64 returns a cryptographically secure float in [0, 1).
//
// Panics with "dice: crypto/rand failure: <err>" if crypto/rand fails.
func (c *cryptoSource) Float64() float64 {
	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		panic("dice: crypto/rand failure: " + err.Error())
	}
	return float64(binary.BigEndian.Uint64(buf[:])>>11) / (1 << 53)
}

// seededSource is a reproducible Source for replays and simulations.
type seededSource struct {
	mu  sync.Mutex
	rng *mrand.Rand
}

// NewSeededSource returns a deterministic Source. Two sources built from the
// same seed produce the same sequence.
//
// Postcondition: Every value returned by Float64 is in [0, 1).
func NewSeededSource(seed uint64) Source {
	return &seededSource{rng: mrand.New(mrand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

// Float64 returns the next value of the seeded sequence.
func (s *seededSource) Float64() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.Float64()
}

// fairSource derives floats from HMAC-SHA256(serverSeed, "clientSeed:nonce:round").
// Each 32-byte round yields eight floats of four bytes each, so anyone holding
// the seeds can recompute every die of a roll sequence.
type fairSource struct {
	mu         sync.Mutex
	serverSeed string
	clientSeed string
	nonce      uint64
	round      uint64
	pos        int
	buf        [32]byte
}

// NewFairSource returns a verifiable Source seeded by a server seed, a client
// seed, and a nonce.
//
// Precondition: serverSeed must be non-empty.
// Postcondition: Every value returned by Float64 is in [0, 1).
func NewFairSource(serverSeed, clientSeed string, nonce uint64) Source {
	if serverSeed == "" {
		panic("dice: NewFairSource called with empty server seed")
	}
	f := &fairSource{serverSeed: serverSeed, clientSeed: clientSeed, nonce: nonce}
	f.generateRound()
	return f
}

// Float64 consumes four bytes of the HMAC stream.
func (f *fairSource) Float64() float64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	result := 0.0
	divider := 1.0
	for i := 0; i < 4; i++ {
		divider *= 256
		result += float64(f.next()) / divider
	}
	return result
}

func (f *fairSource) next() byte {
	if f.pos >= len(f.buf) {
		f.round++
		f.pos = 0
		f.generateRound()
	}
	b := f.buf[f.pos]
	f.pos++
	return b
}

func (f *fairSource) generateRound() {
	h := hmac.New(sha256.New, []byte(f.serverSeed))
	fmt.Fprintf(h, "%s:%d:%d", f.clientSeed, f.nonce, f.round)
	copy(f.buf[:], h.Sum(nil))
}

// NewSourceByKind builds the Source named by kind: "crypto", "seeded" (using
// seed) or "fair" (using serverSeed, clientSeed and nonce).
//
// Postcondition: Returns a non-nil Source or an error for an unknown kind or
// a fair source without a server seed.
func NewSourceByKind(kind string, seed uint64, serverSeed, clientSeed string, nonce uint64) (Source, error) {
	switch kind {
	case "", "crypto":
		return NewCryptoSource(), nil
	case "seeded":
		return NewSeededSource(seed), nil
	case "fair":
		if serverSeed == "" {
			return nil, fmt.Errorf("dice: fair source requires a server seed")
		}
		return NewFairSource(serverSeed, clientSeed, nonce), nil
	}
	return nil, fmt.Errorf("dice: unknown source kind %q", kind)
}
