// Package gameid generates time-ordered identifiers for games.
//
// IDs follow the UUIDv7 layout (48-bit millisecond timestamp, version and
// variant bits, random remainder) encoded as 26 lowercase Crockford base32
// characters, so they sort by creation time.
package gameid

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"
	"strings"
	"time"
)

const alphabet = "0123456789abcdefghjkmnpqrstvwxyz"

// Length is the number of characters in every ID.
const Length = 26

// Source supplies random bits. *math/rand/v2.Rand satisfies it, which keeps
// IDs reproducible in tests and seeded simulations.
type Source interface {
	Uint64() uint64
}

// Generator creates IDs. The zero value uses crypto/rand and the wall clock.
type Generator struct {
	src Source
	now func() time.Time
}

// NewGenerator returns a generator drawing randomness from src. A nil src
// falls back to crypto/rand.
func NewGenerator(src Source) *Generator {
	return &Generator{src: src}
}

// Generate returns a new ID using crypto/rand.
func Generate() string {
	var g Generator
	return g.Generate()
}

// Generate returns a new ID.
func (g *Generator) Generate() string {
	now := time.Now
	if g.now != nil {
		now = g.now
	}
	hi, lo := g.randomBits()

	ms := uint64(now().UnixMilli()) & (1<<48 - 1)
	hi = ms<<16 | 0x7000 | hi&0x0fff         // timestamp, version 7, rand_a
	lo = 0x8000000000000000 | lo&(1<<62-1) // variant 10, rand_b

	return encode(hi, lo)
}

func (g *Generator) randomBits() (uint64, uint64) {
	if g.src != nil {
		return g.src.Uint64(), g.src.Uint64()
	}
	var buf [16]byte
	if _, err := rand.Read(buf[:]); err != nil {
		panic("gameid: reading random bytes: " + err.Error())
	}
	return binary.BigEndian.Uint64(buf[:8]), binary.BigEndian.Uint64(buf[8:])
}

// encode writes the 128-bit value as 26 base32 digits; the leading digit only
// carries three bits.
func encode(hi, lo uint64) string {
	out := make([]byte, Length)
	for i := Length - 1; i >= 0; i-- {
		out[i] = alphabet[lo&0x1f]
		lo = lo>>5 | hi<<59
		hi >>= 5
	}
	return string(out)
}

func decode(id string) (hi, lo uint64, err error) {
	if err := Validate(id); err != nil {
		return 0, 0, err
	}
	for i := 0; i < Length; i++ {
		v := uint64(strings.IndexByte(alphabet, id[i]))
		hi = hi<<5 | lo>>59
		lo = lo<<5 | v
	}
	return hi, lo, nil
}

// Validate checks that id is a well-formed game ID.
func Validate(id string) error {
	if len(id) != Length {
		return fmt.Errorf("game ID must be exactly %d characters, got %d", Length, len(id))
	}
	if id[0] > '7' {
		return fmt.Errorf("game ID first character must be 0-7, got %c", id[0])
	}
	for i := 0; i < len(id); i++ {
		if strings.IndexByte(alphabet, id[i]) < 0 {
			return fmt.Errorf("invalid character %c at position %d", id[i], i)
		}
	}
	return nil
}

// Time returns the creation time embedded in id, truncated to milliseconds.
func Time(id string) (time.Time, error) {
	hi, _, err := decode(id)
	if err != nil {
		return time.Time{}, err
	}
	return time.UnixMilli(int64(hi >> 16)), nil
}
