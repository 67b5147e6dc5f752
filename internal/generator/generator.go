// Package generator builds random repeating keys for demonstration ciphertexts.
package generator

import (
	"fmt"
	"math/rand"
	"time"
)

// Generator produces random keys.
type Generator struct {
	rnd *rand.Rand
}

// New returns a Generator seeded with the current time.
func New() *Generator {
	return NewSeeded(time.Now().UnixNano())
}

// NewSeeded returns a Generator with a fixed seed.
func NewSeeded(seed int64) *Generator {
	return &Generator{rnd: rand.New(rand.NewSource(seed))}
}

// RandomKey draws length bytes uniformly from charset.
func (g *Generator) RandomKey(length int, charset []byte) ([]byte, error) {
	if length <= 0 {
		return nil, fmt.Errorf("key length must be > 0")
	}
	if len(charset) == 0 {
		return nil, fmt.Errorf("charset is empty")
	}
	key := make([]byte, length)
	for i := range key {
		key[i] = charset[g.rnd.Intn(len(charset))]
	}
	return key, nil
}
