// Package cryptanalysis breaks single-byte and repeating-key XOR ciphers by
// frequency scoring and normalized edit distance.
//
// All scores and distances are exact rationals, so ranking and tie-breaking
// are reproducible. Nothing in this package keeps state between calls.
package cryptanalysis

import "math/big"

// FrequencyModel exposes symbol weights for scoring.
type FrequencyModel[T comparable] interface {
	Contains(sym T) bool
	Weight(sym T) *big.Rat
}

// Score sums the model weight of every symbol in seq. Symbols absent from the
// model contribute nothing.
func Score[T comparable](m FrequencyModel[T], seq []T) *big.Rat {
	counts := make(map[T]int64)
	for _, sym := range seq {
		counts[sym]++
	}
	total := new(big.Rat)
	term := new(big.Rat)
	for sym, n := range counts {
		if !m.Contains(sym) {
			continue
		}
		term.SetInt64(n)
		term.Mul(term, m.Weight(sym))
		total.Add(total, term)
	}
	return total
}
