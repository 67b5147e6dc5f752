package cryptanalysis

import (
	"math/big"

	"github.com/verte-zerg/xorbreak/internal/bitwise"
)

// BreakSingleByte tries every byte of charset as a single-byte XOR key and
// returns the one whose decryption scores highest under m.
//
// Candidates are compared with >=, so on equal scores the later charset entry
// wins. An empty charset yields (0, 0).
func BreakSingleByte(m FrequencyModel[byte], charset, ciphertext []byte) (byte, *big.Rat) {
	best := new(big.Rat)
	var bestByte byte
	for _, c := range charset {
		score := Score(m, bitwise.XorByte(c, ciphertext))
		if score.Cmp(best) >= 0 {
			best = score
			bestByte = c
		}
	}
	return bestByte, best
}
