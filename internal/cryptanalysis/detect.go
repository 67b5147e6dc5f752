package cryptanalysis

import (
	"github.com/verte-zerg/xorbreak/internal/bitwise"
	"github.com/verte-zerg/xorbreak/internal/model"
)

// DetectSingleByte breaks every line as single-byte XOR and returns the line
// whose best decryption scores highest. Later lines win ties. ok is false
// when lines is empty.
func DetectSingleByte(m FrequencyModel[byte], charset []byte, lines [][]byte) (model.Detection, bool) {
	var best model.Detection
	found := false
	for i, line := range lines {
		key, score := BreakSingleByte(m, charset, line)
		if found && score.Cmp(best.Score) < 0 {
			continue
		}
		best = model.Detection{
			Line:      i,
			Key:       key,
			Score:     score,
			Plaintext: bitwise.XorByte(key, line),
		}
		found = true
	}
	return best, found
}
