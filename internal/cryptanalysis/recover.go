package cryptanalysis

import (
	"github.com/verte-zerg/xorbreak/internal/bitwise"
	"github.com/verte-zerg/xorbreak/internal/model"
)

// RecoverColumns transposes ciphertext into keySize columns and breaks each
// column as single-byte XOR, in column order.
func RecoverColumns(m FrequencyModel[byte], charset []byte, keySize int, ciphertext []byte) []model.ColumnResult {
	cols := bitwise.Transpose(ciphertext, keySize)
	out := make([]model.ColumnResult, 0, len(cols))
	for i, col := range cols {
		key, score := BreakSingleByte(m, charset, col)
		out = append(out, model.ColumnResult{Index: i, Length: len(col), Key: key, Score: score})
	}
	return out
}

// RecoverKey returns the repeating key of length keySize that best explains
// ciphertext under m. A non-positive keySize yields an empty key.
func RecoverKey(m FrequencyModel[byte], charset []byte, keySize int, ciphertext []byte) []byte {
	cols := RecoverColumns(m, charset, keySize, ciphertext)
	key := make([]byte, len(cols))
	for i, col := range cols {
		key[i] = col.Key
	}
	return key
}
