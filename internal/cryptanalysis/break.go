package cryptanalysis

import (
	"errors"
	"fmt"

	"github.com/verte-zerg/xorbreak/internal/bitwise"
	"github.com/verte-zerg/xorbreak/internal/model"
)

const (
	defaultMinKeySize   = 2
	defaultMaxKeySize   = 40
	defaultSampleChunks = 10
)

var (
	// ErrNoKeySize is returned when no candidate key size has enough ciphertext to sample.
	ErrNoKeySize = errors.New("no candidate key size has enough data")
	// ErrEmptyCiphertext is returned for empty input.
	ErrEmptyCiphertext = errors.New("ciphertext is empty")
)

// Options controls a repeating-key break.
type Options struct {
	KeySizes     []int
	SampleChunks int
	Charset      []byte
}

// DefaultOptions tries key sizes 2..40 with 10 sample chunks over all byte values.
func DefaultOptions() Options {
	return Options{
		KeySizes:     KeySizeRange(defaultMinKeySize, defaultMaxKeySize),
		SampleChunks: defaultSampleChunks,
		Charset:      FullCharset(),
	}
}

// Break estimates the key size, recovers the key, and decrypts ciphertext.
func Break(m FrequencyModel[byte], opts Options, ciphertext []byte) (model.Analysis, error) {
	if len(ciphertext) == 0 {
		return model.Analysis{}, ErrEmptyCiphertext
	}
	candidates := KeySizeScores(opts.KeySizes, opts.SampleChunks, ciphertext)
	keySize, ok := bestKeySize(candidates)
	if !ok {
		return model.Analysis{}, fmt.Errorf("%w (ciphertext %d bytes, %d sample chunks)", ErrNoKeySize, len(ciphertext), opts.SampleChunks)
	}
	analysis, err := BreakWithKeySize(m, opts, keySize, ciphertext)
	if err != nil {
		return model.Analysis{}, err
	}
	analysis.Candidates = candidates
	return analysis, nil
}

// BreakWithKeySize recovers a key of the given size and decrypts ciphertext.
// Candidates are left empty.
func BreakWithKeySize(m FrequencyModel[byte], opts Options, keySize int, ciphertext []byte) (model.Analysis, error) {
	if len(ciphertext) == 0 {
		return model.Analysis{}, ErrEmptyCiphertext
	}
	if keySize <= 0 {
		return model.Analysis{}, fmt.Errorf("key size must be > 0, got %d", keySize)
	}
	columns := RecoverColumns(m, opts.Charset, keySize, ciphertext)
	key := make([]byte, len(columns))
	for i, col := range columns {
		key[i] = col.Key
	}
	plaintext := bitwise.XorWithKey(key, ciphertext)
	return model.Analysis{
		KeySize:   keySize,
		Key:       key,
		Plaintext: plaintext,
		Score:     Score(m, plaintext),
		Columns:   columns,
	}, nil
}
