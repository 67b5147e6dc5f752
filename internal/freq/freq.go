// Package freq provides symbol frequency models with exact rational weights.
package freq

import (
	"errors"
	"fmt"
	"math/big"
	"os"
	"sort"

	"github.com/BurntSushi/toml"
)

var (
	// ErrNegativeCount is returned when a count table holds a negative value.
	ErrNegativeCount = errors.New("negative symbol count")
	// ErrEmptyModel is returned when counts sum to zero.
	ErrEmptyModel = errors.New("frequency model has no weight")
)

// Model maps symbols to relative-frequency weights. A Model is immutable once built.
type Model[T comparable] struct {
	weights map[T]*big.Rat
}

// New returns a model holding copies of the given weights.
func New[T comparable](weights map[T]*big.Rat) *Model[T] {
	m := &Model[T]{weights: make(map[T]*big.Rat, len(weights))}
	for sym, w := range weights {
		m.weights[sym] = new(big.Rat).Set(w)
	}
	return m
}

// FromCounts normalizes occurrence counts into weights that sum to 1.
func FromCounts[T comparable](counts map[T]int64) (*Model[T], error) {
	var total int64
	for _, n := range counts {
		if n < 0 {
			return nil, ErrNegativeCount
		}
		total += n
	}
	if total == 0 {
		return nil, ErrEmptyModel
	}
	m := &Model[T]{weights: make(map[T]*big.Rat, len(counts))}
	for sym, n := range counts {
		m.weights[sym] = big.NewRat(n, total)
	}
	return m, nil
}

// Contains reports whether sym has a weight in the model.
func (m *Model[T]) Contains(sym T) bool {
	_, ok := m.weights[sym]
	return ok
}

// Weight returns a copy of the weight of sym, or zero when absent.
func (m *Model[T]) Weight(sym T) *big.Rat {
	w, ok := m.weights[sym]
	if !ok {
		return new(big.Rat)
	}
	return new(big.Rat).Set(w)
}

// Len returns the number of symbols in the model.
func (m *Model[T]) Len() int {
	return len(m.weights)
}

// Symbols returns the model's byte symbols in ascending order.
func Symbols(m *Model[byte]) []byte {
	out := make([]byte, 0, m.Len())
	for sym := range m.weights {
		out = append(out, sym)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// englishCounts approximates English letter frequencies per 100000 letters.
var englishCounts = map[byte]int64{
	'a': 8167, 'b': 1492, 'c': 2782, 'd': 4253, 'e': 12702, 'f': 2228,
	'g': 2015, 'h': 6094, 'i': 6966, 'j': 153, 'k': 772, 'l': 4025,
	'm': 2406, 'n': 6749, 'o': 7507, 'p': 1929, 'q': 95, 'r': 5987,
	's': 6327, 't': 9056, 'u': 2758, 'v': 978, 'w': 2360, 'x': 150,
	'y': 1974, 'z': 74,
}

var englishExtra = map[byte]int64{
	' ': 19182, '.': 650, ',': 610, '"': 260, '\'': 240, '\n': 400,
	'-': 150, '?': 50, '!': 40, ';': 30, ':': 30,
}

// English returns a built-in model of English text. Uppercase letters carry a
// tenth of their lowercase count.
func English() *Model[byte] {
	counts := make(map[byte]int64, 2*len(englishCounts)+len(englishExtra))
	for ch, n := range englishCounts {
		counts[ch] = n
		upper := n / 10
		if upper < 1 {
			upper = 1
		}
		counts[ch-'a'+'A'] = upper
	}
	for ch, n := range englishExtra {
		counts[ch] = n
	}
	m, err := FromCounts(counts)
	if err != nil {
		panic(fmt.Sprintf("invalid built-in english model: %v", err))
	}
	return m
}

// File is the TOML layout of a model file.
type File struct {
	Counts map[string]int64 `toml:"counts"`
}

// Load reads a byte model from a TOML file with a [counts] table whose keys
// are single-byte strings.
func Load(path string) (*Model[byte], error) {
	if path == "" {
		return nil, fmt.Errorf("model path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("failed to stat model: %w", err)
	}
	var file File
	if _, err := toml.DecodeFile(path, &file); err != nil {
		return nil, fmt.Errorf("failed to decode model: %w", err)
	}
	counts := make(map[byte]int64, len(file.Counts))
	for key, n := range file.Counts {
		if len(key) != 1 {
			return nil, fmt.Errorf("model symbol %q must be a single byte", key)
		}
		counts[key[0]] = n
	}
	m, err := FromCounts(counts)
	if err != nil {
		return nil, fmt.Errorf("failed to build model from %s: %w", path, err)
	}
	return m, nil
}
