// Package model defines shared data structures.
package model

import (
	"math/big"
	"time"
)

// Config defines analysis settings resolved from flags and the config file.
type Config struct {
	Encoding     string
	MinKeySize   int
	MaxKeySize   int
	SampleChunks int
	Charset      string
	ModelPath    string
	Store        bool
}

// HistoryConfig defines filters for stored runs.
type HistoryConfig struct {
	Source string
	Since  *time.Time
	Last   int
}

// KeySizeScore is the mean normalized edit distance recorded for one candidate key size.
type KeySizeScore struct {
	KeySize int
	Score   *big.Rat
}

// ColumnResult is the single-byte break of one transposed column.
type ColumnResult struct {
	Index  int
	Length int
	Key    byte
	Score  *big.Rat
}

// Analysis is the outcome of a repeating-key break.
type Analysis struct {
	KeySize    int
	Key        []byte
	Plaintext  []byte
	Score      *big.Rat
	Candidates []KeySizeScore
	Columns    []ColumnResult
}

// Detection is the most plausible single-byte XOR line of a batch.
type Detection struct {
	Line      int
	Key       byte
	Score     *big.Rat
	Plaintext []byte
}

// Run captures a stored analysis.
type Run struct {
	ID               int64
	CreatedAt        time.Time
	Source           string
	CiphertextSHA256 string
	CiphertextLen    int
	KeySize          int
	Key              []byte
	Score            *big.Rat
	SampleChunks     int
	Charset          string
}
