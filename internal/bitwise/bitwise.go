// Package bitwise provides XOR, Hamming distance, and buffer slicing helpers.
package bitwise

import (
	"errors"
	"fmt"
	"math/big"
	"math/bits"
)

var (
	// ErrLengthMismatch is returned when two buffers must have equal length.
	ErrLengthMismatch = errors.New("buffers differ in length")
	// ErrTooFewChunks is returned when fewer than two chunks are compared.
	ErrTooFewChunks = errors.New("need at least two chunks")
)

// XorWithKey applies key cyclically over data and returns a new buffer.
// An empty key returns a copy of data.
func XorWithKey(key, data []byte) []byte {
	out := make([]byte, len(data))
	if len(key) == 0 {
		copy(out, data)
		return out
	}
	for i, b := range data {
		out[i] = b ^ key[i%len(key)]
	}
	return out
}

// XorByte XORs every byte of data with b.
func XorByte(b byte, data []byte) []byte {
	out := make([]byte, len(data))
	for i, v := range data {
		out[i] = v ^ b
	}
	return out
}

// HammingDistance counts differing bits between two equal-length buffers.
func HammingDistance(a, b []byte) (int, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("hamming distance of %d and %d bytes: %w", len(a), len(b), ErrLengthMismatch)
	}
	n := 0
	for i := range a {
		n += bits.OnesCount8(a[i] ^ b[i])
	}
	return n, nil
}

// MeanPairwiseHammingDistance averages the per-byte Hamming distance over
// every unordered pair of chunks. All chunks must have the same non-zero length.
func MeanPairwiseHammingDistance(chunks [][]byte) (*big.Rat, error) {
	if len(chunks) < 2 {
		return nil, ErrTooFewChunks
	}
	size := len(chunks[0])
	if size == 0 {
		return nil, fmt.Errorf("chunk size must be > 0")
	}
	sum := new(big.Rat)
	pairs := int64(0)
	for i := 0; i < len(chunks); i++ {
		for j := i + 1; j < len(chunks); j++ {
			d, err := HammingDistance(chunks[i], chunks[j])
			if err != nil {
				return nil, err
			}
			sum.Add(sum, big.NewRat(int64(d), int64(size)))
			pairs++
		}
	}
	return sum.Quo(sum, new(big.Rat).SetInt64(pairs)), nil
}

// Chunks returns up to count contiguous size-byte slices from the start of buf.
// A trailing partial chunk is never returned. The slices alias buf.
func Chunks(buf []byte, size, count int) [][]byte {
	if size <= 0 || count <= 0 {
		return nil
	}
	out := make([][]byte, 0, count)
	for i := 0; i < count && (i+1)*size <= len(buf); i++ {
		out = append(out, buf[i*size:(i+1)*size])
	}
	return out
}

// Transpose splits buf into stride columns; column i holds the bytes at
// positions i, i+stride, i+2*stride, ... Columns are fresh copies.
func Transpose(buf []byte, stride int) [][]byte {
	if stride <= 0 {
		return nil
	}
	cols := make([][]byte, stride)
	for i := range cols {
		cols[i] = make([]byte, 0, len(buf)/stride+1)
	}
	for i, b := range buf {
		cols[i%stride] = append(cols[i%stride], b)
	}
	return cols
}
