package bitwise

import (
	"bytes"
	"encoding/hex"
	"errors"
	"math/big"
	"testing"
)

func TestXorWithKeyRepeatingKey(t *testing.T) {
	plaintext := []byte("Burning 'em, if you ain't quick and nimble\nI go crazy when I hear a cymbal")
	expected := "0b3637272a2b2e63622c2e69692a23693a2a3c6324202d623d63343c2a26226324272765272a282b2f20430a652e2c652a3124333a653e2b2027630c692b20283165286326302e27282f"
	got := hex.EncodeToString(XorWithKey([]byte("ICE"), plaintext))
	if got != expected {
		t.Fatalf("unexpected ciphertext: %s", got)
	}
}

func TestXorWithKeyRoundTrip(t *testing.T) {
	cases := []struct {
		key  string
		text string
	}{
		{key: "ICE", text: "Cooking MC's like a pound of bacon"},
		{key: "k", text: ""},
		{key: "a much longer key than the text", text: "short"},
		{key: "", text: "no key leaves data unchanged"},
	}
	for _, tc := range cases {
		enc := XorWithKey([]byte(tc.key), []byte(tc.text))
		dec := XorWithKey([]byte(tc.key), enc)
		if string(dec) != tc.text {
			t.Fatalf("round trip with key %q: got %q, want %q", tc.key, dec, tc.text)
		}
	}
}

func TestXorWithKeyDoesNotMutateInput(t *testing.T) {
	data := []byte("immutable")
	orig := append([]byte(nil), data...)
	_ = XorWithKey([]byte{0xff}, data)
	_ = XorByte(0xff, data)
	if !bytes.Equal(data, orig) {
		t.Fatalf("input was mutated: %q", data)
	}
}

func TestXorByte(t *testing.T) {
	got := XorByte('X', []byte{'X' ^ 'a', 'X' ^ 'b'})
	if string(got) != "ab" {
		t.Fatalf("unexpected output: %q", got)
	}
}

func TestHammingDistance(t *testing.T) {
	d, err := HammingDistance([]byte("this is a test"), []byte("wokka wokka!!!"))
	if err != nil {
		t.Fatalf("HammingDistance failed: %v", err)
	}
	if d != 37 {
		t.Fatalf("expected distance 37, got %d", d)
	}
	if _, err := HammingDistance([]byte("a"), []byte("ab")); !errors.Is(err, ErrLengthMismatch) {
		t.Fatalf("expected ErrLengthMismatch, got %v", err)
	}
}

func TestMeanPairwiseHammingDistance(t *testing.T) {
	chunks := [][]byte{{0x00, 0x00}, {0xff, 0x00}, {0x0f, 0x00}}
	// pairs: 8/2, 4/2, 4/2 -> mean 16/6 = 8/3
	got, err := MeanPairwiseHammingDistance(chunks)
	if err != nil {
		t.Fatalf("MeanPairwiseHammingDistance failed: %v", err)
	}
	if got.Cmp(big.NewRat(8, 3)) != 0 {
		t.Fatalf("expected 8/3, got %s", got.RatString())
	}
}

func TestMeanPairwiseHammingDistanceErrors(t *testing.T) {
	if _, err := MeanPairwiseHammingDistance([][]byte{{1}}); !errors.Is(err, ErrTooFewChunks) {
		t.Fatalf("expected ErrTooFewChunks, got %v", err)
	}
	if _, err := MeanPairwiseHammingDistance([][]byte{{1, 2}, {1}}); !errors.Is(err, ErrLengthMismatch) {
		t.Fatalf("expected ErrLengthMismatch, got %v", err)
	}
	if _, err := MeanPairwiseHammingDistance([][]byte{{}, {}}); err == nil {
		t.Fatalf("expected error for empty chunks")
	}
}

func TestChunks(t *testing.T) {
	buf := []byte("abcdefgh")
	got := Chunks(buf, 3, 5)
	if len(got) != 2 {
		t.Fatalf("expected 2 chunks, got %d", len(got))
	}
	if string(got[0]) != "abc" || string(got[1]) != "def" {
		t.Fatalf("unexpected chunks: %q", got)
	}
	if got := Chunks(buf, 2, 2); len(got) != 2 || string(got[1]) != "cd" {
		t.Fatalf("unexpected limited chunks: %q", got)
	}
	if got := Chunks(buf, 0, 2); got != nil {
		t.Fatalf("expected nil for zero size")
	}
}

func TestTranspose(t *testing.T) {
	cols := Transpose([]byte("abcdefgh"), 3)
	expected := []string{"adg", "beh", "cf"}
	if len(cols) != len(expected) {
		t.Fatalf("expected %d columns, got %d", len(expected), len(cols))
	}
	for i, want := range expected {
		if string(cols[i]) != want {
			t.Fatalf("column %d: got %q, want %q", i, cols[i], want)
		}
	}
	if cols := Transpose([]byte("ab"), 4); len(cols) != 4 || len(cols[3]) != 0 {
		t.Fatalf("expected 4 columns with an empty tail, got %q", cols)
	}
	if cols := Transpose([]byte("ab"), 0); cols != nil {
		t.Fatalf("expected nil for zero stride")
	}
}
