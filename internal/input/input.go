// Package input reads and decodes ciphertext from files or stdin.
package input

import (
	"bufio"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"strings"
)

// Supported encodings.
const (
	EncodingHex    = "hex"
	EncodingBase64 = "base64"
	EncodingRaw    = "raw"
)

// ReadSource reads the whole file at path, or stdin when path is "" or "-".
func ReadSource(path string) ([]byte, error) {
	if path == "" || path == "-" {
		return readAll(os.Stdin)
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := file.Close(); cerr != nil {
			// Best-effort close for read-only input.
			_ = cerr
		}
	}()
	return readAll(file)
}

func readAll(r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read input: %w", err)
	}
	return data, nil
}

// Decode converts encoded text into bytes. Whitespace is ignored for hex and base64.
func Decode(data []byte, encoding string) ([]byte, error) {
	switch normalizeEncoding(encoding) {
	case EncodingHex:
		out, err := hex.DecodeString(stripSpace(string(data)))
		if err != nil {
			return nil, fmt.Errorf("failed to decode hex: %w", err)
		}
		return out, nil
	case EncodingBase64:
		out, err := base64.StdEncoding.DecodeString(stripSpace(string(data)))
		if err != nil {
			return nil, fmt.Errorf("failed to decode base64: %w", err)
		}
		return out, nil
	case EncodingRaw:
		out := make([]byte, len(data))
		copy(out, data)
		return out, nil
	default:
		return nil, unknownEncoding(encoding)
	}
}

// Encode renders bytes in the given encoding. Hex and base64 end with a newline.
func Encode(data []byte, encoding string) ([]byte, error) {
	switch normalizeEncoding(encoding) {
	case EncodingHex:
		return []byte(hex.EncodeToString(data) + "\n"), nil
	case EncodingBase64:
		return []byte(base64.StdEncoding.EncodeToString(data) + "\n"), nil
	case EncodingRaw:
		out := make([]byte, len(data))
		copy(out, data)
		return out, nil
	default:
		return nil, unknownEncoding(encoding)
	}
}

// ValidateEncoding reports an error for unsupported encodings.
func ValidateEncoding(encoding string) error {
	switch normalizeEncoding(encoding) {
	case EncodingHex, EncodingBase64, EncodingRaw:
		return nil
	default:
		return unknownEncoding(encoding)
	}
}

// LoadLines reads one encoded ciphertext per line from path (stdin for "" or "-")
// and decodes each non-empty line.
func LoadLines(path, encoding string) ([][]byte, error) {
	if normalizeEncoding(encoding) == EncodingRaw {
		return nil, fmt.Errorf("line input requires hex or base64 encoding")
	}
	data, err := ReadSource(path)
	if err != nil {
		return nil, err
	}
	var lines [][]byte
	scanner := bufio.NewScanner(strings.NewReader(string(data)))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		decoded, err := Decode([]byte(line), encoding)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
		lines = append(lines, decoded)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return nil, fmt.Errorf("input has no lines")
	}
	return lines, nil
}

func normalizeEncoding(encoding string) string {
	return strings.ToLower(strings.TrimSpace(encoding))
}

func unknownEncoding(encoding string) error {
	return fmt.Errorf("unknown encoding %q (available: %s, %s, %s)", encoding, EncodingHex, EncodingBase64, EncodingRaw)
}

func stripSpace(s string) string {
	return strings.Join(strings.Fields(s), "")
}
