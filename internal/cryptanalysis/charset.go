package cryptanalysis

import (
	"fmt"
	"strings"
)

// Charset names accepted by ParseCharset.
const (
	CharsetFull      = "full"
	CharsetASCII     = "ascii"
	CharsetPrintable = "printable"
)

// FullCharset returns every byte value 0x00..0xff in order.
func FullCharset() []byte {
	return byteRange(0x00, 0xff)
}

// ASCIICharset returns 0x00..0x7f in order.
func ASCIICharset() []byte {
	return byteRange(0x00, 0x7f)
}

// PrintableCharset returns printable ASCII 0x20..0x7e in order.
func PrintableCharset() []byte {
	return byteRange(0x20, 0x7e)
}

// ParseCharset resolves a charset name.
func ParseCharset(name string) ([]byte, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", CharsetFull:
		return FullCharset(), nil
	case CharsetASCII:
		return ASCIICharset(), nil
	case CharsetPrintable:
		return PrintableCharset(), nil
	default:
		return nil, fmt.Errorf("unknown charset %q (available: %s, %s, %s)", name, CharsetFull, CharsetASCII, CharsetPrintable)
	}
}

func byteRange(lo, hi byte) []byte {
	out := make([]byte, 0, int(hi)-int(lo)+1)
	for b := int(lo); b <= int(hi); b++ {
		out = append(out, byte(b))
	}
	return out
}
