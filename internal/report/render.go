// Package report renders analysis results as plain text.
package report

import (
	"encoding/hex"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/verte-zerg/xorbreak/internal/model"
)

const unprintable = '·'

// RenderAnalysis prints the recovered key followed by the decrypted text.
func RenderAnalysis(w io.Writer, a model.Analysis) error {
	lines := []string{
		fmt.Sprintf("Key size: %d", a.KeySize),
		fmt.Sprintf("Key: %s (%s)", QuoteKey(a.Key), hex.EncodeToString(a.Key)),
		fmt.Sprintf("Score: %.4f", ratFloat(a.Score)),
		"",
		"Plaintext",
		Printable(a.Plaintext, true),
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// RenderKeySizes prints candidates ranked by distance and a chart in key size order.
func RenderKeySizes(w io.Writer, scores []model.KeySizeScore, best int, forceColor bool) error {
	if len(scores) == 0 {
		_, err := fmt.Fprintln(w, "No key size candidates had enough data.")
		return err
	}
	ranked := make([]model.KeySizeScore, len(scores))
	copy(ranked, scores)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score.Cmp(ranked[j].Score) < 0
	})

	if _, err := fmt.Fprintln(w, "Key Size Candidates"); err != nil {
		return err
	}
	headers := []string{"Rank", "Size", "Distance", "Exact"}
	rows := make([][]string, 0, len(ranked))
	for i, s := range ranked {
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			strconv.Itoa(s.KeySize),
			fmt.Sprintf("%.4f", ratFloat(s.Score)),
			s.Score.RatString(),
		})
	}
	if err := writeLines(w, formatTable(headers, rows, map[int]bool{0: true, 1: true, 2: true})); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w, ""); err != nil {
		return err
	}

	bars := make([]Bar, 0, len(scores))
	for _, s := range scores {
		bars = append(bars, Bar{Label: strconv.Itoa(s.KeySize), Value: s.Score, Mark: s.KeySize == best})
	}
	if err := RenderBars(w, "Normalized Edit Distance", bars, 0, forceColor); err != nil {
		return err
	}
	_, err := fmt.Fprintln(w, "")
	return err
}

// RenderColumns prints the per-column single-byte results.
func RenderColumns(w io.Writer, cols []model.ColumnResult) error {
	if len(cols) == 0 {
		_, err := fmt.Fprintln(w, "No columns.")
		return err
	}
	if _, err := fmt.Fprintln(w, "Columns"); err != nil {
		return err
	}
	headers := []string{"Column", "Bytes", "Key", "Char", "Score"}
	rows := make([][]string, 0, len(cols))
	for _, c := range cols {
		rows = append(rows, []string{
			strconv.Itoa(c.Index),
			strconv.Itoa(c.Length),
			fmt.Sprintf("0x%02x", c.Key),
			Printable([]byte{c.Key}, false),
			fmt.Sprintf("%.4f", ratFloat(c.Score)),
		})
	}
	if err := writeLines(w, formatTable(headers, rows, map[int]bool{0: true, 1: true, 4: true})); err != nil {
		return err
	}
	_, err := fmt.Fprintln(w, "")
	return err
}

// RenderDetection prints the line found by single-byte detection.
func RenderDetection(w io.Writer, d model.Detection) error {
	lines := []string{
		fmt.Sprintf("Line: %d", d.Line+1),
		fmt.Sprintf("Key: 0x%02x %s", d.Key, QuoteKey([]byte{d.Key})),
		fmt.Sprintf("Score: %.4f", ratFloat(d.Score)),
		"Plaintext: " + Printable(d.Plaintext, false),
	}
	return writeLines(w, lines)
}

// RenderHistory prints stored runs.
func RenderHistory(w io.Writer, runs []model.Run) error {
	if len(runs) == 0 {
		_, err := fmt.Fprintln(w, "No runs found.")
		return err
	}
	headers := []string{"ID", "When", "Source", "Bytes", "Size", "Key", "Score", "SHA-256"}
	rows := make([][]string, 0, len(runs))
	for _, r := range runs {
		digest := r.CiphertextSHA256
		if len(digest) > 12 {
			digest = digest[:12]
		}
		rows = append(rows, []string{
			strconv.FormatInt(r.ID, 10),
			r.CreatedAt.Local().Format("2006-01-02 15:04"),
			r.Source,
			strconv.Itoa(r.CiphertextLen),
			strconv.Itoa(r.KeySize),
			QuoteKey(r.Key),
			fmt.Sprintf("%.4f", ratFloat(r.Score)),
			digest,
		})
	}
	return writeLines(w, formatTable(headers, rows, map[int]bool{0: true, 3: true, 4: true, 6: true}))
}

// Printable replaces bytes outside printable ASCII with a middle dot.
// Newlines and tabs survive when keepLayout is set.
func Printable(data []byte, keepLayout bool) string {
	var b strings.Builder
	b.Grow(len(data))
	for _, c := range data {
		switch {
		case c >= 0x20 && c < 0x7f:
			b.WriteByte(c)
		case keepLayout && (c == '\n' || c == '\t'):
			b.WriteByte(c)
		default:
			b.WriteRune(unprintable)
		}
	}
	return b.String()
}

// QuoteKey renders a key as a Go-quoted string.
func QuoteKey(key []byte) string {
	return strconv.Quote(string(key))
}

func writeLines(w io.Writer, lines []string) error {
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}
