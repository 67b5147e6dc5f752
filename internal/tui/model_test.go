package tui

import (
	"math/big"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/verte-zerg/xorbreak/internal/bitwise"
	"github.com/verte-zerg/xorbreak/internal/cryptanalysis"
	"github.com/verte-zerg/xorbreak/internal/freq"
	"github.com/verte-zerg/xorbreak/internal/model"
)

const iceLyrics = "Burning 'em, if you ain't quick and nimble\nI go crazy when I hear a cymbal"

func newTestModel(t *testing.T) (*Model, []model.KeySizeScore) {
	t.Helper()
	ciphertext := bitwise.XorWithKey([]byte("ICE"), []byte(iceLyrics))
	opts := cryptanalysis.Options{
		KeySizes:     cryptanalysis.KeySizeRange(2, 5),
		SampleChunks: 7,
		Charset:      cryptanalysis.FullCharset(),
	}
	analysis, err := cryptanalysis.Break(freq.English(), opts, ciphertext)
	if err != nil {
		t.Fatalf("Break failed: %v", err)
	}
	return NewModel(freq.English(), opts, ciphertext, analysis), cryptanalysis.RankKeySizes(analysis.Candidates)
}

func keyRune(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func TestInspectorCyclesKeySizes(t *testing.T) {
	m, ranked := newTestModel(t)
	if m.rank != 0 || string(m.Analysis().Key) != "ICE" {
		t.Fatalf("expected best candidate first, got rank %d key %q", m.rank, m.Analysis().Key)
	}

	m.Update(keyRune('n'))
	if m.rank != 1 || m.Analysis().KeySize != ranked[1].KeySize {
		t.Fatalf("expected rank 1 size %d, got rank %d size %d", ranked[1].KeySize, m.rank, m.Analysis().KeySize)
	}
	if len(m.Analysis().Key) != ranked[1].KeySize {
		t.Fatalf("key length %d does not follow key size %d", len(m.Analysis().Key), ranked[1].KeySize)
	}
	if len(m.Analysis().Candidates) != len(ranked) {
		t.Fatalf("candidates were dropped on re-break")
	}

	m.Update(keyRune('p'))
	if string(m.Analysis().Key) != "ICE" {
		t.Fatalf("expected key ICE after stepping back, got %q", m.Analysis().Key)
	}

	m.Update(keyRune('p'))
	if m.rank != len(ranked)-1 {
		t.Fatalf("expected wrap to last rank, got %d", m.rank)
	}
}

func TestInspectorTabsAndQuit(t *testing.T) {
	m, _ := newTestModel(t)
	m.Update(tea.KeyMsg{Type: tea.KeyLeft})
	if m.activeTab != tabPlaintext {
		t.Fatalf("expected wrap to plaintext tab, got %d", m.activeTab)
	}
	m.Update(keyRune('l'))
	if m.activeTab != tabKeySizes {
		t.Fatalf("expected key sizes tab, got %d", m.activeTab)
	}
	if _, cmd := m.Update(keyRune('q')); cmd == nil {
		t.Fatalf("expected quit command")
	}
}

func TestInspectorView(t *testing.T) {
	m, _ := newTestModel(t)
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 20})
	view := m.View()
	if !strings.Contains(view, "Key Sizes") || !strings.Contains(view, `"ICE"`) {
		t.Fatalf("unexpected view:\n%s", view)
	}
	m.Update(keyRune('l'))
	m.Update(keyRune('l'))
	if view := m.View(); !strings.Contains(view, "Burning 'em") {
		t.Fatalf("expected plaintext in view:\n%s", view)
	}
}

func TestSizeRowsMarksCurrent(t *testing.T) {
	rows := sizeRows([]model.KeySizeScore{
		{KeySize: 3, Score: big.NewRat(11, 4)},
		{KeySize: 2, Score: big.NewRat(14, 5)},
	}, 2)
	if rows[0][0] != "" || rows[1][0] != "*" {
		t.Fatalf("unexpected marks: %v", rows)
	}
	if rows[0][3] != "2.7500" || rows[0][4] != "11/4" {
		t.Fatalf("unexpected score cells: %v", rows[0])
	}
}

func TestColumnRows(t *testing.T) {
	rows := columnRows([]model.ColumnResult{
		{Index: 0, Length: 25, Key: 'I', Score: big.NewRat(1, 2)},
	})
	want := []string{"0", "25", "0x49", "I", "0.5000"}
	for i, cell := range want {
		if rows[0][i] != cell {
			t.Fatalf("cell %d: expected %q, got %q", i, cell, rows[0][i])
		}
	}
}
