package report

import "testing"

func TestFormatTableAlignsColumns(t *testing.T) {
	headers := []string{"Size", "Distance", "Key"}
	rows := [][]string{
		{"3", "2.7704", "ICE"},
		{"12", "0.5", "K!"},
	}
	rightAlign := map[int]bool{0: true, 1: true}

	lines := formatTable(headers, rows, rightAlign)
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
	if lines[0] != "Size  Distance  Key" {
		t.Fatalf("unexpected header line: %q", lines[0])
	}
	if lines[1] != "   3    2.7704  ICE" {
		t.Fatalf("unexpected row line: %q", lines[1])
	}
	if lines[2] != "  12       0.5  K!" {
		t.Fatalf("unexpected row line: %q", lines[2])
	}
}

func TestFormatTableEmpty(t *testing.T) {
	if lines := formatTable(nil, nil, nil); lines != nil {
		t.Fatalf("expected nil for empty table, got %q", lines)
	}
}
