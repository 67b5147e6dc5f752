package tui

import "testing"

func TestWrapTextBreaksOnSpaces(t *testing.T) {
	got := wrapText("I go crazy when I hear a cymbal", 12)
	want := "I go crazy\nwhen I hear\na cymbal"
	if got != want {
		t.Fatalf("unexpected wrap:\n%q\nwant\n%q", got, want)
	}
}

func TestWrapTextHardBreaksLongWords(t *testing.T) {
	got := wrapText("abcdefgh", 3)
	if got != "abc\ndef\ngh" {
		t.Fatalf("unexpected wrap: %q", got)
	}
}

func TestWrapTextKeepsNewlines(t *testing.T) {
	got := wrapText("ab\n\ncd", 10)
	if got != "ab\n\ncd" {
		t.Fatalf("unexpected wrap: %q", got)
	}
	if got := wrapText("unchanged", 0); got != "unchanged" {
		t.Fatalf("expected no wrap for zero width, got %q", got)
	}
}
