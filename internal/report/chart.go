package report

import (
	"fmt"
	"io"
	"math/big"
	"os"
	"strings"

	"golang.org/x/term"
)

const (
	defaultBarWidth = 40
	colorReset      = "\x1b[0m"
	colorBest       = "\x1b[32m"
	colorBar        = "\x1b[36m"
)

var partialBlocks = []rune{' ', '▏', '▎', '▍', '▌', '▋', '▊', '▉'}

// Bar is one labelled value of a bar chart.
type Bar struct {
	Label string
	Value *big.Rat
	Mark  bool
}

// RenderBars draws a horizontal bar chart scaled to the largest value.
// Marked bars are highlighted when color is enabled.
func RenderBars(w io.Writer, title string, bars []Bar, width int, forceColor bool) error {
	if len(bars) == 0 {
		return nil
	}
	if width <= 0 {
		width = defaultBarWidth
	}
	maxVal := 0.0
	labelWidth := 0
	for _, b := range bars {
		if v := ratFloat(b.Value); v > maxVal {
			maxVal = v
		}
		if len(b.Label) > labelWidth {
			labelWidth = len(b.Label)
		}
	}
	useColor := shouldUseColor(w, forceColor)

	if title != "" {
		if _, err := fmt.Fprintln(w, title); err != nil {
			return err
		}
	}
	for _, b := range bars {
		v := ratFloat(b.Value)
		bar := barString(v, maxVal, width)
		if useColor {
			color := colorBar
			if b.Mark {
				color = colorBest
			}
			bar = color + bar + colorReset
		}
		marker := " "
		if b.Mark {
			marker = "*"
		}
		if _, err := fmt.Fprintf(w, "%*s %s │%s %.4f\n", labelWidth, b.Label, marker, bar, v); err != nil {
			return err
		}
	}
	return nil
}

func barString(v, maxVal float64, width int) string {
	if maxVal <= 0 || v <= 0 {
		return ""
	}
	eighths := int(v / maxVal * float64(width*8))
	if eighths > width*8 {
		eighths = width * 8
	}
	var b strings.Builder
	b.WriteString(strings.Repeat("█", eighths/8))
	if rem := eighths % 8; rem > 0 {
		b.WriteRune(partialBlocks[rem])
	}
	return b.String()
}

func shouldUseColor(w io.Writer, forceColor bool) bool {
	if forceColor {
		return true
	}
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(file.Fd()))
}

func ratFloat(r *big.Rat) float64 {
	if r == nil {
		return 0
	}
	f, _ := r.Float64()
	return f
}
