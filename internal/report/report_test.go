package report

import (
	"bytes"
	"context"
	"math/big"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/verte-zerg/xorbreak/internal/model"
	"github.com/verte-zerg/xorbreak/internal/store"
)

func TestBuildHistory(t *testing.T) {
	st, err := store.Open(filepath.Join(t.TempDir(), "xorbreak.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})

	ctx := context.Background()
	var ids []int64
	for i := 0; i < 3; i++ {
		run := model.Run{
			CreatedAt:        time.Unix(0, 0).Add(time.Duration(i) * time.Minute),
			Source:           "stdin",
			CiphertextSHA256: strings.Repeat("ab", 32),
			CiphertextLen:    74,
			KeySize:          i + 2,
			Key:              []byte("ICE")[:1],
			Score:            big.NewRat(1, 3),
			SampleChunks:     10,
			Charset:          "full",
		}
		scores := []model.KeySizeScore{
			{KeySize: 2, Score: big.NewRat(3, 1)},
			{KeySize: i + 2, Score: big.NewRat(1, 1)},
		}
		if i == 0 {
			scores = scores[:1]
		}
		id, err := st.InsertRun(ctx, run, scores)
		if err != nil {
			t.Fatalf("insert run: %v", err)
		}
		ids = append(ids, id)
	}

	h, err := BuildHistory(ctx, st, model.HistoryConfig{Last: 2})
	if err != nil {
		t.Fatalf("build history: %v", err)
	}
	if len(h.Runs) != 2 || h.Runs[1].ID != ids[2] {
		t.Fatalf("unexpected runs: %+v", h.Runs)
	}
	if len(h.LatestScores) != 2 || h.LatestScores[1].KeySize != 4 {
		t.Fatalf("unexpected latest scores: %+v", h.LatestScores)
	}

	var buf bytes.Buffer
	if err := RenderHistoryReport(&buf, h, false); err != nil {
		t.Fatalf("render history: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "Key Size Candidates") || !strings.Contains(out, "abababababab") {
		t.Fatalf("unexpected history output:\n%s", out)
	}
}

func TestBuildHistoryEmpty(t *testing.T) {
	st, err := store.Open(filepath.Join(t.TempDir(), "xorbreak.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})
	h, err := BuildHistory(context.Background(), st, model.HistoryConfig{})
	if err != nil {
		t.Fatalf("build history: %v", err)
	}
	var buf bytes.Buffer
	if err := RenderHistoryReport(&buf, h, false); err != nil {
		t.Fatalf("render history: %v", err)
	}
	if strings.TrimSpace(buf.String()) != "No runs found." {
		t.Fatalf("unexpected output: %q", buf.String())
	}
}
