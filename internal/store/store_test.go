package store

import (
	"context"
	"math/big"
	"path/filepath"
	"testing"
	"time"

	"github.com/verte-zerg/xorbreak/internal/model"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	st, err := Open(filepath.Join(t.TempDir(), "xorbreak.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})
	return st
}

func TestInsertAndListRuns(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	var ids []int64
	for i := 0; i < 3; i++ {
		run := model.Run{
			CreatedAt:        time.Unix(0, 0).Add(time.Duration(i) * time.Minute),
			Source:           "6.txt",
			CiphertextSHA256: "abc",
			CiphertextLen:    74,
			KeySize:          3,
			Key:              []byte("ICE"),
			Score:            big.NewRat(7, 3),
			SampleChunks:     10,
			Charset:          "full",
		}
		scores := []model.KeySizeScore{
			{KeySize: 3, Score: big.NewRat(277, 100)},
			{KeySize: 2, Score: big.NewRat(127, 45)},
		}
		id, err := st.InsertRun(ctx, run, scores)
		if err != nil {
			t.Fatalf("insert run: %v", err)
		}
		ids = append(ids, id)
	}

	runs, err := st.ListRuns(ctx, model.HistoryConfig{Last: 2})
	if err != nil {
		t.Fatalf("list runs: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(runs))
	}
	if runs[0].ID != ids[1] || runs[1].ID != ids[2] {
		t.Fatalf("unexpected run ids: %+v", runs)
	}
	if string(runs[1].Key) != "ICE" {
		t.Fatalf("unexpected key: %q", runs[1].Key)
	}
	if runs[1].Score.Cmp(big.NewRat(7, 3)) != 0 {
		t.Fatalf("unexpected score: %s", runs[1].Score.RatString())
	}
	if !runs[0].CreatedAt.Equal(time.Unix(60, 0)) {
		t.Fatalf("unexpected created_at: %v", runs[0].CreatedAt)
	}

	scores, err := st.GetKeySizeScores(ctx, ids[0])
	if err != nil {
		t.Fatalf("get scores: %v", err)
	}
	if len(scores) != 2 || scores[0].KeySize != 2 || scores[1].KeySize != 3 {
		t.Fatalf("unexpected scores: %+v", scores)
	}
	if scores[0].Score.Cmp(big.NewRat(127, 45)) != 0 {
		t.Fatalf("score lost precision: %s", scores[0].Score.RatString())
	}
}

func TestListRunsFilters(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	for i, source := range []string{"a.txt", "b.txt", "a.txt"} {
		run := model.Run{
			CreatedAt: base.Add(time.Duration(i) * 24 * time.Hour),
			Source:    source,
			KeySize:   2,
			Key:       []byte{0x01, 0x02},
			Score:     big.NewRat(1, 2),
			Charset:   "ascii",
		}
		if _, err := st.InsertRun(ctx, run, nil); err != nil {
			t.Fatalf("insert run: %v", err)
		}
	}

	runs, err := st.ListRuns(ctx, model.HistoryConfig{Source: "a.txt"})
	if err != nil {
		t.Fatalf("list runs: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("expected 2 runs for a.txt, got %d", len(runs))
	}

	since := base.Add(24 * time.Hour)
	runs, err = st.ListRuns(ctx, model.HistoryConfig{Since: &since})
	if err != nil {
		t.Fatalf("list runs: %v", err)
	}
	if len(runs) != 2 || runs[0].Source != "b.txt" {
		t.Fatalf("unexpected runs since %v: %+v", since, runs)
	}

	scores, err := st.GetKeySizeScores(ctx, runs[0].ID)
	if err != nil {
		t.Fatalf("get scores: %v", err)
	}
	if len(scores) != 0 {
		t.Fatalf("expected no scores, got %d", len(scores))
	}
}
