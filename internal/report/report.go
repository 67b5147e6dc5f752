package report

import (
	"context"
	"io"

	"github.com/verte-zerg/xorbreak/internal/model"
	"github.com/verte-zerg/xorbreak/internal/store"
)

// History contains stored runs and the candidates of the most recent one.
type History struct {
	Runs         []model.Run
	LatestScores []model.KeySizeScore
}

// BuildHistory loads runs matching cfg and the key size scores of the last run.
func BuildHistory(ctx context.Context, st *store.Store, cfg model.HistoryConfig) (History, error) {
	runs, err := st.ListRuns(ctx, cfg)
	if err != nil {
		return History{}, err
	}
	if len(runs) == 0 {
		return History{}, nil
	}
	scores, err := st.GetKeySizeScores(ctx, runs[len(runs)-1].ID)
	if err != nil {
		return History{}, err
	}
	return History{Runs: runs, LatestScores: scores}, nil
}

// RenderHistoryReport prints the run table and the latest run's candidate chart.
func RenderHistoryReport(w io.Writer, h History, forceColor bool) error {
	if err := RenderHistory(w, h.Runs); err != nil {
		return err
	}
	if len(h.Runs) == 0 || len(h.LatestScores) == 0 {
		return nil
	}
	if err := writeLines(w, []string{""}); err != nil {
		return err
	}
	latest := h.Runs[len(h.Runs)-1]
	return RenderKeySizes(w, h.LatestScores, latest.KeySize, forceColor)
}
