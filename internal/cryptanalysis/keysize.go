package cryptanalysis

import (
	"sort"

	"github.com/verte-zerg/xorbreak/internal/bitwise"
	"github.com/verte-zerg/xorbreak/internal/model"
)

// KeySizeScores records the mean pairwise normalized edit distance of each
// candidate size that has enough data: sampleChunks*k bytes of ciphertext.
// Candidates without enough data, non-positive sizes, and fewer than two
// sample chunks are skipped. Order follows sizes.
func KeySizeScores(sizes []int, sampleChunks int, ciphertext []byte) []model.KeySizeScore {
	scores := make([]model.KeySizeScore, 0, len(sizes))
	if sampleChunks < 2 {
		return scores
	}
	for _, k := range sizes {
		if k <= 0 || sampleChunks*k > len(ciphertext) {
			continue
		}
		dist, err := bitwise.MeanPairwiseHammingDistance(bitwise.Chunks(ciphertext, k, sampleChunks))
		if err != nil {
			continue
		}
		scores = append(scores, model.KeySizeScore{KeySize: k, Score: dist})
	}
	return scores
}

// EstimateKeySize returns the candidate with the lowest score, the first one
// on ties. ok is false when no candidate had enough data.
func EstimateKeySize(sizes []int, sampleChunks int, ciphertext []byte) (int, bool) {
	return bestKeySize(KeySizeScores(sizes, sampleChunks, ciphertext))
}

func bestKeySize(scores []model.KeySizeScore) (int, bool) {
	if len(scores) == 0 {
		return 0, false
	}
	best := scores[0]
	for _, s := range scores[1:] {
		if s.Score.Cmp(best.Score) < 0 {
			best = s
		}
	}
	return best.KeySize, true
}

// RankKeySizes returns a copy of scores ordered from most to least likely.
// Equal scores keep their original order.
func RankKeySizes(scores []model.KeySizeScore) []model.KeySizeScore {
	ranked := make([]model.KeySizeScore, len(scores))
	copy(ranked, scores)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score.Cmp(ranked[j].Score) < 0
	})
	return ranked
}

// KeySizeRange returns min..max inclusive, or nil when the range is empty.
func KeySizeRange(minSize, maxSize int) []int {
	if minSize < 1 {
		minSize = 1
	}
	if maxSize < minSize {
		return nil
	}
	out := make([]int, 0, maxSize-minSize+1)
	for k := minSize; k <= maxSize; k++ {
		out = append(out, k)
	}
	return out
}
