package domain

import "sort"

const (
	// UncertaintyThreshold is the pass ratio a comment must exceed.
	UncertaintyThreshold = 0.3
	// UncertaintyLimit caps the ranked list.
	UncertaintyLimit = 5
)

type uncertaintyScore struct {
	tid   int
	score float64
}

// RankUncertainty returns the tids of the comments participants passed on
// most, ranked by ratio² × pass_count where ratio = pass_count / count.
// Only comments with ratio above UncertaintyThreshold qualify. Equal scores
// keep ascending tid order.
func RankUncertainty(comments []Comment) []int {
	scored := make([]uncertaintyScore, 0, len(comments))
	for _, c := range comments {
		if c.Count <= 0 {
			continue
		}
		ratio := float64(c.PassCount) / float64(c.Count)
		if ratio <= UncertaintyThreshold {
			continue
		}
		scored = append(scored, uncertaintyScore{
			tid:   c.Tid,
			score: ratio * ratio * float64(c.PassCount),
		})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].score != scored[j].score {
			return scored[i].score > scored[j].score
		}
		return scored[i].tid < scored[j].tid
	})

	if len(scored) > UncertaintyLimit {
		scored = scored[:UncertaintyLimit]
	}
	tids := make([]int, len(scored))
	for i, s := range scored {
		tids[i] = s.tid
	}
	return tids
}

// UncertaintyScore exposes the ranking score of a single comment, or an
// invalid Ratio when count is zero.
func UncertaintyScore(c Comment) Ratio {
	ratio := NewRatio(float64(c.PassCount), float64(c.Count))
	if !ratio.Valid {
		return ratio
	}
	return Ratio{Value: ratio.Value * ratio.Value * float64(c.PassCount), Valid: true}
}
