package domain

// ComputeVoteTotals sums the group tallies of every comment across all
// opinion groups.
func ComputeVoteTotals(groupVotes map[string]GroupVotes) map[int]VoteTotals {
	totals := make(map[int]VoteTotals)
	for _, group := range groupVotes {
		for key, tally := range group.Votes {
			tid, ok := parseID(key)
			if !ok {
				continue
			}
			t := totals[tid]
			t.Agreed += tally.A
			t.Disagreed += tally.D
			t.Saw += tally.S
			totals[tid] = t
		}
	}
	for tid, t := range totals {
		t.Passed = t.Saw - t.Agreed - t.Disagreed
		t.PA = NewRatio(float64(t.Agreed), float64(t.Saw))
		t.PD = NewRatio(float64(t.Disagreed), float64(t.Saw))
		t.PK = NewRatio(float64(t.Passed), float64(t.Saw))
		totals[tid] = t
	}
	return totals
}

// MergeComments returns a new slice of comments carrying the group-aware
// consensus and vote totals of the model. The input is left untouched.
func MergeComments(comments []Comment, m MathResult) []ReportComment {
	totals := ComputeVoteTotals(m.GroupVotes)
	consensus := indexByTid(m.GroupAwareConsensus)
	merged := make([]ReportComment, 0, len(comments))
	for _, c := range comments {
		rc := ReportComment{Comment: c}
		if score, ok := consensus[c.Tid]; ok {
			rc.GroupAwareConsensus = &score
		}
		if t, ok := totals[c.Tid]; ok {
			rc.VoteTotals = &t
		}
		merged = append(merged, rc)
	}
	return merged
}

func indexByTid[V any](m map[string]V) map[int]V {
	out := make(map[int]V, len(m))
	for key, v := range m {
		if tid, ok := parseID(key); ok {
			out[tid] = v
		}
	}
	return out
}
