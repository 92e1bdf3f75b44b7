package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleGroupVotes() map[string]GroupVotes {
	return map[string]GroupVotes{
		"0": {ID: 0, NMembers: 3, Votes: map[string]VoteTally{
			"1": {A: 2, D: 1, S: 3},
			"2": {A: 0, D: 0, S: 0},
		}},
		"1": {ID: 1, NMembers: 4, Votes: map[string]VoteTally{
			"1": {A: 1, D: 2, S: 4},
		}},
	}
}

func TestComputeVoteTotals(t *testing.T) {
	totals := ComputeVoteTotals(sampleGroupVotes())

	require.Contains(t, totals, 1)
	t1 := totals[1]
	assert.Equal(t, 3, t1.Agreed)
	assert.Equal(t, 3, t1.Disagreed)
	assert.Equal(t, 7, t1.Saw)
	assert.Equal(t, 1, t1.Passed)
	assert.InDelta(t, 3.0/7.0, t1.PA.Value, 1e-9)
	assert.InDelta(t, 1.0/7.0, t1.PK.Value, 1e-9)

	t2 := totals[2]
	assert.Equal(t, 0, t2.Saw)
	assert.False(t, t2.PA.Valid, "unseen comment has undefined ratios")
}

func TestMergeComments(t *testing.T) {
	comments := []Comment{{Tid: 1, Pid: 10}, {Tid: 5, Pid: 11}}
	m := MathResult{
		GroupVotes:          sampleGroupVotes(),
		GroupAwareConsensus: map[string]float64{"1": 0.42},
	}

	merged := MergeComments(comments, m)

	require.Len(t, merged, 2)
	require.NotNil(t, merged[0].GroupAwareConsensus)
	assert.InDelta(t, 0.42, *merged[0].GroupAwareConsensus, 1e-9)
	require.NotNil(t, merged[0].VoteTotals)
	assert.Equal(t, 7, merged[0].VoteTotals.Saw)

	assert.Nil(t, merged[1].GroupAwareConsensus)
	assert.Nil(t, merged[1].VoteTotals)

	assert.Equal(t, []Comment{{Tid: 1, Pid: 10}, {Tid: 5, Pid: 11}}, comments)
}
