package domain

import (
	"encoding/json"
	"strconv"
)

// MathResult is the statistical model computed by the math service for a
// conversation. Absent fields decode to nil so the validation report can
// tell "missing" apart from "empty".
type MathResult struct {
	BaseClusters        json.RawMessage           `json:"base-clusters,omitempty"`
	Consensus           *Consensus                `json:"consensus,omitempty"`
	GroupAwareConsensus map[string]float64        `json:"group-aware-consensus,omitempty"`
	GroupClusters       json.RawMessage           `json:"group-clusters,omitempty"`
	GroupVotes          map[string]GroupVotes     `json:"group-votes,omitempty"`
	NComments           *int                      `json:"n-cmts,omitempty"`
	Repness             map[string][]RepnessEntry `json:"repness,omitempty"`
	PCA                 *PCA                      `json:"pca,omitempty"`
	Tids                []int                     `json:"tids,omitempty"`
	UserVoteCounts      map[string]int            `json:"user-vote-counts,omitempty"`
	N                   int                       `json:"n,omitempty"`
	MathTick            int64                     `json:"math_tick"`
	LastVoteTimestamp   int64                     `json:"lastVoteTimestamp,omitempty"`
}

type Consensus struct {
	Agree    []ConsensusEntry `json:"agree"`
	Disagree []ConsensusEntry `json:"disagree"`
}

type ConsensusEntry struct {
	Tid      int     `json:"tid"`
	NSuccess int     `json:"n-success"`
	NTrials  int     `json:"n-trials"`
	PSuccess float64 `json:"p-success"`
	PTest    float64 `json:"p-test"`
}

// GroupVotes holds the vote tallies of one opinion group, keyed by tid.
type GroupVotes struct {
	ID       int                  `json:"id"`
	NMembers int                  `json:"n-members"`
	Votes    map[string]VoteTally `json:"votes"`
}

// VoteTally is the per-comment tally inside a group. S counts every
// member of the group who saw the comment.
type VoteTally struct {
	A int `json:"A"`
	D int `json:"D"`
	S int `json:"S"`
}

const (
	RepfulForAgree    = "agree"
	RepfulForDisagree = "disagree"
)

type RepnessEntry struct {
	Tid         int     `json:"tid"`
	RepfulFor   string  `json:"repful-for"`
	Repness     float64 `json:"repness"`
	RepnessTest float64 `json:"repness-test"`
	NSuccess    int     `json:"n-success"`
	NTrials     int     `json:"n-trials"`
	PSuccess    float64 `json:"p-success"`
	PTest       float64 `json:"p-test"`
}

type PCA struct {
	Center            []float64   `json:"center,omitempty"`
	CommentExtremity  []float64   `json:"comment-extremity,omitempty"`
	CommentProjection [][]float64 `json:"comment-projection,omitempty"`
	Comps             [][]float64 `json:"comps,omitempty"`
}

// ParticipantCount is the number of participants placed into an opinion
// group, i.e. whose votes were used for clustering.
func (m MathResult) ParticipantCount() int {
	total := 0
	for _, g := range m.GroupVotes {
		total += g.NMembers
	}
	return total
}

// Extremity maps each tid to its PCA extremity. tids and the extremity
// array are index aligned; surplus entries on either side are ignored.
func (m MathResult) Extremity() map[int]float64 {
	extremity := make(map[int]float64)
	if m.PCA == nil {
		return extremity
	}
	for i, tid := range m.Tids {
		if i >= len(m.PCA.CommentExtremity) {
			break
		}
		extremity[tid] = m.PCA.CommentExtremity[i]
	}
	return extremity
}

// TotalVotes sums the per-participant vote counts.
func (m MathResult) TotalVotes() int {
	total := 0
	for _, n := range m.UserVoteCounts {
		total += n
	}
	return total
}

func parseID(key string) (int, bool) {
	id, err := strconv.Atoi(key)
	if err != nil {
		return 0, false
	}
	return id, true
}
