package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// ValidationReport lists the required statistical model fields that were
// absent. It is advisory: assembly proceeds with whatever is present.
type ValidationReport struct {
	Missing []string `json:"missing"`
}

func (v ValidationReport) OK() bool {
	return len(v.Missing) == 0
}

// Err returns nil when nothing is missing, otherwise an error wrapping
// ErrInvalidStatisticalModel.
func (v ValidationReport) Err() error {
	if v.OK() {
		return nil
	}
	return fmt.Errorf("%w: %s", ErrInvalidStatisticalModel, strings.Join(v.Missing, ", "))
}

// ValidateMathResult checks every required field of the model in a fixed
// order.
func ValidateMathResult(m MathResult) ValidationReport {
	checks := []struct {
		field   string
		present bool
	}{
		{"base-clusters", rawPresent(m.BaseClusters)},
		{"consensus", m.Consensus != nil},
		{"group-aware-consensus", m.GroupAwareConsensus != nil},
		{"group-clusters", rawPresent(m.GroupClusters)},
		{"group-votes", m.GroupVotes != nil},
		{"n-cmts", m.NComments != nil},
		{"repness", m.Repness != nil},
		{"pca", m.PCA != nil},
		{"pca.center", m.PCA != nil && m.PCA.Center != nil},
		{"pca.comment-extremity", m.PCA != nil && m.PCA.CommentExtremity != nil},
		{"pca.comment-projection", m.PCA != nil && m.PCA.CommentProjection != nil},
		{"pca.comps", m.PCA != nil && m.PCA.Comps != nil},
		{"tids", m.Tids != nil},
		{"user-vote-counts", m.UserVoteCounts != nil},
	}

	report := ValidationReport{Missing: []string{}}
	for _, c := range checks {
		if !c.present {
			report.Missing = append(report.Missing, c.field)
		}
	}
	return report
}

func rawPresent(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && !bytes.Equal(trimmed, []byte("null"))
}
