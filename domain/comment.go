package domain

type Comment struct {
	Tid           int    `json:"tid"`
	Pid           int    `json:"pid"`
	Txt           string `json:"txt"`
	IsMeta        bool   `json:"is_meta"`
	Mod           int    `json:"mod"`
	AgreeCount    int    `json:"agree_count"`
	DisagreeCount int    `json:"disagree_count"`
	PassCount     int    `json:"pass_count"`
	Count         int    `json:"count"`
}

// ReportComment is a Comment enriched with the group-level aggregates of
// the statistical model. Both enrichments are nil when the model has no
// entry for the tid.
type ReportComment struct {
	Comment
	GroupAwareConsensus *float64    `json:"group_aware_consensus"`
	VoteTotals          *VoteTotals `json:"vote_totals"`
}

type VoteTotals struct {
	Agreed    int   `json:"agreed"`
	Disagreed int   `json:"disagreed"`
	Saw       int   `json:"saw"`
	Passed    int   `json:"passed"`
	PA        Ratio `json:"pA"`
	PD        Ratio `json:"pD"`
	PK        Ratio `json:"pK"`
}
