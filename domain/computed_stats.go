package domain

type ComputedStats struct {
	TotalVotes              int   `json:"totalVotes"`
	TotalComments           int   `json:"totalComments"`
	TotalCommenters         int   `json:"totalCommenters"`
	VotesPerVoterAvg        Ratio `json:"votesPerVoterAvg"`
	CommentsPerCommenterAvg Ratio `json:"commentsPerCommenterAvg"`
}

// ComputeStats derives the summary ratios of a report. participantTotal
// is the conversation's participant_count; commenters are the distinct
// author pids of comments.
func ComputeStats(m MathResult, comments []Comment, participantTotal int) ComputedStats {
	authors := make(map[int]struct{}, len(comments))
	for _, c := range comments {
		authors[c.Pid] = struct{}{}
	}
	totalVotes := m.TotalVotes()
	return ComputedStats{
		TotalVotes:              totalVotes,
		TotalComments:           len(comments),
		TotalCommenters:         len(authors),
		VotesPerVoterAvg:        NewRatio(float64(totalVotes), float64(participantTotal)),
		CommentsPerCommenterAvg: NewRatio(float64(len(comments)), float64(len(authors))),
	}
}
