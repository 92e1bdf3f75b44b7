package report_source_port

import (
	"context"

	"report-assembler/domain"
)

// FetchReportPort resolves a report id to its record.
type FetchReportPort interface {
	FetchReport(ctx context.Context, reportID string) (*domain.Report, error)
}

type FetchMathResultPort interface {
	FetchMathResult(ctx context.Context, conversationID string) (*domain.MathResult, error)
}

type FetchConversationPort interface {
	FetchConversation(ctx context.Context, conversationID string) (*domain.Conversation, error)
}

// FetchCommentsPort returns the comments of a report whose moderation
// status is above modGt, with voting patterns.
type FetchCommentsPort interface {
	FetchComments(ctx context.Context, conversationID, reportID string, modGt int) ([]domain.Comment, error)
}

type FetchParticipantsPort interface {
	FetchParticipantsOfInterest(ctx context.Context, conversationID string) ([]domain.Participant, error)
}

type FetchDemographicsPort interface {
	FetchGroupDemographics(ctx context.Context, conversationID, reportID string) ([]domain.Demographic, error)
}

// ReportSourcePort bundles every read the report pipeline performs.
type ReportSourcePort interface {
	FetchReportPort
	FetchMathResultPort
	FetchConversationPort
	FetchCommentsPort
	FetchParticipantsPort
	FetchDemographicsPort
}
