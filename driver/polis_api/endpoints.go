package polis_api

import (
	"context"
	"net/url"
	"strconv"

	"report-assembler/domain"
)

// CommentQuery selects the comments included in a report.
type CommentQuery struct {
	ConversationID string
	ReportID       string
	ModGt          int
}

func (c *Client) GetReports(ctx context.Context, reportID string) ([]domain.Report, error) {
	var reports []domain.Report
	q := url.Values{"report_id": {reportID}}
	if err := c.getJSON(ctx, EndpointReports, "/api/v3/reports", q, &reports); err != nil {
		return nil, err
	}
	return reports, nil
}

// GetMathResult fetches the statistical model. A fresh cacheBust token is
// sent with every request so intermediaries never serve a stale model.
func (c *Client) GetMathResult(ctx context.Context, conversationID string) (*domain.MathResult, error) {
	var result domain.MathResult
	q := url.Values{
		"conversation_id": {conversationID},
		"cacheBust":       {c.cacheBust()},
	}
	if err := c.getJSON(ctx, EndpointMath, "/api/v3/math/pca2", q, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) GetComments(ctx context.Context, query CommentQuery) ([]domain.Comment, error) {
	var comments []domain.Comment
	q := url.Values{
		"conversation_id":         {query.ConversationID},
		"report_id":               {query.ReportID},
		"moderation":              {"true"},
		"mod_gt":                  {strconv.Itoa(query.ModGt)},
		"include_voting_patterns": {"true"},
	}
	if err := c.getJSON(ctx, EndpointComments, "/api/v3/comments", q, &comments); err != nil {
		return nil, err
	}
	return comments, nil
}

func (c *Client) GetParticipantsOfInterest(ctx context.Context, conversationID string) ([]domain.Participant, error) {
	var participants []domain.Participant
	q := url.Values{"conversation_id": {conversationID}}
	if err := c.getJSON(ctx, EndpointParticipants, "/api/v3/ptptois", q, &participants); err != nil {
		return nil, err
	}
	return participants, nil
}

func (c *Client) GetConversation(ctx context.Context, conversationID string) (*domain.Conversation, error) {
	var conversation domain.Conversation
	q := url.Values{"conversation_id": {conversationID}}
	if err := c.getJSON(ctx, EndpointConversation, "/api/v3/conversations", q, &conversation); err != nil {
		return nil, err
	}
	return &conversation, nil
}

func (c *Client) GetGroupDemographics(ctx context.Context, conversationID, reportID string) ([]domain.Demographic, error) {
	var demographics []domain.Demographic
	q := url.Values{
		"conversation_id": {conversationID},
		"report_id":       {reportID},
	}
	if err := c.getJSON(ctx, EndpointDemographics, "/api/v3/group_demographics", q, &demographics); err != nil {
		return nil, err
	}
	return demographics, nil
}

// GetCorrelationMatrix returns whatever the backend currently has for the
// math tick, including pending and needs-selection statuses.
func (c *Client) GetCorrelationMatrix(ctx context.Context, mathTick int64, reportID string) (*domain.CorrelationMatrix, error) {
	var matrix domain.CorrelationMatrix
	q := url.Values{
		"math_tick": {strconv.FormatInt(mathTick, 10)},
		"report_id": {reportID},
	}
	if err := c.getJSON(ctx, EndpointCorrelation, "/api/v3/math/correlationMatrix", q, &matrix); err != nil {
		return nil, err
	}
	return &matrix, nil
}
