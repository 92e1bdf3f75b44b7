package report_source_gateway

import (
	"context"
	"errors"
	"fmt"
	"html"
	"net/http"
	"strings"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/sync/singleflight"

	"report-assembler/domain"
	"report-assembler/driver/polis_api"
	apperrors "report-assembler/utils/errors"
	"report-assembler/utils/metrics"
	"report-assembler/utils/resilience"
)

const (
	layer     = "gateway"
	component = "ReportSourceGateway"
)

// PolisAPIDriver is the subset of the polis client this gateway reads from.
type PolisAPIDriver interface {
	GetReports(ctx context.Context, reportID string) ([]domain.Report, error)
	GetMathResult(ctx context.Context, conversationID string) (*domain.MathResult, error)
	GetComments(ctx context.Context, query polis_api.CommentQuery) ([]domain.Comment, error)
	GetParticipantsOfInterest(ctx context.Context, conversationID string) ([]domain.Participant, error)
	GetConversation(ctx context.Context, conversationID string) (*domain.Conversation, error)
	GetGroupDemographics(ctx context.Context, conversationID, reportID string) ([]domain.Demographic, error)
}

type Config struct {
	ReportCacheSize int
	ReportCacheTTL  time.Duration
}

// ReportSourceGateway implements report_source_port.ReportSourcePort.
// Report records change rarely and are cached; everything else is read
// through on every load.
type ReportSourceGateway struct {
	api       PolisAPIDriver
	reports   *expirable.LRU[string, domain.Report]
	inflight  singleflight.Group
	sanitizer *bluemonday.Policy
}

func NewReportSourceGateway(api PolisAPIDriver, cfg Config) *ReportSourceGateway {
	return &ReportSourceGateway{
		api:       api,
		reports:   expirable.NewLRU[string, domain.Report](cfg.ReportCacheSize, nil, cfg.ReportCacheTTL),
		sanitizer: bluemonday.StrictPolicy(),
	}
}

func (g *ReportSourceGateway) FetchReport(ctx context.Context, reportID string) (*domain.Report, error) {
	if report, ok := g.reports.Get(reportID); ok {
		metrics.RecordCacheLookup("report", true)
		return &report, nil
	}
	metrics.RecordCacheLookup("report", false)

	// The shared fetch is detached from the caller that started it, so one
	// cancelled request does not fail the others waiting on the same key.
	flightCtx := context.WithoutCancel(ctx)
	flight := g.inflight.DoChan(reportID, func() (any, error) {
		reports, err := g.api.GetReports(flightCtx, reportID)
		if err != nil {
			return nil, err
		}
		if len(reports) == 0 {
			return nil, domain.ErrReportNotFound
		}
		g.reports.Add(reportID, reports[0])
		return reports[0], nil
	})

	var res singleflight.Result
	select {
	case res = <-flight:
	case <-ctx.Done():
		return nil, translateError(ctx.Err(), "FetchReport", map[string]any{"report_id": reportID})
	}
	if res.Err != nil {
		return nil, translateError(res.Err, "FetchReport", map[string]any{"report_id": reportID})
	}

	report := res.Val.(domain.Report)
	return &report, nil
}

func (g *ReportSourceGateway) FetchMathResult(ctx context.Context, conversationID string) (*domain.MathResult, error) {
	m, err := g.api.GetMathResult(ctx, conversationID)
	if err != nil {
		return nil, translateError(err, "FetchMathResult", map[string]any{"conversation_id": conversationID})
	}
	return m, nil
}

func (g *ReportSourceGateway) FetchConversation(ctx context.Context, conversationID string) (*domain.Conversation, error) {
	conv, err := g.api.GetConversation(ctx, conversationID)
	if err != nil {
		return nil, translateError(err, "FetchConversation", map[string]any{"conversation_id": conversationID})
	}
	return conv, nil
}

// FetchComments returns the report comments with their text reduced to
// plain text.
func (g *ReportSourceGateway) FetchComments(ctx context.Context, conversationID, reportID string, modGt int) ([]domain.Comment, error) {
	comments, err := g.api.GetComments(ctx, polis_api.CommentQuery{
		ConversationID: conversationID,
		ReportID:       reportID,
		ModGt:          modGt,
	})
	if err != nil {
		return nil, translateError(err, "FetchComments", map[string]any{
			"conversation_id": conversationID,
			"report_id":       reportID,
			"mod_gt":          modGt,
		})
	}

	for i := range comments {
		comments[i].Txt = g.plainText(comments[i].Txt)
	}
	return comments, nil
}

func (g *ReportSourceGateway) FetchParticipantsOfInterest(ctx context.Context, conversationID string) ([]domain.Participant, error) {
	participants, err := g.api.GetParticipantsOfInterest(ctx, conversationID)
	if err != nil {
		return nil, translateError(err, "FetchParticipantsOfInterest", map[string]any{"conversation_id": conversationID})
	}
	return participants, nil
}

func (g *ReportSourceGateway) FetchGroupDemographics(ctx context.Context, conversationID, reportID string) ([]domain.Demographic, error) {
	demographics, err := g.api.GetGroupDemographics(ctx, conversationID, reportID)
	if err != nil {
		return nil, translateError(err, "FetchGroupDemographics", map[string]any{
			"conversation_id": conversationID,
			"report_id":       reportID,
		})
	}
	return demographics, nil
}

func (g *ReportSourceGateway) plainText(s string) string {
	return strings.TrimSpace(html.UnescapeString(g.sanitizer.Sanitize(s)))
}

// translateError maps driver failures onto AppContextError codes. Caller
// cancellation is passed through untouched.
func translateError(err error, operation string, ctx map[string]any) error {
	if errors.Is(err, context.Canceled) {
		return fmt.Errorf("%s cancelled: %w", operation, err)
	}

	if errors.Is(err, domain.ErrReportNotFound) {
		return apperrors.NewNotFoundContextError("report not found", layer, component, operation, err, ctx)
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return apperrors.NewTimeoutContextError("polis backend timed out", layer, component, operation,
			fmt.Errorf("%w: %w", apperrors.ErrOperationTimeout, err), ctx)
	}

	if errors.Is(err, resilience.ErrCircuitOpen) {
		return apperrors.NewExternalAPIContextError("polis backend circuit open", layer, component, operation,
			fmt.Errorf("%w: %w", apperrors.ErrBackendUnavailable, err), ctx)
	}

	var apiErr *polis_api.APIError
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.StatusCode == http.StatusNotFound:
			return apperrors.NewNotFoundContextError("polis resource not found", layer, component, operation, err, ctx)
		case apiErr.StatusCode == http.StatusTooManyRequests:
			return apperrors.NewRateLimitContextError("polis backend rate limited", layer, component, operation,
				fmt.Errorf("%w: %w", apperrors.ErrRateLimitExceeded, err), ctx)
		case apiErr.Temporary():
			return apperrors.NewExternalAPIContextError("polis backend unavailable", layer, component, operation,
				fmt.Errorf("%w: %w", apperrors.ErrBackendUnavailable, err), ctx)
		}
	}

	return apperrors.NewExternalAPIContextError("polis backend request failed", layer, component, operation, err, ctx)
}
