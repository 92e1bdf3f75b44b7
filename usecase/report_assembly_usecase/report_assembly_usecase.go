package report_assembly_usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"report-assembler/domain"
	"report-assembler/port/report_source_port"
	apperrors "report-assembler/utils/errors"
	"report-assembler/utils/metrics"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
)

type Config struct {
	CorrelationMatrixEnabled bool
	// StrictValidation turns missing math result fields into a load error.
	// By default they are only logged.
	StrictValidation bool
}

// ReportAssemblyUsecase loads a report and everything it depends on, then
// assembles the view model.
type ReportAssemblyUsecase struct {
	source report_source_port.ReportSourcePort
	poller *CorrelationMatrixPoller
	cfg    Config
	tracer trace.Tracer
	logger *slog.Logger
}

func NewReportAssemblyUsecase(
	source report_source_port.ReportSourcePort,
	poller *CorrelationMatrixPoller,
	cfg Config,
	logger *slog.Logger,
) *ReportAssemblyUsecase {
	return &ReportAssemblyUsecase{
		source: source,
		poller: poller,
		cfg:    cfg,
		tracer: otel.Tracer("report-assembler/usecase"),
		logger: logger,
	}
}

// Execute never returns a zero state: failures come back both as the error
// and as an error state carrying its text.
func (u *ReportAssemblyUsecase) Execute(ctx context.Context, reportID string) (domain.ReportState, error) {
	ctx, span := u.tracer.Start(ctx, "ReportAssemblyUsecase.Execute",
		trace.WithAttributes(attribute.String("report.id", reportID)))
	defer span.End()

	start := time.Now()
	state, err := u.load(ctx, reportID)
	metrics.RecordReportLoad(string(state.Status), time.Since(start).Seconds())
	span.SetAttributes(attribute.String("report.status", string(state.Status)))

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		u.logger.ErrorContext(ctx, "report load failed",
			"report_id", reportID,
			"retryable", apperrors.IsRetryableError(err),
			"error", err)
		return state, err
	}

	u.logger.InfoContext(ctx, "report loaded",
		"report_id", reportID,
		"status", state.Status,
		"duration_ms", time.Since(start).Milliseconds())
	return state, nil
}

func (u *ReportAssemblyUsecase) load(ctx context.Context, reportID string) (domain.ReportState, error) {
	in, err := u.fetch(ctx, reportID)
	if err != nil {
		return domain.ErrorState(err), err
	}

	validation := domain.ValidateMathResult(in.Math)
	if !validation.OK() {
		metrics.RecordValidationWarnings(validation.Missing)
		u.logger.WarnContext(ctx, "math result is missing fields",
			"report_id", reportID,
			"conversation_id", in.Report.ConversationID,
			"missing", validation.Missing)
		if u.cfg.StrictValidation {
			err := validation.Err()
			return domain.ErrorState(err), err
		}
	}

	if len(in.Comments) == 0 || len(in.Demographics) == 0 {
		return domain.NothingToShowState(), nil
	}

	return domain.ReadyState(domain.Assemble(in)), nil
}

// fetch resolves the report, then runs the four independent chains
// concurrently. The first failure cancels the rest.
func (u *ReportAssemblyUsecase) fetch(ctx context.Context, reportID string) (domain.AssemblyInputs, error) {
	report, err := u.source.FetchReport(ctx, reportID)
	if err != nil {
		return domain.AssemblyInputs{}, err
	}
	if report.ConversationID == "" {
		return domain.AssemblyInputs{}, fmt.Errorf("report %s has no conversation: %w", reportID, domain.ErrReportNotFound)
	}

	in := domain.AssemblyInputs{Report: *report}
	conversationID := report.ConversationID

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		m, err := u.source.FetchMathResult(gctx, conversationID)
		if err != nil {
			return err
		}
		in.Math = *m
		if !u.cfg.CorrelationMatrixEnabled || u.poller == nil {
			return nil
		}
		corr, err := u.poller.Poll(gctx, m.MathTick, reportID)
		if err != nil {
			return err
		}
		in.Correlation = corr
		return nil
	})

	g.Go(func() error {
		conv, err := u.source.FetchConversation(gctx, conversationID)
		if err != nil {
			return err
		}
		in.Conversation = *conv
		comments, err := u.source.FetchComments(gctx, conversationID, reportID, conv.ModerationThreshold())
		if err != nil {
			return err
		}
		in.Comments = comments
		return nil
	})

	g.Go(func() error {
		demographics, err := u.source.FetchGroupDemographics(gctx, conversationID, reportID)
		if err != nil {
			return err
		}
		in.Demographics = demographics
		return nil
	})

	g.Go(func() error {
		participants, err := u.source.FetchParticipantsOfInterest(gctx, conversationID)
		if err != nil {
			return err
		}
		in.Participants = participants
		return nil
	})

	if err := g.Wait(); err != nil {
		return domain.AssemblyInputs{}, err
	}
	return in, nil
}
