package report_assembly_usecase

import (
	"context"
	"log/slog"
	"time"

	"report-assembler/domain"
	"report-assembler/port/correlation_matrix_port"
	apperrors "report-assembler/utils/errors"
	"report-assembler/utils/metrics"
)

type PollerConfig struct {
	// ShortDelay is used while fewer than ShortAttempts pending answers
	// have been seen, LongDelay afterwards.
	ShortDelay    time.Duration
	LongDelay     time.Duration
	ShortAttempts int
	// CommentSelectionEnabled turns the needs-comment-selection status into
	// ErrNeedsCommentSelection instead of a resolved payload.
	CommentSelectionEnabled bool
}

func DefaultPollerConfig() PollerConfig {
	return PollerConfig{
		ShortDelay:              200 * time.Millisecond,
		LongDelay:               3 * time.Second,
		ShortAttempts:           10,
		CommentSelectionEnabled: true,
	}
}

// CorrelationMatrixPoller waits for the math service to finish computing a
// correlation matrix. There is no attempt limit: polling stops only on a
// terminal answer, an error, or cancellation of ctx.
type CorrelationMatrixPoller struct {
	port   correlation_matrix_port.FetchCorrelationMatrixPort
	cfg    PollerConfig
	wait   func(ctx context.Context, d time.Duration) error
	logger *slog.Logger
}

func NewCorrelationMatrixPoller(port correlation_matrix_port.FetchCorrelationMatrixPort, cfg PollerConfig, logger *slog.Logger) *CorrelationMatrixPoller {
	return &CorrelationMatrixPoller{
		port:   port,
		cfg:    cfg,
		wait:   sleepContext,
		logger: logger,
	}
}

// Poll requests the matrix for mathTick until it is no longer pending.
// The attempt counter belongs to this call alone.
func (p *CorrelationMatrixPoller) Poll(ctx context.Context, mathTick int64, reportID string) (*domain.CorrelationMatrix, error) {
	pending := 0
	for {
		m, err := p.port.FetchCorrelationMatrix(ctx, mathTick, reportID)
		if err != nil {
			return nil, err
		}
		metrics.RecordPollAttempt(m.Status)

		switch {
		case m.IsPending():
			pending++
			delay := p.delay(pending)
			p.logger.DebugContext(ctx, "correlation matrix pending",
				"report_id", reportID,
				"math_tick", mathTick,
				"pending_count", pending,
				"retry_in_ms", delay.Milliseconds())
			if err := p.wait(ctx, delay); err != nil {
				return nil, err
			}

		case m.NeedsCommentSelection() && p.cfg.CommentSelectionEnabled:
			return nil, apperrors.NewConflictContextError(
				"report needs comment selection", "usecase", "CorrelationMatrixPoller", "Poll",
				domain.ErrNeedsCommentSelection,
				map[string]any{"report_id": reportID, "math_tick": mathTick},
			)

		default:
			p.logger.DebugContext(ctx, "correlation matrix resolved",
				"report_id", reportID,
				"math_tick", mathTick,
				"pending_count", pending)
			return m, nil
		}
	}
}

func (p *CorrelationMatrixPoller) delay(pending int) time.Duration {
	if pending < p.cfg.ShortAttempts {
		return p.cfg.ShortDelay
	}
	return p.cfg.LongDelay
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
