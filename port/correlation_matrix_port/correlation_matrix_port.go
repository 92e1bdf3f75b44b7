package correlation_matrix_port

import (
	"context"

	"report-assembler/domain"
)

// FetchCorrelationMatrixPort performs a single correlation matrix request.
// A pending status is returned as a value, not an error.
type FetchCorrelationMatrixPort interface {
	FetchCorrelationMatrix(ctx context.Context, mathTick int64, reportID string) (*domain.CorrelationMatrix, error)
}
