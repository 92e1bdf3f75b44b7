package domain

import "errors"

var (
	ErrReportNotFound          = errors.New("report not found")
	ErrNeedsCommentSelection   = errors.New("report needs comment selection")
	ErrInvalidStatisticalModel = errors.New("statistical model is missing required fields")
	ErrViewNotFound            = errors.New("report view not found")
	ErrViewClosed              = errors.New("report view closed")
	ErrTooManyViews            = errors.New("too many open report views")
)

// NeedsCommentSelectionMessage is shown instead of a diagnostic when the
// correlation analysis is blocked on the report owner.
const NeedsCommentSelectionMessage = "The correlation analysis for this report cannot run until comments are selected for it. Select comments in the report editor and reload the report."
