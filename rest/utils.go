package rest

import (
	stderrors "errors"
	"net/http"

	"report-assembler/domain"
	"report-assembler/utils/errors"
	"report-assembler/utils/logger"
	"report-assembler/utils/validator"

	"github.com/labstack/echo/v4"
)

// handleError converts err into an AppContextError and writes it as the
// response body.
func handleError(c echo.Context, err error, operation string) error {
	appErr := toAppContextError(c, err, operation)
	status := appErr.HTTPStatusCode()

	ctx := c.Request().Context()
	log := logger.FromContext(ctx)
	if status >= http.StatusInternalServerError {
		log.ErrorContext(ctx, "request failed", "operation", operation, "code", appErr.Code, "retryable", appErr.IsRetryable(), "error", err)
	} else {
		log.WarnContext(ctx, "request rejected", "operation", operation, "code", appErr.Code, "retryable", appErr.IsRetryable(), "error", err)
	}

	return c.JSON(status, appErr.ToHTTPResponse())
}

func toAppContextError(c echo.Context, err error, operation string) *errors.AppContextError {
	if appErr, ok := errors.AsAppContextError(err); ok {
		return appErr
	}

	reqCtx := map[string]any{
		"path":   c.Request().URL.Path,
		"method": c.Request().Method,
	}

	var validationErr *validator.ValidationError
	switch {
	case stderrors.As(err, &validationErr):
		reqCtx["fields"] = validationErr.Errors
		return errors.NewAppContextError(errors.CodeValidation, validationErr.Error(), "rest", "RESTHandler", operation, err, reqCtx)
	case stderrors.Is(err, domain.ErrViewNotFound), stderrors.Is(err, domain.ErrReportNotFound):
		return errors.NewNotFoundContextError(err.Error(), "rest", "RESTHandler", operation, err, reqCtx)
	case stderrors.Is(err, domain.ErrViewClosed):
		return errors.NewConflictContextError(err.Error(), "rest", "RESTHandler", operation, err, reqCtx)
	case stderrors.Is(err, domain.ErrTooManyViews):
		return errors.NewRateLimitContextError(err.Error(), "rest", "RESTHandler", operation, err, reqCtx)
	case stderrors.Is(err, domain.ErrInvalidStatisticalModel):
		return errors.NewExternalAPIContextError(err.Error(), "rest", "RESTHandler", operation, err, reqCtx)
	default:
		return errors.NewUnknownContextError("internal server error", "rest", "RESTHandler", operation, err, reqCtx)
	}
}

// bindAndValidate decodes the request body into req and validates it.
func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return errors.NewValidationContextError("invalid request body", "rest", "RESTHandler", "bind", map[string]any{"error": err.Error()})
	}
	return c.Validate(req)
}
