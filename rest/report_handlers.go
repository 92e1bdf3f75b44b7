package rest

import (
	"net/http"

	"report-assembler/di"
	"report-assembler/utils/errors"
	"report-assembler/utils/logger"
	"report-assembler/utils/validator"

	"github.com/labstack/echo/v4"
)

func registerReportRoutes(v1 *echo.Group, container *di.ApplicationComponents) {
	v1.GET("/reports/:report_id", handleGetReport(container))
}

// handleGetReport assembles a report once. The state is always the body;
// failures only change the status code.
func handleGetReport(container *di.ApplicationComponents) echo.HandlerFunc {
	return func(c echo.Context) error {
		reportID := c.Param("report_id")
		if !validator.IsValidReportID(reportID) {
			return handleError(c, errors.NewValidationContextError("invalid report id", "rest", "RESTHandler", "GetReport",
				map[string]any{"report_id": reportID}), "GetReport")
		}

		ctx := logger.WithReportID(c.Request().Context(), reportID)
		state, err := container.ReportAssembler.Execute(ctx, reportID)
		if err != nil {
			appErr := toAppContextError(c, err, "GetReport")
			logger.FromContext(ctx).WarnContext(ctx, "report assembly failed", "code", appErr.Code, "error", err)
			return c.JSON(appErr.HTTPStatusCode(), state)
		}
		return c.JSON(http.StatusOK, state)
	}
}
