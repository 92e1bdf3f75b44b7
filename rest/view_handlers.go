package rest

import (
	"net/http"

	"report-assembler/config"
	"report-assembler/di"
	"report-assembler/domain"
	"report-assembler/utils/logger"

	"github.com/labstack/echo/v4"
)

func registerViewRoutes(v1 *echo.Group, container *di.ApplicationComponents, cfg *config.Config) {
	views := v1.Group("/report-views")
	views.POST("", handleMountView(container))
	views.GET("/:view_id", handleGetView(container))
	views.GET("/:view_id/events", handleViewEvents(container, cfg.Server.SSEHeartbeat))
	views.PUT("/:view_id/dimensions", handleResizeView(container))
	views.DELETE("/:view_id", handleUnmountView(container))
}

func handleMountView(container *di.ApplicationComponents) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req MountViewRequest
		if err := bindAndValidate(c, &req); err != nil {
			return handleError(c, err, "MountView")
		}

		view, err := container.ViewRegistry.Mount(req.ReportID)
		if err != nil {
			return handleError(c, err, "MountView")
		}

		ctx := logger.WithViewID(logger.WithReportID(c.Request().Context(), req.ReportID), view.ID())
		logger.FromContext(ctx).InfoContext(ctx, "report view mounted")

		return c.JSON(http.StatusCreated, ViewResponse{
			ViewID:   view.ID(),
			ReportID: view.ReportID(),
			State:    view.Snapshot(),
		})
	}
}

func handleGetView(container *di.ApplicationComponents) echo.HandlerFunc {
	return func(c echo.Context) error {
		view, err := container.ViewRegistry.Get(c.Param("view_id"))
		if err != nil {
			return handleError(c, err, "GetView")
		}
		return c.JSON(http.StatusOK, ViewResponse{
			ViewID:   view.ID(),
			ReportID: view.ReportID(),
			State:    view.Snapshot(),
		})
	}
}

func handleResizeView(container *di.ApplicationComponents) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req ResizeRequest
		if err := bindAndValidate(c, &req); err != nil {
			return handleError(c, err, "ResizeView")
		}

		view, err := container.ViewRegistry.Get(c.Param("view_id"))
		if err != nil {
			return handleError(c, err, "ResizeView")
		}
		if err := view.Resize(domain.Dimensions{Width: req.Width, Height: req.Height}); err != nil {
			return handleError(c, err, "ResizeView")
		}
		return c.NoContent(http.StatusAccepted)
	}
}

func handleUnmountView(container *di.ApplicationComponents) echo.HandlerFunc {
	return func(c echo.Context) error {
		if err := container.ViewRegistry.Unmount(c.Param("view_id")); err != nil {
			return handleError(c, err, "UnmountView")
		}
		return c.NoContent(http.StatusNoContent)
	}
}
