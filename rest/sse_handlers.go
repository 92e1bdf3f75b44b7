package rest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"report-assembler/di"
	"report-assembler/utils/logger"

	"github.com/labstack/echo/v4"
)

const defaultHeartbeat = 15 * time.Second

// handleViewEvents streams every state change of a view as a "state"
// event. The stream ends when the client leaves or the view is unmounted.
func handleViewEvents(container *di.ApplicationComponents, heartbeat time.Duration) echo.HandlerFunc {
	if heartbeat <= 0 {
		heartbeat = defaultHeartbeat
	}
	return func(c echo.Context) error {
		view, err := container.ViewRegistry.Get(c.Param("view_id"))
		if err != nil {
			return handleError(c, err, "ViewEvents")
		}

		w := c.Response()
		w.Header().Set(echo.HeaderContentType, "text/event-stream")
		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("Connection", "keep-alive")
		w.WriteHeader(http.StatusOK)

		ctx := logger.WithViewID(c.Request().Context(), view.ID())
		log := logger.FromContext(ctx)

		updates, stop := view.Subscribe()
		defer stop()

		ticker := time.NewTicker(heartbeat)
		defer ticker.Stop()

		for {
			select {
			case state, ok := <-updates:
				if !ok {
					_, _ = fmt.Fprint(w, "event: closed\ndata: {}\n\n")
					w.Flush()
					log.InfoContext(ctx, "report view closed, ending stream")
					return nil
				}
				data, err := json.Marshal(state)
				if err != nil {
					log.ErrorContext(ctx, "failed to marshal report state", "error", err)
					continue
				}
				if _, err := fmt.Fprintf(w, "event: state\ndata: %s\n\n", data); err != nil {
					log.InfoContext(ctx, "client disconnected", "error", err)
					return nil
				}
				w.Flush()

			case <-ticker.C:
				if _, err := fmt.Fprint(w, ": heartbeat\n\n"); err != nil {
					log.InfoContext(ctx, "client disconnected during heartbeat", "error", err)
					return nil
				}
				w.Flush()

			case <-ctx.Done():
				log.InfoContext(ctx, "event stream closed by client")
				return nil
			}
		}
	}
}
