package report_view_usecase

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"report-assembler/domain"
	"report-assembler/utils/metrics"

	"github.com/google/uuid"
)

type RegistryConfig struct {
	ResizeThrottle time.Duration
	MaxViews       int
}

// ViewRegistry owns every mounted ReportView.
type ViewRegistry struct {
	loader ReportLoader
	cfg    RegistryConfig
	logger *slog.Logger
	newID  func() string

	ctx    context.Context
	cancel context.CancelFunc

	mu    sync.RWMutex
	views map[string]*ReportView
}

func NewViewRegistry(loader ReportLoader, cfg RegistryConfig, logger *slog.Logger) *ViewRegistry {
	ctx, cancel := context.WithCancel(context.Background())
	return &ViewRegistry{
		loader: loader,
		cfg:    cfg,
		logger: logger,
		newID:  uuid.NewString,
		ctx:    ctx,
		cancel: cancel,
		views:  make(map[string]*ReportView),
	}
}

// Mount creates a view for reportID and starts its first load. The load
// outlives the calling request; it stops when the view is unmounted.
func (r *ViewRegistry) Mount(reportID string) (*ReportView, error) {
	r.mu.Lock()
	if r.ctx.Err() != nil {
		r.mu.Unlock()
		return nil, domain.ErrViewClosed
	}
	if r.cfg.MaxViews > 0 && len(r.views) >= r.cfg.MaxViews {
		r.mu.Unlock()
		return nil, domain.ErrTooManyViews
	}
	v := newReportView(r.ctx, r.newID(), reportID, r.loader, r.cfg.ResizeThrottle)
	r.views[v.ID()] = v
	count := len(r.views)
	r.mu.Unlock()

	metrics.ActiveReportViews.Set(float64(count))
	r.logger.Info("report view mounted", "view_id", v.ID(), "report_id", reportID, "active_views", count)

	if err := v.Reload(); err != nil {
		return nil, err
	}
	return v, nil
}

func (r *ViewRegistry) Get(viewID string) (*ReportView, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	v, ok := r.views[viewID]
	if !ok {
		return nil, domain.ErrViewNotFound
	}
	return v, nil
}

// Unmount closes the view and forgets it.
func (r *ViewRegistry) Unmount(viewID string) error {
	r.mu.Lock()
	v, ok := r.views[viewID]
	if ok {
		delete(r.views, viewID)
	}
	count := len(r.views)
	r.mu.Unlock()

	if !ok {
		return domain.ErrViewNotFound
	}
	v.Close()
	metrics.ActiveReportViews.Set(float64(count))
	r.logger.Info("report view unmounted", "view_id", viewID, "report_id", v.ReportID(), "active_views", count)
	return nil
}

func (r *ViewRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.views)
}

// Close unmounts every view. Mount fails afterwards.
func (r *ViewRegistry) Close() {
	r.mu.Lock()
	r.cancel()
	views := r.views
	r.views = make(map[string]*ReportView)
	r.mu.Unlock()

	for _, v := range views {
		v.Close()
	}
	metrics.ActiveReportViews.Set(0)
	r.logger.Info("report views closed", "count", len(views))
}
