package report_view_usecase

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"report-assembler/domain"

	"golang.org/x/time/rate"
)

// ReportLoader produces the state of a report. It is satisfied by the
// report assembly usecase.
type ReportLoader interface {
	Execute(ctx context.Context, reportID string) (domain.ReportState, error)
}

// ReportView is one mounted report. The data and dimension slots are
// written independently; readers combine them through Snapshot.
type ReportView struct {
	id       string
	reportID string
	loader   ReportLoader

	data atomic.Pointer[domain.ReportState]
	dims atomic.Pointer[domain.Dimensions]

	throttle    *rate.Limiter
	resizeMu    sync.Mutex
	resizeTimer *time.Timer
	pendingDims atomic.Pointer[domain.Dimensions]

	subsMu  sync.Mutex
	subs    map[int]chan domain.ReportState
	nextSub int

	ctx        context.Context
	cancel     context.CancelFunc
	loadMu     sync.Mutex
	loadCancel context.CancelFunc
	loadGen    uint64
	loaded     chan struct{}
	loadedOnce sync.Once
	closed     atomic.Bool
}

func newReportView(parent context.Context, id, reportID string, loader ReportLoader, resizeThrottle time.Duration) *ReportView {
	ctx, cancel := context.WithCancel(parent)
	v := &ReportView{
		id:       id,
		reportID: reportID,
		loader:   loader,
		throttle: rate.NewLimiter(rate.Every(resizeThrottle), 1),
		subs:     make(map[int]chan domain.ReportState),
		ctx:      ctx,
		cancel:   cancel,
		loaded:   make(chan struct{}),
	}
	loading := domain.LoadingState()
	v.data.Store(&loading)
	return v
}

func (v *ReportView) ID() string       { return v.id }
func (v *ReportView) ReportID() string { return v.reportID }

// Snapshot returns the current state with the latest dimensions attached.
func (v *ReportView) Snapshot() domain.ReportState {
	return v.data.Load().WithDimensions(v.dims.Load())
}

// Loaded is closed once a load has finished for the first time.
func (v *ReportView) Loaded() <-chan struct{} {
	return v.loaded
}

// Reload starts a new load from scratch. A load still in flight is
// cancelled and its result discarded.
func (v *ReportView) Reload() error {
	if v.closed.Load() {
		return domain.ErrViewClosed
	}

	v.loadMu.Lock()
	if v.loadCancel != nil {
		v.loadCancel()
	}
	ctx, cancel := context.WithCancel(v.ctx)
	v.loadCancel = cancel
	v.loadGen++
	gen := v.loadGen

	loading := domain.LoadingState()
	v.data.Store(&loading)
	v.publish(v.Snapshot())
	v.loadMu.Unlock()

	go v.load(ctx, gen)
	return nil
}

func (v *ReportView) load(ctx context.Context, gen uint64) {
	state, _ := v.loader.Execute(ctx, v.reportID)

	// The generation check and the store happen under one lock so a Reload
	// cannot slip its loading state in between.
	v.loadMu.Lock()
	defer v.loadMu.Unlock()
	if gen != v.loadGen || ctx.Err() != nil {
		return
	}

	v.data.Store(&state)
	v.publish(v.Snapshot())

	v.loadedOnce.Do(func() { close(v.loaded) })
}

// Resize records new dimensions. Updates are applied at most once per
// throttle interval; a call inside the interval schedules a trailing
// update carrying the latest dimensions.
func (v *ReportView) Resize(d domain.Dimensions) error {
	if v.closed.Load() {
		return domain.ErrViewClosed
	}
	v.pendingDims.Store(&d)

	v.resizeMu.Lock()
	defer v.resizeMu.Unlock()
	if v.resizeTimer != nil {
		return nil
	}

	delay := v.throttle.Reserve().Delay()
	if delay == 0 {
		v.applyDims()
		return nil
	}
	v.resizeTimer = time.AfterFunc(delay, func() {
		v.resizeMu.Lock()
		v.resizeTimer = nil
		v.resizeMu.Unlock()
		if v.closed.Load() {
			return
		}
		v.applyDims()
	})
	return nil
}

func (v *ReportView) applyDims() {
	v.dims.Store(v.pendingDims.Load())
	v.publish(v.Snapshot())
}

// Subscribe returns a channel of state updates and a func to stop them.
// The channel holds only the most recent update; a slow reader skips
// intermediate states. It is closed when the view closes.
func (v *ReportView) Subscribe() (<-chan domain.ReportState, func()) {
	ch := make(chan domain.ReportState, 1)

	v.subsMu.Lock()
	defer v.subsMu.Unlock()
	if v.closed.Load() {
		close(ch)
		return ch, func() {}
	}
	id := v.nextSub
	v.nextSub++
	v.subs[id] = ch
	ch <- v.Snapshot()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			v.subsMu.Lock()
			defer v.subsMu.Unlock()
			if sub, ok := v.subs[id]; ok {
				delete(v.subs, id)
				close(sub)
			}
		})
	}
}

func (v *ReportView) publish(s domain.ReportState) {
	v.subsMu.Lock()
	defer v.subsMu.Unlock()
	for _, ch := range v.subs {
		select {
		case ch <- s:
		default:
			select {
			case <-ch:
			default:
			}
			ch <- s
		}
	}
}

// Close cancels any in-flight load or poll and closes every subscriber.
func (v *ReportView) Close() {
	if !v.closed.CompareAndSwap(false, true) {
		return
	}
	v.cancel()

	v.resizeMu.Lock()
	if v.resizeTimer != nil {
		v.resizeTimer.Stop()
		v.resizeTimer = nil
	}
	v.resizeMu.Unlock()

	v.subsMu.Lock()
	for id, ch := range v.subs {
		delete(v.subs, id)
		close(ch)
	}
	v.subsMu.Unlock()
}
