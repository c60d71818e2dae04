package curveclean

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/jungleai/curveclean-go/pkg/curveclean/figure"
	"github.com/jungleai/curveclean-go/pkg/curveclean/locator"
	"github.com/jungleai/curveclean-go/pkg/curveclean/output"
	"github.com/jungleai/curveclean-go/pkg/curveclean/store"
)

// Request is one UI event.
type Request struct {
	// Href is the current page URL carrying the session descriptor.
	Href string `json:"href"`
	// Figure is the chart object as currently rendered. It is mutated in place.
	Figure map[string]any `json:"figure"`
	// RelayoutData is the latest drag or zoom delta. It is only echoed back.
	RelayoutData map[string]any `json:"relayout_data"`
}

// Result is the outcome of one reconciliation pass.
type Result struct {
	// Figure is the reconciled chart object.
	Figure map[string]any `json:"figure"`
	// RelayoutDump is the pretty-printed interaction delta (diagnostics only).
	RelayoutDump string `json:"relayout_data,omitempty"`
	// FigureDump is the pretty-printed chart object (diagnostics only).
	FigureDump string `json:"figure_dump,omitempty"`
}

// Reconciler runs reconciliation passes against a store.
type Reconciler struct {
	store store.Store
	opts  Options
	log   *zap.Logger
}

// NewReconciler creates a reconciler. A nil logger discards output.
func NewReconciler(st store.Store, opts Options, log *zap.Logger) *Reconciler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Reconciler{
		store: st,
		opts:  opts,
		log:   log,
	}
}

// Options returns the reconciler options.
func (r *Reconciler) Options() Options {
	return r.opts
}

// Reconcile runs one pass: parse the session from the URL, rebuild the figure
// from the chart object, load series and markers on first load, refresh
// markers and guide lines, save the movable markers and write everything back
// into req.Figure. Markers are saved only after every other step succeeded.
func (r *Reconciler) Reconcile(ctx context.Context, req Request) (res *Result, err error) {
	start := time.Now()
	defer func() {
		passDuration.Observe(time.Since(start).Seconds())
		passesTotal.WithLabelValues(passResult(err)).Inc()
	}()

	// Parse session
	session, err := locator.Parse(req.Href)
	if err != nil {
		return nil, NewReconcileError("", StepLocate, err)
	}
	log := r.log.With(zap.String("session", session.UUID), zap.String("plot", session.Plot))
	log.Debug("reconcile", zap.Any("relayout_data", req.RelayoutData))

	fail := func(step string, err error) (*Result, error) {
		return nil, NewReconcileError(session.UUID, step, err)
	}

	m, err := figure.New(req.Figure, session, r.opts.Geometry, log)
	if err != nil {
		return fail(StepRehydrate, err)
	}

	m.SetTitles(session.XName, session.YName)

	// Fetch the sensor series on first load
	bounds, fetched, err := m.PopulateData(ctx, r.store)
	if err != nil {
		return fail(StepPopulateData, err)
	}
	if fetched {
		firstLoadsTotal.Inc()
		if !bounds.Empty() {
			m.SetRanges(bounds)
		}
	}

	// Create markers and guide lines if the figure has none yet
	if len(m.Layout.Shapes) == 0 {
		if err := m.PopulatePoints(ctx, r.store); err != nil {
			return fail(StepPopulatePoints, err)
		}
		if err := m.PopulateLines(); err != nil {
			return fail(StepPopulateLines, err)
		}
	}

	if err := m.UpdatePoints(ctx, r.store); err != nil {
		return fail(StepUpdatePoints, err)
	}
	if err := m.UpdateLines(); err != nil {
		return fail(StepUpdateLines, err)
	}

	if err := m.SavePoints(ctx, r.store); err != nil {
		return fail(StepSavePoints, err)
	}

	if err := m.Apply(req.Figure); err != nil {
		return fail(StepSerialize, err)
	}

	res = &Result{Figure: req.Figure}
	if r.opts.ShouldIncludeDiagnostics() {
		if res.RelayoutDump, err = output.Dump(req.RelayoutData); err != nil {
			return fail(StepSerialize, err)
		}
		if res.FigureDump, err = output.Dump(req.Figure); err != nil {
			return fail(StepSerialize, err)
		}
	}
	return res, nil
}
