package figure

import (
	"context"
	"errors"
	"fmt"
	"math"

	"go.uber.org/zap"

	"github.com/jungleai/curveclean-go/pkg/curveclean/models"
	"github.com/jungleai/curveclean-go/pkg/curveclean/store"
)

// A marker's coordinate is its center. The first corner sits half a marker
// below and left of it and the second corner is always one marker size away
// from the first, in the current axis scale.

// PopulatePoints creates one marker per session marker name from the stored
// coordinates. A coordinate never saved defaults to the axis midpoint and is
// flagged undefined.
func (m *Model) PopulatePoints(ctx context.Context, st store.Store) error {
	shapes := make([]models.Shape, 0, len(m.session.PointNames))
	for _, name := range m.session.PointNames {
		x, noX, err := m.readCoordinate(ctx, st, name, models.AxisX)
		if err != nil {
			return err
		}
		y, noY, err := m.readCoordinate(ctx, st, name, models.AxisY)
		if err != nil {
			return err
		}

		m.log.Debug("marker loaded",
			zap.String("marker", name),
			zap.Float64("x", x), zap.Bool("no_x", noX),
			zap.Float64("y", y), zap.Bool("no_y", noY))

		shape := models.NewShape()
		shape.X0 = x - m.markerWidth()/2
		shape.Y0 = y - m.markerHeight()/2
		shape.NoX = noX
		shape.NoY = noY
		m.resize(&shape)
		shapes = append(shapes, shape)
	}
	m.Layout.Shapes = shapes
	return nil
}

// UpdatePoints refreshes every marker: it re-checks which coordinates are
// saved, snaps undefined ones back to the axis midpoint and resizes the
// marker to the current axis scale.
func (m *Model) UpdatePoints(ctx context.Context, st store.Store) error {
	if err := m.checkMarkers(); err != nil {
		return err
	}

	for i := range m.Layout.Shapes {
		shape := &m.Layout.Shapes[i]
		name := m.session.PointNames[i]

		hasX, err := m.saved(ctx, st, name, models.AxisX)
		if err != nil {
			return err
		}
		hasY, err := m.saved(ctx, st, name, models.AxisY)
		if err != nil {
			return err
		}

		shape.NoX = !hasX
		shape.NoY = !hasY
		m.place(shape)
	}
	return nil
}

// SavePoints writes the center of every marker to the store, skipping each
// coordinate flagged undefined so a cleared key is never recreated.
func (m *Model) SavePoints(ctx context.Context, st store.Store) error {
	if err := m.checkMarkers(); err != nil {
		return err
	}

	values := make(map[string]string)
	for i, name := range m.session.PointNames {
		shape := m.Layout.Shapes[i]
		if !shape.Undefined(models.AxisX) {
			values[store.MarkerKey(m.session.UUID, name, models.AxisX)] = store.FormatFloat(shape.CenterX())
		}
		if !shape.Undefined(models.AxisY) {
			values[store.MarkerKey(m.session.UUID, name, models.AxisY)] = store.FormatFloat(shape.CenterY())
		}
	}

	m.log.Debug("saving markers", zap.Any("values", values))
	return st.SetMany(ctx, values)
}

// place fits a marker to the current axis scale. An undefined axis snaps to
// the axis midpoint. A defined axis keeps its center, so zooming never moves
// a saved coordinate; a marker already of the current size is left as is.
func (m *Model) place(shape *models.Shape) {
	w, h := m.markerWidth(), m.markerHeight()
	switch {
	case shape.Undefined(models.AxisX):
		shape.X0 = m.Layout.XAxis.Mid() - w/2
	case !sameSize(shape.X0, shape.X1, w):
		shape.X0 = shape.CenterX() - w/2
	}
	switch {
	case shape.Undefined(models.AxisY):
		shape.Y0 = m.Layout.YAxis.Mid() - h/2
	case !sameSize(shape.Y0, shape.Y1, h):
		shape.Y0 = shape.CenterY() - h/2
	}
	m.resize(shape)
}

// sameSize reports whether [lo, hi] spans size up to rounding.
func sameSize(lo, hi, size float64) bool {
	tol := 1e-9 * math.Max(math.Abs(size), math.Max(math.Abs(lo), math.Abs(hi)))
	return math.Abs((hi-lo)-size) <= tol
}

// resize sets the second corner one marker size away from the first.
func (m *Model) resize(shape *models.Shape) {
	shape.X1 = shape.X0 + m.markerWidth()
	shape.Y1 = shape.Y0 + m.markerHeight()
}

// readCoordinate returns the stored coordinate or, when never saved, the axis midpoint.
func (m *Model) readCoordinate(ctx context.Context, st store.Store, name string, axis models.Axis) (float64, bool, error) {
	v, err := store.GetFloat(ctx, st, store.MarkerKey(m.session.UUID, name, axis))
	if errors.Is(err, store.ErrNotFound) {
		if axis == models.AxisX {
			return m.Layout.XAxis.Mid(), true, nil
		}
		return m.Layout.YAxis.Mid(), true, nil
	}
	if err != nil {
		return 0, false, err
	}
	return v, false, nil
}

// saved reports whether a coordinate holds a readable stored value.
func (m *Model) saved(ctx context.Context, st store.Store, name string, axis models.Axis) (bool, error) {
	_, err := store.GetFloat(ctx, st, store.MarkerKey(m.session.UUID, name, axis))
	if errors.Is(err, store.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// checkMarkers verifies there is exactly one marker per session marker name.
func (m *Model) checkMarkers() error {
	if len(m.Layout.Shapes) != len(m.session.PointNames) {
		return fmt.Errorf("%w: figure has %d markers, session names %d",
			ErrMarkerCountMismatch, len(m.Layout.Shapes), len(m.session.PointNames))
	}
	return nil
}
