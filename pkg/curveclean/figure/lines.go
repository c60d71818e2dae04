package figure

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/jungleai/curveclean-go/pkg/curveclean/models"
)

// LinePalette colors guide lines by group position.
var LinePalette = []string{
	"lightblue",
	"lightsalmon",
}

// PopulateLines appends one guide-line series per marker group.
func (m *Model) PopulateLines() error {
	if err := m.checkMarkers(); err != nil {
		return err
	}
	if len(m.session.GroupNames) > len(LinePalette) {
		return fmt.Errorf("%w: %d groups, %d colors", ErrTooManyGroups, len(m.session.GroupNames), len(LinePalette))
	}

	idx := 0
	for i, group := range m.session.GroupNames {
		var xs, ys []float64
		xs, ys, idx = m.linePoints(m.session.Group(group), idx)

		m.log.Debug("adding guide line",
			zap.String("group", group),
			zap.Float64s("x", xs),
			zap.Float64s("y", ys))

		series := models.NewSeries()
		series.Name = group
		series.X = xs
		series.Y = ys
		series.Mode = "lines"
		series.Marker.Color = LinePalette[i]
		series.ShowLegend = true
		series.LegendGroup = group
		m.Data = append(m.Data, series)
	}
	return nil
}

// UpdateLines recomputes every guide line from the current marker centers and
// overwrites the points of the series labelled with the group name.
func (m *Model) UpdateLines() error {
	if err := m.checkMarkers(); err != nil {
		return err
	}

	idx := 0
	for _, group := range m.session.GroupNames {
		var xs, ys []float64
		xs, ys, idx = m.linePoints(m.session.Group(group), idx)

		found := false
		for i := range m.Data {
			if m.Data[i].Name == group {
				m.Data[i].X = xs
				m.Data[i].Y = ys
				found = true
			}
		}
		if !found {
			return fmt.Errorf("%w: %s", ErrGuideLineNotFound, group)
		}
	}
	return nil
}

// linePoints returns the guide line of a group whose markers start at idx in
// the flattened marker list, and the index of the next group's first marker.
//
// Several markers are joined in order. A single marker with an undefined x
// spans the x range at its y, one with an undefined y spans the y range at its
// x, and a fully defined one drops from the top edge to the marker and then
// runs to the right edge.
func (m *Model) linePoints(group []string, idx int) (xs, ys []float64, next int) {
	xs = []float64{}
	ys = []float64{}
	xr := m.Layout.XAxis.Range
	yr := m.Layout.YAxis.Range

	switch {
	case len(group) > 1:
		for range group {
			shape := m.Layout.Shapes[idx]
			xs = append(xs, shape.CenterX())
			ys = append(ys, shape.CenterY())
			idx++
		}

	case len(group) == 1:
		shape := m.Layout.Shapes[idx]
		cx, cy := shape.CenterX(), shape.CenterY()
		switch {
		case shape.NoX:
			xs = append(xs, xr[0], xr[1])
			ys = append(ys, cy, cy)
		case shape.NoY:
			xs = append(xs, cx, cx)
			ys = append(ys, yr[0], yr[1])
		default:
			xs = append(xs, cx, cx, cx, xr[1])
			ys = append(ys, yr[1], cy, cy, cy)
		}
		idx++
	}

	return xs, ys, idx
}
