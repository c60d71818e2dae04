// Package figure implements the figure model: it rebuilds a typed figure from
// the raw chart object every pass, fills it from the store, keeps markers and
// guide lines consistent and writes the result back into the raw object.
package figure

import (
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/jungleai/curveclean-go/pkg/curveclean/models"
)

// Model is the typed figure for one reconciliation pass.
type Model struct {
	models.Figure

	session *models.Session
	geom    Geometry
	log     *zap.Logger
}

// New rebuilds a model from the raw chart object and the session descriptor.
// The raw object must carry layout.xaxis, layout.yaxis and at least one series.
func New(raw map[string]any, session *models.Session, geom Geometry, log *zap.Logger) (*Model, error) {
	if session == nil {
		return nil, fmt.Errorf("%w: no session", ErrInvalidFigure)
	}
	if raw == nil {
		return nil, fmt.Errorf("%w: no chart object", ErrInvalidFigure)
	}

	layout, ok := raw["layout"].(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: layout missing", ErrInvalidFigure)
	}
	for _, axis := range []string{"xaxis", "yaxis"} {
		if _, ok := layout[axis].(map[string]any); !ok {
			return nil, fmt.Errorf("%w: layout.%s missing", ErrInvalidFigure, axis)
		}
	}
	data, ok := raw["data"].([]any)
	if !ok || len(data) == 0 {
		return nil, fmt.Errorf("%w: no data series", ErrInvalidFigure)
	}

	encoded, err := json.Marshal(map[string]any{"data": data, "layout": layout})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFigure, err)
	}
	var fig models.Figure
	if err := json.Unmarshal(encoded, &fig); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFigure, err)
	}

	if log == nil {
		log = zap.NewNop()
	}
	return &Model{
		Figure:  fig,
		session: session,
		geom:    geom,
		log:     log,
	}, nil
}

// ScaleX returns the data units covered by one pixel on the x axis.
func (m *Model) ScaleX() float64 {
	return PixelsToUnits(1, m.Layout.XAxis.Span(), m.geom.Width)
}

// ScaleY returns the data units covered by one pixel on the y axis.
func (m *Model) ScaleY() float64 {
	return PixelsToUnits(1, m.Layout.YAxis.Span(), m.geom.Height)
}

// markerWidth returns the marker diameter in x data units.
func (m *Model) markerWidth() float64 {
	return m.geom.CircleSize * m.ScaleX()
}

// markerHeight returns the marker diameter in y data units.
func (m *Model) markerHeight() float64 {
	return m.geom.CircleSize * m.ScaleY()
}

// SetTitles sets the axis titles.
func (m *Model) SetTitles(xTitle, yTitle string) {
	m.Layout.XAxis.Title = models.AxisTitle{Text: xTitle}
	m.Layout.YAxis.Title = models.AxisTitle{Text: yTitle}
}

// SetRanges sets both axis ranges to the bounds padded by 5% of their span.
func (m *Model) SetRanges(b Bounds) {
	m.Layout.XAxis.Range = padded(b.MinX, b.MaxX)
	m.Layout.YAxis.Range = padded(b.MinY, b.MaxY)
}

// Apply writes the model back into the raw chart object: layout.xaxis,
// layout.yaxis and layout.shapes are replaced, other layout keys are kept,
// and data is replaced wholesale. Internal marker flags are never written.
func (m *Model) Apply(raw map[string]any) error {
	layout, ok := raw["layout"].(map[string]any)
	if !ok {
		layout = make(map[string]any)
		raw["layout"] = layout
	}

	lay := m.Layout
	if lay.Shapes == nil {
		lay.Shapes = []models.Shape{}
	}
	var layoutMap map[string]any
	if err := roundTrip(lay, &layoutMap); err != nil {
		return fmt.Errorf("failed to encode layout: %w", err)
	}
	for k, v := range layoutMap {
		layout[k] = v
	}

	series := m.Data
	if series == nil {
		series = []models.Series{}
	}
	var data []any
	if err := roundTrip(series, &data); err != nil {
		return fmt.Errorf("failed to encode data: %w", err)
	}
	raw["data"] = data
	return nil
}

// roundTrip converts a typed value to its generic JSON form.
func roundTrip(v any, out any) error {
	encoded, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return json.Unmarshal(encoded, out)
}
