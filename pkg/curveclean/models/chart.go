package models

import (
	"encoding/json"
	"fmt"
)

// Axis identifies one of the two figure axes.
type Axis string

const (
	// AxisX is the horizontal axis.
	AxisX Axis = "x"
	// AxisY is the vertical axis.
	AxisY Axis = "y"
)

// SeriesMarker is the point style of a series.
type SeriesMarker struct {
	Color  string  `json:"color"`
	Symbol string  `json:"symbol"`
	Size   float64 `json:"size"`
}

// Series represents one plotted trace: sensor data or a synthesized guide line.
type Series struct {
	// X holds the x values.
	X []float64 `json:"x"`
	// Y holds the y values, same length as X.
	Y []float64 `json:"y"`
	// Marker is the point style.
	Marker SeriesMarker `json:"marker"`
	// XAxis is the x axis reference.
	XAxis string `json:"xaxis"`
	// YAxis is the y axis reference.
	YAxis string `json:"yaxis"`
	// Type is the trace type (scatter, scattergl).
	Type string `json:"type"`
	// LegendGroup groups traces in the legend.
	LegendGroup string `json:"legendgroup"`
	// Mode is the draw mode (markers, lines).
	Mode string `json:"mode"`
	// Name is the trace label. Guide lines are looked up by it.
	Name string `json:"name"`
	// Orientation is the trace orientation.
	Orientation string `json:"orientation"`
	// ShowLegend toggles the legend entry.
	ShowLegend bool `json:"showlegend"`
}

// NewSeries returns a series with the chart defaults applied.
func NewSeries() Series {
	return Series{
		X:           []float64{},
		Y:           []float64{},
		Marker:      SeriesMarker{Color: "#636efa", Symbol: "circle", Size: 5},
		XAxis:       "x",
		YAxis:       "y",
		Type:        "scatter",
		Mode:        "markers",
		Orientation: "v",
		ShowLegend:  true,
	}
}

// UnmarshalJSON decodes a series on top of the defaults so absent fields keep them.
func (s *Series) UnmarshalJSON(data []byte) error {
	type plain Series
	v := plain(NewSeries())
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	if v.X == nil {
		v.X = []float64{}
	}
	if v.Y == nil {
		v.Y = []float64{}
	}
	*s = Series(v)
	return nil
}

// AxisTitle is an axis title.
type AxisTitle struct {
	Text string `json:"text"`
}

// UnmarshalJSON accepts both the object form and the legacy plain string form.
func (t *AxisTitle) UnmarshalJSON(data []byte) error {
	var text string
	if err := json.Unmarshal(data, &text); err == nil {
		t.Text = text
		return nil
	}
	type plain AxisTitle
	var v plain
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("axis title: %w", err)
	}
	*t = AxisTitle(v)
	return nil
}

// AxisLayout holds the visible range and title of one axis.
type AxisLayout struct {
	// Range is the visible [min, max] range.
	Range [2]float64 `json:"range"`
	// Title is the axis title.
	Title AxisTitle `json:"title"`
}

// UnmarshalJSON decodes an axis defaulting a missing range to [0, 1].
func (a *AxisLayout) UnmarshalJSON(data []byte) error {
	type plain AxisLayout
	v := plain{Range: [2]float64{0, 1}}
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*a = AxisLayout(v)
	return nil
}

// Span returns max - min of the range.
func (a AxisLayout) Span() float64 {
	return a.Range[1] - a.Range[0]
}

// Mid returns the midpoint of the range.
func (a AxisLayout) Mid() float64 {
	return (a.Range[0] + a.Range[1]) / 2
}

// Layout is the part of the chart layout owned by the figure model.
type Layout struct {
	// Shapes are the boundary markers, one per marker name.
	Shapes []Shape `json:"shapes"`
	// YAxis is the vertical axis.
	YAxis AxisLayout `json:"yaxis"`
	// XAxis is the horizontal axis.
	XAxis AxisLayout `json:"xaxis"`
}

// Figure is the typed form of a chart object.
type Figure struct {
	// Data holds sensor series followed by guide lines.
	Data []Series `json:"data"`
	// Layout holds axes and markers.
	Layout Layout `json:"layout"`
}
