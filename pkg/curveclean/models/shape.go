package models

import "encoding/json"

// ShapeLine is the outline style of a shape.
type ShapeLine struct {
	Color string  `json:"color"`
	Width float64 `json:"width"`
	Dash  string  `json:"dash"`
}

// Shape represents a boundary marker drawn as a circle between two corners.
type Shape struct {
	// Type is the shape type, always "circle" for markers.
	Type string `json:"type"`
	// Editable is the per-shape edit flag.
	Editable bool `json:"editable"`
	// X0 is the first corner x coordinate.
	X0 float64 `json:"x0"`
	// Y0 is the first corner y coordinate.
	Y0 float64 `json:"y0"`
	// X1 is the opposite corner x coordinate.
	X1 float64 `json:"x1"`
	// Y1 is the opposite corner y coordinate.
	Y1 float64 `json:"y1"`
	// FillColor is the fill color.
	FillColor string `json:"fillcolor"`
	// Line is the outline style.
	Line ShapeLine `json:"line"`

	// NoX reports that the x coordinate has not been saved yet.
	NoX bool `json:"-"`
	// NoY reports that the y coordinate has not been saved yet.
	NoY bool `json:"-"`
}

// NewShape returns a marker shape with the default style.
func NewShape() Shape {
	return Shape{
		Type:      "circle",
		FillColor: "PaleTurquoise",
		Line:      ShapeLine{Color: "LightSeaGreen", Width: 4, Dash: "solid"},
	}
}

// UnmarshalJSON decodes a shape on top of the default style.
func (s *Shape) UnmarshalJSON(data []byte) error {
	type plain Shape
	v := plain(NewShape())
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*s = Shape(v)
	return nil
}

// CenterX returns the x coordinate of the marker center.
func (s Shape) CenterX() float64 {
	return (s.X0 + s.X1) / 2
}

// CenterY returns the y coordinate of the marker center.
func (s Shape) CenterY() float64 {
	return (s.Y0 + s.Y1) / 2
}

// Undefined reports whether the given axis coordinate is undefined.
func (s Shape) Undefined(axis Axis) bool {
	if axis == AxisX {
		return s.NoX
	}
	return s.NoY
}
