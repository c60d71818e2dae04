package figure

// Default plot geometry in device pixels.
const (
	DefaultWidth      = 1200
	DefaultHeight     = 600
	DefaultCircleSize = 10
)

// Geometry holds the pixel dimensions used to size markers in data units.
type Geometry struct {
	// Width is the plot width in pixels.
	Width int `yaml:"width"`
	// Height is the plot height in pixels.
	Height int `yaml:"height"`
	// CircleSize is the marker diameter in pixels.
	CircleSize float64 `yaml:"circle_size"`
}

// DefaultGeometry returns the default plot geometry.
func DefaultGeometry() Geometry {
	return Geometry{
		Width:      DefaultWidth,
		Height:     DefaultHeight,
		CircleSize: DefaultCircleSize,
	}
}

// PixelsToUnits converts a pixel length to data units for an axis whose
// visible span of data units is drawn over axisPixels pixels.
func PixelsToUnits(pixels, span float64, axisPixels int) float64 {
	return pixels * (span / float64(axisPixels))
}
