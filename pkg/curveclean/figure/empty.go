package figure

// Title is the chart title.
const Title = "Power Curve Cleaning"

// Empty returns the raw chart object shown before the first reconciliation:
// one empty WebGL scatter trace and blank axes.
func Empty(geom Geometry) map[string]any {
	return map[string]any{
		"data": []any{
			map[string]any{
				"type":   "scattergl",
				"x":      []any{},
				"y":      []any{},
				"marker": map[string]any{"size": 1},
			},
		},
		"layout": map[string]any{
			"clickmode": "event+select",
			"hovermode": false,
			"width":     geom.Width,
			"height":    geom.Height,
			"title":     map[string]any{"text": Title},
			"xaxis":     map[string]any{"title": map[string]any{"text": ""}},
			"yaxis":     map[string]any{"title": map[string]any{"text": ""}},
		},
	}
}
