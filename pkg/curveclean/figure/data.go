package figure

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/jungleai/curveclean-go/pkg/curveclean/models"
	"github.com/jungleai/curveclean-go/pkg/curveclean/store"
)

// Palette colors sensor series by stage position.
var Palette = []string{
	"#1f77b4", // muted blue
	"#ff7f0e", // safety orange
	"#2ca02c", // cooked asparagus green
	"#d62728", // brick red
	"#9467bd", // muted purple
	"#8c564b", // chestnut brown
	"#e377c2", // raspberry yogurt pink
	"#7f7f7f", // middle gray
	"#bcbd22", // curry yellow-green
	"#17becf", // blue-teal
}

// HasData reports whether any series holds an x value.
func (m *Model) HasData() bool {
	for _, s := range m.Data {
		if len(s.X) > 0 {
			return true
		}
	}
	return false
}

// PopulateData replaces the series with one per (stage, asset) read from the
// store, but only while the figure holds no data yet. fetched reports whether
// the store was read; the bounds cover every fetched value.
// Stages beyond the palette are rejected before anything is read.
func (m *Model) PopulateData(ctx context.Context, st store.Store) (b Bounds, fetched bool, err error) {
	if m.HasData() {
		return Bounds{}, false, nil
	}

	s := m.session
	if len(s.Stages) > len(Palette) {
		return Bounds{}, false, fmt.Errorf("%w: %d stages, %d colors", ErrTooManyStages, len(s.Stages), len(Palette))
	}

	b = emptyBounds()
	data := make([]models.Series, 0, len(s.Stages)*len(s.Assets))
	for stageIdx, stage := range s.Stages {
		for _, asset := range s.Assets {
			xs, err := store.FloatList(ctx, st, store.SeriesKey(s.UUID, s.Plot, asset, s.XName, stage))
			if err != nil {
				return Bounds{}, false, err
			}
			ys, err := store.FloatList(ctx, st, store.SeriesKey(s.UUID, s.Plot, asset, s.YName, stage))
			if err != nil {
				return Bounds{}, false, err
			}

			m.log.Debug("fetched series",
				zap.String("asset", asset),
				zap.String("stage", stage),
				zap.Int("x", len(xs)),
				zap.Int("y", len(ys)))

			series := models.NewSeries()
			series.X = xs
			series.Y = ys
			series.Name = asset + ":" + stage
			series.LegendGroup = asset + ":" + stage
			series.Marker.Color = Palette[stageIdx]
			data = append(data, series)

			b.Extend(xs, ys)
		}
	}

	m.Data = data
	return b, true, nil
}
