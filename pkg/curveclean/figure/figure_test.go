package figure

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jungleai/curveclean-go/pkg/curveclean/models"
	"github.com/jungleai/curveclean-go/pkg/curveclean/store"
)

const delta = 1e-9

// countingStore counts reads and writes reaching the wrapped store.
type countingStore struct {
	store.Store
	reads, writes int
}

func (c *countingStore) Get(ctx context.Context, key string) (string, error) {
	c.reads++
	return c.Store.Get(ctx, key)
}

func (c *countingStore) Range(ctx context.Context, key string, start, stop int64) ([]string, error) {
	c.reads++
	return c.Store.Range(ctx, key, start, stop)
}

func (c *countingStore) SetMany(ctx context.Context, values map[string]string) error {
	c.writes++
	return c.Store.SetMany(ctx, values)
}

func testSession(groups ...[]string) *models.Session {
	s := &models.Session{
		UUID:   "u1",
		Plot:   "pc",
		Assets: []string{"A01", "A02"},
		XName:  "active_power",
		YName:  "wind_speed",
		Stages: []string{"original"},
		Groups: map[string][]string{},
	}
	for i, g := range groups {
		name := "points_" + string(rune('0'+i))
		s.GroupNames = append(s.GroupNames, name)
		s.Groups[name] = g
		s.PointNames = append(s.PointNames, g...)
	}
	return s
}

func rawFigure(xs ...float64) map[string]any {
	x := make([]any, len(xs))
	y := make([]any, len(xs))
	for i, v := range xs {
		x[i] = v
		y[i] = v
	}
	return map[string]any{
		"data": []any{map[string]any{"x": x, "y": y}},
		"layout": map[string]any{
			"width": 1200,
			"xaxis": map[string]any{"range": []any{0.0, 10.0}, "title": map[string]any{"text": ""}},
			"yaxis": map[string]any{"range": []any{0.0, 10.0}, "title": map[string]any{"text": ""}},
		},
	}
}

func newModel(t *testing.T, raw map[string]any, s *models.Session) *Model {
	t.Helper()
	m, err := New(raw, s, DefaultGeometry(), nil)
	require.NoError(t, err)
	return m
}

// marker builds a shape centered on (cx, cy) one unit wide.
func marker(cx, cy float64) models.Shape {
	s := models.NewShape()
	s.X0, s.X1 = cx-0.5, cx+0.5
	s.Y0, s.Y1 = cy-0.5, cy+0.5
	return s
}

func TestNewValidation(t *testing.T) {
	s := testSession([]string{"m1"})
	tests := []struct {
		name string
		raw  map[string]any
	}{
		{"nil", nil},
		{"no layout", map[string]any{"data": []any{map[string]any{}}}},
		{"no xaxis", map[string]any{
			"data":   []any{map[string]any{}},
			"layout": map[string]any{"yaxis": map[string]any{}},
		}},
		{"no data", map[string]any{
			"data":   []any{},
			"layout": map[string]any{"xaxis": map[string]any{}, "yaxis": map[string]any{}},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.raw, s, DefaultGeometry(), nil)
			require.True(t, errors.Is(err, ErrInvalidFigure), "expected ErrInvalidFigure, got %v", err)
		})
	}
}

func TestNewDefaults(t *testing.T) {
	m := newModel(t, Empty(DefaultGeometry()), testSession([]string{"m1"}))

	assert.Equal(t, [2]float64{0, 1}, m.Layout.XAxis.Range)
	require.Len(t, m.Data, 1)
	assert.Equal(t, "scattergl", m.Data[0].Type)
	assert.Equal(t, 1.0, m.Data[0].Marker.Size)
	assert.Equal(t, "circle", m.Data[0].Marker.Symbol)
	assert.Equal(t, "markers", m.Data[0].Mode)
	assert.True(t, m.Data[0].ShowLegend)
	assert.Empty(t, m.Data[0].X)
	assert.False(t, m.HasData())
}

func TestPopulateDataFirstLoad(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemory()
	s := testSession([]string{"m1"})
	require.NoError(t, mem.Push(ctx, store.SeriesKey("u1", "pc", "A01", "active_power", "original"), "1", "4"))
	require.NoError(t, mem.Push(ctx, store.SeriesKey("u1", "pc", "A01", "wind_speed", "original"), "2", "8"))
	require.NoError(t, mem.Push(ctx, store.SeriesKey("u1", "pc", "A02", "active_power", "original"), "-1"))
	require.NoError(t, mem.Push(ctx, store.SeriesKey("u1", "pc", "A02", "wind_speed", "original"), "3"))

	m := newModel(t, rawFigure(), s)
	b, fetched, err := m.PopulateData(ctx, mem)
	require.NoError(t, err)
	require.True(t, fetched)
	assert.Equal(t, Bounds{MinX: -1, MaxX: 4, MinY: 2, MaxY: 8}, b)

	require.Len(t, m.Data, 2)
	assert.Equal(t, "A01:original", m.Data[0].Name)
	assert.Equal(t, "A01:original", m.Data[0].LegendGroup)
	assert.Equal(t, Palette[0], m.Data[0].Marker.Color)
	assert.Equal(t, "scatter", m.Data[0].Type)
	assert.Equal(t, []float64{1, 4}, m.Data[0].X)
	assert.Equal(t, []float64{2, 8}, m.Data[0].Y)
	assert.Equal(t, "A02:original", m.Data[1].Name)

	m.SetRanges(b)
	assert.InDelta(t, -1.25, m.Layout.XAxis.Range[0], delta)
	assert.InDelta(t, 4.25, m.Layout.XAxis.Range[1], delta)
	assert.InDelta(t, 1.7, m.Layout.YAxis.Range[0], delta)
	assert.InDelta(t, 8.3, m.Layout.YAxis.Range[1], delta)
}

func TestPopulateDataAlreadyLoaded(t *testing.T) {
	cs := &countingStore{Store: store.NewMemory()}
	m := newModel(t, rawFigure(3), testSession([]string{"m1"}))

	b, fetched, err := m.PopulateData(context.Background(), cs)
	require.NoError(t, err)
	assert.False(t, fetched)
	assert.Equal(t, Bounds{}, b)
	assert.Zero(t, cs.reads)
	require.Len(t, m.Data, 1)
}

func TestPopulateDataEmptyStore(t *testing.T) {
	m := newModel(t, rawFigure(), testSession([]string{"m1"}))
	b, fetched, err := m.PopulateData(context.Background(), store.NewMemory())
	require.NoError(t, err)
	assert.True(t, fetched)
	assert.True(t, b.Empty())
}

func TestPopulateDataTooManyStages(t *testing.T) {
	s := testSession([]string{"m1"})
	s.Stages = make([]string, len(Palette)+1)
	cs := &countingStore{Store: store.NewMemory()}

	m := newModel(t, rawFigure(), s)
	_, _, err := m.PopulateData(context.Background(), cs)
	require.True(t, errors.Is(err, ErrTooManyStages))
	assert.Zero(t, cs.reads)
}

func TestPopulateDataMalformedValue(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemory()
	require.NoError(t, mem.Push(ctx, store.SeriesKey("u1", "pc", "A01", "active_power", "original"), "oops"))

	m := newModel(t, rawFigure(), testSession([]string{"m1"}))
	_, _, err := m.PopulateData(ctx, mem)
	require.Error(t, err)
}

func TestPopulateDataNonFiniteValue(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemory()
	require.NoError(t, mem.Push(ctx, store.SeriesKey("u1", "pc", "A01", "active_power", "original"), "1", "NaN"))

	m := newModel(t, rawFigure(), testSession([]string{"m1"}))
	_, _, err := m.PopulateData(ctx, mem)
	require.True(t, errors.Is(err, store.ErrMalformedValue))
}

func TestMarkerDefaults(t *testing.T) {
	ctx := context.Background()
	m := newModel(t, rawFigure(), testSession([]string{"m1", "m2"}, []string{"m3"}))

	require.NoError(t, m.PopulatePoints(ctx, store.NewMemory()))
	require.NoError(t, m.UpdatePoints(ctx, store.NewMemory()))

	require.Len(t, m.Layout.Shapes, 3)
	for i, shape := range m.Layout.Shapes {
		assert.True(t, shape.NoX, "marker %d", i)
		assert.True(t, shape.NoY, "marker %d", i)
		assert.InDelta(t, 5, shape.CenterX(), delta)
		assert.InDelta(t, 5, shape.CenterY(), delta)
	}
}

func TestMarkerFromStore(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemory()
	require.NoError(t, mem.SetMany(ctx, map[string]string{"u1:m1.x": "2", "u1:m1.y": "7"}))

	m := newModel(t, rawFigure(), testSession([]string{"m1"}))
	require.NoError(t, m.PopulatePoints(ctx, mem))

	shape := m.Layout.Shapes[0]
	assert.False(t, shape.NoX)
	assert.False(t, shape.NoY)
	assert.InDelta(t, 2, shape.CenterX(), delta)
	assert.InDelta(t, 7, shape.CenterY(), delta)
	assert.Equal(t, "circle", shape.Type)
}

func TestCornerSizeTracksRange(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemory()
	require.NoError(t, mem.SetMany(ctx, map[string]string{"u1:m1.x": "2", "u1:m1.y": "7"}))

	m := newModel(t, rawFigure(), testSession([]string{"m1"}))
	require.NoError(t, m.PopulatePoints(ctx, mem))

	ranges := []struct {
		x, y [2]float64
	}{
		{[2]float64{0, 10}, [2]float64{0, 10}},
		{[2]float64{0, 120}, [2]float64{0, 60}},
		{[2]float64{-3, 1}, [2]float64{100, 2000}},
	}
	for _, r := range ranges {
		m.Layout.XAxis.Range = r.x
		m.Layout.YAxis.Range = r.y
		require.NoError(t, m.UpdatePoints(ctx, mem))

		shape := m.Layout.Shapes[0]
		assert.InDelta(t, DefaultCircleSize*((r.x[1]-r.x[0])/DefaultWidth), shape.X1-shape.X0, delta)
		assert.InDelta(t, DefaultCircleSize*((r.y[1]-r.y[0])/DefaultHeight), shape.Y1-shape.Y0, delta)
		// Rescaling keeps the saved center.
		assert.InDelta(t, 2, shape.CenterX(), delta)
		assert.InDelta(t, 7, shape.CenterY(), delta)
	}

	require.NoError(t, m.SavePoints(ctx, mem))
	x, err := store.GetFloat(ctx, mem, "u1:m1.x")
	require.NoError(t, err)
	assert.InDelta(t, 2, x, delta)
	y, err := store.GetFloat(ctx, mem, "u1:m1.y")
	require.NoError(t, err)
	assert.InDelta(t, 7, y, delta)
}

func TestUpdatePointsKeepsSameSizeMarker(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemory()
	require.NoError(t, mem.SetMany(ctx, map[string]string{"u1:m1.x": "2", "u1:m1.y": "7"}))

	m := newModel(t, rawFigure(), testSession([]string{"m1"}))
	require.NoError(t, m.PopulatePoints(ctx, mem))
	before := m.Layout.Shapes[0]

	require.NoError(t, m.UpdatePoints(ctx, mem))
	assert.Equal(t, before.X0, m.Layout.Shapes[0].X0)
	assert.Equal(t, before.Y0, m.Layout.Shapes[0].Y0)
}

func TestUpdatePointsSnapsBack(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemory()
	require.NoError(t, mem.SetMany(ctx, map[string]string{"u1:m1.x": "2", "u1:m1.y": "7"}))

	m := newModel(t, rawFigure(), testSession([]string{"m1"}))
	require.NoError(t, m.PopulatePoints(ctx, mem))

	require.NoError(t, mem.Delete(ctx, "u1:m1.y"))
	require.NoError(t, m.UpdatePoints(ctx, mem))

	shape := m.Layout.Shapes[0]
	assert.False(t, shape.NoX)
	assert.True(t, shape.NoY)
	assert.InDelta(t, 2, shape.CenterX(), delta)
	assert.InDelta(t, 5, shape.CenterY(), delta)
}

func TestUpdatePointsCountMismatch(t *testing.T) {
	m := newModel(t, rawFigure(), testSession([]string{"m1", "m2"}))
	m.Layout.Shapes = []models.Shape{marker(1, 1)}

	err := m.UpdatePoints(context.Background(), store.NewMemory())
	require.True(t, errors.Is(err, ErrMarkerCountMismatch))
}

func TestSavePointsSkipsUndefined(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemory()
	m := newModel(t, rawFigure(), testSession([]string{"m1", "m2"}))

	m1 := marker(3, 4)
	m1.NoX = true
	m2 := marker(6, 8)
	m.Layout.Shapes = []models.Shape{m1, m2}

	require.NoError(t, m.SavePoints(ctx, mem))

	_, err := mem.Get(ctx, "u1:m1.x")
	assert.True(t, errors.Is(err, store.ErrNotFound))

	got := map[string]float64{}
	for _, key := range []string{"u1:m1.y", "u1:m2.x", "u1:m2.y"} {
		v, err := store.GetFloat(ctx, mem, key)
		require.NoError(t, err)
		got[key] = v
	}
	want := map[string]float64{"u1:m1.y": 4, "u1:m2.x": 6, "u1:m2.y": 8}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("saved coordinates mismatch (-want +got):\n%s", diff)
	}
}

func TestSavePointsNeverOverwritesWithUndefined(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemory()
	require.NoError(t, mem.SetMany(ctx, map[string]string{"u1:m1.x": "9"}))

	m := newModel(t, rawFigure(), testSession([]string{"m1"}))
	shape := marker(1, 1)
	shape.NoX = true
	shape.NoY = true
	m.Layout.Shapes = []models.Shape{shape}

	require.NoError(t, m.SavePoints(ctx, mem))
	v, err := mem.Get(ctx, "u1:m1.x")
	require.NoError(t, err)
	assert.Equal(t, "9", v)
}

func TestLinePointsSingleMarker(t *testing.T) {
	tests := []struct {
		name     string
		noX, noY bool
		x, y     []float64
	}{
		{"defined", false, false, []float64{5, 5, 5, 10}, []float64{10, 5, 5, 5}},
		{"no x", true, false, []float64{0, 10}, []float64{5, 5}},
		{"no y", false, true, []float64{5, 5}, []float64{0, 10}},
		{"neither", true, true, []float64{0, 10}, []float64{5, 5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newModel(t, rawFigure(), testSession([]string{"m1"}))
			shape := marker(5, 5)
			shape.NoX, shape.NoY = tt.noX, tt.noY
			m.Layout.Shapes = []models.Shape{shape}

			xs, ys, next := m.linePoints([]string{"m1"}, 0)
			assert.Equal(t, tt.x, xs)
			assert.Equal(t, tt.y, ys)
			assert.Equal(t, 1, next)
		})
	}
}

func TestLinePointsMultiMarker(t *testing.T) {
	m := newModel(t, rawFigure(), testSession([]string{"m1", "m2", "m3"}))
	m.Layout.Shapes = []models.Shape{marker(0, 0), marker(5, 5), marker(10, 5)}

	xs, ys, next := m.linePoints([]string{"m1", "m2", "m3"}, 0)
	assert.Equal(t, []float64{0, 5, 10}, xs)
	assert.Equal(t, []float64{0, 5, 5}, ys)
	assert.Equal(t, 3, next)
}

func TestPopulateAndUpdateLines(t *testing.T) {
	m := newModel(t, rawFigure(3), testSession([]string{"m1", "m2"}, []string{"m3"}))
	m.Layout.Shapes = []models.Shape{marker(1, 1), marker(2, 3), marker(4, 4)}

	require.NoError(t, m.PopulateLines())
	require.Len(t, m.Data, 3)

	line := m.Data[1]
	assert.Equal(t, "points_0", line.Name)
	assert.Equal(t, "points_0", line.LegendGroup)
	assert.Equal(t, "lines", line.Mode)
	assert.Equal(t, LinePalette[0], line.Marker.Color)
	assert.Equal(t, []float64{1, 2}, line.X)
	assert.Equal(t, []float64{1, 3}, line.Y)

	assert.Equal(t, "points_1", m.Data[2].Name)
	assert.Equal(t, LinePalette[1], m.Data[2].Marker.Color)
	assert.Equal(t, []float64{4, 4, 4, 10}, m.Data[2].X)

	m.Layout.Shapes[1] = marker(7, 8)
	require.NoError(t, m.UpdateLines())
	assert.Equal(t, []float64{1, 7}, m.Data[1].X)
	assert.Equal(t, []float64{1, 8}, m.Data[1].Y)
	require.Len(t, m.Data, 3)
}

func TestUpdateLinesMissingSeries(t *testing.T) {
	m := newModel(t, rawFigure(3), testSession([]string{"m1"}))
	m.Layout.Shapes = []models.Shape{marker(1, 1)}

	err := m.UpdateLines()
	require.True(t, errors.Is(err, ErrGuideLineNotFound))
}

func TestPopulateLinesTooManyGroups(t *testing.T) {
	m := newModel(t, rawFigure(3), testSession([]string{"a"}, []string{"b"}, []string{"c"}))
	m.Layout.Shapes = []models.Shape{marker(1, 1), marker(2, 2), marker(3, 3)}

	err := m.PopulateLines()
	require.True(t, errors.Is(err, ErrTooManyGroups))
}

func TestApplyStripsInternalFlags(t *testing.T) {
	raw := rawFigure(3)
	m := newModel(t, raw, testSession([]string{"m1"}))
	shape := marker(5, 5)
	shape.NoX = true
	m.Layout.Shapes = []models.Shape{shape}
	m.SetTitles("active_power", "wind_speed")

	require.NoError(t, m.Apply(raw))

	layout := raw["layout"].(map[string]any)
	assert.Equal(t, float64(1200), toFloat(layout["width"]))

	shapes := layout["shapes"].([]any)
	require.Len(t, shapes, 1)
	got := shapes[0].(map[string]any)
	assert.NotContains(t, got, "no_x")
	assert.NotContains(t, got, "no_y")
	assert.NotContains(t, got, "NoX")
	assert.Equal(t, 4.5, got["x0"])
	assert.Equal(t, "circle", got["type"])

	xaxis := layout["xaxis"].(map[string]any)
	assert.Equal(t, map[string]any{"text": "active_power"}, xaxis["title"])
	assert.Equal(t, []any{0.0, 10.0}, xaxis["range"])

	data := raw["data"].([]any)
	require.Len(t, data, 1)
	assert.Equal(t, []any{3.0}, data[0].(map[string]any)["x"])
}

func TestAxisTitleStringForm(t *testing.T) {
	raw := rawFigure()
	raw["layout"].(map[string]any)["xaxis"] = map[string]any{"title": "power"}
	m := newModel(t, raw, testSession([]string{"m1"}))
	assert.Equal(t, "power", m.Layout.XAxis.Title.Text)
}

func toFloat(v any) float64 {
	switch n := v.(type) {
	case int:
		return float64(n)
	case float64:
		return n
	}
	return 0
}
