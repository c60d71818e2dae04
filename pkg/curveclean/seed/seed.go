// Package seed fills a store with synthetic power-curve data so the page can
// be exercised without a real cleaning pipeline.
package seed

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"net/url"
	"strings"

	"github.com/google/uuid"

	"github.com/jungleai/curveclean-go/pkg/curveclean/locator"
	"github.com/jungleai/curveclean-go/pkg/curveclean/models"
	"github.com/jungleai/curveclean-go/pkg/curveclean/store"
)

// Point is a marker position written by Run.
type Point struct {
	X, Y float64
}

// Params configures one seeded session.
type Params struct {
	// BaseURL is the page address the session URL is built on.
	BaseURL string
	UUID    string
	Plot    string
	Assets  []string
	XName   string
	YName   string
	Stages  []string
	// Groups are the marker groups in order. Group i is keyed points_i.
	Groups [][]string
	// Points holds the saved position of each marker. Markers absent here
	// stay undefined.
	Points map[string]Point

	NPoints    int
	XMin       int
	XMax       int
	YDeviation int
	Copies     int
}

// DefaultParams returns the parameters of the reference test session.
func DefaultParams() Params {
	return Params{
		BaseURL: "http://0.0.0.0:8050/dash",
		UUID:    "12345",
		Plot:    "power_curve",
		Assets:  []string{"A01", "A02", "A03"},
		XName:   "active_power",
		YName:   "wind_speed",
		Stages:  []string{"original"},
		Groups: [][]string{
			{"point_1", "point_2", "point_3"},
			{"point_4", "point_5"},
		},
		Points: map[string]Point{
			"point_1": {X: 0, Y: 0},
			"point_2": {X: 5, Y: 5},
			"point_3": {X: 10, Y: 5},
			"point_4": {X: 1, Y: 1},
			"point_5": {X: 3, Y: 1},
		},
		NPoints:    100,
		XMin:       0,
		XMax:       20,
		YDeviation: 2,
		Copies:     10,
	}
}

// Generate draws n integer x values in [xMin, xMax] with y = x + d, d an
// integer in [-yDev, yDev], and repeats the whole sample copies times.
func Generate(rng *rand.Rand, n, xMin, xMax, yDev, copies int) (xs, ys []float64, err error) {
	if xMax < xMin {
		return nil, nil, fmt.Errorf("invalid x range [%d, %d]", xMin, xMax)
	}
	if n < 0 || yDev < 0 || copies < 0 {
		return nil, nil, errors.New("point count, deviation and copies must not be negative")
	}

	xo := make([]float64, n)
	yo := make([]float64, n)
	for i := range xo {
		x := xMin + rng.IntN(xMax-xMin+1)
		xo[i] = float64(x)
		yo[i] = float64(x + rng.IntN(2*yDev+1) - yDev)
	}

	xs = make([]float64, 0, n*copies)
	ys = make([]float64, 0, n*copies)
	for range copies {
		xs = append(xs, xo...)
		ys = append(ys, yo...)
	}
	return xs, ys, nil
}

// Run writes the series of every asset and stage plus the marker positions,
// and returns the page URL for the session. Existing series at the same keys
// are replaced. An empty UUID is generated.
func Run(ctx context.Context, st store.Store, rng *rand.Rand, p Params) (string, error) {
	if p.UUID == "" {
		p.UUID = uuid.NewString()
	}
	session := p.Session()

	for _, asset := range session.Assets {
		for _, stage := range session.Stages {
			xs, ys, err := Generate(rng, p.NPoints, p.XMin, p.XMax, p.YDeviation, p.Copies)
			if err != nil {
				return "", err
			}
			xKey := store.SeriesKey(session.UUID, session.Plot, asset, session.XName, stage)
			yKey := store.SeriesKey(session.UUID, session.Plot, asset, session.YName, stage)
			if err := st.Delete(ctx, xKey, yKey); err != nil {
				return "", fmt.Errorf("failed to clear series of %s: %w", asset, err)
			}
			if err := pushFloats(ctx, st, xKey, xs); err != nil {
				return "", err
			}
			if err := pushFloats(ctx, st, yKey, ys); err != nil {
				return "", err
			}
		}
	}

	values := make(map[string]string, 2*len(p.Points))
	for name, pt := range p.Points {
		values[store.MarkerKey(session.UUID, name, models.AxisX)] = store.FormatFloat(pt.X)
		values[store.MarkerKey(session.UUID, name, models.AxisY)] = store.FormatFloat(pt.Y)
	}
	if err := st.SetMany(ctx, values); err != nil {
		return "", fmt.Errorf("failed to save markers: %w", err)
	}

	return URL(p.BaseURL, session), nil
}

// Session returns the session descriptor the parameters describe.
func (p Params) Session() *models.Session {
	s := &models.Session{
		UUID:   p.UUID,
		Plot:   p.Plot,
		Assets: p.Assets,
		XName:  p.XName,
		YName:  p.YName,
		Stages: p.Stages,
		Groups: make(map[string][]string, len(p.Groups)),
	}
	for i, group := range p.Groups {
		name := fmt.Sprintf("points_%d", i)
		s.GroupNames = append(s.GroupNames, name)
		s.Groups[name] = group
		s.PointNames = append(s.PointNames, group...)
	}
	return s
}

// URL encodes a session on top of base in the layout the page expects.
// Lists keep their commas unescaped.
func URL(base string, s *models.Session) string {
	var b strings.Builder
	b.WriteString(base)
	b.WriteByte('?')

	sep := ""
	add := func(name string, values ...string) {
		escaped := make([]string, len(values))
		for i, v := range values {
			escaped[i] = url.QueryEscape(v)
		}
		b.WriteString(sep + url.QueryEscape(name) + "=" + strings.Join(escaped, ","))
		sep = "&"
	}

	add(locator.ParamUUID, s.UUID)
	add(locator.ParamPlot, s.Plot)
	add(locator.ParamAssets, s.Assets...)
	add(locator.ParamXName, s.XName)
	add(locator.ParamYName, s.YName)
	for _, name := range s.GroupNames {
		add(name, s.Group(name)...)
	}
	add(locator.ParamStages, s.Stages...)
	add(locator.ParamPointGroupNames, s.GroupNames...)
	return b.String()
}

func pushFloats(ctx context.Context, st store.Store, key string, values []float64) error {
	items := make([]string, len(values))
	for i, v := range values {
		items[i] = store.FormatFloat(v)
	}
	if len(items) == 0 {
		return nil
	}
	if err := st.Push(ctx, key, items...); err != nil {
		return fmt.Errorf("failed to push %s: %w", key, err)
	}
	return nil
}
