// Package export writes a session's markers and sensor series to an xlsx workbook.
package export

import (
	"context"
	"errors"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/jungleai/curveclean-go/pkg/curveclean/models"
	"github.com/jungleai/curveclean-go/pkg/curveclean/store"
)

// Sheet names.
const (
	SheetMarkers = "Markers"
	SheetSeries  = "Series"
)

var (
	markerHeader = []any{"group", "marker", "x", "y"}
	seriesHeader = []any{"asset", "stage", "x", "y"}
)

// Workbook builds a workbook with one row per marker and one row per
// sensor sample. Coordinates never saved are left blank.
func Workbook(ctx context.Context, st store.Store, s *models.Session) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName(f.GetSheetName(0), SheetMarkers); err != nil {
		f.Close()
		return nil, err
	}
	if _, err := f.NewSheet(SheetSeries); err != nil {
		f.Close()
		return nil, err
	}

	if err := writeMarkers(ctx, f, st, s); err != nil {
		f.Close()
		return nil, err
	}
	if err := writeSeries(ctx, f, st, s); err != nil {
		f.Close()
		return nil, err
	}
	return f, nil
}

func writeMarkers(ctx context.Context, f *excelize.File, st store.Store, s *models.Session) error {
	w := &sheetWriter{f: f, sheet: SheetMarkers}
	w.row(markerHeader...)
	for _, group := range s.GroupNames {
		for _, name := range s.Group(group) {
			x, err := coordinate(ctx, st, s.UUID, name, models.AxisX)
			if err != nil {
				return err
			}
			y, err := coordinate(ctx, st, s.UUID, name, models.AxisY)
			if err != nil {
				return err
			}
			w.row(group, name, x, y)
		}
	}
	return w.err
}

func writeSeries(ctx context.Context, f *excelize.File, st store.Store, s *models.Session) error {
	w := &sheetWriter{f: f, sheet: SheetSeries}
	w.row(seriesHeader...)
	for _, asset := range s.Assets {
		for _, stage := range s.Stages {
			xs, err := store.FloatList(ctx, st, store.SeriesKey(s.UUID, s.Plot, asset, s.XName, stage))
			if err != nil {
				return err
			}
			ys, err := store.FloatList(ctx, st, store.SeriesKey(s.UUID, s.Plot, asset, s.YName, stage))
			if err != nil {
				return err
			}
			for i := range max(len(xs), len(ys)) {
				w.row(asset, stage, at(xs, i), at(ys, i))
			}
		}
	}
	return w.err
}

// coordinate returns the saved value, or nil when it was never saved.
func coordinate(ctx context.Context, st store.Store, uuid, name string, axis models.Axis) (any, error) {
	v, err := store.GetFloat(ctx, st, store.MarkerKey(uuid, name, axis))
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return v, nil
}

func at(values []float64, i int) any {
	if i < len(values) {
		return values[i]
	}
	return nil
}

// sheetWriter appends rows and keeps the first error.
type sheetWriter struct {
	f     *excelize.File
	sheet string
	next  int
	err   error
}

func (w *sheetWriter) row(values ...any) {
	if w.err != nil {
		return
	}
	w.next++
	cell, err := excelize.CoordinatesToCellName(1, w.next)
	if err != nil {
		w.err = err
		return
	}
	if err := w.f.SetSheetRow(w.sheet, cell, &values); err != nil {
		w.err = fmt.Errorf("failed to write %s row %d: %w", w.sheet, w.next, err)
	}
}
