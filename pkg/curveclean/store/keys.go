package store

import (
	"strings"

	"github.com/jungleai/curveclean-go/pkg/curveclean/models"
)

// SeriesKey returns the list key holding one axis of one asset at one stage:
// {uuid}:{plot}:{asset}:{axis_name}:{stage}.
func SeriesKey(uuid, plot, asset, axisName, stage string) string {
	return strings.Join([]string{uuid, plot, asset, axisName, stage}, ":")
}

// MarkerKey returns the scalar key of one marker coordinate:
// {uuid}:{marker}.x or {uuid}:{marker}.y.
func MarkerKey(uuid, marker string, axis models.Axis) string {
	return uuid + ":" + marker + "." + string(axis)
}
