package figure

import "errors"

// ErrInvalidFigure indicates the raw chart object lacks a required field.
var ErrInvalidFigure = errors.New("invalid figure")

// ErrTooManyStages indicates more stages than series colors.
var ErrTooManyStages = errors.New("more stages than palette colors")

// ErrTooManyGroups indicates more marker groups than guide-line colors.
var ErrTooManyGroups = errors.New("more marker groups than guide-line colors")

// ErrGuideLineNotFound indicates a marker group has no guide-line series to refresh.
var ErrGuideLineNotFound = errors.New("guide line not found")

// ErrMarkerCountMismatch indicates the figure holds a different number of
// markers than the session names.
var ErrMarkerCountMismatch = errors.New("marker count mismatch")
