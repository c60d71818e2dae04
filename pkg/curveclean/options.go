// Package curveclean reconciles a power-curve cleaning chart with the shared
// store on every UI event.
package curveclean

import "github.com/jungleai/curveclean-go/pkg/curveclean/figure"

// Mode represents the reconciliation output mode.
type Mode string

const (
	// ModeStandard returns only the reconciled chart object.
	ModeStandard Mode = "standard"
	// ModeVerbose also returns the interaction delta and a pretty-printed chart for on-page diagnostics.
	ModeVerbose Mode = "verbose"
)

// Options configures reconciliation behavior.
type Options struct {
	// Mode specifies the output mode (standard, verbose).
	Mode Mode
	// Geometry is the plot size used to scale markers.
	Geometry figure.Geometry
	// IncludeDiagnostics overrides whether diagnostics are returned.
	// If nil, defaults to true for verbose mode, false otherwise.
	IncludeDiagnostics *bool
}

// DefaultOptions returns default reconciliation options.
func DefaultOptions() Options {
	return Options{
		Mode:     ModeStandard,
		Geometry: figure.DefaultGeometry(),
	}
}

// ShouldIncludeDiagnostics returns whether diagnostics are returned.
func (o Options) ShouldIncludeDiagnostics() bool {
	if o.IncludeDiagnostics != nil {
		return *o.IncludeDiagnostics
	}
	return o.Mode == ModeVerbose
}

// ParseMode converts a mode name to a Mode.
func ParseMode(s string) (Mode, bool) {
	switch Mode(s) {
	case ModeStandard, ModeVerbose:
		return Mode(s), true
	}
	return "", false
}
