package curveclean

import (
	"errors"
	"fmt"

	"github.com/jungleai/curveclean-go/pkg/curveclean/figure"
	"github.com/jungleai/curveclean-go/pkg/curveclean/locator"
)

// Pipeline steps named in a ReconcileError.
const (
	StepLocate         = "locate"
	StepRehydrate      = "rehydrate"
	StepPopulateData   = "populate_data"
	StepPopulatePoints = "populate_points"
	StepPopulateLines  = "populate_lines"
	StepUpdatePoints   = "update_points"
	StepUpdateLines    = "update_lines"
	StepSavePoints     = "save_points"
	StepSerialize      = "serialize"
)

// ReconcileError represents a failed reconciliation pass.
type ReconcileError struct {
	Session string
	Step    string
	Err     error
}

func (e *ReconcileError) Error() string {
	if e.Session == "" {
		return fmt.Sprintf("reconcile error (%s): %v", e.Step, e.Err)
	}
	return fmt.Sprintf("reconcile error in session %q (%s): %v", e.Session, e.Step, e.Err)
}

func (e *ReconcileError) Unwrap() error {
	return e.Err
}

// NewReconcileError creates a new ReconcileError.
func NewReconcileError(session, step string, err error) *ReconcileError {
	return &ReconcileError{
		Session: session,
		Step:    step,
		Err:     err,
	}
}

// IsBadRequest reports whether err was caused by the request itself: a
// malformed URL or chart object, rather than the store or configuration.
func IsBadRequest(err error) bool {
	return errors.Is(err, locator.ErrMissingParam) ||
		errors.Is(err, locator.ErrInvalidURL) ||
		errors.Is(err, figure.ErrInvalidFigure)
}
