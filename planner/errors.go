package planner

import (
	"errors"
	"fmt"

	"github.com/pdrpinto/astarnav"
	"github.com/pdrpinto/astarnav/cost"
)

// Sentinel errors for planning outcomes.
// These errors can be used with errors.Is() for error checking.
var (
	// ErrNoPath indicates the goal cannot be reached on the current map. The map
	// may still be incomplete, so callers may retry after more sensing.
	ErrNoPath = astarnav.ErrNoPath

	// ErrInvalidPosition indicates the start or goal is outside the grid or on a
	// blocked cell. Retrying with the same input will not help.
	ErrInvalidPosition = errors.New("invalid position")

	// ErrInvalidModel indicates the cost model configuration was rejected.
	ErrInvalidModel = cost.ErrInvalidModel

	// ErrExpansionLimit indicates the search was cut off by the expansion cap.
	ErrExpansionLimit = astarnav.ErrExpansionLimit
)

// Error kinds categorize planning errors.
const (
	KindValidation = "validation"
	KindNoPath     = "no_path"
	KindLimit      = "limit"
	KindCanceled   = "canceled"
)

// Error wraps a planning failure with the operation and its category.
//
// Error supports unwrapping, so errors.Is(err, ErrNoPath) works on a *Error.
type Error struct {
	// Op is the operation that failed (e.g. "Planner.Plan").
	Op string

	// Kind categorizes the error (e.g. KindNoPath).
	Kind string

	// Err is the underlying error.
	Err error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Op, e.Kind)
	}
	return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// KindOf returns the Kind of the first *Error in err's chain, or "" if none.
func KindOf(err error) string {
	var pe *Error
	if errors.As(err, &pe) {
		return pe.Kind
	}
	return ""
}
