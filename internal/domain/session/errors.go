package session

import (
	"errors"
	"fmt"
)

// Sentinel error kinds for this package. Callers match with errors.Is.
var (
	// ErrUnknownInspector marks a selection of an inspector not in the catalog.
	ErrUnknownInspector = errors.New("unknown inspector")

	// ErrInactiveInspector marks a selection of a deactivated inspector.
	ErrInactiveInspector = errors.New("inspector is inactive")

	// ErrUnknownCategory marks a selection outside the risk category enum.
	ErrUnknownCategory = errors.New("unknown category")

	// ErrNoCategory marks a zone selection made before a category was chosen.
	ErrNoCategory = errors.New("no category selected")

	// ErrUnknownZone marks a selection of a zone not in the catalog.
	ErrUnknownZone = errors.New("unknown zone")

	// ErrZoneCategoryMismatch marks a zone that does not belong to the
	// selected category.
	ErrZoneCategoryMismatch = errors.New("zone category mismatch")

	// ErrNotReady marks a start attempt before inspector, category and zone
	// are all selected.
	ErrNotReady = errors.New("session is not ready to start")

	// ErrNotFilling marks a checklist operation outside the filling state.
	ErrNotFilling = errors.New("no inspection in progress")

	// ErrUnknownItem marks an operation on an item not in the running checklist.
	ErrUnknownItem = errors.New("unknown checklist item")

	// ErrScoreOutOfRange marks a score outside 0..MaxScore of its item.
	ErrScoreOutOfRange = errors.New("score out of range")

	// ErrUnknownObservation marks a tag the item does not offer.
	ErrUnknownObservation = errors.New("observation not offered for item")
)

// IncompleteError rejects a submit while items remain unscored. It carries
// the count so callers can surface it.
type IncompleteError struct {
	Remaining int
}

func (e *IncompleteError) Error() string {
	return fmt.Sprintf("inspection incomplete: %d item(s) unscored", e.Remaining)
}
