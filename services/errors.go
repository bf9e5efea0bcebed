package services

import (
	"errors"
	"fmt"

	"corpbank-portal-api/models"
)

// Workflow error taxonomy. Callers branch on these with errors.Is, so every
// rejection keeps its category even when wrapped with context.
var (
	// ErrApplicationNotFound means the referenced application does not exist
	// or was soft-deleted.
	ErrApplicationNotFound = errors.New("application not found")

	// ErrProfileNotFound means the referenced actor or manager profile does
	// not exist or is inactive.
	ErrProfileNotFound = errors.New("profile not found")

	// ErrInvalidTransition means the requested status change is not in the
	// legal transition table.
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrPermissionDenied means the actor's role or ownership does not
	// authorize the requested action.
	ErrPermissionDenied = errors.New("permission denied")

	// ErrApplicationConflict means the compare-and-swap update lost a race
	// against a concurrent transition; the caller should reload and retry.
	ErrApplicationConflict = errors.New("application was modified concurrently")

	// ErrValidation means the input was malformed before any state was read
	// or written.
	ErrValidation = errors.New("validation failed")
)

// invalidTransitionError builds the user-visible rejection for an illegal
// status change, e.g. "cannot move from Paid to Draft".
func invalidTransitionError(from, to models.Status) error {
	return fmt.Errorf("%w: cannot move from %s to %s", ErrInvalidTransition, from.Label(), to.Label())
}
