package services

import "corpbank-portal-api/models"

// transitionTable is the single source of truth for legal status changes.
// Rejected and Paid have no outbound edges. A status is never a successor of
// itself; requesting the current status again is rejected, not treated as a
// no-op.
var transitionTable = map[models.Status][]models.Status{
	models.StatusDraft:        {models.StatusSubmit},
	models.StatusSubmit:       {models.StatusNeedMoreInfo, models.StatusReturn, models.StatusRejected, models.StatusCompleted},
	models.StatusNeedMoreInfo: {models.StatusSubmit, models.StatusReturn},
	models.StatusReturn:       {models.StatusSubmit},
	models.StatusCompleted:    {models.StatusPaid},
	models.StatusRejected:     {},
	models.StatusPaid:         {},
}

// CanTransition reports whether moving from one status to another is legal.
func CanTransition(from, to models.Status) bool {
	for _, next := range transitionTable[from] {
		if next == to {
			return true
		}
	}
	return false
}

// SuccessorsOf returns the legal target statuses from the given status. The
// returned slice is a copy; callers may modify it freely.
func SuccessorsOf(from models.Status) []models.Status {
	next := transitionTable[from]
	out := make([]models.Status, len(next))
	copy(out, next)
	return out
}

// Terminal reports whether the status has no outbound transitions.
func Terminal(status models.Status) bool {
	return status.Valid() && len(transitionTable[status]) == 0
}
