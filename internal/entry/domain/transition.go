package domain

import "time"

// AttemptTransition validates and applies a status change in place.
//
// A request for the current status is a no-op and succeeds without touching
// the entry. For every listed (from, to) edge the actor's authority is
// checked first; only then does the WAITING branch fall through to the
// catch-all reachability check. Completed, canceled, no_show and late are
// terminal for all actors.
func AttemptTransition(e *Entry, requested Status, isQueueAdmin, isEntryOwner bool, now time.Time) error {
	if requested == e.Status {
		return nil
	}

	switch e.Status {
	case StatusWaiting:
		switch requested {
		case StatusServing, StatusNoShow, StatusLate:
			if !isQueueAdmin {
				return ErrForbidden
			}
		case StatusCanceled:
			if !isQueueAdmin && !isEntryOwner {
				return ErrForbidden
			}
		default:
			return ErrInvalidTransition
		}
	case StatusServing:
		switch requested {
		case StatusCompleted, StatusCanceled, StatusNoShow:
			if !isQueueAdmin {
				return ErrForbidden
			}
		default:
			return ErrInvalidTransition
		}
	default:
		return ErrInvalidTransition
	}

	e.Status = requested
	e.StatusUpdatedAt = now.UTC()
	return nil
}
