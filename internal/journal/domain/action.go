package domain

import (
	entrydomain "github.com/qline-io/qline/internal/entry/domain"
)

// Action is the tagged event kind of a journal record.
type Action string

const (
	ActionJoined           Action = "joined"
	ActionLeft             Action = "left"
	ActionRemoved          Action = "removed"
	ActionAdminRemoved     Action = "admin_removed"
	ActionStatusChanged    Action = "status_changed"
	ActionStartedServing   Action = "started_serving"
	ActionCompletedService Action = "completed_service"
	ActionUserCanceled     Action = "user_canceled"
	ActionAdminCanceled    Action = "admin_canceled"
	ActionNoShow           Action = "no_show"
	ActionMarkedLate       Action = "marked_late"
	ActionAdminAdded       Action = "admin_added"
)

// DeriveAction maps a status transition to its semantic action tag.
func DeriveAction(prev, next entrydomain.Status, isAdmin, isOwner bool) Action {
	switch {
	case prev == entrydomain.StatusWaiting && next == entrydomain.StatusServing:
		return ActionStartedServing
	case prev == entrydomain.StatusServing && next == entrydomain.StatusCompleted:
		return ActionCompletedService
	case next == entrydomain.StatusCanceled:
		if isOwner {
			return ActionUserCanceled
		}
		return ActionAdminCanceled
	case next == entrydomain.StatusNoShow:
		return ActionNoShow
	case next == entrydomain.StatusLate:
		return ActionMarkedLate
	default:
		return ActionStatusChanged
	}
}

// DeriveRemovalAction maps an entry deletion to its action tag. An owner
// removing their own entry journals as a plain removal even when they also
// hold an admin grant.
func DeriveRemovalAction(isOwner bool) Action {
	if isOwner {
		return ActionRemoved
	}
	return ActionAdminRemoved
}

// DeriveCreationAction tags entry creation; an admin joining someone else
// to the queue journals as an admin addition.
func DeriveCreationAction(isOwner bool) Action {
	if isOwner {
		return ActionJoined
	}
	return ActionAdminAdded
}
