// Package domain contains core types for the entry service.
package domain

import (
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
)

// Status is the lifecycle state of a queue entry.
type Status string

const (
	StatusWaiting   Status = "waiting"
	StatusServing   Status = "serving"
	StatusCompleted Status = "completed"
	StatusCanceled  Status = "canceled"
	StatusNoShow    Status = "no_show"
	StatusLate      Status = "late"
)

// ParseStatus validates a wire status value.
func ParseStatus(raw string) (Status, bool) {
	switch Status(raw) {
	case StatusWaiting, StatusServing, StatusCompleted, StatusCanceled, StatusNoShow, StatusLate:
		return Status(raw), true
	default:
		return "", false
	}
}

// Entry represents one user's claim on a queue.
//
// Exactly one of the two value families applies, determined by the owning
// queue's type: EntryTimeOrg for organizational queues, the positional
// fields for self-organized queues.
type Entry struct {
	ID              snowflake.ID `gorm:"primaryKey" json:"id"`
	QueueID         snowflake.ID `gorm:"not null;index;uniqueIndex:ux_entries_slot,priority:1" json:"queue_id"`
	UserID          snowflake.ID `gorm:"not null;index;uniqueIndex:ux_entries_slot,priority:2" json:"user_id"`
	Status          Status       `gorm:"type:text;not null;index" json:"status"`
	CreatedAt       time.Time    `gorm:"not null;index" json:"created_at"`
	StatusUpdatedAt time.Time    `gorm:"not null" json:"status_updated_at"`

	EntryTimeOrg *time.Time `gorm:"uniqueIndex:ux_entries_slot,priority:3" json:"entry_time_org,omitempty"`

	EntryPositionSelf    *int `json:"entry_position_self,omitempty"`
	SequentialNumberSelf *int `json:"sequential_number_self,omitempty"`

	NotificationMinutes  *int `json:"notification_minutes,omitempty"`
	NotificationPosition *int `json:"notification_position,omitempty"`
}

// TableName sets the database table name.
func (Entry) TableName() string { return "entries" }

var (
	ErrNotFound          = errors.New("entry_not_found")
	ErrForbidden         = errors.New("entry_forbidden")
	ErrInvalidTransition = errors.New("invalid_transition")
	ErrInvalidStatus     = errors.New("invalid_status")
	ErrDuplicateEntry    = errors.New("duplicate_entry")
	ErrDateTimeRequired  = errors.New("entry_datetime_required")
	ErrInvalidDateTime   = errors.New("entry_datetime_invalid")
	ErrFieldNotAllowed   = errors.New("entry_field_not_allowed")
)
