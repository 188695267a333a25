// Package domain contains core types for the journal service.
package domain

import (
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	entrydomain "github.com/qline-io/qline/internal/entry/domain"
)

// Record is one append-only audit row for an entry lifecycle event.
// Records are never updated or deleted after creation; they outlive the
// transaction that produced them and are only removed by cascading entry
// deletion at the storage layer.
type Record struct {
	ID          snowflake.ID `gorm:"primaryKey" json:"id"`
	EntryID     snowflake.ID `gorm:"not null;index" json:"entry_id"`
	Action      Action       `gorm:"type:text;not null" json:"action"`
	PrevStatus  *Status      `gorm:"type:text" json:"prev_status,omitempty"`
	NewStatus   *Status      `gorm:"type:text" json:"new_status,omitempty"`
	InitiatedBy snowflake.ID `gorm:"not null;index" json:"initiated_by"`
	Comment     string       `gorm:"type:text" json:"comment,omitempty"`
	CreatedAt   time.Time    `gorm:"not null;index" json:"created_at"`
}

// TableName sets the database table name.
func (Record) TableName() string { return "journal_records" }

// Status is the journal status vocabulary: the entry statuses plus
// "removed", which only appears on deletion events.
type Status string

const StatusRemoved Status = "removed"

// FromEntryStatus re-expresses an entry status in journal vocabulary.
func FromEntryStatus(s entrydomain.Status) Status {
	return Status(s)
}

var ErrInvalidAction = errors.New("invalid_action")
