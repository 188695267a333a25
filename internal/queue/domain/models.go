// Package domain contains core types for the queue service.
package domain

import (
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
)

// Type distinguishes scheduled-slot queues from FIFO ones. Fixed at creation.
type Type string

const (
	TypeOrganizational Type = "organizational"
	TypeSelfOrganized  Type = "self_organized"
)

func ParseType(raw string) (Type, bool) {
	switch Type(raw) {
	case TypeOrganizational, TypeSelfOrganized:
		return Type(raw), true
	default:
		return "", false
	}
}

type Visibility string

const (
	VisibilityPublic  Visibility = "public"
	VisibilityPrivate Visibility = "private"
)

func ParseVisibility(raw string) (Visibility, bool) {
	switch Visibility(raw) {
	case VisibilityPublic, VisibilityPrivate:
		return Visibility(raw), true
	default:
		return "", false
	}
}

// Queue is a managed service line. Organizational queues belong to an
// organization; self-organized queues never do. Private queues carry a
// unique access token. SequentialCounterSelf is the high-water mark of
// sequential numbers ever issued; it survives entry deletion and only
// moves forward.
type Queue struct {
	ID                    snowflake.ID  `gorm:"primaryKey" json:"id"`
	OrganizationID        *snowflake.ID `gorm:"index;uniqueIndex:ux_queues_org_name,priority:1" json:"organization_id,omitempty"`
	OwnerID               snowflake.ID  `gorm:"not null;index" json:"owner_id"`
	Name                  string        `gorm:"type:text;not null;uniqueIndex:ux_queues_org_name,priority:2" json:"name"`
	Type                  Type          `gorm:"type:text;not null" json:"type"`
	Visibility            Visibility    `gorm:"type:text;not null" json:"visibility"`
	AccessToken           *string       `gorm:"type:text;uniqueIndex" json:"-"`
	SequentialCounterSelf int           `gorm:"not null;default:0" json:"-"`
	CreatedAt             time.Time     `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt             time.Time     `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Queue) TableName() string { return "queues" }

// Administrator grants a user elevated rights over one queue. The
// (queue, user) pair is the identity; there is no further lifecycle.
type Administrator struct {
	ID        snowflake.ID `gorm:"primaryKey" json:"id"`
	QueueID   snowflake.ID `gorm:"not null;index;uniqueIndex:ux_queue_admin,priority:1" json:"queue_id"`
	UserID    snowflake.ID `gorm:"not null;index;uniqueIndex:ux_queue_admin,priority:2" json:"user_id"`
	CreatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName sets the database table name.
func (Administrator) TableName() string { return "queue_administrators" }

var (
	ErrNotFound           = errors.New("queue_not_found")
	ErrNameTaken          = errors.New("queue_name_taken")
	ErrForbidden          = errors.New("queue_forbidden")
	ErrInvalidName        = errors.New("invalid_queue_name")
	ErrInvalidType        = errors.New("invalid_queue_type")
	ErrInvalidVisibility  = errors.New("invalid_queue_visibility")
	ErrOrganizationNeeded = errors.New("queue_organization_required")
	ErrAdminExists        = errors.New("queue_admin_exists")
	ErrAdminNotFound      = errors.New("queue_admin_not_found")
)
