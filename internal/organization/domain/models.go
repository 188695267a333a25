// Package domain contains core types for the organization service.
package domain

import (
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
)

// Organization groups the organizational queues of one tenant.
type Organization struct {
	ID        snowflake.ID `gorm:"primaryKey" json:"id"`
	Name      string       `gorm:"type:text;not null;uniqueIndex:ux_organizations_name" json:"name"`
	Slug      string       `gorm:"type:text;not null;uniqueIndex:ux_organizations_slug" json:"slug"`
	OwnerID   snowflake.ID `gorm:"not null;index" json:"owner_id"`
	CreatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Organization) TableName() string { return "organizations" }

var (
	ErrNotFound    = errors.New("organization_not_found")
	ErrNameTaken   = errors.New("organization_name_taken")
	ErrInvalidName = errors.New("invalid_organization_name")
	ErrForbidden   = errors.New("organization_forbidden")
)
