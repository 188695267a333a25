package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

// RecordRequest describes one lifecycle event to append.
type RecordRequest struct {
	EntryID     snowflake.ID
	InitiatedBy snowflake.ID
	Action      Action
	PrevStatus  *Status
	NewStatus   *Status
	Comment     string
}

type Service interface {
	// Record appends one audit row. It only fails when storage is
	// unavailable, which callers surface as fatal.
	Record(ctx context.Context, req RecordRequest) (*Record, error)
	WithTx(tx *gorm.DB) Service
	ListByEntry(ctx context.Context, entryID snowflake.ID) ([]Record, error)
}

type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Insert(ctx context.Context, record *Record) error
	ListByEntry(ctx context.Context, entryID snowflake.ID) ([]Record, error)
	DeleteByEntry(ctx context.Context, entryID snowflake.ID) error
}
