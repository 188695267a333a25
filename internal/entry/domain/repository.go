package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type ListFilter struct {
	QueueID  snowflake.ID
	UserID   snowflake.ID
	Statuses []Status
}

type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FindByID(ctx context.Context, id snowflake.ID) (*Entry, error)
	List(ctx context.Context, filter ListFilter) ([]Entry, error)
	FindScheduled(ctx context.Context, queueID, userID snowflake.ID, at time.Time) (*Entry, error)
	CountWaiting(ctx context.Context, queueID snowflake.ID) (int64, error)
	Create(ctx context.Context, entry *Entry) error
	Save(ctx context.Context, entry *Entry) error
	Delete(ctx context.Context, id snowflake.ID) error
}
