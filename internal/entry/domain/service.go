package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
)

type Service interface {
	Create(ctx context.Context, actorID snowflake.ID, req CreateRequest) (*Entry, error)
	FindOne(ctx context.Context, id snowflake.ID) (*Entry, error)
	List(ctx context.Context, filter ListFilter) ([]Entry, error)
	Update(ctx context.Context, actorID, id snowflake.ID, patch UpdateRequest) (*Entry, error)
	UpdateStatus(ctx context.Context, actorID, id snowflake.ID, status Status, comment string) (*Entry, error)
	Remove(ctx context.Context, actorID, id snowflake.ID) error
	Position(ctx context.Context, queueID, entryID snowflake.ID) (int, error)
	NextInQueue(ctx context.Context, queueID snowflake.ID) (*Entry, error)
}

// CreateRequest carries the queue-type dependent fields of a join request.
// Date and Time use the wire layouts "2006-01-02" and "15:04".
type CreateRequest struct {
	QueueID              snowflake.ID
	UserID               snowflake.ID // who the entry is for; zero means the actor
	Date                 string
	Time                 string
	NotificationMinutes  *int
	NotificationPosition *int
}

// UpdateRequest patches notification preferences only; status changes go
// through UpdateStatus.
type UpdateRequest struct {
	NotificationMinutes  *int
	NotificationPosition *int
}
