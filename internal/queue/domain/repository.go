package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FindByID(ctx context.Context, id snowflake.ID) (*Queue, error)
	List(ctx context.Context, organizationID *snowflake.ID) ([]Queue, error)
	Create(ctx context.Context, queue *Queue) error
	Delete(ctx context.Context, id snowflake.ID) error
	// NextSequential advances the queue's issued-number counter and
	// returns the new value. Run it inside the entry-creation
	// transaction; the counter never moves backwards.
	NextSequential(ctx context.Context, queueID snowflake.ID) (int, error)

	AddAdministrator(ctx context.Context, grant *Administrator) error
	RemoveAdministrator(ctx context.Context, queueID, userID snowflake.ID) error
	IsAdministrator(ctx context.Context, queueID, userID snowflake.ID) (bool, error)
	ListAdministrators(ctx context.Context, queueID snowflake.ID) ([]Administrator, error)
}
