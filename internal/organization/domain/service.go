package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
)

type Service interface {
	Create(ctx context.Context, actorID snowflake.ID, name string) (*Organization, error)
	Get(ctx context.Context, id snowflake.ID) (*Organization, error)
	List(ctx context.Context) ([]Organization, error)
	Delete(ctx context.Context, actorID, id snowflake.ID) error
}
