package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
)

type Repository interface {
	FindByID(ctx context.Context, id snowflake.ID) (*Organization, error)
	List(ctx context.Context) ([]Organization, error)
	Create(ctx context.Context, org *Organization) error
	Delete(ctx context.Context, id snowflake.ID) error
}
