package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
)

type Service interface {
	Create(ctx context.Context, actorID snowflake.ID, req CreateRequest) (*Queue, error)
	Get(ctx context.Context, actorID, id snowflake.ID, accessToken string) (*Queue, error)
	List(ctx context.Context, organizationID *snowflake.ID) ([]Queue, error)
	Delete(ctx context.Context, actorID, id snowflake.ID) error

	AddAdministrator(ctx context.Context, actorID, queueID, userID snowflake.ID) (*Administrator, error)
	RemoveAdministrator(ctx context.Context, actorID, queueID, userID snowflake.ID) error
	IsAdministrator(ctx context.Context, queueID, userID snowflake.ID) (bool, error)
	ListAdministrators(ctx context.Context, actorID, queueID snowflake.ID) ([]Administrator, error)
}

type CreateRequest struct {
	Name           string
	Type           string
	Visibility     string
	OrganizationID *snowflake.ID
}
