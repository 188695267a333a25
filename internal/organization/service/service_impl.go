package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gosimple/slug"
	"github.com/qline-io/qline/internal/organization/domain"
	"github.com/qline-io/qline/pkg/db"
	"go.uber.org/zap"
)

type service struct {
	log   *zap.Logger
	genID *snowflake.Node
	repo  domain.Repository
}

func NewService(log *zap.Logger, genID *snowflake.Node, repo domain.Repository) domain.Service {
	return &service{
		log:   log.Named("organization.service"),
		genID: genID,
		repo:  repo,
	}
}

func (s *service) Create(ctx context.Context, actorID snowflake.ID, name string) (*domain.Organization, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domain.ErrInvalidName
	}

	now := time.Now().UTC()
	org := domain.Organization{
		ID:        s.genID.Generate(),
		Name:      name,
		Slug:      slug.Make(name),
		OwnerID:   actorID,
		CreatedAt: now,
		UpdatedAt: now,
	}

	err := s.repo.Create(ctx, &org)
	if db.IsDuplicateKeyErr(err) {
		return nil, domain.ErrNameTaken
	}
	if err != nil {
		return nil, err
	}

	return &org, nil
}

func (s *service) Get(ctx context.Context, id snowflake.ID) (*domain.Organization, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *service) List(ctx context.Context) ([]domain.Organization, error) {
	return s.repo.List(ctx)
}

func (s *service) Delete(ctx context.Context, actorID, id snowflake.ID) error {
	org, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if org.OwnerID != actorID {
		return domain.ErrForbidden
	}
	return s.repo.Delete(ctx, id)
}
