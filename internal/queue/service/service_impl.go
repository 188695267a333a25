package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/google/uuid"
	entrydomain "github.com/qline-io/qline/internal/entry/domain"
	journaldomain "github.com/qline-io/qline/internal/journal/domain"
	"github.com/qline-io/qline/internal/queue/domain"
	"github.com/qline-io/qline/pkg/db"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type service struct {
	db      *gorm.DB
	log     *zap.Logger
	genID   *snowflake.Node
	repo    domain.Repository
	entries entrydomain.Repository
	journal journaldomain.Repository
}

func NewService(
	conn *gorm.DB,
	log *zap.Logger,
	genID *snowflake.Node,
	repo domain.Repository,
	entries entrydomain.Repository,
	journal journaldomain.Repository,
) domain.Service {
	return &service{
		db:      conn,
		log:     log.Named("queue.service"),
		genID:   genID,
		repo:    repo,
		entries: entries,
		journal: journal,
	}
}

func (s *service) Create(ctx context.Context, actorID snowflake.ID, req domain.CreateRequest) (*domain.Queue, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, domain.ErrInvalidName
	}

	queueType, ok := domain.ParseType(strings.TrimSpace(req.Type))
	if !ok {
		return nil, domain.ErrInvalidType
	}

	rawVisibility := strings.TrimSpace(req.Visibility)
	if rawVisibility == "" {
		rawVisibility = string(domain.VisibilityPublic)
	}
	visibility, ok := domain.ParseVisibility(rawVisibility)
	if !ok {
		return nil, domain.ErrInvalidVisibility
	}

	if queueType == domain.TypeOrganizational && req.OrganizationID == nil {
		return nil, domain.ErrOrganizationNeeded
	}

	now := time.Now().UTC()
	queue := domain.Queue{
		ID:         s.genID.Generate(),
		OwnerID:    actorID,
		Name:       name,
		Type:       queueType,
		Visibility: visibility,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if queueType == domain.TypeOrganizational {
		queue.OrganizationID = req.OrganizationID
	}
	if visibility == domain.VisibilityPrivate {
		token := uuid.NewString()
		queue.AccessToken = &token
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if err := repo.Create(ctx, &queue); err != nil {
			return err
		}

		// The creator holds an implicit admin grant from day one.
		grant := domain.Administrator{
			ID:        s.genID.Generate(),
			QueueID:   queue.ID,
			UserID:    actorID,
			CreatedAt: now,
		}
		return repo.AddAdministrator(ctx, &grant)
	})
	if db.IsDuplicateKeyErr(err) {
		return nil, domain.ErrNameTaken
	}
	if err != nil {
		return nil, err
	}

	return &queue, nil
}

func (s *service) Get(ctx context.Context, actorID, id snowflake.ID, accessToken string) (*domain.Queue, error) {
	queue, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if queue.Visibility == domain.VisibilityPrivate {
		allowed := queue.OwnerID == actorID
		if !allowed {
			allowed, err = s.repo.IsAdministrator(ctx, id, actorID)
			if err != nil {
				return nil, err
			}
		}
		if !allowed {
			token := strings.TrimSpace(accessToken)
			if token == "" || queue.AccessToken == nil || token != *queue.AccessToken {
				return nil, domain.ErrForbidden
			}
		}
	}

	return queue, nil
}

func (s *service) List(ctx context.Context, organizationID *snowflake.ID) ([]domain.Queue, error) {
	return s.repo.List(ctx, organizationID)
}

// Delete removes the queue with its entries, their journal rows and all
// admin grants in one transaction. The queue owns its entries; this is the
// only cascading deletion in the system.
func (s *service) Delete(ctx context.Context, actorID, id snowflake.ID) error {
	queue, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if queue.OwnerID != actorID {
		isAdmin, err := s.repo.IsAdministrator(ctx, id, actorID)
		if err != nil {
			return err
		}
		if !isAdmin {
			return domain.ErrForbidden
		}
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		entryRepo := s.entries.WithTx(tx)
		journalRepo := s.journal.WithTx(tx)

		entries, err := entryRepo.List(ctx, entrydomain.ListFilter{QueueID: id})
		if err != nil {
			return err
		}
		for _, entry := range entries {
			if err := journalRepo.DeleteByEntry(ctx, entry.ID); err != nil {
				return err
			}
			if err := entryRepo.Delete(ctx, entry.ID); err != nil {
				return err
			}
		}

		grants, err := s.repo.WithTx(tx).ListAdministrators(ctx, id)
		if err != nil {
			return err
		}
		for _, grant := range grants {
			if err := s.repo.WithTx(tx).RemoveAdministrator(ctx, id, grant.UserID); err != nil {
				return err
			}
		}

		return s.repo.WithTx(tx).Delete(ctx, id)
	})
}

func (s *service) AddAdministrator(ctx context.Context, actorID, queueID, userID snowflake.ID) (*domain.Administrator, error) {
	queue, err := s.repo.FindByID(ctx, queueID)
	if err != nil {
		return nil, err
	}

	if err := s.requireAdmin(ctx, queue, actorID); err != nil {
		return nil, err
	}

	grant := domain.Administrator{
		ID:        s.genID.Generate(),
		QueueID:   queueID,
		UserID:    userID,
		CreatedAt: time.Now().UTC(),
	}
	err = s.repo.AddAdministrator(ctx, &grant)
	if db.IsDuplicateKeyErr(err) {
		return nil, domain.ErrAdminExists
	}
	if err != nil {
		return nil, err
	}

	s.log.Info("queue admin granted",
		zap.Int64("queue_id", int64(queueID)),
		zap.Int64("user_id", int64(userID)),
	)
	return &grant, nil
}

func (s *service) RemoveAdministrator(ctx context.Context, actorID, queueID, userID snowflake.ID) error {
	queue, err := s.repo.FindByID(ctx, queueID)
	if err != nil {
		return err
	}

	if err := s.requireAdmin(ctx, queue, actorID); err != nil {
		return err
	}

	return s.repo.RemoveAdministrator(ctx, queueID, userID)
}

func (s *service) IsAdministrator(ctx context.Context, queueID, userID snowflake.ID) (bool, error) {
	return s.repo.IsAdministrator(ctx, queueID, userID)
}

func (s *service) ListAdministrators(ctx context.Context, actorID, queueID snowflake.ID) ([]domain.Administrator, error) {
	queue, err := s.repo.FindByID(ctx, queueID)
	if err != nil {
		return nil, err
	}

	if err := s.requireAdmin(ctx, queue, actorID); err != nil {
		return nil, err
	}

	return s.repo.ListAdministrators(ctx, queueID)
}

func (s *service) requireAdmin(ctx context.Context, queue *domain.Queue, actorID snowflake.ID) error {
	if queue.OwnerID == actorID {
		return nil
	}
	isAdmin, err := s.repo.IsAdministrator(ctx, queue.ID, actorID)
	if err != nil {
		return err
	}
	if !isAdmin {
		return domain.ErrForbidden
	}
	return nil
}
