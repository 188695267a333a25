package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	authdomain "github.com/qline-io/qline/internal/auth/domain"
	"github.com/qline-io/qline/internal/entry/domain"
	journaldomain "github.com/qline-io/qline/internal/journal/domain"
	queuedomain "github.com/qline-io/qline/internal/queue/domain"
	"github.com/qline-io/qline/pkg/db"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const scheduleLayout = "2006-01-02 15:04"

type service struct {
	db      *gorm.DB
	log     *zap.Logger
	genID   *snowflake.Node
	repo    domain.Repository
	queues  queuedomain.Repository
	users   authdomain.Repository
	journal journaldomain.Service
}

func NewService(
	conn *gorm.DB,
	log *zap.Logger,
	genID *snowflake.Node,
	repo domain.Repository,
	queues queuedomain.Repository,
	users authdomain.Repository,
	journal journaldomain.Service,
) domain.Service {
	return &service{
		db:      conn,
		log:     log.Named("entry.service"),
		genID:   genID,
		repo:    repo,
		queues:  queues,
		users:   users,
		journal: journal,
	}
}

func (s *service) Create(ctx context.Context, actorID snowflake.ID, req domain.CreateRequest) (*domain.Entry, error) {
	userID := req.UserID
	if userID == 0 {
		userID = actorID
	}

	if _, err := s.users.FindUserByID(ctx, userID); err != nil {
		return nil, err
	}
	queue, err := s.queues.FindByID(ctx, req.QueueID)
	if err != nil {
		return nil, err
	}

	isOwner := userID == actorID
	isAdmin, err := s.queues.IsAdministrator(ctx, queue.ID, actorID)
	if err != nil {
		return nil, err
	}
	if !isOwner && !isAdmin {
		return nil, domain.ErrForbidden
	}

	now := time.Now().UTC()
	entry := domain.Entry{
		ID:              s.genID.Generate(),
		QueueID:         queue.ID,
		UserID:          userID,
		Status:          domain.StatusWaiting,
		CreatedAt:       now,
		StatusUpdatedAt: now,
	}

	switch queue.Type {
	case queuedomain.TypeOrganizational:
		if req.NotificationPosition != nil {
			return nil, domain.ErrFieldNotAllowed
		}
		scheduledAt, err := parseSchedule(req.Date, req.Time)
		if err != nil {
			return nil, err
		}
		if _, err := s.repo.FindScheduled(ctx, queue.ID, userID, scheduledAt); err == nil {
			return nil, domain.ErrDuplicateEntry
		} else if err != domain.ErrNotFound {
			return nil, err
		}
		entry.EntryTimeOrg = &scheduledAt
		entry.NotificationMinutes = req.NotificationMinutes

	case queuedomain.TypeSelfOrganized:
		if strings.TrimSpace(req.Date) != "" || strings.TrimSpace(req.Time) != "" || req.NotificationMinutes != nil {
			return nil, domain.ErrFieldNotAllowed
		}
		entry.NotificationPosition = req.NotificationPosition
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		if queue.Type == queuedomain.TypeSelfOrganized {
			waiting, err := repo.CountWaiting(ctx, queue.ID)
			if err != nil {
				return err
			}
			sequential, err := s.queues.WithTx(tx).NextSequential(ctx, queue.ID)
			if err != nil {
				return err
			}
			position := int(waiting) + 1
			entry.EntryPositionSelf = &position
			entry.SequentialNumberSelf = &sequential
		}

		if err := repo.Create(ctx, &entry); err != nil {
			return err
		}

		newStatus := journaldomain.FromEntryStatus(entry.Status)
		_, err := s.journal.WithTx(tx).Record(ctx, journaldomain.RecordRequest{
			EntryID:     entry.ID,
			InitiatedBy: actorID,
			Action:      journaldomain.DeriveCreationAction(isOwner),
			NewStatus:   &newStatus,
		})
		return err
	})
	if db.IsDuplicateKeyErr(err) {
		return nil, domain.ErrDuplicateEntry
	}
	if err != nil {
		return nil, err
	}

	return &entry, nil
}

func (s *service) FindOne(ctx context.Context, id snowflake.ID) (*domain.Entry, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *service) List(ctx context.Context, filter domain.ListFilter) ([]domain.Entry, error) {
	return s.repo.List(ctx, filter)
}

func (s *service) Update(ctx context.Context, actorID, id snowflake.ID, patch domain.UpdateRequest) (*domain.Entry, error) {
	entry, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	isOwner, isAdmin, err := s.resolveAuthority(ctx, entry, actorID)
	if err != nil {
		return nil, err
	}
	if !isOwner && !isAdmin {
		return nil, domain.ErrForbidden
	}

	queue, err := s.queues.FindByID(ctx, entry.QueueID)
	if err != nil {
		return nil, err
	}

	switch queue.Type {
	case queuedomain.TypeOrganizational:
		if patch.NotificationPosition != nil {
			return nil, domain.ErrFieldNotAllowed
		}
		if patch.NotificationMinutes != nil {
			entry.NotificationMinutes = patch.NotificationMinutes
		}
	case queuedomain.TypeSelfOrganized:
		if patch.NotificationMinutes != nil {
			return nil, domain.ErrFieldNotAllowed
		}
		if patch.NotificationPosition != nil {
			entry.NotificationPosition = patch.NotificationPosition
		}
	}

	if err := s.repo.Save(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

func (s *service) UpdateStatus(ctx context.Context, actorID, id snowflake.ID, status domain.Status, comment string) (*domain.Entry, error) {
	entry, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	// No-op transitions return the entry untouched, with no journal write.
	if status == entry.Status {
		return entry, nil
	}

	isOwner, isAdmin, err := s.resolveAuthority(ctx, entry, actorID)
	if err != nil {
		return nil, err
	}

	prev := entry.Status
	if err := domain.AttemptTransition(entry, status, isAdmin, isOwner, time.Now()); err != nil {
		return nil, err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.repo.WithTx(tx).Save(ctx, entry); err != nil {
			return err
		}

		prevStatus := journaldomain.FromEntryStatus(prev)
		newStatus := journaldomain.FromEntryStatus(entry.Status)
		_, err := s.journal.WithTx(tx).Record(ctx, journaldomain.RecordRequest{
			EntryID:     entry.ID,
			InitiatedBy: actorID,
			Action:      journaldomain.DeriveAction(prev, entry.Status, isAdmin, isOwner),
			PrevStatus:  &prevStatus,
			NewStatus:   &newStatus,
			Comment:     comment,
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	return entry, nil
}

func (s *service) Remove(ctx context.Context, actorID, id snowflake.ID) error {
	entry, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	isOwner, isAdmin, err := s.resolveAuthority(ctx, entry, actorID)
	if err != nil {
		return err
	}
	if !isOwner && !isAdmin {
		return domain.ErrForbidden
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.repo.WithTx(tx).Delete(ctx, entry.ID); err != nil {
			return err
		}

		// The removal record captures the pre-deletion status and stays
		// behind as the tail of the entry's audit trail.
		prevStatus := journaldomain.FromEntryStatus(entry.Status)
		newStatus := journaldomain.StatusRemoved
		_, err := s.journal.WithTx(tx).Record(ctx, journaldomain.RecordRequest{
			EntryID:     entry.ID,
			InitiatedBy: actorID,
			Action:      journaldomain.DeriveRemovalAction(isOwner),
			PrevStatus:  &prevStatus,
			NewStatus:   &newStatus,
		})
		return err
	})
}

// Position computes the 1-based rank of an entry among the queue's WAITING
// entries ordered by creation time, or 0 when the entry is not waiting.
func (s *service) Position(ctx context.Context, queueID, entryID snowflake.ID) (int, error) {
	waiting, err := s.repo.List(ctx, domain.ListFilter{
		QueueID:  queueID,
		Statuses: []domain.Status{domain.StatusWaiting},
	})
	if err != nil {
		return 0, err
	}

	for i, entry := range waiting {
		if entry.ID == entryID {
			return i + 1, nil
		}
	}
	return 0, nil
}

func (s *service) NextInQueue(ctx context.Context, queueID snowflake.ID) (*domain.Entry, error) {
	waiting, err := s.repo.List(ctx, domain.ListFilter{
		QueueID:  queueID,
		Statuses: []domain.Status{domain.StatusWaiting},
	})
	if err != nil {
		return nil, err
	}
	if len(waiting) == 0 {
		return nil, domain.ErrNotFound
	}
	return &waiting[0], nil
}

func (s *service) resolveAuthority(ctx context.Context, entry *domain.Entry, actorID snowflake.ID) (isOwner, isAdmin bool, err error) {
	isOwner = entry.UserID == actorID
	isAdmin, err = s.queues.IsAdministrator(ctx, entry.QueueID, actorID)
	if err != nil {
		return false, false, err
	}
	return isOwner, isAdmin, nil
}

func parseSchedule(date, clock string) (time.Time, error) {
	date = strings.TrimSpace(date)
	clock = strings.TrimSpace(clock)
	if date == "" || clock == "" {
		return time.Time{}, domain.ErrDateTimeRequired
	}

	at, err := time.ParseInLocation(scheduleLayout, date+" "+clock, time.UTC)
	if err != nil {
		return time.Time{}, domain.ErrInvalidDateTime
	}
	return at, nil
}
