package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/qline-io/qline/internal/journal/domain"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type service struct {
	log   *zap.Logger
	genID *snowflake.Node
	repo  domain.Repository
}

func NewService(log *zap.Logger, genID *snowflake.Node, repo domain.Repository) domain.Service {
	return &service{
		log:   log.Named("journal.service"),
		genID: genID,
		repo:  repo,
	}
}

func (s *service) WithTx(tx *gorm.DB) domain.Service {
	return &service{
		log:   s.log,
		genID: s.genID,
		repo:  s.repo.WithTx(tx),
	}
}

func (s *service) Record(ctx context.Context, req domain.RecordRequest) (*domain.Record, error) {
	action := domain.Action(strings.TrimSpace(string(req.Action)))
	if action == "" {
		return nil, domain.ErrInvalidAction
	}

	record := domain.Record{
		ID:          s.genID.Generate(),
		EntryID:     req.EntryID,
		Action:      action,
		PrevStatus:  req.PrevStatus,
		NewStatus:   req.NewStatus,
		InitiatedBy: req.InitiatedBy,
		Comment:     strings.TrimSpace(req.Comment),
		CreatedAt:   time.Now().UTC(),
	}

	if err := s.repo.Insert(ctx, &record); err != nil {
		s.log.Error("failed to append journal record",
			zap.String("action", string(action)),
			zap.Int64("entry_id", int64(req.EntryID)),
			zap.Error(err),
		)
		return nil, err
	}
	return &record, nil
}

func (s *service) ListByEntry(ctx context.Context, entryID snowflake.ID) ([]domain.Record, error) {
	return s.repo.ListByEntry(ctx, entryID)
}
