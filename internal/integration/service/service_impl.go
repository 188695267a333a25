package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	entrydomain "github.com/qline-io/qline/internal/entry/domain"
	"github.com/qline-io/qline/internal/integration/converter"
	"github.com/qline-io/qline/internal/integration/domain"
	"go.uber.org/zap"
)

const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04"
)

type service struct {
	log      *zap.Logger
	registry *converter.Registry
	entries  entrydomain.Service
}

func NewService(log *zap.Logger, registry *converter.Registry, entries entrydomain.Service) domain.Service {
	return &service{
		log:      log.Named("integration.service"),
		registry: registry,
		entries:  entries,
	}
}

func (s *service) Process(ctx context.Context, raw, contentType, accept string) (*domain.Result, error) {
	inbound, err := s.registry.Inbound(contentType)
	if err != nil {
		return nil, err
	}

	rec, err := inbound.Decode(raw)
	if err != nil {
		return nil, err
	}

	queueID, err := snowflake.ParseString(strings.TrimSpace(rec.QueueID))
	if err != nil || queueID == 0 {
		return nil, domain.ErrInvalidRecord
	}
	userID, err := snowflake.ParseString(strings.TrimSpace(rec.UserID))
	if err != nil || userID == 0 {
		return nil, domain.ErrInvalidRecord
	}

	entry, err := s.entries.Create(ctx, userID, entrydomain.CreateRequest{
		QueueID:              queueID,
		Date:                 rec.Date,
		Time:                 rec.Time,
		NotificationMinutes:  rec.NotificationMinutes,
		NotificationPosition: rec.NotificationPosition,
	})
	if err != nil {
		return nil, err
	}

	outbound, err := s.registry.Outbound(accept)
	if err != nil {
		return nil, err
	}

	body, err := outbound.Encode(recordFromEntry(entry))
	if err != nil {
		return nil, err
	}

	s.log.Info("integration request processed",
		zap.String("content_type", inbound.MediaType()),
		zap.String("accept", outbound.MediaType()),
		zap.Int64("entry_id", int64(entry.ID)),
	)

	return &domain.Result{
		Body:      body,
		MediaType: outbound.MediaType(),
	}, nil
}

func recordFromEntry(entry *entrydomain.Entry) domain.Record {
	rec := domain.Record{
		QueueID:              entry.QueueID.String(),
		UserID:               entry.UserID.String(),
		NotificationMinutes:  entry.NotificationMinutes,
		NotificationPosition: entry.NotificationPosition,
	}
	if entry.EntryTimeOrg != nil {
		rec.Date = entry.EntryTimeOrg.Format(dateLayout)
		rec.Time = entry.EntryTimeOrg.Format(timeLayout)
	}
	return rec
}
