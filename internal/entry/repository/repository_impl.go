package repository

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/qline-io/qline/internal/entry/domain"
	"gorm.io/gorm"
)

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) domain.Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) domain.Repository {
	return &repository{db: tx}
}

func (r *repository) FindByID(ctx context.Context, id snowflake.ID) (*domain.Entry, error) {
	var entry domain.Entry
	err := r.db.WithContext(ctx).First(&entry, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *repository) List(ctx context.Context, filter domain.ListFilter) ([]domain.Entry, error) {
	stmt := r.db.WithContext(ctx).Model(&domain.Entry{})
	if filter.QueueID != 0 {
		stmt = stmt.Where("queue_id = ?", filter.QueueID)
	}
	if filter.UserID != 0 {
		stmt = stmt.Where("user_id = ?", filter.UserID)
	}
	if len(filter.Statuses) > 0 {
		stmt = stmt.Where("status IN ?", filter.Statuses)
	}

	var entries []domain.Entry
	if err := stmt.Order("created_at asc, id asc").Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *repository) FindScheduled(ctx context.Context, queueID, userID snowflake.ID, at time.Time) (*domain.Entry, error) {
	var entry domain.Entry
	err := r.db.WithContext(ctx).
		Where("queue_id = ? AND user_id = ? AND entry_time_org = ?", queueID, userID, at.UTC()).
		First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *repository) CountWaiting(ctx context.Context, queueID snowflake.ID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Entry{}).
		Where("queue_id = ? AND status = ?", queueID, domain.StatusWaiting).
		Count(&count).Error
	return count, err
}

func (r *repository) Create(ctx context.Context, entry *domain.Entry) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *repository) Save(ctx context.Context, entry *domain.Entry) error {
	return r.db.WithContext(ctx).Save(entry).Error
}

func (r *repository) Delete(ctx context.Context, id snowflake.ID) error {
	return r.db.WithContext(ctx).Delete(&domain.Entry{}, "id = ?", id).Error
}
