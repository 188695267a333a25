package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/qline-io/qline/internal/journal/domain"
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

func (r *repository) Insert(ctx context.Context, record *domain.Record) error {
	return r.db.WithContext(ctx).Create(record).Error
}

func (r *repository) ListByEntry(ctx context.Context, entryID snowflake.ID) ([]domain.Record, error) {
	var records []domain.Record
	err := r.db.WithContext(ctx).
		Where("entry_id = ?", entryID).
		Order("created_at asc, id asc").
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}

// DeleteByEntry backs the cascading queue deletion. It is the only path
// that ever drops journal rows.
func (r *repository) DeleteByEntry(ctx context.Context, entryID snowflake.ID) error {
	return r.db.WithContext(ctx).
		Where("entry_id = ?", entryID).
		Delete(&domain.Record{}).Error
}
