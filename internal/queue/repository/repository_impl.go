package repository

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/qline-io/qline/internal/queue/domain"
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

func (r *repository) FindByID(ctx context.Context, id snowflake.ID) (*domain.Queue, error) {
	var queue domain.Queue
	err := r.db.WithContext(ctx).First(&queue, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &queue, nil
}

func (r *repository) List(ctx context.Context, organizationID *snowflake.ID) ([]domain.Queue, error) {
	stmt := r.db.WithContext(ctx).Model(&domain.Queue{})
	if organizationID != nil {
		stmt = stmt.Where("organization_id = ?", *organizationID)
	}

	var queues []domain.Queue
	if err := stmt.Order("created_at asc").Find(&queues).Error; err != nil {
		return nil, err
	}
	return queues, nil
}

func (r *repository) Create(ctx context.Context, queue *domain.Queue) error {
	return r.db.WithContext(ctx).Create(queue).Error
}

func (r *repository) Delete(ctx context.Context, id snowflake.ID) error {
	return r.db.WithContext(ctx).Delete(&domain.Queue{}, "id = ?", id).Error
}

func (r *repository) NextSequential(ctx context.Context, queueID snowflake.ID) (int, error) {
	result := r.db.WithContext(ctx).Model(&domain.Queue{}).
		Where("id = ?", queueID).
		UpdateColumn("sequential_counter_self", gorm.Expr("sequential_counter_self + 1"))
	if result.Error != nil {
		return 0, result.Error
	}
	if result.RowsAffected == 0 {
		return 0, domain.ErrNotFound
	}

	var counter int
	err := r.db.WithContext(ctx).Model(&domain.Queue{}).
		Where("id = ?", queueID).
		Select("sequential_counter_self").
		Scan(&counter).Error
	if err != nil {
		return 0, err
	}
	return counter, nil
}

func (r *repository) AddAdministrator(ctx context.Context, grant *domain.Administrator) error {
	return r.db.WithContext(ctx).Create(grant).Error
}

func (r *repository) RemoveAdministrator(ctx context.Context, queueID, userID snowflake.ID) error {
	result := r.db.WithContext(ctx).
		Where("queue_id = ? AND user_id = ?", queueID, userID).
		Delete(&domain.Administrator{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrAdminNotFound
	}
	return nil
}

func (r *repository) IsAdministrator(ctx context.Context, queueID, userID snowflake.ID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Administrator{}).
		Where("queue_id = ? AND user_id = ?", queueID, userID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *repository) ListAdministrators(ctx context.Context, queueID snowflake.ID) ([]domain.Administrator, error) {
	var grants []domain.Administrator
	err := r.db.WithContext(ctx).
		Where("queue_id = ?", queueID).
		Order("created_at asc").
		Find(&grants).Error
	if err != nil {
		return nil, err
	}
	return grants, nil
}
