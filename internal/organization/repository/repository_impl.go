package repository

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/qline-io/qline/internal/organization/domain"
	"gorm.io/gorm"
)

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) domain.Repository {
	return &repository{db: db}
}

func (r *repository) FindByID(ctx context.Context, id snowflake.ID) (*domain.Organization, error) {
	var org domain.Organization
	err := r.db.WithContext(ctx).First(&org, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &org, nil
}

func (r *repository) List(ctx context.Context) ([]domain.Organization, error) {
	var orgs []domain.Organization
	if err := r.db.WithContext(ctx).Order("created_at asc").Find(&orgs).Error; err != nil {
		return nil, err
	}
	return orgs, nil
}

func (r *repository) Create(ctx context.Context, org *domain.Organization) error {
	return r.db.WithContext(ctx).Create(org).Error
}

func (r *repository) Delete(ctx context.Context, id snowflake.ID) error {
	return r.db.WithContext(ctx).Delete(&domain.Organization{}, "id = ?", id).Error
}
