package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"
)

// CatalogRepository counts and bulk-inserts reference data such as settings,
// schemes and notices.
type CatalogRepository interface {
	Count(ctx context.Context, model any) (int64, error)
	CreateAll(ctx context.Context, records any) error
}

type catalogRepository struct {
	db *gorm.DB
}

// NewCatalogRepository returns a new CatalogRepository implementation.
func NewCatalogRepository(db *gorm.DB) CatalogRepository {
	return &catalogRepository{db: db}
}

func (r *catalogRepository) Count(ctx context.Context, model any) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(model).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("count rows: %w", err)
	}
	return n, nil
}

// CreateAll inserts a slice of models in one transaction.
func (r *catalogRepository) CreateAll(ctx context.Context, records any) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(records).Error
	})
}
