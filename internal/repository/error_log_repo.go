package repository

import (
	"context"

	"geolog/internal/models"

	"gorm.io/gorm"
)

type ErrorLogRepository struct {
	db *gorm.DB
}

func NewErrorLogRepository(db *gorm.DB) *ErrorLogRepository {
	return &ErrorLogRepository{db: db}
}

func (r *ErrorLogRepository) Create(ctx context.Context, e *models.ErrorLog) error {
	return r.db.WithContext(ctx).Create(e).Error
}

func (r *ErrorLogRepository) Recent(ctx context.Context, limit int) ([]models.ErrorLog, error) {
	var list []models.ErrorLog
	err := r.db.WithContext(ctx).Order("created_at DESC, id DESC").Limit(limit).Find(&list).Error
	return list, err
}
