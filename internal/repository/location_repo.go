package repository

import (
	"context"
	"time"

	"geolog/internal/models"

	"gorm.io/gorm"
)

// LocationRepository is the append-only location store.
type LocationRepository struct {
	db    *gorm.DB
	clock *MonotonicClock
}

func NewLocationRepository(db *gorm.DB) *LocationRepository {
	return &LocationRepository{db: db, clock: NewMonotonicClock(time.Now)}
}

// WithClock swaps the timestamp source; used by tests.
func (r *LocationRepository) WithClock(c *MonotonicClock) *LocationRepository {
	r.clock = c
	return r
}

// Create stamps loc.CreatedAt and inserts it. ID and CreatedAt are set on return.
func (r *LocationRepository) Create(ctx context.Context, loc *models.UserLocationLog) error {
	loc.ID = 0
	loc.CreatedAt = r.clock.Now()
	return r.db.WithContext(ctx).Create(loc).Error
}

// LatestPerUser returns each user's most recent row, newest first. Rows
// sharing a timestamp are ranked by id so every user appears exactly once.
func (r *LocationRepository) LatestPerUser(ctx context.Context, limit int) ([]models.UserLocationLog, error) {
	ranked := r.db.Model(&models.UserLocationLog{}).
		Select("*, ROW_NUMBER() OVER (PARTITION BY user_id ORDER BY created_at DESC, id DESC) AS rn")

	var rows []models.UserLocationLog
	err := r.db.WithContext(ctx).
		Table("(?) AS ranked", ranked).
		Where("rn = 1").
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&rows).Error
	return rows, err
}

// ForUser returns a user's rows, newest first.
func (r *LocationRepository) ForUser(ctx context.Context, userID string, limit int) ([]models.UserLocationLog, error) {
	var rows []models.UserLocationLog
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&rows).Error
	return rows, err
}

// History returns a user's rows inside [from, to], newest first. Nil bounds are open.
func (r *LocationRepository) History(ctx context.Context, userID string, from, to *time.Time, limit int) ([]models.UserLocationLog, error) {
	q := r.db.WithContext(ctx).Where("user_id = ?", userID)
	if from != nil {
		q = q.Where("created_at >= ?", *from)
	}
	if to != nil {
		q = q.Where("created_at <= ?", *to)
	}
	var rows []models.UserLocationLog
	err := q.Order("created_at DESC, id DESC").Limit(limit).Find(&rows).Error
	return rows, err
}

// Last returns the user's most recent row or gorm.ErrRecordNotFound.
func (r *LocationRepository) Last(ctx context.Context, userID string) (*models.UserLocationLog, error) {
	var loc models.UserLocationLog
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		First(&loc).Error
	if err != nil {
		return nil, err
	}
	return &loc, nil
}
