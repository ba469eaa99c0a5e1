package repository

import (
	"context"
	"ravencode_backend/internal/model"
	"time"

	"gorm.io/gorm"
)

type HistoryRepository struct {
	DB *gorm.DB
}

func NewHistoryRepository(db *gorm.DB) *HistoryRepository {
	return &HistoryRepository{DB: db}
}

func (r *HistoryRepository) Append(ctx context.Context, h *model.PracticeHistory) error {
	return r.DB.WithContext(ctx).Create(h).Error
}

// ListByUser returns the newest entries first.
func (r *HistoryRepository) ListByUser(ctx context.Context, userID uint, limit int) ([]model.PracticeHistory, error) {
	var entries []model.PracticeHistory
	err := r.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&entries).Error
	return entries, err
}

// WeeklyStats aggregates one user's sessions over a period.
type WeeklyStats struct {
	UserID       uint    `json:"userId"`
	Sessions     int     `json:"sessions"`
	Approved     int     `json:"approved"`
	AverageScore float64 `json:"averageScore"`
	XP           int     `json:"xp"`
}

// WeeklyAggregates returns per-user totals for entries created at or after
// since, ordered by user id.
func (r *HistoryRepository) WeeklyAggregates(ctx context.Context, since time.Time) ([]WeeklyStats, error) {
	var stats []WeeklyStats
	err := r.DB.WithContext(ctx).Model(&model.PracticeHistory{}).
		Select(`user_id,
			COUNT(*) AS sessions,
			SUM(CASE WHEN approved THEN 1 ELSE 0 END) AS approved,
			AVG(score) AS average_score,
			SUM(xp_awarded) AS xp`).
		Where("created_at >= ?", since).
		Group("user_id").
		Order("user_id ASC").
		Scan(&stats).Error
	return stats, err
}
