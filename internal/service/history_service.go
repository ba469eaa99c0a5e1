package service

import (
	"context"
	"ravencode_backend/internal/model"
)

const (
	DefaultHistoryLimit = 20
	MaxHistoryLimit     = 100
)

type HistoryLister interface {
	ListByUser(ctx context.Context, userID uint, limit int) ([]model.PracticeHistory, error)
}

type HistoryService struct {
	Repo HistoryLister
}

func NewHistoryService(repo HistoryLister) *HistoryService {
	return &HistoryService{Repo: repo}
}

// List returns the user's sessions newest first. limit is clamped to
// 1..MaxHistoryLimit.
func (s *HistoryService) List(ctx context.Context, userID uint, limit int) ([]model.PracticeHistory, error) {
	if limit < 1 {
		limit = DefaultHistoryLimit
	}
	if limit > MaxHistoryLimit {
		limit = MaxHistoryLimit
	}
	return s.Repo.ListByUser(ctx, userID, limit)
}
