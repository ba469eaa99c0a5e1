package service

import (
	"context"
	"time"
)

// swagger:model LivesStatus
type LivesStatus struct {
	Lives        int        `json:"lives"`
	MaxLives     int        `json:"maxLives"`
	NextRefillAt *time.Time `json:"nextRefillAt"`
}

type LivesService struct {
	Users UserStore
	Rules *RulesHolder
	Now   func() time.Time
}

func NewLivesService(users UserStore, rules *RulesHolder) *LivesService {
	return &LivesService{Users: users, Rules: rules, Now: time.Now}
}

// Status reports the user's current lives without writing anything.
func (s *LivesService) Status(ctx context.Context, userID uint) (*LivesStatus, error) {
	user, err := s.Users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	policy := s.Rules.Get().Lives
	now := s.Now()
	state := policy.Recalculate(user.LifeState(policy, now), now)

	status := &LivesStatus{Lives: state.Lives, MaxLives: policy.Max}
	if next, ok := policy.NextRefill(state); ok {
		status.NextRefillAt = &next
	}
	return status, nil
}
