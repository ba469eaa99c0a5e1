package service

import (
	"ravencode_backend/internal/config"
	"ravencode_backend/internal/lives"
	"sync/atomic"
	"time"
)

// PracticeRules are the tunable parts of the practice lifecycle. They can be
// swapped at runtime when the config file changes.
type PracticeRules struct {
	Lives                     lives.Policy
	RefundOnGenerationFailure bool
	XPPerCorrect              int
	Location                  *time.Location
}

func RulesFromConfig(cfg *config.Config) PracticeRules {
	return PracticeRules{
		Lives:                     lives.NewPolicy(cfg.Lives.Max, cfg.Lives.RefillMinutes),
		RefundOnGenerationFailure: cfg.Practice.RefundOnGenerationFailure,
		XPPerCorrect:              cfg.Practice.XPPerCorrect,
		Location:                  cfg.Practice.Location(),
	}
}

type RulesHolder struct {
	v atomic.Pointer[PracticeRules]
}

func NewRulesHolder(r PracticeRules) *RulesHolder {
	h := &RulesHolder{}
	h.Set(r)
	return h
}

func (h *RulesHolder) Get() PracticeRules {
	return *h.v.Load()
}

func (h *RulesHolder) Set(r PracticeRules) {
	if r.Location == nil {
		r.Location = time.UTC
	}
	h.v.Store(&r)
}
