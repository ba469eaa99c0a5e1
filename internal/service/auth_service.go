package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"ravencode_backend/internal/config"
	"ravencode_backend/internal/model"
	"ravencode_backend/internal/util"
	"ravencode_backend/pkg/logger"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type AuthUserStore interface {
	Create(ctx context.Context, user *model.User) error
	FindByID(ctx context.Context, id uint) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	TouchLogin(ctx context.Context, userID uint, at time.Time) error
}

type AuthService struct {
	UserRepo AuthUserStore
	Cfg      *config.Config
	Rules    *RulesHolder
	Now      func() time.Time
}

func NewAuthService(userRepo AuthUserStore, cfg *config.Config, rules *RulesHolder) *AuthService {
	return &AuthService{
		UserRepo: userRepo,
		Cfg:      cfg,
		Rules:    rules,
		Now:      time.Now,
	}
}

// swagger:model AuthResult
type AuthResult struct {
	Token string      `json:"token"`
	User  *model.User `json:"user"`
}

// Register creates a student account starting with full lives.
func (s *AuthService) Register(ctx context.Context, name, email, password string) (*AuthResult, error) {
	name = strings.TrimSpace(name)
	email = strings.ToLower(strings.TrimSpace(email))
	if name == "" {
		return nil, fmt.Errorf("name is required: %w", util.ErrInvalidInput)
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, fmt.Errorf("invalid email: %w", util.ErrInvalidInput)
	}
	if len(password) < 8 {
		return nil, fmt.Errorf("password must be at least 8 characters: %w", util.ErrInvalidInput)
	}

	_, err := s.UserRepo.FindByEmail(ctx, email)
	if err == nil {
		return nil, util.ErrEmailRegistered
	} else if !errors.Is(err, util.ErrNotFound) {
		return nil, err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := s.Now()
	full := s.Rules.Get().Lives.Max
	user := &model.User{
		Name:           name,
		Email:          email,
		Password:       string(hashedPassword),
		Role:           model.Student,
		Lives:          &full,
		LastLifeUpdate: &now,
	}
	if err := s.UserRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	token, err := util.GenerateJWT(user, s.Cfg.JWT.Secret, s.Cfg.JWT.ExpireTime)
	if err != nil {
		return nil, err
	}
	logger.Log.Info("user registered", zap.Uint("user_id", user.ID))
	return &AuthResult{Token: token, User: user}, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	user, err := s.UserRepo.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, util.ErrNotFound) {
			return nil, util.ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, util.ErrInvalidCredentials
	}

	token, err := util.GenerateJWT(user, s.Cfg.JWT.Secret, s.Cfg.JWT.ExpireTime)
	if err != nil {
		return nil, err
	}

	if err := s.UserRepo.TouchLogin(ctx, user.ID, s.Now()); err != nil {
		logger.Log.Warn("failed to record login", zap.Uint("user_id", user.ID), zap.Error(err))
	}
	return &AuthResult{Token: token, User: user}, nil
}

func (s *AuthService) Profile(ctx context.Context, userID uint) (*model.User, error) {
	return s.UserRepo.FindByID(ctx, userID)
}
