package repository

import (
	"context"
	"errors"
	"ravencode_backend/internal/lives"
	"ravencode_backend/internal/model"
	"ravencode_backend/internal/util"
	"time"

	"gorm.io/gorm"
)

type UserRepository struct {
	DB *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{DB: db}
}

func (r *UserRepository) Create(ctx context.Context, user *model.User) error {
	return r.DB.WithContext(ctx).Create(user).Error
}

func (r *UserRepository) FindByID(ctx context.Context, id uint) (*model.User, error) {
	var user model.User
	err := r.DB.WithContext(ctx).First(&user, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	err := r.DB.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByIDs returns users keyed by id; missing ids are absent from the map.
func (r *UserRepository) FindByIDs(ctx context.Context, ids []uint) (map[uint]*model.User, error) {
	var users []model.User
	if len(ids) > 0 {
		if err := r.DB.WithContext(ctx).Where("id IN ?", ids).Find(&users).Error; err != nil {
			return nil, err
		}
	}
	out := make(map[uint]*model.User, len(users))
	for i := range users {
		out[users[i].ID] = &users[i]
	}
	return out, nil
}

// SaveLives writes a lives state only if life_version still equals version.
// It reports whether the row was updated; false means another writer got
// there first and the caller should re-read.
func (r *UserRepository) SaveLives(ctx context.Context, userID uint, s lives.State, version int64) (bool, error) {
	res := r.DB.WithContext(ctx).Model(&model.User{}).
		Where("id = ? AND life_version = ?", userID, version).
		Updates(map[string]interface{}{
			"lives":            s.Lives,
			"last_life_update": s.LastLifeUpdate,
			"life_version":     gorm.Expr("life_version + 1"),
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *UserRepository) TouchLogin(ctx context.Context, userID uint, at time.Time) error {
	return r.DB.WithContext(ctx).Model(&model.User{}).
		Where("id = ?", userID).
		UpdateColumn("last_login", at).Error
}
