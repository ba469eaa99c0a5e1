package repository

import (
	"context"
	"fmt"
	"ravencode_backend/internal/model"
	"ravencode_backend/internal/util"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type UpdateKind int

const (
	// SetField overwrites a user column.
	SetField UpdateKind = iota
	// UnionAppend adds a lesson to the user's unlocked or completed set.
	UnionAppend
	// Increment adds a delta to a numeric user column.
	Increment
)

// UserUpdate is one intent in a combined user/progress write.
type UserUpdate struct {
	Kind     UpdateKind
	Field    string
	Value    interface{}
	State    model.ProgressState
	CourseID uint
	LessonID uint
}

func Set(field string, value interface{}) UserUpdate {
	return UserUpdate{Kind: SetField, Field: field, Value: value}
}

func Inc(field string, delta int) UserUpdate {
	return UserUpdate{Kind: Increment, Field: field, Value: delta}
}

func Union(state model.ProgressState, courseID, lessonID uint) UserUpdate {
	return UserUpdate{Kind: UnionAppend, State: state, CourseID: courseID, LessonID: lessonID}
}

// columns that update intents may touch
var updatableColumns = map[string]bool{
	"streak":             true,
	"last_streak_update": true,
	"xp":                 true,
}

// ApplyUpdates applies all intents for one user in a single transaction.
func (r *UserRepository) ApplyUpdates(ctx context.Context, userID uint, updates []UserUpdate) error {
	if len(updates) == 0 {
		return nil
	}

	columns := make(map[string]interface{})
	var members []model.UserLessonProgress

	for _, u := range updates {
		switch u.Kind {
		case SetField:
			if !updatableColumns[u.Field] {
				return fmt.Errorf("%w: column %q is not updatable", util.ErrInvalidInput, u.Field)
			}
			columns[u.Field] = u.Value
		case Increment:
			if !updatableColumns[u.Field] {
				return fmt.Errorf("%w: column %q is not updatable", util.ErrInvalidInput, u.Field)
			}
			columns[u.Field] = gorm.Expr(u.Field+" + ?", u.Value)
		case UnionAppend:
			members = append(members, model.UserLessonProgress{
				UserID:   userID,
				CourseID: u.CourseID,
				LessonID: u.LessonID,
				State:    u.State,
			})
		default:
			return fmt.Errorf("unknown update kind %d", u.Kind)
		}
	}

	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if len(columns) > 0 {
			res := tx.Model(&model.User{}).Where("id = ?", userID).Updates(columns)
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return util.ErrUserNotFound
			}
		}
		for i := range members {
			err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&members[i]).Error
			if err != nil {
				return err
			}
		}
		return nil
	})
}
