package repository

import (
	"context"
	"ravencode_backend/internal/model"

	"gorm.io/gorm"
)

type ProgressRepository struct {
	DB *gorm.DB
}

func NewProgressRepository(db *gorm.DB) *ProgressRepository {
	return &ProgressRepository{DB: db}
}

// CourseProgress is a user's unlocked and completed lesson sets in a course.
type CourseProgress struct {
	Unlocked  map[uint]bool
	Completed map[uint]bool
}

func (r *ProgressRepository) GetCourseProgress(ctx context.Context, userID, courseID uint) (*CourseProgress, error) {
	var rows []model.UserLessonProgress
	err := r.DB.WithContext(ctx).
		Where("user_id = ? AND course_id = ?", userID, courseID).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	p := &CourseProgress{Unlocked: map[uint]bool{}, Completed: map[uint]bool{}}
	for _, row := range rows {
		switch row.State {
		case model.ProgressUnlocked:
			p.Unlocked[row.LessonID] = true
		case model.ProgressCompleted:
			p.Completed[row.LessonID] = true
		}
	}
	return p, nil
}

// CountCompleted returns completed lesson counts per course for a user.
func (r *ProgressRepository) CountCompleted(ctx context.Context, userID uint) (map[uint]int, error) {
	var rows []struct {
		CourseID uint
		Total    int
	}
	err := r.DB.WithContext(ctx).Model(&model.UserLessonProgress{}).
		Select("course_id, COUNT(*) AS total").
		Where("user_id = ? AND state = ?", userID, model.ProgressCompleted).
		Group("course_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	out := make(map[uint]int, len(rows))
	for _, row := range rows {
		out[row.CourseID] = row.Total
	}
	return out, nil
}
