package model

import "time"

type ProgressState string

const (
	ProgressUnlocked  ProgressState = "unlocked"
	ProgressCompleted ProgressState = "completed"
)

// UserLessonProgress is one member of a user's per-course unlocked or
// completed set. The unique key makes adding a member idempotent.
type UserLessonProgress struct {
	ID        uint          `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    uint          `gorm:"uniqueIndex:idx_user_lesson_state;not null" json:"userId"`
	CourseID  uint          `gorm:"uniqueIndex:idx_user_lesson_state;not null" json:"courseId"`
	LessonID  uint          `gorm:"uniqueIndex:idx_user_lesson_state;not null" json:"lessonId"`
	State     ProgressState `gorm:"uniqueIndex:idx_user_lesson_state;size:20;not null" json:"state"`
	CreatedAt time.Time     `json:"createdAt"`
}

func (UserLessonProgress) TableName() string {
	return "user_lesson_progress"
}
