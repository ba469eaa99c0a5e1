package model

import (
	"database/sql/driver"
	"encoding/json"
	"errors"

	"ravencode_backend/internal/quiz"
)

// QuestionResults stores graded results as a JSON column.
type QuestionResults []quiz.QuestionResult

func (r QuestionResults) Value() (driver.Value, error) {
	if r == nil {
		return "[]", nil
	}
	b, err := json.Marshal(r)
	return string(b), err
}

func (r *QuestionResults) Scan(value interface{}) error {
	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	case nil:
		*r = nil
		return nil
	default:
		return errors.New("unsupported type for QuestionResults")
	}
	return json.Unmarshal(data, r)
}

// PracticeHistory is an append-only record of one graded session.
type PracticeHistory struct {
	UUIDBase
	UserID    uint            `gorm:"index;not null" json:"userId"`
	CourseID  uint            `gorm:"index;not null" json:"courseId"`
	LessonID  uint            `gorm:"not null" json:"lessonId"`
	Score     int             `json:"score"`
	MaxScore  int             `json:"maxScore"`
	Approved  bool            `json:"approved"`
	XPAwarded int             `json:"xpAwarded"`
	Results   QuestionResults `gorm:"type:text" json:"results"`
}

func (PracticeHistory) TableName() string {
	return "practice_histories"
}
