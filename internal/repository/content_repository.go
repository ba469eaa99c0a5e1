package repository

import (
	"context"
	"errors"
	"fmt"
	"ravencode_backend/internal/model"
	"ravencode_backend/internal/util"

	"gorm.io/gorm"
)

type ContentRepository struct {
	DB *gorm.DB
}

func NewContentRepository(db *gorm.DB) *ContentRepository {
	return &ContentRepository{DB: db}
}

func notFound(what string, id uint, err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%s %d: %w", what, id, util.ErrNotFound)
	}
	return err
}

func (r *ContentRepository) GetCourse(ctx context.Context, id uint) (*model.Course, error) {
	var course model.Course
	if err := r.DB.WithContext(ctx).First(&course, id).Error; err != nil {
		return nil, notFound("course", id, err)
	}
	return &course, nil
}

func (r *ContentRepository) GetLesson(ctx context.Context, id uint) (*model.Lesson, error) {
	var lesson model.Lesson
	if err := r.DB.WithContext(ctx).First(&lesson, id).Error; err != nil {
		return nil, notFound("lesson", id, err)
	}
	return &lesson, nil
}

// GetLessonPages returns a theory's pages in reading order.
func (r *ContentRepository) GetLessonPages(ctx context.Context, theoryID uint) ([]model.ContentPage, error) {
	var pages []model.ContentPage
	err := r.DB.WithContext(ctx).
		Where("theory_id = ?", theoryID).
		Order("sort_order ASC, id ASC").
		Find(&pages).Error
	return pages, err
}

// GetNextLesson returns the lesson with the smallest order strictly greater
// than afterOrder, or nil when the course has no further lesson.
func (r *ContentRepository) GetNextLesson(ctx context.Context, courseID uint, afterOrder int) (*model.Lesson, error) {
	var lesson model.Lesson
	err := r.DB.WithContext(ctx).
		Where("course_id = ? AND sort_order > ?", courseID, afterOrder).
		Order("sort_order ASC, id ASC").
		First(&lesson).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &lesson, nil
}

func (r *ContentRepository) ListCourses(ctx context.Context) ([]model.Course, error) {
	var courses []model.Course
	err := r.DB.WithContext(ctx).Order("id ASC").Find(&courses).Error
	return courses, err
}

func (r *ContentRepository) ListLessons(ctx context.Context, courseID uint) ([]model.Lesson, error) {
	var lessons []model.Lesson
	err := r.DB.WithContext(ctx).
		Where("course_id = ?", courseID).
		Order("sort_order ASC, id ASC").
		Find(&lessons).Error
	return lessons, err
}
