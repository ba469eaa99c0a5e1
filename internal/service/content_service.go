package service

import (
	"context"
	"fmt"
	"ravencode_backend/internal/model"
	"ravencode_backend/internal/repository"
	"ravencode_backend/internal/util"
	"strings"
)

// ContentStore is the read side of courses, lessons and theory pages.
type ContentStore interface {
	GetCourse(ctx context.Context, id uint) (*model.Course, error)
	GetLesson(ctx context.Context, id uint) (*model.Lesson, error)
	GetLessonPages(ctx context.Context, theoryID uint) ([]model.ContentPage, error)
	GetNextLesson(ctx context.Context, courseID uint, afterOrder int) (*model.Lesson, error)
	ListCourses(ctx context.Context) ([]model.Course, error)
	ListLessons(ctx context.Context, courseID uint) ([]model.Lesson, error)
}

type ProgressStore interface {
	GetCourseProgress(ctx context.Context, userID, courseID uint) (*repository.CourseProgress, error)
	CountCompleted(ctx context.Context, userID uint) (map[uint]int, error)
}

const pageSeparator = "\n\n---\n\n"

type ContentService struct {
	Store    ContentStore
	Progress ProgressStore
	Cache    *repository.ContentCache
}

func NewContentService(store ContentStore, progress ProgressStore, cache *repository.ContentCache) *ContentService {
	return &ContentService{Store: store, Progress: progress, Cache: cache}
}

// AssembleContent renders pages in the given order as one document.
func AssembleContent(pages []model.ContentPage) string {
	parts := make([]string, len(pages))
	for i, p := range pages {
		parts[i] = fmt.Sprintf("## %s\n\n%s", p.Title, p.Body)
	}
	return strings.Join(parts, pageSeparator)
}

// LessonContent returns the assembled reading for a lesson. A lesson without
// theory or with no pages is reported as not found.
func (s *ContentService) LessonContent(ctx context.Context, lesson *model.Lesson) (string, error) {
	if lesson.TheoryID == nil {
		return "", fmt.Errorf("lesson %d has no theory: %w", lesson.ID, util.ErrNotFound)
	}
	theoryID := *lesson.TheoryID

	if content, ok := s.Cache.Get(ctx, theoryID); ok {
		return content, nil
	}

	pages, err := s.Store.GetLessonPages(ctx, theoryID)
	if err != nil {
		return "", err
	}
	if len(pages) == 0 {
		return "", fmt.Errorf("theory %d has no pages: %w", theoryID, util.ErrNotFound)
	}

	content := AssembleContent(pages)
	s.Cache.Set(ctx, theoryID, content)
	return content, nil
}

// ResolveLesson loads a course and one of its lessons.
func (s *ContentService) ResolveLesson(ctx context.Context, courseID, lessonID uint) (*model.Course, *model.Lesson, error) {
	course, err := s.Store.GetCourse(ctx, courseID)
	if err != nil {
		return nil, nil, err
	}
	lesson, err := s.Store.GetLesson(ctx, lessonID)
	if err != nil {
		return nil, nil, err
	}
	if lesson.CourseID != course.ID {
		return nil, nil, fmt.Errorf("lesson %d, course %d: %w", lessonID, courseID, util.ErrInvalidReference)
	}
	return course, lesson, nil
}

type LessonStatus string

const (
	LessonLocked    LessonStatus = "locked"
	LessonUnlocked  LessonStatus = "unlocked"
	LessonCompleted LessonStatus = "completed"
)

type LessonOutline struct {
	ID     uint         `json:"id"`
	Title  string       `json:"title"`
	Order  int          `json:"order"`
	Status LessonStatus `json:"status"`
}

type CourseOutline struct {
	ID          uint            `json:"id"`
	Title       string          `json:"title"`
	Slug        string          `json:"slug"`
	Description string          `json:"description"`
	Lessons     []LessonOutline `json:"lessons"`
}

type CourseSummary struct {
	ID               uint   `json:"id"`
	Title            string `json:"title"`
	Slug             string `json:"slug"`
	Description      string `json:"description"`
	CompletedLessons int    `json:"completedLessons"`
}

func (s *ContentService) ListCourses(ctx context.Context, userID uint) ([]CourseSummary, error) {
	courses, err := s.Store.ListCourses(ctx)
	if err != nil {
		return nil, err
	}
	completed, err := s.Progress.CountCompleted(ctx, userID)
	if err != nil {
		return nil, err
	}

	out := make([]CourseSummary, 0, len(courses))
	for _, c := range courses {
		out = append(out, CourseSummary{
			ID:               c.ID,
			Title:            c.Title,
			Slug:             c.Slug,
			Description:      c.Description,
			CompletedLessons: completed[c.ID],
		})
	}
	return out, nil
}

// CourseOutline lists a course's lessons with the user's status for each.
// The first lesson is always open.
func (s *ContentService) CourseOutline(ctx context.Context, userID, courseID uint) (*CourseOutline, error) {
	course, err := s.Store.GetCourse(ctx, courseID)
	if err != nil {
		return nil, err
	}
	lessons, err := s.Store.ListLessons(ctx, courseID)
	if err != nil {
		return nil, err
	}
	progress, err := s.Progress.GetCourseProgress(ctx, userID, courseID)
	if err != nil {
		return nil, err
	}

	outline := &CourseOutline{
		ID:          course.ID,
		Title:       course.Title,
		Slug:        course.Slug,
		Description: course.Description,
		Lessons:     make([]LessonOutline, 0, len(lessons)),
	}
	for i, l := range lessons {
		status := LessonLocked
		switch {
		case progress.Completed[l.ID]:
			status = LessonCompleted
		case progress.Unlocked[l.ID] || i == 0:
			status = LessonUnlocked
		}
		outline.Lessons = append(outline.Lessons, LessonOutline{
			ID:     l.ID,
			Title:  l.Title,
			Order:  l.Order,
			Status: status,
		})
	}
	return outline, nil
}
