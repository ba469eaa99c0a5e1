package service

import (
	"context"
	"testing"

	"ravencode_backend/internal/model"
	"ravencode_backend/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssembleContent(t *testing.T) {
	assert.Equal(t, "", AssembleContent(nil))
	assert.Equal(t, "## A\n\none", AssembleContent([]model.ContentPage{{Title: "A", Body: "one"}}))
	assert.Equal(t, "## A\n\none\n\n---\n\n## B\n\ntwo", AssembleContent([]model.ContentPage{
		{Title: "A", Body: "one"},
		{Title: "B", Body: "two"},
	}))
}

func TestContentService_CourseOutline(t *testing.T) {
	f := newPracticeFixture(newUser())
	progress := &fakeProgress{progress: map[uint]*repository.CourseProgress{
		1: {Unlocked: map[uint]bool{11: true}, Completed: map[uint]bool{10: true}},
	}}
	svc := NewContentService(f.content, progress, nil)

	outline, err := svc.CourseOutline(context.Background(), 1, 1)
	require.NoError(t, err)
	require.Len(t, outline.Lessons, 3)
	assert.Equal(t, LessonCompleted, outline.Lessons[0].Status)
	assert.Equal(t, LessonUnlocked, outline.Lessons[1].Status)
	assert.Equal(t, LessonLocked, outline.Lessons[2].Status)
}

func TestContentService_FirstLessonAlwaysOpen(t *testing.T) {
	f := newPracticeFixture(newUser())
	svc := NewContentService(f.content, &fakeProgress{}, nil)

	outline, err := svc.CourseOutline(context.Background(), 1, 2)
	require.NoError(t, err)
	require.Len(t, outline.Lessons, 1)
	assert.Equal(t, LessonUnlocked, outline.Lessons[0].Status)
}

func TestContentService_ListCourses(t *testing.T) {
	f := newPracticeFixture(newUser())
	svc := NewContentService(f.content, &fakeProgress{completed: map[uint]int{1: 2}}, nil)

	courses, err := svc.ListCourses(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, courses, 2)
	assert.Equal(t, 2, courses[0].CompletedLessons)
	assert.Equal(t, 0, courses[1].CompletedLessons)
}
