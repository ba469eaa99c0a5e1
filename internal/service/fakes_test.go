package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"ravencode_backend/internal/lives"
	"ravencode_backend/internal/model"
	"ravencode_backend/internal/quiz"
	"ravencode_backend/internal/repository"
	"ravencode_backend/internal/util"
)

type fakeUsers struct {
	mu         sync.Mutex
	users      map[uint]*model.User
	saves      []lives.State
	staleSaves int // number of upcoming SaveLives calls that lose the race
	applied    [][]repository.UserUpdate
	applyErr   error
}

func newFakeUsers(users ...*model.User) *fakeUsers {
	f := &fakeUsers{users: map[uint]*model.User{}}
	for _, u := range users {
		f.users[u.ID] = u
	}
	return f
}

func (f *fakeUsers) FindByID(_ context.Context, id uint) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return nil, util.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUsers) SaveLives(_ context.Context, userID uint, s lives.State, version int64) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[userID]
	if !ok {
		return false, nil
	}
	if f.staleSaves > 0 {
		f.staleSaves--
		u.LifeVersion++
		return false, nil
	}
	if u.LifeVersion != version {
		return false, nil
	}
	n, at := s.Lives, s.LastLifeUpdate
	u.Lives, u.LastLifeUpdate = &n, &at
	u.LifeVersion++
	f.saves = append(f.saves, s)
	return true, nil
}

func (f *fakeUsers) ApplyUpdates(_ context.Context, userID uint, updates []repository.UserUpdate) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.applyErr != nil {
		return f.applyErr
	}
	u, ok := f.users[userID]
	if !ok {
		return util.ErrUserNotFound
	}
	for _, up := range updates {
		switch {
		case up.Kind == repository.SetField && up.Field == "streak":
			u.Streak = up.Value.(int)
		case up.Kind == repository.SetField && up.Field == "last_streak_update":
			t := up.Value.(time.Time)
			u.LastStreakUpdate = &t
		case up.Kind == repository.Increment && up.Field == "xp":
			u.XP += up.Value.(int)
		}
	}
	f.applied = append(f.applied, updates)
	return nil
}

func (f *fakeUsers) FindByIDs(_ context.Context, ids []uint) (map[uint]*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := map[uint]*model.User{}
	for _, id := range ids {
		if u, ok := f.users[id]; ok {
			out[id] = u
		}
	}
	return out, nil
}

func (f *fakeUsers) livesOf(id uint) (int, time.Time) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u := f.users[id]
	if u.Lives == nil {
		return -1, time.Time{}
	}
	return *u.Lives, *u.LastLifeUpdate
}

type fakeContent struct {
	courses map[uint]*model.Course
	lessons map[uint]*model.Lesson
	pages   map[uint][]model.ContentPage
	pageErr error
	reads   int
}

func newFakeContent() *fakeContent {
	return &fakeContent{
		courses: map[uint]*model.Course{},
		lessons: map[uint]*model.Lesson{},
		pages:   map[uint][]model.ContentPage{},
	}
}

func (f *fakeContent) GetCourse(_ context.Context, id uint) (*model.Course, error) {
	c, ok := f.courses[id]
	if !ok {
		return nil, fmt.Errorf("course %d: %w", id, util.ErrNotFound)
	}
	return c, nil
}

func (f *fakeContent) GetLesson(_ context.Context, id uint) (*model.Lesson, error) {
	l, ok := f.lessons[id]
	if !ok {
		return nil, fmt.Errorf("lesson %d: %w", id, util.ErrNotFound)
	}
	return l, nil
}

func (f *fakeContent) GetLessonPages(_ context.Context, theoryID uint) ([]model.ContentPage, error) {
	f.reads++
	return f.pages[theoryID], f.pageErr
}

func (f *fakeContent) GetNextLesson(_ context.Context, courseID uint, afterOrder int) (*model.Lesson, error) {
	var best *model.Lesson
	for _, l := range f.lessons {
		if l.CourseID != courseID || l.Order <= afterOrder {
			continue
		}
		if best == nil || l.Order < best.Order {
			best = l
		}
	}
	return best, nil
}

func (f *fakeContent) ListCourses(_ context.Context) ([]model.Course, error) {
	var out []model.Course
	for _, c := range f.courses {
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeContent) ListLessons(_ context.Context, courseID uint) ([]model.Lesson, error) {
	var out []model.Lesson
	for _, l := range f.lessons {
		if l.CourseID == courseID {
			out = append(out, *l)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Order < out[j].Order })
	return out, nil
}

type fakeProgress struct {
	progress  map[uint]*repository.CourseProgress
	completed map[uint]int
}

func (f *fakeProgress) GetCourseProgress(_ context.Context, _ uint, courseID uint) (*repository.CourseProgress, error) {
	if p, ok := f.progress[courseID]; ok {
		return p, nil
	}
	return &repository.CourseProgress{Unlocked: map[uint]bool{}, Completed: map[uint]bool{}}, nil
}

func (f *fakeProgress) CountCompleted(context.Context, uint) (map[uint]int, error) {
	return f.completed, nil
}

type fakeHistory struct {
	entries []*model.PracticeHistory
	err     error
}

func (f *fakeHistory) Append(_ context.Context, h *model.PracticeHistory) error {
	if f.err != nil {
		return f.err
	}
	f.entries = append(f.entries, h)
	return nil
}

// fakeGenerator records the lives persisted at the moment it is called.
type fakeGenerator struct {
	questions   []quiz.Question
	err         error
	calls       int
	users       *fakeUsers
	userID      uint
	livesAtCall int
	gotContent  string
}

func (f *fakeGenerator) Generate(_ context.Context, _, _, content string) ([]quiz.Question, error) {
	f.calls++
	f.gotContent = content
	if f.users != nil {
		f.livesAtCall, _ = f.users.livesOf(f.userID)
	}
	if f.err != nil {
		return nil, f.err
	}
	return f.questions, nil
}

var errBoom = errors.New("boom")

func sampleQuestions() []quiz.Question {
	return []quiz.Question{
		{ID: "q1", Type: quiz.SingleChoice, Text: "a", Options: []string{"x", "y"}, CorrectAnswer: quiz.Text("x")},
		{ID: "q2", Type: quiz.Boolean, Text: "b", CorrectAnswer: quiz.Bool(true)},
		{ID: "q3", Type: quiz.Reorder, Text: "c", Options: []string{"2", "1"}, CorrectAnswer: quiz.Sequence("1", "2")},
		{ID: "q4", Type: quiz.Boolean, Text: "d", CorrectAnswer: quiz.Bool(false)},
		{ID: "q5", Type: quiz.SingleChoice, Text: "e", Options: []string{"m", "n"}, CorrectAnswer: quiz.Text("n")},
	}
}
