package service

import (
	"context"
	"testing"
	"time"

	"ravencode_backend/internal/lives"
	"ravencode_backend/internal/model"
	"ravencode_backend/internal/quiz"
	"ravencode_backend/internal/repository"
	"ravencode_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2026, 5, 4, 10, 0, 0, 0, time.UTC)

type practiceFixture struct {
	users   *fakeUsers
	content *fakeContent
	history *fakeHistory
	gen     *fakeGenerator
	rules   *RulesHolder
	svc     *PracticeService
	now     time.Time
}

func intPtr(n int) *int              { return &n }
func timePtr(t time.Time) *time.Time { return &t }
func uintPtr(n uint) *uint           { return &n }

func newPracticeFixture(user *model.User) *practiceFixture {
	content := newFakeContent()
	content.courses[1] = &model.Course{BaseModel: model.BaseModel{ID: 1}, Title: "Go"}
	content.courses[2] = &model.Course{BaseModel: model.BaseModel{ID: 2}, Title: "Rust"}
	content.lessons[10] = &model.Lesson{BaseModel: model.BaseModel{ID: 10}, CourseID: 1, Title: "Intro", Order: 1, TheoryID: uintPtr(7)}
	content.lessons[11] = &model.Lesson{BaseModel: model.BaseModel{ID: 11}, CourseID: 1, Title: "No theory", Order: 2}
	content.lessons[12] = &model.Lesson{BaseModel: model.BaseModel{ID: 12}, CourseID: 1, Title: "Empty", Order: 3, TheoryID: uintPtr(8)}
	content.lessons[20] = &model.Lesson{BaseModel: model.BaseModel{ID: 20}, CourseID: 2, Title: "Ownership", Order: 1, TheoryID: uintPtr(7)}
	content.pages[7] = []model.ContentPage{
		{Title: "Hello", Body: "fmt.Println", Order: 1},
		{Title: "Vars", Body: "var x int", Order: 2},
	}

	users := newFakeUsers(user)
	gen := &fakeGenerator{questions: sampleQuestions(), users: users, userID: user.ID}
	history := &fakeHistory{}
	rules := NewRulesHolder(PracticeRules{
		Lives:        lives.DefaultPolicy(),
		XPPerCorrect: 10,
		Location:     time.UTC,
	})

	f := &practiceFixture{users: users, content: content, history: history, gen: gen, rules: rules, now: t0}
	f.svc = NewPracticeService(users, NewContentService(content, &fakeProgress{}, nil), history, gen, rules)
	f.svc.Now = func() time.Time { return f.now }
	return f
}

func newUser() *model.User {
	return &model.User{BaseModel: model.BaseModel{ID: 1}, Name: "Ada", Email: "ada@example.com"}
}

func TestStart_FreshUserSpendsOneLife(t *testing.T) {
	f := newPracticeFixture(newUser())

	res, err := f.svc.Start(context.Background(), 1, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, 4, res.Lives)
	assert.Len(t, res.Questions, quiz.QuestionsPerSession)

	n, anchor := f.users.livesOf(1)
	assert.Equal(t, 4, n)
	assert.True(t, anchor.Equal(t0), "debit from full restarts the countdown at now")

	assert.Equal(t, "## Hello\n\nfmt.Println\n\n---\n\n## Vars\n\nvar x int", f.gen.gotContent)
}

func TestStart_DebitPersistedBeforeGeneration(t *testing.T) {
	u := newUser()
	u.Lives = intPtr(3)
	u.LastLifeUpdate = timePtr(t0.Add(-10 * time.Minute))
	f := newPracticeFixture(u)

	_, err := f.svc.Start(context.Background(), 1, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, 2, f.gen.livesAtCall)

	_, anchor := f.users.livesOf(1)
	assert.True(t, anchor.Equal(t0.Add(-10*time.Minute)), "partial refill progress is kept")
}

func TestStart_RefillsBeforeDebit(t *testing.T) {
	u := newUser()
	u.Lives = intPtr(0)
	u.LastLifeUpdate = timePtr(t0.Add(-65 * time.Minute))
	f := newPracticeFixture(u)

	res, err := f.svc.Start(context.Background(), 1, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Lives)

	_, anchor := f.users.livesOf(1)
	assert.True(t, anchor.Equal(t0.Add(-5*time.Minute)))
}

func TestStart_EmptyUserRefilledToCapAfterFivePeriods(t *testing.T) {
	u := newUser()
	u.Lives = intPtr(0)
	u.LastLifeUpdate = timePtr(t0.Add(-5 * 30 * time.Minute))
	f := newPracticeFixture(u)

	res, err := f.svc.Start(context.Background(), 1, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, 4, res.Lives)

	_, anchor := f.users.livesOf(1)
	assert.True(t, anchor.Equal(t0))
}

func TestStart_InsufficientLives(t *testing.T) {
	u := newUser()
	u.Lives = intPtr(0)
	u.LastLifeUpdate = timePtr(t0.Add(-29 * time.Minute))
	f := newPracticeFixture(u)

	_, err := f.svc.Start(context.Background(), 1, 1, 10)
	assert.ErrorIs(t, err, util.ErrInsufficientLives)
	assert.Zero(t, f.gen.calls)

	// the recalculated state is still written
	require.Len(t, f.users.saves, 1)
	assert.Equal(t, 0, f.users.saves[0].Lives)
}

func TestStart_NegativeStoredLivesAreClamped(t *testing.T) {
	u := newUser()
	u.Lives = intPtr(-2)
	u.LastLifeUpdate = timePtr(t0)
	f := newPracticeFixture(u)

	_, err := f.svc.Start(context.Background(), 1, 1, 10)
	assert.ErrorIs(t, err, util.ErrInsufficientLives)
	n, _ := f.users.livesOf(1)
	assert.Equal(t, 0, n)
}

func TestStart_LookupFailuresDoNotTouchLives(t *testing.T) {
	tests := []struct {
		name     string
		courseID uint
		lessonID uint
		want     error
	}{
		{"missing ids", 0, 10, util.ErrInvalidInput},
		{"missing course", 9, 10, util.ErrNotFound},
		{"missing lesson", 1, 99, util.ErrNotFound},
		{"lesson of another course", 2, 10, util.ErrInvalidReference},
		{"lesson without theory", 1, 11, util.ErrNotFound},
		{"theory without pages", 1, 12, util.ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newPracticeFixture(newUser())

			_, err := f.svc.Start(context.Background(), 1, tt.courseID, tt.lessonID)
			assert.ErrorIs(t, err, tt.want)
			assert.Empty(t, f.users.saves)
			assert.Zero(t, f.gen.calls)
		})
	}
}

func TestStart_UnknownUser(t *testing.T) {
	f := newPracticeFixture(newUser())

	_, err := f.svc.Start(context.Background(), 42, 1, 10)
	assert.ErrorIs(t, err, util.ErrNotFound)
}

func TestStart_GenerationFailureKeepsLifeSpent(t *testing.T) {
	f := newPracticeFixture(newUser())
	f.gen.err = errBoom

	_, err := f.svc.Start(context.Background(), 1, 1, 10)
	assert.ErrorIs(t, err, util.ErrGenerationFailure)

	n, _ := f.users.livesOf(1)
	assert.Equal(t, 4, n)
}

func TestStart_GenerationFailureRefundsWhenConfigured(t *testing.T) {
	u := newUser()
	u.Lives = intPtr(3)
	u.LastLifeUpdate = timePtr(t0.Add(-10 * time.Minute))
	f := newPracticeFixture(u)
	rules := f.rules.Get()
	rules.RefundOnGenerationFailure = true
	f.rules.Set(rules)
	f.gen.err = errBoom

	_, err := f.svc.Start(context.Background(), 1, 1, 10)
	assert.ErrorIs(t, err, util.ErrGenerationFailure)

	n, anchor := f.users.livesOf(1)
	assert.Equal(t, 3, n)
	assert.True(t, anchor.Equal(t0.Add(-10*time.Minute)))
}

func TestStart_RetriesLostRace(t *testing.T) {
	f := newPracticeFixture(newUser())
	f.users.staleSaves = 1

	res, err := f.svc.Start(context.Background(), 1, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, 4, res.Lives)
}

func TestStart_ConflictAfterRepeatedRaces(t *testing.T) {
	f := newPracticeFixture(newUser())
	f.users.staleSaves = livesWriteAttempts

	_, err := f.svc.Start(context.Background(), 1, 1, 10)
	assert.ErrorIs(t, err, util.ErrLivesConflict)
	assert.Zero(t, f.gen.calls)
}

func answersFor(correct int) map[string]quiz.Answer {
	right := map[string]quiz.Answer{
		"q1": quiz.Text("x"),
		"q2": quiz.Bool(true),
		"q3": quiz.Sequence("1", "2"),
		"q4": quiz.Bool(false),
		"q5": quiz.Text("n"),
	}
	out := map[string]quiz.Answer{}
	for i, id := range []string{"q1", "q2", "q3", "q4", "q5"} {
		if i < correct {
			out[id] = right[id]
		} else {
			out[id] = quiz.Text("wrong")
		}
	}
	return out
}

func unions(updates []repository.UserUpdate) []repository.UserUpdate {
	var out []repository.UserUpdate
	for _, u := range updates {
		if u.Kind == repository.UnionAppend {
			out = append(out, u)
		}
	}
	return out
}

func TestSubmit_ApprovedUnlocksNextAndCompletesCurrent(t *testing.T) {
	f := newPracticeFixture(newUser())

	res, err := f.svc.Submit(context.Background(), 1, SubmitRequest{
		CourseID: 1, LessonID: 10, Questions: sampleQuestions(), Answers: answersFor(3),
	})
	require.NoError(t, err)
	assert.Equal(t, 3, res.Score)
	assert.Equal(t, 5, res.MaxScore)
	assert.True(t, res.Approved)
	require.NotNil(t, res.UnlockedNextLessonID)
	assert.Equal(t, uint(11), *res.UnlockedNextLessonID)
	assert.Equal(t, 1, res.Streak)
	assert.Equal(t, 30, res.XPAwarded)

	require.Len(t, f.users.applied, 1, "one combined write")
	assert.ElementsMatch(t, []repository.UserUpdate{
		repository.Union(model.ProgressUnlocked, 1, 11),
		repository.Union(model.ProgressCompleted, 1, 10),
	}, unions(f.users.applied[0]))

	u, _ := f.users.FindByID(context.Background(), 1)
	assert.Equal(t, 30, u.XP)
	assert.Equal(t, 1, u.Streak)
	require.NotNil(t, u.LastStreakUpdate)
	assert.True(t, u.LastStreakUpdate.Equal(t0))

	require.Len(t, f.history.entries, 1)
	h := f.history.entries[0]
	assert.Equal(t, 3, h.Score)
	assert.True(t, h.Approved)
	assert.Len(t, h.Results, 5)
}

func TestSubmit_NotApprovedRecordsNoProgress(t *testing.T) {
	f := newPracticeFixture(newUser())

	res, err := f.svc.Submit(context.Background(), 1, SubmitRequest{
		CourseID: 1, LessonID: 10, Questions: sampleQuestions(), Answers: answersFor(2),
	})
	require.NoError(t, err)
	assert.False(t, res.Approved)
	assert.Nil(t, res.UnlockedNextLessonID)
	assert.Equal(t, 20, res.XPAwarded)
	assert.Empty(t, unions(f.users.applied[0]))
	assert.Equal(t, 1, res.Streak, "streak advances on any graded session")
}

func TestSubmit_ZeroScoreAwardsNoXP(t *testing.T) {
	f := newPracticeFixture(newUser())

	res, err := f.svc.Submit(context.Background(), 1, SubmitRequest{
		CourseID: 1, LessonID: 10, Questions: sampleQuestions(), Answers: map[string]quiz.Answer{},
	})
	require.NoError(t, err)
	assert.Zero(t, res.Score)
	assert.Zero(t, res.XPAwarded)
	for _, u := range f.users.applied[0] {
		assert.NotEqual(t, repository.Increment, u.Kind)
	}
}

func TestSubmit_LastLessonOnlyCompletes(t *testing.T) {
	f := newPracticeFixture(newUser())

	res, err := f.svc.Submit(context.Background(), 1, SubmitRequest{
		CourseID: 2, LessonID: 20, Questions: sampleQuestions(), Answers: answersFor(5),
	})
	require.NoError(t, err)
	assert.Nil(t, res.UnlockedNextLessonID)
	assert.Equal(t, []repository.UserUpdate{repository.Union(model.ProgressCompleted, 2, 20)}, unions(f.users.applied[0]))
}

func TestSubmit_Streak(t *testing.T) {
	tests := []struct {
		name      string
		streak    int
		last      *time.Time
		want      int
		wantWrite bool
	}{
		{"same day unchanged", 4, timePtr(t0.Add(-2 * time.Hour)), 4, false},
		{"previous day extends", 4, timePtr(t0.Add(-24 * time.Hour)), 5, true},
		{"gap resets", 4, timePtr(t0.Add(-72 * time.Hour)), 1, true},
		{"first session", 0, nil, 1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := newUser()
			u.Streak = tt.streak
			u.LastStreakUpdate = tt.last
			f := newPracticeFixture(u)

			res, err := f.svc.Submit(context.Background(), 1, SubmitRequest{
				CourseID: 1, LessonID: 10, Questions: sampleQuestions(), Answers: answersFor(1),
			})
			require.NoError(t, err)
			assert.Equal(t, tt.want, res.Streak)

			wrote := false
			for _, up := range f.users.applied[0] {
				if up.Kind == repository.SetField && up.Field == "streak" {
					wrote = true
				}
			}
			assert.Equal(t, tt.wantWrite, wrote)
		})
	}
}

func TestSubmit_Errors(t *testing.T) {
	valid := SubmitRequest{CourseID: 1, LessonID: 10, Questions: sampleQuestions(), Answers: answersFor(3)}

	tests := []struct {
		name   string
		userID uint
		mutate func(*SubmitRequest)
		want   error
	}{
		{"missing lesson id", 1, func(r *SubmitRequest) { r.LessonID = 0 }, util.ErrInvalidInput},
		{"no questions", 1, func(r *SubmitRequest) { r.Questions = nil }, util.ErrInvalidInput},
		{"no answers", 1, func(r *SubmitRequest) { r.Answers = nil }, util.ErrInvalidInput},
		{"question without answer key", 1, func(r *SubmitRequest) {
			r.Questions = append([]quiz.Question{}, r.Questions...)
			r.Questions[0].CorrectAnswer = quiz.Answer{}
		}, util.ErrInvalidInput},
		{"duplicate ids", 1, func(r *SubmitRequest) {
			r.Questions = append([]quiz.Question{}, r.Questions...)
			r.Questions[1].ID = "q1"
		}, util.ErrInvalidInput},
		{"four questions", 1, func(r *SubmitRequest) { r.Questions = sampleQuestions()[:4] }, util.ErrInvalidInput},
		{"six questions", 1, func(r *SubmitRequest) {
			extra := quiz.Question{ID: "q6", Type: quiz.Boolean, Text: "f", CorrectAnswer: quiz.Bool(true)}
			r.Questions = append(sampleQuestions(), extra)
		}, util.ErrInvalidInput},
		{"unknown question type", 1, func(r *SubmitRequest) {
			r.Questions = sampleQuestions()
			r.Questions[2].Type = "essay"
		}, util.ErrInvalidInput},
		{"unknown user", 42, func(*SubmitRequest) {}, util.ErrNotFound},
		{"unknown lesson", 1, func(r *SubmitRequest) { r.LessonID = 99 }, util.ErrNotFound},
		{"lesson of another course", 1, func(r *SubmitRequest) { r.CourseID = 2 }, util.ErrInvalidReference},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newPracticeFixture(newUser())
			req := valid
			tt.mutate(&req)

			_, err := f.svc.Submit(context.Background(), tt.userID, req)
			assert.ErrorIs(t, err, tt.want)
			assert.Empty(t, f.users.applied)
			assert.Empty(t, f.history.entries)
		})
	}
}

func TestSubmit_HistoryFailureIsReported(t *testing.T) {
	f := newPracticeFixture(newUser())
	f.history.err = errBoom

	_, err := f.svc.Submit(context.Background(), 1, SubmitRequest{
		CourseID: 1, LessonID: 10, Questions: sampleQuestions(), Answers: answersFor(3),
	})
	assert.ErrorIs(t, err, errBoom)
	assert.Len(t, f.users.applied, 1, "profile write happens before history")
}

func TestSubmit_ApplyFailureSkipsHistory(t *testing.T) {
	f := newPracticeFixture(newUser())
	f.users.applyErr = errBoom

	_, err := f.svc.Submit(context.Background(), 1, SubmitRequest{
		CourseID: 1, LessonID: 10, Questions: sampleQuestions(), Answers: answersFor(3),
	})
	assert.ErrorIs(t, err, errBoom)
	assert.Empty(t, f.history.entries)
}
