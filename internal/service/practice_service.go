package service

import (
	"context"
	"errors"
	"fmt"
	"ravencode_backend/internal/lives"
	"ravencode_backend/internal/model"
	"ravencode_backend/internal/quiz"
	"ravencode_backend/internal/repository"
	"ravencode_backend/internal/streak"
	"ravencode_backend/internal/util"
	"ravencode_backend/pkg/logger"
	"ravencode_backend/pkg/monitoring"
	"ravencode_backend/pkg/tracing"
	"strconv"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// livesWriteAttempts bounds the read/compare-and-swap loop on the lives columns.
const livesWriteAttempts = 3

type UserStore interface {
	FindByID(ctx context.Context, id uint) (*model.User, error)
	SaveLives(ctx context.Context, userID uint, s lives.State, version int64) (bool, error)
	ApplyUpdates(ctx context.Context, userID uint, updates []repository.UserUpdate) error
}

type HistoryStore interface {
	Append(ctx context.Context, h *model.PracticeHistory) error
}

type QuestionGenerator interface {
	Generate(ctx context.Context, courseTitle, lessonTitle, content string) ([]quiz.Question, error)
}

type PracticeService struct {
	Users     UserStore
	Content   *ContentService
	History   HistoryStore
	Generator QuestionGenerator
	Rules     *RulesHolder
	Now       func() time.Time
}

func NewPracticeService(users UserStore, content *ContentService, history HistoryStore, gen QuestionGenerator, rules *RulesHolder) *PracticeService {
	return &PracticeService{
		Users:     users,
		Content:   content,
		History:   history,
		Generator: gen,
		Rules:     rules,
		Now:       time.Now,
	}
}

// swagger:model StartResult
type StartResult struct {
	Lives     int             `json:"lives"`
	Questions []quiz.Question `json:"questions"`
}

// Start opens a practice session: it spends one life and generates the
// questions for the lesson. Nothing is written unless the lesson exists and
// has content.
func (s *PracticeService) Start(ctx context.Context, userID, courseID, lessonID uint) (res *StartResult, err error) {
	ctx, span := tracing.Tracer.Start(ctx, "practice.start")
	defer func() {
		tracing.RecordError(span, err)
		span.End()
		monitoring.PracticeStarted.WithLabelValues(startOutcome(err)).Inc()
	}()
	span.SetAttributes(
		attribute.Int("user.id", int(userID)),
		attribute.Int("course.id", int(courseID)),
		attribute.Int("lesson.id", int(lessonID)),
	)

	if userID == 0 || courseID == 0 || lessonID == 0 {
		return nil, fmt.Errorf("userId, courseId and lessonId are required: %w", util.ErrInvalidInput)
	}

	course, lesson, err := s.Content.ResolveLesson(ctx, courseID, lessonID)
	if err != nil {
		return nil, err
	}
	content, err := s.Content.LessonContent(ctx, lesson)
	if err != nil {
		return nil, err
	}

	rules := s.Rules.Get()
	remaining, err := s.debitLife(ctx, userID, rules.Lives)
	if err != nil {
		return nil, err
	}

	questions, err := s.Generator.Generate(ctx, course.Title, lesson.Title, content)
	if err != nil {
		if !errors.Is(err, util.ErrGenerationFailure) {
			err = fmt.Errorf("%w: %v", util.ErrGenerationFailure, err)
		}
		if rules.RefundOnGenerationFailure {
			if rerr := s.refundLife(ctx, userID, rules.Lives); rerr != nil {
				logger.Log.Error("failed to refund life",
					zap.Uint("user_id", userID),
					zap.Error(rerr))
			}
		}
		return nil, err
	}

	logger.Log.Info("practice session started",
		zap.Uint("user_id", userID),
		zap.Uint("lesson_id", lessonID),
		zap.Int("lives", remaining))

	return &StartResult{Lives: remaining, Questions: questions}, nil
}

// debitLife recalculates and spends one life, returning what is left. At zero
// the recalculated state is still persisted before failing.
func (s *PracticeService) debitLife(ctx context.Context, userID uint, policy lives.Policy) (int, error) {
	for range livesWriteAttempts {
		user, err := s.Users.FindByID(ctx, userID)
		if err != nil {
			return 0, err
		}

		now := s.Now()
		state := policy.Recalculate(user.LifeState(policy, now), now)

		if state.Lives <= 0 {
			if _, err := s.Users.SaveLives(ctx, userID, state, user.LifeVersion); err != nil {
				return 0, err
			}
			return 0, util.ErrInsufficientLives
		}

		next := policy.Debit(state, now)
		ok, err := s.Users.SaveLives(ctx, userID, next, user.LifeVersion)
		if err != nil {
			return 0, err
		}
		if ok {
			monitoring.LivesDebited.Inc()
			return next.Lives, nil
		}
	}
	return 0, util.ErrLivesConflict
}

func (s *PracticeService) refundLife(ctx context.Context, userID uint, policy lives.Policy) error {
	for range livesWriteAttempts {
		user, err := s.Users.FindByID(ctx, userID)
		if err != nil {
			return err
		}

		now := s.Now()
		state := policy.Recalculate(user.LifeState(policy, now), now)
		ok, err := s.Users.SaveLives(ctx, userID, policy.Refund(state, now), user.LifeVersion)
		if err != nil {
			return err
		}
		if ok {
			monitoring.LivesRefunded.Inc()
			return nil
		}
	}
	return util.ErrLivesConflict
}

func startOutcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, util.ErrInsufficientLives):
		return "insufficient_lives"
	case errors.Is(err, util.ErrNotFound):
		return "not_found"
	case errors.Is(err, util.ErrGenerationFailure):
		return "generation_failed"
	case errors.Is(err, util.ErrLivesConflict):
		return "conflict"
	default:
		return "error"
	}
}

// SubmitRequest carries a finished session back from the client.
type SubmitRequest struct {
	CourseID  uint
	LessonID  uint
	Questions []quiz.Question
	Answers   map[string]quiz.Answer
}

// swagger:model SubmitResult
type SubmitResult struct {
	quiz.GradeResult
	UnlockedNextLessonID *uint `json:"unlockedNextLessonId"`
	Streak               int   `json:"streak"`
	XPAwarded            int   `json:"xpAwarded"`
}

// Submit grades a session and records streak, progress and XP in one write,
// then appends the history entry.
func (s *PracticeService) Submit(ctx context.Context, userID uint, req SubmitRequest) (res *SubmitResult, err error) {
	ctx, span := tracing.Tracer.Start(ctx, "practice.submit")
	defer func() {
		tracing.RecordError(span, err)
		span.End()
	}()

	if err := validateSubmission(userID, req); err != nil {
		return nil, err
	}

	user, err := s.Users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	lesson, err := s.Content.Store.GetLesson(ctx, req.LessonID)
	if err != nil {
		return nil, err
	}
	if lesson.CourseID != req.CourseID {
		return nil, fmt.Errorf("lesson %d, course %d: %w", req.LessonID, req.CourseID, util.ErrInvalidReference)
	}

	grade := quiz.Grade(req.Questions, req.Answers)
	rules := s.Rules.Get()
	now := s.Now()
	result := &SubmitResult{GradeResult: grade, Streak: user.Streak}

	var updates []repository.UserUpdate

	st := streak.Advance(user.Streak, user.LastStreakUpdate, now, rules.Location)
	if st.Changed {
		updates = append(updates,
			repository.Set("streak", st.Streak),
			repository.Set("last_streak_update", st.LastUpdate))
	}
	result.Streak = st.Streak

	if grade.Approved {
		next, err := s.Content.Store.GetNextLesson(ctx, req.CourseID, lesson.Order)
		if err != nil {
			return nil, err
		}
		if next != nil {
			updates = append(updates, repository.Union(model.ProgressUnlocked, req.CourseID, next.ID))
			result.UnlockedNextLessonID = &next.ID
		}
		updates = append(updates, repository.Union(model.ProgressCompleted, req.CourseID, req.LessonID))
	}

	if xp := grade.Score * rules.XPPerCorrect; xp > 0 {
		updates = append(updates, repository.Inc("xp", xp))
		result.XPAwarded = xp
	}

	if err := s.Users.ApplyUpdates(ctx, userID, updates); err != nil {
		return nil, fmt.Errorf("apply practice result: %w", err)
	}

	entry := &model.PracticeHistory{
		UserID:    userID,
		CourseID:  req.CourseID,
		LessonID:  req.LessonID,
		Score:     grade.Score,
		MaxScore:  grade.MaxScore,
		Approved:  grade.Approved,
		XPAwarded: result.XPAwarded,
		Results:   grade.Results,
	}
	if err := s.History.Append(ctx, entry); err != nil {
		return nil, fmt.Errorf("append practice history: %w", err)
	}

	monitoring.SessionsGraded.WithLabelValues(strconv.FormatBool(grade.Approved)).Inc()
	logger.Log.Info("practice session graded",
		zap.Uint("user_id", userID),
		zap.Uint("lesson_id", req.LessonID),
		zap.Int("score", grade.Score),
		zap.Bool("approved", grade.Approved))

	return result, nil
}

func validateSubmission(userID uint, req SubmitRequest) error {
	if userID == 0 || req.CourseID == 0 || req.LessonID == 0 {
		return fmt.Errorf("userId, courseId and lessonId are required: %w", util.ErrInvalidInput)
	}
	if len(req.Questions) == 0 || req.Answers == nil {
		return fmt.Errorf("questions and answers are required: %w", util.ErrInvalidInput)
	}
	if len(req.Questions) != quiz.QuestionsPerSession {
		return fmt.Errorf("expected %d questions, got %d: %w", quiz.QuestionsPerSession, len(req.Questions), util.ErrInvalidInput)
	}
	seen := make(map[string]bool, len(req.Questions))
	for i, q := range req.Questions {
		if q.ID == "" || q.CorrectAnswer.IsZero() {
			return fmt.Errorf("question %d is missing id or correct answer: %w", i+1, util.ErrInvalidInput)
		}
		if !q.Type.Valid() {
			return fmt.Errorf("question %d has unknown type %q: %w", i+1, q.Type, util.ErrInvalidInput)
		}
		if seen[q.ID] {
			return fmt.Errorf("duplicate question id %q: %w", q.ID, util.ErrInvalidInput)
		}
		seen[q.ID] = true
	}
	return nil
}
