package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"ravencode_backend/internal/model"
	"ravencode_backend/internal/repository"
	"ravencode_backend/pkg/logger"
	"time"

	"go.uber.org/zap"
)

const summaryWindow = 7 * 24 * time.Hour

type WeeklyAggregator interface {
	WeeklyAggregates(ctx context.Context, since time.Time) ([]repository.WeeklyStats, error)
}

type UserLookup interface {
	FindByIDs(ctx context.Context, ids []uint) (map[uint]*model.User, error)
}

type Archiver interface {
	Upload(ctx context.Context, filename string, reader io.Reader, size int64, contentType string) (string, error)
}

type SummaryService struct {
	History WeeklyAggregator
	Users   UserLookup
	Mailer  Mailer
	Archive Archiver
	Now     func() time.Time
}

func NewSummaryService(history WeeklyAggregator, users UserLookup, mailer Mailer, archive Archiver) *SummaryService {
	return &SummaryService{
		History: history,
		Users:   users,
		Mailer:  mailer,
		Archive: archive,
		Now:     time.Now,
	}
}

type WeeklyEntry struct {
	repository.WeeklyStats
	Name  string `json:"name"`
	Email string `json:"email"`
	Sent  bool   `json:"sent"`
}

// swagger:model WeeklyReport
type WeeklyReport struct {
	GeneratedAt   time.Time     `json:"generatedAt"`
	Since         time.Time     `json:"since"`
	Entries       []WeeklyEntry `json:"entries"`
	Sent          int           `json:"sent"`
	FailedUserIDs []uint        `json:"failedUserIds"`
	ArchiveURL    string        `json:"archiveUrl,omitempty"`
}

// RunWeekly mails every learner active in the last seven days and archives
// the report. A failure for one learner is logged and recorded in the report
// without stopping the run.
func (s *SummaryService) RunWeekly(ctx context.Context) (*WeeklyReport, error) {
	now := s.Now().UTC()
	since := now.Add(-summaryWindow)

	stats, err := s.History.WeeklyAggregates(ctx, since)
	if err != nil {
		return nil, fmt.Errorf("aggregate history: %w", err)
	}

	ids := make([]uint, len(stats))
	for i, st := range stats {
		ids[i] = st.UserID
	}
	users, err := s.Users.FindByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load users: %w", err)
	}

	report := &WeeklyReport{
		GeneratedAt:   now,
		Since:         since,
		Entries:       make([]WeeklyEntry, 0, len(stats)),
		FailedUserIDs: []uint{},
	}

	for _, st := range stats {
		entry := WeeklyEntry{WeeklyStats: st}
		user, ok := users[st.UserID]
		if !ok {
			logger.Log.Warn("weekly summary: user not found", zap.Uint("user_id", st.UserID))
			report.FailedUserIDs = append(report.FailedUserIDs, st.UserID)
			report.Entries = append(report.Entries, entry)
			continue
		}
		entry.Name, entry.Email = user.Name, user.Email

		if err := s.Mailer.SendWeeklySummary(ctx, user.Email, user.Name, st); err != nil {
			logger.Log.Error("weekly summary: send failed", zap.Uint("user_id", st.UserID), zap.Error(err))
			report.FailedUserIDs = append(report.FailedUserIDs, st.UserID)
		} else {
			entry.Sent = true
			report.Sent++
		}
		report.Entries = append(report.Entries, entry)
	}

	if s.Archive != nil {
		body, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return report, err
		}
		name := fmt.Sprintf("reports/weekly-summary-%s.json", now.Format("2006-01-02"))
		url, err := s.Archive.Upload(ctx, name, bytes.NewReader(body), int64(len(body)), "application/json")
		if err != nil {
			logger.Log.Error("weekly summary: archive failed", zap.Error(err))
		} else {
			report.ArchiveURL = url
		}
	}

	logger.Log.Info("weekly summary finished",
		zap.Int("users", len(stats)),
		zap.Int("sent", report.Sent),
		zap.Int("failed", len(report.FailedUserIDs)))
	return report, nil
}
