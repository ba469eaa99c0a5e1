package service

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"testing"
	"time"

	"ravencode_backend/internal/model"
	"ravencode_backend/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubAggregator struct {
	stats []repository.WeeklyStats
	since time.Time
}

func (s *stubAggregator) WeeklyAggregates(_ context.Context, since time.Time) ([]repository.WeeklyStats, error) {
	s.since = since
	return s.stats, nil
}

type stubMailer struct {
	failFor map[string]bool
	sent    []string
}

func (m *stubMailer) SendWeeklySummary(_ context.Context, toEmail, _ string, _ repository.WeeklyStats) error {
	if m.failFor[toEmail] {
		return errBoom
	}
	m.sent = append(m.sent, toEmail)
	return nil
}

type memArchive struct {
	name string
	body []byte
}

func (a *memArchive) Upload(_ context.Context, filename string, r io.Reader, _ int64, _ string) (string, error) {
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, r); err != nil {
		return "", err
	}
	a.name, a.body = filename, buf.Bytes()
	return "/uploads/" + filename, nil
}

func TestSummaryService_RunWeekly(t *testing.T) {
	users := newFakeUsers(
		&model.User{BaseModel: model.BaseModel{ID: 1}, Name: "Ada", Email: "ada@example.com"},
		&model.User{BaseModel: model.BaseModel{ID: 2}, Name: "Bob", Email: "bob@example.com"},
	)
	agg := &stubAggregator{stats: []repository.WeeklyStats{
		{UserID: 1, Sessions: 3, Approved: 2, AverageScore: 3.3, XP: 100},
		{UserID: 2, Sessions: 1},
		{UserID: 3, Sessions: 1},
	}}
	mailer := &stubMailer{failFor: map[string]bool{"bob@example.com": true}}
	archive := &memArchive{}

	svc := NewSummaryService(agg, users, mailer, archive)
	svc.Now = func() time.Time { return t0 }

	report, err := svc.RunWeekly(context.Background())
	require.NoError(t, err)

	assert.True(t, agg.since.Equal(t0.Add(-7*24*time.Hour)))
	assert.Equal(t, []string{"ada@example.com"}, mailer.sent)
	assert.Equal(t, 1, report.Sent)
	assert.Equal(t, []uint{2, 3}, report.FailedUserIDs)
	assert.Len(t, report.Entries, 3)

	assert.Equal(t, "reports/weekly-summary-2026-05-04.json", archive.name)
	assert.Equal(t, "/uploads/reports/weekly-summary-2026-05-04.json", report.ArchiveURL)

	var archived WeeklyReport
	require.NoError(t, json.Unmarshal(archive.body, &archived))
	assert.Equal(t, 1, archived.Sent)
}

func TestWeeklySummaryEmail(t *testing.T) {
	subject, html, text := weeklySummaryEmail("<Ada>", "https://ravencode.dev", repository.WeeklyStats{Sessions: 4, Approved: 3, AverageScore: 3.5, XP: 140})
	assert.NotEmpty(t, subject)
	assert.Contains(t, html, "&lt;Ada&gt;")
	assert.Contains(t, text, "Sessions: 4")
	assert.Contains(t, text, "Average score: 3.5 / 5")
}

func TestEmailService_DisabledSkipsSend(t *testing.T) {
	svc, err := NewEmailService("", "", "RavenCode", "")
	require.NoError(t, err)
	assert.False(t, svc.IsEnabled())
	assert.NoError(t, svc.SendWeeklySummary(context.Background(), "a@example.com", "A", repository.WeeklyStats{UserID: 1}))
}
