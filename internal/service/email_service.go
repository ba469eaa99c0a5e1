package service

import (
	"context"
	"fmt"
	"html"
	"ravencode_backend/internal/repository"
	"ravencode_backend/pkg/logger"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"
	"go.uber.org/zap"
)

// Mailer sends one weekly summary to one learner.
type Mailer interface {
	SendWeeklySummary(ctx context.Context, toEmail, toName string, stats repository.WeeklyStats) error
}

// EmailService sends mail through Amazon SES. Without a from address it is
// disabled and only logs what it would have sent.
type EmailService struct {
	client     *sesv2.Client
	fromEmail  string
	fromName   string
	appBaseURL string
	enabled    bool
}

func NewEmailService(awsRegion, fromEmail, fromName, appBaseURL string) (*EmailService, error) {
	if fromEmail == "" {
		logger.Log.Info("Email service disabled: SES from address not configured")
		return &EmailService{enabled: false, appBaseURL: appBaseURL}, nil
	}

	cfg, err := awsconfig.LoadDefaultConfig(context.TODO(),
		awsconfig.WithRegion(awsRegion),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	logger.Log.Info("Email service enabled",
		zap.String("from", fromEmail),
		zap.String("region", awsRegion))

	return &EmailService{
		client:     sesv2.NewFromConfig(cfg),
		fromEmail:  fromEmail,
		fromName:   fromName,
		appBaseURL: appBaseURL,
		enabled:    true,
	}, nil
}

func (s *EmailService) IsEnabled() bool {
	return s.enabled
}

func (s *EmailService) SendWeeklySummary(ctx context.Context, toEmail, toName string, stats repository.WeeklyStats) error {
	if !s.enabled {
		logger.Log.Info("Skipping email send (service disabled)",
			zap.String("kind", "weekly_summary"),
			zap.Uint("user_id", stats.UserID))
		return nil
	}

	subject, htmlBody, textBody := weeklySummaryEmail(toName, s.appBaseURL, stats)
	return s.sendEmail(ctx, toEmail, subject, htmlBody, textBody)
}

func weeklySummaryEmail(name, baseURL string, stats repository.WeeklyStats) (subject, htmlBody, textBody string) {
	subject = "Your RavenCode week"

	htmlBody = fmt.Sprintf(`<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"></head>
<body style="font-family: Arial, sans-serif; color: #333;">
	<h2>Hi %s,</h2>
	<p>Here is your practice this week:</p>
	<ul>
		<li>Sessions: %d</li>
		<li>Lessons passed: %d</li>
		<li>Average score: %.1f / 5</li>
		<li>XP earned: %d</li>
	</ul>
	<p><a href="%s">Keep practicing</a></p>
</body>
</html>
`, html.EscapeString(name), stats.Sessions, stats.Approved, stats.AverageScore, stats.XP, html.EscapeString(baseURL))

	textBody = fmt.Sprintf(`Hi %s,

Here is your practice this week:
- Sessions: %d
- Lessons passed: %d
- Average score: %.1f / 5
- XP earned: %d

Keep practicing: %s
`, name, stats.Sessions, stats.Approved, stats.AverageScore, stats.XP, baseURL)

	return subject, htmlBody, textBody
}

func (s *EmailService) sendEmail(ctx context.Context, toEmail, subject, htmlBody, textBody string) error {
	fromAddress := s.fromEmail
	if s.fromName != "" {
		fromAddress = fmt.Sprintf("%s <%s>", s.fromName, s.fromEmail)
	}

	input := &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(fromAddress),
		Destination: &types.Destination{
			ToAddresses: []string{toEmail},
		},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{
					Data:    aws.String(subject),
					Charset: aws.String("UTF-8"),
				},
				Body: &types.Body{
					Html: &types.Content{
						Data:    aws.String(htmlBody),
						Charset: aws.String("UTF-8"),
					},
					Text: &types.Content{
						Data:    aws.String(textBody),
						Charset: aws.String("UTF-8"),
					},
				},
			},
		},
	}

	result, err := s.client.SendEmail(ctx, input)
	if err != nil {
		return fmt.Errorf("failed to send email to %s: %w", toEmail, err)
	}

	logger.Log.Debug("Email sent",
		zap.String("subject", subject),
		zap.Stringp("message_id", result.MessageId))
	return nil
}
