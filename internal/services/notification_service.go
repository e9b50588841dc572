package services

import (
	"fmt"

	"github.com/resend/resend-go/v2"
	"go.uber.org/zap"

	"asset-system/pkg/config"
)

type NotificationServiceInterface interface {
	SendPasswordResetEmail(to, token string) error
}

type resendNotificationService struct {
	client *resend.Client
	cfg    config.MailConfig
	logger *zap.Logger
}

func NewResendNotificationService(cfg config.MailConfig, logger *zap.Logger) NotificationServiceInterface {
	return &resendNotificationService{
		client: resend.NewClient(cfg.ResendAPIKey),
		cfg:    cfg,
		logger: logger,
	}
}

func (s *resendNotificationService) SendPasswordResetEmail(to, token string) error {
	link := fmt.Sprintf("%s?token=%s", s.cfg.ResetBaseURL, token)

	params := &resend.SendEmailRequest{
		From:    s.cfg.FromAddress,
		To:      []string{to},
		Subject: "Password reset",
		Html: fmt.Sprintf(
			`<p>A password reset was requested for your account.</p>
			<p><a href="%s">Reset your password</a></p>
			<p>The link expires in 15 minutes. If you did not request this, ignore this email.</p>`,
			link,
		),
	}

	sent, err := s.client.Emails.Send(params)
	if err != nil {
		s.logger.Error("password reset email failed", zap.String("to", to), zap.Error(err))
		return err
	}

	s.logger.Info("password reset email sent", zap.String("to", to), zap.String("email_id", sent.Id))
	return nil
}

// mockNotificationService logs instead of sending. Used when no mail API
// key is configured, and in tests.
type mockNotificationService struct {
	logger *zap.Logger
}

func NewMockNotificationService(logger *zap.Logger) NotificationServiceInterface {
	return &mockNotificationService{logger: logger}
}

func (s *mockNotificationService) SendPasswordResetEmail(to, token string) error {
	s.logger.Info("password reset email (mock)",
		zap.String("to", to),
		zap.String("token", token),
	)
	return nil
}
