package worker

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/vibe-gaming/bmr-reminder/internal/config"
	"github.com/vibe-gaming/bmr-reminder/internal/domain"
	"github.com/vibe-gaming/bmr-reminder/internal/repository"
	emailProvider "github.com/vibe-gaming/bmr-reminder/pkg/email"
	"github.com/vibe-gaming/bmr-reminder/pkg/metrics"

	"go.uber.org/zap"
)

type emailSender struct {
	sender     emailProvider.Sender
	emailsSent repository.EmailsSent
	config     config.EmailConfig
	logger     *zap.Logger
	now        func() time.Time
}

func newEmailSender(
	sender emailProvider.Sender,
	emailsSent repository.EmailsSent,
	config config.EmailConfig,
	logger *zap.Logger,
	now func() time.Time,
) *emailSender {
	return &emailSender{
		sender:     sender,
		emailsSent: emailsSent,
		config:     config,
		logger:     logger,
		now:        now,
	}
}

type notificationEmailInput struct {
	Email           string
	Code            int64
	Link            string
	UnsubscribeLink string
}

type composedEmail struct {
	subject  string
	template string
	link     string
}

func (s *emailSender) compose(n domain.Notification) (*composedEmail, error) {
	base := strings.TrimRight(s.config.BaseURL, "/")
	templates := s.config.Templates

	switch n.Kind {
	case domain.NotificationSignupConfirm:
		return &composedEmail{
			subject:  "Please confirm your email to start receiving BMR/TDEE update reminders!",
			template: templates.SignupConfirm,
			link:     fmt.Sprintf("%s/user/confirm/%d/%d", base, n.SubID, n.Code),
		}, nil
	case domain.NotificationUpdateConfirm:
		return &composedEmail{
			subject:  "Were you trying to update your measurements?",
			template: templates.UpdateConfirm,
			link:     fmt.Sprintf("%s/update/review/%d/%d", base, n.SubID, n.Code),
		}, nil
	case domain.NotificationUpdateReminder:
		return &composedEmail{
			subject:  "It's time to update your measurements!",
			template: templates.UpdateReminder,
			link:     fmt.Sprintf("%s/update/%d/%d", base, n.SubID, n.Code),
		}, nil
	case domain.NotificationUnsubscribeConfirm:
		return &composedEmail{
			subject:  "Please confirm you would like to unsubscribe from receiving reminders",
			template: templates.UnsubscribeConfirm,
			link:     fmt.Sprintf("%s/unsubscribe/%d/%d", base, n.SubID, n.Code),
		}, nil
	}

	return nil, fmt.Errorf("unknown notification kind %q", n.Kind)
}

// Send renders and delivers the notification, then records it in the audit
// log. A failed audit write does not make the send fail.
func (s *emailSender) Send(ctx context.Context, n domain.Notification) error {
	kind := string(n.Kind)

	if !s.config.Enabled {
		metrics.RecordNotification(kind, "skipped")
		s.logger.Debug("email disabled, notification dropped", zap.String("kind", kind), zap.Int64("sub_id", n.SubID))
		return nil
	}

	composed, err := s.compose(n)
	if err != nil {
		return err
	}

	templateInput := notificationEmailInput{
		Email:           n.Email,
		Code:            n.Code,
		Link:            composed.link,
		UnsubscribeLink: strings.TrimRight(s.config.BaseURL, "/") + "/unsubscribe",
	}
	sendInput := emailProvider.SendEmailInput{Subject: composed.subject, To: n.Email}

	if err := sendInput.GenerateBodyFromHTML(s.config.Templates.Dir, composed.template, templateInput); err != nil {
		return fmt.Errorf("generate email failed: %w", err)
	}

	if err := s.sender.Send(sendInput); err != nil {
		metrics.RecordNotification(kind, "send_failed")
		return fmt.Errorf("send email failed: %w", err)
	}
	metrics.RecordNotification(kind, "sent")

	audit := &domain.EmailSent{
		DateSent:  s.now(),
		Category:  n.Kind,
		Recipient: n.Email,
		Subject:   sendInput.Subject,
		Contents:  sendInput.Body,
	}
	if err := s.emailsSent.Create(ctx, audit); err != nil {
		s.logger.Error("record sent email failed", zap.String("kind", kind), zap.Int64("sub_id", n.SubID), zap.Error(err))
	}

	return nil
}
