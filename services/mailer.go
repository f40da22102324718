package services

import (
	"fmt"

	"retrack-app/logger"

	"go.uber.org/zap"
	"gopkg.in/gomail.v2"
)

type Mailer interface {
	Send(to []string, subject, htmlBody string) error
}

type SMTPMailer struct {
	dialer *gomail.Dialer
	from   string
}

func NewSMTPMailer(host string, port int, user, password, from string) *SMTPMailer {
	return &SMTPMailer{dialer: gomail.NewDialer(host, port, user, password), from: from}
}

func (m *SMTPMailer) Send(to []string, subject, htmlBody string) error {
	if len(to) == 0 {
		return nil
	}
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to...)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", htmlBody)

	if err := m.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("send mail %q: %w", subject, err)
	}
	return nil
}

// LogMailer is used when SMTP is not configured; it only logs.
type LogMailer struct{}

func (LogMailer) Send(to []string, subject, _ string) error {
	logger.L().Info("mail not sent, smtp disabled", zap.Strings("to", to), zap.String("subject", subject))
	return nil
}

// sendAsync fires the mail in the background. Failures are logged only.
func sendAsync(m Mailer, to []string, subject, body string) {
	if m == nil {
		return
	}
	go func() {
		if err := m.Send(to, subject, body); err != nil {
			logger.L().Warn("mail delivery failed", zap.Strings("to", to), zap.Error(err))
		}
	}()
}
