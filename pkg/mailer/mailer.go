// Package mailer sends transactional email over SMTP. When no credentials
// are configured it degrades to logging, which keeps local development and
// tests free of a mail server.
package mailer

import (
	"fmt"
	"net/smtp"

	"go.uber.org/zap"

	"studybuddy/config"
	"studybuddy/pkg/logger"
)

type Mailer struct {
	cfg config.MailConfig
}

func New(cfg config.MailConfig) *Mailer {
	return &Mailer{cfg: cfg}
}

func (m *Mailer) enabled() bool {
	return m.cfg.Username != "" && m.cfg.Password != ""
}

func (m *Mailer) Send(to, subject, body string) error {
	if !m.enabled() {
		logger.Info("mail disabled, skipping send",
			zap.String("to", to), zap.String("subject", subject))
		return nil
	}

	from := m.cfg.From
	if from == "" {
		from = m.cfg.Username
	}
	msg := []byte(fmt.Sprintf(
		"From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/plain; charset=utf-8\r\n\r\n%s\r\n",
		from, to, subject, body))

	addr := fmt.Sprintf("%s:%d", m.cfg.Host, m.cfg.Port)
	auth := smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)
	return smtp.SendMail(addr, auth, from, []string{to}, msg)
}

// SendResetCode mails the password reset code to the user.
func (m *Mailer) SendResetCode(to, code string) error {
	body := fmt.Sprintf(
		"Your password reset code is: %s\n\nThe code expires in 15 minutes. If you did not request a reset, ignore this email.",
		code)
	return m.Send(to, "Password reset code", body)
}
