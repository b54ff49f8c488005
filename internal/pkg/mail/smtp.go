// Package mail sends transactional email over plain SMTP.
package mail

import (
	"context"
	"fmt"
	"net/smtp"
	"path/filepath"
	"strings"

	"github.com/al3-rom/wannago/internal/config"
	"github.com/al3-rom/wannago/internal/domain"
)

type SMTPMailer struct {
	conf *config.SMTPConfig
}

func NewSMTPMailer(conf *config.SMTPConfig) *SMTPMailer {
	return &SMTPMailer{
		conf: conf,
	}
}

func (m *SMTPMailer) send(to []string, subject, body string) error {
	msg := strings.Join([]string{
		"From: " + m.conf.Sender,
		"To: " + strings.Join(to, ", "),
		"Subject: " + subject,
		"MIME-Version: 1.0",
		`Content-Type: text/plain; charset="utf-8"`,
		"",
		body,
	}, "\r\n")

	addr := m.conf.Host + ":" + m.conf.Port
	auth := smtp.PlainAuth("", m.conf.Username, m.conf.Password, m.conf.Host)

	if err := smtp.SendMail(addr, auth, m.conf.Sender, to, []byte(msg)); err != nil {
		return fmt.Errorf("smtp.SendMail -> %w", err)
	}

	return nil
}

func (m *SMTPMailer) SendVerification(_ context.Context, to domain.User, link string) error {
	body := fmt.Sprintf("Hi %s,\n\nPlease confirm your email address by opening the link below:\n\n%s\n\nIf you did not sign up, you can ignore this message.\n", to.Name, link)

	return m.send([]string{to.Email}, "Verify your email address", body)
}

func (m *SMTPMailer) SendContact(_ context.Context, from domain.User, subject, message string, attachments []string) error {
	var b strings.Builder
	fmt.Fprintf(&b, "Message from %s <%s>:\n\n%s\n", from.Name, from.Email, message)
	if len(attachments) > 0 {
		b.WriteString("\nAttached files:\n")
		for _, a := range attachments {
			fmt.Fprintf(&b, "  %s\n", filepath.Base(a))
		}
	}

	return m.send([]string{m.conf.ContactAddress}, "[contact] "+subject, b.String())
}
