// Package mailer provides functionality to send emails over SMTP. It is used
// to notify the support inbox when a contact form submission arrives.
package mailer

import (
	"fmt"
	"net/smtp"
	"strings"
)

// Mailer sends emails through a configured SMTP server.
type Mailer struct {
	host     string
	port     string
	username string
	password string
}

// NewMailerConfig contains options for creating a new Mailer.
type NewMailerConfig struct {
	Host     string
	Port     string
	Username string
	Password string
}

// NewMailer creates a new Mailer. Returns an error when the SMTP server
// address is incomplete.
func NewMailer(cfg NewMailerConfig) (*Mailer, error) {
	if cfg.Host == "" || cfg.Port == "" {
		return nil, fmt.Errorf("SMTP host and port must be provided")
	}
	return &Mailer{
		host:     cfg.Host,
		port:     cfg.Port,
		username: cfg.Username,
		password: cfg.Password,
	}, nil
}

// SendEmail sends an email. The body can be plain text or HTML; the
// Content-Type header is inferred from basic HTML tags in the body.
func (m *Mailer) SendEmail(recipient, sender, subject, body string) error {
	if recipient == "" {
		return fmt.Errorf("recipient email address cannot be empty")
	}
	if sender == "" {
		return fmt.Errorf("sender email address cannot be empty")
	}
	if subject == "" {
		return fmt.Errorf("email subject cannot be empty")
	}

	contentType := "text/plain; charset=UTF-8"
	lowerBody := strings.ToLower(body)
	if strings.Contains(lowerBody, "<html>") || strings.Contains(lowerBody, "<p>") {
		contentType = "text/html; charset=UTF-8"
	}

	message := []byte(fmt.Sprintf("To: %s\r\n"+
		"From: %s\r\n"+
		"Subject: %s\r\n"+
		"Content-Type: %s\r\n"+
		"\r\n"+
		"%s\r\n", recipient, sender, subject, contentType, body))

	var auth smtp.Auth
	if m.username != "" {
		auth = smtp.PlainAuth("", m.username, m.password, m.host)
	}

	if err := smtp.SendMail(m.host+":"+m.port, auth, sender, []string{recipient}, message); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}
