package notifications

import (
	"context"
	"fmt"
	"log"
	"net/smtp"

	"github.com/Triostacksoftware/authkit/domain"
)

// SMTPServiceImpl implements domain.NotificationDispatcher over SMTP.
type SMTPServiceImpl struct {
	host     string
	port     int
	username string
	password string
	from     string
}

// NewSMTPService creates a new SMTP notification dispatcher.
func NewSMTPService(host string, port int, username, password, from string) domain.NotificationDispatcher {
	if from == "" {
		from = username
	}
	return &SMTPServiceImpl{
		host:     host,
		port:     port,
		username: username,
		password: password,
		from:     from,
	}
}

// Send implements domain.NotificationDispatcher. The SMTP exchange runs in
// its own goroutine so the call honors context cancellation; a deadline on
// ctx bounds the dispatch.
func (s *SMTPServiceImpl) Send(ctx context.Context, to string, msg domain.Message) error {
	// If credentials are not configured, log instead of sending
	if s.username == "" {
		log.Printf("[MOCK EMAIL] To: %s, Subject: %s", to, msg.Subject)
		return nil
	}

	addr := fmt.Sprintf("%s:%d", s.host, s.port)
	payload := buildMIMEMessage(s.from, to, msg)

	done := make(chan error, 1)
	go func() {
		auth := smtp.PlainAuth("", s.username, s.password, s.host)
		done <- smtp.SendMail(addr, auth, s.from, []string{to}, payload)
	}()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case err := <-done:
		if err != nil {
			return fmt.Errorf("failed to send email: %w", err)
		}
		return nil
	}
}

func buildMIMEMessage(from, to string, msg domain.Message) []byte {
	headers := fmt.Sprintf(
		"From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/html; charset=\"UTF-8\"\r\n\r\n",
		from, to, msg.Subject,
	)
	body := msg.HTML
	if body == "" {
		body = msg.Text
	}
	return []byte(headers + body)
}
