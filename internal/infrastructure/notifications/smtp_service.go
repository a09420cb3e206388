package notifications

import (
	"context"
	"fmt"
	"log"
	"net/smtp"
	"strings"

	"github.com/you/hrflowsvc/domain"
)

// SMTPServiceImpl implements domain.Mailer over plain SMTP.
type SMTPServiceImpl struct {
	host string
	port int
	user string
	pass string
	from string
}

// NewSMTPService creates a new SMTP mailer
func NewSMTPService(host string, port int, user, pass, from string) domain.Mailer {
	return &SMTPServiceImpl{
		host: host,
		port: port,
		user: user,
		pass: pass,
		from: from,
	}
}

// Send implements domain.Mailer. When no SMTP host is configured the message
// is logged instead of sent, which keeps local development working without
// a mail relay.
func (s *SMTPServiceImpl) Send(ctx context.Context, email domain.Email) error {
	if s.host == "" {
		log.Printf("[MOCK EMAIL] To: %s, Subject: %s", email.To, email.Subject)
		return nil
	}

	var msg strings.Builder
	msg.WriteString("From: " + s.from + "\r\n")
	msg.WriteString("To: " + email.To + "\r\n")
	msg.WriteString("Subject: " + email.Subject + "\r\n")
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n")
	msg.WriteString("\r\n")
	msg.WriteString(email.HTML)

	addr := fmt.Sprintf("%s:%d", s.host, s.port)
	var auth smtp.Auth
	if s.user != "" {
		auth = smtp.PlainAuth("", s.user, s.pass, s.host)
	}

	done := make(chan error, 1)
	go func() {
		done <- smtp.SendMail(addr, auth, s.from, []string{email.To}, []byte(msg.String()))
	}()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}
