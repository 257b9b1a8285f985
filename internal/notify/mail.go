package notify

import (
	"context"
	"fmt"
	"strings"
	"time"

	"orderbot_backend/platform/config"

	gomail "github.com/wneessen/go-mail"
)

// MailSender delivers plain-text messages over SMTP for suppliers that have
// no WhatsApp contact.
type MailSender struct {
	host      string
	port      int
	username  string
	password  string
	fromName  string
	fromEmail string
}

// NewMailSender creates an SMTP sender from config, or nil when email
// delivery is disabled.
func NewMailSender(cfg config.EmailConfig) *MailSender {
	if !cfg.IsEmailEnabled() {
		return nil
	}
	return &MailSender{
		host:      cfg.GetSMTPHost(),
		port:      cfg.GetSMTPPort(),
		username:  cfg.GetSMTPUsername(),
		password:  cfg.GetSMTPPassword(),
		fromName:  cfg.GetEmailFromName(),
		fromEmail: cfg.GetEmailFromAddress(),
	}
}

// Send delivers the text as a plain-text email. The first line of the
// payload becomes the subject.
func (s *MailSender) Send(ctx context.Context, contact, text string) error {
	msg := gomail.NewMsg()
	if err := msg.FromFormat(s.fromName, s.fromEmail); err != nil {
		return fmt.Errorf("smtp from: %w", err)
	}
	if err := msg.To(contact); err != nil {
		return fmt.Errorf("smtp to: %w", err)
	}
	msg.Subject(subjectOf(text))
	msg.SetBodyString(gomail.TypeTextPlain, text)

	client, err := gomail.NewClient(s.host,
		gomail.WithPort(s.port),
		gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
		gomail.WithUsername(s.username),
		gomail.WithPassword(s.password),
		gomail.WithTLSPortPolicy(gomail.TLSOpportunistic),
		gomail.WithTimeout(15*time.Second),
	)
	if err != nil {
		return fmt.Errorf("smtp client: %w", err)
	}

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}

	return nil
}

func subjectOf(text string) string {
	line, _, _ := strings.Cut(strings.TrimSpace(text), "\n")
	line = strings.TrimSpace(strings.Trim(line, "*_"))
	if len([]rune(line)) > 78 {
		line = string([]rune(line)[:78])
	}
	if line == "" {
		return "Сообщение"
	}
	return line
}
