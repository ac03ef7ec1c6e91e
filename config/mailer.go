package config

import (
	"crypto/tls"
	"fmt"
	"html"
	"os"
	"strconv"

	mail "github.com/go-mail/mail/v2"

	"github.com/moniquedpoliveira/licito3/models"
)

var (
	smtpHost = os.Getenv("SMTP_HOST")
	smtpPort = func() int {
		p, _ := strconv.Atoi(os.Getenv("SMTP_PORT"))
		if p == 0 {
			p = 587
		}
		return p
	}()
	smtpUser      = os.Getenv("SMTP_USER")
	smtpPass      = os.Getenv("SMTP_PASS")
	smtpFrom      = os.Getenv("SMTP_FROM") // e.g. "Licito <no-reply@example.gov.br>"
	skipTLSVerify = os.Getenv("SMTP_SKIP_TLS_VERIFY") == "1"
)

// SendMail delivers an HTML mail via STARTTLS on port 587.
func SendMail(to []string, subject, htmlBody string) error {
	if len(to) == 0 {
		return nil
	}
	if smtpHost == "" || smtpFrom == "" {
		return fmt.Errorf("smtp not configured (SMTP_HOST/SMTP_FROM)")
	}

	m := mail.NewMessage()
	m.SetHeader("From", smtpFrom)
	m.SetHeader("To", to...)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", htmlBody)

	d := mail.NewDialer(smtpHost, smtpPort, smtpUser, smtpPass)
	d.StartTLSPolicy = mail.MandatoryStartTLS
	d.TLSConfig = &tls.Config{
		ServerName:         smtpHost,
		InsecureSkipVerify: skipTLSVerify,
	}

	return d.DialAndSend(m)
}

// MailAlerter is the best-effort notification side channel: high and critical
// notifications with direct targets go out by mail. Errors are reported to
// the caller, which logs and moves on.
type MailAlerter struct{}

// NewMailAlerter returns nil when SMTP is not configured so the notification
// manager skips alerting entirely.
func NewMailAlerter() *MailAlerter {
	if smtpHost == "" || smtpFrom == "" {
		return nil
	}
	return &MailAlerter{}
}

func (a *MailAlerter) Alert(n models.Notification) error {
	if n.Priority != models.PriorityHigh && n.Priority != models.PriorityCritical {
		return nil
	}
	if len(n.TargetUsers) == 0 {
		return nil
	}
	body := fmt.Sprintf("<h3>%s</h3><p>%s</p>", html.EscapeString(n.Title), html.EscapeString(n.Message))
	return SendMail(n.TargetUsers, n.Title, body)
}
