package alerts

import (
	"fmt"
	"log"

	"gopkg.in/gomail.v2"
)

// Mailer delivers an alert decision to the operator. Delivery failures are the
// caller's to log; they must never block or roll back the recognition result.
type Mailer interface {
	Send(d Decision) error
}

// SMTPMailer sends alert mail with the annotated image attached. A mailer with
// missing host or recipient configuration is disabled and drops sends with a
// log line instead of failing.
type SMTPMailer struct {
	Enabled bool

	dialer *gomail.Dialer
	from   string
	to     string
}

// SMTPSettings is the transport configuration for NewSMTPMailer.
type SMTPSettings struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
	To       string
}

func NewSMTPMailer(settings SMTPSettings) *SMTPMailer {
	if settings.Host == "" || settings.To == "" || settings.From == "" {
		log.Println("alerts: SMTP host, sender or recipient not configured, disabling alert mail")
		return &SMTPMailer{Enabled: false}
	}

	log.Printf("alerts: alert mail enabled via %s:%d to %s", settings.Host, settings.Port, settings.To)
	return &SMTPMailer{
		Enabled: true,
		dialer:  gomail.NewDialer(settings.Host, settings.Port, settings.User, settings.Password),
		from:    settings.From,
		to:      settings.To,
	}
}

// Send delivers the rendered alert payload.
func (m *SMTPMailer) Send(d Decision) error {
	if !m.Enabled {
		log.Printf("alerts: mailer disabled, dropping alert %q", d.Subject)
		return nil
	}
	if !d.Notify {
		return nil
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", m.to)
	msg.SetHeader("Subject", d.Subject)
	msg.SetBody("text/plain", d.Body)
	if d.AttachmentPath != "" {
		msg.Attach(d.AttachmentPath)
	}

	if err := m.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("alerts: failed to send alert mail: %w", err)
	}
	log.Printf("alerts: sent alert mail %q to %s", d.Subject, m.to)
	return nil
}
