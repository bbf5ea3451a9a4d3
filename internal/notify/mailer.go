package notify

import (
	"fmt"

	"github.com/adsarees/storefront/config"
	"gopkg.in/gomail.v2"
)

const lockoutSubject = "⚠️ Security Alert: Multiple failed logins"

// Mailer sends security alerts over SMTP
type Mailer struct {
	cfg  config.AlertConfig
	send func(m *gomail.Message) error
}

func NewMailer(cfg config.AlertConfig) *Mailer {
	m := &Mailer{cfg: cfg}
	m.send = func(msg *gomail.Message) error {
		d := gomail.NewDialer(cfg.SmtpHost, cfg.SmtpPort, cfg.Email, cfg.Password)
		return d.DialAndSend(msg)
	}
	return m
}

// LockoutAlert builds the alert for a locked username
func (m *Mailer) LockoutAlert(username string, attempts int) *gomail.Message {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.cfg.Email)
	msg.SetHeader("To", m.cfg.Recipient)
	msg.SetHeader("Subject", lockoutSubject)
	msg.SetBody("text/plain", fmt.Sprintf(
		"There have been more than %d failed login attempts for username: %s", attempts, username))
	return msg
}

func (m *Mailer) SendLockoutAlert(username string, attempts int) error {
	if !m.cfg.Enabled() {
		return ErrNotConfigured
	}
	return m.send(m.LockoutAlert(username, attempts))
}
