// Package notify mails the run summary to the program staff.
package notify

import (
	"fmt"
	"net/smtp"
	"strings"

	"cp-etl/internal/config"
)

// Send delivers the run summary. An unset host disables mail, which keeps
// local and test runs quiet.
func Send(cfg config.SMTPConfig, subject, body string) error {
	if cfg.Host == "" || len(cfg.To) == 0 {
		return nil
	}
	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
	var auth smtp.Auth
	if cfg.User != "" {
		auth = smtp.PlainAuth("", cfg.User, cfg.Pass, cfg.Host)
	}
	msg := strings.Join([]string{
		"From: " + cfg.From,
		"To: " + strings.Join(cfg.To, ", "),
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=utf-8",
		"",
		body,
	}, "\r\n")
	if err := smtp.SendMail(addr, auth, cfg.From, cfg.To, []byte(msg)); err != nil {
		return fmt.Errorf("notify: send mail: %w", err)
	}
	return nil
}
