// Package mail delivers HTML digests over SMTP.
package mail

import (
	"bytes"
	"fmt"
	"mime"
	"net"
	"net/smtp"
	"strconv"
	"strings"
	"time"

	"github.com/julienpequegnot/presswatch/internal/config"
)

const defaultPort = 587

type sendFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

type Mailer struct {
	cfg  config.EmailConfig
	send sendFunc
	now  func() time.Time
}

func New(cfg config.EmailConfig) *Mailer {
	if cfg.Port == 0 {
		cfg.Port = defaultPort
	}
	return &Mailer{cfg: cfg, send: smtp.SendMail, now: time.Now}
}

// Validate reports every missing setting at once, named by its
// environment variable.
func (m *Mailer) Validate() error {
	var missing []string
	for _, f := range []struct {
		name  string
		value string
	}{
		{"EMAIL_SENDER", m.cfg.Sender},
		{"EMAIL_RECIPIENT", m.cfg.Recipient},
		{"SMTP_SERVER", m.cfg.Server},
		{"SMTP_USERNAME", m.cfg.Username},
		{"SMTP_PASSWORD", m.cfg.Password},
	} {
		if strings.TrimSpace(f.value) == "" {
			missing = append(missing, f.name)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("email is not configured, missing: %s", strings.Join(missing, ", "))
	}
	return nil
}

// Send mails htmlBody to the configured recipient. The connection is
// upgraded with STARTTLS when the server offers it.
func (m *Mailer) Send(subject, htmlBody string) error {
	if err := m.Validate(); err != nil {
		return err
	}

	addr := net.JoinHostPort(m.cfg.Server, strconv.Itoa(m.cfg.Port))
	auth := smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Server)
	msg := m.message(subject, htmlBody)

	if err := m.send(addr, auth, m.cfg.Sender, []string{m.cfg.Recipient}, msg); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

func (m *Mailer) message(subject, htmlBody string) []byte {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "From: %s\r\n", m.cfg.Sender)
	fmt.Fprintf(&buf, "To: %s\r\n", m.cfg.Recipient)
	fmt.Fprintf(&buf, "Subject: %s\r\n", mime.QEncoding.Encode("utf-8", subject))
	fmt.Fprintf(&buf, "Date: %s\r\n", m.now().Format(time.RFC1123Z))
	buf.WriteString("MIME-Version: 1.0\r\n")
	buf.WriteString("Content-Type: text/html; charset=\"utf-8\"\r\n")
	buf.WriteString("Content-Transfer-Encoding: 8bit\r\n")
	buf.WriteString("\r\n")
	buf.WriteString(strings.ReplaceAll(strings.ReplaceAll(htmlBody, "\r\n", "\n"), "\n", "\r\n"))
	return buf.Bytes()
}
