package mail

import (
	"errors"
	"net/smtp"
	"strings"
	"testing"
	"time"

	"github.com/julienpequegnot/presswatch/internal/config"
)

func fullConfig() config.EmailConfig {
	return config.EmailConfig{
		Sender:    "pregled@ured.hr",
		Recipient: "urednik@ured.hr",
		Server:    "smtp.ured.hr",
		Username:  "pregled",
		Password:  "tajna",
	}
}

func TestValidateListsAllMissing(t *testing.T) {
	m := New(config.EmailConfig{Sender: "a@b.hr", Server: "smtp"})

	err := m.Validate()
	if err == nil {
		t.Fatal("expected validation error")
	}
	for _, key := range []string{"EMAIL_RECIPIENT", "SMTP_USERNAME", "SMTP_PASSWORD"} {
		if !strings.Contains(err.Error(), key) {
			t.Errorf("expected %s in %q", key, err.Error())
		}
	}
	if strings.Contains(err.Error(), "EMAIL_SENDER") {
		t.Errorf("did not expect configured key in %q", err.Error())
	}
}

func TestSend(t *testing.T) {
	m := New(fullConfig())
	m.now = func() time.Time { return time.Date(2025, 3, 10, 7, 0, 0, 0, time.UTC) }

	var gotAddr, gotFrom string
	var gotTo []string
	var gotMsg []byte
	m.send = func(addr string, a smtp.Auth, from string, to []string, msg []byte) error {
		gotAddr, gotFrom, gotTo, gotMsg = addr, from, to, msg
		return nil
	}

	if err := m.Send("Dnevni pregled vijesti", "<p>Bok</p>\n<p>Kraj</p>"); err != nil {
		t.Fatalf("Send failed: %v", err)
	}
	if gotAddr != "smtp.ured.hr:587" {
		t.Errorf("expected default port 587, got %s", gotAddr)
	}
	if gotFrom != "pregled@ured.hr" || len(gotTo) != 1 || gotTo[0] != "urednik@ured.hr" {
		t.Errorf("unexpected envelope %s -> %v", gotFrom, gotTo)
	}
	msg := string(gotMsg)
	for _, want := range []string{
		"Subject: Dnevni pregled vijesti\r\n",
		"Content-Type: text/html; charset=\"utf-8\"\r\n",
		"\r\n\r\n<p>Bok</p>\r\n<p>Kraj</p>",
	} {
		if !strings.Contains(msg, want) {
			t.Errorf("expected message to contain %q\n%s", want, msg)
		}
	}
}

func TestSendEncodesSubject(t *testing.T) {
	m := New(fullConfig())
	var msg string
	m.send = func(addr string, a smtp.Auth, from string, to []string, b []byte) error {
		msg = string(b)
		return nil
	}

	if err := m.Send("Pregled — članci", "x"); err != nil {
		t.Fatalf("Send failed: %v", err)
	}
	if !strings.Contains(msg, "Subject: =?utf-8?q?") {
		t.Errorf("expected encoded subject\n%s", msg)
	}
}

func TestSendError(t *testing.T) {
	m := New(fullConfig())
	m.send = func(string, smtp.Auth, string, []string, []byte) error {
		return errors.New("connection refused")
	}

	if err := m.Send("s", "b"); err == nil || !strings.Contains(err.Error(), "connection refused") {
		t.Errorf("expected wrapped send error, got %v", err)
	}
}

func TestSendNotConfigured(t *testing.T) {
	m := New(config.EmailConfig{})
	called := false
	m.send = func(string, smtp.Auth, string, []string, []byte) error {
		called = true
		return nil
	}

	if err := m.Send("s", "b"); err == nil {
		t.Error("expected configuration error")
	}
	if called {
		t.Error("expected no delivery attempt")
	}
}
