package notify

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/smtp"
	"strings"
	"testing"
)

func TestSlackWebhook_Send(t *testing.T) {
	var got map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Content-Type") != "application/json" {
			t.Errorf("content type = %q", r.Header.Get("Content-Type"))
		}
		_ = json.NewDecoder(r.Body).Decode(&got)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	if err := NewSlackWebhook(srv.URL).Send(context.Background(), "", "*Standup summary*"); err != nil {
		t.Fatalf("Send() error = %v", err)
	}
	if got["text"] != "*Standup summary*" {
		t.Fatalf("payload = %v", got)
	}
}

func TestSlackWebhook_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "invalid_token", http.StatusForbidden)
	}))
	defer srv.Close()

	err := NewSlackWebhook(srv.URL).Send(context.Background(), "", "hi")
	if err == nil || !strings.Contains(err.Error(), "403") {
		t.Fatalf("Send() error = %v, want 403", err)
	}
}

func TestEmail_Send(t *testing.T) {
	e := NewEmail(EmailConfig{Host: "smtp.example.com", Port: 587, User: "bot", Password: "pw", From: "standup@example.com", To: []string{"team@example.com"}})

	var addr string
	var msg []byte
	e.sendMail = func(a string, _ smtp.Auth, _ string, _ []string, m []byte) error {
		addr, msg = a, m
		return nil
	}

	if err := e.Send(context.Background(), "Standup core", "line one\nline two"); err != nil {
		t.Fatalf("Send() error = %v", err)
	}
	if addr != "smtp.example.com:587" {
		t.Fatalf("addr = %q", addr)
	}
	for _, want := range []string{"Subject: Standup core\r\n", "To: team@example.com\r\n", "line one\r\nline two"} {
		if !strings.Contains(string(msg), want) {
			t.Errorf("message missing %q", want)
		}
	}

	e.sendMail = func(string, smtp.Auth, string, []string, []byte) error { return errors.New("connection refused") }
	if err := e.Send(context.Background(), "s", "b"); err == nil {
		t.Fatalf("Send() should surface SMTP errors")
	}
}
