// Package mail delivers contact form messages to the blog owner.
package mail

import (
	"context"
	"fmt"
	"log"
	"net"
	"net/smtp"
	"strings"

	"github.com/VitaminP8/blogery/internal/config"
)

type ContactMessage struct {
	Name    string `json:"name" validate:"required,max=100"`
	Email   string `json:"email" validate:"required,email"`
	Phone   string `json:"phone" validate:"max=40"`
	Message string `json:"message" validate:"required,max=5000"`
}

// Body renders the message as plain text.
func (m ContactMessage) Body() string {
	return fmt.Sprintf("Name: %s\nEmail: %s\nPhone: %s\nMessage: %s\n", m.Name, m.Email, m.Phone, m.Message)
}

type Sender interface {
	Send(ctx context.Context, msg ContactMessage) error
}

// NewSender picks SMTP delivery when it is configured and logging otherwise.
func NewSender(cfg config.SMTPConfig) Sender {
	if !cfg.Enabled() {
		log.Println("SMTP is not configured, contact messages will only be logged")
		return LogSender{}
	}
	return &SMTPSender{cfg: cfg, send: smtp.SendMail}
}

type SMTPSender struct {
	cfg  config.SMTPConfig
	send func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

func (s *SMTPSender) Send(ctx context.Context, msg ContactMessage) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	from := s.cfg.User
	if from == "" {
		from = s.cfg.Recipient
	}

	var auth smtp.Auth
	if s.cfg.User != "" {
		auth = smtp.PlainAuth("", s.cfg.User, s.cfg.Password, s.cfg.Host)
	}

	addr := net.JoinHostPort(s.cfg.Host, s.cfg.Port)
	err := s.send(addr, auth, from, []string{s.cfg.Recipient}, buildMessage(from, s.cfg.Recipient, msg))
	if err != nil {
		return fmt.Errorf("failed to send contact mail via %s: %w", addr, err)
	}
	return nil
}

func buildMessage(from, to string, msg ContactMessage) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", to)
	fmt.Fprintf(&b, "Reply-To: %s\r\n", sanitizeHeader(msg.Email))
	fmt.Fprintf(&b, "Subject: New Message from %s\r\n", sanitizeHeader(msg.Name))
	b.WriteString("Content-Type: text/plain; charset=UTF-8\r\n\r\n")
	b.WriteString(strings.ReplaceAll(msg.Body(), "\n", "\r\n"))
	return []byte(b.String())
}

// sanitizeHeader drops line breaks so user input cannot add headers.
func sanitizeHeader(v string) string {
	return strings.NewReplacer("\r", " ", "\n", " ").Replace(v)
}

type LogSender struct{}

func (LogSender) Send(_ context.Context, msg ContactMessage) error {
	log.Printf("contact message from %s <%s>: %q", msg.Name, msg.Email, msg.Message)
	return nil
}
