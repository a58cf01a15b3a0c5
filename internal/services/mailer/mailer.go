// Package mailer renders and delivers back-office email.
package mailer

import (
	"context"
	"fmt"
	"log"
	"strings"
)

// Message is a single outgoing email with text and HTML bodies.
type Message struct {
	To      string
	Subject string
	HTML    string
	Text    string
}

// Sender delivers one message.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// SenderFunc adapts a function to Sender.
type SenderFunc func(ctx context.Context, msg Message) error

// Send calls f.
func (f SenderFunc) Send(ctx context.Context, msg Message) error {
	return f(ctx, msg)
}

// LogSender logs messages instead of delivering them. It is used when no
// SMTP host is configured.
type LogSender struct {
	Logger *log.Logger
}

// Send logs the recipient and subject.
func (s LogSender) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := validateMessage(msg); err != nil {
		return err
	}
	logf := log.Printf
	if s.Logger != nil {
		logf = s.Logger.Printf
	}
	logf("mail not delivered (log sender) to=%s subject=%q bytes=%d", msg.To, msg.Subject, len(msg.HTML)+len(msg.Text))
	return nil
}

func validateMessage(msg Message) error {
	if strings.TrimSpace(msg.To) == "" {
		return fmt.Errorf("recipient is required")
	}
	if strings.ContainsAny(msg.To, "\r\n") || strings.ContainsAny(msg.Subject, "\r\n") {
		return fmt.Errorf("header values must not contain line breaks")
	}
	if strings.TrimSpace(msg.Subject) == "" {
		return fmt.Errorf("subject is required")
	}
	return nil
}
