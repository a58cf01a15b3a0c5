package mailer

import (
	"bytes"
	"context"
	"crypto/rand"
	"crypto/tls"
	"encoding/hex"
	"fmt"
	"mime"
	"mime/quotedprintable"
	"net"
	"net/mail"
	"net/smtp"
	"strconv"
	"strings"
	"time"
)

// SMTPConfig configures SMTPSender.
type SMTPConfig struct {
	Host     string `env:"PATHWAY_SMTP_HOST"`
	Port     int    `env:"PATHWAY_SMTP_PORT" envDefault:"587"`
	Username string `env:"PATHWAY_SMTP_USERNAME"`
	Password string `env:"PATHWAY_SMTP_PASSWORD"`
	From     string `env:"PATHWAY_SMTP_FROM" envDefault:"AI Haven Labs <hello@aihavenlabs.com>"`
}

// Enabled reports whether an SMTP host is configured.
func (c SMTPConfig) Enabled() bool {
	return strings.TrimSpace(c.Host) != ""
}

// SMTPSender delivers mail through an SMTP relay, upgrading with STARTTLS
// when the server offers it.
type SMTPSender struct {
	addr      string
	host      string
	from      *mail.Address
	auth      smtp.Auth
	dialer    net.Dialer
	now       func() time.Time
	tlsConfig *tls.Config
}

// NewSMTPSender validates cfg and returns a sender.
func NewSMTPSender(cfg SMTPConfig) (*SMTPSender, error) {
	host := strings.TrimSpace(cfg.Host)
	if host == "" {
		return nil, fmt.Errorf("smtp host is required")
	}
	if cfg.Port <= 0 {
		return nil, fmt.Errorf("smtp port must be positive")
	}
	from, err := mail.ParseAddress(cfg.From)
	if err != nil {
		return nil, fmt.Errorf("parse smtp from address: %w", err)
	}
	sender := &SMTPSender{
		addr:      net.JoinHostPort(host, strconv.Itoa(cfg.Port)),
		host:      host,
		from:      from,
		dialer:    net.Dialer{Timeout: 10 * time.Second},
		now:       time.Now,
		tlsConfig: &tls.Config{ServerName: host, MinVersion: tls.VersionTLS12},
	}
	if cfg.Username != "" {
		sender.auth = smtp.PlainAuth("", cfg.Username, cfg.Password, host)
	}
	return sender, nil
}

// Send delivers msg.
func (s *SMTPSender) Send(ctx context.Context, msg Message) error {
	if err := validateMessage(msg); err != nil {
		return err
	}
	to, err := mail.ParseAddress(msg.To)
	if err != nil {
		return fmt.Errorf("parse recipient: %w", err)
	}
	body, err := buildMIME(s.from, to, msg, s.now())
	if err != nil {
		return err
	}

	conn, err := s.dialer.DialContext(ctx, "tcp", s.addr)
	if err != nil {
		return fmt.Errorf("dial smtp %s: %w", s.addr, err)
	}
	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}
	client, err := smtp.NewClient(conn, s.host)
	if err != nil {
		_ = conn.Close()
		return fmt.Errorf("smtp handshake: %w", err)
	}
	defer client.Close()

	if ok, _ := client.Extension("STARTTLS"); ok {
		if err := client.StartTLS(s.tlsConfig); err != nil {
			return fmt.Errorf("smtp starttls: %w", err)
		}
	}
	if s.auth != nil {
		if err := client.Auth(s.auth); err != nil {
			return fmt.Errorf("smtp auth: %w", err)
		}
	}
	if err := client.Mail(s.from.Address); err != nil {
		return fmt.Errorf("smtp mail from: %w", err)
	}
	if err := client.Rcpt(to.Address); err != nil {
		return fmt.Errorf("smtp rcpt to: %w", err)
	}
	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("smtp data: %w", err)
	}
	if _, err := w.Write(body); err != nil {
		_ = w.Close()
		return fmt.Errorf("smtp write body: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("smtp end data: %w", err)
	}
	return client.Quit()
}

// buildMIME renders msg as a multipart/alternative message.
func buildMIME(from, to *mail.Address, msg Message, now time.Time) ([]byte, error) {
	boundary, err := randomBoundary()
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	header := func(key, value string) {
		buf.WriteString(key)
		buf.WriteString(": ")
		buf.WriteString(value)
		buf.WriteString("\r\n")
	}
	header("From", from.String())
	header("To", to.String())
	header("Subject", mime.QEncoding.Encode("utf-8", msg.Subject))
	header("Date", now.UTC().Format(time.RFC1123Z))
	header("MIME-Version", "1.0")
	header("Content-Type", `multipart/alternative; boundary="`+boundary+`"`)
	buf.WriteString("\r\n")

	parts := []struct {
		contentType string
		body        string
	}{
		{"text/plain; charset=utf-8", msg.Text},
		{"text/html; charset=utf-8", msg.HTML},
	}
	for _, part := range parts {
		if part.body == "" {
			continue
		}
		buf.WriteString("--" + boundary + "\r\n")
		header("Content-Type", part.contentType)
		header("Content-Transfer-Encoding", "quoted-printable")
		buf.WriteString("\r\n")
		qp := quotedprintable.NewWriter(&buf)
		if _, err := qp.Write([]byte(part.body)); err != nil {
			return nil, fmt.Errorf("encode body: %w", err)
		}
		if err := qp.Close(); err != nil {
			return nil, fmt.Errorf("encode body: %w", err)
		}
		buf.WriteString("\r\n")
	}
	buf.WriteString("--" + boundary + "--\r\n")
	return buf.Bytes(), nil
}

func randomBoundary() (string, error) {
	var raw [12]byte
	if _, err := rand.Read(raw[:]); err != nil {
		return "", fmt.Errorf("generate boundary: %w", err)
	}
	return "pathway-" + hex.EncodeToString(raw[:]), nil
}
