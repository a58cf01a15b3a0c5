package mailer

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"log"
	"net"
	"net/mail"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestRenderMarkdown(t *testing.T) {
	html, err := RenderMarkdown("# Launch\n\nWe ~~might~~ will ship.\n\n<script>alert(1)</script>")
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(html, "<h1>Launch</h1>") {
		t.Fatalf("missing heading: %s", html)
	}
	if !strings.Contains(html, "<del>might</del>") {
		t.Fatalf("missing strikethrough: %s", html)
	}
	if strings.Contains(html, "<script>") {
		t.Fatalf("raw html should be dropped: %s", html)
	}
}

func TestLogSender(t *testing.T) {
	var buf bytes.Buffer
	sender := LogSender{Logger: log.New(&buf, "", 0)}
	if err := sender.Send(context.Background(), Message{To: "ada@example.com", Subject: "Hi"}); err != nil {
		t.Fatalf("send: %v", err)
	}
	if !strings.Contains(buf.String(), "to=ada@example.com") {
		t.Fatalf("log = %q", buf.String())
	}
	if err := sender.Send(context.Background(), Message{To: "ada@example.com", Subject: "Hi\r\nBcc: x"}); err == nil {
		t.Fatal("expected header injection to fail")
	}
}

func TestDedupe(t *testing.T) {
	got := Dedupe([]string{"A@x.com", " a@x.com", "", "b@x.com"})
	if strings.Join(got, ",") != "a@x.com,b@x.com" {
		t.Fatalf("dedupe = %v", got)
	}
}

func TestBulkSendCountsFailuresWithoutAborting(t *testing.T) {
	var (
		inFlight atomic.Int32
		peak     atomic.Int32
	)
	sender := SenderFunc(func(ctx context.Context, msg Message) error {
		current := inFlight.Add(1)
		defer inFlight.Add(-1)
		for {
			old := peak.Load()
			if current <= old || peak.CompareAndSwap(old, current) {
				break
			}
		}
		time.Sleep(2 * time.Millisecond)
		if strings.HasPrefix(msg.To, "bad") {
			return errors.New("mailbox unavailable")
		}
		if msg.HTML == "" || msg.Text == "" {
			return errors.New("missing body")
		}
		return nil
	})

	recipients := []string{"a@x.com", "bad1@x.com", "b@x.com", "c@x.com", "bad2@x.com", "d@x.com"}
	result, err := BulkSend(context.Background(), sender, recipients, "News", "**hello**", 2)
	if err != nil {
		t.Fatalf("bulk send: %v", err)
	}
	if result.Sent != 4 || result.Failed != 2 || result.Skipped != 0 {
		t.Fatalf("result = %+v", result)
	}
	if len(result.Failures) != 2 {
		t.Fatalf("failures = %+v", result.Failures)
	}
	if got := peak.Load(); got > 2 {
		t.Fatalf("peak concurrency = %d, want <= 2", got)
	}
}

func TestBulkSendStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	var calls atomic.Int32
	sender := SenderFunc(func(ctx context.Context, msg Message) error {
		if calls.Add(1) == 1 {
			cancel()
		}
		return nil
	})
	recipients := make([]string, 20)
	for i := range recipients {
		recipients[i] = "user" + strconv.Itoa(i) + "@x.com"
	}
	result, err := BulkSend(ctx, sender, recipients, "News", "hi", 1)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("error = %v, want context.Canceled", err)
	}
	if result.Skipped == 0 || result.Sent+result.Failed+result.Skipped != len(recipients) {
		t.Fatalf("result = %+v", result)
	}
}

func TestBulkSendValidates(t *testing.T) {
	if _, err := BulkSend(context.Background(), nil, nil, "s", "b", 1); err == nil {
		t.Fatal("expected nil sender to fail")
	}
	if _, err := BulkSend(context.Background(), LogSender{}, nil, " ", "b", 1); err == nil {
		t.Fatal("expected empty subject to fail")
	}
}

func TestBuildMIME(t *testing.T) {
	from := &mail.Address{Name: "Pathway", Address: "hello@example.com"}
	to := &mail.Address{Address: "ada@example.com"}
	body, err := buildMIME(from, to, Message{Subject: "Olá", Text: "plain", HTML: "<p>rich</p>"}, time.Unix(0, 0))
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	raw := string(body)
	for _, want := range []string{
		"From: \"Pathway\" <hello@example.com>\r\n",
		"To: <ada@example.com>\r\n",
		"Subject: =?utf-8?q?Ol=C3=A1?=\r\n",
		"multipart/alternative",
		"text/plain; charset=utf-8",
		"text/html; charset=utf-8",
	} {
		if !strings.Contains(raw, want) {
			t.Fatalf("message missing %q:\n%s", want, raw)
		}
	}
}

func TestNewSMTPSenderValidates(t *testing.T) {
	if _, err := NewSMTPSender(SMTPConfig{Port: 25, From: "a@x.com"}); err == nil {
		t.Fatal("expected missing host to fail")
	}
	if _, err := NewSMTPSender(SMTPConfig{Host: "smtp.example.com", Port: 25, From: "nope"}); err == nil {
		t.Fatal("expected bad from address to fail")
	}
}

func TestSMTPSenderDelivers(t *testing.T) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer listener.Close()

	var (
		wg       sync.WaitGroup
		received []string
	)
	wg.Add(1)
	go func() {
		defer wg.Done()
		conn, err := listener.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		received = serveSMTP(conn)
	}()

	host, portText, _ := net.SplitHostPort(listener.Addr().String())
	port, _ := strconv.Atoi(portText)
	sender, err := NewSMTPSender(SMTPConfig{Host: host, Port: port, From: "Pathway <hello@example.com>"})
	if err != nil {
		t.Fatalf("new sender: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := sender.Send(ctx, Message{To: "ada@example.com", Subject: "Hello", Text: "hi", HTML: "<p>hi</p>"}); err != nil {
		t.Fatalf("send: %v", err)
	}
	wg.Wait()

	transcript := strings.Join(received, "\n")
	for _, want := range []string{"MAIL FROM:<hello@example.com>", "RCPT TO:<ada@example.com>", "Subject: Hello"} {
		if !strings.Contains(transcript, want) {
			t.Fatalf("transcript missing %q:\n%s", want, transcript)
		}
	}
}

// serveSMTP plays a minimal SMTP server for one session and returns every
// line the client sent.
func serveSMTP(conn net.Conn) []string {
	_ = conn.SetDeadline(time.Now().Add(5 * time.Second))
	reader := bufio.NewReader(conn)
	reply := func(line string) { _, _ = conn.Write([]byte(line + "\r\n")) }
	var lines []string

	reply("220 localhost ESMTP test")
	inData := false
	for {
		line, err := reader.ReadString('\n')
		if err != nil {
			return lines
		}
		line = strings.TrimRight(line, "\r\n")
		lines = append(lines, line)
		if inData {
			if line == "." {
				inData = false
				reply("250 queued")
			}
			continue
		}
		command := strings.ToUpper(line)
		switch {
		case strings.HasPrefix(command, "EHLO"), strings.HasPrefix(command, "HELO"):
			reply("250 localhost")
		case strings.HasPrefix(command, "MAIL FROM"), strings.HasPrefix(command, "RCPT TO"):
			reply("250 ok")
		case command == "DATA":
			inData = true
			reply("354 end with .")
		case command == "QUIT":
			reply("221 bye")
			return lines
		default:
			reply("502 not implemented")
		}
	}
}
