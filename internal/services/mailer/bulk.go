package mailer

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"
)

// DefaultConcurrency bounds parallel deliveries in BulkSend.
const DefaultConcurrency = 4

// Failure records one recipient that could not be reached.
type Failure struct {
	Recipient string
	Err       error
}

// Result summarises a bulk send.
type Result struct {
	Sent     int
	Failed   int
	Skipped  int
	Failures []Failure
}

// BulkSend renders markdown once and delivers it to every recipient with at
// most concurrency sends in flight. A failed recipient does not stop the
// batch. When ctx is cancelled no further sends start; the remaining
// recipients are counted as skipped and ctx's error is returned.
func BulkSend(ctx context.Context, sender Sender, recipients []string, subject, markdown string, concurrency int) (Result, error) {
	if sender == nil {
		return Result{}, fmt.Errorf("sender is required")
	}
	if strings.TrimSpace(subject) == "" {
		return Result{}, fmt.Errorf("subject is required")
	}
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}
	htmlBody, err := RenderMarkdown(markdown)
	if err != nil {
		return Result{}, err
	}

	var (
		mu     sync.Mutex
		result Result
	)
	group := new(errgroup.Group)
	group.SetLimit(concurrency)

	for i, recipient := range recipients {
		if ctx.Err() != nil {
			result.Skipped += len(recipients) - i
			break
		}
		msg := Message{To: recipient, Subject: subject, HTML: htmlBody, Text: markdown}
		group.Go(func() error {
			err := sender.Send(ctx, msg)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				result.Failed++
				result.Failures = append(result.Failures, Failure{Recipient: msg.To, Err: err})
				return nil
			}
			result.Sent++
			return nil
		})
	}
	_ = group.Wait()

	if err := ctx.Err(); err != nil {
		return result, err
	}
	return result, nil
}

// Dedupe lowercases and trims addresses and drops blanks and repeats,
// keeping first-seen order.
func Dedupe(recipients []string) []string {
	seen := make(map[string]struct{}, len(recipients))
	out := make([]string, 0, len(recipients))
	for _, raw := range recipients {
		email := strings.ToLower(strings.TrimSpace(raw))
		if email == "" {
			continue
		}
		if _, ok := seen[email]; ok {
			continue
		}
		seen[email] = struct{}{}
		out = append(out, email)
	}
	return out
}
