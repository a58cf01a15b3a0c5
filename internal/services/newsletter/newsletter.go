// Package newsletter keeps the list of newsletter subscribers in the blob
// store.
package newsletter

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"net/mail"
	"slices"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/officialpathway/pathwei-website/internal/platform/blob"
	apperrors "github.com/officialpathway/pathwei-website/internal/platform/errors"
)

// ListKey is the blob key holding the subscriber list.
const ListKey = "newsletter/emails.json"

const (
	maxEmailLength  = 254
	maxSourceLength = 64
)

// Subscriber is one newsletter signup.
type Subscriber struct {
	Email        string    `json:"email"`
	Source       string    `json:"source,omitempty"`
	Locale       string    `json:"locale,omitempty"`
	SubscribedAt time.Time `json:"subscribedAt"`
}

// Store manages the subscriber list.
type Store struct {
	blob blob.Store
	key  string
	now  func() time.Time

	mu sync.Mutex
}

// NewStore returns a subscriber store backed by store.
func NewStore(store blob.Store) *Store {
	return &Store{blob: store, key: ListKey, now: time.Now}
}

// NormalizeEmail trims and lowercases raw and checks that it is a bare
// address with a dotted domain.
func NormalizeEmail(raw string) (string, error) {
	email := strings.ToLower(strings.TrimSpace(raw))
	if email == "" {
		return "", apperrors.New(apperrors.CodeEmailInvalid, "email is required")
	}
	if len(email) > maxEmailLength {
		return "", apperrors.New(apperrors.CodeEmailInvalid, "email is too long")
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Name != "" || addr.Address != email {
		return "", apperrors.New(apperrors.CodeEmailInvalid, "email is not a valid address")
	}
	at := strings.LastIndex(email, "@")
	domain := email[at+1:]
	if !strings.Contains(domain, ".") || strings.HasPrefix(domain, ".") || strings.HasSuffix(domain, ".") {
		return "", apperrors.New(apperrors.CodeEmailInvalid, "email domain is not valid")
	}
	return email, nil
}

// Subscribe adds email to the list. Subscribing an address that is already
// on the list is not an error; created reports whether a new entry was
// written.
func (s *Store) Subscribe(ctx context.Context, email, source, locale string) (Subscriber, bool, error) {
	normalized, err := NormalizeEmail(email)
	if err != nil {
		return Subscriber{}, false, err
	}
	source = strings.TrimSpace(source)
	source = truncate(source, maxSourceLength)
	entry := Subscriber{
		Email:        normalized,
		Source:       source,
		Locale:       strings.TrimSpace(locale),
		SubscribedAt: s.now().UTC(),
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var existing Subscriber
	created := false
	_, err = blob.UpdateJSON(ctx, s.blob, s.key, func(list *[]Subscriber) error {
		created = false
		if idx := indexOf(*list, normalized); idx >= 0 {
			existing = (*list)[idx]
			return blob.ErrSkipWrite
		}
		*list = append(*list, entry)
		created = true
		return nil
	})
	if err != nil {
		return Subscriber{}, false, fmt.Errorf("subscribe %s: %w", normalized, err)
	}
	if !created {
		return existing, false, nil
	}
	return entry, true, nil
}

// Unsubscribe removes email from the list.
func (s *Store) Unsubscribe(ctx context.Context, email string) error {
	normalized := strings.ToLower(strings.TrimSpace(email))

	s.mu.Lock()
	defer s.mu.Unlock()

	found := false
	_, err := blob.UpdateJSON(ctx, s.blob, s.key, func(list *[]Subscriber) error {
		idx := indexOf(*list, normalized)
		found = idx >= 0
		if !found {
			return blob.ErrSkipWrite
		}
		*list = slices.Delete(*list, idx, idx+1)
		return nil
	})
	if err != nil {
		return fmt.Errorf("unsubscribe %s: %w", normalized, err)
	}
	if !found {
		return apperrors.WithMetadata(apperrors.CodeNotFound, "subscriber not found",
			map[string]string{"Email": normalized})
	}
	return nil
}

// List returns every subscriber ordered by signup time.
func (s *Store) List(ctx context.Context) ([]Subscriber, error) {
	list, _, err := blob.ReadJSON[[]Subscriber](ctx, s.blob, s.key)
	if err != nil {
		return nil, fmt.Errorf("read subscribers: %w", err)
	}
	slices.SortStableFunc(list, func(a, b Subscriber) int {
		if c := a.SubscribedAt.Compare(b.SubscribedAt); c != 0 {
			return c
		}
		return strings.Compare(a.Email, b.Email)
	})
	return list, nil
}

// Count returns the number of subscribers.
func (s *Store) Count(ctx context.Context) (int, error) {
	list, _, err := blob.ReadJSON[[]Subscriber](ctx, s.blob, s.key)
	if err != nil {
		return 0, fmt.Errorf("read subscribers: %w", err)
	}
	return len(list), nil
}

// Emails returns the subscribed addresses in signup order.
func (s *Store) Emails(ctx context.Context) ([]string, error) {
	list, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	emails := make([]string, 0, len(list))
	for _, sub := range list {
		emails = append(emails, sub.Email)
	}
	return emails, nil
}

// ExportCSV writes the list as CSV with a header row.
func (s *Store) ExportCSV(ctx context.Context, w io.Writer) error {
	list, err := s.List(ctx)
	if err != nil {
		return err
	}
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"email", "source", "locale", "subscribed_at"}); err != nil {
		return err
	}
	for _, sub := range list {
		record := []string{sub.Email, sub.Source, sub.Locale, sub.SubscribedAt.UTC().Format(time.RFC3339)}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func indexOf(list []Subscriber, email string) int {
	return slices.IndexFunc(list, func(sub Subscriber) bool { return sub.Email == email })
}

// truncate cuts s to at most n bytes without splitting a UTF-8 sequence.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
