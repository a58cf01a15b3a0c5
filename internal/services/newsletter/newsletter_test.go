package newsletter

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/google/go-cmp/cmp"

	"github.com/officialpathway/pathwei-website/internal/platform/blob"
	apperrors "github.com/officialpathway/pathwei-website/internal/platform/errors"
)

func newTestStore() *Store {
	store := NewStore(blob.NewMemory())
	tick := time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)
	var mu sync.Mutex
	store.now = func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		tick = tick.Add(time.Minute)
		return tick
	}
	return store
}

func TestNormalizeEmail(t *testing.T) {
	tests := []struct {
		raw     string
		want    string
		wantErr bool
	}{
		{raw: "  Ada@Example.COM ", want: "ada@example.com"},
		{raw: "", wantErr: true},
		{raw: "not-an-email", wantErr: true},
		{raw: "Ada <ada@example.com>", wantErr: true},
		{raw: "ada@localhost", wantErr: true},
		{raw: "ada@example.", wantErr: true},
	}
	for _, tc := range tests {
		t.Run(tc.raw, func(t *testing.T) {
			got, err := NormalizeEmail(tc.raw)
			if tc.wantErr {
				if !apperrors.IsCode(err, apperrors.CodeEmailInvalid) {
					t.Fatalf("error = %v, want EMAIL_INVALID", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("normalize: %v", err)
			}
			if got != tc.want {
				t.Fatalf("normalize = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestSubscribeIsIdempotent(t *testing.T) {
	ctx := context.Background()
	store := newTestStore()

	first, created, err := store.Subscribe(ctx, "ada@example.com", "hero", "en")
	if err != nil || !created {
		t.Fatalf("first subscribe = %v, %v", created, err)
	}
	again, created, err := store.Subscribe(ctx, "ADA@example.com", "footer", "es")
	if err != nil {
		t.Fatalf("second subscribe: %v", err)
	}
	if created {
		t.Fatal("expected duplicate signup not to create an entry")
	}
	if diff := cmp.Diff(first, again); diff != "" {
		t.Fatalf("duplicate should return the original entry (-want +got):\n%s", diff)
	}
	count, err := store.Count(ctx)
	if err != nil || count != 1 {
		t.Fatalf("count = %d, %v", count, err)
	}
}

func TestSubscribeTruncatesSourceOnRuneBoundary(t *testing.T) {
	store := newTestStore()
	source := strings.Repeat("a", maxSourceLength-1) + "éxtra"

	entry, _, err := store.Subscribe(context.Background(), "ada@example.com", source, "en")
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	if !utf8.ValidString(entry.Source) {
		t.Fatalf("source is not valid UTF-8: %q", entry.Source)
	}
	if want := strings.Repeat("a", maxSourceLength-1); entry.Source != want {
		t.Fatalf("source = %q, want %q", entry.Source, want)
	}
}

func TestListOrdersBySignupTime(t *testing.T) {
	ctx := context.Background()
	store := newTestStore()
	for _, email := range []string{"c@example.com", "a@example.com", "b@example.com"} {
		if _, _, err := store.Subscribe(ctx, email, "", ""); err != nil {
			t.Fatalf("subscribe %s: %v", email, err)
		}
	}
	emails, err := store.Emails(ctx)
	if err != nil {
		t.Fatalf("emails: %v", err)
	}
	want := []string{"c@example.com", "a@example.com", "b@example.com"}
	if diff := cmp.Diff(want, emails); diff != "" {
		t.Fatalf("emails mismatch (-want +got):\n%s", diff)
	}
}

func TestUnsubscribe(t *testing.T) {
	ctx := context.Background()
	store := newTestStore()
	if _, _, err := store.Subscribe(ctx, "ada@example.com", "", ""); err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	if err := store.Unsubscribe(ctx, " Ada@example.com"); err != nil {
		t.Fatalf("unsubscribe: %v", err)
	}
	if err := store.Unsubscribe(ctx, "ada@example.com"); !apperrors.IsCode(err, apperrors.CodeNotFound) {
		t.Fatalf("second unsubscribe = %v, want NOT_FOUND", err)
	}
}

func TestConcurrentSubscribesAreAllKept(t *testing.T) {
	ctx := context.Background()
	shared := blob.NewMemory()
	stores := []*Store{NewStore(shared), NewStore(shared)}

	const perStore = 15
	var wg sync.WaitGroup
	for s, store := range stores {
		for i := 0; i < perStore; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				email := fmt.Sprintf("user%d-%d@example.com", s, i)
				if _, _, err := store.Subscribe(ctx, email, "", ""); err != nil {
					t.Errorf("subscribe %s: %v", email, err)
				}
			}()
		}
	}
	wg.Wait()

	count, err := stores[0].Count(ctx)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 2*perStore {
		t.Fatalf("count = %d, want %d", count, 2*perStore)
	}
}

func TestExportCSV(t *testing.T) {
	ctx := context.Background()
	store := newTestStore()
	if _, _, err := store.Subscribe(ctx, "ada@example.com", "hero", "en"); err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	var buf bytes.Buffer
	if err := store.ExportCSV(ctx, &buf); err != nil {
		t.Fatalf("export: %v", err)
	}
	want := "email,source,locale,subscribed_at\nada@example.com,hero,en,2026-01-01T09:01:00Z\n"
	if buf.String() != want {
		t.Fatalf("csv = %q, want %q", buf.String(), want)
	}
}
