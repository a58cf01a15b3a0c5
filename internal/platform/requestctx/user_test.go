package requestctx

import (
	"context"
	"testing"
)

func TestUserIDFromContextRoundTrip(t *testing.T) {
	ctx := WithUserID(context.Background(), "user-42")
	got := UserIDFromContext(ctx)
	if got != "user-42" {
		t.Fatalf("UserIDFromContext = %q, want %q", got, "user-42")
	}
}

func TestUserIDFromContextEmpty(t *testing.T) {
	got := UserIDFromContext(context.Background())
	if got != "" {
		t.Fatalf("expected empty string, got %q", got)
	}
}

func TestUserIDFromContextNil(t *testing.T) {
	got := UserIDFromContext(nil)
	if got != "" {
		t.Fatalf("expected empty string for nil context, got %q", got)
	}
}

func TestWithUserIDKeepsRole(t *testing.T) {
	ctx := WithPrincipal(context.Background(), Principal{Email: "ops@example.com", Role: "admin"})
	ctx = WithUserID(ctx, "user-7")

	principal, ok := PrincipalFromContext(ctx)
	if !ok {
		t.Fatal("expected principal in context")
	}
	if principal.UserID != "user-7" || principal.Role != "admin" || principal.Email != "ops@example.com" {
		t.Fatalf("unexpected principal %+v", principal)
	}
}

func TestPrincipalFromContextNil(t *testing.T) {
	if _, ok := PrincipalFromContext(nil); ok {
		t.Fatal("expected no principal for nil context")
	}
}
