package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"
)

func TestErrorIsMatchesByCode(t *testing.T) {
	err := fmt.Errorf("subscribe: %w", New(CodeEmailInvalid, "email is invalid"))
	if !stderrors.Is(err, New(CodeEmailInvalid, "")) {
		t.Fatal("expected errors.Is to match by code")
	}
	if stderrors.Is(err, New(CodeNotFound, "")) {
		t.Fatal("expected different code not to match")
	}
}

func TestWrapUnwrapsCause(t *testing.T) {
	cause := stderrors.New("disk full")
	err := Wrap(CodeConflict, "write failed", cause)
	if !stderrors.Is(err, cause) {
		t.Fatal("expected wrapped cause to be reachable")
	}
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "nil", err: nil, want: http.StatusOK},
		{name: "plain", err: stderrors.New("boom"), want: http.StatusInternalServerError},
		{name: "bad request", err: New(CodePriceUnknown, "unknown price"), want: http.StatusBadRequest},
		{name: "unauthorized", err: New(CodeAuthTokenExpired, "expired"), want: http.StatusUnauthorized},
		{name: "forbidden", err: New(CodeAuthForbidden, "nope"), want: http.StatusForbidden},
		{name: "not found wrapped", err: fmt.Errorf("get: %w", New(CodeNotFound, "missing")), want: http.StatusNotFound},
		{name: "conflict", err: New(CodeUserEmailTaken, "taken"), want: http.StatusConflict},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := HTTPStatus(tc.err); got != tc.want {
				t.Fatalf("HTTPStatus = %d, want %d", got, tc.want)
			}
		})
	}
}

func TestPublicMessageHidesInternalErrors(t *testing.T) {
	if got := PublicMessage(stderrors.New("sql: connection refused")); got != "Internal Server Error" {
		t.Fatalf("PublicMessage = %q", got)
	}
	if got := PublicMessage(New(CodeEmailInvalid, "email is invalid")); got != "email is invalid" {
		t.Fatalf("PublicMessage = %q", got)
	}
}

func TestWithMetadataKeepsFields(t *testing.T) {
	err := WithMetadata(CodeInvalidArgument, "bad field", map[string]string{"Field": "title"})
	if err.Metadata["Field"] != "title" {
		t.Fatalf("metadata = %v", err.Metadata)
	}
	if CodeOf(err) != CodeInvalidArgument {
		t.Fatalf("CodeOf = %s", CodeOf(err))
	}
}
