package requestmeta

import (
	"crypto/tls"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestHasSameOriginProof(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		setup  func(*http.Request)
		policy SchemePolicy
		want   bool
	}{
		{
			name:  "matching origin",
			setup: func(r *http.Request) { r.Header.Set("Origin", "http://admin.example.test") },
			want:  true,
		},
		{
			name:  "matching referer",
			setup: func(r *http.Request) { r.Header.Set("Referer", "http://admin.example.test/users") },
			want:  true,
		},
		{
			name:  "foreign origin",
			setup: func(r *http.Request) { r.Header.Set("Origin", "http://evil.example.test") },
			want:  false,
		},
		{
			name:  "scheme mismatch",
			setup: func(r *http.Request) { r.Header.Set("Origin", "https://admin.example.test") },
			want:  false,
		},
		{
			name:  "no proof",
			setup: func(*http.Request) {},
			want:  false,
		},
		{
			name: "trusted forwarded proto",
			setup: func(r *http.Request) {
				r.Header.Set("Origin", "https://admin.example.test")
				r.Header.Set("X-Forwarded-Proto", "https")
				r.Host = "admin.example.test:443"
			},
			policy: SchemePolicy{TrustForwardedProto: true},
			want:   true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			req := httptest.NewRequest(http.MethodPost, "/users/create", nil)
			req.Host = "admin.example.test"
			tc.setup(req)
			if got := HasSameOriginProof(req, tc.policy); got != tc.want {
				t.Fatalf("HasSameOriginProof() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestIsHTTPS(t *testing.T) {
	t.Parallel()

	plain := httptest.NewRequest(http.MethodGet, "/", nil)
	if IsHTTPS(plain, SchemePolicy{}) {
		t.Fatal("expected plain request to be http")
	}

	secure := httptest.NewRequest(http.MethodGet, "/", nil)
	secure.TLS = &tls.ConnectionState{}
	if !IsHTTPS(secure, SchemePolicy{}) {
		t.Fatal("expected TLS request to be https")
	}

	forwarded := httptest.NewRequest(http.MethodGet, "/", nil)
	forwarded.Header.Set("X-Forwarded-Proto", "https")
	if IsHTTPS(forwarded, SchemePolicy{}) {
		t.Fatal("expected untrusted forwarded proto to be ignored")
	}
	if !IsHTTPS(forwarded, SchemePolicy{TrustForwardedProto: true}) {
		t.Fatal("expected trusted forwarded proto to be honoured")
	}
}

func TestClientIP(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.9:5511"
	req.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")

	if got := ClientIP(req, SchemePolicy{}); got != "10.0.0.9" {
		t.Fatalf("ClientIP untrusted = %q", got)
	}
	if got := ClientIP(req, SchemePolicy{TrustForwardedFor: true}); got != "203.0.113.7" {
		t.Fatalf("ClientIP trusted = %q", got)
	}
}
