// Package requestmeta provides normalized request metadata helpers.
package requestmeta

import (
	"net"
	"net/http"
	"net/url"
	"strings"
)

// SchemePolicy controls how request metadata resolves the request scheme and
// client address. Proxy headers are only honoured when explicitly trusted.
type SchemePolicy struct {
	TrustForwardedProto bool
	TrustForwardedFor   bool
}

// IsHTTPS reports whether a request should be treated as HTTPS.
func IsHTTPS(r *http.Request, policy SchemePolicy) bool {
	return requestScheme(r, policy) == "https"
}

// HasSameOriginProof reports whether Origin or Referer proves the request was
// issued by a page served from the same origin.
func HasSameOriginProof(r *http.Request, policy SchemePolicy) bool {
	if r == nil {
		return false
	}
	scheme := requestScheme(r, policy)
	host, port := hostParts(r.Host)
	if host == "" {
		return false
	}
	if port == "" {
		port = defaultPort(scheme)
	}
	if origin := strings.TrimSpace(r.Header.Get("Origin")); origin != "" {
		return sameOrigin(origin, scheme, host, port)
	}
	if referer := strings.TrimSpace(r.Header.Get("Referer")); referer != "" {
		return sameOrigin(referer, scheme, host, port)
	}
	return false
}

// ClientIP returns the caller address, preferring the first X-Forwarded-For
// hop when the policy trusts it.
func ClientIP(r *http.Request, policy SchemePolicy) string {
	if r == nil {
		return ""
	}
	if policy.TrustForwardedFor {
		if forwarded := strings.TrimSpace(r.Header.Get("X-Forwarded-For")); forwarded != "" {
			first, _, _ := strings.Cut(forwarded, ",")
			if ip := strings.TrimSpace(first); ip != "" {
				return ip
			}
		}
	}
	host, _, err := net.SplitHostPort(strings.TrimSpace(r.RemoteAddr))
	if err != nil {
		return strings.TrimSpace(r.RemoteAddr)
	}
	return host
}

func sameOrigin(raw, scheme, host, port string) bool {
	parsed, err := url.Parse(raw)
	if err != nil {
		return false
	}
	originScheme := strings.ToLower(parsed.Scheme)
	if originScheme == "" || originScheme != scheme {
		return false
	}
	if strings.ToLower(parsed.Hostname()) != host {
		return false
	}
	originPort := parsed.Port()
	if originPort == "" {
		originPort = defaultPort(originScheme)
	}
	return originPort != "" && originPort == port
}

func requestScheme(r *http.Request, policy SchemePolicy) string {
	if r == nil {
		return ""
	}
	if policy.TrustForwardedProto {
		if forwarded := strings.ToLower(strings.TrimSpace(r.Header.Get("X-Forwarded-Proto"))); forwarded == "http" || forwarded == "https" {
			return forwarded
		}
	}
	if r.TLS != nil {
		return "https"
	}
	if r.URL != nil {
		if scheme := strings.ToLower(r.URL.Scheme); scheme == "http" || scheme == "https" {
			return scheme
		}
	}
	return "http"
}

func defaultPort(scheme string) string {
	switch scheme {
	case "https":
		return "443"
	case "http":
		return "80"
	default:
		return ""
	}
}

func hostParts(rawHost string) (string, string) {
	parsed, err := url.Parse("//" + strings.TrimSpace(rawHost))
	if err != nil {
		return "", ""
	}
	return strings.ToLower(parsed.Hostname()), parsed.Port()
}
