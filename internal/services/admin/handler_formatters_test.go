package admin

import (
	"testing"
	"time"

	apperrors "github.com/officialpathway/pathwei-website/internal/platform/errors"
)

func TestParseAmountCents(t *testing.T) {
	tests := []struct {
		raw  string
		want int64
		ok   bool
	}{
		{raw: "49", want: 4900, ok: true},
		{raw: "49.5", want: 4950, ok: true},
		{raw: "1,200.05", want: 120005, ok: true},
		{raw: ".75", want: 75, ok: true},
		{raw: " 0 ", want: 0, ok: true},
		{raw: ""},
		{raw: "12."},
		{raw: "12.345"},
		{raw: "-5"},
		{raw: "+5"},
		{raw: "1e3"},
		{raw: "ten"},
	}
	for _, tc := range tests {
		got, err := parseAmountCents(tc.raw)
		if !tc.ok {
			if !apperrors.IsCode(err, apperrors.CodeAssetAmountInvalid) {
				t.Errorf("parseAmountCents(%q) err = %v, want ASSET_AMOUNT_INVALID", tc.raw, err)
			}
			continue
		}
		if err != nil || got != tc.want {
			t.Errorf("parseAmountCents(%q) = %d, %v; want %d", tc.raw, got, err, tc.want)
		}
	}
}

func TestFormatters(t *testing.T) {
	if got := formatCount(1234567); got != "1,234,567" {
		t.Fatalf("formatCount = %q", got)
	}
	if got := formatRate(0.125); got != "12.5%" {
		t.Fatalf("formatRate = %q", got)
	}
	if got := formatTime(time.Time{}); got != "-" {
		t.Fatalf("formatTime zero = %q", got)
	}
	if got := formatDate(time.Date(2026, 1, 2, 23, 0, 0, 0, time.UTC)); got != "2026-01-02" {
		t.Fatalf("formatDate = %q", got)
	}
	if got := formatMoney(4950, "XYZ1"); got != "XYZ1 49.50" {
		t.Fatalf("formatMoney fallback = %q", got)
	}
}
