package admin

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	apperrors "github.com/officialpathway/pathwei-website/internal/platform/errors"
)

const (
	timeLayout = "2006-01-02 15:04 UTC"
	dateLayout = "2006-01-02"
)

var printer = message.NewPrinter(language.English)

func formatCount(n int64) string {
	return printer.Sprint(number.Decimal(n))
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.UTC().Format(timeLayout)
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.UTC().Format(dateLayout)
}

// formatMoney renders minor units with the currency symbol. Codes x/text
// does not know fall back to the bare code.
func formatMoney(cents int64, code string) string {
	amount := float64(cents) / 100
	unit, err := currency.ParseISO(code)
	if err != nil {
		return fmt.Sprintf("%s %.2f", code, amount)
	}
	return printer.Sprint(currency.Symbol(unit.Amount(amount)))
}

func formatRate(rate float64) string {
	return strconv.FormatFloat(rate*100, 'f', 1, 64) + "%"
}

// parseAmountCents converts a decimal amount such as "49.5" or "1,200.00"
// into minor units.
func parseAmountCents(raw string) (int64, error) {
	invalid := apperrors.WithMetadata(apperrors.CodeAssetAmountInvalid, "amount must be a positive number with at most two decimals",
		map[string]string{"Amount": raw})
	value := strings.ReplaceAll(strings.TrimSpace(raw), ",", "")
	if value == "" {
		return 0, invalid
	}
	whole, frac, hasFrac := strings.Cut(value, ".")
	if whole == "" {
		whole = "0"
	}
	if hasFrac && (frac == "" || len(frac) > 2) {
		return 0, invalid
	}
	if !digitsOnly(whole) || !digitsOnly(frac) {
		return 0, invalid
	}
	units, err := strconv.ParseInt(whole, 10, 64)
	if err != nil || units < 0 || units > math.MaxInt64/100 {
		return 0, invalid
	}
	cents := units * 100
	if hasFrac {
		for len(frac) < 2 {
			frac += "0"
		}
		minor, err := strconv.ParseInt(frac, 10, 64)
		if err != nil {
			return 0, invalid
		}
		cents += minor
	}
	return cents, nil
}

func digitsOnly(value string) bool {
	return strings.Trim(value, "0123456789") == ""
}
