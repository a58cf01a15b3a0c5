package pricing

import (
	"sort"
	"strconv"
	"time"
)

// ReportRow summarises one price.
type ReportRow struct {
	Price          string    `json:"price"`
	Clicks         int64     `json:"clicks"`
	Conversions    int64     `json:"conversions"`
	ConversionRate float64   `json:"conversionRate"`
	LastUpdated    time.Time `json:"lastUpdated"`
}

// Report is the experiment summary shown in the back-office.
type Report struct {
	Rows             []ReportRow `json:"rows"`
	TotalClicks      int64       `json:"totalClicks"`
	TotalConversions int64       `json:"totalConversions"`
	// Leader is the price with the best conversion rate, empty while no
	// price has clicks.
	Leader string `json:"leader,omitempty"`
}

// BuildReport orders stats by numeric price and computes conversion rates.
func BuildReport(stats Stats) Report {
	report := Report{Rows: make([]ReportRow, 0, len(stats))}
	for price, entry := range stats {
		row := ReportRow{
			Price:       price,
			Clicks:      entry.Clicks,
			Conversions: entry.Conversions,
			LastUpdated: entry.LastUpdated,
		}
		if entry.Clicks > 0 {
			row.ConversionRate = float64(entry.Conversions) / float64(entry.Clicks)
		}
		report.TotalClicks += entry.Clicks
		report.TotalConversions += entry.Conversions
		report.Rows = append(report.Rows, row)
	}
	sort.Slice(report.Rows, func(i, j int) bool {
		return priceValue(report.Rows[i].Price) < priceValue(report.Rows[j].Price)
	})

	var best *ReportRow
	for i := range report.Rows {
		row := &report.Rows[i]
		if row.Clicks == 0 {
			continue
		}
		if best == nil ||
			row.ConversionRate > best.ConversionRate ||
			(row.ConversionRate == best.ConversionRate && row.Clicks > best.Clicks) {
			best = row
		}
	}
	if best != nil {
		report.Leader = best.Price
	}
	return report
}

func priceValue(price string) float64 {
	value, err := strconv.ParseFloat(price, 64)
	if err != nil {
		return 0
	}
	return value
}
