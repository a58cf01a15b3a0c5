package pricing

import "testing"

func TestBuildReportOrdersAndRates(t *testing.T) {
	report := BuildReport(Stats{
		"19.99": {Clicks: 10, Conversions: 1},
		"9.99":  {Clicks: 20, Conversions: 5},
		"14.99": {Clicks: 0, Conversions: 0},
	})

	if len(report.Rows) != 3 {
		t.Fatalf("rows = %d", len(report.Rows))
	}
	order := []string{report.Rows[0].Price, report.Rows[1].Price, report.Rows[2].Price}
	if order[0] != "9.99" || order[1] != "14.99" || order[2] != "19.99" {
		t.Fatalf("order = %v", order)
	}
	if report.Rows[0].ConversionRate != 0.25 {
		t.Fatalf("9.99 rate = %v", report.Rows[0].ConversionRate)
	}
	if report.Rows[1].ConversionRate != 0 {
		t.Fatalf("zero-click rate = %v", report.Rows[1].ConversionRate)
	}
	if report.TotalClicks != 30 || report.TotalConversions != 6 {
		t.Fatalf("totals = %d/%d", report.TotalClicks, report.TotalConversions)
	}
	if report.Leader != "9.99" {
		t.Fatalf("leader = %q", report.Leader)
	}
}

func TestBuildReportNoLeaderWithoutClicks(t *testing.T) {
	report := BuildReport(Stats{"9.99": {}, "14.99": {}})
	if report.Leader != "" {
		t.Fatalf("leader = %q, want empty", report.Leader)
	}
}

func TestBuildReportLeaderTieBreaksOnClicks(t *testing.T) {
	report := BuildReport(Stats{
		"9.99":  {Clicks: 4, Conversions: 1},
		"14.99": {Clicks: 8, Conversions: 2},
	})
	if report.Leader != "14.99" {
		t.Fatalf("leader = %q, want 14.99", report.Leader)
	}
}
