package market

import (
	"testing"
	"time"

	"github.com/rickgao/deribit-options-data/internal/model"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestGroupByExpiry(t *testing.T) {
	entries := WithExpiry([]model.CatalogEntry{
		{Market: "deribit-BTC-13DEC24-100000-C-option"},
		{Market: "deribit-BTC-13DEC24-100000-P-option"},
		{Market: "deribit-BTC-20DEC24-100000-P-option"},
		{Market: "deribit-BTC-10JAN25-95000-C-option"}, // outside range
	})

	groups := GroupByExpiry(entries, date(2024, time.December, 1), date(2024, time.December, 31))

	if len(groups) != 2 {
		t.Fatalf("len(groups) = %d, want 2", len(groups))
	}

	dec13 := groups[date(2024, time.December, 13)]
	if len(dec13) != 2 {
		t.Fatalf("dec13 group size = %d, want 2", len(dec13))
	}
	if dec13[0] != "deribit-BTC-13DEC24-100000-C-option" || dec13[1] != "deribit-BTC-13DEC24-100000-P-option" {
		t.Errorf("dec13 group order = %v, want catalog order", dec13)
	}

	dec20 := groups[date(2024, time.December, 20)]
	if len(dec20) != 1 {
		t.Fatalf("dec20 group size = %d, want 1", len(dec20))
	}
}

func TestGroupByExpiry_InclusiveBounds(t *testing.T) {
	entries := WithExpiry([]model.CatalogEntry{
		{Market: "deribit-BTC-01DEC24-90000-C-option"},
		{Market: "deribit-BTC-31DEC24-90000-C-option"},
		{Market: "deribit-BTC-30NOV24-90000-C-option"},
	})

	groups := GroupByExpiry(entries, date(2024, time.December, 1), date(2024, time.December, 31))

	if _, ok := groups[date(2024, time.December, 1)]; !ok {
		t.Error("range start date excluded, want inclusive")
	}
	if _, ok := groups[date(2024, time.December, 31)]; !ok {
		t.Error("range end date excluded, want inclusive")
	}
	if _, ok := groups[date(2024, time.November, 30)]; ok {
		t.Error("entry before range start included")
	}
}

func TestGroupByExpiry_Partitioning(t *testing.T) {
	entries := WithExpiry([]model.CatalogEntry{
		{Market: "deribit-BTC-13DEC24-100000-C-option"},
		{Market: "deribit-BTC-13DEC24-95000-C-option"},
		{Market: "deribit-BTC-20DEC24-100000-P-option"},
		{Market: "deribit-BTC-27DEC24-80000-C-option"},
	})

	groups := GroupByExpiry(entries, date(2024, time.December, 1), date(2024, time.December, 31))

	total := 0
	seen := make(map[string]int)
	for _, markets := range groups {
		total += len(markets)
		for _, m := range markets {
			seen[m]++
		}
	}
	if total != len(entries) {
		t.Errorf("grouped %d markets, want all %d in range", total, len(entries))
	}
	for m, n := range seen {
		if n != 1 {
			t.Errorf("market %q appears in %d groups, want exactly 1", m, n)
		}
	}
}

func TestComputeWindow(t *testing.T) {
	expiry := date(2024, time.December, 13)
	start, end := ComputeWindow(expiry, 22)

	wantEnd := time.Date(2024, time.December, 13, 8, 0, 0, 0, time.UTC)
	wantStart := time.Date(2024, time.November, 21, 8, 0, 0, 0, time.UTC)

	if !end.Equal(wantEnd) {
		t.Errorf("end = %v, want %v", end, wantEnd)
	}
	if !start.Equal(wantStart) {
		t.Errorf("start = %v, want %v", start, wantStart)
	}
	if got := end.Sub(start); got != 22*24*time.Hour {
		t.Errorf("end - start = %v, want exactly 22 days", got)
	}
}

func TestComputeWindow_ExactSpan(t *testing.T) {
	for _, days := range []int{0, 1, 7, 22, 365} {
		start, end := ComputeWindow(date(2025, time.March, 28), days)
		if got := end.Sub(start); got != time.Duration(days)*24*time.Hour {
			t.Errorf("lookback %d: span = %v, want %d days", days, got, days)
		}
	}
}

func TestComputeWindow_Idempotent(t *testing.T) {
	// Feeding the returned end (08:00) back in yields the same window.
	_, end := ComputeWindow(date(2024, time.December, 20), 22)
	start2, end2 := ComputeWindow(end, 22)
	if !end2.Equal(end) {
		t.Errorf("recomputed end = %v, want %v", end2, end)
	}
	if want := end.AddDate(0, 0, -22); !start2.Equal(want) {
		t.Errorf("recomputed start = %v, want %v", start2, want)
	}
}

func TestEndToEndScenario(t *testing.T) {
	// Two markets, two expiry groups, 22-day lookback windows.
	entries := WithExpiry([]model.CatalogEntry{
		{Market: "deribit-BTC-13DEC24-100000-C-option"},
		{Market: "deribit-BTC-20DEC24-100000-P-option"},
	})

	groups := GroupByExpiry(entries, date(2024, time.December, 1), date(2024, time.December, 31))
	if len(groups) != 2 {
		t.Fatalf("len(groups) = %d, want 2", len(groups))
	}

	wantWindows := map[time.Time][2]time.Time{
		date(2024, time.December, 13): {
			time.Date(2024, time.November, 21, 8, 0, 0, 0, time.UTC),
			time.Date(2024, time.December, 13, 8, 0, 0, 0, time.UTC),
		},
		date(2024, time.December, 20): {
			time.Date(2024, time.November, 28, 8, 0, 0, 0, time.UTC),
			time.Date(2024, time.December, 20, 8, 0, 0, 0, time.UTC),
		},
	}

	for expiry := range groups {
		want, ok := wantWindows[expiry]
		if !ok {
			t.Fatalf("unexpected expiry group %v", expiry)
		}
		start, end := ComputeWindow(expiry, 22)
		if !start.Equal(want[0]) || !end.Equal(want[1]) {
			t.Errorf("window for %v = [%v, %v], want [%v, %v]",
				expiry.Format("2006-01-02"), start, end, want[0], want[1])
		}
	}
}
