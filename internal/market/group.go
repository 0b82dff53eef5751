package market

import (
	"time"

	"github.com/rickgao/deribit-options-data/internal/model"
)

// DefaultLookbackDays is how many days of history to fetch before each
// expiry. 22 days captures roughly the 90th percentile of observed
// trading-activity onset (see cmd/analyzer for recomputing this).
const DefaultLookbackDays = 22

// DateOf truncates a timestamp to its UTC calendar date.
func DateOf(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// GroupByExpiry maps expiry calendar dates to the market identifiers
// sharing that date, keeping only entries whose expiry falls within the
// inclusive [start, end] date range. Identifier order within a group
// follows catalog order. Entries must already carry a parsed expiry
// (see WithExpiry).
func GroupByExpiry(entries []model.CatalogEntry, start, end time.Time) map[time.Time][]string {
	startDate := DateOf(start)
	endDate := DateOf(end)

	groups := make(map[time.Time][]string)
	for _, e := range entries {
		date := DateOf(e.Expiry)
		if date.Before(startDate) || date.After(endDate) {
			continue
		}
		groups[date] = append(groups[date], e.Market)
	}
	return groups
}

// ComputeWindow returns the data-collection window for an expiry date:
// end is the expiry date at the 08:00 UTC settlement time, start is
// daysBeforeExpiry days earlier. No clamping is applied.
func ComputeWindow(expiryDate time.Time, daysBeforeExpiry int) (start, end time.Time) {
	end = DateOf(expiryDate).Add(ExpiryHourUTC * time.Hour)
	start = end.AddDate(0, 0, -daysBeforeExpiry)
	return start, end
}
