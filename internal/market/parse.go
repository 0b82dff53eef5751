package market

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/rickgao/deribit-options-data/internal/model"
)

// ExpiryHourUTC is the hour of day at which Deribit options settle.
const ExpiryHourUTC = 8

// Market identifiers embed the expiry as a DDMMMYY token between hyphens,
// e.g. "deribit-BTC-10APR22-34000-C-option".
var expiryToken = regexp.MustCompile(`-([0-9]+[A-Z]{3}[0-9]{2})-`)

var monthCodes = map[string]time.Month{
	"JAN": time.January, "FEB": time.February, "MAR": time.March,
	"APR": time.April, "MAY": time.May, "JUN": time.June,
	"JUL": time.July, "AUG": time.August, "SEP": time.September,
	"OCT": time.October, "NOV": time.November, "DEC": time.December,
}

// Instrument holds the fields recoverable from a market identifier.
// HasStrike is false when the strike field was absent or non-numeric;
// OptionType is "" when the identifier had too few fields.
type Instrument struct {
	Expiry     time.Time
	Strike     float64
	HasStrike  bool
	OptionType string
}

// ParseExpiry extracts the expiry date from a market identifier.
// Returns false for identifiers without a recognizable expiry token;
// it never returns an error. Two-digit years always map to 20xx.
func ParseExpiry(market string) (time.Time, bool) {
	m := expiryToken.FindStringSubmatch(market)
	if m == nil {
		return time.Time{}, false
	}

	tok := m[1]
	if len(tok) < 7 {
		// Single-digit days ("1MAY24") shift the month code off its
		// expected position and are treated as unparseable.
		return time.Time{}, false
	}

	month, ok := monthCodes[tok[2:5]]
	if !ok {
		return time.Time{}, false
	}

	day, err := strconv.Atoi(tok[:2])
	if err != nil {
		return time.Time{}, false
	}

	year, err := strconv.Atoi(tok[5:7])
	if err != nil {
		return time.Time{}, false
	}

	return time.Date(2000+year, month, day, ExpiryHourUTC, 0, 0, 0, time.UTC), true
}

// ParseStrikeType extracts the strike price and option type token from a
// market identifier. Identifiers with fewer than six hyphen-separated
// fields yield neither; a non-numeric strike field yields only the type.
func ParseStrikeType(market string) (strike float64, hasStrike bool, optionType string) {
	parts := strings.Split(market, "-")
	if len(parts) < 6 {
		return 0, false, ""
	}

	optionType = parts[5]

	strike, err := strconv.ParseFloat(parts[4], 64)
	if err != nil {
		return 0, false, optionType
	}
	return strike, true, optionType
}

// Parse combines ParseExpiry and ParseStrikeType. The boolean reports
// whether an expiry date was recovered; strike and type are best-effort
// either way.
func Parse(market string) (Instrument, bool) {
	expiry, ok := ParseExpiry(market)
	if !ok {
		return Instrument{}, false
	}

	strike, hasStrike, optionType := ParseStrikeType(market)
	return Instrument{
		Expiry:     expiry,
		Strike:     strike,
		HasStrike:  hasStrike,
		OptionType: optionType,
	}, true
}

// WithExpiry annotates catalog entries with the expiry parsed from their
// market identifier, silently dropping entries whose identifier has no
// parseable expiry.
func WithExpiry(entries []model.CatalogEntry) []model.CatalogEntry {
	out := make([]model.CatalogEntry, 0, len(entries))
	for _, e := range entries {
		expiry, ok := ParseExpiry(e.Market)
		if !ok {
			continue
		}
		e.Expiry = expiry
		out = append(out, e)
	}
	return out
}
