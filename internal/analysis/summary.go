package analysis

import (
	"encoding/csv"
	"fmt"
	"os"
	"sort"
	"strconv"
	"time"

	"github.com/rickgao/deribit-options-data/internal/market"
	"github.com/rickgao/deribit-options-data/internal/model"
)

// GreekNames lists the greek columns in report order.
var GreekNames = []string{"delta", "gamma", "vega", "theta", "rho"}

// OptionSummary holds per-option descriptive statistics over an exported
// greeks series.
type OptionSummary struct {
	Market     string
	OptionType string
	Strike     float64
	Expiry     time.Time

	First time.Time
	Last  time.Time

	Stats map[string]Describe // keyed by greek name
	Final map[string]float64  // most recent observation per greek
}

// LoadGreeksCSV reads one exported market-greeks file.
func LoadGreeksCSV(path string) ([]model.GreeksRow, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open greeks csv: %w", err)
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read greeks csv: %w", err)
	}
	if len(records) < 2 {
		return nil, nil
	}

	col := make(map[string]int, len(records[0]))
	for i, name := range records[0] {
		col[name] = i
	}
	for _, name := range append([]string{"market", "time"}, GreekNames...) {
		if _, ok := col[name]; !ok {
			return nil, fmt.Errorf("greeks csv missing column %q", name)
		}
	}

	rows := make([]model.GreeksRow, 0, len(records)-1)
	for _, rec := range records[1:] {
		ts, err := time.Parse(time.RFC3339, rec[col["time"]])
		if err != nil {
			return nil, fmt.Errorf("parse time %q: %w", rec[col["time"]], err)
		}
		rows = append(rows, model.GreeksRow{
			Market: rec[col["market"]],
			Time:   ts,
			Delta:  parseField(rec[col["delta"]]),
			Gamma:  parseField(rec[col["gamma"]]),
			Vega:   parseField(rec[col["vega"]]),
			Theta:  parseField(rec[col["theta"]]),
			Rho:    parseField(rec[col["rho"]]),
		})
	}
	return rows, nil
}

// SummarizeGreeks computes per-greek statistics for one market's series.
func SummarizeGreeks(marketID string, rows []model.GreeksRow) OptionSummary {
	summary := OptionSummary{
		Market: marketID,
		Stats:  make(map[string]Describe, len(GreekNames)),
		Final:  make(map[string]float64, len(GreekNames)),
	}

	if inst, ok := market.Parse(marketID); ok {
		summary.Expiry = inst.Expiry
		summary.Strike = inst.Strike
		summary.OptionType = inst.OptionType
	}

	if len(rows) == 0 {
		return summary
	}

	sorted := make([]model.GreeksRow, len(rows))
	copy(sorted, rows)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Time.Before(sorted[j].Time) })

	summary.First = sorted[0].Time
	summary.Last = sorted[len(sorted)-1].Time

	values := map[string][]float64{}
	for _, r := range sorted {
		values["delta"] = append(values["delta"], r.Delta)
		values["gamma"] = append(values["gamma"], r.Gamma)
		values["vega"] = append(values["vega"], r.Vega)
		values["theta"] = append(values["theta"], r.Theta)
		values["rho"] = append(values["rho"], r.Rho)
	}

	last := sorted[len(sorted)-1]
	summary.Final["delta"] = last.Delta
	summary.Final["gamma"] = last.Gamma
	summary.Final["vega"] = last.Vega
	summary.Final["theta"] = last.Theta
	summary.Final["rho"] = last.Rho

	for _, g := range GreekNames {
		summary.Stats[g] = NewDescribe(values[g])
	}
	return summary
}

// WriteSummaryCSV writes the cross-option comparison table.
func WriteSummaryCSV(path string, summaries []OptionSummary) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create summary csv: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)

	header := []string{"market", "option_type", "strike", "expiry", "first", "last"}
	for _, g := range GreekNames {
		header = append(header, "mean_"+g, "std_"+g, "min_"+g, "max_"+g)
	}
	for _, g := range GreekNames {
		header = append(header, "final_"+g)
	}
	if err := w.Write(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for _, s := range summaries {
		record := []string{
			s.Market,
			s.OptionType,
			strconv.FormatFloat(s.Strike, 'f', -1, 64),
			formatTime(s.Expiry),
			formatTime(s.First),
			formatTime(s.Last),
		}
		for _, g := range GreekNames {
			d := s.Stats[g]
			record = append(record,
				strconv.FormatFloat(d.Mean, 'g', -1, 64),
				strconv.FormatFloat(d.Std, 'g', -1, 64),
				strconv.FormatFloat(d.Min, 'g', -1, 64),
				strconv.FormatFloat(d.Max, 'g', -1, 64),
			)
		}
		for _, g := range GreekNames {
			record = append(record, strconv.FormatFloat(s.Final[g], 'g', -1, 64))
		}
		if err := w.Write(record); err != nil {
			return fmt.Errorf("write record: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush: %w", err)
	}
	return f.Close()
}

func parseField(s string) float64 {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return f
}
