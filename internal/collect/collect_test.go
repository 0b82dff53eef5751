package collect

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rickgao/deribit-options-data/internal/config"
	"github.com/rickgao/deribit-options-data/internal/model"
)

type fetchCall struct {
	markets []string
	start   time.Time
	end     time.Time
}

// fakeClient serves a fixed catalog and records timeseries calls.
type fakeClient struct {
	catalog    []model.CatalogEntry
	catalogErr error
	fetchErr   map[string]error // keyed by first market in the group

	mu    sync.Mutex
	calls []fetchCall
}

func (f *fakeClient) GetCatalog(ctx context.Context, metric model.Metric, exchange, base string) ([]model.CatalogEntry, error) {
	if f.catalogErr != nil {
		return nil, f.catalogErr
	}
	return f.catalog, nil
}

func (f *fakeClient) GetTimeseries(ctx context.Context, metric model.Metric, markets []string, start, end time.Time, granularity string) ([]model.Row, error) {
	f.mu.Lock()
	f.calls = append(f.calls, fetchCall{markets: markets, start: start, end: end})
	f.mu.Unlock()

	if err := f.fetchErr[markets[0]]; err != nil {
		return nil, err
	}

	rows := make([]model.Row, 0, len(markets))
	for _, m := range markets {
		rows = append(rows, model.GreeksRow{Market: m, Time: start})
	}
	return rows, nil
}

type fakeExporter struct {
	mu   sync.Mutex
	rows []model.Row
}

func (f *fakeExporter) Export(metric model.Metric, rows []model.Row) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rows = append(f.rows, rows...)
	return nil
}

func testConfig() config.CollectConfig {
	return config.CollectConfig{
		Exchange:         "deribit",
		Base:             "btc",
		Granularity:      "1d",
		DaysBeforeExpiry: 22,
		Concurrency:      5,
		BatchDelay:       0,
	}
}

func TestRun_WindowsPerExpiryGroup(t *testing.T) {
	client := &fakeClient{
		catalog: []model.CatalogEntry{
			{Market: "deribit-BTC-13DEC24-100000-C-option"},
			{Market: "deribit-BTC-20DEC24-100000-P-option"},
			{Market: "deribit-BTC-perpetual-future"}, // unparseable, dropped
		},
	}
	exporter := &fakeExporter{}
	c := New(testConfig(), client, exporter, nil, nil)

	res, err := c.Run(context.Background(),
		model.MetricGreeks,
		time.Date(2024, 12, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC),
	)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if res.Succeeded != 2 || res.Total != 2 {
		t.Errorf("Result = %d/%d, want 2/2", res.Succeeded, res.Total)
	}
	if len(client.calls) != 2 {
		t.Fatalf("timeseries calls = %d, want 2 (one per expiry group)", len(client.calls))
	}

	wantWindows := map[string][2]time.Time{
		"deribit-BTC-13DEC24-100000-C-option": {
			time.Date(2024, 11, 21, 8, 0, 0, 0, time.UTC),
			time.Date(2024, 12, 13, 8, 0, 0, 0, time.UTC),
		},
		"deribit-BTC-20DEC24-100000-P-option": {
			time.Date(2024, 11, 28, 8, 0, 0, 0, time.UTC),
			time.Date(2024, 12, 20, 8, 0, 0, 0, time.UTC),
		},
	}
	for _, call := range client.calls {
		want, ok := wantWindows[call.markets[0]]
		if !ok {
			t.Fatalf("unexpected group %v", call.markets)
		}
		if !call.start.Equal(want[0]) || !call.end.Equal(want[1]) {
			t.Errorf("window for %s = [%v, %v], want [%v, %v]",
				call.markets[0], call.start, call.end, want[0], want[1])
		}
	}

	if len(exporter.rows) != 2 {
		t.Errorf("exported rows = %d, want 2", len(exporter.rows))
	}
}

func TestRun_GroupFailureContained(t *testing.T) {
	client := &fakeClient{
		catalog: []model.CatalogEntry{
			{Market: "deribit-BTC-13DEC24-100000-C-option"},
			{Market: "deribit-BTC-20DEC24-100000-P-option"},
		},
		fetchErr: map[string]error{
			"deribit-BTC-13DEC24-100000-C-option": errors.New("api down"),
		},
	}
	c := New(testConfig(), client, &fakeExporter{}, nil, nil)

	res, err := c.Run(context.Background(),
		model.MetricGreeks,
		time.Date(2024, 12, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC),
	)
	if err != nil {
		t.Fatalf("Run returned run-level error for a group failure: %v", err)
	}
	if res.Succeeded != 1 || res.Total != 2 {
		t.Errorf("Result = %d/%d, want 1/2", res.Succeeded, res.Total)
	}
}

func TestRun_CatalogErrorPropagates(t *testing.T) {
	client := &fakeClient{catalogErr: errors.New("unauthorized")}
	c := New(testConfig(), client, &fakeExporter{}, nil, nil)

	_, err := c.Run(context.Background(), model.MetricGreeks, time.Now().AddDate(0, 0, -30), time.Now())
	if err == nil {
		t.Fatal("Run succeeded with failing catalog, want error")
	}
}

func TestRun_NoMatchingMarkets(t *testing.T) {
	client := &fakeClient{
		catalog: []model.CatalogEntry{
			{Market: "deribit-BTC-10JAN25-95000-C-option"},
		},
	}
	c := New(testConfig(), client, &fakeExporter{}, nil, nil)

	res, err := c.Run(context.Background(),
		model.MetricGreeks,
		time.Date(2024, 12, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC),
	)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if res.Succeeded != 0 || res.Total != 0 {
		t.Errorf("Result = %d/%d, want 0/0 for nothing to do", res.Succeeded, res.Total)
	}
	if len(client.calls) != 0 {
		t.Errorf("timeseries calls = %d, want 0", len(client.calls))
	}
}

func TestRunAll(t *testing.T) {
	client := &fakeClient{
		catalog: []model.CatalogEntry{
			{Market: "deribit-BTC-13DEC24-100000-C-option"},
		},
	}
	c := New(testConfig(), client, &fakeExporter{}, nil, nil)

	results, err := c.RunAll(context.Background(),
		[]model.Metric{model.MetricGreeks, model.MetricOpenInterest},
		time.Date(2024, 12, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC),
	)
	if err != nil {
		t.Fatalf("RunAll failed: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("len(results) = %d, want 2", len(results))
	}
	for _, res := range results {
		if res.Succeeded != 1 || res.Total != 1 {
			t.Errorf("%s: %d/%d, want 1/1", res.Metric, res.Succeeded, res.Total)
		}
	}
}
