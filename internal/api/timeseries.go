package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rickgao/deribit-options-data/internal/model"
)

// GetTimeseries fetches all observations for the given markets within
// [start, end], paginating through results. granularity may be empty for
// the endpoint default.
func (c *Client) GetTimeseries(ctx context.Context, metric model.Metric, markets []string, start, end time.Time, granularity string) ([]model.Row, error) {
	path := "/timeseries/" + metric.Path()

	var rows []model.Row
	pageToken := ""

	for {
		query := url.Values{}
		query.Set("markets", strings.Join(markets, ","))
		query.Set("start_time", start.UTC().Format(time.RFC3339))
		query.Set("end_time", end.UTC().Format(time.RFC3339))
		query.Set("page_size", strconv.Itoa(c.pageSize))
		if granularity != "" {
			query.Set("granularity", granularity)
		}
		if pageToken != "" {
			query.Set("next_page_token", pageToken)
		}

		var resp timeseriesResponse
		if err := c.get(ctx, path, query, &resp); err != nil {
			return nil, fmt.Errorf("get timeseries %s: %w", metric.Path(), err)
		}

		page, err := decodeRows(metric, resp.Data)
		if err != nil {
			return nil, fmt.Errorf("decode timeseries %s: %w", metric.Path(), err)
		}
		rows = append(rows, page...)

		if resp.NextPageToken == "" {
			break
		}
		pageToken = resp.NextPageToken
	}

	return rows, nil
}

// decodeRows decodes a timeseries data page into typed rows.
func decodeRows(metric model.Metric, data json.RawMessage) ([]model.Row, error) {
	if len(data) == 0 {
		return nil, nil
	}

	switch metric {
	case model.MetricGreeks:
		var wire []apiGreeksRow
		if err := json.Unmarshal(data, &wire); err != nil {
			return nil, err
		}
		rows := make([]model.Row, len(wire))
		for i, r := range wire {
			rows[i] = r.toModel()
		}
		return rows, nil

	case model.MetricImpliedVolatility:
		var wire []apiIVRow
		if err := json.Unmarshal(data, &wire); err != nil {
			return nil, err
		}
		rows := make([]model.Row, len(wire))
		for i, r := range wire {
			rows[i] = r.toModel()
		}
		return rows, nil

	case model.MetricContractPrices:
		var wire []apiPriceRow
		if err := json.Unmarshal(data, &wire); err != nil {
			return nil, err
		}
		rows := make([]model.Row, len(wire))
		for i, r := range wire {
			rows[i] = r.toModel()
		}
		return rows, nil

	case model.MetricOpenInterest:
		var wire []apiOpenInterestRow
		if err := json.Unmarshal(data, &wire); err != nil {
			return nil, err
		}
		rows := make([]model.Row, len(wire))
		for i, r := range wire {
			rows[i] = r.toModel()
		}
		return rows, nil
	}

	return nil, fmt.Errorf("unknown metric %q", metric)
}
