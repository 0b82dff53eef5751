package api

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/rickgao/deribit-options-data/internal/model"
)

// GetCatalog fetches the full market catalog for a metric, paginating
// through all results. base may be empty to fetch all base assets.
func (c *Client) GetCatalog(ctx context.Context, metric model.Metric, exchange, base string) ([]model.CatalogEntry, error) {
	path := "/catalog-v2/" + metric.Path()

	var entries []model.CatalogEntry
	pageToken := ""

	for {
		query := url.Values{}
		query.Set("exchange", exchange)
		if base != "" {
			query.Set("base", base)
		}
		query.Set("page_size", strconv.Itoa(c.pageSize))
		if pageToken != "" {
			query.Set("next_page_token", pageToken)
		}

		var resp catalogResponse
		if err := c.get(ctx, path, query, &resp); err != nil {
			return nil, fmt.Errorf("get catalog %s: %w", metric.Path(), err)
		}

		for _, e := range resp.Data {
			entries = append(entries, e.toModel())
		}

		if resp.NextPageToken == "" {
			break
		}
		pageToken = resp.NextPageToken
	}

	return entries, nil
}
