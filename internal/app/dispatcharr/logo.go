package dispatcharr

import (
	"context"
	"encoding/json"
	"fmt"
)

type Logo struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	URL      string `json:"url"`
	CacheURL string `json:"cache_url"`
}

// BestURL returns the cached copy when available, otherwise the source URL.
func (l Logo) BestURL() string {
	if l.CacheURL != "" {
		return l.CacheURL
	}
	return l.URL
}

// GetLogos fetches all logos as an id to logo mapping.
func (c *Client) GetLogos(ctx context.Context, token string) (map[int64]Logo, error) {
	items, err := c.fetchAll(ctx, token, c.baseURL+"/api/channels/logos/")
	if err != nil {
		return nil, fmt.Errorf("list logos: %w", err)
	}

	logos := make(map[int64]Logo, len(items))
	for _, item := range items {
		var logo Logo
		if err = json.Unmarshal(item, &logo); err != nil {
			continue
		}
		if logo.ID != 0 {
			logos[logo.ID] = logo
		}
	}
	return logos, nil
}
