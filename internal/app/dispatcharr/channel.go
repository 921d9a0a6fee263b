package dispatcharr

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

const channelPageSize = 100

type Channel struct {
	ID            int64         `json:"id"`
	Name          string        `json:"name"`
	ChannelNumber ChannelNumber `json:"channel_number"` // may be fractional, e.g. "2.1"
	GroupID       int64         `json:"channel_group_id"`
	LogoID        int64         `json:"logo_id"`
	TvgID         string        `json:"tvg_id"` // schedule key joining channels to programs
}

// ChannelNumber keeps the upstream channel number as text; the API emits it
// either as a JSON number or as a string.
type ChannelNumber string

func (n *ChannelNumber) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" || s == "" {
		*n = ""
		return nil
	}
	if s[0] == '"' {
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return err
		}
		*n = ChannelNumber(str)
		return nil
	}
	*n = ChannelNumber(s)
	return nil
}

// Display renders the channel number without a trailing .0 for whole numbers.
func (n ChannelNumber) Display() string {
	if n == "" {
		return "N/A"
	}
	if f, err := strconv.ParseFloat(string(n), 64); err == nil && f == float64(int64(f)) {
		return strconv.FormatInt(int64(f), 10)
	}
	return string(n)
}

// GetChannels fetches the full channel list, following pagination.
func (c *Client) GetChannels(ctx context.Context, token string) ([]Channel, error) {
	items, err := c.fetchAll(ctx, token,
		fmt.Sprintf("%s/api/channels/channels/?page_size=%d", c.baseURL, channelPageSize))
	if err != nil {
		return nil, fmt.Errorf("list channels: %w", err)
	}

	channels := make([]Channel, 0, len(items))
	for _, item := range items {
		var channel Channel
		if err = json.Unmarshal(item, &channel); err != nil {
			// tolerate single malformed entries
			continue
		}
		channels = append(channels, channel)
	}
	return channels, nil
}

// GetChannelGroups fetches all channel groups as an id to name mapping.
func (c *Client) GetChannelGroups(ctx context.Context, token string) (map[int64]string, error) {
	items, err := c.fetchAll(ctx, token, c.baseURL+"/api/channels/groups/")
	if err != nil {
		return nil, fmt.Errorf("list channel groups: %w", err)
	}

	groups := make(map[int64]string, len(items))
	for _, item := range items {
		var group struct {
			ID   int64  `json:"id"`
			Name string `json:"name"`
		}
		if err = json.Unmarshal(item, &group); err != nil {
			continue
		}
		if group.ID != 0 && group.Name != "" {
			groups[group.ID] = group.Name
		}
	}
	return groups, nil
}
