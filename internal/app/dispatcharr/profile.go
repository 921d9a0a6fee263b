package dispatcharr

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

type Profile struct {
	ID       int64           `json:"id"`
	Name     string          `json:"name"`
	Channels []FlexibleInt64 `json:"channels"`
}

// ChannelIDs returns the channel identifiers the profile declares.
func (p *Profile) ChannelIDs() []int64 {
	ids := make([]int64, 0, len(p.Channels))
	for _, id := range p.Channels {
		if id > 0 {
			ids = append(ids, int64(id))
		}
	}
	return ids
}

// FlexibleInt64 accepts a JSON number or a digit string; anything else
// decodes to zero rather than failing the surrounding document.
type FlexibleInt64 int64

func (f *FlexibleInt64) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if len(s) > 1 && s[0] == '"' {
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return err
		}
		s = str
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		*f = 0
		return nil
	}
	*f = FlexibleInt64(n)
	return nil
}

// GetChannelProfileByName looks up a channel profile by name, case-insensitively.
// A missing profile is not an error; the caller treats nil as "filter disabled".
func (c *Client) GetChannelProfileByName(ctx context.Context, token, name string) (*Profile, error) {
	items, err := c.fetchAll(ctx, token, c.baseURL+"/api/channels/profiles/")
	if err != nil {
		return nil, fmt.Errorf("list channel profiles: %w", err)
	}

	for _, item := range items {
		var profile Profile
		if err = json.Unmarshal(item, &profile); err != nil {
			continue
		}
		if strings.EqualFold(profile.Name, name) {
			return &profile, nil
		}
	}
	return nil, nil
}
