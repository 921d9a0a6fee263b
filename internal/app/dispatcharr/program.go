package dispatcharr

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"time"

	"go.uber.org/zap"
)

type Program struct {
	ID        int64  `json:"id"`
	TvgID     string `json:"tvg_id"`     // schedule key, matches Channel.TvgID
	StartTime string `json:"start_time"` // RFC3339, parsed by the guide index
	EndTime   string `json:"end_time"`   // RFC3339, exclusive
	Title     string `json:"title"`
	SubTitle  string `json:"sub_title"`
}

// GetPrograms fetches the program schedule for the given UTC range. The
// date-range query is attempted first; when it fails or returns no rows the
// full grid endpoint is fetched instead, so a backend without range filtering
// still produces a usable schedule.
func (c *Client) GetPrograms(ctx context.Context, token string, start, end time.Time) ([]Program, error) {
	programs, err := c.getProgramsInRange(ctx, token, start, end)
	switch {
	case err != nil:
		c.logger.Warn("Program range query failed, falling back to the full grid.", zap.Error(err))
	case len(programs) == 0:
		c.logger.Warn("Program range query returned no rows, falling back to the full grid.")
	default:
		return programs, nil
	}

	programs, err = c.getProgramGrid(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("list programs: %w", err)
	}
	return programs, nil
}

// getProgramsInRange queries the program endpoint filtered to [start, end).
func (c *Client) getProgramsInRange(ctx context.Context, token string, start, end time.Time) ([]Program, error) {
	params := url.Values{}
	params.Set("start_time__gte", start.UTC().Format(time.RFC3339))
	params.Set("start_time__lt", end.UTC().Format(time.RFC3339))

	items, err := c.fetchAll(ctx, token, c.baseURL+"/api/epg/programs/?"+params.Encode())
	if err != nil {
		return nil, err
	}
	return decodePrograms(items), nil
}

// getProgramGrid fetches the complete current schedule grid.
func (c *Client) getProgramGrid(ctx context.Context, token string) ([]Program, error) {
	items, err := c.fetchAll(ctx, token, c.baseURL+"/api/epg/grid/")
	if err != nil {
		return nil, err
	}
	return decodePrograms(items), nil
}

func decodePrograms(items []json.RawMessage) []Program {
	programs := make([]Program, 0, len(items))
	for _, item := range items {
		var program Program
		if err := json.Unmarshal(item, &program); err != nil {
			continue
		}
		programs = append(programs, program)
	}
	return programs
}
