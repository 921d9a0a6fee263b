package dispatcharr

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// pagedEnvelope is the standard Dispatcharr list envelope.
type pagedEnvelope struct {
	Next    string            `json:"next"`
	Results []json.RawMessage `json:"results"`
}

// fetchAll retrieves rawURL and follows the results/next envelope until every
// page is exhausted. Endpoints that return a plain JSON array are treated as a
// single page.
func (c *Client) fetchAll(ctx context.Context, token, rawURL string) ([]json.RawMessage, error) {
	var items []json.RawMessage

	nextURL := rawURL
	for nextURL != "" {
		body, err := c.getBody(ctx, token, nextURL)
		if err != nil {
			return nil, err
		}

		trimmed := bytes.TrimLeft(body, " \t\r\n")
		if len(trimmed) == 0 {
			break
		}

		if trimmed[0] == '[' {
			var page []json.RawMessage
			if err = json.Unmarshal(trimmed, &page); err != nil {
				return nil, fmt.Errorf("%w: %w", ErrUnexpectedPayload, err)
			}
			return append(items, page...), nil
		}

		var envelope pagedEnvelope
		if err = json.Unmarshal(trimmed, &envelope); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrUnexpectedPayload, err)
		}

		items = append(items, envelope.Results...)
		nextURL = c.resolveNext(envelope.Next)
	}
	return items, nil
}

// getBody executes an authenticated GET and returns the raw response body.
func (c *Client) getBody(ctx context.Context, token, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}

	c.setCommonHeaders(req, token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("http status code: %d", resp.StatusCode)
	}

	return io.ReadAll(resp.Body)
}

// resolveNext turns the envelope's next link into an absolute URL.
func (c *Client) resolveNext(next string) string {
	if next == "" {
		return ""
	}
	if strings.HasPrefix(next, "http://") || strings.HasPrefix(next, "https://") {
		return next
	}
	return c.baseURL + "/" + strings.TrimLeft(next, "/")
}
