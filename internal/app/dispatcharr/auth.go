package dispatcharr

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// Authenticate exchanges the configured credentials for a JWT access token.
func (c *Client) Authenticate(ctx context.Context) (string, error) {
	payload, err := json.Marshal(map[string]string{
		"username": c.username,
		"password": c.password,
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/api/accounts/token/", bytes.NewReader(payload))
	if err != nil {
		return "", err
	}

	c.setCommonHeaders(req, "")
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrAuthFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: http status code: %d", ErrAuthFailed, resp.StatusCode)
	}

	var result struct {
		Access string `json:"access"`
	}
	if err = json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("%w: %w", ErrAuthFailed, err)
	}
	if result.Access == "" {
		return "", fmt.Errorf("%w: token response did not contain 'access'", ErrAuthFailed)
	}
	return result.Access, nil
}
