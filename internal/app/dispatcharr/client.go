package dispatcharr

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"go.uber.org/zap"
)

var (
	ErrAuthFailed        = errors.New("authentication failed")
	ErrUnexpectedPayload = errors.New("unexpected response payload")
)

type Client struct {
	httpClient *http.Client
	baseURL    string            // Dispatcharr server, e.g. http://127.0.0.1:9191
	username   string
	password   string
	headers    map[string]string // custom HTTP request headers

	logger *zap.Logger
}

func NewClient(httpClient *http.Client, baseURL, username, password string, headers map[string]string) (*Client, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("baseURL is empty")
	} else if username == "" || password == "" {
		return nil, fmt.Errorf("username or password is empty")
	}

	c := Client{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(baseURL, "/"),
		username:   username,
		password:   password,
		headers:    headers,
		logger:     zap.L(),
	}
	if c.httpClient == nil {
		c.httpClient = http.DefaultClient
	}
	return &c, nil
}

func (c *Client) setCommonHeaders(req *http.Request, token string) {
	req.Header.Set("Accept", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	// custom HTTP request headers
	if len(c.headers) > 0 {
		for k, v := range c.headers {
			req.Header.Set(k, v)
		}
	}
}
