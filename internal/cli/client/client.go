package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

// Client talks to the quant API over HTTP.
type Client struct {
	baseURL string
	http    *resty.Client
}

func New(baseURL string, timeout time.Duration) *Client {
	baseURL = strings.TrimSuffix(strings.TrimSpace(baseURL), "/")
	http := resty.New()
	http.SetBaseURL(baseURL)
	http.SetTimeout(timeout)
	http.SetHeader("Content-Type", "application/json")
	http.SetHeader("Accept", "application/json")

	return &Client{baseURL: baseURL, http: http}
}

func (c *Client) Get(ctx context.Context, path string, out any) error {
	return c.do(ctx, resty.MethodGet, path, nil, out)
}

func (c *Client) Post(ctx context.Context, path string, body any, out any) error {
	return c.do(ctx, resty.MethodPost, path, body, out)
}

func (c *Client) Put(ctx context.Context, path string, body any, out any) error {
	return c.do(ctx, resty.MethodPut, path, body, out)
}

func (c *Client) Delete(ctx context.Context, path string) error {
	return c.do(ctx, resty.MethodDelete, path, nil, nil)
}

func (c *Client) do(ctx context.Context, method, path string, body any, out any) error {
	req := c.http.R().SetContext(ctx)
	if body != nil {
		req.SetBody(body)
	}
	resp, err := req.Execute(method, path)
	if err != nil {
		return err
	}

	if resp.IsError() {
		var payload map[string]any
		if err := json.Unmarshal(resp.Body(), &payload); err == nil {
			if msg, ok := payload["error"].(string); ok {
				return fmt.Errorf("http %d: %s", resp.StatusCode(), msg)
			}
		}
		return fmt.Errorf("http %d", resp.StatusCode())
	}

	if out != nil && len(resp.Body()) > 0 {
		// UseNumber so numbers are printed back exactly as the server sent them
		dec := json.NewDecoder(bytes.NewReader(resp.Body()))
		dec.UseNumber()
		return dec.Decode(out)
	}
	return nil
}

// WebSocketURL maps the client's http(s) base URL onto ws(s) for path.
func (c *Client) WebSocketURL(path string) (string, error) {
	u, err := url.Parse(c.baseURL + path)
	if err != nil {
		return "", err
	}
	switch u.Scheme {
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	default:
		return "", fmt.Errorf("unsupported scheme %q", u.Scheme)
	}
	return u.String(), nil
}
