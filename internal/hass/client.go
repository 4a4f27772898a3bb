// Package hass talks to the Home Assistant REST API.
package hass

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	log "log/slog"

	"github.com/pkg/errors"
)

// Response is a completed HTTP exchange. Non-200 statuses are not errors
// at this layer.
type Response struct {
	Status int
	Body   []byte
}

func (r *Response) OK() bool {
	return r.Status == http.StatusOK
}

func (r *Response) Text() string {
	return strings.TrimSpace(string(r.Body))
}

type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

// NewClient builds a client for baseURL authenticating with a long-lived
// access token. A nil httpClient falls back to http.DefaultClient.
func NewClient(baseURL, token string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		http:    httpClient,
	}
}

// Get issues GET {base}{path}.
func (c *Client) Get(ctx context.Context, path string) (*Response, error) {
	return c.do(ctx, http.MethodGet, c.baseURL+path, nil)
}

// CallService issues {verb} {base}/api/services/{domain}/{action} with a JSON body.
func (c *Client) CallService(ctx context.Context, verb, domain, action string, payload []byte) (*Response, error) {
	url := fmt.Sprintf("%s/api/services/%s/%s", c.baseURL, domain, action)
	return c.do(ctx, verb, url, payload)
}

func (c *Client) do(ctx context.Context, verb, url string, body []byte) (*Response, error) {
	var rd io.Reader
	if body != nil {
		rd = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, verb, url, rd)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to construct %s request to %s", verb, url)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")

	log.Debug("HA request", "method", verb, "url", url)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to send %s request to %s", verb, url)
	}
	defer resp.Body.Close()

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read response from %s", url)
	}

	return &Response{Status: resp.StatusCode, Body: b}, nil
}
