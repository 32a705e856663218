package ors

import (
	"context"
	"io"
	"net/http"

	"route-planning-service/internal/adapters/httpclient"
)

// ORS authenticates with the bare key in the Authorization header.
func (c *Client) newRequest(ctx context.Context, method, url string, body io.Reader) (*http.Request, error) {
	req, err := httpclient.NewRequest(ctx, method, url, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", c.apiKey)
	return req, nil
}
