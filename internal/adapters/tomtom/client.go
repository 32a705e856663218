package tomtom

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"route-planning-service/internal/adapters/httpclient"
)

const defaultBaseURL = "https://api.tomtom.com"

type Config struct {
	APIKey            string
	BaseURL           string
	CountrySet        string
	Timeout           time.Duration
	RequestsPerSecond float64
}

// Client implements ports.Geocoder (fuzzy search) and ports.RoutingProvider
// (calculateRoute) against the TomTom REST APIs.
type Client struct {
	http       *httpclient.Client
	apiKey     string
	baseURL    string
	countrySet string
}

func New(cfg Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("TomTom api key is empty")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}

	return &Client{
		http: httpclient.New(httpclient.Options{
			Timeout:           cfg.Timeout,
			RequestsPerSecond: cfg.RequestsPerSecond,
		}),
		apiKey:     cfg.APIKey,
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		countrySet: cfg.CountrySet,
	}, nil
}

// TomTom authenticates with a "key" query parameter.
func (c *Client) newRequest(ctx context.Context, method, url string, body io.Reader) (*http.Request, error) {
	req, err := httpclient.NewRequest(ctx, method, url, body)
	if err != nil {
		return nil, err
	}
	q := req.URL.Query()
	q.Set("key", c.apiKey)
	req.URL.RawQuery = q.Encode()
	return req, nil
}
