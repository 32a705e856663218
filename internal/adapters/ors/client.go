package ors

import (
	"errors"
	"strings"
	"time"

	"route-planning-service/internal/adapters/httpclient"
)

const defaultBaseURL = "https://api.openrouteservice.org"

type Config struct {
	APIKey            string
	BaseURL           string
	Profile           string
	Country           string
	Timeout           time.Duration
	RequestsPerSecond float64
}

// Client implements ports.Geocoder and ports.RoutingProvider on top of
// OpenRouteService. It is safe for concurrent use.
type Client struct {
	http    *httpclient.Client
	apiKey  string
	baseURL string
	profile string
	country string
}

func New(cfg Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("ORS api key is empty")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.Profile == "" {
		cfg.Profile = "driving-car"
	}

	return &Client{
		http: httpclient.New(httpclient.Options{
			Timeout:           cfg.Timeout,
			RequestsPerSecond: cfg.RequestsPerSecond,
		}),
		apiKey:  cfg.APIKey,
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		profile: cfg.Profile,
		country: cfg.Country,
	}, nil
}
