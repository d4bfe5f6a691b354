// Package client provides the HTTP client for EP-Online energy label API.
package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"propscout_backend/internal/energylabel/transport"
	"propscout_backend/platform/breaker"
	"propscout_backend/platform/logger"
)

const (
	apiVersion     = "v5"
	requestTimeout = 10 * time.Second
)

var (
	// ErrUnauthorized means the API key was rejected.
	ErrUnauthorized = errors.New("ep-online: unauthorized")
	// ErrBadRequest means EP-Online rejected the address parameters.
	ErrBadRequest = errors.New("ep-online: bad request")
)

// Client is the HTTP client for EP-Online API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	breaker    *breaker.Breaker
	log        *logger.Logger
}

// New creates a new EP-Online API client. onStateChange may be nil.
func New(baseURL, apiKey string, onStateChange func(name, from, to string), log *logger.Logger) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: requestTimeout},
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		breaker: breaker.New(breaker.Settings{
			Name: "ep-online",
			// Bad requests do not count as failures.
			IsSuccessful: func(err error) bool {
				return err == nil || errors.Is(err, ErrBadRequest)
			},
			OnStateChange: onStateChange,
		}),
		log: log,
	}
}

// GetByAddress fetches the labels registered for addr. An address without a
// label yields an empty slice.
func (c *Client) GetByAddress(ctx context.Context, addr transport.Address) ([]transport.EnergyLabel, error) {
	params := url.Values{}
	params.Set("postcode", addr.Postcode)
	params.Set("huisnummer", addr.HouseNumber)
	if addr.HouseLetter != "" {
		params.Set("huisletter", addr.HouseLetter)
	}
	if addr.Addition != "" {
		params.Set("huisnummertoevoeging", addr.Addition)
	}

	reqURL := fmt.Sprintf("%s/api/%s/PandEnergielabel/Adres?%s", c.baseURL, apiVersion, params.Encode())
	return breaker.Execute(c.breaker, func() ([]transport.EnergyLabel, error) {
		return c.doRequest(ctx, reqURL)
	})
}

// BreakerState reports the state of the client's circuit breaker.
func (c *Client) BreakerState() string {
	return c.breaker.State()
}

func (c *Client) doRequest(ctx context.Context, reqURL string) ([]transport.EnergyLabel, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Authorization", c.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		c.log.Debug("ep-online no label found", "url", reqURL)
		return []transport.EnergyLabel{}, nil
	case http.StatusUnauthorized, http.StatusForbidden:
		return nil, ErrUnauthorized
	case http.StatusBadRequest:
		return nil, ErrBadRequest
	default:
		return nil, fmt.Errorf("upstream error: status %d", resp.StatusCode)
	}

	var apiLabels []apiEnergyLabel
	if err := json.NewDecoder(resp.Body).Decode(&apiLabels); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	labels := make([]transport.EnergyLabel, 0, len(apiLabels))
	for _, api := range apiLabels {
		labels = append(labels, api.toTransport())
	}
	return labels, nil
}

// apiEnergyLabel is the subset of the PandEnergielabelV5 response we read.
type apiEnergyLabel struct {
	Registratiedatum     *time.Time `json:"Registratiedatum"`
	GeldigTot            *time.Time `json:"Geldig_tot"`
	Gebouwtype           *string    `json:"Gebouwtype"`
	Postcode             *string    `json:"Postcode"`
	Huisnummer           int        `json:"Huisnummer"`
	Huisletter           *string    `json:"Huisletter"`
	Huisnummertoevoeging *string    `json:"Huisnummertoevoeging"`
	BAGVerblijfsobjectID *string    `json:"BAGVerblijfsobjectID"`
	Bouwjaar             int        `json:"Bouwjaar"`
	Energieklasse        *string    `json:"Energieklasse"`
	EnergieIndex         *float64   `json:"EnergieIndex"`
}

func (a *apiEnergyLabel) toTransport() transport.EnergyLabel {
	return transport.EnergyLabel{
		EnergyClass:  deref(a.Energieklasse),
		EnergyIndex:  a.EnergieIndex,
		RegisteredAt: a.Registratiedatum,
		ValidUntil:   a.GeldigTot,
		BuildingType: deref(a.Gebouwtype),
		YearBuilt:    a.Bouwjaar,
		Postcode:     deref(a.Postcode),
		HouseNumber:  a.Huisnummer,
		HouseLetter:  deref(a.Huisletter),
		Addition:     deref(a.Huisnummertoevoeging),
		BAGObjectID:  deref(a.BAGVerblijfsobjectID),
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
