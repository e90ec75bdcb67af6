// Package client fetches snapshots from the MachineWise sensor API.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-resty/resty/v2"

	"github.com/luki/machinewise/internal/sensor"
)

const (
	sensorDataPath = "/api/sensor-data"
	healthPath     = "/api/health"
)

// StatusError is returned for any non-2xx response.
type StatusError struct {
	Code    int
	Message string // from the {"error": ...} body, if any
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("HTTP error! status: %d", e.Code)
	}
	return fmt.Sprintf("HTTP error! status: %d: %s", e.Code, e.Message)
}

// Health is the liveness payload.
type Health struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

type errorBody struct {
	Error string `json:"error"`
}

// Client talks to the sensor API. It adds no timeout of its own.
type Client struct {
	rc *resty.Client
}

// New creates a client for the API rooted at baseURL. A nil httpClient
// uses resty's default transport.
func New(baseURL string, httpClient *http.Client) *Client {
	var rc *resty.Client
	if httpClient != nil {
		rc = resty.NewWithClient(httpClient)
	} else {
		rc = resty.New()
	}
	rc.SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetHeader("Accept", "application/json")
	return &Client{rc: rc}
}

// BaseURL returns the API root.
func (c *Client) BaseURL() string {
	return c.rc.BaseURL
}

// Snapshot fetches the current sensor snapshot.
func (c *Client) Snapshot(ctx context.Context) (*sensor.Snapshot, error) {
	var snap sensor.Snapshot
	if err := c.get(ctx, sensorDataPath, &snap); err != nil {
		return nil, err
	}
	return &snap, nil
}

// Health calls the liveness endpoint.
func (c *Client) Health(ctx context.Context) (Health, error) {
	var h Health
	if err := c.get(ctx, healthPath, &h); err != nil {
		return Health{}, err
	}
	return h, nil
}

// get decodes the body as JSON whatever the response Content-Type, so a
// proxy page or an empty 200 is an error rather than a zero value.
func (c *Client) get(ctx context.Context, path string, result any) error {
	resp, err := c.rc.R().
		SetContext(ctx).
		Get(path)
	if err != nil {
		return fmt.Errorf("GET %s: %w", path, err)
	}
	if !resp.IsSuccess() {
		var apiErr errorBody
		_ = json.Unmarshal(resp.Body(), &apiErr)
		return &StatusError{Code: resp.StatusCode(), Message: apiErr.Error}
	}
	if err := json.Unmarshal(resp.Body(), result); err != nil {
		return fmt.Errorf("GET %s: decode response: %w", path, err)
	}
	return nil
}
