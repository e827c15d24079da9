// Package client is the HTTP transport client for the prediction API. It is
// used by sentimentctl and the session orchestrator; server-side code never
// imports it.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"sentimentd/pkg/types"
)

// Client is an HTTP client for the prediction service.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a client. timeout bounds each call end to end; per-call
// contexts can shorten it further but never extend it.
func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Predict sends a single text for prediction. The requestID is echoed back
// by the server so callers can match completions to requests.
func (c *Client) Predict(ctx context.Context, text, requestID string) (*types.PredictionResult, error) {
	reqBody := types.PredictionRequest{
		Text:      text,
		RequestID: requestID,
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/predict", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, classifyTransportError(ctx, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, decodeServerError(resp)
	}

	var result types.PredictionResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &result, nil
}

// Status fetches the server's /status projection.
func (c *Client) Status(ctx context.Context) (*types.StatusResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/status", nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, classifyTransportError(ctx, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, decodeServerError(resp)
	}
	var status types.StatusResponse
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &status, nil
}

// ClientConfig fetches the server-advertised orchestration defaults.
func (c *Client) ClientConfig(ctx context.Context) (*types.ClientConfig, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/config/client", nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, classifyTransportError(ctx, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, decodeServerError(resp)
	}
	var cc types.ClientConfig
	if err := json.NewDecoder(resp.Body).Decode(&cc); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &cc, nil
}

// decodeServerError turns a non-2xx response into a *ServerError, keeping
// the machine-readable kind when the body carries one.
func decodeServerError(resp *http.Response) error {
	var payload types.ErrorResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil || payload.Error == "" {
		return &ServerError{Code: resp.StatusCode, Message: fmt.Sprintf("server returned status %d", resp.StatusCode)}
	}
	return &ServerError{Code: resp.StatusCode, Kind: payload.Kind, Message: payload.Error}
}
