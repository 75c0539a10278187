// Package vapi talks to the Vapi voice-call platform: placing the interview
// call and driving it to a terminal state through a bounded polling loop.
package vapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
)

const (
	apiURL      = "https://api.vapi.ai"
	contentType = "application/json"
)

// Call is the platform's view of a single call session. Status only ever
// moves forward; the poller never regresses it.
type Call struct {
	ID          string    `json:"id"`
	Status      string    `json:"status"`
	Transcript  string    `json:"transcript,omitempty"`
	EndedReason string    `json:"endedReason,omitempty"`
	Messages    []Message `json:"messages,omitempty"`
}

// Message is one speaker turn in the call log.
type Message struct {
	Role    string `json:"role"`
	Message string `json:"message"`
}

// Client is the Vapi REST API client.
type Client struct {
	APIURL     string
	HTTPClient *http.Client

	token         string
	assistantID   string
	phoneNumberID string
	logger        *zap.Logger
}

func New(token, assistantID, phoneNumberID string, logger *zap.Logger) *Client {
	return &Client{
		APIURL: apiURL,
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		token:         token,
		assistantID:   assistantID,
		phoneNumberID: phoneNumberID,
		logger:        logger,
	}
}

// PlaceCall starts an outbound interview call. The questions are handed to
// the voice assistant as a template variable; the metadata travels with the
// call and comes back on webhook events, carrying the run correlation ID.
func (c *Client) PlaceCall(ctx context.Context, phone, questions string, metadata map[string]string) (*Call, error) {
	payload := map[string]any{
		"assistantId":   c.assistantID,
		"phoneNumberId": c.phoneNumberID,
		"customer": map[string]string{
			"number": phone,
		},
	}
	if questions != "" {
		payload["assistantOverrides"] = map[string]any{
			"variableValues": map[string]string{
				"questions": questions,
			},
		}
	}
	if len(metadata) > 0 {
		payload["metadata"] = metadata
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.APIURL+"/call", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	c.setHeaders(req)

	resp, err := c.request(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusAccepted {
		text, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("bad status: %s: %s", resp.Status, text)
	}

	var call Call
	if err := json.NewDecoder(resp.Body).Decode(&call); err != nil {
		return nil, err
	}

	return &call, nil
}

// GetCall fetches the current state of a call.
func (c *Client) GetCall(ctx context.Context, id string) (*Call, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf("%s/call/%s", c.APIURL, id), nil)
	if err != nil {
		return nil, err
	}
	c.setHeaders(req)

	resp, err := c.request(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("bad status: %s", resp.Status)
	}

	var call Call
	if err := json.NewDecoder(resp.Body).Decode(&call); err != nil {
		return nil, err
	}

	return &call, nil
}

func (c *Client) request(req *http.Request) (*http.Response, error) {
	c.logger.Debug("make request", zap.String("url", req.URL.String()))
	return c.HTTPClient.Do(req)
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.token))
	req.Header.Set("Content-Type", contentType)
}
