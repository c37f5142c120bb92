// Package api is the HTTP client used by the debug CLI.
package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// State mirrors the server's state snapshot.
type State struct {
	FEN      string   `json:"fen"`
	Turn     string   `json:"turn"`
	Moves    []string `json:"moves"`
	MovesSAN []string `json:"moves_san"`
	GameOver bool     `json:"game_over"`
	Status   string   `json:"status"`
}

// TurnOutcome mirrors the server's move response.
type TurnOutcome struct {
	FEN        string   `json:"fen"`
	Moves      []string `json:"moves"`
	MovesSAN   []string `json:"moves_san"`
	StatusText string   `json:"status_text"`
	GameOver   bool     `json:"game_over"`
	Rationale  string   `json:"rationale"`
}

// APIError is a non-2xx response decoded from the error envelope.
type APIError struct {
	Status  int
	Message string `json:"error"`
	Code    string `json:"code"`
	Details string `json:"details"`
	FEN     string `json:"fen"`
}

func (e *APIError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s", e.Message, e.Details)
	}
	return e.Message
}

type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

func New(baseURL string) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTPClient: &http.Client{
			// The move endpoint blocks on model round trips
			Timeout: 150 * time.Second,
		},
	}
}

// SetBaseURL updates the API base URL for the client
func (c *Client) SetBaseURL(url string) {
	c.BaseURL = strings.TrimRight(url, "/")
}

func (c *Client) doRequest(method, path string, body interface{}, result interface{}) error {
	url := c.BaseURL + path

	var bodyReader io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return err
		}
		bodyReader = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequest(method, url, bodyReader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{Status: resp.StatusCode}
		if jsonErr := json.Unmarshal(data, apiErr); jsonErr != nil {
			apiErr.Message = strings.TrimSpace(string(data))
		}
		return apiErr
	}

	if result != nil {
		return json.Unmarshal(data, result)
	}
	return nil
}

// GetState fetches the current position.
func (c *Client) GetState() (*State, error) {
	var st State
	if err := c.doRequest(http.MethodGet, "/api/v1/state", nil, &st); err != nil {
		return nil, err
	}
	return &st, nil
}

// Reset starts a new game.
func (c *Client) Reset() (*State, error) {
	var st State
	if err := c.doRequest(http.MethodPost, "/api/v1/reset", struct{}{}, &st); err != nil {
		return nil, err
	}
	return &st, nil
}

// Move submits a user move and returns the full turn outcome.
func (c *Client) Move(from, to, promotion, modelID string) (*TurnOutcome, error) {
	req := map[string]string{"from": from, "to": to}
	if promotion != "" {
		req["promotion"] = promotion
	}
	if modelID != "" {
		req["model_id"] = modelID
	}
	var out TurnOutcome
	if err := c.doRequest(http.MethodPost, "/api/v1/move", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
