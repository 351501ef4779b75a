package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

type apiClient struct {
	httpClient *http.Client
	server     string
	token      string
}

func newAPIClient(server, token string) *apiClient {
	return &apiClient{
		httpClient: &http.Client{Timeout: 20 * time.Second},
		server:     strings.TrimRight(server, "/"),
		token:      token,
	}
}

func (c *apiClient) request(ctx context.Context, method, path string, in any, out any) error {
	var body io.Reader
	if in != nil {
		buf := &bytes.Buffer{}
		if err := json.NewEncoder(buf).Encode(in); err != nil {
			return err
		}
		body = buf
	}

	req, err := http.NewRequestWithContext(ctx, method, c.server+path, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		return readAPIError(resp)
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// requestList unwraps list endpoints, which answer with {"<key>": [...]}.
func (c *apiClient) requestList(ctx context.Context, path, key string, out any) error {
	var envelope map[string]json.RawMessage
	if err := c.request(ctx, http.MethodGet, path, nil, &envelope); err != nil {
		return err
	}
	raw, ok := envelope[key]
	if !ok {
		return fmt.Errorf("api response is missing %q", key)
	}
	return json.Unmarshal(raw, out)
}

// apiError is a failed HTTP call. The server answers errors as
// {"error": "..."}; anything else is kept verbatim.
type apiError struct {
	Status  int
	Message string
}

func (e *apiError) Error() string {
	if prefix := failurePrefix(e.Status); prefix != "" {
		return prefix + e.Message
	}
	return fmt.Sprintf("api error (%d): %s", e.Status, e.Message)
}

func readAPIError(resp *http.Response) error {
	payload, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	var body struct {
		Error string `json:"error"`
	}
	message := strings.TrimSpace(string(payload))
	if err := json.Unmarshal(payload, &body); err == nil && body.Error != "" {
		message = body.Error
	}
	return &apiError{Status: resp.StatusCode, Message: message}
}

// failurePrefix gives the user-facing lead-in for a records API status. RPC
// codes are the HTTP status times 100 and share these messages.
func failurePrefix(status int) string {
	switch status {
	case http.StatusUnauthorized:
		return "not logged in or token expired: "
	case http.StatusForbidden:
		return "not allowed: "
	case http.StatusConflict:
		return "already on record: "
	case http.StatusNotFound:
		return "no such record: "
	case http.StatusBadRequest:
		return "rejected: "
	}
	return ""
}
