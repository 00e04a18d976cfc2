// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package httputil provides HTTP helpers shared across pipeline components.
//
// Every external call in the pipeline is a single attempt bounded by its own
// timeout; retry policy, where one exists at all, belongs to the orchestrator.
// The helpers here therefore classify failures instead of retrying them.
package httputil

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"
)

// NewClient returns an HTTP client with the given per-request timeout.
// A zero timeout falls back to 15 seconds so no call can hang a request.
func NewClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &http.Client{Timeout: timeout}
}

// IsTimeout reports whether err represents an exceeded deadline: a cancelled
// or expired context, a net-level timeout, or the client's own timeout.
func IsTimeout(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	return false
}

// GetJSON performs a single GET request and decodes a JSON response body
// into v. Non-200 responses are returned as *StatusError so callers can
// inspect the status code.
func GetJSON(ctx context.Context, client *http.Client, url, userAgent string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	if userAgent != "" {
		req.Header.Set("User-Agent", userAgent)
	}

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return &StatusError{Code: resp.StatusCode}
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("parsing response: %w", err)
	}
	return nil
}

// StatusError is a non-200 HTTP response.
type StatusError struct {
	Code int
}

// Error returns the status description.
func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP %d", e.Code)
}

// StatusCode extracts the HTTP status code from err, or 0 when err is not a
// *StatusError.
func StatusCode(err error) int {
	var se *StatusError
	if errors.As(err, &se) {
		return se.Code
	}
	return 0
}
