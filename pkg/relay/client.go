// Package relay talks to the external workflow-automation webhook that
// performs bulk import and matching. The backend only forwards payloads and
// translates replies; the processing itself is remote.
package relay

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// ErrUnavailable is the typed availability signal: the webhook endpoint is
// unreachable, unregistered, or disabled. Callers fall back to local direct
// insert on this error and on no other.
var ErrUnavailable = errors.New("relay endpoint unavailable")

// Result is the translated webhook reply.
type Result struct {
	Success bool   `json:"success"`
	Status  string `json:"status"`
	Message string `json:"message"`
	Count   int    `json:"count"`
	Detail  string `json:"detail"`
}

// Client posts bulk payloads to webhook paths under one base URL.
type Client struct {
	http *resty.Client
	log  *zap.Logger
}

// New builds a relay client. An empty baseURL disables the relay entirely:
// every call reports ErrUnavailable so callers use their local fallback.
func New(baseURL string, timeout time.Duration, log *zap.Logger) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	c := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetTimeout(timeout).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")
	return &Client{http: c, log: log}
}

// BulkImport forwards a payload to the webhook at path and interprets the
// JSON reply. The webhook answers {success:true,...}, {status:"Success",...}
// or {success:false,...}; anything else is an upstream failure. A reply
// indicating the webhook is not registered maps to ErrUnavailable.
func (c *Client) BulkImport(ctx context.Context, path string, payload any) (Result, error) {
	if c.http.BaseURL == "" || path == "" {
		return Result{}, ErrUnavailable
	}

	var res Result
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(payload).
		SetResult(&res).
		SetError(&res).
		Post(path)
	if err != nil {
		c.log.Warn("relay unreachable", zap.String("path", path), zap.Error(err))
		return Result{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	// A 404 from the automation host means the webhook is not registered.
	if resp.StatusCode() == 404 || notRegistered(res.Detail) || notRegistered(res.Message) {
		c.log.Warn("relay webhook not registered", zap.String("path", path))
		return Result{}, ErrUnavailable
	}

	if !strings.Contains(resp.Header().Get("Content-Type"), "json") {
		return Result{}, fmt.Errorf("relay returned non-JSON response (status %d)", resp.StatusCode())
	}
	if resp.IsError() {
		msg := res.Message
		if msg == "" {
			msg = res.Detail
		}
		if msg == "" {
			msg = "relay request failed"
		}
		return Result{}, fmt.Errorf("relay error (status %d): %s", resp.StatusCode(), msg)
	}

	if res.Success || res.Status == "Success" {
		res.Success = true
		return res, nil
	}
	// Explicit {success:false} is a clean "nothing imported" reply, for
	// example when every line already exists.
	if res.Message != "" || res.Status != "" {
		return res, nil
	}
	return Result{}, fmt.Errorf("unexpected relay response (status %d)", resp.StatusCode())
}

func notRegistered(s string) bool {
	return strings.Contains(strings.ToLower(s), "not registered")
}
