// Package probe implements the one-shot liveness check issued before any
// streaming attempt. Success is a 2xx response from the backend's health
// endpoint within a bounded timeout; non-2xx statuses, timeouts, and
// transport errors are all reported uniformly as a failed probe. The prober
// never retries — retry policy belongs to the session connector.
package probe

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

// Prober checks backend readiness against a fixed status endpoint.
type Prober struct {
	client *resty.Client
	url    string
}

// New creates a prober for the given base URL (e.g. "http://127.0.0.1:3030").
func New(serverURL string, timeout time.Duration) *Prober {
	client := resty.New().
		SetTimeout(timeout).
		SetRetryCount(0).
		SetHeader("User-Agent", "termbridge-client/1.0")

	return &Prober{
		client: client,
		url:    strings.TrimSuffix(serverURL, "/") + "/health",
	}
}

// Check performs the liveness request. A nil return means the backend is
// ready to accept a terminal stream.
func (p *Prober) Check(ctx context.Context) error {
	resp, err := p.client.R().SetContext(ctx).Get(p.url)
	if err != nil {
		return fmt.Errorf("health probe: %w", err)
	}
	if !resp.IsSuccess() {
		return fmt.Errorf("health probe: backend returned %s", resp.Status())
	}
	return nil
}
