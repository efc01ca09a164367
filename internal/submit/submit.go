package submit

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/suykerbuyk/fitcalc/internal/config"
)

// DefaultMaxAttempts bounds retries on transport failures.
const DefaultMaxAttempts = 5

// Outcome reports whether the endpoint accepted the payload.
type Outcome struct {
	Success bool
	Message string
}

// Client posts JSON payloads to URL.
type Client struct {
	URL         string
	MaxAttempts int
	RetryDelay  time.Duration
	HTTP        *http.Client
}

// NewClient builds a Client from the submit config section.
func NewClient(cfg config.SubmitConfig) *Client {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		URL:         cfg.URL,
		MaxAttempts: cfg.MaxAttempts,
		RetryDelay:  500 * time.Millisecond,
		HTTP:        &http.Client{Timeout: timeout},
	}
}

// Send POSTs payload as JSON. Any 2xx status is a success. Transport
// errors are retried up to MaxAttempts; an HTTP error status ends the
// attempt immediately.
func (c *Client) Send(ctx context.Context, payload any) Outcome {
	if c.URL == "" {
		return Outcome{Message: "no submit URL configured"}
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return Outcome{Message: fmt.Sprintf("marshal payload: %v", err)}
	}

	attempts := c.MaxAttempts
	if attempts <= 0 {
		attempts = DefaultMaxAttempts
	}
	httpClient := c.HTTP
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	var lastErr error
	made := 0
	for attempt := 1; attempt <= attempts; attempt++ {
		if attempt > 1 {
			select {
			case <-ctx.Done():
				return Outcome{Message: fmt.Sprintf("cancelled after %d attempts: %v", attempt-1, ctx.Err())}
			case <-time.After(c.RetryDelay):
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.URL, bytes.NewReader(body))
		if err != nil {
			return Outcome{Message: fmt.Sprintf("create request: %v", err)}
		}
		req.Header.Set("Content-Type", "application/json")

		made++
		resp, err := httpClient.Do(req)
		if err != nil {
			lastErr = err
			if ctx.Err() != nil {
				break
			}
			log.Printf("warning: submit attempt %d/%d failed: %v", attempt, attempts, err)
			continue
		}
		return readOutcome(resp)
	}

	return Outcome{Message: fmt.Sprintf("giving up after %d attempts: %v", made, lastErr)}
}

func readOutcome(resp *http.Response) Outcome {
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return Outcome{Message: fmt.Sprintf("read response: %v", err)}
	}

	ok := resp.StatusCode >= 200 && resp.StatusCode < 300
	msg := responseMessage(respBody)
	if msg == "" {
		msg = fmt.Sprintf("%d %s", resp.StatusCode, http.StatusText(resp.StatusCode))
	} else if !ok {
		msg = fmt.Sprintf("status %d: %s", resp.StatusCode, msg)
	}
	return Outcome{Success: ok, Message: msg}
}

// responseMessage extracts a "message" (or "error") string from a JSON body.
func responseMessage(body []byte) string {
	var parsed struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return ""
	}
	if m := strings.TrimSpace(parsed.Message); m != "" {
		return m
	}
	return strings.TrimSpace(parsed.Error)
}
