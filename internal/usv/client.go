// Package usv talks to the university sports federation (USV) membership
// API used to confirm membership numbers for fee waivers.
package usv

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"clubportal/internal/apperrors"
)

const (
	maxRetries       = 3 // 1 initial attempt + 3 retries
	defaultTimeout   = 30 * time.Second
	defaultBaseDelay = time.Second
)

// Result is the outcome of a completed verification call. Valid:false is
// a definitive negative answer, not a failure.
type Result struct {
	Valid       bool
	MemberSince *string
}

type Client struct {
	BaseURL string
	DryRun  bool

	httpClient     *http.Client
	attemptTimeout time.Duration
	baseDelay      time.Duration // backoff base, shrunk in tests
}

type Option func(*Client)

func WithAttemptTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.attemptTimeout = d
		}
	}
}

func WithBaseDelay(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.baseDelay = d
		}
	}
}

func NewClient(baseURL string, dryRun bool, opts ...Option) *Client {
	c := &Client{
		BaseURL:        baseURL,
		DryRun:         dryRun,
		httpClient:     &http.Client{},
		attemptTimeout: defaultTimeout,
		baseDelay:      defaultBaseDelay,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Verify checks a membership number against the USV API. Transient
// failures (network, timeout, non-2xx, malformed body) are retried with
// exponential backoff: 1s, 2s, 4s between the four attempts. A clean
// valid:false response returns immediately.
func (c *Client) Verify(ctx context.Context, usvNumber string) (*Result, error) {
	if c.DryRun {
		log.Printf("[usv][dry-run] number=%s -> valid", usvNumber)
		return &Result{Valid: true}, nil
	}

	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			delay := c.baseDelay << (attempt - 1)
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		res, err := c.doVerify(ctx, usvNumber)
		if err == nil {
			return res, nil
		}
		lastErr = err
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		log.Printf("[usv][verify] attempt %d/%d failed: %v", attempt+1, maxRetries+1, err)
	}
	return nil, apperrors.Wrap(apperrors.KindTransient, "usv verification failed", lastErr)
}

func (c *Client) doVerify(ctx context.Context, usvNumber string) (*Result, error) {
	attemptCtx, cancel := context.WithTimeout(ctx, c.attemptTimeout)
	defer cancel()

	reqBody, err := json.Marshal(map[string]string{"usvNumber": usvNumber})
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(attemptCtx, http.MethodPost, c.BaseURL+"/verify", bytes.NewReader(reqBody))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("unexpected status %d: %s", resp.StatusCode, string(body))
	}

	// valid must be present and boolean; anything else is a malformed
	// response and counts as a transient failure
	var payload struct {
		Valid       *bool   `json:"valid"`
		MemberSince *string `json:"memberSince"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("parse response: %w", err)
	}
	if payload.Valid == nil {
		return nil, fmt.Errorf("malformed response: missing valid field")
	}
	return &Result{Valid: *payload.Valid, MemberSince: payload.MemberSince}, nil
}
