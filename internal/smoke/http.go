package smoke

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"sync/atomic"
	"time"

	"github.com/mergington/activities/pkg/logger"
)

// Outcome classifies one roster request.
type Outcome string

const (
	OutcomeSuccess  Outcome = "success"
	OutcomeRejected Outcome = "rejected"
	OutcomeFailed   Outcome = "failed"
)

// HTTPClient wraps http.Client with the service base URL
type HTTPClient struct {
	client  *http.Client
	baseURL string
}

// newHTTPClient creates a new HTTP client with timeout
func newHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		client:  &http.Client{Timeout: timeout},
		baseURL: baseURL,
	}
}

func (c *HTTPClient) do(ctx context.Context, method, path string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	return c.client.Do(req)
}

// Health checks that the service answers on /healthz.
func (c *HTTPClient) Health(ctx context.Context) error {
	resp, err := c.do(ctx, http.MethodGet, "/healthz")
	if err != nil {
		return fmt.Errorf("failed to connect to service: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("service health check failed with status: %d", resp.StatusCode)
	}
	return nil
}

// Activities fetches the whole directory.
func (c *HTTPClient) Activities(ctx context.Context) (map[string]Activity, error) {
	resp, err := c.do(ctx, http.MethodGet, "/activities")
	if err != nil {
		return nil, fmt.Errorf("failed to list activities: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("list activities returned status %d", resp.StatusCode)
	}
	var dir map[string]Activity
	if err := json.NewDecoder(resp.Body).Decode(&dir); err != nil {
		return nil, fmt.Errorf("failed to decode activities: %w", err)
	}
	return dir, nil
}

// Roster posts a signup or unregister action and classifies the response.
func (c *HTTPClient) Roster(ctx context.Context, activity, action, email string) (Outcome, error) {
	path := "/activities/" + url.PathEscape(activity) + "/" + action + "?email=" + url.QueryEscape(email)
	resp, err := c.do(ctx, http.MethodPost, path)
	if err != nil {
		return OutcomeFailed, err
	}
	defer resp.Body.Close()

	var body struct {
		Message string `json:"message"`
		Detail  string `json:"detail"`
	}
	_ = json.NewDecoder(resp.Body).Decode(&body)

	switch resp.StatusCode {
	case http.StatusOK:
		return OutcomeSuccess, nil
	case http.StatusBadRequest:
		return OutcomeRejected, errors.New(body.Detail)
	default:
		return OutcomeFailed, fmt.Errorf("status %d: %s", resp.StatusCode, body.Detail)
	}
}

// rosterResult pairs an email with the outcome of its request.
type rosterResult struct {
	email   string
	outcome Outcome
}

// submitRoster runs action for every email concurrently and returns the
// emails whose request succeeded, in completion order.
func submitRoster(ctx context.Context, config *Config, client *HTTPClient, action string, emails []string) ([]string, map[Outcome]int) {
	log := logger.Get()
	log.Info(ctx, "submitting roster requests",
		logger.String("action", action),
		logger.Int("count", len(emails)),
		logger.Int("workers", config.Workers))

	var submitted int64
	emailChan := make(chan string, config.Workers*WorkerChannelMultiplier)
	results := make(chan rosterResult, len(emails))
	var wg sync.WaitGroup

	workers := minInt(config.Workers, len(emails))
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for email := range emailChan {
				outcome, err := client.Roster(ctx, config.Activity, action, email)
				n := atomic.AddInt64(&submitted, 1)
				if config.Verbose {
					fields := []logger.Field{
						logger.String("action", action),
						logger.String("email", email),
						logger.String("outcome", string(outcome)),
						logger.Int("progress", int(n)),
					}
					if err != nil {
						fields = append(fields, logger.Error(err))
					}
					log.Info(ctx, "roster request", fields...)
				}
				results <- rosterResult{email: email, outcome: outcome}
			}
		}()
	}

	go func() {
		defer close(emailChan)
		for _, email := range emails {
			select {
			case <-ctx.Done():
				return
			case emailChan <- email:
			}
		}
	}()

	wg.Wait()
	close(results)

	counts := make(map[Outcome]int)
	var succeeded []string
	for r := range results {
		counts[r.outcome]++
		if r.outcome == OutcomeSuccess {
			succeeded = append(succeeded, r.email)
		}
	}

	log.Info(ctx, "roster requests completed",
		logger.String("action", action),
		logger.Int("successful", counts[OutcomeSuccess]),
		logger.Int("rejected", counts[OutcomeRejected]),
		logger.Int("failed", counts[OutcomeFailed]))
	return succeeded, counts
}
