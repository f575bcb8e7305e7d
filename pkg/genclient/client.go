// Package genclient implements the HTTP generation client. It submits a job
// to a generation backend, polls its status until the job resolves and
// returns the resulting artifact.
package genclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/dukex/reelflow/pkg/protocol"
)

const (
	defaultPollInterval = 3 * time.Second
	defaultJobTimeout   = 15 * time.Minute

	statusCompleted = "completed"
	statusFailed    = "failed"
)

// Client talks to a generation backend over HTTP.
//
// Submission: POST {base}/api/videos/generate with the request payload,
// expecting 202 and a job_id. Polling: GET {base}/api/videos/{id}/status
// until the job reports completed or failed.
type Client struct {
	baseURL      string
	httpClient   *http.Client
	pollInterval time.Duration
	jobTimeout   time.Duration
	logger       *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithPollInterval sets the status polling interval.
func WithPollInterval(interval time.Duration) Option {
	return func(c *Client) {
		c.pollInterval = interval
	}
}

// WithJobTimeout bounds how long a single job may stay pending.
func WithJobTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.jobTimeout = timeout
	}
}

func New(baseURL string, logger *slog.Logger, opts ...Option) *Client {
	client := &Client{
		baseURL:      baseURL,
		httpClient:   &http.Client{Timeout: 60 * time.Second},
		pollInterval: defaultPollInterval,
		jobTimeout:   defaultJobTimeout,
		logger:       logger.With("module", "genclient"),
	}

	for _, opt := range opts {
		opt(client)
	}

	return client
}

type submitResponse struct {
	JobID string `json:"job_id"`
	Error string `json:"error,omitempty"`
}

type statusResponse struct {
	Status   string `json:"status"`
	Progress int    `json:"progress"`
	Error    string `json:"error,omitempty"`
	VideoURL string `json:"video_url,omitempty"`
}

// Generate submits the request and blocks until the backend resolves the
// job, reporting intermediate progress through onProgress.
func (c *Client) Generate(ctx context.Context, req protocol.GenerationRequest, onProgress protocol.GenerationProgressFunc) (*protocol.GenerationArtifact, error) {
	jobID, err := c.submit(ctx, req)
	if err != nil {
		return nil, err
	}

	c.logger.InfoContext(ctx, "Generation job submitted", "job_id", jobID, "provider", req.Provider)

	return c.await(ctx, jobID, onProgress)
}

func (c *Client) submit(ctx context.Context, req protocol.GenerationRequest) (string, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("failed to encode generation request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/videos/generate", bytes.NewReader(payload))
	if err != nil {
		return "", err
	}

	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("failed to submit generation job: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read submission response: %w", err)
	}

	var submitted submitResponse
	if err := json.Unmarshal(body, &submitted); err != nil {
		return "", fmt.Errorf("unexpected submission response: %w", err)
	}

	if resp.StatusCode != http.StatusAccepted {
		if submitted.Error != "" {
			return "", fmt.Errorf("generation backend rejected job: %s", submitted.Error)
		}

		return "", fmt.Errorf("generation backend returned status %d", resp.StatusCode)
	}

	if submitted.JobID == "" {
		return "", fmt.Errorf("generation backend returned no job id")
	}

	return submitted.JobID, nil
}

func (c *Client) await(ctx context.Context, jobID string, onProgress protocol.GenerationProgressFunc) (*protocol.GenerationArtifact, error) {
	deadline := time.NewTimer(c.jobTimeout)
	defer deadline.Stop()

	ticker := time.NewTicker(c.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-deadline.C:
			return nil, fmt.Errorf("generation job %s did not finish within %s", jobID, c.jobTimeout)
		case <-ticker.C:
		}

		status, err := c.status(ctx, jobID)
		if err != nil {
			return nil, err
		}

		switch status.Status {
		case statusCompleted:
			if status.VideoURL == "" {
				return nil, fmt.Errorf("generation job %s completed without a video URL", jobID)
			}

			return &protocol.GenerationArtifact{
				JobID: jobID,
				URL:   status.VideoURL,
			}, nil
		case statusFailed:
			if status.Error != "" {
				return nil, fmt.Errorf("generation job %s failed: %s", jobID, status.Error)
			}

			return nil, fmt.Errorf("generation job %s failed", jobID)
		default:
			if onProgress != nil {
				onProgress(protocol.GenerationProgress{
					JobID:    jobID,
					Status:   status.Status,
					Progress: status.Progress,
				})
			}
		}
	}
}

func (c *Client) status(ctx context.Context, jobID string) (*statusResponse, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/videos/"+jobID+"/status", nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to poll generation job %s: %w", jobID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("generation job %s not found", jobID)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("status poll for job %s returned %d", jobID, resp.StatusCode)
	}

	var status statusResponse
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		return nil, fmt.Errorf("unexpected status response for job %s: %w", jobID, err)
	}

	return &status, nil
}
