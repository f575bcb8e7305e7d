package protocol

import "context"

// GenerationRequest describes one video generation job.
type GenerationRequest struct {
	Prompt   string         `json:"prompt"`
	Provider string         `json:"provider"`
	Settings map[string]any `json:"settings,omitempty"`
}

// GenerationProgress is reported zero or more times while a job is pending.
type GenerationProgress struct {
	JobID    string `json:"job_id"`
	Status   string `json:"status"`
	Progress int    `json:"progress"`
}

// GenerationArtifact is the final product of a generation job.
type GenerationArtifact struct {
	JobID    string         `json:"job_id"`
	URL      string         `json:"url"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// GenerationProgressFunc receives intermediate job status updates.
type GenerationProgressFunc func(progress GenerationProgress)

// GenerationClient submits a generation job and blocks until the provider
// resolves it. Implementations own submission, polling and download-URL
// resolution; callers own retries.
type GenerationClient interface {
	Generate(ctx context.Context, req GenerationRequest, onProgress GenerationProgressFunc) (*GenerationArtifact, error)
}
