package dispatch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"prediction-api/internal/config"

	"github.com/google/uuid"
)

// WorkflowDispatcher kicks off out-of-process inference for a job. The run
// itself happens elsewhere; this is a fire-and-confirm call.
type WorkflowDispatcher interface {
	Dispatch(ctx context.Context, jobID int64, probabilityThreshold float64) error
}

// GitHubDispatcher triggers a workflow_dispatch event on the prediction
// pipeline repository.
type GitHubDispatcher struct {
	cfg    config.DispatchConfig
	client *http.Client
}

func NewGitHubDispatcher(cfg config.DispatchConfig) *GitHubDispatcher {
	return &GitHubDispatcher{
		cfg: cfg,
		client: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

type dispatchPayload struct {
	Ref    string            `json:"ref"`
	Inputs map[string]string `json:"inputs"`
}

func (d *GitHubDispatcher) Dispatch(ctx context.Context, jobID int64, probabilityThreshold float64) error {
	if d.cfg.Token == "" {
		return fmt.Errorf("dispatch token not configured")
	}

	correlationID := uuid.NewString()
	payload := dispatchPayload{
		Ref: d.cfg.Ref,
		Inputs: map[string]string{
			"job_id":                strconv.FormatInt(jobID, 10),
			"probability_threshold": strconv.FormatFloat(probabilityThreshold, 'f', -1, 64),
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal dispatch payload: %w", err)
	}

	url := fmt.Sprintf("https://api.github.com/repos/%s/%s/actions/workflows/%s/dispatches",
		d.cfg.Owner, d.cfg.Repo, d.cfg.WorkflowID)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(body))
	if err != nil {
		return fmt.Errorf("failed to create dispatch request: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.github.v3+json")
	req.Header.Set("Authorization", "token "+d.cfg.Token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.client.Do(req)
	if err != nil {
		return fmt.Errorf("dispatch request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("dispatch returned status %d: %s", resp.StatusCode, string(detail))
	}

	slog.Info("dispatched prediction run",
		"job_id", jobID,
		"probability_threshold", probabilityThreshold,
		"correlation_id", correlationID)
	return nil
}
