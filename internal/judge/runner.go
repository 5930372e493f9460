package judge

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/zoj-dev/zoj/internal/config"
	"github.com/zoj-dev/zoj/internal/database/models"
)

// Result is what the judge daemon reports back for one submission.
type Result struct {
	Verdict models.Verdict `json:"verdict"`
	Score   int            `json:"score"`
	Info    models.JSONMap `json:"info"`
}

// Runner executes one submission and returns its verdict. The sandbox
// itself lives outside this service.
type Runner interface {
	Judge(ctx context.Context, sub *models.Submission, prob *models.Problem) (*Result, error)
}

// RemoteRunner delegates judging to an external judge daemon over HTTP.
type RemoteRunner struct {
	url    string
	client *http.Client
}

func NewRemoteRunner(cfg config.Judge) *RemoteRunner {
	return &RemoteRunner{
		url:    cfg.URL,
		client: &http.Client{},
	}
}

func (r *RemoteRunner) Judge(ctx context.Context, sub *models.Submission, prob *models.Problem) (*Result, error) {
	payload, err := json.Marshal(map[string]interface{}{
		"submission_id": sub.ID,
		"problem_id":    sub.ProblemID,
		"language":      sub.Language,
		"code":          sub.Code,
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.url+"/judge", bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("judge daemon returned status %d", resp.StatusCode)
	}

	var result Result
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to parse judge result: %w", err)
	}
	return &result, nil
}
