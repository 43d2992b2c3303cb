// internal/service/engine/engine.go
package engine

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"shiftcare-service/internal/domain/schedule"
	"shiftcare-service/internal/domain/settings"
	"shiftcare-service/internal/domain/workforce"
)

// GenerateInput carries everything the solver needs to build a monthly rota.
type GenerateInput struct {
	NumDays   int                   `json:"num_days"`
	Month     int                   `json:"month"`
	Year      int                   `json:"year"`
	Employees []*workforce.Employee `json:"employees"`
	Shifts    []*workforce.Shift    `json:"shifts"`
	Holidays  []*workforce.Holiday  `json:"holidays"`
	Settings  *settings.Settings    `json:"settings"`
}

// Engine produces a schedule grid from the account's workforce data.
type Engine interface {
	Generate(ctx context.Context, in *GenerateInput) (schedule.Grid, error)
}

const defaultTimeout = 60 * time.Second

// HTTPEngine talks to the external solver over JSON.
type HTTPEngine struct {
	baseURL string
	client  *http.Client
}

func NewHTTPEngine(baseURL string, timeout time.Duration) *HTTPEngine {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &HTTPEngine{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

type generateResponse struct {
	Schedule schedule.Grid `json:"schedule"`
	Error    string        `json:"error,omitempty"`
}

func (e *HTTPEngine) Generate(ctx context.Context, in *GenerateInput) (schedule.Grid, error) {
	body, err := json.Marshal(in)
	if err != nil {
		return nil, fmt.Errorf("failed to encode engine request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.baseURL+"/generate", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build engine request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("engine request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 10<<20))
	if err != nil {
		return nil, fmt.Errorf("failed to read engine response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("engine returned status %d: %s", resp.StatusCode, raw)
	}

	var out generateResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("failed to decode engine response: %w", err)
	}
	if out.Error != "" {
		return nil, fmt.Errorf("engine rejected request: %s", out.Error)
	}
	if len(out.Schedule) == 0 {
		return nil, fmt.Errorf("engine returned empty schedule")
	}
	return out.Schedule, nil
}
