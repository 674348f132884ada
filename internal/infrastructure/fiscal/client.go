package fiscal

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	appctx "github.com/Jcrispin99/gym-app-sub000/internal/core/context"
	"github.com/Jcrispin99/gym-app-sub000/internal/infrastructure/storage/postgres"
	"github.com/Jcrispin99/gym-app-sub000/pkg/logger"
)

// ClientConfig configures the fiscal service client.
type ClientConfig struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// Client submits documents to the external fiscal service.
// It implements postgres.OutboxHandler so the outbox relay can drive it.
type Client struct {
	cfg  ClientConfig
	http *http.Client
}

// NewClient creates a fiscal service client.
func NewClient(cfg ClientConfig) *Client {
	if cfg.Timeout == 0 {
		cfg.Timeout = 15 * time.Second
	}
	return &Client{
		cfg:  cfg,
		http: &http.Client{Timeout: cfg.Timeout},
	}
}

// Handle submits one outbox message to the fiscal service.
// Errors are returned to the relay, which retries with backoff.
func (c *Client) Handle(ctx context.Context, msg *postgres.OutboxMessage) error {
	var payload SubmissionPayload
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		return fmt.Errorf("decode payload: %w", err)
	}

	body, err := json.Marshal(map[string]any{
		"eventType": msg.EventType,
		"document":  payload,
	})
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}

	url := c.cfg.BaseURL + "/v1/documents"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.cfg.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	}
	// Outbox message ID doubles as the idempotency key across retries.
	req.Header.Set("Idempotency-Key", msg.ID.String())
	req.Header.Set("X-Trace-ID", appctx.GetTraceID(ctx))

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("submit document: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("fiscal service returned %d: %s", resp.StatusCode, string(respBody))
	}

	logger.Info(ctx, "document submitted to fiscal service",
		"document_id", payload.DocumentID,
		"number", payload.Number,
		"event_type", msg.EventType,
	)
	return nil
}

// Ensure interface compliance.
var _ postgres.OutboxHandler = (*Client)(nil)
