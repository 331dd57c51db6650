package bot

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"
)

// QQConfig holds QQ group-bot settings.
type QQConfig struct {
	Timeout time.Duration
}

// QQ sends group messages through a OneBot-compatible HTTP endpoint.
type QQ struct {
	httpClient *http.Client
	logger     *slog.Logger
}

func NewQQ(cfg QQConfig, logger *slog.Logger) *QQ {
	if cfg.Timeout == 0 {
		cfg.Timeout = 10 * time.Second
	}

	return &QQ{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		logger:     logger.With("bot", "qq"),
	}
}

type qqPayload struct {
	GroupID string `json:"group_id"`
	Message string `json:"message"`
}

// Send posts a message to the group behind the configured endpoint.
func (q *QQ) Send(ctx context.Context, message, url, groupID string) error {
	body, err := json.Marshal(qqPayload{
		GroupID: groupID,
		Message: message,
	})
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := q.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	q.logger.Debug("sent message", "group_id", groupID)

	return nil
}
