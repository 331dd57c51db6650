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

const defaultWeComWebhookURL = "https://qyapi.weixin.qq.com/cgi-bin/webhook/send"

// WeComConfig holds WeCom group-robot settings.
type WeComConfig struct {
	WebhookURL string
	Timeout    time.Duration
}

// WeCom sends markdown messages to WeCom group robots via their webhook.
type WeCom struct {
	httpClient *http.Client
	webhookURL string
	logger     *slog.Logger
}

func NewWeCom(cfg WeComConfig, logger *slog.Logger) *WeCom {
	if cfg.WebhookURL == "" {
		cfg.WebhookURL = defaultWeComWebhookURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 10 * time.Second
	}

	return &WeCom{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		webhookURL: cfg.WebhookURL,
		logger:     logger.With("bot", "wecom"),
	}
}

type weComPayload struct {
	MsgType  string        `json:"msgtype"`
	Markdown weComMarkdown `json:"markdown"`
}

type weComMarkdown struct {
	Content string `json:"content"`
}

type weComResponse struct {
	ErrCode int    `json:"errcode"`
	ErrMsg  string `json:"errmsg"`
}

// SendMarkdown posts a markdown message to the robot identified by robotID.
func (w *WeCom) SendMarkdown(ctx context.Context, markdown, robotID string) error {
	body, err := json.Marshal(weComPayload{
		MsgType:  "markdown",
		Markdown: weComMarkdown{Content: markdown},
	})
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	url := fmt.Sprintf("%s?key=%s", w.webhookURL, robotID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	var apiResp weComResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	if apiResp.ErrCode != 0 {
		return fmt.Errorf("wecom api error %d: %s", apiResp.ErrCode, apiResp.ErrMsg)
	}

	w.logger.Debug("sent markdown message", "robot_id", robotID)

	return nil
}
