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

// WeChatConfig holds personal-robot settings.
type WeChatConfig struct {
	Timeout time.Duration
}

// WeChat sends plain-text messages to a self-hosted personal WeChat robot.
// The robot endpoint is addressed per call because connection parameters
// come from the resolved delivery configuration.
type WeChat struct {
	httpClient *http.Client
	logger     *slog.Logger
}

func NewWeChat(cfg WeChatConfig, logger *slog.Logger) *WeChat {
	if cfg.Timeout == 0 {
		cfg.Timeout = 10 * time.Second
	}

	return &WeChat{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		logger:     logger.With("bot", "wechat"),
	}
}

type weChatPayload struct {
	Token      string `json:"token"`
	AppID      string `json:"appId"`
	ChatroomID string `json:"chatroomId"`
	Content    string `json:"content"`
}

type weChatResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// Send posts a message to the chatroom served by the robot at ip.
func (w *WeChat) Send(ctx context.Context, message, ip, token, appID, chatroomID string) error {
	body, err := json.Marshal(weChatPayload{
		Token:      token,
		AppID:      appID,
		ChatroomID: chatroomID,
		Content:    message,
	})
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	url := fmt.Sprintf("http://%s/webhook/msg", ip)
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

	var apiResp weChatResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	if apiResp.Code != 0 {
		return fmt.Errorf("wechat robot error %d: %s", apiResp.Code, apiResp.Message)
	}

	w.logger.Debug("sent message", "chatroom_id", chatroomID)

	return nil
}
