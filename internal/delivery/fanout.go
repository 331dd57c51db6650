package delivery

import (
	"context"
	"log/slog"

	"social_watcher/internal/config"
	"social_watcher/internal/domain"
)

// Channel kinds reported in outcomes.
const (
	ChannelWeCom  = "wecom"
	ChannelWeChat = "wechat"
	ChannelQQ     = "qq"
)

type WeComSender interface {
	SendMarkdown(ctx context.Context, markdown, robotID string) error
}

type WeChatSender interface {
	Send(ctx context.Context, message, ip, token, appID, chatroomID string) error
}

type QQSender interface {
	Send(ctx context.Context, message, url, groupID string) error
}

// Outcome records one delivery attempt to one channel target.
type Outcome struct {
	Channel string
	Target  string
	Err     error
}

// Fanout dispatches a composed message to every enabled channel. Each
// channel and each WeCom robot is attempted independently; a failure is
// logged and recorded, never propagated.
type Fanout struct {
	cfg    config.DeliveryConfig
	wecom  WeComSender
	wechat WeChatSender
	qq     QQSender
	logger *slog.Logger
}

func New(cfg config.DeliveryConfig, wecom WeComSender, wechat WeChatSender, qq QQSender, logger *slog.Logger) *Fanout {
	return &Fanout{
		cfg:    cfg,
		wecom:  wecom,
		wechat: wechat,
		qq:     qq,
		logger: logger,
	}
}

func (f *Fanout) Deliver(ctx context.Context, message string, account domain.Account) []Outcome {
	var outcomes []Outcome

	if f.cfg.WeComEnabled {
		ids := f.cfg.WeComRobotIDs
		if account.WeComRobotID != "" {
			ids = []string{account.WeComRobotID}
		}
		for _, id := range ids {
			err := f.wecom.SendMarkdown(ctx, message, id)
			if err != nil {
				f.logger.Error("wecom delivery failed", "robot_id", id, "error", err)
			}
			outcomes = append(outcomes, Outcome{Channel: ChannelWeCom, Target: id, Err: err})
		}
	}

	if f.cfg.WeChatEnabled {
		err := f.wechat.Send(ctx, message, f.cfg.WeChatIP, f.cfg.WeChatToken, f.cfg.WeChatAppID, f.cfg.WeChatChatroomID)
		if err != nil {
			f.logger.Error("wechat delivery failed", "chatroom_id", f.cfg.WeChatChatroomID, "error", err)
		}
		outcomes = append(outcomes, Outcome{Channel: ChannelWeChat, Target: f.cfg.WeChatChatroomID, Err: err})
	}

	if f.cfg.QQEnabled {
		err := f.qq.Send(ctx, message, f.cfg.QQURL, f.cfg.QQGroupID)
		if err != nil {
			f.logger.Error("qq delivery failed", "group_id", f.cfg.QQGroupID, "error", err)
		}
		outcomes = append(outcomes, Outcome{Channel: ChannelQQ, Target: f.cfg.QQGroupID, Err: err})
	}

	return outcomes
}
