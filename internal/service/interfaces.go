package service

//go:generate mockgen -source=interfaces.go -destination=mocks/mocks.go -package=mocks

import (
	"context"

	"social_watcher/internal/delivery"
	"social_watcher/internal/domain"
)

type Source interface {
	Platform() string
	Fetch(ctx context.Context, sourceID string) ([]domain.Post, error)
}

type Extractor interface {
	Extract(ctx context.Context, post domain.Post, template string) (*domain.ExtractionResult, error)
}

type Deliverer interface {
	Deliver(ctx context.Context, message string, account domain.Account) []delivery.Outcome
}

type ProcessedStore interface {
	Seen(ctx context.Context, platform, postURL string) (bool, error)
	Mark(ctx context.Context, platform, postURL string) error
}

type Publisher interface {
	Publish(ctx context.Context, account domain.Account, post domain.Post, briefing string) error
	Close() error
}
