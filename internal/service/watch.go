package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"social_watcher/internal/compose"
	"social_watcher/internal/domain"
)

// WatchService runs the monitoring pipeline: for each account, fetch new
// posts, extract a structured judgement from the model, gate on relevance,
// and fan the composed notification out to the enabled channels. No error
// past configuration loading aborts the run; failures are logged per
// account or post and counted in the stats.
type WatchService struct {
	sources   map[string]Source
	extractor Extractor
	deliverer Deliverer
	processed ProcessedStore // optional, nil disables cross-run dedup
	publisher Publisher      // optional
	accounts  []domain.Account
	logger    *slog.Logger
}

func NewWatchService(
	sources []Source,
	extractor Extractor,
	deliverer Deliverer,
	processed ProcessedStore,
	publisher Publisher,
	accounts []domain.Account,
	logger *slog.Logger,
) *WatchService {
	byPlatform := make(map[string]Source, len(sources))
	for _, src := range sources {
		byPlatform[src.Platform()] = src
	}

	return &WatchService{
		sources:   byPlatform,
		extractor: extractor,
		deliverer: deliverer,
		processed: processed,
		publisher: publisher,
		accounts:  accounts,
		logger:    logger,
	}
}

func (s *WatchService) Run(ctx context.Context) (*domain.WatchStats, error) {
	startTime := time.Now()
	stats := &domain.WatchStats{Accounts: len(s.accounts)}

	s.logger.Info("starting watch run", "accounts", len(s.accounts))

	for _, account := range s.accounts {
		s.processAccount(ctx, account, stats)
	}

	stats.Duration = time.Since(startTime)

	s.logger.Info("watch run completed",
		"posts", stats.Posts,
		"delivered", stats.Delivered,
		"irrelevant", stats.Irrelevant,
		"parse_failures", stats.ParseFailures,
		"fetch_errors", stats.FetchErrors,
		"delivery_errors", stats.DeliveryErrors,
		"duration", stats.Duration,
	)

	return stats, nil
}

func (s *WatchService) processAccount(ctx context.Context, account domain.Account, stats *domain.WatchStats) {
	logger := s.logger.With("platform", account.Platform, "source_id", account.SourceID)

	src, ok := s.sources[account.Platform]
	if !ok {
		logger.Warn("no source for platform, skipping account")
		stats.FetchErrors++
		return
	}

	posts, err := src.Fetch(ctx, account.SourceID)
	if err != nil {
		logger.Error("fetch posts", "error", err)
		stats.FetchErrors++
		return
	}

	if len(posts) == 0 {
		logger.Info("no new content")
		return
	}

	for i := range posts {
		s.processPost(ctx, logger, account, posts[i], stats)
	}
}

func (s *WatchService) processPost(ctx context.Context, logger *slog.Logger, account domain.Account, post domain.Post, stats *domain.WatchStats) {
	stats.Posts++

	if s.processed != nil {
		seen, err := s.processed.Seen(ctx, account.Platform, post.URL)
		if err != nil {
			logger.Warn("check processed state", "url", post.URL, "error", err)
		} else if seen {
			logger.Debug("post already processed", "url", post.URL)
			stats.SkippedSeen++
			return
		}
	}

	result, err := s.extractor.Extract(ctx, post, account.Prompt)
	if err != nil {
		var parseFailure *domain.ParseFailure
		if errors.As(err, &parseFailure) {
			logger.Error("model response never parsed, skipping post",
				"url", post.URL,
				"attempts", parseFailure.Attempts,
			)
		} else {
			logger.Error("extract post", "url", post.URL, "error", err)
		}
		stats.ParseFailures++
		return
	}

	if !result.Relevant() {
		logger.Info("content not relevant to watched topics", "url", post.URL)
		stats.Irrelevant++
		return
	}

	message := compose.Message(post, result)

	outcomes := s.deliverer.Deliver(ctx, message, account)
	for _, o := range outcomes {
		if o.Err != nil {
			stats.DeliveryErrors++
		}
	}
	stats.Delivered++

	if s.publisher != nil {
		if err := s.publisher.Publish(ctx, account, post, result.AnalyticalBriefing); err != nil {
			logger.Error("publish notification", "url", post.URL, "error", err)
		}
	}

	if s.processed != nil {
		if err := s.processed.Mark(ctx, account.Platform, post.URL); err != nil {
			logger.Warn("mark post processed", "url", post.URL, "error", err)
		}
	}
}
