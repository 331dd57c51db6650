package twitter

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"social_watcher/internal/domain"
)

const defaultBaseURL = "https://api.twitter.com"

// Config holds Twitter API v2 source configuration.
type Config struct {
	BaseURL     string
	BearerToken string
	MaxResults  int
	Timeout     time.Duration
}

// Source fetches a user's recent tweets through the Twitter API v2.
type Source struct {
	httpClient  *http.Client
	baseURL     string
	bearerToken string
	maxResults  int
	logger      *slog.Logger
}

func New(cfg Config, logger *slog.Logger) *Source {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.MaxResults == 0 {
		cfg.MaxResults = 10
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}

	return &Source{
		httpClient:  &http.Client{Timeout: cfg.Timeout},
		baseURL:     cfg.BaseURL,
		bearerToken: cfg.BearerToken,
		maxResults:  cfg.MaxResults,
		logger:      logger.With("source", domain.PlatformTwitter),
	}
}

// Platform returns the platform identifier this source serves.
func (s *Source) Platform() string {
	return domain.PlatformTwitter
}

// Fetch returns the most recent tweets of the given username. A user with
// no tweets yields an empty slice, not an error.
func (s *Source) Fetch(ctx context.Context, sourceID string) ([]domain.Post, error) {
	user, err := s.lookupUser(ctx, sourceID)
	if err != nil {
		return nil, fmt.Errorf("lookup user %q: %w", sourceID, err)
	}

	tweets, err := s.fetchTweets(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("fetch tweets for %q: %w", sourceID, err)
	}

	return s.transform(user, tweets), nil
}

func (s *Source) lookupUser(ctx context.Context, username string) (*APIUser, error) {
	u := fmt.Sprintf("%s/2/users/by/username/%s", s.baseURL, url.PathEscape(username))

	var resp userResponse
	if err := s.getJSON(ctx, u, &resp); err != nil {
		return nil, err
	}
	if resp.Data.ID == "" {
		return nil, fmt.Errorf("user not found")
	}

	return &resp.Data, nil
}

func (s *Source) fetchTweets(ctx context.Context, userID string) ([]APITweet, error) {
	u := fmt.Sprintf("%s/2/users/%s/tweets?max_results=%d&tweet.fields=created_at&exclude=replies,retweets",
		s.baseURL, userID, s.maxResults)

	var resp tweetsResponse
	if err := s.getJSON(ctx, u, &resp); err != nil {
		return nil, err
	}

	return resp.Data, nil
}

func (s *Source) getJSON(ctx context.Context, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.bearerToken)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}

	return nil
}

func (s *Source) transform(user *APIUser, tweets []APITweet) []domain.Post {
	posterURL := fmt.Sprintf("https://twitter.com/%s", user.Username)

	posts := make([]domain.Post, 0, len(tweets))
	for _, t := range tweets {
		publishedAt, err := time.Parse(time.RFC3339, t.CreatedAt)
		if err != nil {
			s.logger.Warn("failed to parse tweet date",
				"tweet_id", t.ID,
				"created_at", t.CreatedAt,
			)
			continue
		}

		posts = append(posts, domain.Post{
			Content:     t.Text,
			PosterName:  user.Name,
			PosterURL:   posterURL,
			URL:         fmt.Sprintf("%s/status/%s", posterURL, t.ID),
			PublishedAt: publishedAt,
		})
	}

	return posts
}
