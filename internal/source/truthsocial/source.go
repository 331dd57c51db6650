package truthsocial

import (
	"context"
	"encoding/json"
	"fmt"
	"html"
	"log/slog"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"social_watcher/internal/domain"
)

const defaultBaseURL = "https://truthsocial.com"

// Config holds Truth Social source configuration.
type Config struct {
	BaseURL        string
	Limit          int
	Timeout        time.Duration
	MaxAttempts    int
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
}

// Source fetches an account's recent statuses through the
// Mastodon-compatible Truth Social API.
type Source struct {
	httpClient     *http.Client
	baseURL        string
	limit          int
	maxAttempts    int
	initialBackoff time.Duration
	maxBackoff     time.Duration
	logger         *slog.Logger
}

func New(cfg Config, logger *slog.Logger) *Source {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.Limit == 0 {
		cfg.Limit = 20
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.MaxAttempts == 0 {
		cfg.MaxAttempts = 3
	}
	if cfg.InitialBackoff == 0 {
		cfg.InitialBackoff = 1 * time.Second
	}
	if cfg.MaxBackoff == 0 {
		cfg.MaxBackoff = 30 * time.Second
	}

	return &Source{
		httpClient:     &http.Client{Timeout: cfg.Timeout},
		baseURL:        cfg.BaseURL,
		limit:          cfg.Limit,
		maxAttempts:    cfg.MaxAttempts,
		initialBackoff: cfg.InitialBackoff,
		maxBackoff:     cfg.MaxBackoff,
		logger:         logger.With("source", domain.PlatformTruthSocial),
	}
}

// Platform returns the platform identifier this source serves.
func (s *Source) Platform() string {
	return domain.PlatformTruthSocial
}

// Fetch returns the most recent posts of the given handle. An account with
// no statuses yields an empty slice, not an error.
func (s *Source) Fetch(ctx context.Context, sourceID string) ([]domain.Post, error) {
	account, err := s.lookupAccount(ctx, sourceID)
	if err != nil {
		return nil, fmt.Errorf("lookup account %q: %w", sourceID, err)
	}

	statuses, err := s.fetchStatuses(ctx, account.ID)
	if err != nil {
		return nil, fmt.Errorf("fetch statuses for %q: %w", sourceID, err)
	}

	return s.transform(account, statuses), nil
}

func (s *Source) lookupAccount(ctx context.Context, handle string) (*APIAccount, error) {
	u := fmt.Sprintf("%s/api/v1/accounts/lookup?acct=%s", s.baseURL, url.QueryEscape(handle))

	var account APIAccount
	if err := s.getJSON(ctx, u, &account); err != nil {
		return nil, err
	}
	if account.ID == "" {
		return nil, fmt.Errorf("account not found")
	}

	return &account, nil
}

func (s *Source) fetchStatuses(ctx context.Context, accountID string) ([]APIStatus, error) {
	u := fmt.Sprintf("%s/api/v1/accounts/%s/statuses?limit=%d&exclude_replies=true", s.baseURL, accountID, s.limit)

	var statuses []APIStatus
	if err := s.getJSON(ctx, u, &statuses); err != nil {
		return nil, err
	}

	return statuses, nil
}

func (s *Source) getJSON(ctx context.Context, url string, out any) error {
	var err error

	for attempt := 1; attempt <= s.maxAttempts; attempt++ {
		err = s.doRequest(ctx, url, out)
		if err == nil {
			return nil
		}

		if attempt == s.maxAttempts {
			break
		}

		backoff := s.calculateBackoff(attempt)
		s.logger.Warn("request failed, retrying",
			"attempt", attempt,
			"backoff", backoff,
			"error", err,
		)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
	}

	return fmt.Errorf("after %d attempts: %w", s.maxAttempts, err)
}

func (s *Source) doRequest(ctx context.Context, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "SocialWatcher/1.0")

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

func (s *Source) calculateBackoff(attempt int) time.Duration {
	backoff := s.initialBackoff
	for i := 1; i < attempt; i++ {
		backoff *= 2
	}
	if backoff > s.maxBackoff {
		backoff = s.maxBackoff
	}
	return backoff
}

func (s *Source) transform(account *APIAccount, statuses []APIStatus) []domain.Post {
	posterName := account.DisplayName
	if posterName == "" {
		posterName = account.Username
	}

	posts := make([]domain.Post, 0, len(statuses))
	for _, st := range statuses {
		publishedAt, err := time.Parse(time.RFC3339, st.CreatedAt)
		if err != nil {
			s.logger.Warn("failed to parse status date",
				"status_id", st.ID,
				"created_at", st.CreatedAt,
			)
			continue
		}

		posts = append(posts, domain.Post{
			Content:     stripHTML(st.Content),
			PosterName:  posterName,
			PosterURL:   account.URL,
			URL:         st.URL,
			PublishedAt: publishedAt,
		})
	}

	return posts
}

var tagPattern = regexp.MustCompile(`<[^>]*>`)

// stripHTML flattens the status HTML body into plain text.
func stripHTML(s string) string {
	s = strings.ReplaceAll(s, "</p><p>", "\n\n")
	s = strings.ReplaceAll(s, "<br>", "\n")
	s = strings.ReplaceAll(s, "<br/>", "\n")
	s = tagPattern.ReplaceAllString(s, "")
	return strings.TrimSpace(html.UnescapeString(s))
}
