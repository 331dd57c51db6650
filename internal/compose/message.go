package compose

import (
	"fmt"

	"social_watcher/internal/domain"
)

const timeLayout = "2006-01-02 15:04:05"

// Message renders the notification markdown for one post: a heading linking
// the poster to their profile with the localized publication time, the
// analytical briefing as the body, and a footer linking the original post.
// Pure function; same inputs always yield the same bytes.
func Message(post domain.Post, result *domain.ExtractionResult) string {
	return fmt.Sprintf("# [%s](%s) %s\n\n\n%s\n\n\norigin: [%s](%s)",
		post.PosterName,
		post.PosterURL,
		post.LocalTime().Format(timeLayout),
		result.AnalyticalBriefing,
		post.URL,
		post.URL,
	)
}
