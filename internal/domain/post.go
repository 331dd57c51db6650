package domain

import "time"

// Platform identifiers recognized by the fetch adapters.
const (
	PlatformTruthSocial = "truthsocial"
	PlatformTwitter     = "twitter"
)

type Post struct {
	Content     string
	PosterName  string
	PosterURL   string
	URL         string
	PublishedAt time.Time
}

// LocalTime returns the publication time converted to the local time zone.
func (p Post) LocalTime() time.Time {
	return p.PublishedAt.Local()
}

type Account struct {
	Platform     string
	SourceID     string
	Prompt       string
	WeComRobotID string
}
