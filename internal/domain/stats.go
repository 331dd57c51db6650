package domain

import "time"

// WatchStats holds statistics about one pipeline run.
type WatchStats struct {
	Accounts       int
	Posts          int
	Delivered      int
	Irrelevant     int
	ParseFailures  int
	FetchErrors    int
	DeliveryErrors int
	SkippedSeen    int
	Duration       time.Duration
}
