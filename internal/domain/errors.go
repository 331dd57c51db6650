package domain

import "fmt"

// ParseFailure reports that a model never produced a parsable structured
// payload within the retry bound. It is terminal for the post, not the run.
type ParseFailure struct {
	Attempts int
	LastRaw  string
	Err      error
}

func (e *ParseFailure) Error() string {
	return fmt.Sprintf("response not parsable after %d attempts: %v", e.Attempts, e.Err)
}

func (e *ParseFailure) Unwrap() error {
	return e.Err
}
