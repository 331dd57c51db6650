package postgres

import (
	"context"

	"github.com/jmoiron/sqlx"
)

// ProcessedStore remembers which posts were already delivered, keyed by
// platform and post URL. It is the optional cross-run deduplication
// collaborator; the pipeline itself stays stateless.
type ProcessedStore struct {
	db *sqlx.DB
}

func NewProcessedStore(db *sqlx.DB) *ProcessedStore {
	return &ProcessedStore{db: db}
}

func (s *ProcessedStore) Seen(ctx context.Context, platform, postURL string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM processed_posts WHERE platform = $1 AND post_url = $2)`

	err := s.db.GetContext(ctx, &exists, query, platform, postURL)
	if err != nil {
		return false, err
	}
	return exists, nil
}

func (s *ProcessedStore) Mark(ctx context.Context, platform, postURL string) error {
	query := `
		INSERT INTO processed_posts (platform, post_url)
		VALUES ($1, $2)
		ON CONFLICT (platform, post_url) DO NOTHING`

	_, err := s.db.ExecContext(ctx, query, platform, postURL)
	return err
}
