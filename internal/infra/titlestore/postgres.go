package titlestore

import (
	"context"
	"strings"

	"showcase-service/internal/infra"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Store enforces global case-insensitive title uniqueness with a single
// conditional insert, so two concurrent reservations of the same title can
// never both succeed.
type Store struct {
	pool *pgxpool.Pool
}

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

func (s *Store) Reserve(ctx context.Context, title string) error {
	const stmt = `
INSERT INTO title_reservations (title_key, title)
VALUES ($1, $2)
ON CONFLICT (title_key) DO NOTHING`

	tag, err := s.pool.Exec(ctx, stmt, normalize(title), title)
	if err != nil {
		return infra.WrapRepoErr("failed to reserve title", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("title already reserved", nil, infra.KindDuplicateKey)
	}
	return nil
}

// Release is idempotent: releasing a title that was never reserved succeeds.
func (s *Store) Release(ctx context.Context, title string) error {
	const stmt = `DELETE FROM title_reservations WHERE title_key = $1`

	if _, err := s.pool.Exec(ctx, stmt, normalize(title)); err != nil {
		return infra.WrapRepoErr("failed to release title", err)
	}
	return nil
}

func normalize(title string) string {
	return strings.ToLower(strings.TrimSpace(title))
}
