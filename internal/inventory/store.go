package inventory

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/avops/captrack/internal/infrastructure/database"
)

// Store provides transactional access to the inventory.
//
// Every mutating operation runs its constraint checks and the write in
// a single transaction, so uniqueness checks are atomic with respect
// to concurrent creators. The database opens write transactions with
// an immediate lock, which serialises writers at BEGIN.
type Store struct {
	db     *database.DB
	logger Logger
}

// NewStore creates a Store over the given database.
// A nil logger disables logging.
func NewStore(db *database.DB, logger Logger) *Store {
	if logger == nil {
		logger = noopLogger{}
	}
	return &Store{
		db:     db,
		logger: logger,
	}
}

// withTx runs fn inside a transaction, committing on success.
func (s *Store) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback() //nolint:errcheck // Rollback is no-op after commit

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// exists reports whether the query returns at least one row.
func exists(ctx context.Context, tx *sql.Tx, query string, args ...any) (bool, error) {
	var n int
	err := tx.QueryRowContext(ctx, query, args...).Scan(&n)
	if err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("existence check: %w", err)
	}
	return n > 0, nil
}

// now returns the current UTC time truncated to second precision,
// matching the RFC3339 storage format.
func now() time.Time {
	return time.Now().UTC().Truncate(time.Second)
}

// formatTime serialises a timestamp for storage.
func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

// parseTime deserialises a stored timestamp.
func parseTime(s string) time.Time {
	t, _ := time.Parse(time.RFC3339, s) //nolint:errcheck // Format is controlled
	return t
}
