package inventory

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
)

// CreateLocation creates a room record. The name must be globally
// unique (case-sensitive, exact match as stored).
func (s *Store) CreateLocation(ctx context.Context, name string) (*Location, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: location name", ErrEmptyValue)
	}

	loc := &Location{
		ID:        uuid.New().String(),
		Name:      name,
		CreatedAt: now(),
	}

	err := s.withTx(ctx, func(tx *sql.Tx) error {
		dup, err := exists(ctx, tx,
			"SELECT COUNT(*) FROM locations WHERE name = ?", name)
		if err != nil {
			return err
		}
		if dup {
			return fmt.Errorf("%w: %s", ErrDuplicateLocationName, name)
		}

		_, err = tx.ExecContext(ctx,
			"INSERT INTO locations (id, name, created_at) VALUES (?, ?, ?)",
			loc.ID, loc.Name, formatTime(loc.CreatedAt))
		if err != nil {
			return fmt.Errorf("inserting location: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("location created", "id", loc.ID, "name", loc.Name)
	return loc, nil
}

// GetLocation retrieves a location by ID.
func (s *Store) GetLocation(ctx context.Context, id string) (*Location, error) {
	return scanLocation(s.db.QueryRowContext(ctx,
		"SELECT id, name, created_at FROM locations WHERE id = ?", id))
}

// GetLocationByName retrieves a location by its unique name.
func (s *Store) GetLocationByName(ctx context.Context, name string) (*Location, error) {
	return scanLocation(s.db.QueryRowContext(ctx,
		"SELECT id, name, created_at FROM locations WHERE name = ?", name))
}

// ListLocations returns all locations ordered by name.
func (s *Store) ListLocations(ctx context.Context) ([]*Location, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, name, created_at FROM locations ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("querying locations: %w", err)
	}
	defer rows.Close()

	var locations []*Location
	for rows.Next() {
		loc, err := scanLocation(rows)
		if err != nil {
			return nil, err
		}
		locations = append(locations, loc)
	}
	return locations, rows.Err()
}

// DeleteLocation deletes a location and cascades: every capture agent
// bound to the location through a role is deleted (role first, then
// agent), then the location itself.
func (s *Store) DeleteLocation(ctx context.Context, id string) error {
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		found, err := exists(ctx, tx,
			"SELECT COUNT(*) FROM locations WHERE id = ?", id)
		if err != nil {
			return err
		}
		if !found {
			return fmt.Errorf("%w: location %s", ErrNotFound, id)
		}

		caIDs, err := roleCaIDs(ctx, tx, "location_id", id)
		if err != nil {
			return err
		}
		for _, caID := range caIDs {
			if err := deleteCaTx(ctx, tx, caID); err != nil {
				return err
			}
		}

		if _, err := tx.ExecContext(ctx,
			"DELETE FROM location_configs WHERE location_id = ?", id); err != nil {
			return fmt.Errorf("deleting location config: %w", err)
		}
		if _, err := tx.ExecContext(ctx,
			"DELETE FROM locations WHERE id = ?", id); err != nil {
			return fmt.Errorf("deleting location: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Info("location deleted", "id", id)
	return nil
}

// roleCaIDs returns the ca_id of every role matching the given column.
func roleCaIDs(ctx context.Context, tx *sql.Tx, column, id string) ([]string, error) {
	rows, err := tx.QueryContext(ctx,
		fmt.Sprintf("SELECT ca_id FROM roles WHERE %s = ?", column), id)
	if err != nil {
		return nil, fmt.Errorf("querying roles: %w", err)
	}
	defer rows.Close()

	var caIDs []string
	for rows.Next() {
		var caID string
		if err := rows.Scan(&caID); err != nil {
			return nil, fmt.Errorf("scanning role: %w", err)
		}
		caIDs = append(caIDs, caID)
	}
	return caIDs, rows.Err()
}

// rowScanner abstracts sql.Row and sql.Rows for the scan helpers.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanLocation(row rowScanner) (*Location, error) {
	var loc Location
	var createdAt string
	if err := row.Scan(&loc.ID, &loc.Name, &createdAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("%w: location", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning location: %w", err)
	}
	loc.CreatedAt = parseTime(createdAt)
	return &loc, nil
}
