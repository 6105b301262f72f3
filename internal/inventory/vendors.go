package inventory

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
)

// CreateVendor creates a vendor record. The composite identifier is
// derived by cleaning name and model; it must be unique.
func (s *Store) CreateVendor(ctx context.Context, name, model string) (*Vendor, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: vendor name", ErrEmptyValue)
	}
	if model == "" {
		return nil, fmt.Errorf("%w: vendor model", ErrEmptyValue)
	}

	vendor := &Vendor{
		ID:        uuid.New().String(),
		Name:      name,
		Model:     model,
		NameID:    CleanName(name) + "_" + CleanName(model),
		CreatedAt: now(),
	}

	err := s.withTx(ctx, func(tx *sql.Tx) error {
		dup, err := exists(ctx, tx,
			"SELECT COUNT(*) FROM vendors WHERE name_id = ?", vendor.NameID)
		if err != nil {
			return err
		}
		if dup {
			return fmt.Errorf("%w: %s", ErrDuplicateVendorNameModel, vendor.NameID)
		}

		_, err = tx.ExecContext(ctx,
			"INSERT INTO vendors (id, name, model, name_id, created_at) VALUES (?, ?, ?, ?, ?)",
			vendor.ID, vendor.Name, vendor.Model, vendor.NameID, formatTime(vendor.CreatedAt))
		if err != nil {
			return fmt.Errorf("inserting vendor: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("vendor created", "id", vendor.ID, "name_id", vendor.NameID)
	return vendor, nil
}

// GetVendor retrieves a vendor by ID.
func (s *Store) GetVendor(ctx context.Context, id string) (*Vendor, error) {
	return scanVendor(s.db.QueryRowContext(ctx,
		"SELECT id, name, model, name_id, created_at FROM vendors WHERE id = ?", id))
}

// ListVendors returns all vendors ordered by composite identifier.
func (s *Store) ListVendors(ctx context.Context) ([]*Vendor, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, name, model, name_id, created_at FROM vendors ORDER BY name_id")
	if err != nil {
		return nil, fmt.Errorf("querying vendors: %w", err)
	}
	defer rows.Close()

	var vendors []*Vendor
	for rows.Next() {
		v, err := scanVendor(rows)
		if err != nil {
			return nil, err
		}
		vendors = append(vendors, v)
	}
	return vendors, rows.Err()
}

// DeleteVendor always fails. Vendors are append-only.
func (s *Store) DeleteVendor(_ context.Context, _ string) error {
	return fmt.Errorf("%w: vendors cannot be deleted", ErrInvalidOperation)
}

func scanVendor(row rowScanner) (*Vendor, error) {
	var v Vendor
	var createdAt string
	if err := row.Scan(&v.ID, &v.Name, &v.Model, &v.NameID, &createdAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("%w: vendor", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning vendor: %w", err)
	}
	v.CreatedAt = parseTime(createdAt)
	return &v, nil
}
