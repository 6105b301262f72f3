package inventory

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
)

// CreateCa creates a capture agent record. serialNumber may be empty;
// an empty serial number is exempt from the uniqueness check.
//
// Constraints are validated in order: vendor reference, name, address,
// serial number.
func (s *Store) CreateCa(ctx context.Context, name, address, vendorID, serialNumber string) (*Ca, error) {
	ca := &Ca{
		ID:           uuid.New().String(),
		Name:         name,
		Address:      address,
		SerialNumber: serialNumber,
		VendorID:     vendorID,
		CreatedAt:    now(),
	}

	err := s.withTx(ctx, func(tx *sql.Tx) error {
		if err := checkCaConstraints(ctx, tx, "", map[string]string{
			"vendor_id":     vendorID,
			"name":          name,
			"address":       address,
			"serial_number": serialNumber,
		}); err != nil {
			return err
		}

		_, err := tx.ExecContext(ctx,
			`INSERT INTO cas (id, name, address, serial_number, vendor_id, created_at)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			ca.ID, ca.Name, ca.Address, nullString(ca.SerialNumber),
			ca.VendorID, formatTime(ca.CreatedAt))
		if err != nil {
			return fmt.Errorf("inserting capture agent: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("capture agent created", "id", ca.ID, "name", ca.Name)
	return ca, nil
}

// checkCaConstraints validates capture agent fields against the
// uniqueness and presence rules. The order of checks is fixed:
// vendor_id, name, address, serial_number. excludeID, when non-empty,
// exempts that row from the duplicate checks (used on update so a
// field can be rewritten to its current value).
func checkCaConstraints(ctx context.Context, tx *sql.Tx, excludeID string, fields map[string]string) error {
	if vendorID, ok := fields["vendor_id"]; ok {
		if vendorID == "" {
			return fmt.Errorf("%w: vendor_id", ErrEmptyValue)
		}
		found, err := exists(ctx, tx,
			"SELECT COUNT(*) FROM vendors WHERE id = ?", vendorID)
		if err != nil {
			return err
		}
		if !found {
			return fmt.Errorf("%w: vendor_id(%s)", ErrMissingVendor, vendorID)
		}
	}

	if name, ok := fields["name"]; ok {
		if name == "" {
			return fmt.Errorf("%w: name", ErrEmptyValue)
		}
		dup, err := exists(ctx, tx,
			"SELECT COUNT(*) FROM cas WHERE name = ? AND id != ?", name, excludeID)
		if err != nil {
			return err
		}
		if dup {
			return fmt.Errorf("%w: %s", ErrDuplicateCaName, name)
		}
	}

	if address, ok := fields["address"]; ok {
		if address == "" {
			return fmt.Errorf("%w: address", ErrEmptyValue)
		}
		dup, err := exists(ctx, tx,
			"SELECT COUNT(*) FROM cas WHERE address = ? AND id != ?", address, excludeID)
		if err != nil {
			return err
		}
		if dup {
			return fmt.Errorf("%w: %s", ErrDuplicateCaAddress, address)
		}
	}

	if serial, ok := fields["serial_number"]; ok && serial != "" {
		dup, err := exists(ctx, tx,
			"SELECT COUNT(*) FROM cas WHERE serial_number = ? AND id != ?", serial, excludeID)
		if err != nil {
			return err
		}
		if dup {
			return fmt.Errorf("%w: %s", ErrDuplicateCaSerial, serial)
		}
	}

	return nil
}

// GetCa retrieves a capture agent by ID.
func (s *Store) GetCa(ctx context.Context, id string) (*Ca, error) {
	return scanCa(s.db.QueryRowContext(ctx,
		`SELECT id, name, address, serial_number, vendor_id, capture_card_id, created_at
		 FROM cas WHERE id = ?`, id))
}

// ListCas returns all capture agents ordered by name.
func (s *Store) ListCas(ctx context.Context) ([]*Ca, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, address, serial_number, vendor_id, capture_card_id, created_at
		 FROM cas ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("querying capture agents: %w", err)
	}
	defer rows.Close()

	var cas []*Ca
	for rows.Next() {
		ca, err := scanCa(rows)
		if err != nil {
			return nil, err
		}
		cas = append(cas, ca)
	}
	return cas, rows.Err()
}

// UpdateCa updates a capture agent. Only name, address, and
// serial_number may be supplied; any other key fails with
// ErrInvalidOperation and no field is changed. Supplied fields are
// re-validated with the same constraint checks as creation.
func (s *Store) UpdateCa(ctx context.Context, id string, fields map[string]string) (*Ca, error) {
	for key := range fields {
		if !UpdatableCaFields[key] {
			return nil, fmt.Errorf("%w: field %q is not updatable", ErrInvalidOperation, key)
		}
	}

	err := s.withTx(ctx, func(tx *sql.Tx) error {
		found, err := exists(ctx, tx, "SELECT COUNT(*) FROM cas WHERE id = ?", id)
		if err != nil {
			return err
		}
		if !found {
			return fmt.Errorf("%w: capture agent %s", ErrNotFound, id)
		}

		if err := checkCaConstraints(ctx, tx, id, fields); err != nil {
			return err
		}

		for key, value := range fields {
			var arg any = value
			if key == "serial_number" {
				arg = nullString(value)
			}
			query := fmt.Sprintf("UPDATE cas SET %s = ? WHERE id = ?", key)
			if _, err := tx.ExecContext(ctx, query, arg, id); err != nil {
				return fmt.Errorf("updating capture agent %s: %w", key, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.GetCa(ctx, id)
}

// SetCaptureCardID records the capture card identifier used for source
// layout generation. This is the only mutation path for the field.
func (s *Store) SetCaptureCardID(ctx context.Context, id string, cardID int) error {
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		result, err := tx.ExecContext(ctx,
			"UPDATE cas SET capture_card_id = ? WHERE id = ?", cardID, id)
		if err != nil {
			return fmt.Errorf("setting capture card id: %w", err)
		}
		n, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("checking update: %w", err)
		}
		if n == 0 {
			return fmt.Errorf("%w: capture agent %s", ErrNotFound, id)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Info("capture card assigned", "ca_id", id, "capture_card_id", cardID)
	return nil
}

// DeleteCa deletes a capture agent, removing its role binding and
// configuration first. Deleting an agent with no role skips the role
// step.
func (s *Store) DeleteCa(ctx context.Context, id string) error {
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		found, err := exists(ctx, tx, "SELECT COUNT(*) FROM cas WHERE id = ?", id)
		if err != nil {
			return err
		}
		if !found {
			return fmt.Errorf("%w: capture agent %s", ErrNotFound, id)
		}
		return deleteCaTx(ctx, tx, id)
	})
	if err != nil {
		return err
	}

	s.logger.Info("capture agent deleted", "id", id)
	return nil
}

// deleteCaTx removes a capture agent row plus its role and
// configuration inside an existing transaction. Shared by the
// location and cluster cascade paths.
func deleteCaTx(ctx context.Context, tx *sql.Tx, id string) error {
	steps := []struct {
		desc  string
		query string
	}{
		{"role", "DELETE FROM roles WHERE ca_id = ?"},
		{"channels", "DELETE FROM channel_configs WHERE ca_id = ?"},
		{"recorders", "DELETE FROM recorder_configs WHERE ca_id = ?"},
		{"mhpearl config", "DELETE FROM mhpearl_configs WHERE ca_id = ?"},
		{"capture agent", "DELETE FROM cas WHERE id = ?"},
	}
	for _, step := range steps {
		if _, err := tx.ExecContext(ctx, step.query, id); err != nil {
			return fmt.Errorf("deleting %s: %w", step.desc, err)
		}
	}
	return nil
}

// nullString maps an empty string to NULL for nullable columns.
func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func scanCa(row rowScanner) (*Ca, error) {
	var ca Ca
	var serial sql.NullString
	var cardID sql.NullInt64
	var createdAt string
	err := row.Scan(&ca.ID, &ca.Name, &ca.Address, &serial, &ca.VendorID,
		&cardID, &createdAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("%w: capture agent", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning capture agent: %w", err)
	}
	ca.SerialNumber = serial.String
	if cardID.Valid {
		id := int(cardID.Int64)
		ca.CaptureCardID = &id
	}
	ca.CreatedAt = parseTime(createdAt)
	return &ca, nil
}
