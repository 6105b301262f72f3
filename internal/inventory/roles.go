package inventory

import (
	"context"
	"database/sql"
	"fmt"
)

// CreateRole binds a capture agent to a location and cluster.
//
// Checks run in order: role name validity, all three references exist,
// the agent has no role yet, and for primary/secondary the location
// doesn't already hold that role. Experimental roles are unlimited
// per location.
func (s *Store) CreateRole(ctx context.Context, caID, locationID, clusterID, name string) (*Role, error) {
	roleName, err := validRole(name)
	if err != nil {
		return nil, err
	}

	role := &Role{
		CaID:       caID,
		LocationID: locationID,
		ClusterID:  clusterID,
		Name:       roleName,
		CreatedAt:  now(),
	}

	err = s.withTx(ctx, func(tx *sql.Tx) error {
		for _, ref := range []struct {
			table string
			id    string
		}{
			{"cas", caID},
			{"locations", locationID},
			{"mh_clusters", clusterID},
		} {
			found, err := exists(ctx, tx,
				fmt.Sprintf("SELECT COUNT(*) FROM %s WHERE id = ?", ref.table), ref.id)
			if err != nil {
				return err
			}
			if !found {
				return fmt.Errorf("%w: %s %s", ErrNotFound, ref.table, ref.id)
			}
		}

		taken, err := exists(ctx, tx,
			"SELECT COUNT(*) FROM roles WHERE ca_id = ?", caID)
		if err != nil {
			return err
		}
		if taken {
			return fmt.Errorf("%w: capture agent %s already has a role", ErrAssociation, caID)
		}

		if roleName != RoleExperimental {
			dup, err := exists(ctx, tx,
				"SELECT COUNT(*) FROM roles WHERE location_id = ? AND name = ?",
				locationID, string(roleName))
			if err != nil {
				return err
			}
			if dup {
				return fmt.Errorf("%w: location %s already has a %s capture agent",
					ErrAssociation, locationID, roleName)
			}
		}

		_, err = tx.ExecContext(ctx,
			`INSERT INTO roles (ca_id, location_id, cluster_id, name, created_at)
			 VALUES (?, ?, ?, ?, ?)`,
			role.CaID, role.LocationID, role.ClusterID, string(role.Name),
			formatTime(role.CreatedAt))
		if err != nil {
			return fmt.Errorf("inserting role: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("role created",
		"ca_id", role.CaID, "location_id", role.LocationID, "name", string(role.Name))
	return role, nil
}

// GetRoleByCa retrieves the role binding of a capture agent, if any.
func (s *Store) GetRoleByCa(ctx context.Context, caID string) (*Role, error) {
	return scanRole(s.db.QueryRowContext(ctx,
		`SELECT ca_id, location_id, cluster_id, name, created_at
		 FROM roles WHERE ca_id = ?`, caID))
}

// ListRoles returns all role bindings.
func (s *Store) ListRoles(ctx context.Context) ([]*Role, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT ca_id, location_id, cluster_id, name, created_at
		 FROM roles ORDER BY location_id, name`)
	if err != nil {
		return nil, fmt.Errorf("querying roles: %w", err)
	}
	defer rows.Close()

	var roles []*Role
	for rows.Next() {
		r, err := scanRole(rows)
		if err != nil {
			return nil, err
		}
		roles = append(roles, r)
	}
	return roles, rows.Err()
}

// UpdateRole always fails. Role bindings are immutable once created.
func (s *Store) UpdateRole(_ context.Context, _ string) error {
	return fmt.Errorf("%w: role bindings cannot be updated", ErrInvalidOperation)
}

func scanRole(row rowScanner) (*Role, error) {
	var r Role
	var name, createdAt string
	err := row.Scan(&r.CaID, &r.LocationID, &r.ClusterID, &name, &createdAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("%w: role", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning role: %w", err)
	}
	r.Name = RoleName(name)
	r.CreatedAt = parseTime(createdAt)
	return &r, nil
}
