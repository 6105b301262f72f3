package inventory

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
)

// CreateCluster creates a scheduling cluster record. The environment
// is validated first, then name uniqueness, then admin host uniqueness.
func (s *Store) CreateCluster(ctx context.Context, name, adminHost, env string) (*MhCluster, error) {
	environment, err := validEnv(env)
	if err != nil {
		return nil, err
	}
	if name == "" {
		return nil, fmt.Errorf("%w: cluster name", ErrEmptyValue)
	}
	if adminHost == "" {
		return nil, fmt.Errorf("%w: cluster admin host", ErrEmptyValue)
	}

	cluster := &MhCluster{
		ID:        uuid.New().String(),
		Name:      name,
		AdminHost: adminHost,
		Env:       environment,
		CreatedAt: now(),
	}

	err = s.withTx(ctx, func(tx *sql.Tx) error {
		dup, err := exists(ctx, tx,
			"SELECT COUNT(*) FROM mh_clusters WHERE name = ?", name)
		if err != nil {
			return err
		}
		if dup {
			return fmt.Errorf("%w: %s", ErrDuplicateClusterName, name)
		}

		dup, err = exists(ctx, tx,
			"SELECT COUNT(*) FROM mh_clusters WHERE admin_host = ?", adminHost)
		if err != nil {
			return err
		}
		if dup {
			return fmt.Errorf("%w: %s", ErrDuplicateClusterAdminHost, adminHost)
		}

		_, err = tx.ExecContext(ctx,
			"INSERT INTO mh_clusters (id, name, admin_host, env, created_at) VALUES (?, ?, ?, ?, ?)",
			cluster.ID, cluster.Name, cluster.AdminHost, string(cluster.Env),
			formatTime(cluster.CreatedAt))
		if err != nil {
			return fmt.Errorf("inserting cluster: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("cluster created",
		"id", cluster.ID, "name", cluster.Name, "env", string(cluster.Env))
	return cluster, nil
}

// GetCluster retrieves a cluster by ID.
func (s *Store) GetCluster(ctx context.Context, id string) (*MhCluster, error) {
	return scanCluster(s.db.QueryRowContext(ctx,
		"SELECT id, name, admin_host, env, created_at FROM mh_clusters WHERE id = ?", id))
}

// ListClusters returns all clusters ordered by name.
func (s *Store) ListClusters(ctx context.Context) ([]*MhCluster, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, name, admin_host, env, created_at FROM mh_clusters ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("querying clusters: %w", err)
	}
	defer rows.Close()

	var clusters []*MhCluster
	for rows.Next() {
		c, err := scanCluster(rows)
		if err != nil {
			return nil, err
		}
		clusters = append(clusters, c)
	}
	return clusters, rows.Err()
}

// DeleteCluster deletes a cluster and cascades: every capture agent
// bound to the cluster through a role is deleted, then the cluster.
func (s *Store) DeleteCluster(ctx context.Context, id string) error {
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		found, err := exists(ctx, tx,
			"SELECT COUNT(*) FROM mh_clusters WHERE id = ?", id)
		if err != nil {
			return err
		}
		if !found {
			return fmt.Errorf("%w: cluster %s", ErrNotFound, id)
		}

		caIDs, err := roleCaIDs(ctx, tx, "cluster_id", id)
		if err != nil {
			return err
		}
		for _, caID := range caIDs {
			if err := deleteCaTx(ctx, tx, caID); err != nil {
				return err
			}
		}

		if _, err := tx.ExecContext(ctx,
			"DELETE FROM mh_clusters WHERE id = ?", id); err != nil {
			return fmt.Errorf("deleting cluster: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Info("cluster deleted", "id", id)
	return nil
}

func scanCluster(row rowScanner) (*MhCluster, error) {
	var c MhCluster
	var env, createdAt string
	if err := row.Scan(&c.ID, &c.Name, &c.AdminHost, &env, &createdAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("%w: cluster", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning cluster: %w", err)
	}
	c.Env = Environment(env)
	c.CreatedAt = parseTime(createdAt)
	return &c, nil
}
