package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/aeromaint-labs/relgraph-core/internal/core/domain"
	"github.com/aeromaint-labs/relgraph-core/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.VersionStore = (*VersionStore)(nil)

// VersionStore implements driven.VersionStore using PostgreSQL
type VersionStore struct {
	db *DB
}

// NewVersionStore creates a new VersionStore
func NewVersionStore(db *DB) *VersionStore {
	return &VersionStore{db: db}
}

const versionColumns = `id, document_id, version, content_hash, changes, metadata, is_active, created_at`

// Add inserts a version, relying on the (document_id, version) unique
// constraint for idempotency under concurrent callers: a duplicate key is
// treated as "return existing", never as an error. The notification, when
// given, commits in the same transaction as the version row.
func (s *VersionStore) Add(ctx context.Context, v *domain.DocumentVersion, notify *domain.UpdateNotification) (*domain.DocumentVersion, bool, error) {
	changesJSON, err := json.Marshal(v.Changes)
	if err != nil {
		return nil, false, err
	}
	metadataJSON, err := json.Marshal(v.Metadata)
	if err != nil {
		return nil, false, err
	}

	inserted := false
	err = s.db.Transaction(ctx, func(tx *sql.Tx) error {
		query := `
			INSERT INTO document_versions (id, document_id, version, content_hash, changes, metadata, is_active, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			ON CONFLICT (document_id, version) DO NOTHING
		`
		result, err := tx.ExecContext(ctx, query,
			v.ID,
			v.DocumentID,
			v.Version,
			v.ContentHash,
			changesJSON,
			metadataJSON,
			v.IsActive,
			v.CreatedAt,
		)
		if err != nil {
			return err
		}
		rows, err := result.RowsAffected()
		if err != nil {
			return err
		}
		if rows == 0 {
			return nil
		}
		inserted = true

		if notify != nil {
			return insertNotificationTx(ctx, tx, notify)
		}
		return nil
	})
	if err != nil {
		return nil, false, err
	}

	if inserted {
		return v, true, nil
	}

	existing, err := s.Get(ctx, v.DocumentID, v.Version)
	if err != nil {
		return nil, false, fmt.Errorf("fetch existing version: %w", err)
	}
	return existing, false, nil
}

// Get retrieves a version; an empty version label selects the latest.
func (s *VersionStore) Get(ctx context.Context, documentID, version string) (*domain.DocumentVersion, error) {
	if version == "" {
		query := `
			SELECT ` + versionColumns + `
			FROM document_versions
			WHERE document_id = $1
			ORDER BY created_at DESC, id DESC
			LIMIT 1
		`
		return scanVersionFrom(s.db.QueryRowContext(ctx, query, documentID))
	}

	query := `
		SELECT ` + versionColumns + `
		FROM document_versions
		WHERE document_id = $1 AND version = $2
	`
	return scanVersionFrom(s.db.QueryRowContext(ctx, query, documentID, version))
}

// List returns versions for a document, newest first.
func (s *VersionStore) List(ctx context.Context, documentID string, limit int) ([]*domain.DocumentVersion, error) {
	query := `
		SELECT ` + versionColumns + `
		FROM document_versions
		WHERE document_id = $1
		ORDER BY created_at DESC, id DESC
	`
	args := []any{documentID}
	if limit > 0 {
		query += ` LIMIT $2`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var versions []*domain.DocumentVersion
	for rows.Next() {
		v, err := scanVersionFrom(rows)
		if err != nil {
			return nil, err
		}
		versions = append(versions, v)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return versions, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanVersionFrom(row rowScanner) (*domain.DocumentVersion, error) {
	var v domain.DocumentVersion
	var changesJSON, metadataJSON []byte

	err := row.Scan(
		&v.ID,
		&v.DocumentID,
		&v.Version,
		&v.ContentHash,
		&changesJSON,
		&metadataJSON,
		&v.IsActive,
		&v.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	if len(changesJSON) > 0 {
		if err := json.Unmarshal(changesJSON, &v.Changes); err != nil {
			return nil, err
		}
	}
	if len(metadataJSON) > 0 {
		if err := json.Unmarshal(metadataJSON, &v.Metadata); err != nil {
			return nil, err
		}
	}
	return &v, nil
}
